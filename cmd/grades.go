package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/esang-logistics/spectra-cli/internal/catalog"
)

var (
	gradesCountry string
	gradesType    string
	gradesJSON    bool
)

var gradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "Browse the reference grade catalog",
}

var gradesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog grades, optionally filtered by country or type",
	RunE: func(_ *cobra.Command, _ []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return eris.Wrap(err, "grades: load catalog")
		}

		grades := cat.All()
		if gradesCountry != "" {
			grades = cat.ByCountry(gradesCountry)
		} else if gradesType != "" {
			grades = cat.ByType(gradesType)
		}

		return printGrades(grades)
	},
}

var gradesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one grade's full reference record",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return eris.Wrap(err, "grades: load catalog")
		}

		g, ok := cat.GetByID(args[0])
		if !ok {
			return eris.Errorf("grades: unknown grade id %q", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(g)
	},
}

var gradesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search grades by name, region, type or country",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return eris.Wrap(err, "grades: load catalog")
		}
		return printGrades(cat.Search(args[0]))
	},
}

func init() {
	gradesListCmd.Flags().StringVar(&gradesCountry, "country", "", "filter by country code")
	gradesListCmd.Flags().StringVar(&gradesType, "type", "", "filter by type substring, e.g. 'sour'")
	gradesCmd.PersistentFlags().BoolVar(&gradesJSON, "json", false, "print as JSON")
	gradesCmd.AddCommand(gradesListCmd, gradesGetCmd, gradesSearchCmd)
	rootCmd.AddCommand(gradesCmd)
}

func printGrades(grades []catalog.GradeSpec) error {
	if gradesJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(grades)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tCOUNTRY\tREGION\tAPI\tSULFUR %")
	for _, g := range grades {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.1f\t%.2f\n",
			g.ID, g.Name, g.Type, g.Country, g.Region, g.API.Typical, g.Sulfur.Typical)
	}
	return w.Flush()
}
