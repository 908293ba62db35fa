package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/esang-logistics/spectra-cli/internal/monitoring"
	"github.com/esang-logistics/spectra-cli/internal/store"
)

var (
	statsHours int
	statsJSON  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize recorded identifications",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return eris.Wrap(err, "stats: open store")
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "stats: migrate store")
		}

		snap, err := monitoring.NewCollector(st).Collect(ctx, statsHours)
		if err != nil {
			return err
		}

		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}

		fmt.Printf("Last %dh: %d identifications, avg confidence %.1f, %d low-confidence\n\n",
			snap.LookbackHours, snap.Total, snap.AvgConfidence, snap.LowConfidence)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TOP GRADE\tCOUNT\tAVG CONFIDENCE")
		for _, g := range snap.Grades {
			fmt.Fprintf(w, "%s\t%d\t%.1f\n", g.GradeID, g.Count, g.AvgConfidence)
		}
		return w.Flush()
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsHours, "hours", 24, "lookback window in hours")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(statsCmd)
}
