package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/esang-logistics/spectra-cli/internal/catalog"
)

var (
	classifyAPI       float64
	classifySulfur    float64
	classifyViscosity float64
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Label individual readings without running a full match",
	Long: `Maps single readings onto the fixed classification bands: API gravity
(Extra Heavy / Heavy / Medium / Light), sulfur (Sweet / Medium Sour / Sour)
and viscosity flow bands.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		printed := false
		if cmd.Flags().Changed("api") {
			fmt.Printf("API gravity %.2f °API: %s\n", classifyAPI, catalog.ClassifyAPI(classifyAPI))
			printed = true
		}
		if cmd.Flags().Changed("sulfur") {
			fmt.Printf("Sulfur %.2f %%: %s\n", classifySulfur, catalog.ClassifySulfur(classifySulfur))
			printed = true
		}
		if cmd.Flags().Changed("viscosity") {
			fmt.Printf("Viscosity %.2f cSt@40°C: %s\n", classifyViscosity, catalog.ClassifyViscosity(classifyViscosity))
			printed = true
		}
		if !printed {
			return eris.New("classify: provide at least one of --api, --sulfur, --viscosity")
		}
		return nil
	},
}

func init() {
	classifyCmd.Flags().Float64Var(&classifyAPI, "api", 0, "API gravity in °API")
	classifyCmd.Flags().Float64Var(&classifySulfur, "sulfur", 0, "sulfur content in %")
	classifyCmd.Flags().Float64Var(&classifyViscosity, "viscosity", 0, "kinematic viscosity in cSt at 40°C")
	rootCmd.AddCommand(classifyCmd)
}
