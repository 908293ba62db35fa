package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/esang-logistics/spectra-cli/internal/match"
	"github.com/esang-logistics/spectra-cli/internal/store"
)

var (
	identifyAPI         float64
	identifyBSW         float64
	identifySulfur      float64
	identifySalt        float64
	identifyRVP         float64
	identifyPourPoint   float64
	identifyFlashPoint  float64
	identifyViscosity   float64
	identifyTAN         float64
	identifyTemperature float64
	identifyCountry     string
	identifyBasin       string
	identifyMaxResults  int
	identifyMinConf     int
	identifyJSON        bool
	identifyExplain     bool
	identifyRecord      bool
)

var identifyCmd = &cobra.Command{
	Use:   "identify",
	Short: "Identify the most probable crude grades for a set of readings",
	Long: `Scores the sample readings against every catalog grade and prints a
ranked candidate list. API gravity and BS&W are required; everything else is
optional and simply excluded from scoring when not given.

Examples:
  # WTI-like light sweet sample
  spectra-cli identify --api 39.6 --bsw 0.3 --sulfur 0.24

  # Extra-heavy sour sample with a geographic hint
  spectra-cli identify --api 10.1 --bsw 1.0 --sulfur 5.7 --country VE --explain`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		_, eng, err := initEngine()
		if err != nil {
			return eris.Wrap(err, "identify: load catalog")
		}

		sample := sampleFromFlags(cmd)
		results, err := eng.Match(sample)
		if err != nil {
			return eris.Wrap(err, "identify: match sample")
		}

		minConf := identifyMinConf
		if !cmd.Flags().Changed("min-confidence") {
			minConf = cfg.Match.MinConfidence
		}
		results = filterMinConfidence(results, minConf)

		if identifyRecord {
			st, err := store.NewSQLite(cfg.Store.Path)
			if err != nil {
				return eris.Wrap(err, "identify: open store")
			}
			defer st.Close()
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "identify: migrate store")
			}
			rec, err := st.SaveIdentification(ctx, sample, results)
			if err != nil {
				return eris.Wrap(err, "identify: record identification")
			}
			zap.L().Info("identification recorded", zap.String("id", rec.ID))
		}

		if identifyJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		printMatchTable(results)
		if identifyExplain && len(results) > 0 {
			printBreakdown(&results[0])
		}
		return nil
	},
}

func init() {
	f := identifyCmd.Flags()
	f.Float64Var(&identifyAPI, "api", 0, "API gravity in °API (required)")
	f.Float64Var(&identifyBSW, "bsw", 0, "basic sediment & water in % (required)")
	f.Float64Var(&identifySulfur, "sulfur", 0, "sulfur content in %")
	f.Float64Var(&identifySalt, "salt", 0, "salt content in PTB")
	f.Float64Var(&identifyRVP, "rvp", 0, "Reid vapor pressure in psi")
	f.Float64Var(&identifyPourPoint, "pour-point", 0, "pour point in °C")
	f.Float64Var(&identifyFlashPoint, "flash-point", 0, "flash point in °C")
	f.Float64Var(&identifyViscosity, "viscosity", 0, "kinematic viscosity in cSt at 40°C")
	f.Float64Var(&identifyTAN, "tan", 0, "total acid number in mg KOH/g")
	f.Float64Var(&identifyTemperature, "temperature", 0, "sample temperature in °C (recorded, not scored)")
	f.StringVar(&identifyCountry, "country", "", "country hint, e.g. US (tie-breaker only)")
	f.StringVar(&identifyBasin, "basin", "", "source basin hint (tie-breaker only)")
	f.IntVar(&identifyMaxResults, "max-results", 0, "cap on ranked results (default from config)")
	f.IntVar(&identifyMinConf, "min-confidence", 0, "drop results below this confidence")
	f.BoolVar(&identifyJSON, "json", false, "print full results as JSON")
	f.BoolVar(&identifyExplain, "explain", false, "print the per-parameter breakdown of the best match")
	f.BoolVar(&identifyRecord, "record", false, "record this identification in the history store")
	_ = identifyCmd.MarkFlagRequired("api")
	_ = identifyCmd.MarkFlagRequired("bsw")
	rootCmd.AddCommand(identifyCmd)
}

// sampleFromFlags builds a SampleInput, treating unchanged optional flags as
// absent readings rather than zero readings.
func sampleFromFlags(cmd *cobra.Command) match.SampleInput {
	sample := match.SampleInput{
		APIGravity:  match.Float(identifyAPI),
		BSW:         match.Float(identifyBSW),
		Country:     identifyCountry,
		SourceBasin: identifyBasin,
		MaxResults:  identifyMaxResults,
	}

	optional := []struct {
		flag  string
		value float64
		dst   **float64
	}{
		{"sulfur", identifySulfur, &sample.Sulfur},
		{"salt", identifySalt, &sample.Salt},
		{"rvp", identifyRVP, &sample.RVP},
		{"pour-point", identifyPourPoint, &sample.PourPoint},
		{"flash-point", identifyFlashPoint, &sample.FlashPoint},
		{"viscosity", identifyViscosity, &sample.Viscosity},
		{"tan", identifyTAN, &sample.TAN},
		{"temperature", identifyTemperature, &sample.Temperature},
	}
	for _, o := range optional {
		if cmd.Flags().Changed(o.flag) {
			*o.dst = match.Float(o.value)
		}
	}
	return sample
}

// filterMinConfidence drops ranked results below the threshold. Presentation
// concern only; the engine always scores the full catalog.
func filterMinConfidence(results []match.MatchResult, minConf int) []match.MatchResult {
	if minConf <= 0 {
		return results
	}
	out := results[:0]
	for _, r := range results {
		if r.Confidence >= minConf {
			out = append(out, r)
		}
	}
	return out
}

func printMatchTable(results []match.MatchResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tGRADE\tTYPE\tCOUNTRY\tCONFIDENCE\tLABEL\tPARAMS")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%d/%d\n",
			i+1, r.Grade.Name, r.Grade.Type, r.Grade.Country,
			r.Confidence, r.ConfidenceLabel,
			r.MatchedParameters, r.TotalParameters,
		)
	}
	w.Flush()
}

func printBreakdown(result *match.MatchResult) {
	fmt.Printf("\nBreakdown for %s (%s):\n", result.Grade.Name, result.Grade.Region)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMETER\tVALUE\tTYPICAL\tUNIT\tSCORE\tACCURACY\tWEIGHT\tIN TOLERANCE")
	for _, param := range []match.Parameter{
		match.ParamAPIGravity, match.ParamSulfur, match.ParamBSW,
		match.ParamSalt, match.ParamRVP, match.ParamPourPoint,
		match.ParamFlashPoint, match.ParamViscosity, match.ParamTAN,
	} {
		ps, ok := result.ParameterScores[param]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%s\t%.1f\t%s\t%d\t%t\n",
			param, ps.Value, ps.Typical, ps.Unit, ps.Score, ps.Accuracy, ps.Weight, ps.WithinTolerance)
	}
	w.Flush()
}
