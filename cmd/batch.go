package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/esang-logistics/spectra-cli/internal/batch"
)

var (
	batchInput       string
	batchOutput      string
	batchFormat      string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Identify a CSV of samples concurrently",
	Long: `Reads one sample per CSV row and scores each against the catalog.

Recognized columns: api_gravity, bsw, sulfur, salt, rvp, pour_point,
flash_point, viscosity, tan, temperature, country, source_basin.

Examples:
  spectra-cli batch --input samples.csv
  spectra-cli batch --input samples.csv --format json --output results.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		f, err := os.Open(batchInput)
		if err != nil {
			return eris.Wrap(err, "batch: open input")
		}
		defer f.Close() //nolint:errcheck

		rows, err := batch.ParseCSV(f)
		if err != nil {
			return err
		}
		zap.L().Info("parsed samples", zap.Int("rows", len(rows)))

		_, eng, err := initEngine()
		if err != nil {
			return eris.Wrap(err, "batch: load catalog")
		}

		results := batch.Run(ctx, eng, rows, batchConcurrency)

		failed := 0
		for _, r := range results {
			if r.Error != "" {
				failed++
			}
		}
		zap.L().Info("batch complete",
			zap.Int("total", len(results)),
			zap.Int("failed", failed),
		)

		out := os.Stdout
		if batchOutput != "" {
			of, err := os.Create(batchOutput)
			if err != nil {
				return eris.Wrap(err, "batch: create output file")
			}
			defer of.Close() //nolint:errcheck
			out = of
		}

		if batchFormat == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		return writeBatchCSV(out, results)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "path to samples CSV (required)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write results to file (default: stdout)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "csv", "output format: csv (top match per row) or json (full rankings)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "max samples scored concurrently")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

// writeBatchCSV writes one line per input row with its top match.
func writeBatchCSV(f *os.File, results []batch.Result) error {
	w := csv.NewWriter(f)
	if err := w.Write([]string{"line", "top_grade", "grade_name", "confidence", "label", "matched_params", "error"}); err != nil {
		return eris.Wrap(err, "batch: write csv header")
	}
	for _, r := range results {
		record := []string{strconv.Itoa(r.Line), "", "", "", "", "", r.Error}
		if len(r.Matches) > 0 {
			top := r.Matches[0]
			record[1] = top.Grade.ID
			record[2] = top.Grade.Name
			record[3] = strconv.Itoa(top.Confidence)
			record[4] = top.ConfidenceLabel
			record[5] = fmt.Sprintf("%d/%d", top.MatchedParameters, top.TotalParameters)
		}
		if err := w.Write(record); err != nil {
			return eris.Wrap(err, "batch: write csv record")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "batch: flush csv")
}
