// Package batch runs the matching engine over a CSV of field samples, one
// row per sample, with bounded concurrency.
package batch

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/esang-logistics/spectra-cli/internal/match"
)

// Row is one parsed CSV line with its 1-based source line number.
type Row struct {
	Line   int               `json:"line"`
	Sample match.SampleInput `json:"sample"`
}

// Result pairs a row with its ranked matches, or with the validation error
// that kept it from being scored.
type Result struct {
	Line    int                 `json:"line"`
	Sample  match.SampleInput   `json:"sample"`
	Matches []match.MatchResult `json:"matches,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// numericColumns maps CSV header names to sample field setters.
var numericColumns = map[string]func(*match.SampleInput, float64){
	"api_gravity": func(s *match.SampleInput, v float64) { s.APIGravity = &v },
	"bsw":         func(s *match.SampleInput, v float64) { s.BSW = &v },
	"sulfur":      func(s *match.SampleInput, v float64) { s.Sulfur = &v },
	"salt":        func(s *match.SampleInput, v float64) { s.Salt = &v },
	"rvp":         func(s *match.SampleInput, v float64) { s.RVP = &v },
	"pour_point":  func(s *match.SampleInput, v float64) { s.PourPoint = &v },
	"flash_point": func(s *match.SampleInput, v float64) { s.FlashPoint = &v },
	"viscosity":   func(s *match.SampleInput, v float64) { s.Viscosity = &v },
	"tan":         func(s *match.SampleInput, v float64) { s.TAN = &v },
	"temperature": func(s *match.SampleInput, v float64) { s.Temperature = &v },
}

// ParseCSV reads sample rows. The first record is a header; recognized
// numeric columns are listed above, plus free-text "country" and
// "source_basin". Empty cells leave the reading unset. A cell that fails to
// parse as a number aborts the whole parse with its line number.
func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, eris.Wrap(err, "batch: read csv header")
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []Row
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "batch: read csv record")
		}
		line++

		var sample match.SampleInput
		for i, cell := range record {
			if i >= len(header) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			switch col := header[i]; col {
			case "country":
				sample.Country = cell
			case "source_basin":
				sample.SourceBasin = cell
			default:
				set, ok := numericColumns[col]
				if !ok {
					continue
				}
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, eris.Errorf("batch: line %d: column %s: %q is not a number", line, col, cell)
				}
				set(&sample, v)
			}
		}
		rows = append(rows, Row{Line: line, Sample: sample})
	}
	return rows, nil
}

// Run scores all rows with at most concurrency samples in flight. Row order
// is preserved in the returned slice; individual validation failures are
// recorded per row and never abort the batch.
func Run(ctx context.Context, eng *match.Engine, rows []Row, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([]Result, len(rows))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, row := range rows {
		g.Go(func() error {
			if gCtx.Err() != nil {
				results[i] = Result{Line: row.Line, Sample: row.Sample, Error: gCtx.Err().Error()}
				return nil
			}
			matches, err := eng.Match(row.Sample)
			if err != nil {
				zap.L().Warn("batch: row failed",
					zap.Int("line", row.Line),
					zap.Error(err),
				)
				results[i] = Result{Line: row.Line, Sample: row.Sample, Error: err.Error()}
				return nil
			}
			results[i] = Result{Line: row.Line, Sample: row.Sample, Matches: matches}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
