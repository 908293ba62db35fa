package match

import (
	"math"

	"github.com/esang-logistics/spectra-cli/internal/catalog"
)

// ParameterScore is the per-parameter diagnostic produced for every
// (sample, grade, parameter) triple during one scoring call.
type ParameterScore struct {
	Score           float64 `json:"score"`
	Accuracy        string  `json:"accuracy"`
	Weight          int     `json:"weight"`
	Value           float64 `json:"value"`
	Typical         float64 `json:"typical"`
	Unit            string  `json:"unit"`
	WithinTolerance bool    `json:"within_tolerance"`
}

// scoreParameter scores one reading against one grade's declared band.
//
// Inside the band the score decays linearly from 100 at typical toward 75 at
// the wider band edge. Within the tolerance allowance beyond the band it
// decays from 70 at the edge to 50 at the tolerance boundary. Past that it
// decays against the band width and bottoms out at 0; a far-off reading is
// heavily penalized but never hard-failed to an undefined score.
func scoreParameter(param Parameter, value float64, r catalog.Range, tolerance float64, weight int) ParameterScore {
	ps := ParameterScore{
		Weight:  weight,
		Value:   value,
		Typical: r.Typical,
		Unit:    Units[param],
	}

	withinRange := r.Contains(value)
	ps.WithinTolerance = value >= r.Min-tolerance && value <= r.Max+tolerance

	switch {
	case withinRange:
		// Denominator falls back to 1 on degenerate zero-width bands.
		spread := math.Max(math.Max(r.Typical-r.Min, r.Max-r.Typical), 1)
		ps.Score = 100 - math.Abs(value-r.Typical)/spread*25

	case ps.WithinTolerance:
		ps.Score = 70 - distanceBeyond(value, r)/tolerance*20

	default:
		width := r.Width()
		if width == 0 {
			width = 1
		}
		ps.Score = math.Max(0, 50-distanceBeyond(value, r)/width*50)
	}

	ps.Accuracy = accuracyLabel(ps.Score)
	return ps
}

// distanceBeyond is the absolute distance from the nearest band bound for a
// value outside the band.
func distanceBeyond(value float64, r catalog.Range) float64 {
	if value < r.Min {
		return r.Min - value
	}
	return value - r.Max
}

func accuracyLabel(score float64) string {
	switch {
	case score >= 95:
		return "Exact"
	case score >= 85:
		return "Very High"
	case score >= 70:
		return "High"
	case score >= 55:
		return "Good"
	case score >= 40:
		return "Moderate"
	default:
		return "Poor"
	}
}
