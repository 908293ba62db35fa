package match

import (
	"math"

	"github.com/rotisserie/eris"
)

// SampleInput is one set of field lab readings. APIGravity and BSW are
// mandatory; every other reading is optional and simply excluded from
// scoring when absent. Country and SourceBasin are soft geographic hints
// used only as a small tie-breaking bonus, never as a hard filter.
type SampleInput struct {
	APIGravity *float64 `json:"api_gravity"`
	BSW        *float64 `json:"bsw"`

	Sulfur     *float64 `json:"sulfur,omitempty"`
	Salt       *float64 `json:"salt,omitempty"`
	RVP        *float64 `json:"rvp,omitempty"`
	PourPoint  *float64 `json:"pour_point,omitempty"`
	FlashPoint *float64 `json:"flash_point,omitempty"`
	Viscosity  *float64 `json:"viscosity,omitempty"`
	TAN        *float64 `json:"tan,omitempty"`

	// Temperature is the reading temperature of the sample. It is recorded
	// for correction purposes and never participates in matching.
	Temperature *float64 `json:"temperature,omitempty"`

	Country     string `json:"country,omitempty"`
	SourceBasin string `json:"source_basin,omitempty"`

	// MaxResults caps the ranked list; zero means DefaultMaxResults.
	MaxResults int `json:"max_results,omitempty"`
}

// Validate rejects samples that are missing mandatory readings or carry
// non-finite values, before any scoring begins.
func (s *SampleInput) Validate() error {
	if s.APIGravity == nil {
		return eris.New("match: api gravity is required")
	}
	if s.BSW == nil {
		return eris.New("match: bsw is required")
	}

	fields := map[string]*float64{
		"api gravity": s.APIGravity,
		"bsw":         s.BSW,
		"sulfur":      s.Sulfur,
		"salt":        s.Salt,
		"rvp":         s.RVP,
		"pour point":  s.PourPoint,
		"flash point": s.FlashPoint,
		"viscosity":   s.Viscosity,
		"tan":         s.TAN,
		"temperature": s.Temperature,
	}
	for name, v := range fields {
		if v == nil {
			continue
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return eris.Errorf("match: %s is not a finite number", name)
		}
	}
	return nil
}

// Float is a convenience for building optional sample fields.
func Float(v float64) *float64 {
	return &v
}
