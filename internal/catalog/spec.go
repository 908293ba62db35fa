// Package catalog holds the immutable reference table of globally traded
// crude-oil grades and the classification helpers derived from it.
package catalog

import "github.com/rotisserie/eris"

// Range is the plausible band and best-estimate value of one measured
// physical/chemical property for a grade. Min <= Typical <= Max.
type Range struct {
	Min     float64 `yaml:"min" json:"min"`
	Max     float64 `yaml:"max" json:"max"`
	Typical float64 `yaml:"typical" json:"typical"`
}

// Width returns the declared band width (Max - Min).
func (r Range) Width() float64 {
	return r.Max - r.Min
}

// Contains reports whether v falls inside the declared band.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) validate(field string) error {
	if r.Min > r.Max {
		return eris.Errorf("catalog: %s: min %g exceeds max %g", field, r.Min, r.Max)
	}
	if r.Typical < r.Min || r.Typical > r.Max {
		return eris.Errorf("catalog: %s: typical %g outside [%g, %g]", field, r.Typical, r.Min, r.Max)
	}
	return nil
}

// GradeSpec is one named, geographically attributed crude grade.
//
// API, Sulfur and BSW are defined for every grade; the remaining parameter
// ranges are optional and nil when the grade's assay does not publish them.
type GradeSpec struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Type    string `yaml:"type" json:"type"`
	Country string `yaml:"country" json:"country"`
	Region  string `yaml:"region" json:"region"`

	API    Range `yaml:"api" json:"api"`
	Sulfur Range `yaml:"sulfur" json:"sulfur"`
	BSW    Range `yaml:"bsw" json:"bsw"`

	Salt       *Range `yaml:"salt,omitempty" json:"salt,omitempty"`
	RVP        *Range `yaml:"rvp,omitempty" json:"rvp,omitempty"`
	PourPoint  *Range `yaml:"pour_point,omitempty" json:"pour_point,omitempty"`
	FlashPoint *Range `yaml:"flash_point,omitempty" json:"flash_point,omitempty"`
	Viscosity  *Range `yaml:"viscosity,omitempty" json:"viscosity,omitempty"`
	TAN        *Range `yaml:"tan,omitempty" json:"tan,omitempty"`

	// Characteristics are display-only tags; never used in scoring.
	Characteristics []string `yaml:"characteristics,omitempty" json:"characteristics,omitempty"`
}

func (g *GradeSpec) validate() error {
	if g.ID == "" {
		return eris.New("catalog: grade missing id")
	}
	if g.Name == "" {
		return eris.Errorf("catalog: grade %s missing name", g.ID)
	}
	if g.Country == "" {
		return eris.Errorf("catalog: grade %s missing country", g.ID)
	}

	required := map[string]Range{
		"api":    g.API,
		"sulfur": g.Sulfur,
		"bsw":    g.BSW,
	}
	for field, r := range required {
		if r == (Range{}) {
			return eris.Errorf("catalog: grade %s missing required range %s", g.ID, field)
		}
		if err := r.validate(g.ID + "." + field); err != nil {
			return err
		}
	}

	optional := map[string]*Range{
		"salt":        g.Salt,
		"rvp":         g.RVP,
		"pour_point":  g.PourPoint,
		"flash_point": g.FlashPoint,
		"viscosity":   g.Viscosity,
		"tan":         g.TAN,
	}
	for field, r := range optional {
		if r == nil {
			continue
		}
		if err := r.validate(g.ID + "." + field); err != nil {
			return err
		}
	}
	return nil
}
