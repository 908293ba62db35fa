// Package match scores field sample readings against the reference catalog
// and produces ranked, explainable grade matches.
package match

import "strings"

// Parameter identifies one measurable sample property.
type Parameter string

const (
	ParamAPIGravity Parameter = "apiGravity"
	ParamSulfur     Parameter = "sulfur"
	ParamBSW        Parameter = "bsw"
	ParamSalt       Parameter = "salt"
	ParamRVP        Parameter = "rvp"
	ParamPourPoint  Parameter = "pourPoint"
	ParamFlashPoint Parameter = "flashPoint"
	ParamViscosity  Parameter = "viscosity"
	ParamTAN        Parameter = "tan"
)

// ParseParameter resolves a parameter name case-insensitively. Config layers
// (viper lowercases map keys) and user input both go through here.
func ParseParameter(name string) (Parameter, bool) {
	for p := range Units {
		if strings.EqualFold(string(p), name) {
			return p, true
		}
	}
	return "", false
}

// Units maps each parameter to its measurement unit, for diagnostics.
var Units = map[Parameter]string{
	ParamAPIGravity: "°API",
	ParamSulfur:     "%",
	ParamBSW:        "%",
	ParamSalt:       "PTB",
	ParamRVP:        "psi",
	ParamPourPoint:  "°C",
	ParamFlashPoint: "°C",
	ParamViscosity:  "cSt@40°C",
	ParamTAN:        "mg KOH/g",
}

// DefaultWeights is the relative importance of each parameter. API gravity
// and sulfur dominate by domain convention; the table is summed dynamically
// per call over the parameters that actually participate.
func DefaultWeights() map[Parameter]int {
	return map[Parameter]int{
		ParamAPIGravity: 30,
		ParamSulfur:     25,
		ParamBSW:        10,
		ParamSalt:       8,
		ParamRVP:        7,
		ParamViscosity:  7,
		ParamTAN:        5,
		ParamPourPoint:  4,
		ParamFlashPoint: 4,
	}
}

// DefaultTolerances is the absolute measurement allowance beyond a grade's
// declared band before a reading stops counting as a plausible match.
// Viscosity is absent here: its tolerance is relative (see
// Options.ViscosityTolerance), because viscosity spans several orders of
// magnitude across grade types.
func DefaultTolerances() map[Parameter]float64 {
	return map[Parameter]float64{
		ParamAPIGravity: 0.5,
		ParamSulfur:     0.1,
		ParamBSW:        0.2,
		ParamSalt:       2.0,
		ParamRVP:        0.5,
		ParamPourPoint:  3.0,
		ParamFlashPoint: 3.0,
		ParamTAN:        0.1,
	}
}

// DefaultViscosityTolerance is the relative viscosity allowance as a
// fraction of the grade's typical value.
const DefaultViscosityTolerance = 0.05

// DefaultMaxResults caps the ranked list when the caller does not ask for a
// specific count.
const DefaultMaxResults = 10
