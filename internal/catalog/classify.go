package catalog

// API gravity cut points. Boundary values belong to the higher (lighter) band.
const (
	apiExtraHeavyMax = 10.0
	apiHeavyMax      = 22.3
	apiMediumMax     = 31.1
)

// ClassifyAPI maps an API gravity reading to its density band.
func ClassifyAPI(v float64) string {
	switch {
	case v < apiExtraHeavyMax:
		return "Extra Heavy"
	case v < apiHeavyMax:
		return "Heavy"
	case v < apiMediumMax:
		return "Medium"
	default:
		return "Light"
	}
}

// ClassifySulfur maps a sulfur percentage to the sweet/sour scale.
func ClassifySulfur(v float64) string {
	switch {
	case v <= 0.5:
		return "Sweet"
	case v <= 1.5:
		return "Medium Sour"
	default:
		return "Sour"
	}
}

// ClassifyViscosity maps a kinematic viscosity reading (cSt at 40°C) to a
// coarse flow band. Condensates sit near 1 cSt; bitumen-diluted extra-heavy
// grades run into the thousands.
func ClassifyViscosity(v float64) string {
	switch {
	case v < 2:
		return "Condensate-like"
	case v < 10:
		return "Low"
	case v < 100:
		return "Medium"
	case v < 1000:
		return "High"
	default:
		return "Extra Heavy"
	}
}
