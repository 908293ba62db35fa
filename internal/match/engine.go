package match

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/esang-logistics/spectra-cli/internal/catalog"
)

// MatchResult is one grade's outcome for one scoring call, with the full
// per-parameter breakdown needed to explain the ranking. Ephemeral; exists
// only for the duration of one call's response.
type MatchResult struct {
	Grade             catalog.GradeSpec            `json:"grade"`
	Confidence        int                          `json:"confidence"`
	ConfidenceLabel   string                       `json:"confidence_label"`
	ParameterScores   map[Parameter]ParameterScore `json:"parameter_scores"`
	MatchedParameters int                          `json:"matched_parameters"`
	TotalParameters   int                          `json:"total_parameters"`
}

// Options tunes the engine. Zero fields fall back to the package defaults,
// so weights and tolerances stay a recalibratable table rather than logic.
type Options struct {
	Weights            map[Parameter]int
	Tolerances         map[Parameter]float64
	ViscosityTolerance float64
	MaxResults         int
}

// Engine scores samples against an immutable catalog. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	cat        *catalog.Catalog
	weights    map[Parameter]int
	tolerances map[Parameter]float64
	viscTol    float64
	maxResults int
}

// NewEngine builds an engine over the given catalog.
func NewEngine(cat *catalog.Catalog, opts Options) *Engine {
	e := &Engine{
		cat:        cat,
		weights:    opts.Weights,
		tolerances: opts.Tolerances,
		viscTol:    opts.ViscosityTolerance,
		maxResults: opts.MaxResults,
	}
	if e.weights == nil {
		e.weights = DefaultWeights()
	}
	if e.tolerances == nil {
		e.tolerances = DefaultTolerances()
	}
	if e.viscTol <= 0 {
		e.viscTol = DefaultViscosityTolerance
	}
	if e.maxResults <= 0 {
		e.maxResults = DefaultMaxResults
	}
	return e
}

// Match scores every catalog grade against the sample and returns the ranked,
// capped result list. The catalog is small enough that exhaustive scoring
// beats any indexing scheme.
func (e *Engine) Match(sample SampleInput) ([]MatchResult, error) {
	if err := sample.Validate(); err != nil {
		return nil, err
	}

	grades := e.cat.All()
	results := make([]MatchResult, 0, len(grades))
	for i := range grades {
		results = append(results, e.scoreGrade(&grades[i], &sample))
	}

	// Stable: confidence ties retain catalog order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	limit := sample.MaxResults
	if limit <= 0 {
		limit = e.maxResults
	}
	if len(results) > limit {
		results = results[:limit]
	}

	zap.L().Debug("match: sample scored",
		zap.Float64("api_gravity", *sample.APIGravity),
		zap.Int("candidates", len(grades)),
		zap.Int("returned", len(results)),
	)
	return results, nil
}

// scoreGrade aggregates the weighted per-parameter scores for one grade.
func (e *Engine) scoreGrade(g *catalog.GradeSpec, sample *SampleInput) MatchResult {
	scores := make(map[Parameter]ParameterScore)

	// Mandatory readings always participate.
	scores[ParamAPIGravity] = e.score(ParamAPIGravity, *sample.APIGravity, g.API)
	scores[ParamBSW] = e.score(ParamBSW, *sample.BSW, g.BSW)

	// Optional readings participate only when the sample supplies them AND
	// the grade's assay defines a band. Absence on either side is not a
	// mismatch; the parameter just carries no weight.
	if sample.Sulfur != nil {
		scores[ParamSulfur] = e.score(ParamSulfur, *sample.Sulfur, g.Sulfur)
	}
	optional := []struct {
		param Parameter
		value *float64
		band  *catalog.Range
	}{
		{ParamSalt, sample.Salt, g.Salt},
		{ParamRVP, sample.RVP, g.RVP},
		{ParamPourPoint, sample.PourPoint, g.PourPoint},
		{ParamFlashPoint, sample.FlashPoint, g.FlashPoint},
		{ParamTAN, sample.TAN, g.TAN},
	}
	for _, o := range optional {
		if o.value == nil || o.band == nil {
			continue
		}
		scores[o.param] = e.score(o.param, *o.value, *o.band)
	}
	if sample.Viscosity != nil && g.Viscosity != nil {
		// Relative tolerance: a fixed absolute allowance is meaningless
		// across condensates near 1 cSt and extra-heavies near 4000 cSt.
		tol := g.Viscosity.Typical * e.viscTol
		scores[ParamViscosity] = scoreParameter(ParamViscosity, *sample.Viscosity, *g.Viscosity, tol, e.weights[ParamViscosity])
	}

	var weightedSum float64
	var totalWeight, matched int
	for _, ps := range scores {
		weightedSum += ps.Score * float64(ps.Weight)
		totalWeight += ps.Weight
		if ps.WithinTolerance {
			matched++
		}
	}

	confidence := 0
	if totalWeight > 0 {
		confidence = int(math.Round(weightedSum / float64(totalWeight)))
	}
	// Geographic hints are tie-breakers added after the weighted average,
	// never blended into it.
	if sample.Country != "" && strings.EqualFold(sample.Country, g.Country) {
		confidence += 3
	}
	if sample.SourceBasin != "" && strings.Contains(catalog.Fold(g.Region), catalog.Fold(sample.SourceBasin)) {
		confidence += 2
	}
	if confidence > 100 {
		confidence = 100
	}
	if confidence < 0 {
		confidence = 0
	}

	return MatchResult{
		Grade:             *g,
		Confidence:        confidence,
		ConfidenceLabel:   confidenceLabel(confidence),
		ParameterScores:   scores,
		MatchedParameters: matched,
		TotalParameters:   len(scores),
	}
}

func (e *Engine) score(param Parameter, value float64, band catalog.Range) ParameterScore {
	return scoreParameter(param, value, band, e.tolerances[param], e.weights[param])
}

// confidenceLabel is the match-level display label; thresholds follow the
// contextual confidence bands of the field workflow.
func confidenceLabel(confidence int) string {
	switch {
	case confidence >= 95:
		return "High"
	case confidence >= 80:
		return "Medium"
	default:
		return "Low"
	}
}
