package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/esang-logistics/spectra-cli/internal/catalog"
)

// wtiAPI mirrors the WTI API gravity band from the embedded catalog.
var wtiAPI = catalog.Range{Min: 38.0, Max: 42.0, Typical: 39.6}

func TestScoreParameter_ExactTypical(t *testing.T) {
	ps := scoreParameter(ParamAPIGravity, 39.6, wtiAPI, 0.5, 30)
	assert.Equal(t, 100.0, ps.Score)
	assert.Equal(t, "Exact", ps.Accuracy)
	assert.True(t, ps.WithinTolerance)
	assert.Equal(t, 30, ps.Weight)
	assert.Equal(t, "°API", ps.Unit)
}

func TestScoreParameter_RangeEdge(t *testing.T) {
	// The wider half of the band (42.0 - 39.6 = 2.4) anchors the in-range
	// decay, so a reading at that edge scores exactly 75.
	ps := scoreParameter(ParamAPIGravity, 42.0, wtiAPI, 0.5, 30)
	assert.InDelta(t, 75.0, ps.Score, 1e-9)
	assert.True(t, ps.WithinTolerance)
}

func TestScoreParameter_ToleranceBand(t *testing.T) {
	// Just past the edge the score drops to just under 70.
	ps := scoreParameter(ParamAPIGravity, 42.1, wtiAPI, 0.5, 30)
	assert.InDelta(t, 66.0, ps.Score, 1e-9)
	assert.True(t, ps.WithinTolerance)

	// Exactly at the tolerance boundary scores 50.
	ps = scoreParameter(ParamAPIGravity, 42.5, wtiAPI, 0.5, 30)
	assert.InDelta(t, 50.0, ps.Score, 1e-9)
	assert.True(t, ps.WithinTolerance)
}

func TestScoreParameter_OutsideTolerance(t *testing.T) {
	// dist=1.0 beyond the band, width=4.0: 50 - (1/4)*50 = 37.5.
	ps := scoreParameter(ParamAPIGravity, 43.0, wtiAPI, 0.5, 30)
	assert.InDelta(t, 37.5, ps.Score, 1e-9)
	assert.False(t, ps.WithinTolerance)
	assert.Equal(t, "Poor", ps.Accuracy)
}

func TestScoreParameter_FarOutsideFloorsAtZero(t *testing.T) {
	ps := scoreParameter(ParamAPIGravity, 10.0, wtiAPI, 0.5, 30)
	assert.Equal(t, 0.0, ps.Score)
	assert.False(t, ps.WithinTolerance)
}

func TestScoreParameter_BelowMinSymmetry(t *testing.T) {
	above := scoreParameter(ParamAPIGravity, 42.3, wtiAPI, 0.5, 30)
	below := scoreParameter(ParamAPIGravity, 37.7, wtiAPI, 0.5, 30)
	assert.InDelta(t, above.Score, below.Score, 1e-9)
}

func TestScoreParameter_BoundaryContinuity(t *testing.T) {
	// No upward jump crossing the band edge: just inside must score at
	// least as high as just outside.
	inside := scoreParameter(ParamAPIGravity, 42.0, wtiAPI, 0.5, 30)
	outside := scoreParameter(ParamAPIGravity, 42.0001, wtiAPI, 0.5, 30)
	assert.GreaterOrEqual(t, inside.Score, outside.Score)
	assert.Less(t, outside.Score, 70.0)
}

func TestScoreParameter_MonotoneTowardTypical(t *testing.T) {
	// Walking from the edge toward typical never decreases the score.
	prev := -1.0
	for v := 42.0; v >= 39.6; v -= 0.1 {
		ps := scoreParameter(ParamAPIGravity, v, wtiAPI, 0.5, 30)
		assert.GreaterOrEqual(t, ps.Score, prev, "value %v", v)
		prev = ps.Score
	}

	// Walking away from the band never increases it.
	prev = 101.0
	for v := 42.0; v <= 48.0; v += 0.25 {
		ps := scoreParameter(ParamAPIGravity, v, wtiAPI, 0.5, 30)
		assert.LessOrEqual(t, ps.Score, prev, "value %v", v)
		prev = ps.Score
	}
}

func TestScoreParameter_ZeroWidthBand(t *testing.T) {
	degenerate := catalog.Range{Min: 5, Max: 5, Typical: 5}

	ps := scoreParameter(ParamViscosity, 5, degenerate, 0.25, 7)
	assert.Equal(t, 100.0, ps.Score)

	// Outside tolerance: width falls back to 1 instead of dividing by zero.
	ps = scoreParameter(ParamViscosity, 5.5, degenerate, 0.25, 7)
	assert.InDelta(t, 25.0, ps.Score, 1e-9)
}

func TestAccuracyLabels(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{100, "Exact"},
		{95, "Exact"},
		{94.9, "Very High"},
		{85, "Very High"},
		{70, "High"},
		{55, "Good"},
		{40, "Moderate"},
		{39.9, "Poor"},
		{0, "Poor"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, accuracyLabel(tc.score), "score %v", tc.score)
	}
}
