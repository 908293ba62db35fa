package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParameter(t *testing.T) {
	for _, name := range []string{"apiGravity", "apigravity", "APIGRAVITY"} {
		p, ok := ParseParameter(name)
		require.True(t, ok, "name %s", name)
		assert.Equal(t, ParamAPIGravity, p)
	}

	p, ok := ParseParameter("pourpoint")
	require.True(t, ok)
	assert.Equal(t, ParamPourPoint, p)

	_, ok = ParseParameter("density")
	assert.False(t, ok)
}

func TestDefaultTables(t *testing.T) {
	weights := DefaultWeights()
	tolerances := DefaultTolerances()

	// Every weighted parameter has a unit; every parameter except viscosity
	// has an absolute tolerance.
	for p := range weights {
		assert.Contains(t, Units, p)
		if p == ParamViscosity {
			assert.NotContains(t, tolerances, p)
			continue
		}
		assert.Contains(t, tolerances, p)
	}

	total := 0
	for _, w := range weights {
		total += w
	}
	assert.Equal(t, 100, total)
}
