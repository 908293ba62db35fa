package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cat.Version())
	assert.GreaterOrEqual(t, cat.Len(), 35)
	assert.Len(t, cat.All(), cat.Len())
}

func TestGetByID(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	g, ok := cat.GetByID("wti")
	require.True(t, ok)
	assert.Equal(t, "wti", g.ID)
	assert.Equal(t, "US", g.Country)
	assert.True(t, g.API.Contains(39.6))

	// Repeated lookups return deep-equal records.
	again, ok := cat.GetByID("wti")
	require.True(t, ok)
	assert.Equal(t, g, again)

	_, ok = cat.GetByID("no-such-grade")
	assert.False(t, ok)
}

func TestByCountry(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	us := cat.ByCountry("US")
	require.NotEmpty(t, us)
	for _, g := range us {
		assert.Equal(t, "US", g.Country)
	}

	// Country lookup is case-insensitive.
	assert.Equal(t, us, cat.ByCountry("us"))
	assert.Empty(t, cat.ByCountry("ZZ"))
}

func TestByType(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	sweet := cat.ByType("sweet")
	require.NotEmpty(t, sweet)
	ids := make(map[string]bool, len(sweet))
	for _, g := range sweet {
		ids[g.ID] = true
	}
	assert.True(t, ids["wti"])
	assert.False(t, ids["maya"])
}

func TestSearch(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	hits := cat.Search("permian")
	require.NotEmpty(t, hits)
	assert.Equal(t, "wti", hits[0].ID)

	// Matches grade names too, case-insensitively.
	hits = cat.Search("BONNY")
	require.Len(t, hits, 1)
	assert.Equal(t, "bonny-light", hits[0].ID)

	assert.Empty(t, cat.Search("xyzzy"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, Fold("persian gulf"), Fold("Persian GULF"))
	// Full Unicode folding, not plain lowercasing.
	assert.Equal(t, "strasse", Fold("Straße"))
}

func TestParse_RejectsMalformedEntries(t *testing.T) {
	valid := `
  - id: ok
    name: OK Blend
    type: Light Sweet
    country: US
    region: Somewhere
    api: { min: 38.0, max: 42.0, typical: 40.0 }
    sulfur: { min: 0.2, max: 0.4, typical: 0.3 }
    bsw: { min: 0.1, max: 0.5, typical: 0.3 }
`

	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "min exceeds max",
			yaml: `
grades:
  - id: bad
    name: Bad Blend
    country: US
    api: { min: 42.0, max: 38.0, typical: 40.0 }
    sulfur: { min: 0.2, max: 0.4, typical: 0.3 }
    bsw: { min: 0.1, max: 0.5, typical: 0.3 }
`,
			wantErr: "min 42 exceeds max 38",
		},
		{
			name: "typical outside band",
			yaml: `
grades:
  - id: bad
    name: Bad Blend
    country: US
    api: { min: 38.0, max: 42.0, typical: 45.0 }
    sulfur: { min: 0.2, max: 0.4, typical: 0.3 }
    bsw: { min: 0.1, max: 0.5, typical: 0.3 }
`,
			wantErr: "typical 45 outside",
		},
		{
			name: "missing required range",
			yaml: `
grades:
  - id: bad
    name: Bad Blend
    country: US
    api: { min: 38.0, max: 42.0, typical: 40.0 }
    bsw: { min: 0.1, max: 0.5, typical: 0.3 }
`,
			wantErr: "missing required range sulfur",
		},
		{
			name: "malformed optional range",
			yaml: `
grades:
  - id: bad
    name: Bad Blend
    country: US
    api: { min: 38.0, max: 42.0, typical: 40.0 }
    sulfur: { min: 0.2, max: 0.4, typical: 0.3 }
    bsw: { min: 0.1, max: 0.5, typical: 0.3 }
    viscosity: { min: 10.0, max: 5.0, typical: 7.0 }
`,
			wantErr: "bad.viscosity",
		},
		{
			name:    "missing id",
			yaml:    "grades:\n  - name: Nameless\n    country: US\n",
			wantErr: "grade missing id",
		},
		{
			name:    "missing name",
			yaml:    "grades:\n  - id: anon\n    country: US\n",
			wantErr: "grade anon missing name",
		},
		{
			name:    "missing country",
			yaml:    "grades:\n  - id: anon\n    name: Anon Blend\n",
			wantErr: "grade anon missing country",
		},
		{
			name:    "duplicate id",
			yaml:    "grades:" + valid + valid,
			wantErr: "duplicate grade id ok",
		},
		{
			name:    "not yaml",
			yaml:    "{{{",
			wantErr: "parse grades yaml",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestEmbeddedCatalogIntegrity(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	for _, g := range cat.All() {
		assert.NotEmpty(t, g.Type, "grade %s", g.ID)
		assert.NotEmpty(t, g.Region, "grade %s", g.ID)
		// Typical BSW of a marketable export grade stays in single digits.
		assert.Less(t, g.BSW.Typical, 10.0, "grade %s", g.ID)
		assert.GreaterOrEqual(t, g.Sulfur.Min, 0.0, "grade %s", g.ID)
	}
}
