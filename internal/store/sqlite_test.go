package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esang-logistics/spectra-cli/internal/catalog"
	"github.com/esang-logistics/spectra-cli/internal/match"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testMatches(t *testing.T, sample match.SampleInput) []match.MatchResult {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	results, err := match.NewEngine(cat, match.Options{}).Match(sample)
	require.NoError(t, err)
	return results
}

func TestSaveAndGetIdentification(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	sample := match.SampleInput{
		APIGravity: match.Float(39.6),
		BSW:        match.Float(0.3),
		Sulfur:     match.Float(0.24),
	}
	matches := testMatches(t, sample)

	rec, err := st.SaveIdentification(ctx, sample, matches)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "wti", rec.TopGrade)
	assert.Equal(t, 100, rec.Confidence)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := st.GetIdentification(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.TopGrade, got.TopGrade)
	assert.Equal(t, rec.Confidence, got.Confidence)
	require.NotNil(t, got.Sample.APIGravity)
	assert.Equal(t, 39.6, *got.Sample.APIGravity)
	require.Len(t, got.Matches, len(matches))
	assert.Equal(t, matches[0].Grade.ID, got.Matches[0].Grade.ID)
}

func TestGetIdentification_Unknown(t *testing.T) {
	st := testStore(t)

	rec, err := st.GetIdentification(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestTopGradeStats(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	light := match.SampleInput{APIGravity: match.Float(39.6), BSW: match.Float(0.3), Sulfur: match.Float(0.24)}
	heavy := match.SampleInput{APIGravity: match.Float(10.1), BSW: match.Float(1.0), Sulfur: match.Float(5.7)}

	for _, sample := range []match.SampleInput{light, light, heavy} {
		_, err := st.SaveIdentification(ctx, sample, testMatches(t, sample))
		require.NoError(t, err)
	}

	stats, err := st.TopGradeStats(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "wti", stats[0].GradeID)
	assert.Equal(t, 2, stats[0].Count)
	assert.Equal(t, 100.0, stats[0].AvgConfidence)
	assert.Equal(t, "boscan", stats[1].GradeID)
	assert.Equal(t, 1, stats[1].Count)

	// A window starting in the future sees nothing.
	empty, err := st.TopGradeStats(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListIdentifications(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	light := match.SampleInput{APIGravity: match.Float(39.6), BSW: match.Float(0.3), Sulfur: match.Float(0.24)}
	heavy := match.SampleInput{APIGravity: match.Float(10.1), BSW: match.Float(1.0), Sulfur: match.Float(5.7)}

	_, err := st.SaveIdentification(ctx, light, testMatches(t, light))
	require.NoError(t, err)
	_, err = st.SaveIdentification(ctx, light, testMatches(t, light))
	require.NoError(t, err)
	_, err = st.SaveIdentification(ctx, heavy, testMatches(t, heavy))
	require.NoError(t, err)

	all, err := st.ListIdentifications(ctx, HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	wti, err := st.ListIdentifications(ctx, HistoryFilter{GradeID: "wti"})
	require.NoError(t, err)
	require.Len(t, wti, 2)
	for _, rec := range wti {
		assert.Equal(t, "wti", rec.TopGrade)
	}

	limited, err := st.ListIdentifications(ctx, HistoryFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := st.ListIdentifications(ctx, HistoryFilter{GradeID: "murban"})
	require.NoError(t, err)
	assert.Empty(t, none)
}
