// Package monitoring derives operational statistics from the identification
// history store.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/esang-logistics/spectra-cli/internal/store"
)

// Snapshot holds a point-in-time view of recorded identification activity.
type Snapshot struct {
	// Totals within the lookback window.
	Total         int     `json:"total"`
	AvgConfidence float64 `json:"avg_confidence"`
	// LowConfidence counts identifications whose top match scored below 80.
	// A rising share signals drift between field samples and the catalog.
	LowConfidence int `json:"low_confidence"`

	// Grades lists per-top-grade counts, most frequent first.
	Grades []store.GradeStat `json:"grades"`

	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

const lowConfidenceCutoff = 80

// Collector gathers statistics from the history store.
type Collector struct {
	store store.Store
}

// NewCollector creates a statistics collector over the given store.
func NewCollector(st store.Store) *Collector {
	return &Collector{store: st}
}

// Collect builds a snapshot over the given lookback window.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*Snapshot, error) {
	if lookbackHours <= 0 {
		lookbackHours = 24
	}
	since := time.Now().UTC().Add(-time.Duration(lookbackHours) * time.Hour)

	snap := &Snapshot{
		LookbackHours: lookbackHours,
		CollectedAt:   time.Now().UTC(),
	}

	stats, err := c.store.TopGradeStats(ctx, since)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: collect grade stats")
	}
	snap.Grades = stats

	sum := 0.0
	for _, st := range stats {
		snap.Total += st.Count
		sum += st.AvgConfidence * float64(st.Count)
	}
	if snap.Total == 0 {
		return snap, nil
	}
	snap.AvgConfidence = sum / float64(snap.Total)

	// Newest-first listing capped at the window total covers every record in
	// the window.
	recs, err := c.store.ListIdentifications(ctx, store.HistoryFilter{Limit: snap.Total})
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list identifications")
	}
	for _, rec := range recs {
		if rec.CreatedAt.Before(since) {
			continue
		}
		if rec.Confidence < lowConfidenceCutoff {
			snap.LowConfidence++
		}
	}

	return snap, nil
}
