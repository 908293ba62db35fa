// Package store persists identification call records for later audit. The
// reference catalog itself is never stored here; it remains an immutable
// embedded asset.
package store

import (
	"context"
	"time"

	"github.com/esang-logistics/spectra-cli/internal/match"
)

// Identification is one recorded identify call: the sample readings that
// came in and the ranked matches that went out.
type Identification struct {
	ID         string              `json:"id"`
	Sample     match.SampleInput   `json:"sample"`
	TopGrade   string              `json:"top_grade"`
	Confidence int                 `json:"confidence"`
	Matches    []match.MatchResult `json:"matches"`
	CreatedAt  time.Time           `json:"created_at"`
}

// HistoryFilter specifies criteria for listing identifications.
type HistoryFilter struct {
	GradeID string `json:"grade_id,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// GradeStat aggregates the recorded identifications whose top match was one
// grade.
type GradeStat struct {
	GradeID       string  `json:"grade_id"`
	Count         int     `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// Store defines the persistence interface for identification history.
type Store interface {
	SaveIdentification(ctx context.Context, sample match.SampleInput, results []match.MatchResult) (*Identification, error)
	GetIdentification(ctx context.Context, id string) (*Identification, error)
	ListIdentifications(ctx context.Context, filter HistoryFilter) ([]Identification, error)
	TopGradeStats(ctx context.Context, since time.Time) ([]GradeStat, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
