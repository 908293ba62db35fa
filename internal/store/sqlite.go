package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/esang-logistics/spectra-cli/internal/match"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS identifications (
	id         TEXT PRIMARY KEY,
	sample     TEXT NOT NULL,
	top_grade  TEXT NOT NULL,
	confidence INTEGER NOT NULL,
	matches    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_identifications_top_grade ON identifications(top_grade);
CREATE INDEX IF NOT EXISTS idx_identifications_created_at ON identifications(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveIdentification(ctx context.Context, sample match.SampleInput, results []match.MatchResult) (*Identification, error) {
	rec := &Identification{
		ID:        uuid.New().String(),
		Sample:    sample,
		Matches:   results,
		CreatedAt: time.Now().UTC(),
	}
	if len(results) > 0 {
		rec.TopGrade = results[0].Grade.ID
		rec.Confidence = results[0].Confidence
	}

	sampleJSON, err := json.Marshal(sample)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal sample")
	}
	matchesJSON, err := json.Marshal(results)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal matches")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO identifications (id, sample, top_grade, confidence, matches, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, string(sampleJSON), rec.TopGrade, rec.Confidence, string(matchesJSON), rec.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert identification")
	}
	return rec, nil
}

// GetIdentification returns the record with the given id, or nil when unknown.
func (s *SQLiteStore) GetIdentification(ctx context.Context, id string) (*Identification, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, sample, top_grade, confidence, matches, created_at FROM identifications WHERE id = ?`,
		id,
	)
	rec, err := scanIdentification(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (s *SQLiteStore) ListIdentifications(ctx context.Context, filter HistoryFilter) ([]Identification, error) {
	query := `SELECT id, sample, top_grade, confidence, matches, created_at FROM identifications WHERE 1=1`
	var args []any

	if filter.GradeID != "" {
		query += ` AND top_grade = ?`
		args = append(args, filter.GradeID)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list identifications")
	}
	defer rows.Close()

	var out []Identification
	for rows.Next() {
		rec, err := scanIdentification(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate identifications")
}

// TopGradeStats groups recorded identifications since the given time by top
// grade, most frequent first.
func (s *SQLiteStore) TopGradeStats(ctx context.Context, since time.Time) ([]GradeStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT top_grade, COUNT(*), AVG(confidence)
		 FROM identifications
		 WHERE created_at >= ?
		 GROUP BY top_grade
		 ORDER BY COUNT(*) DESC, top_grade ASC`,
		since,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query grade stats")
	}
	defer rows.Close()

	var out []GradeStat
	for rows.Next() {
		var st GradeStat
		if err := rows.Scan(&st.GradeID, &st.Count, &st.AvgConfidence); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan grade stat")
		}
		out = append(out, st)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate grade stats")
}

func scanIdentification(scan func(...any) error) (*Identification, error) {
	var rec Identification
	var sampleJSON, matchesJSON string
	if err := scan(&rec.ID, &sampleJSON, &rec.TopGrade, &rec.Confidence, &matchesJSON, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan identification")
	}
	if err := json.Unmarshal([]byte(sampleJSON), &rec.Sample); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal sample")
	}
	if err := json.Unmarshal([]byte(matchesJSON), &rec.Matches); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal matches")
	}
	return &rec, nil
}
