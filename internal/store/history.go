package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	apperrors "business-locator/internal/common/errors"
)

// HistorySchema creates the search_runs table.
var HistorySchema = []string{
	`CREATE TABLE IF NOT EXISTS search_runs (
		id                      UUID PRIMARY KEY,
		search_name             TEXT NOT NULL,
		location                TEXT NOT NULL,
		search_mode             TEXT NOT NULL,
		radius_miles            DOUBLE PRECISION,
		max_drive_time_minutes  DOUBLE PRECISION,
		terms                   TEXT[] NOT NULL,
		failed_terms            TEXT[] NOT NULL,
		not_found_terms         TEXT[] NOT NULL,
		record_count            INTEGER NOT NULL,
		file_name               TEXT NOT NULL,
		started_at              TIMESTAMPTZ NOT NULL,
		finished_at             TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_search_runs_started_at ON search_runs (started_at DESC)`,
}

// SearchRun is one completed batch search.
type SearchRun struct {
	ID                  string    `json:"searchId"`
	SearchName          string    `json:"searchName"`
	Location            string    `json:"location"`
	SearchMode          string    `json:"searchBy"`
	RadiusMiles         *float64  `json:"radius,omitempty"`
	MaxDriveTimeMinutes *float64  `json:"maxDriveTime,omitempty"`
	Terms               []string  `json:"terms"`
	FailedTerms         []string  `json:"failedTerms"`
	NotFoundTerms       []string  `json:"notFoundTerms"`
	RecordCount         int       `json:"recordCount"`
	FileName            string    `json:"fileName"`
	StartedAt           time.Time `json:"startedAt"`
	FinishedAt          time.Time `json:"finishedAt"`
}

// HistoryRepository records search runs.
type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

const insertRunQuery = `
	INSERT INTO search_runs (
		id, search_name, location, search_mode, radius_miles, max_drive_time_minutes,
		terms, failed_terms, not_found_terms, record_count, file_name, started_at, finished_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

func (r *HistoryRepository) Record(ctx context.Context, run SearchRun) error {
	_, err := r.db.ExecContext(ctx, insertRunQuery,
		run.ID,
		run.SearchName,
		run.Location,
		run.SearchMode,
		nullFloat(run.RadiusMiles),
		nullFloat(run.MaxDriveTimeMinutes),
		pq.Array(nonNil(run.Terms)),
		pq.Array(nonNil(run.FailedTerms)),
		pq.Array(nonNil(run.NotFoundTerms)),
		run.RecordCount,
		run.FileName,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return apperrors.NewHistoryWriteFailedError(err)
	}
	return nil
}

const selectRunQuery = `
	SELECT id, search_name, location, search_mode, radius_miles, max_drive_time_minutes,
		terms, failed_terms, not_found_terms, record_count, file_name, started_at, finished_at
	FROM search_runs
	WHERE id = $1`

// Get returns the run with id, or nil when there is none.
func (r *HistoryRepository) Get(ctx context.Context, id string) (*SearchRun, error) {
	var (
		run           SearchRun
		radius, drive sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx, selectRunQuery, id).Scan(
		&run.ID,
		&run.SearchName,
		&run.Location,
		&run.SearchMode,
		&radius,
		&drive,
		pq.Array(&run.Terms),
		pq.Array(&run.FailedTerms),
		pq.Array(&run.NotFoundTerms),
		&run.RecordCount,
		&run.FileName,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if radius.Valid {
		run.RadiusMiles = &radius.Float64
	}
	if drive.Valid {
		run.MaxDriveTimeMinutes = &drive.Float64
	}
	return &run, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
