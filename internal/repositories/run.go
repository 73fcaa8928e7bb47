package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertlark/listenlog/internal/shared"
)

// Run records one completed fetch run and its summary counters.
type Run struct {
	ID             string
	FetchedAt      time.Time
	Events         int
	DistinctTracks int
	FeatureRecords int
	DroppedRows    int
}

// RunRepository handles CRUD for [Run] rows.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a RunRepository with the given database connection.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run, generating its ID and timestamp when unset.
func (r *RunRepository) Create(run *Run) error {
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}
	if run.FetchedAt.IsZero() {
		run.FetchedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO runs (id, fetched_at, events, distinct_tracks, feature_records, dropped_rows)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, run.ID, run.FetchedAt, run.Events, run.DistinctTracks, run.FeatureRecords, run.DroppedRows)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID.
func (r *RunRepository) Get(id string) (*Run, error) {
	query := `
		SELECT id, fetched_at, events, distinct_tracks, feature_records, dropped_rows
		FROM runs WHERE id = ?
	`
	return r.scanOne(r.db.QueryRow(query, id))
}

// Latest retrieves the most recent run, or nil when none exist.
func (r *RunRepository) Latest() (*Run, error) {
	query := `
		SELECT id, fetched_at, events, distinct_tracks, feature_records, dropped_rows
		FROM runs ORDER BY fetched_at DESC LIMIT 1
	`

	run, err := r.scanOne(r.db.QueryRow(query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// List retrieves runs newest first, up to limit.
func (r *RunRepository) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, fetched_at, events, distinct_tracks, feature_records, dropped_rows
		FROM runs ORDER BY fetched_at DESC LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.FetchedAt, &run.Events, &run.DistinctTracks, &run.FeatureRecords, &run.DroppedRows); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *RunRepository) scanOne(row *sql.Row) (*Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.FetchedAt, &run.Events, &run.DistinctTracks, &run.FeatureRecords, &run.DroppedRows)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	return &run, nil
}
