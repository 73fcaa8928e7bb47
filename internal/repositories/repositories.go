package repositories

import (
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	fetched_at TIMESTAMP NOT NULL,
	events INTEGER NOT NULL,
	distinct_tracks INTEGER NOT NULL,
	feature_records INTEGER NOT NULL,
	dropped_rows INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS track_records (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	track_id TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	name TEXT NOT NULL,
	popularity INTEGER NOT NULL,
	disc_number INTEGER NOT NULL,
	track_number INTEGER NOT NULL,
	type TEXT NOT NULL,
	album_type TEXT NOT NULL,
	album_name TEXT NOT NULL,
	album_release_date TEXT NOT NULL,
	album_release_date_precision TEXT NOT NULL,
	album_total_tracks INTEGER NOT NULL,
	album_object_type TEXT NOT NULL,
	artist_ids TEXT NOT NULL,
	danceability REAL NOT NULL,
	energy REAL NOT NULL,
	key INTEGER NOT NULL,
	loudness REAL NOT NULL,
	mode INTEGER NOT NULL,
	speechiness REAL NOT NULL,
	acousticness REAL NOT NULL,
	instrumentalness REAL NOT NULL,
	liveness REAL NOT NULL,
	valence REAL NOT NULL,
	tempo REAL NOT NULL,
	time_signature INTEGER NOT NULL,
	PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_track_records_track_id ON track_records(track_id);
`

// Setup creates the runs and track_records tables if they do not exist.
func Setup(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
