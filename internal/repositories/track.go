package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertlark/listenlog/internal/services"
)

// artistIDSeparator matches the CSV export's artist id field encoding.
const artistIDSeparator = ";"

// TrackRepository persists the merged track records belonging to a run.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a TrackRepository with the given database connection.
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// CreateBatch inserts all records for a run in one transaction, preserving
// dataset order via the position column.
func (r *TrackRepository) CreateBatch(runID string, records []services.TrackRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO track_records (
			run_id, position, track_id, duration_ms, name, popularity,
			disc_number, track_number, type,
			album_type, album_name, album_release_date, album_release_date_precision,
			album_total_tracks, album_object_type, artist_ids,
			danceability, energy, key, loudness, mode, speechiness,
			acousticness, instrumentalness, liveness, valence, tempo, time_signature
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		_, err := stmt.Exec(
			runID, i, rec.TrackID, rec.DurationMS, rec.Name, rec.Popularity,
			rec.DiscNumber, rec.TrackNumber, rec.Type,
			rec.Album.AlbumType, rec.Album.Name, rec.Album.ReleaseDate, rec.Album.ReleaseDatePrecision,
			rec.Album.TotalTracks, rec.Album.Type, strings.Join(rec.ArtistIDs, artistIDSeparator),
			rec.Features.Danceability, rec.Features.Energy, rec.Features.Key, rec.Features.Loudness,
			rec.Features.Mode, rec.Features.Speechiness, rec.Features.Acousticness,
			rec.Features.Instrumentalness, rec.Features.Liveness, rec.Features.Valence,
			rec.Features.Tempo, rec.Features.TimeSignature,
		)
		if err != nil {
			return fmt.Errorf("failed to insert track record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit track records: %w", err)
	}

	return nil
}

// ListByRun retrieves a run's records in dataset order.
func (r *TrackRepository) ListByRun(runID string) ([]services.TrackRecord, error) {
	query := `
		SELECT track_id, duration_ms, name, popularity, disc_number, track_number, type,
			album_type, album_name, album_release_date, album_release_date_precision,
			album_total_tracks, album_object_type, artist_ids,
			danceability, energy, key, loudness, mode, speechiness,
			acousticness, instrumentalness, liveness, valence, tempo, time_signature
		FROM track_records WHERE run_id = ? ORDER BY position
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query track records: %w", err)
	}
	defer rows.Close()

	var records []services.TrackRecord
	for rows.Next() {
		var rec services.TrackRecord
		var artistIDs string

		err := rows.Scan(
			&rec.TrackID, &rec.DurationMS, &rec.Name, &rec.Popularity,
			&rec.DiscNumber, &rec.TrackNumber, &rec.Type,
			&rec.Album.AlbumType, &rec.Album.Name, &rec.Album.ReleaseDate, &rec.Album.ReleaseDatePrecision,
			&rec.Album.TotalTracks, &rec.Album.Type, &artistIDs,
			&rec.Features.Danceability, &rec.Features.Energy, &rec.Features.Key, &rec.Features.Loudness,
			&rec.Features.Mode, &rec.Features.Speechiness, &rec.Features.Acousticness,
			&rec.Features.Instrumentalness, &rec.Features.Liveness, &rec.Features.Valence,
			&rec.Features.Tempo, &rec.Features.TimeSignature,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track record: %w", err)
		}

		if artistIDs != "" {
			rec.ArtistIDs = strings.Split(artistIDs, artistIDSeparator)
		}
		rec.Features.TrackID = rec.TrackID
		rec.Features.DurationMS = rec.DurationMS

		records = append(records, rec)
	}

	return records, rows.Err()
}
