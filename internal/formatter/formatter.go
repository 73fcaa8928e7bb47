// package formatter persists verbatim API snapshots and renders the merged
// dataset as CSV with a fixed, explicitly declared column set.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertlark/listenlog/internal/services"
	"github.com/desertlark/listenlog/internal/shared"
)

// DatasetColumns is the exact column set of the final export, in order.
// History columns first, album fields under dotted paths, the ordered
// artist id list as one field, then the feature columns.
var DatasetColumns = []string{
	"disc_number", "duration_ms", "id", "name", "popularity", "track_number", "type",
	"album.album_type", "album.name", "album.release_date", "album.release_date_precision",
	"album.total_tracks", "album.type", "artist_ids",
	"danceability", "energy", "key", "loudness", "mode", "speechiness",
	"acousticness", "instrumentalness", "liveness", "valence", "tempo", "time_signature",
}

// artistIDSeparator joins the ordered artist ids into a single CSV field.
const artistIDSeparator = ";"

// RecordsToCSV renders track records as CSV under [DatasetColumns].
func RecordsToCSV(records []services.TrackRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(DatasetColumns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, record := range records {
		if err := writer.Write(recordRow(record)); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func recordRow(r services.TrackRecord) []string {
	return []string{
		strconv.Itoa(r.DiscNumber),
		strconv.Itoa(r.DurationMS),
		r.TrackID,
		r.Name,
		strconv.Itoa(r.Popularity),
		strconv.Itoa(r.TrackNumber),
		r.Type,
		r.Album.AlbumType,
		r.Album.Name,
		r.Album.ReleaseDate,
		r.Album.ReleaseDatePrecision,
		strconv.Itoa(r.Album.TotalTracks),
		r.Album.Type,
		strings.Join(r.ArtistIDs, artistIDSeparator),
		formatFloat(r.Features.Danceability),
		formatFloat(r.Features.Energy),
		strconv.Itoa(r.Features.Key),
		formatFloat(r.Features.Loudness),
		strconv.Itoa(r.Features.Mode),
		formatFloat(r.Features.Speechiness),
		formatFloat(r.Features.Acousticness),
		formatFloat(r.Features.Instrumentalness),
		formatFloat(r.Features.Liveness),
		formatFloat(r.Features.Valence),
		formatFloat(r.Features.Tempo),
		strconv.Itoa(r.Features.TimeSignature),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// SnapshotStore implements the pipeline's SnapshotWriter against a local
// output directory.
type SnapshotStore struct {
	dir          string
	historyFile  string
	featuresFile string
	datasetFile  string
}

// NewSnapshotStore creates a store for the configured output locations.
// Zero values fall back to the defaults from the embedded example config.
func NewSnapshotStore(cfg shared.OutputConfig) *SnapshotStore {
	if cfg.Dir == "" {
		cfg.Dir = "data_raw"
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = "recently_played.json"
	}
	if cfg.FeaturesFile == "" {
		cfg.FeaturesFile = "track_features.json"
	}
	if cfg.DatasetFile == "" {
		cfg.DatasetFile = "final_data.csv"
	}

	return &SnapshotStore{
		dir:          cfg.Dir,
		historyFile:  ensureJSONSuffix(cfg.HistoryFile),
		featuresFile: ensureJSONSuffix(cfg.FeaturesFile),
		datasetFile:  cfg.DatasetFile,
	}
}

// WriteHistorySnapshot writes the verbatim history response body.
func (s *SnapshotStore) WriteHistorySnapshot(raw []byte) (string, error) {
	return s.write(s.historyFile, raw)
}

// WriteFeaturesSnapshot writes one verbatim audio-features chunk body.
// The first chunk takes the configured name; later chunks get a numeric
// suffix (track_features_2.json, ...).
func (s *SnapshotStore) WriteFeaturesSnapshot(chunk int, raw []byte) (string, error) {
	return s.write(chunkFileName(s.featuresFile, chunk), raw)
}

// WriteDataset renders and writes the final CSV export.
func (s *SnapshotStore) WriteDataset(records []services.TrackRecord) (string, error) {
	data, err := RecordsToCSV(records)
	if err != nil {
		return "", err
	}
	return s.write(s.datasetFile, data)
}

func (s *SnapshotStore) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	return path, nil
}

// ensureJSONSuffix appends .json to snapshot names that lack it.
func ensureJSONSuffix(name string) string {
	if !strings.HasSuffix(name, ".json") {
		return name + ".json"
	}
	return name
}

func chunkFileName(base string, chunk int) string {
	if chunk == 0 {
		return base
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(base, ext), chunk+1, ext)
}
