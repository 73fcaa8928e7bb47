package formatter

import (
	"encoding/csv"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/desertlark/listenlog/internal/services"
	"github.com/desertlark/listenlog/internal/shared"
	testhelpers "github.com/desertlark/listenlog/internal/testing"
)

func sampleRecord() services.TrackRecord {
	return services.TrackRecord{
		PlayEvent: services.PlayEvent{
			TrackID:     "T1",
			DurationMS:  200000,
			Name:        "Some Song",
			Popularity:  61,
			DiscNumber:  1,
			TrackNumber: 3,
			Type:        "track",
			Album: services.AlbumInfo{
				AlbumType:            "album",
				Name:                 "Some Album",
				ReleaseDate:          "2019-06-21",
				ReleaseDatePrecision: "day",
				TotalTracks:          12,
				Type:                 "album",
			},
			ArtistIDs: []string{"A1", "A2"},
		},
		Features: services.AudioFeatures{
			TrackID:          "T1",
			DurationMS:       200000,
			Danceability:     0.735,
			Energy:           0.578,
			Key:              5,
			Loudness:         -11.84,
			Mode:             0,
			Speechiness:      0.0461,
			Acousticness:     0.514,
			Instrumentalness: 0.0902,
			Liveness:         0.159,
			Valence:          0.624,
			Tempo:            98.002,
			TimeSignature:    4,
		},
	}
}

func TestRecordsToCSV(t *testing.T) {
	data, err := RecordsToCSV([]services.TrackRecord{sampleRecord()})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}

	t.Run("Header Is Exactly The Declared Columns", func(t *testing.T) {
		if !reflect.DeepEqual(rows[0], DatasetColumns) {
			t.Errorf("header mismatch:\ngot  %v\nwant %v", rows[0], DatasetColumns)
		}
	})

	t.Run("Row Values", func(t *testing.T) {
		row := rows[1]
		byCol := make(map[string]string, len(row))
		for i, col := range DatasetColumns {
			byCol[col] = row[i]
		}

		checks := map[string]string{
			"id":                     "T1",
			"duration_ms":            "200000",
			"name":                   "Some Song",
			"album.release_date":     "2019-06-21",
			"album.total_tracks":     "12",
			"artist_ids":             "A1;A2",
			"danceability":           "0.735",
			"loudness":               "-11.84",
			"tempo":                  "98.002",
			"time_signature":         "4",
			"album.release_date_precision": "day",
		}
		for col, want := range checks {
			if byCol[col] != want {
				t.Errorf("column %s = %q, want %q", col, byCol[col], want)
			}
		}
	})

	t.Run("Empty Input Yields Header Only", func(t *testing.T) {
		data, err := RecordsToCSV(nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 1 {
			t.Errorf("expected only the header row, got %d rows", len(rows))
		}
	})
}

func TestSnapshotStore(t *testing.T) {
	t.Run("Writes Verbatim Snapshots", func(t *testing.T) {
		dir := t.TempDir()
		store := NewSnapshotStore(shared.OutputConfig{Dir: dir})

		raw := []byte(`{"items":[{"track":{"id":"T1"}}]}`)
		path, err := store.WriteHistorySnapshot(raw)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		testhelpers.AssertFileExists(t, path)
		if got := testhelpers.MustReadFile(t, path); got != string(raw) {
			t.Errorf("snapshot not verbatim: %q", got)
		}
		if filepath.Base(path) != "recently_played.json" {
			t.Errorf("unexpected snapshot name %q", filepath.Base(path))
		}
	})

	t.Run("Chunk Snapshots Get Numeric Suffixes", func(t *testing.T) {
		dir := t.TempDir()
		store := NewSnapshotStore(shared.OutputConfig{Dir: dir})

		first, err := store.WriteFeaturesSnapshot(0, []byte(`{}`))
		if err != nil {
			t.Fatal(err)
		}
		second, err := store.WriteFeaturesSnapshot(1, []byte(`{}`))
		if err != nil {
			t.Fatal(err)
		}

		if filepath.Base(first) != "track_features.json" {
			t.Errorf("unexpected first chunk name %q", filepath.Base(first))
		}
		if filepath.Base(second) != "track_features_2.json" {
			t.Errorf("unexpected second chunk name %q", filepath.Base(second))
		}
	})

	t.Run("Enforces JSON Suffix", func(t *testing.T) {
		store := NewSnapshotStore(shared.OutputConfig{Dir: t.TempDir(), HistoryFile: "history"})

		path, err := store.WriteHistorySnapshot([]byte(`{}`))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasSuffix(path, "history.json") {
			t.Errorf("expected .json suffix, got %q", path)
		}
	})

	t.Run("WriteDataset", func(t *testing.T) {
		dir := t.TempDir()
		store := NewSnapshotStore(shared.OutputConfig{Dir: dir})

		path, err := store.WriteDataset([]services.TrackRecord{sampleRecord()})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		testhelpers.AssertFileExists(t, path)
		content := testhelpers.MustReadFile(t, path)
		if !strings.HasPrefix(content, "disc_number,") {
			t.Errorf("expected CSV header, got %q", content[:40])
		}
		if !strings.Contains(content, "A1;A2") {
			t.Error("expected joined artist ids in dataset")
		}
	})

	t.Run("Creates Output Directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "out")
		store := NewSnapshotStore(shared.OutputConfig{Dir: dir})

		if _, err := store.WriteHistorySnapshot([]byte(`{}`)); err != nil {
			t.Fatalf("expected directory creation, got %v", err)
		}
	})
}
