package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/desertlark/listenlog/internal/services"
	"github.com/desertlark/listenlog/internal/shared"
	testhelpers "github.com/desertlark/listenlog/internal/testing"
)

func TestPipelineRun(t *testing.T) {
	cred := services.Credential{AccessToken: "tok"}

	historyResult := &services.HistoryResult{
		Raw: []byte(`{"items":[...]}`),
		Events: []services.PlayEvent{
			event("T1", 200000),
			event("T2", 180000),
			event("T1", 200000), // replay
		},
	}

	t.Run("Full Run", func(t *testing.T) {
		var requestedIDs []string
		svc := &testhelpers.MockService{
			RecentlyPlayedFunc: func(ctx context.Context, c services.Credential, limit int) (*services.HistoryResult, error) {
				return historyResult, nil
			},
			TrackFeaturesFunc: func(ctx context.Context, c services.Credential, ids []string) (*services.FeaturesResult, error) {
				requestedIDs = ids
				return &services.FeaturesResult{
					Raw: [][]byte{[]byte(`{"audio_features":[...]}`)},
					Features: []services.AudioFeatures{
						features("T1", 200000, 120),
						features("T2", 179999, 99), // duration mismatch, dropped
					},
				}, nil
			},
		}

		recorder := &testhelpers.SnapshotRecorder{}
		result, err := New(svc, recorder, nil).Run(context.Background(), cred, Opts{HistoryLimit: 50})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Events != 3 {
			t.Errorf("expected 3 events, got %d", result.Events)
		}
		if result.DistinctTracks != 2 {
			t.Errorf("expected 2 distinct ids, got %d", result.DistinctTracks)
		}
		if len(requestedIDs) != 2 || requestedIDs[0] != "T1" || requestedIDs[1] != "T2" {
			t.Errorf("expected deduplicated ordered ids, got %v", requestedIDs)
		}

		// T1 matches twice (replay), T2's duration differs
		if len(result.Records) != 2 {
			t.Errorf("expected 2 joined records, got %d", len(result.Records))
		}
		if result.Dropped != 1 {
			t.Errorf("expected 1 dropped row, got %d", result.Dropped)
		}

		if len(recorder.History) != 1 || len(recorder.Chunks) != 1 || len(recorder.Datasets) != 1 {
			t.Errorf("expected one snapshot per stage, got %d/%d/%d",
				len(recorder.History), len(recorder.Chunks), len(recorder.Datasets))
		}
		if len(result.Files) != 3 {
			t.Errorf("expected 3 files written, got %d", len(result.Files))
		}
	})

	t.Run("History Failure Aborts Run", func(t *testing.T) {
		svc := &testhelpers.MockService{
			RecentlyPlayedFunc: func(ctx context.Context, c services.Credential, limit int) (*services.HistoryResult, error) {
				return nil, &shared.FetchError{Status: 500, Endpoint: "/me/player/recently-played"}
			},
		}

		recorder := &testhelpers.SnapshotRecorder{}
		_, err := New(svc, recorder, nil).Run(context.Background(), cred, Opts{})
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected FetchError to propagate, got %v", err)
		}
		if len(recorder.Datasets) != 0 {
			t.Error("expected no dataset on failed run")
		}
	})

	t.Run("Features Failure Leaves History Snapshot", func(t *testing.T) {
		svc := &testhelpers.MockService{
			RecentlyPlayedFunc: func(ctx context.Context, c services.Credential, limit int) (*services.HistoryResult, error) {
				return historyResult, nil
			},
			TrackFeaturesFunc: func(ctx context.Context, c services.Credential, ids []string) (*services.FeaturesResult, error) {
				return nil, &shared.FetchError{Status: 429, Endpoint: "/audio-features"}
			},
		}

		recorder := &testhelpers.SnapshotRecorder{}
		_, err := New(svc, recorder, nil).Run(context.Background(), cred, Opts{})
		if err == nil {
			t.Fatal("expected error")
		}
		if len(recorder.History) != 1 {
			t.Error("expected history snapshot to be written before the failing stage")
		}
		if len(recorder.Datasets) != 0 {
			t.Error("expected no dataset export after a failed stage")
		}
	})

	t.Run("Snapshot Failure Aborts Run", func(t *testing.T) {
		svc := &testhelpers.MockService{
			RecentlyPlayedFunc: func(ctx context.Context, c services.Credential, limit int) (*services.HistoryResult, error) {
				return historyResult, nil
			},
		}

		recorder := &testhelpers.SnapshotRecorder{Err: errors.New("disk full")}
		_, err := New(svc, recorder, nil).Run(context.Background(), cred, Opts{})
		if err == nil {
			t.Fatal("expected snapshot error to propagate")
		}
	})
}
