package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertlark/listenlog/internal/services"
)

// SnapshotWriter persists raw responses and the merged dataset. It is the
// plumbing boundary of the pipeline; the core never names files itself.
type SnapshotWriter interface {
	// WriteHistorySnapshot writes the verbatim history response body.
	WriteHistorySnapshot(raw []byte) (string, error)

	// WriteFeaturesSnapshot writes one verbatim audio-features chunk body.
	// chunk is the zero-based chunk index.
	WriteFeaturesSnapshot(chunk int, raw []byte) (string, error)

	// WriteDataset writes the final tabular export.
	WriteDataset(records []services.TrackRecord) (string, error)
}

// Opts contains per-run tunables.
type Opts struct {
	HistoryLimit int
}

// RunResult summarizes one completed run.
type RunResult struct {
	Events         int                    // play events fetched
	DistinctTracks int                    // unique track ids sent to the features endpoint
	Features       int                    // feature records returned
	Dropped        int                    // history rows excluded by the join
	Records        []services.TrackRecord // the merged dataset, history-ordered
	Files          []string               // snapshot and export paths written
}

// Pipeline wires a provider [services.Service] to a [SnapshotWriter].
type Pipeline struct {
	service   services.Service
	snapshots SnapshotWriter
	logger    *log.Logger
}

// New creates a Pipeline. The logger may be nil for silent operation.
func New(svc services.Service, snapshots SnapshotWriter, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pipeline{service: svc, snapshots: snapshots, logger: logger}
}

// Run executes the fetch-normalize-merge sequence with the given
// credential. Raw bodies are snapshotted before any normalization so a
// failed run still leaves auditable artifacts for the stages that
// completed.
func (p *Pipeline) Run(ctx context.Context, cred services.Credential, opts Opts) (*RunResult, error) {
	result := &RunResult{}

	history, err := p.service.RecentlyPlayed(ctx, cred, opts.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("history fetch: %w", err)
	}

	path, err := p.snapshots.WriteHistorySnapshot(history.Raw)
	if err != nil {
		return nil, fmt.Errorf("history snapshot: %w", err)
	}
	result.Files = append(result.Files, path)
	result.Events = len(history.Events)
	p.logger.Info("fetched listening history", "events", result.Events)

	ids := DistinctTrackIDs(history.Events)
	result.DistinctTracks = len(ids)

	features, err := p.service.TrackFeatures(ctx, cred, ids)
	if err != nil {
		return nil, fmt.Errorf("features fetch: %w", err)
	}

	for i, raw := range features.Raw {
		path, err := p.snapshots.WriteFeaturesSnapshot(i, raw)
		if err != nil {
			return nil, fmt.Errorf("features snapshot: %w", err)
		}
		result.Files = append(result.Files, path)
	}
	result.Features = len(features.Features)
	p.logger.Info("fetched audio features", "tracks", result.DistinctTracks, "records", result.Features)

	joined := Join(history.Events, features.Features)
	result.Records = joined.Records
	result.Dropped = joined.Dropped
	if joined.Dropped > 0 {
		p.logger.Warn("history rows excluded by join", "dropped", joined.Dropped)
	}

	path, err = p.snapshots.WriteDataset(joined.Records)
	if err != nil {
		return nil, fmt.Errorf("dataset export: %w", err)
	}
	result.Files = append(result.Files, path)
	p.logger.Info("wrote merged dataset", "rows", len(joined.Records), "file", path)

	return result, nil
}
