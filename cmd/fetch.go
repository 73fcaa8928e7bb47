package main

import (
	"context"
	"fmt"

	"github.com/desertlark/listenlog/internal/formatter"
	"github.com/desertlark/listenlog/internal/pipeline"
	"github.com/desertlark/listenlog/internal/repositories"
	"github.com/desertlark/listenlog/internal/services"
	"github.com/desertlark/listenlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// Fetch runs the full pipeline: acquire a credential, pull recent plays
// and audio features, merge, and write the snapshots and CSV export.
func (r *Runner) Fetch(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: service not initialized", shared.ErrMissingCredentials)
	}

	cred, err := r.fetchCredential(ctx, cmd)
	if err != nil {
		return err
	}

	limit := cmd.Int("limit")
	if limit == 0 {
		limit = r.config.Fetch.HistoryLimit
	}

	snapshots := formatter.NewSnapshotStore(r.config.Output)
	p := pipeline.New(r.service, snapshots, r.logger)

	result, err := p.Run(ctx, cred, pipeline.Opts{HistoryLimit: limit})
	if err != nil {
		return err
	}

	if cmd.Bool("save") {
		runID, err := r.saveRun(result)
		if err != nil {
			return err
		}
		r.logger.Infof("run saved as %v", runID)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"events":          result.Events,
			"distinct_tracks": result.DistinctTracks,
			"feature_records": result.Features,
			"dropped_rows":    result.Dropped,
			"dataset_rows":    len(result.Records),
			"files":           result.Files,
		}, true)
	}

	r.writePlainln("✓ Fetch complete")
	r.writePlain("Play events:      %d\n", result.Events)
	r.writePlain("Distinct tracks:  %d\n", result.DistinctTracks)
	r.writePlain("Feature records:  %d\n", result.Features)
	r.writePlain("Dataset rows:     %d\n", len(result.Records))
	if result.Dropped > 0 {
		r.writePlain("Dropped rows:     %d (no matching audio features)\n", result.Dropped)
	}
	r.writePlain("\nFiles written:\n")
	for _, f := range result.Files {
		r.writePlain("  %s\n", f)
	}

	return nil
}

// fetchCredential resolves the credential for a fetch run: an explicit
// --token wins, otherwise a fresh authorization flow runs first.
func (r *Runner) fetchCredential(ctx context.Context, cmd *cli.Command) (services.Credential, error) {
	if token := cmd.String("token"); token != "" {
		return services.Credential{AccessToken: token}, nil
	}

	r.logger.Info("no token provided, starting authorization flow")
	return r.authorize(ctx, cmd.Bool("listen"), cmd.Bool("no-browser"))
}

// saveRun records a completed run and its merged records in the local
// database.
func (r *Runner) saveRun(result *pipeline.RunResult) (string, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := repositories.Setup(db); err != nil {
		return "", fmt.Errorf("failed to prepare schema: %w", err)
	}

	run := &repositories.Run{
		Events:         result.Events,
		DistinctTracks: result.DistinctTracks,
		FeatureRecords: result.Features,
		DroppedRows:    result.Dropped,
	}

	if err := repositories.NewRunRepository(db).Create(run); err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	if err := repositories.NewTrackRepository(db).CreateBatch(run.ID, result.Records); err != nil {
		return "", fmt.Errorf("failed to save track records: %w", err)
	}

	return run.ID, nil
}
