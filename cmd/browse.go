package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertlark/listenlog/internal/repositories"
	"github.com/desertlark/listenlog/internal/shared"
	"github.com/desertlark/listenlog/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse launches the interactive terminal UI over a saved run.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runs := repositories.NewRunRepository(db)

	var run *repositories.Run
	if runID := cmd.String("run"); runID != "" {
		run, err = runs.Get(runID)
	} else {
		run, err = runs.Latest()
	}
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("%w: no saved runs, use 'listenlog fetch --save' first", shared.ErrInvalidArgument)
	}

	records, err := repositories.NewTrackRepository(db).ListByRun(run.ID)
	if err != nil {
		return fmt.Errorf("failed to load track records: %w", err)
	}

	model := ui.NewModel(records, run.DroppedRows, run.FetchedAt.Format("2006-01-02 15:04"))
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
