package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/monty/internal/models"
	"github.com/desertthunder/monty/internal/shared"
	"github.com/desertthunder/monty/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse launches the interactive terminal UI over the configured database.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	var tables []*models.Table
	if names := cmd.StringSlice("tables"); len(names) > 0 {
		resolved, err := resolveTables(names)
		if err != nil {
			return err
		}
		tables = resolved
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/monty-browse.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	store, closeDB, err := r.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	model := ui.NewModel(ctx, store, tables)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
