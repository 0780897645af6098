package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/shared"
	"github.com/muzicc987/navimax/internal/tasks"
	"github.com/muzicc987/navimax/internal/ui"
)

// TUI launches the interactive terminal UI for playlist actions.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/navimax-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	if err := r.connect(ctx); err != nil {
		return err
	}

	factory := func(pl models.Playlist) (*tasks.PlaylistActions, error) {
		return r.actionsFor(pl)
	}
	model := ui.NewModel(ctx, r.service, r.session(), factory, r.recorder)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
