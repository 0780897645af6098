package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/muzicc987/navimax/internal/formatter"
)

// QueueShow prints the persisted queue.
func (r *Runner) QueueShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	formatter.RenderQueue(r.output, r.queue.Snapshot())
	return nil
}

// QueueClear empties the queue.
func (r *Runner) QueueClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	if err := r.queue.Clear(); err != nil {
		return err
	}
	r.writePlain("✓ Queue cleared\n")
	return nil
}
