package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/urfave/cli/v3"

	"github.com/muzicc987/navimax/internal/formatter"
	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/services"
	"github.com/muzicc987/navimax/internal/shared"
	"github.com/muzicc987/navimax/internal/tasks"
)

// Play replaces the queue with the playlist.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	return r.queueAction(ctx, cmd, models.Play)
}

// Shuffle replaces the queue with the playlist in random order.
func (r *Runner) Shuffle(ctx context.Context, cmd *cli.Command) error {
	return r.queueAction(ctx, cmd, models.Shuffle)
}

// PlayNext inserts the playlist after the current track.
func (r *Runner) PlayNext(ctx context.Context, cmd *cli.Command) error {
	return r.queueAction(ctx, cmd, models.PlayNext)
}

// Enqueue appends the playlist to the queue.
func (r *Runner) Enqueue(ctx context.Context, cmd *cli.Command) error {
	return r.queueAction(ctx, cmd, models.Enqueue)
}

// queueAction resolves the playlist from the cached pages plus the server and applies one queue command.
func (r *Runner) queueAction(ctx context.Context, cmd *cli.Command, action models.QueueAction) error {
	actions, err := r.prepare(ctx, cmd)
	if err != nil {
		return err
	}

	loaded, err := r.tracks.Loaded(actions.Playlist().ID)
	if err != nil {
		r.logger.Warn("failed to read cached tracks", "error", err)
		loaded = models.TrackSet{}
	}

	command, err := actions.Queue(ctx, action, loaded)
	if err != nil {
		return err
	}

	r.writePlain("✓ %s: %d tracks from %s\n\n", action, len(command.IDs), actions.Playlist().Name)
	formatter.RenderQueue(r.output, r.queue.Snapshot())
	return nil
}

// Sync asks for confirmation and re-imports an external playlist.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	actions, err := r.prepare(ctx, cmd)
	if err != nil {
		return err
	}

	session := actions.Sync()
	if session == nil {
		return fmt.Errorf("%w: %s", shared.ErrNotExternal, actions.Playlist().Name)
	}

	session.Request()
	if !cmd.Bool("yes") {
		pl := actions.Playlist()
		ok, err := r.confirm(fmt.Sprintf("Replace the tracks of '%s' with the current contents of %s?", pl.Name, pl.ExternalURL))
		if err != nil {
			session.Cancel()
			return err
		}
		if !ok {
			session.Cancel()
			r.writePlain("Cancelled\n")
			return nil
		}
	}

	if err := session.Run(ctx); err != nil {
		return fmt.Errorf("sync failed: %s", services.ErrorText(err))
	}

	r.writePlain("✓ %s synchronized\n", actions.Playlist().Name)
	return nil
}

// SyncAll re-imports every external playlist.
func (r *Runner) SyncAll(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	playlists, err := r.service.GetPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if err := r.playlists.ReplaceAll(playlists); err != nil {
		r.logger.Warn("failed to cache playlists", "error", err)
	}

	if !cmd.Bool("yes") {
		ok, err := r.confirm("Re-import every external playlist from its source?")
		if err != nil {
			return err
		}
		if !ok {
			r.writePlain("Cancelled\n")
			return nil
		}
	}

	opts := tasks.BulkSyncOpts{Workers: r.config.Sync.Workers, RateLimit: r.config.Sync.RateLimit}
	if w := cmd.Int("workers"); w > 0 {
		opts.Workers = w
	}
	if rate := cmd.Float("rate"); rate > 0 {
		opts.RateLimit = rate
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchPlaylists:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.SyncPlaylist:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := tasks.SyncAll(ctx, progressCh, playlists, r.remote, r.refresher(), r.notifier, r.logger, opts)
	close(progressCh)
	wg.Wait()
	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Sync Complete!")
	r.writePlain("Synced: %d/%d\n", result.Succeeded, result.Total)
	r.writePlain("Skipped (not external): %d\n", result.Skipped)
	if result.Failed > 0 {
		r.writePlain("\nFailed to sync %d playlists:\n", result.Failed)
		for _, res := range result.Results {
			if res.Error != nil {
				r.writePlain("  - %s: %s\n", res.Playlist.Name, services.ErrorText(res.Error))
			}
		}
	}
	return nil
}

// Export writes the playlist to a file in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}
	if dir := cmd.String("dir"); dir != "" {
		r.config.Export.Dir = dir
	}

	actions, err := r.prepare(ctx, cmd)
	if err != nil {
		return err
	}

	format := strings.ToLower(cmd.String("format"))
	if format == "" {
		format = r.config.Export.Format
	}

	var path string
	if format == "" || format == "m3u" {
		path, err = actions.Export(ctx)
	} else {
		loaded, lerr := r.tracks.Loaded(actions.Playlist().ID)
		if lerr != nil {
			loaded = models.TrackSet{}
		}
		path, err = actions.ExportLocal(ctx, loaded, format)
	}
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported %s to %s\n", actions.Playlist().Name, path)
	return nil
}

// Share creates a share link and optionally copies it to the clipboard.
func (r *Runner) Share(ctx context.Context, cmd *cli.Command) error {
	actions, err := r.prepare(ctx, cmd)
	if err != nil {
		return err
	}

	description := cmd.String("description")
	if description == "" {
		description = actions.Playlist().Name
	}

	share, err := tasks.Share(ctx, r.remote, r.notifier, actions.Playlist(), description)
	if err != nil {
		return err
	}

	r.writePlain("%s\n", share.URL)
	if cmd.Bool("copy") {
		if err := r.copy(share.URL); err != nil {
			r.logger.Warn("failed to copy share link", "error", err)
		} else {
			r.writePlain("✓ Copied to clipboard\n")
		}
	}
	return nil
}

// Open opens the external source of the playlist.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	actions, err := r.prepare(ctx, cmd)
	if err != nil {
		return err
	}

	if err := actions.OpenOriginal(); err != nil {
		if errors.Is(err, shared.ErrNotExternal) {
			return err
		}
		return fmt.Errorf("failed to open %s: %w", actions.Playlist().ExternalURL, err)
	}
	r.writePlain("Opened %s\n", actions.Playlist().ExternalURL)
	return nil
}

// prepare connects, finds the playlist argument and builds its action bar.
func (r *Runner) prepare(ctx context.Context, cmd *cli.Command) (*tasks.PlaylistActions, error) {
	if err := r.connect(ctx); err != nil {
		return nil, err
	}

	playlist, err := r.findPlaylist(ctx, cmd.StringArg("playlist"))
	if err != nil {
		return nil, err
	}
	return r.actionsFor(playlist)
}
