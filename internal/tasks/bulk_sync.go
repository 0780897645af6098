package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/notify"
	"github.com/muzicc987/navimax/internal/shared"
)

// BulkSyncOpts contains configuration for resyncing many external playlists.
type BulkSyncOpts struct {
	Workers   int     // Concurrent syncs (default: 3, max: 10)
	RateLimit float64 // Sync requests per second (default: 2)
}

// PlaylistSyncResult is the outcome for one playlist.
type PlaylistSyncResult struct {
	Playlist models.Playlist
	Error    error
}

// BulkSyncResult summarizes a [SyncAll] run.
type BulkSyncResult struct {
	Total     int
	Skipped   int
	Succeeded int
	Failed    int
	Results   []PlaylistSyncResult
}

// SyncAll resyncs every external playlist in playlists, skipping local ones.
//
// Each playlist goes through its own [SyncSession], so the per-playlist guarantees hold: one
// request each, a notification per outcome, and a refresh on success. Individual failures are
// collected in the result; only cancellation of ctx aborts the run.
func SyncAll(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	playlists []models.Playlist,
	syncer Syncer,
	refresher Refresher,
	notifier notify.Notifier,
	logger *log.Logger,
	opts BulkSyncOpts,
) (*BulkSyncResult, error) {
	if syncer == nil {
		return nil, fmt.Errorf("%w: syncer not initialized", shared.ErrServiceUnavailable)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.Workers <= 0 {
		opts.Workers = 3
	}
	if opts.Workers > 10 {
		opts.Workers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	external := lo.Filter(playlists, func(p models.Playlist, _ int) bool { return p.IsExternal() })
	result := &BulkSyncResult{
		Total:   len(external),
		Skipped: len(playlists) - len(external),
		Results: make([]PlaylistSyncResult, len(external)),
	}
	sendProgress(prog, selectedPlaylistsUpdate(result.Total, result.Skipped))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	var (
		mu        sync.Mutex
		completed int
		g         errgroup.Group
	)
	g.SetLimit(opts.Workers)

	for i, pl := range external {
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				result.Results[i] = PlaylistSyncResult{Playlist: pl, Error: err}
				return err
			}

			session, err := NewSyncSession(pl, syncer, refresher, notifier, logger)
			if err == nil {
				sendProgress(prog, syncStartedUpdate(i+1, result.Total, pl))
				err = session.Run(ctx)
			}
			result.Results[i] = PlaylistSyncResult{Playlist: pl, Error: err}

			mu.Lock()
			defer mu.Unlock()
			completed++
			if err != nil {
				result.Failed++
				sendProgress(prog, syncFailedUpdate(completed, result.Total, pl, err))
			} else {
				result.Succeeded++
				sendProgress(prog, syncCompletedUpdate(completed, result.Total, pl))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, fmt.Errorf("bulk sync interrupted: %w", err)
	}

	logger.Info("bulk sync finished", "total", result.Total, "succeeded", result.Succeeded, "failed", result.Failed, "skipped", result.Skipped)
	return result, nil
}
