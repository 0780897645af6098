// package tasks implements the playlist action orchestration: track resolution, queue dispatch,
// external playlist sync, export and share.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/notify"
	"github.com/muzicc987/navimax/internal/services"
	"github.com/muzicc987/navimax/internal/shared"
)

// QueueStore receives queue commands.
type QueueStore interface {
	Apply(cmd models.QueueCommand) error
}

// Syncer asks the server to re-import an external playlist.
type Syncer interface {
	SyncExternalPlaylist(ctx context.Context, playlistID string) error
}

// Exporter fetches the server-rendered M3U of a playlist.
type Exporter interface {
	ExportPlaylist(ctx context.Context, playlistID string) ([]byte, error)
}

// Sharer creates public share links.
type Sharer interface {
	CreateShare(ctx context.Context, playlist models.Playlist, description string) (*models.Share, error)
}

// Refresher is told when a playlist changed on the server so dependent views reload it.
type Refresher interface {
	Refresh(ctx context.Context, playlistID string) error
}

// RefreshFunc adapts a function to [Refresher].
type RefreshFunc func(ctx context.Context, playlistID string) error

func (f RefreshFunc) Refresh(ctx context.Context, playlistID string) error {
	return f(ctx, playlistID)
}

// Refreshers fans a refresh out to each refresher, joining their errors.
type Refreshers []Refresher

func (rs Refreshers) Refresh(ctx context.Context, playlistID string) error {
	var errs []error
	for _, r := range rs {
		if r == nil {
			continue
		}
		if err := r.Refresh(ctx, playlistID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Deps holds the collaborators of [PlaylistActions]. Tracks and Store are required.
type Deps struct {
	Tracks    services.TrackSource
	Store     QueueStore
	Syncer    Syncer
	Exporter  Exporter
	Sharer    Sharer
	Refresher Refresher
	Notifier  notify.Notifier
	Logger    *log.Logger
	ExportDir string
	OpenURL   func(url string) error
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = shared.NewLogger(nil)
	}
	if d.Notifier == nil {
		d.Notifier = notify.NewLogNotifier(d.Logger)
	}
	if d.OpenURL == nil {
		d.OpenURL = shared.OpenBrowser
	}
	return d
}

// PlaylistActions is the action bar of one rendered playlist.
//
// It binds the resolver, dispatcher and queue store for the queue actions, and owns the
// playlist's [SyncSession] when the playlist is external.
type PlaylistActions struct {
	playlist   models.Playlist
	deps       Deps
	resolver   *Resolver
	dispatcher *Dispatcher
	requester  *ExportRequester
	sync       *SyncSession
}

// NewPlaylistActions creates the action bar for playlist.
func NewPlaylistActions(playlist models.Playlist, deps Deps) (*PlaylistActions, error) {
	if err := playlist.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}
	if deps.Tracks == nil || deps.Store == nil {
		return nil, fmt.Errorf("%w: track source and queue store are required", shared.ErrServiceUnavailable)
	}
	deps = deps.withDefaults()

	resolver := NewResolver(deps.Tracks, deps.Logger)
	a := &PlaylistActions{
		playlist:   playlist,
		deps:       deps,
		resolver:   resolver,
		dispatcher: NewDispatcher(deps.Store, deps.Logger),
		requester:  NewExportRequester(deps.Exporter, resolver, deps.Notifier, deps.Logger, deps.ExportDir),
	}

	if playlist.IsExternal() && deps.Syncer != nil {
		session, err := NewSyncSession(playlist, deps.Syncer, deps.Refresher, deps.Notifier, deps.Logger)
		if err != nil {
			return nil, err
		}
		a.sync = session
	}

	return a, nil
}

// Playlist returns the playlist the actions operate on.
func (a *PlaylistActions) Playlist() models.Playlist {
	return a.playlist
}

// Queue resolves the full track set and emits exactly one queue command for action.
//
// On resolution failure a list-fetch-error warning is shown and nothing is dispatched.
func (a *PlaylistActions) Queue(ctx context.Context, action models.QueueAction, loaded models.TrackSet) (models.QueueCommand, error) {
	set, err := a.resolver.Resolve(ctx, a.playlist, loaded)
	if err != nil {
		a.deps.Notifier.Notify(notify.New(notify.ListFetchError, notify.Warning))
		return models.QueueCommand{}, err
	}
	return a.dispatcher.Dispatch(action, set)
}

// Play replaces the queue with the playlist and starts playback at its first track.
func (a *PlaylistActions) Play(ctx context.Context, loaded models.TrackSet) (models.QueueCommand, error) {
	return a.Queue(ctx, models.Play, loaded)
}

// Shuffle replaces the queue with the playlist in random order.
func (a *PlaylistActions) Shuffle(ctx context.Context, loaded models.TrackSet) (models.QueueCommand, error) {
	return a.Queue(ctx, models.Shuffle, loaded)
}

// PlayNext inserts the playlist after the current track.
func (a *PlaylistActions) PlayNext(ctx context.Context, loaded models.TrackSet) (models.QueueCommand, error) {
	return a.Queue(ctx, models.PlayNext, loaded)
}

// Enqueue appends the playlist to the queue.
func (a *PlaylistActions) Enqueue(ctx context.Context, loaded models.TrackSet) (models.QueueCommand, error) {
	return a.Queue(ctx, models.Enqueue, loaded)
}

// Sync returns the sync session, or nil when the playlist is not external.
func (a *PlaylistActions) Sync() *SyncSession {
	return a.sync
}

// Export downloads the server-rendered M3U into the export directory.
func (a *PlaylistActions) Export(ctx context.Context) (string, error) {
	return a.requester.Export(ctx, a.playlist)
}

// ExportLocal resolves the full track set and renders it locally in format.
func (a *PlaylistActions) ExportLocal(ctx context.Context, loaded models.TrackSet, format string) (string, error) {
	return a.requester.ExportLocal(ctx, a.playlist, loaded, format)
}

// Share creates a public share link for the playlist.
func (a *PlaylistActions) Share(ctx context.Context) (*models.Share, error) {
	return Share(ctx, a.deps.Sharer, a.deps.Notifier, a.playlist, a.playlist.Name)
}

// OpenOriginal opens the external source of the playlist in the browser.
func (a *PlaylistActions) OpenOriginal() error {
	if !a.playlist.IsExternal() {
		return fmt.Errorf("%w: %s", shared.ErrNotExternal, a.playlist.Name)
	}
	return a.deps.OpenURL(a.playlist.ExternalURL)
}

// SizeLabel is the download label shown next to the playlist, e.g. "Download (12 MB)".
func (a *PlaylistActions) SizeLabel() string {
	return fmt.Sprintf("Download (%s)", shared.FormatBytes(a.playlist.Size))
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
