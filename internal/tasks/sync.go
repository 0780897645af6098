package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/notify"
	"github.com/muzicc987/navimax/internal/services"
	"github.com/muzicc987/navimax/internal/shared"
)

// SyncPhase is the state of a [SyncSession].
type SyncPhase int

const (
	Idle SyncPhase = iota
	Confirming
	Syncing
)

func (p SyncPhase) String() string {
	switch p {
	case Confirming:
		return "confirming"
	case Syncing:
		return "syncing"
	default:
		return "idle"
	}
}

// SyncSession coordinates the resynchronization of one external playlist.
//
// Idle → Confirming on Request, back to Idle on Cancel; Confirm moves to Syncing and issues
// exactly one remote request, returning to Idle when it completes whatever the outcome.
// At most one request is in flight per session.
type SyncSession struct {
	mu    sync.Mutex
	phase SyncPhase

	playlist  models.Playlist
	syncer    Syncer
	refresher Refresher
	notifier  notify.Notifier
	logger    *log.Logger

	onChange func(SyncPhase)
}

// NewSyncSession creates a session for an external playlist.
//
// Returns [shared.ErrNotExternal] when the playlist has no external source.
func NewSyncSession(playlist models.Playlist, syncer Syncer, refresher Refresher, notifier notify.Notifier, logger *log.Logger) (*SyncSession, error) {
	if !playlist.IsExternal() {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotExternal, playlist.Name)
	}
	if syncer == nil {
		return nil, fmt.Errorf("%w: syncer not initialized", shared.ErrServiceUnavailable)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}

	return &SyncSession{
		playlist:  playlist,
		syncer:    syncer,
		refresher: refresher,
		notifier:  notifier,
		logger:    shared.WithLogger(logger, "playlist", playlist.ID),
	}, nil
}

// OnChange registers fn to be called after every phase transition. It runs outside the lock.
func (s *SyncSession) OnChange(fn func(SyncPhase)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Playlist returns the playlist the session syncs.
func (s *SyncSession) Playlist() models.Playlist {
	return s.playlist
}

// Phase returns the current phase.
func (s *SyncSession) Phase() SyncPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Disabled reports whether the sync trigger must be disabled.
func (s *SyncSession) Disabled() bool {
	p := s.Phase()
	return p == Confirming || p == Syncing
}

// transition moves from one of the allowed phases to next under the lock.
func (s *SyncSession) transition(next SyncPhase, from ...SyncPhase) bool {
	s.mu.Lock()
	allowed := false
	for _, f := range from {
		if s.phase == f {
			allowed = true
			break
		}
	}
	if allowed {
		s.phase = next
	}
	fn := s.onChange
	s.mu.Unlock()

	if allowed && fn != nil {
		fn(next)
	}
	return allowed
}

// Request opens the confirmation. It never contacts the server and is ignored while syncing.
func (s *SyncSession) Request() bool {
	return s.transition(Confirming, Idle)
}

// Cancel dismisses the confirmation.
func (s *SyncSession) Cancel() bool {
	return s.transition(Idle, Confirming)
}

// Confirm starts the sync unless one is already in flight.
//
// The check and the move to Syncing happen under one lock acquisition, so concurrent confirms
// issue a single request. The request runs in its own goroutine; the returned channel receives
// its outcome and is then closed. ok is false, and nothing happens, when already syncing.
//
// On success a sync-success notification is shown and the refresher is signalled. On failure a
// sync-error warning carrying the server's message is shown. Either way the session returns to Idle.
func (s *SyncSession) Confirm(ctx context.Context) (done <-chan error, ok bool) {
	if !s.transition(Syncing, Idle, Confirming) {
		s.logger.Debug("sync already in progress")
		return nil, false
	}

	result := make(chan error, 1)
	go func() {
		var err error
		defer func() {
			s.transition(Idle, Syncing)
			result <- err
			close(result)
		}()
		err = s.sync(ctx)
	}()

	return result, true
}

func (s *SyncSession) sync(ctx context.Context) error {
	s.logger.Info("syncing external playlist", "source", s.playlist.ExternalURL)

	if err := s.syncer.SyncExternalPlaylist(ctx, s.playlist.ID); err != nil {
		s.logger.Warn("external playlist sync failed", "error", err)
		s.notifier.Notify(notify.New(notify.SyncError, notify.Warning, "error", services.ErrorText(err)))
		return err
	}

	s.notifier.Notify(notify.New(notify.SyncSuccess, notify.Success, "name", s.playlist.Name))
	if s.refresher != nil {
		if err := s.refresher.Refresh(ctx, s.playlist.ID); err != nil {
			s.logger.Warn("refresh after sync failed", "error", err)
		}
	}
	return nil
}

// Run confirms and waits for the outcome. Returns [shared.ErrSyncInProgress] when a sync is
// already running.
func (s *SyncSession) Run(ctx context.Context) error {
	done, ok := s.Confirm(ctx)
	if !ok {
		return shared.ErrSyncInProgress
	}
	return <-done
}
