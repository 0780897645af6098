// package queue implements the playback queue store
//
// The store is the single owner of queue state. It applies [models.QueueCommand]s, each at most
// once, and persists the result so the CLI can show the queue between invocations.
package queue

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/shared"
)

// Persister loads and saves queue snapshots.
type Persister interface {
	Load() (models.QueueState, error)
	Save(state models.QueueState) error
}

// Store is a process-wide play queue guarded by a mutex.
type Store struct {
	mu      sync.Mutex
	state   models.QueueState
	applied map[string]struct{}
	persist Persister
	shuffle func([]models.Track)
	logger  *log.Logger
}

// Option configures a [Store].
type Option func(*Store)

// WithPersister restores state from p and saves after every change.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persist = p }
}

// WithShuffle overrides the shuffle used for [models.Shuffle] commands.
func WithShuffle(fn func([]models.Track)) Option {
	return func(s *Store) { s.shuffle = fn }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func shuffleTracks(tracks []models.Track) {
	rand.Shuffle(len(tracks), func(i, j int) { tracks[i], tracks[j] = tracks[j], tracks[i] })
}

// NewStore creates a store, loading any persisted state.
func NewStore(opts ...Option) (*Store, error) {
	s := &Store{
		state:   models.QueueState{Current: -1},
		applied: make(map[string]struct{}),
		shuffle: shuffleTracks,
		logger:  shared.NewLogger(nil),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.persist != nil {
		state, err := s.persist.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to restore queue: %w", err)
		}
		s.state = state
		if state.LastCommandID != "" {
			s.applied[state.LastCommandID] = struct{}{}
		}
	}

	return s, nil
}

// Apply mutates the queue according to cmd.
//
//   - Play replaces the queue and starts at the first track
//   - Shuffle replaces the queue with a shuffled copy and starts at the first track
//   - PlayNext inserts after the current track, leaving the current position alone
//   - Enqueue appends
//
// A command whose ID was already applied returns [shared.ErrDuplicate]. Commands without tracks
// leave the queue unchanged.
func (s *Store) Apply(cmd models.QueueCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cmd.ID != "" {
		if _, seen := s.applied[cmd.ID]; seen {
			return fmt.Errorf("%w: %s", shared.ErrDuplicate, cmd.ID)
		}
	}

	tracks := cmd.Ordered()
	next := s.state
	next.Entries = append([]models.Track(nil), s.state.Entries...)
	next.LastCommandID = cmd.ID

	if len(tracks) > 0 {
		switch cmd.Action {
		case models.Play:
			next.Entries = tracks
			next.Current = 0
		case models.Shuffle:
			s.shuffle(tracks)
			next.Entries = tracks
			next.Current = 0
		case models.PlayNext:
			at := min(next.Current+1, len(next.Entries))
			if at < 0 {
				at = 0
			}
			next.Entries = append(next.Entries[:at], append(tracks, next.Entries[at:]...)...)
			if next.Current < 0 {
				next.Current = 0
			}
		case models.Enqueue:
			next.Entries = append(next.Entries, tracks...)
			if next.Current < 0 {
				next.Current = 0
			}
		default:
			return fmt.Errorf("%w: queue action %d", shared.ErrInvalidArgument, cmd.Action)
		}
	}

	if s.persist != nil {
		if err := s.persist.Save(next); err != nil {
			return fmt.Errorf("failed to persist queue: %w", err)
		}
	}

	s.state = next
	if cmd.ID != "" {
		s.applied[cmd.ID] = struct{}{}
	}

	s.logger.Debug("queue updated", "action", cmd.Action, "tracks", len(tracks), "size", len(next.Entries), "current", next.Current)
	return nil
}

// Snapshot returns a copy of the current queue state.
func (s *Store) Snapshot() models.QueueState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state
	snap.Entries = append([]models.Track(nil), s.state.Entries...)
	return snap
}

// Clear empties the queue.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := models.QueueState{Current: -1, LastCommandID: s.state.LastCommandID}
	if s.persist != nil {
		if err := s.persist.Save(next); err != nil {
			return fmt.Errorf("failed to persist queue: %w", err)
		}
	}
	s.state = next
	return nil
}
