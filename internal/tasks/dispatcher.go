package tasks

import (
	"fmt"
	"maps"

	"github.com/charmbracelet/log"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/shared"
)

// Dispatch maps a queue action and a resolved track set to the command sent to the queue store.
//
// It is total: an empty set yields a command without tracks. Each command gets a fresh ID.
func Dispatch(action models.QueueAction, set models.TrackSet) models.QueueCommand {
	return models.QueueCommand{
		ID:     shared.GenerateID(),
		Action: action,
		IDs:    append([]string(nil), set.IDs...),
		Tracks: maps.Clone(set.Tracks),
	}
}

// Dispatcher emits queue commands into a [QueueStore].
type Dispatcher struct {
	store  QueueStore
	logger *log.Logger
}

func NewDispatcher(store QueueStore, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Dispatcher{store: store, logger: logger}
}

// Dispatch builds the command for action and applies it to the store exactly once.
func (d *Dispatcher) Dispatch(action models.QueueAction, set models.TrackSet) (models.QueueCommand, error) {
	cmd := Dispatch(action, set)

	if err := d.store.Apply(cmd); err != nil {
		return cmd, fmt.Errorf("failed to apply %s: %w", action, err)
	}

	d.logger.Info("queue updated", "action", action, "tracks", len(cmd.IDs), "command", cmd.ID)
	return cmd, nil
}
