package models

import (
	"fmt"
	"strings"
)

// QueueAction enumerates the mutually exclusive playback queue mutations.
type QueueAction int

const (
	Play QueueAction = iota
	Shuffle
	PlayNext
	Enqueue
)

func (a QueueAction) String() string {
	switch a {
	case Play:
		return "play"
	case Shuffle:
		return "shuffle"
	case PlayNext:
		return "play_next"
	case Enqueue:
		return "enqueue"
	default:
		return ""
	}
}

// ParseQueueAction parses the names produced by [QueueAction.String], plus a few CLI aliases.
func ParseQueueAction(s string) (QueueAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "play":
		return Play, nil
	case "shuffle":
		return Shuffle, nil
	case "play_next", "play-next", "next":
		return PlayNext, nil
	case "enqueue", "add", "queue":
		return Enqueue, nil
	default:
		return 0, fmt.Errorf("unknown queue action %q", s)
	}
}

// QueueCommand is the instruction emitted to the playback queue for one user action.
//
// ID lets the store consume each command exactly once.
type QueueCommand struct {
	ID     string
	Action QueueAction
	IDs    []string
	Tracks map[string]Track
}

// Ordered returns the command's tracks in ID order.
func (c QueueCommand) Ordered() []Track {
	return TrackSet{IDs: c.IDs, Tracks: c.Tracks}.Ordered()
}

// QueueState is a snapshot of the playback queue.
//
// Current is the index of the playing entry, -1 when nothing is playing.
type QueueState struct {
	Entries       []Track
	Current       int
	LastCommandID string
}

// CurrentTrack returns the playing entry, if any.
func (s QueueState) CurrentTrack() (Track, bool) {
	if s.Current < 0 || s.Current >= len(s.Entries) {
		return Track{}, false
	}
	return s.Entries[s.Current], true
}
