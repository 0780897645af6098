package tasks

import (
	"fmt"

	"github.com/muzicc987/navimax/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylists Phase = iota
	ResolveTracks
	SyncPlaylist
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylists:
		return "fetch_playlists"
	case ResolveTracks:
		return "resolve_tracks"
	case SyncPlaylist:
		return "sync_playlist"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

func selectedPlaylistsUpdate(total, skipped int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Syncing %d external playlists (%d local skipped)...", total, skipped),
	}
}

func syncStartedUpdate(step, total int, pl models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Syncing: %s...", step, total, pl.Name),
	}
}

func syncCompletedUpdate(step, total int, pl models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, pl.Name),
		Data:    pl,
	}
}

func syncFailedUpdate(step, total int, pl models.Playlist, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, pl.Name, err),
		Data:    pl,
	}
}
