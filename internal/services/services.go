// package services defines the remote capabilities the playlist actions depend on
package services

import (
	"context"

	"github.com/muzicc987/navimax/internal/models"
)

// ListOptions narrows a playlist track listing.
//
// A zero End requests the whole membership in one unpaginated fetch.
type ListOptions struct {
	Start int
	End   int
}

// Paged reports whether the options describe a bounded page.
func (o ListOptions) Paged() bool {
	return o.End > o.Start
}

// TrackSource fetches playlist membership rows, sorted by membership ID ascending.
type TrackSource interface {
	ListPlaylistTracks(ctx context.Context, playlistID string, opts ListOptions) ([]models.Track, error)
}

// Service defines a playlist provider (Navidrome REST or Subsonic).
type Service interface {
	TrackSource

	// GetPlaylists retrieves every playlist visible to the session user.
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)

	// GetPlaylist retrieves a specific playlist by ID without tracks.
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)

	// Name returns the name of the service (e.g., "Navidrome", "Subsonic")
	Name() string
}
