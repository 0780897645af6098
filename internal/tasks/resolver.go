package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/services"
	"github.com/muzicc987/navimax/internal/shared"
)

// Resolver produces the complete track set of a playlist from whatever subset is loaded locally.
type Resolver struct {
	source services.TrackSource
	logger *log.Logger
}

// NewResolver creates a resolver fetching missing tracks from source.
func NewResolver(source services.TrackSource, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Resolver{source: source, logger: logger}
}

// Resolve returns loaded unchanged when it already holds SongCount tracks. Otherwise it fetches
// the whole membership in one unpaginated request and orders it by membership ID.
//
// Any fetch failure fails the resolution as a whole with [shared.ErrResolution]; no partial
// set is returned.
func (r *Resolver) Resolve(ctx context.Context, playlist models.Playlist, loaded models.TrackSet) (models.TrackSet, error) {
	if loaded.Len() == playlist.SongCount {
		r.logger.Debug("track set already complete", "playlist", playlist.ID, "tracks", loaded.Len())
		return loaded, nil
	}

	r.logger.Debug("fetching full track set", "playlist", playlist.ID, "loaded", loaded.Len(), "songCount", playlist.SongCount)

	tracks, err := r.source.ListPlaylistTracks(ctx, playlist.ID, services.ListOptions{})
	if err != nil {
		r.logger.Warn("track resolution failed", "playlist", playlist.ID, "error", err)
		return models.TrackSet{}, fmt.Errorf("%w: %w", shared.ErrResolution, err)
	}

	if len(tracks) != playlist.SongCount {
		r.logger.Warn("fetched track count differs from song count", "playlist", playlist.ID, "fetched", len(tracks), "songCount", playlist.SongCount)
	}

	tracks = append([]models.Track(nil), tracks...)
	models.SortByMembership(tracks)
	return models.NewTrackSet(tracks), nil
}
