package repositories

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// CacheInvalidator drops cached track pages for a playlist after it changed on the server.
//
// A successful external sync calls Refresh so the next list view reloads the playlist
// instead of showing stale pages.
type CacheInvalidator struct {
	tracks *PlaylistTrackRepository
	logger *log.Logger
}

// NewCacheInvalidator creates a CacheInvalidator over the given repository
func NewCacheInvalidator(tracks *PlaylistTrackRepository, logger *log.Logger) *CacheInvalidator {
	return &CacheInvalidator{tracks: tracks, logger: logger}
}

// Refresh drops the loaded pages of the playlist.
func (c *CacheInvalidator) Refresh(ctx context.Context, playlistID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.tracks.Invalidate(playlistID); err != nil {
		return fmt.Errorf("failed to refresh playlist %s: %w", playlistID, err)
	}

	if c.logger != nil {
		c.logger.Debug("playlist cache invalidated", "playlist", playlistID)
	}
	return nil
}
