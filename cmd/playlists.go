package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/muzicc987/navimax/internal/formatter"
	"github.com/muzicc987/navimax/internal/services"
	"github.com/muzicc987/navimax/internal/shared"
)

// Playlists lists every playlist visible to the user and refreshes the local cache.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	playlists, err := r.service.GetPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if err := r.playlists.ReplaceAll(playlists); err != nil {
		r.logger.Warn("failed to cache playlists", "error", err)
	}

	if cmd.Bool("external") {
		if playlists, err = r.playlists.List(map[string]any{"external": true}); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	formatter.RenderPlaylists(r.output, playlists, r.session())
	return nil
}

// Tracks shows one page of a playlist and stores it as locally loaded tracks.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	playlist, err := r.findPlaylist(ctx, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}

	start := max(cmd.Int("start"), 0)
	opts := services.ListOptions{Start: start}
	if limit := cmd.Int("limit"); limit > 0 {
		opts.End = start + limit
	}

	tracks, err := r.service.ListPlaylistTracks(ctx, playlist.ID, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if err := r.tracks.SavePage(playlist.ID, start, tracks); err != nil {
		r.logger.Warn("failed to cache tracks", "playlist", playlist.ID, "error", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	r.writePlain("%s: tracks %d-%d of %d\n", playlist.Name, start+1, start+len(tracks), playlist.SongCount)
	formatter.RenderTracks(r.output, tracks)
	return nil
}
