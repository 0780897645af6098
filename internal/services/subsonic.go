// Subsonic API [Service] implementation
//
// Uses github.com/delucks/go-subsonic against the server's /rest endpoints.
package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	subsonic "github.com/delucks/go-subsonic"
	"github.com/samber/lo"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/shared"
)

const subsonicClientName = "navimax"

// SubsonicService implements [Service] over the Subsonic API.
//
// Subsonic playlist entries carry no membership identity, so entry positions (1-based) stand in for it.
type SubsonicService struct {
	client subsonic.Client
	authed bool
}

// NewSubsonicService creates a service for the server at baseURL. Call Authenticate before use.
func NewSubsonicService(baseURL, username string, httpClient *http.Client) *SubsonicService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SubsonicService{
		client: subsonic.Client{
			Client:       httpClient,
			BaseUrl:      baseURL,
			User:         username,
			ClientName:   subsonicClientName,
			PasswordAuth: true,
		},
	}
}

// Name returns the service name.
func (s *SubsonicService) Name() string {
	return "Subsonic"
}

// Authenticate verifies the password with the server and stores it for subsequent requests.
func (s *SubsonicService) Authenticate(password string) error {
	if password == "" {
		return fmt.Errorf("%w: subsonic password", shared.ErrMissingCredentials)
	}
	if err := s.client.Authenticate(password); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrNotAuthenticated, err)
	}
	s.authed = true
	return nil
}

func (s *SubsonicService) ready(ctx context.Context) error {
	if !s.authed {
		return shared.ErrNotAuthenticated
	}
	return ctx.Err()
}

// GetPlaylists retrieves all playlists via getPlaylists.
func (s *SubsonicService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	playlists, err := s.client.GetPlaylists(map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	return lo.Map(playlists, func(p *subsonic.Playlist, _ int) models.Playlist {
		return subsonicPlaylist(p)
	}), nil
}

// GetPlaylist retrieves a specific playlist via getPlaylist.
func (s *SubsonicService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	p, err := s.client.GetPlaylist(playlistID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	playlist := subsonicPlaylist(p)
	return &playlist, nil
}

// ListPlaylistTracks fetches the playlist entries via getPlaylist and slices the requested page locally.
func (s *SubsonicService) ListPlaylistTracks(ctx context.Context, playlistID string, opts ListOptions) ([]models.Track, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	p, err := s.client.GetPlaylist(playlistID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	tracks := childrenToTracks(playlistID, p.Entry)
	if opts.Paged() {
		start := min(opts.Start, len(tracks))
		end := min(opts.End, len(tracks))
		tracks = tracks[start:end]
	}
	return tracks, nil
}

func subsonicPlaylist(p *subsonic.Playlist) models.Playlist {
	return models.Playlist{
		ID:        p.ID,
		Name:      p.Name,
		Comment:   p.Comment,
		OwnerName: p.Owner,
		SongCount: p.SongCount,
		Duration:  float32(p.Duration),
		Public:    p.Public,
	}
}

// childrenToTracks maps playlist entries to membership rows, numbering them from 1.
func childrenToTracks(playlistID string, entries []*subsonic.Child) []models.Track {
	entries = lo.Filter(entries, func(c *subsonic.Child, _ int) bool { return c != nil })
	return lo.Map(entries, func(c *subsonic.Child, i int) models.Track {
		return models.Track{
			ID:          strconv.Itoa(i + 1),
			MediaFileID: c.ID,
			PlaylistID:  playlistID,
			Title:       c.Title,
			Artist:      c.Artist,
			Album:       c.Album,
			Duration:    float32(c.Duration),
			Path:        c.Path,
			Size:        c.Size,
		}
	})
}
