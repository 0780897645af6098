// Navidrome native REST API [Service] implementation
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/shared"
)

// M3UMimeType is the Accept header value that makes the server render a track list as M3U.
const M3UMimeType = "audio/x-mpegurl"

// NavidromeService implements [Service] against the /api resource endpoints.
type NavidromeService struct {
	api *APIService
}

// NewNavidromeService creates a service backed by api, which should carry the session token.
func NewNavidromeService(api *APIService) *NavidromeService {
	return &NavidromeService{api: api}
}

// Name returns the service name.
func (n *NavidromeService) Name() string {
	return "Navidrome"
}

// BaseURL returns the server root.
func (n *NavidromeService) BaseURL() string {
	return n.api.BaseURL()
}

func (n *NavidromeService) getJSON(ctx context.Context, path string, result any) error {
	resp, err := n.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetPlaylists retrieves all playlists sorted by name.
//
// Calls GET /api/playlist?_sort=name&_order=ASC.
func (n *NavidromeService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := n.getJSON(ctx, "/api/playlist?_sort=name&_order=ASC", &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// GetPlaylist retrieves a specific playlist by ID.
//
// Calls GET /api/playlist/{id}; a 404 maps to [shared.ErrPlaylistNotFound].
func (n *NavidromeService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	var playlist models.Playlist
	err := n.getJSON(ctx, "/api/playlist/"+url.PathEscape(playlistID), &playlist)
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

// TracksPath builds the membership listing path for a playlist.
func TracksPath(playlistID string, opts ListOptions) string {
	q := url.Values{}
	q.Set("playlist_id", playlistID)
	q.Set("_sort", "id")
	q.Set("_order", "ASC")
	if opts.Paged() {
		q.Set("_start", strconv.Itoa(opts.Start))
		q.Set("_end", strconv.Itoa(opts.End))
	}
	return fmt.Sprintf("/api/playlist/%s/tracks?%s", url.PathEscape(playlistID), q.Encode())
}

// ListPlaylistTracks fetches playlist membership rows sorted by membership ID.
//
// Calls GET /api/playlist/{id}/tracks; _start/_end are only sent for a bounded page.
func (n *NavidromeService) ListPlaylistTracks(ctx context.Context, playlistID string, opts ListOptions) ([]models.Track, error) {
	var tracks []models.Track
	if err := n.getJSON(ctx, TracksPath(playlistID, opts), &tracks); err != nil {
		return nil, err
	}
	for i := range tracks {
		if tracks[i].PlaylistID == "" {
			tracks[i].PlaylistID = playlistID
		}
	}
	return tracks, nil
}

// SyncExternalPlaylist asks the server to re-import an external playlist from its source.
//
// Calls PUT /api/externalPlaylist/sync/{id}.
func (n *NavidromeService) SyncExternalPlaylist(ctx context.Context, playlistID string) error {
	resp, err := n.api.Put(ctx, "/api/externalPlaylist/sync/"+url.PathEscape(playlistID), nil)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	return resp.Err()
}

// ExportPlaylist returns the server-rendered M3U track list of a playlist.
//
// Calls GET /api/playlist/{id}/tracks with Accept: audio/x-mpegurl.
func (n *NavidromeService) ExportPlaylist(ctx context.Context, playlistID string) ([]byte, error) {
	header := http.Header{}
	header.Set("Accept", M3UMimeType)

	resp, err := n.api.Do(ctx, http.MethodGet, "/api/playlist/"+url.PathEscape(playlistID)+"/tracks", nil, header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

type shareRequest struct {
	ResourceIDs  string `json:"resourceIds"`
	ResourceType string `json:"resourceType"`
	Description  string `json:"description,omitempty"`
}

// CreateShare creates a public share link for the playlist.
//
// Calls POST /api/share; the returned URL is {server}/share/{id}.
func (n *NavidromeService) CreateShare(ctx context.Context, playlist models.Playlist, description string) (*models.Share, error) {
	body, err := json.Marshal(shareRequest{
		ResourceIDs:  playlist.ID,
		ResourceType: "playlist",
		Description:  description,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode share request: %w", err)
	}

	resp, err := n.api.Post(ctx, "/api/share", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if strings.TrimSpace(created.ID) == "" {
		return nil, fmt.Errorf("%w: share created without id", shared.ErrAPIRequest)
	}

	return &models.Share{
		ID:           created.ID,
		URL:          n.api.BaseURL() + "/share/" + created.ID,
		ResourceType: "playlist",
		ResourceIDs:  []string{playlist.ID},
		Description:  description,
	}, nil
}
