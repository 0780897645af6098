// Package services implements the remote capabilities used by the playlist actions.
//
// # Transport
//
// [APIService] is the raw HTTP layer. It sends the session token in the X-ND-Authorization header
// and turns non-2xx responses into [*HTTPError] through [APIResponse.Err], keeping the server's
// "error" message so it can be shown to the user ([ErrorText]).
//
// # Navidrome
//
// [NavidromeService] talks to the native /api resource endpoints:
//   - GET /api/playlist : list playlists
//   - GET /api/playlist/{id}/tracks : membership rows, sorted id ASC, optionally paged with _start/_end
//   - PUT /api/externalPlaylist/sync/{id} : re-import an external playlist
//   - GET /api/playlist/{id}/tracks with Accept: audio/x-mpegurl : M3U export
//   - POST /api/share : create a share link
//
// # Subsonic
//
// [SubsonicService] is an alternative [TrackSource] built on go-subsonic, for servers where
// only the Subsonic API is reachable. It cannot sync, export or share.
//
// # Error Handling
//
//   - [shared.ErrAPIRequest] : transport failure
//   - [shared.ErrPlaylistNotFound] : playlist ID not found
//   - [shared.ErrNotAuthenticated] : Subsonic Authenticate() not called or rejected
package services
