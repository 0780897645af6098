// Package repositories implements SQLite persistence for the resource cache and the play queue.
//
// Key Implementations:
//   - [PlaylistRepository] : playlists as last listed from the server
//   - [PlaylistTrackRepository] : track pages loaded by list views, keyed by (playlist, membership id)
//   - [QueueRepository] : the single play queue row and its ordered entries
//   - [CacheInvalidator] : drops cached pages after a playlist changes on the server
//
// The cache is advisory. Loaded pages may be a strict subset of a playlist; callers compare their
// size against [models.Playlist.SongCount] before trusting them.
package repositories
