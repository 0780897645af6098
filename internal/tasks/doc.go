// Package tasks orchestrates the actions available on a rendered playlist.
//
// # Queue Actions
//
// [PlaylistActions] exposes play, shuffle, play next and enqueue. Each one goes through the
// [Resolver], which returns the locally loaded [models.TrackSet] when it already holds the
// playlist's song count and otherwise fetches the whole membership in a single unpaginated
// request. The resolved set is handed to [Dispatch], which maps it to exactly one
// [models.QueueCommand] for the queue store. A failed resolution dispatches nothing and
// shows a list-fetch-error warning.
//
// # External Sync
//
// A [SyncSession] guards the resync of an external playlist behind a confirmation:
//
//	Idle ──Request──▶ Confirming ──Confirm──▶ Syncing ──done──▶ Idle
//	                      └──────Cancel──────▶ Idle
//
// Only Confirm reaches the server, and a session never has two requests in flight.
// [SyncAll] resyncs many external playlists through a bounded, rate limited worker pool.
//
// # Export and Share
//
// [ExportRequester] writes the server-rendered M3U, or a locally rendered m3u8, csv,
// markdown or text file, and reports the outcome as a notification. [Share] creates a
// public share link.
//
// # Progress Reporting
//
// Bulk operations send [ProgressUpdate] values on an optional channel. Sends use select with
// default so a slow reader never blocks the work.
package tasks
