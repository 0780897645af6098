// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow around playlist actions:
//  1. [PlaylistListView] : Browse the user's playlists, then the ones shared with them
//  2. [TrackListView] : Preview the first page of tracks and trigger actions
//  3. [ConfirmView] : Confirm the resync of an external playlist
//
// The track view binds p/s/n/e to play, shuffle, play next and enqueue, x to export, h to
// share, o to open the external source and c to start a sync. The sync key is shown disabled
// while a confirmation is open or a sync is running. The latest notification is rendered as
// a status line below the help.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
package ui
