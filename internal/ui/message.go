package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muzicc987/navimax/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistsFetched MsgKind = iota
	MsgTracksFetched
	MsgActionDone
	MsgSyncDone
)

type playlistsFetched struct {
	playlists []models.Playlist
	err       error
}

type tracksFetched struct {
	playlist models.Playlist
	tracks   []models.Track
	err      error
}

type syncDone struct {
	playlistID string
	err        error
}

type actionDone struct {
	label string
	err   error
}

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(playlists []models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistsFetched, data: playlistsFetched{playlists, err}}
}

// tracksFetchedMsg is the constructor for [MsgTracksFetched]
func tracksFetchedMsg(playlist models.Playlist, tracks []models.Track, err error) Msg {
	return Msg{kind: MsgTracksFetched, data: tracksFetched{playlist, tracks, err}}
}

// actionDoneMsg is the constructor for [MsgActionDone]
func actionDoneMsg(label string, err error) Msg {
	return Msg{kind: MsgActionDone, data: actionDone{label, err}}
}

// syncDoneMsg is the constructor for [MsgSyncDone]
func syncDoneMsg(playlistID string, err error) Msg {
	return Msg{kind: MsgSyncDone, data: syncDone{playlistID, err}}
}
