package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/shared"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
	mine     bool
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string {
	if i.playlist.IsExternal() {
		return i.playlist.Name + " ⟳"
	}
	return i.playlist.Name
}
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks • %s", i.playlist.SongCount, shared.FormatDuration(i.playlist.Duration))
	if !i.mine && i.playlist.OwnerName != "" {
		desc = fmt.Sprintf("%s • by %s", desc, i.playlist.OwnerName)
	}
	if i.playlist.Comment != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Comment)
	}
	return desc
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string {
	desc := i.track.Artist
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	return desc
}
