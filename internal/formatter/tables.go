package formatter

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/shared"
)

// Partition splits playlists into those owned by the session user and those shared with them.
func Partition(playlists []models.Playlist, session models.Session) (mine, others []models.Playlist) {
	owned := func(p models.Playlist, _ int) bool { return session.Owns(p) }
	return lo.Filter(playlists, owned), lo.Reject(playlists, owned)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// RenderPlaylists writes a playlist table, the session user's playlists first.
func RenderPlaylists(w io.Writer, playlists []models.Playlist, session models.Session) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Owner", "Songs", "Duration", "Size", "Sync"})

	mine, others := Partition(playlists, session)
	appendRows := func(rows []models.Playlist) {
		for _, p := range rows {
			sync := ""
			if p.IsExternal() {
				sync = p.ExternalAgent
				if sync == "" {
					sync = "external"
				}
			}
			t.AppendRow(table.Row{p.ID, p.Name, p.OwnerName, p.SongCount, shared.FormatDuration(p.Duration), shared.FormatBytes(p.Size), sync})
		}
	}

	appendRows(mine)
	if len(mine) > 0 && len(others) > 0 {
		t.AppendSeparator()
	}
	appendRows(others)

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d mine, %d shared", len(mine), len(others))})
	t.Render()
}

// RenderTracks writes a track table in the given order.
func RenderTracks(w io.Writer, tracks []models.Track) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Title", "Artist", "Album", "Duration"})
	for _, tr := range tracks {
		t.AppendRow(table.Row{tr.ID, tr.Title, tr.Artist, tr.Album, shared.FormatDuration(tr.Duration)})
	}
	t.Render()
}

// RenderQueue writes the queue with a marker on the current entry.
func RenderQueue(w io.Writer, state models.QueueState) {
	t := newTable(w)
	t.AppendHeader(table.Row{"", "Pos", "Title", "Artist", "Duration"})
	for i, tr := range state.Entries {
		marker := ""
		if i == state.Current {
			marker = "▶"
		}
		t.AppendRow(table.Row{marker, i + 1, tr.Title, tr.Artist, shared.FormatDuration(tr.Duration)})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d tracks", len(state.Entries))})
	t.Render()
}
