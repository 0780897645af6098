package formatter

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/shared"
	th "github.com/muzicc987/navimax/internal/testing"
)

func testPlaylist() (models.Playlist, []models.Track) {
	playlist := models.Playlist{
		ID:        "p1",
		Name:      "Road Trip",
		Comment:   "summer 2024",
		OwnerName: "alice",
		SongCount: 2,
		Duration:  420,
	}
	tracks := []models.Track{
		{ID: "1", Title: "Song One", Artist: "Artist One", Album: "Album One", Duration: 180.4, Path: "Artist One/Album One/01.flac"},
		{ID: "2", Title: "Song Two", Artist: "Artist Two", Duration: 239.6, Path: "Artist Two/02.mp3"},
	}
	return playlist, tracks
}

func TestExporters(t *testing.T) {
	playlist, tracks := testPlaylist()

	t.Run("ExportToM3U8", func(t *testing.T) {
		got := string(ExportToM3U8(playlist, tracks))
		want := "#EXTM3U\n" +
			"#PLAYLIST:Road Trip\n" +
			"#EXTINF:180,Artist One - Song One\n" +
			"Artist One/Album One/01.flac\n" +
			"#EXTINF:240,Artist Two - Song Two\n" +
			"Artist Two/02.mp3\n"
		if got != want {
			t.Errorf("ExportToM3U8() =\n%s\nwant\n%s", got, want)
		}
	})

	t.Run("ExportToM3U8 Empty", func(t *testing.T) {
		got := string(ExportToM3U8(playlist, nil))
		if got != "#EXTM3U\n#PLAYLIST:Road Trip\n" {
			t.Errorf("unexpected empty playlist output %q", got)
		}
	})

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(tracks)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "ID,Title,Artist,Album,Duration,Path\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,Song One,Artist One,Album One,180,Artist One/Album One/01.flac") {
			t.Errorf("CSV missing first track, got: %s", output)
		}
		if !strings.Contains(output, "2,Song Two,Artist Two,,240,") {
			t.Errorf("CSV missing second track, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		output := string(ExportToMarkdown(playlist, tracks))

		for _, want := range []string{
			"# Road Trip",
			"**Comment**: summer 2024",
			"**Tracks**: 2",
			"**Duration**: 7:00",
			"1. Artist One - Song One (Album One) [3:00]",
			"2. Artist Two - Song Two [4:00]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
		if strings.Contains(output, "**Source**") {
			t.Error("local playlist should not have a source line")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		output := string(ExportToText(playlist, tracks))

		if !strings.Contains(output, "Playlist: Road Trip") {
			t.Errorf("Text missing playlist name")
		}
		if !strings.Contains(output, "Tracks: 2") {
			t.Errorf("Text missing track count")
		}
		if !strings.Contains(output, "2. Artist Two - Song Two") {
			t.Errorf("Text missing track line")
		}
	})

	t.Run("Render", func(t *testing.T) {
		for format := range Formats {
			if _, err := Render(format, playlist, tracks); err != nil {
				t.Errorf("Render(%q) error = %v", format, err)
			}
		}
		if _, err := Render("xml", playlist, tracks); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for unknown format, got %v", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("Creates Directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested")
		path := ExportPath(dir, "AC/DC: Live", ".m3u")

		if filepath.Base(path) != "AC_DC_ Live.m3u" {
			t.Errorf("unexpected file name %s", filepath.Base(path))
		}

		written, err := WriteExport(path, []byte("#EXTM3U\n"))
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		th.AssertFileExists(t, written)
		if got := th.MustReadFile(t, written); got != "#EXTM3U\n" {
			t.Errorf("unexpected file content %q", got)
		}
	})

	t.Run("Default Directory", func(t *testing.T) {
		if got := ExportPath("", "Mix", ".txt"); got != "Mix.txt" {
			t.Errorf("ExportPath() = %q, want Mix.txt", got)
		}
	})

	t.Run("Unwritable Path", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(blocker, nil, 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := WriteExport(filepath.Join(blocker, "out.m3u"), []byte("x")); err == nil {
			t.Error("expected error when parent is a file")
		}
	})
}

func TestTables(t *testing.T) {
	session := models.Session{Username: "alice"}
	playlists := []models.Playlist{
		{ID: "p1", Name: "Mine", OwnerName: "alice", SongCount: 3, Size: 12_000_000},
		{ID: "p2", Name: "Theirs", OwnerName: "bob", ExternalURL: "https://example.com/x", ExternalAgent: "listenbrainz"},
	}

	t.Run("Partition", func(t *testing.T) {
		mine, others := Partition(playlists, session)
		if len(mine) != 1 || mine[0].ID != "p1" {
			t.Errorf("unexpected mine %+v", mine)
		}
		if len(others) != 1 || others[0].ID != "p2" {
			t.Errorf("unexpected others %+v", others)
		}
	})

	t.Run("RenderPlaylists", func(t *testing.T) {
		var buf bytes.Buffer
		RenderPlaylists(&buf, playlists, session)
		out := strings.ToLower(buf.String())

		for _, want := range []string{"mine", "theirs", "12 mb", "listenbrainz", "1 mine, 1 shared"} {
			if !strings.Contains(out, want) {
				t.Errorf("table missing %q:\n%s", want, out)
			}
		}
		if strings.Index(out, "p1") > strings.Index(out, "p2") {
			t.Error("expected own playlists first")
		}
	})

	t.Run("RenderQueue", func(t *testing.T) {
		_, tracks := testPlaylist()
		var buf bytes.Buffer
		RenderQueue(&buf, models.QueueState{Entries: tracks, Current: 1})
		out := strings.ToLower(buf.String())

		if !strings.Contains(out, "▶") || !strings.Contains(out, "2 tracks") {
			t.Errorf("unexpected queue table:\n%s", out)
		}
	})

	t.Run("RenderTracks", func(t *testing.T) {
		_, tracks := testPlaylist()
		var buf bytes.Buffer
		RenderTracks(&buf, tracks)
		if !strings.Contains(buf.String(), "Song Two") {
			t.Errorf("unexpected track table:\n%s", buf.String())
		}
	})
}
