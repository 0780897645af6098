// package formatter renders playlist track lists to files (M3U, CSV, Markdown, plain text) and terminal tables
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/shared"
)

// Formats lists the local export formats with their file extensions.
var Formats = map[string]string{
	"m3u8":     ".m3u8",
	"csv":      ".csv",
	"markdown": ".md",
	"txt":      ".txt",
}

// ExportToM3U8 renders an extended M3U playlist.
//
// Each track gets an #EXTINF line with its rounded duration and "Artist - Title", then its path.
func ExportToM3U8(playlist models.Playlist, tracks []models.Track) []byte {
	var buf bytes.Buffer

	buf.WriteString("#EXTM3U\n")
	buf.WriteString(fmt.Sprintf("#PLAYLIST:%s\n", playlist.Name))
	for _, t := range tracks {
		buf.WriteString(fmt.Sprintf("#EXTINF:%.f,%s - %s\n", t.Duration, t.Artist, t.Title))
		buf.WriteString(t.Path + "\n")
	}

	return buf.Bytes()
}

// ExportToCSV renders tracks with columns: ID, Title, Artist, Album, Duration, Path
func ExportToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "Path"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			track.Album,
			strconv.Itoa(int(track.Duration + 0.5)),
			track.Path,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a playlist as a Markdown document
func ExportToMarkdown(playlist models.Playlist, tracks []models.Track) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", playlist.Name))

	if playlist.Comment != "" {
		buf.WriteString(fmt.Sprintf("**Comment**: %s\n\n", playlist.Comment))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", len(tracks)))
	buf.WriteString(fmt.Sprintf("**Duration**: %s\n", shared.FormatDuration(playlist.Duration)))
	if playlist.IsExternal() {
		buf.WriteString(fmt.Sprintf("**Source**: %s\n", playlist.ExternalURL))
	}
	buf.WriteString("\n## Tracks\n\n")

	for i, track := range tracks {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, track.Artist, track.Title, albumPart, shared.FormatDuration(track.Duration)))
	}

	return buf.Bytes()
}

// ExportToText renders a playlist as plain text
func ExportToText(playlist models.Playlist, tracks []models.Track) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", playlist.Name))
	if playlist.Comment != "" {
		buf.WriteString(fmt.Sprintf("Comment: %s\n", playlist.Comment))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(tracks)))

	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Title))
	}

	return buf.Bytes()
}

// Render renders tracks in the named format.
func Render(format string, playlist models.Playlist, tracks []models.Track) ([]byte, error) {
	switch strings.ToLower(format) {
	case "m3u8":
		return ExportToM3U8(playlist, tracks), nil
	case "csv":
		return ExportToCSV(tracks)
	case "markdown", "md":
		return ExportToMarkdown(playlist, tracks), nil
	case "txt", "text":
		return ExportToText(playlist, tracks), nil
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportPath returns the file path for a playlist export: {dir}/{sanitized name}{ext}
func ExportPath(dir, name, ext string) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, shared.SanitizeFilename(name)+ext)
}

// WriteExport writes data to path, creating the parent directory.
func WriteExport(path string, data []byte) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
