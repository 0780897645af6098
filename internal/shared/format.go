package shared

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatBytes renders a byte count the way the download action labels playlist size, e.g. "12 MB".
func FormatBytes(size int64) string {
	if size <= 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(size))
}

// FormatDuration renders seconds as m:ss, or h:mm:ss past an hour.
func FormatDuration(seconds float32) string {
	total := int(seconds + 0.5)
	if total < 0 {
		total = 0
	}
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// SanitizeFilename replaces characters that are invalid in file names on common platforms.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "playlist"
	}
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_",
	)
	return replacer.Replace(name)
}
