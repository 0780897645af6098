package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/muzicc987/navimax/internal/formatter"
	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/notify"
	"github.com/muzicc987/navimax/internal/services"
	"github.com/muzicc987/navimax/internal/shared"
)

// ExportRequester writes playlist track lists to files in dir.
type ExportRequester struct {
	exporter Exporter
	resolver *Resolver
	notifier notify.Notifier
	logger   *log.Logger
	dir      string
}

func NewExportRequester(exporter Exporter, resolver *Resolver, notifier notify.Notifier, logger *log.Logger, dir string) *ExportRequester {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}
	return &ExportRequester{exporter: exporter, resolver: resolver, notifier: notifier, logger: logger, dir: dir}
}

// Export downloads the server-rendered M3U of playlist to {dir}/{name}.m3u.
//
// Failures surface as an export-error warning and a returned [shared.ErrExport]; nothing is written.
func (e *ExportRequester) Export(ctx context.Context, playlist models.Playlist) (string, error) {
	if e.exporter == nil {
		return "", e.fail(playlist, fmt.Errorf("%w: exporter not initialized", shared.ErrServiceUnavailable))
	}

	data, err := e.exporter.ExportPlaylist(ctx, playlist.ID)
	if err != nil {
		return "", e.fail(playlist, err)
	}

	path, err := formatter.WriteExport(formatter.ExportPath(e.dir, playlist.Name, ".m3u"), data)
	if err != nil {
		return "", e.fail(playlist, err)
	}

	return e.done(playlist, path), nil
}

// ExportLocal resolves the full track set and renders it in format (m3u8, csv, markdown or txt).
func (e *ExportRequester) ExportLocal(ctx context.Context, playlist models.Playlist, loaded models.TrackSet, format string) (string, error) {
	format = strings.ToLower(format)
	ext, ok := formatter.Formats[format]
	if !ok {
		return "", e.fail(playlist, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format))
	}
	if e.resolver == nil {
		return "", e.fail(playlist, fmt.Errorf("%w: resolver not initialized", shared.ErrServiceUnavailable))
	}

	set, err := e.resolver.Resolve(ctx, playlist, loaded)
	if err != nil {
		return "", e.fail(playlist, err)
	}

	data, err := formatter.Render(format, playlist, set.Ordered())
	if err != nil {
		return "", e.fail(playlist, err)
	}

	path, err := formatter.WriteExport(formatter.ExportPath(e.dir, playlist.Name, ext), data)
	if err != nil {
		return "", e.fail(playlist, err)
	}

	return e.done(playlist, path), nil
}

func (e *ExportRequester) fail(playlist models.Playlist, err error) error {
	e.logger.Warn("playlist export failed", "playlist", playlist.ID, "error", err)
	e.notifier.Notify(notify.New(notify.ExportError, notify.Warning, "error", services.ErrorText(err)))
	return fmt.Errorf("%w: %w", shared.ErrExport, err)
}

func (e *ExportRequester) done(playlist models.Playlist, path string) string {
	e.logger.Info("playlist exported", "playlist", playlist.ID, "path", path)
	e.notifier.Notify(notify.New(notify.ExportSuccess, notify.Success, "path", path))
	return path
}
