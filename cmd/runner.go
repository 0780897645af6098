package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/notify"
	"github.com/muzicc987/navimax/internal/queue"
	"github.com/muzicc987/navimax/internal/repositories"
	"github.com/muzicc987/navimax/internal/services"
	"github.com/muzicc987/navimax/internal/shared"
	"github.com/muzicc987/navimax/internal/tasks"
)

// Remote is the write side of the server: sync, export and share.
type Remote interface {
	tasks.Syncer
	tasks.Exporter
	tasks.Sharer
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	service    services.Service
	remote     Remote
	api        *services.APIService
	db         *sql.DB
	playlists  *repositories.PlaylistRepository
	tracks     *repositories.PlaylistTrackRepository
	queue      *queue.Store
	recorder   *notify.Recorder
	notifier   notify.Notifier
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	copy       func(string) error
	openURL    func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Service, Remote and DB are normally built from the config on first use; tests inject them.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Service    services.Service
	Remote     Remote
	API        *services.APIService
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	Clipboard  func(string) error
	OpenURL    func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		service:    opts.Service,
		remote:     opts.Remote,
		api:        opts.API,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		copy:       opts.Clipboard,
		openURL:    opts.OpenURL,
		recorder:   &notify.Recorder{},
	}
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	if r.notifier != nil {
		r.notifier = r.buildNotifier()
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, playlistsCommand, tracksCommand,
		playCommand, shuffleCommand, playNextCommand, enqueueCommand,
		syncCommand, syncAllCommand, exportCommand, shareCommand, openCommand,
		queueCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "navimax",
		Usage:   "Play, sync, export and share Navidrome playlists",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				shared.SetLogLevel(r.logger, log.DebugLevel)
			}
			if r.configPath == "" {
				r.configPath = cmd.String("config")
			}
			return ctx, nil
		},
		Commands: r.register(),
	}
}

// loadConfig reads the config file, falling back to defaults when it does not exist.
func (r *Runner) loadConfig() (*shared.Config, error) {
	if r.config != nil {
		return r.config, nil
	}

	config := shared.DefaultConfig()
	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			loaded, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return nil, err
			}
			config = loaded
		} else {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	r.config = config
	return config, nil
}

// connect builds the services, database, repositories, queue store and notifiers on first use.
func (r *Runner) connect(ctx context.Context) error {
	config, err := r.loadConfig()
	if err != nil {
		return err
	}

	if r.httpClient == nil {
		r.httpClient = &http.Client{Timeout: config.Server.Timeout()}
	}
	if r.api == nil {
		r.api = services.NewAPIService(config.Server.URL, r.httpClient).WithToken(config.Credentials.Token)
	}
	if r.service == nil || r.remote == nil {
		navidrome := services.NewNavidromeService(r.api)
		if r.remote == nil {
			r.remote = navidrome
		}
		if r.service == nil {
			svc, err := r.trackService(config, navidrome)
			if err != nil {
				return err
			}
			r.service = svc
		}
	}

	if r.db == nil {
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		r.db = db
	}
	if r.playlists == nil {
		if err := shared.RunMigrations(r.db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		r.playlists = repositories.NewPlaylistRepository(r.db)
		r.tracks = repositories.NewPlaylistTrackRepository(r.db)
	}

	if r.queue == nil {
		store, err := queue.NewStore(
			queue.WithPersister(repositories.NewQueueRepository(r.db)),
			queue.WithLogger(r.logger),
		)
		if err != nil {
			return err
		}
		r.queue = store
	}

	if r.notifier == nil {
		r.notifier = r.buildNotifier()
	}
	return nil
}

func (r *Runner) trackService(config *shared.Config, navidrome *services.NavidromeService) (services.Service, error) {
	if config.Server.TrackSource != "subsonic" {
		return navidrome, nil
	}

	svc := services.NewSubsonicService(config.Server.URL, config.Credentials.Username, r.httpClient)
	if err := svc.Authenticate(config.Credentials.Password); err != nil {
		return nil, fmt.Errorf("subsonic login failed: %w", err)
	}
	return svc, nil
}

func (r *Runner) buildNotifier() notify.Notifier {
	notifiers := notify.Multi{notify.NewLogNotifier(r.logger), r.recorder}
	if r.config != nil && r.config.Notifications.Desktop {
		notifiers = append(notifiers, notify.NewDesktopNotifier("navimax", r.logger))
	}
	return notifiers
}

// Close releases the database.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Runner) session() models.Session {
	if r.config == nil {
		return models.Session{}
	}
	return models.Session{
		UserID:   r.config.Credentials.UserID,
		Username: r.config.Credentials.Username,
		Token:    r.config.Credentials.Token,
	}
}

// findPlaylist resolves ref as a cached playlist name first, then as a server ID.
//
// The server copy is always fetched so the song count is current.
func (r *Runner) findPlaylist(ctx context.Context, ref string) (models.Playlist, error) {
	if strings.TrimSpace(ref) == "" {
		return models.Playlist{}, fmt.Errorf("%w: playlist name or ID", shared.ErrMissingArgument)
	}

	id := ref
	if cached, err := r.playlists.FindByName(ref); err == nil {
		id = cached.ID
	}

	playlist, err := r.service.GetPlaylist(ctx, id)
	if err != nil {
		return models.Playlist{}, err
	}
	if err := r.playlists.Save(*playlist); err != nil {
		r.logger.Warn("failed to cache playlist", "playlist", playlist.ID, "error", err)
	}
	return *playlist, nil
}

// refresher reloads the cached copy of a playlist after a successful sync.
func (r *Runner) refresher() tasks.Refresher {
	return tasks.Refreshers{
		repositories.NewCacheInvalidator(r.tracks, r.logger),
		tasks.RefreshFunc(func(ctx context.Context, playlistID string) error {
			playlist, err := r.service.GetPlaylist(ctx, playlistID)
			if err != nil {
				return err
			}
			return r.playlists.Save(*playlist)
		}),
	}
}

func (r *Runner) actionsFor(playlist models.Playlist) (*tasks.PlaylistActions, error) {
	return tasks.NewPlaylistActions(playlist, tasks.Deps{
		Tracks:    r.service,
		Store:     r.queue,
		Syncer:    r.remote,
		Exporter:  r.remote,
		Sharer:    r.remote,
		Refresher: r.refresher(),
		Notifier:  r.notifier,
		Logger:    r.logger,
		ExportDir: r.config.Export.Dir,
		OpenURL:   r.openURL,
	})
}

// confirm asks a yes/no question on the runner's input. Anything but y/yes is a no.
func (r *Runner) confirm(question string) (bool, error) {
	r.writePlain("%s [y/N] ", question)
	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
