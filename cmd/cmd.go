// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func playlistArg() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "playlist", UsageText: "playlist name or ID"}}
}

// setupCommand handles setup operations for config and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml if missing, initialize the database and run migrations",
		Action: r.SetupDatabase,
	}
}

// playlistsCommand lists playlists, the user's own first.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"ls"},
		Usage:   "List playlists visible to the configured user",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.BoolFlag{
				Name:  "external",
				Usage: "Only list playlists synced from an external source",
			},
		},
		Action: r.Playlists,
	}
}

// tracksCommand fetches one page of a playlist and caches it locally.
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tracks",
		Usage:     "Show a page of playlist tracks and cache it",
		Arguments: playlistArg(),
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "start",
				Usage: "Offset of the first track",
				Value: 0,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Page size (0 loads the whole playlist)",
				Value: 50,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Tracks,
	}
}

func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "Replace the queue with the playlist and start playing",
		Arguments: playlistArg(),
		Action:    r.Play,
	}
}

func shuffleCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "shuffle",
		Usage:     "Replace the queue with the playlist in random order",
		Arguments: playlistArg(),
		Action:    r.Shuffle,
	}
}

func playNextCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "next",
		Aliases:   []string{"play-next"},
		Usage:     "Insert the playlist after the current track",
		Arguments: playlistArg(),
		Action:    r.PlayNext,
	}
}

func enqueueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "enqueue",
		Aliases:   []string{"add"},
		Usage:     "Append the playlist to the queue",
		Arguments: playlistArg(),
		Action:    r.Enqueue,
	}
}

// syncCommand resyncs one external playlist after confirmation.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Re-import an external playlist from its source",
		Arguments: playlistArg(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation prompt",
			},
		},
		Action: r.Sync,
	}
}

// syncAllCommand resyncs every external playlist through a bounded worker pool.
func syncAllCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync-all",
		Usage: "Re-import every external playlist",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation prompt",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent syncs (default from config)",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Sync requests per second (default from config)",
			},
		},
		Action: r.SyncAll,
	}
}

// exportCommand writes a playlist file.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a playlist (m3u from the server, or m3u8/csv/markdown/txt rendered locally)",
		Arguments: playlistArg(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "m3u, m3u8, csv, markdown or txt (default from config)",
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"o"},
				Usage:   "Output directory (default from config)",
			},
		},
		Action: r.Export,
	}
}

// shareCommand creates a public share link.
func shareCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "share",
		Usage:     "Create a public share link for a playlist",
		Arguments: playlistArg(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "description",
				Usage: "Share description (defaults to the playlist name)",
			},
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "Copy the link to the clipboard",
				Value: true,
			},
		},
		Action: r.Share,
	}
}

func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Open the external source of a playlist in the browser",
		Arguments: playlistArg(),
		Action:    r.Open,
	}
}

// queueCommand inspects the persisted play queue.
func queueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "Inspect the play queue",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the queue",
				Action: r.QueueShow,
			},
			{
				Name:   "clear",
				Usage:  "Empty the queue",
				Action: r.QueueClear,
			},
		},
	}
}

// apiCommand handles direct Navidrome API calls.
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the Navidrome REST API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the raw response",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for playlist actions",
		Action:  r.TUI,
	}
}
