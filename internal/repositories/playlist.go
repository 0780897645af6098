package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/shared"
)

const playlistColumns = `id, name, comment, owner_id, owner_name, song_count, duration, size, public, external_agent, external_url`

// PlaylistRepository caches playlist metadata as listed by the server.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Save inserts or replaces a single playlist.
func (r *PlaylistRepository) Save(playlist models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return inTx(r.db, func(tx *sql.Tx) error {
		return upsertPlaylist(tx, playlist)
	})
}

// ReplaceAll stores the given listing and removes cached playlists absent from it.
//
// Track pages of removed playlists are dropped by the foreign key cascade.
func (r *PlaylistRepository) ReplaceAll(playlists []models.Playlist) error {
	return inTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`CREATE TEMP TABLE IF NOT EXISTS listed_playlists (id TEXT PRIMARY KEY)`); err != nil {
			return fmt.Errorf("failed to prepare listing: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM listed_playlists`); err != nil {
			return fmt.Errorf("failed to prepare listing: %w", err)
		}

		for _, p := range playlists {
			if err := p.Validate(); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			if err := upsertPlaylist(tx, p); err != nil {
				return err
			}
			if _, err := tx.Exec(`INSERT OR IGNORE INTO listed_playlists (id) VALUES (?)`, p.ID); err != nil {
				return fmt.Errorf("failed to record listing: %w", err)
			}
		}

		if _, err := tx.Exec(`DELETE FROM playlists WHERE id NOT IN (SELECT id FROM listed_playlists)`); err != nil {
			return fmt.Errorf("failed to prune playlists: %w", err)
		}
		return nil
	})
}

func upsertPlaylist(tx *sql.Tx, p models.Playlist) error {
	query := `
		INSERT INTO playlists (` + playlistColumns + `, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			comment = excluded.comment,
			owner_id = excluded.owner_id,
			owner_name = excluded.owner_name,
			song_count = excluded.song_count,
			duration = excluded.duration,
			size = excluded.size,
			public = excluded.public,
			external_agent = excluded.external_agent,
			external_url = excluded.external_url,
			cached_at = CURRENT_TIMESTAMP
	`
	_, err := tx.Exec(query,
		p.ID, p.Name, p.Comment, p.OwnerID, p.OwnerName, p.SongCount,
		p.Duration, p.Size, p.Public, p.ExternalAgent, p.ExternalURL,
	)
	if err != nil {
		return fmt.Errorf("failed to save playlist: %w", err)
	}
	return nil
}

// Get retrieves a cached playlist by ID.
func (r *PlaylistRepository) Get(id string) (*models.Playlist, error) {
	row := r.db.QueryRow(`SELECT `+playlistColumns+` FROM playlists WHERE id = ?`, id)
	p, err := scanPlaylist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindByName retrieves the first cached playlist with the given name.
func (r *PlaylistRepository) FindByName(name string) (*models.Playlist, error) {
	row := r.db.QueryRow(`SELECT `+playlistColumns+` FROM playlists WHERE name = ? ORDER BY id LIMIT 1`, name)
	p, err := scanPlaylist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List retrieves cached playlists ordered by name.
//
// Supported criteria: "owner_name" (string) and "external" (bool).
func (r *PlaylistRepository) List(criteria map[string]any) ([]models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE 1 = 1`
	args := []any{}

	if owner, ok := criteria["owner_name"].(string); ok && owner != "" {
		query += " AND owner_name = ?"
		args = append(args, owner)
	}

	if external, ok := criteria["external"].(bool); ok {
		if external {
			query += " AND external_url != ''"
		} else {
			query += " AND external_url = ''"
		}
	}

	query += " ORDER BY name COLLATE NOCASE ASC, id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []models.Playlist
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// Delete removes a cached playlist and its loaded pages.
func (r *PlaylistRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	return nil
}

func scanPlaylist(s scanner) (*models.Playlist, error) {
	var p models.Playlist
	err := s.Scan(
		&p.ID, &p.Name, &p.Comment, &p.OwnerID, &p.OwnerName, &p.SongCount,
		&p.Duration, &p.Size, &p.Public, &p.ExternalAgent, &p.ExternalURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}
	return &p, nil
}
