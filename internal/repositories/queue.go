package repositories

import (
	"database/sql"
	"fmt"

	"github.com/muzicc987/navimax/internal/models"
)

// QueueRepository persists the single play queue.
type QueueRepository struct {
	db *sql.DB
}

// NewQueueRepository creates a new QueueRepository with the given database connection
func NewQueueRepository(db *sql.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

// Load reads the stored queue. A fresh database yields an empty queue with Current -1.
func (r *QueueRepository) Load() (models.QueueState, error) {
	state := models.QueueState{Current: -1}

	err := r.db.QueryRow(`SELECT current_index, last_command_id FROM play_queue WHERE id = 1`).Scan(&state.Current, &state.LastCommandID)
	if err != nil && err != sql.ErrNoRows {
		return state, fmt.Errorf("failed to load queue: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT track_id, media_file_id, playlist_id, title, artist, album, duration, path
		FROM play_queue_entries
		ORDER BY position ASC
	`)
	if err != nil {
		return state, fmt.Errorf("failed to query queue entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Track
		if err := rows.Scan(&t.ID, &t.MediaFileID, &t.PlaylistID, &t.Title, &t.Artist, &t.Album, &t.Duration, &t.Path); err != nil {
			return state, fmt.Errorf("failed to scan queue entry: %w", err)
		}
		state.Entries = append(state.Entries, t)
	}

	if err := rows.Err(); err != nil {
		return state, fmt.Errorf("row iteration error: %w", err)
	}

	return state, nil
}

// Save replaces the stored queue with state.
func (r *QueueRepository) Save(state models.QueueState) error {
	return inTx(r.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO play_queue (id, current_index, last_command_id, updated_at)
			VALUES (1, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(id) DO UPDATE SET
				current_index = excluded.current_index,
				last_command_id = excluded.last_command_id,
				updated_at = CURRENT_TIMESTAMP
		`, state.Current, state.LastCommandID)
		if err != nil {
			return fmt.Errorf("failed to save queue: %w", err)
		}

		if _, err := tx.Exec(`DELETE FROM play_queue_entries`); err != nil {
			return fmt.Errorf("failed to clear queue entries: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO play_queue_entries (position, track_id, media_file_id, playlist_id, title, artist, album, duration, path)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, t := range state.Entries {
			if _, err := stmt.Exec(i, t.ID, t.MediaFileID, t.PlaylistID, t.Title, t.Artist, t.Album, t.Duration, t.Path); err != nil {
				return fmt.Errorf("failed to save queue entry %d: %w", i, err)
			}
		}
		return nil
	})
}
