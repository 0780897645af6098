package repositories

import (
	"database/sql"
	"fmt"

	"github.com/muzicc987/navimax/internal/models"
)

const trackColumns = `id, playlist_id, media_file_id, title, artist, album, duration, path, size`

// PlaylistTrackRepository stores the track pages a list view has loaded for each playlist.
type PlaylistTrackRepository struct {
	db *sql.DB
}

// NewPlaylistTrackRepository creates a new PlaylistTrackRepository with the given database connection
func NewPlaylistTrackRepository(db *sql.DB) *PlaylistTrackRepository {
	return &PlaylistTrackRepository{db: db}
}

// SavePage stores tracks fetched at offset start, keeping their listing positions.
//
// The playlist row must already be cached.
func (r *PlaylistTrackRepository) SavePage(playlistID string, start int, tracks []models.Track) error {
	query := `
		INSERT INTO playlist_tracks (playlist_id, id, position, media_file_id, title, artist, album, duration, path, size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(playlist_id, id) DO UPDATE SET
			position = excluded.position,
			media_file_id = excluded.media_file_id,
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			duration = excluded.duration,
			path = excluded.path,
			size = excluded.size
	`

	return inTx(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, t := range tracks {
			if t.ID == "" {
				return fmt.Errorf("track at position %d has no id", start+i)
			}
			_, err := stmt.Exec(playlistID, t.ID, start+i, t.MediaFileID, t.Title, t.Artist, t.Album, t.Duration, t.Path, t.Size)
			if err != nil {
				return fmt.Errorf("failed to save track %s: %w", t.ID, err)
			}
		}
		return nil
	})
}

// Loaded returns the locally loaded subset of a playlist as a [models.TrackSet], in listing order.
func (r *PlaylistTrackRepository) Loaded(playlistID string) (models.TrackSet, error) {
	rows, err := r.db.Query(`SELECT `+trackColumns+` FROM playlist_tracks WHERE playlist_id = ? ORDER BY position ASC`, playlistID)
	if err != nil {
		return models.TrackSet{}, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.Track
	for rows.Next() {
		var t models.Track
		if err := rows.Scan(&t.ID, &t.PlaylistID, &t.MediaFileID, &t.Title, &t.Artist, &t.Album, &t.Duration, &t.Path, &t.Size); err != nil {
			return models.TrackSet{}, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, t)
	}

	if err := rows.Err(); err != nil {
		return models.TrackSet{}, fmt.Errorf("row iteration error: %w", err)
	}

	return models.NewTrackSet(tracks), nil
}

// Count returns how many tracks of the playlist are loaded.
func (r *PlaylistTrackRepository) Count(playlistID string) (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM playlist_tracks WHERE playlist_id = ?`, playlistID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return n, nil
}

// Invalidate drops every loaded page of the playlist.
func (r *PlaylistTrackRepository) Invalidate(playlistID string) error {
	if _, err := r.db.Exec(`DELETE FROM playlist_tracks WHERE playlist_id = ?`, playlistID); err != nil {
		return fmt.Errorf("failed to invalidate tracks: %w", err)
	}
	return nil
}
