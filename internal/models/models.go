// package models defines the data model for the navimax playlist client
package models

import (
	"fmt"
	"time"
)

// Playlist represents a playlist resource as listed by the server.
//
// SongCount is the authoritative cardinality; locally loaded pages may hold fewer tracks.
type Playlist struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Comment       string    `json:"comment"`
	OwnerID       string    `json:"ownerId"`
	OwnerName     string    `json:"ownerName"`
	SongCount     int       `json:"songCount"`
	Duration      float32   `json:"duration"`
	Size          int64     `json:"size"`
	Public        bool      `json:"public"`
	ExternalAgent string    `json:"external_agent,omitempty"`
	ExternalURL   string    `json:"externalUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// IsExternal reports whether the playlist mirrors a remote source and can be resynchronized.
func (p Playlist) IsExternal() bool {
	return p.ExternalURL != ""
}

// Validate checks the fields required to act on a playlist.
func (p Playlist) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("playlist id is required")
	}
	if p.SongCount < 0 {
		return fmt.Errorf("playlist %s has negative song count %d", p.ID, p.SongCount)
	}
	return nil
}

// Track represents one playlist membership row.
//
// ID is the membership identity (its position within the playlist), MediaFileID the library song.
type Track struct {
	ID          string  `json:"id"`
	MediaFileID string  `json:"mediaFileId"`
	PlaylistID  string  `json:"playlistId"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Album       string  `json:"album"`
	Duration    float32 `json:"duration"`
	Path        string  `json:"path"`
	Size        int64   `json:"size"`
}

// Share represents a public share link created on the server.
type Share struct {
	ID           string   `json:"id"`
	URL          string   `json:"url"`
	ResourceType string   `json:"resourceType"`
	ResourceIDs  []string `json:"-"`
	Description  string   `json:"description"`
}

// Session carries the signed-in identity.
type Session struct {
	UserID   string
	Username string
	Token    string
}

// Owns reports whether the playlist belongs to the session user.
func (s Session) Owns(p Playlist) bool {
	if s.UserID != "" && p.OwnerID != "" {
		return s.UserID == p.OwnerID
	}
	return s.Username != "" && s.Username == p.OwnerName
}
