// Package models defines the domain entities shared by the navimax services, tasks and views.
//
// The package contains three groups of types:
//
// 1. Remote resources, decoded from the Navidrome REST API
//   - [Playlist] : playlist metadata, including the declared SongCount and ExternalURL
//   - [Track] : one playlist membership row with its media attributes
//   - [Share] : a public share link for a playlist
//
// 2. Orchestration values, built and consumed within a single user action
//   - [TrackSet] : ordered membership IDs plus an ID → [Track] mapping
//   - [QueueCommand] : the single instruction emitted to the playback queue
//
// 3. Context
//   - [Session] : the signed-in identity, passed explicitly at construction
package models
