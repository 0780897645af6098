package models

import (
	"sort"
	"strconv"

	"github.com/samber/lo"
)

// TrackSet is an ordered sequence of membership IDs plus the mapping from ID to [Track].
type TrackSet struct {
	IDs    []string
	Tracks map[string]Track
}

// NewTrackSet builds a [TrackSet] preserving the order of tracks.
func NewTrackSet(tracks []Track) TrackSet {
	return TrackSet{
		IDs: lo.Map(tracks, func(t Track, _ int) string { return t.ID }),
		Tracks: lo.SliceToMap(tracks, func(t Track) (string, Track) {
			return t.ID, t
		}),
	}
}

// Len returns the number of track identities in the set.
func (s TrackSet) Len() int {
	return len(s.IDs)
}

// Ordered returns the tracks in ID order. IDs missing from the mapping are skipped.
func (s TrackSet) Ordered() []Track {
	tracks := make([]Track, 0, len(s.IDs))
	for _, id := range s.IDs {
		if t, ok := s.Tracks[id]; ok {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

// SortByMembership orders tracks by membership ID ascending.
//
// Numeric IDs compare as numbers so "10" sorts after "9"; the sort is stable.
func SortByMembership(tracks []Track) {
	sort.SliceStable(tracks, func(i, j int) bool {
		return membershipLess(tracks[i].ID, tracks[j].ID)
	})
}

func membershipLess(a, b string) bool {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return ai < bi
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
