package domain

import (
	"strings"
	"time"
)

// PlayedSong is a station song as reported by the playlist feed.
type PlayedSong struct {
	ID               int64
	ExternalID       int64 // station song id
	Title            string
	CorrectedTitle   string // optional curated override of Title
	AlbumTitle       string
	AlbumReleaseYear int
	AlbumASIN        string
	ArtistNames      []string
	ISRC             string // optional
}

// MatchTitle returns the title used for catalog matching.
func (s PlayedSong) MatchTitle() string {
	if t := strings.TrimSpace(s.CorrectedTitle); t != "" {
		return t
	}
	return s.Title
}

// ArtistDisplay joins the artist names for log output.
func (s PlayedSong) ArtistDisplay() string {
	return strings.Join(s.ArtistNames, ", ")
}

// StationPlay is one playlist entry from the station feed.
type StationPlay struct {
	PlayedAt         time.Time
	ExternalSongID   int64
	Title            string
	Artist           string
	AlbumTitle       string
	AlbumASIN        string
	AlbumReleaseYear int
}

// SongFilter selects which songs a matching run processes.
type SongFilter struct {
	ExternalIDs []int64
	OnlyFailed  bool
	Force       bool
	Limit       int
}

// SearchHistory records the outcome of the latest matching pass for a song.
type SearchHistory struct {
	SongID     int64
	RunID      string
	SearchTime time.Time
	Found      bool
}

// HandmappedTrack is a curated song to catalog track assignment.
type HandmappedTrack struct {
	ID             int64
	SongID         int64
	CatalogTrackID string
	InfoURL        string
	Processed      bool
}
