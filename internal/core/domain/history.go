package domain

import "time"

// HistoryEntry is one play joined with the track matched for a market.
type HistoryEntry struct {
	PlayedAt    time.Time     `json:"played_at"`
	SongID      int64         `json:"song_id"`
	ExternalID  int64         `json:"rp_song_id"`
	Title       string        `json:"title"`
	Artists     []string      `json:"artists"`
	AlbumTitle  string        `json:"album"`
	ReleaseYear int           `json:"release_year"`
	Track       *HistoryTrack `json:"track,omitempty"`
}

// HistoryTrack is the catalog side of a history entry.
type HistoryTrack struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	AlbumTitle string `json:"album"`
	ImageSmall string `json:"img_small_url,omitempty"`
	ImageMed   string `json:"img_medium_url,omitempty"`
	ImageLarge string `json:"img_large_url,omitempty"`
	Score      int    `json:"score"`
}

// UnmatchedSong is a song with no catalog track in a market.
type UnmatchedSong struct {
	SongID     int64     `json:"song_id"`
	ExternalID int64     `json:"rp_song_id"`
	Title      string    `json:"title"`
	Artists    []string  `json:"artists"`
	AlbumTitle string    `json:"album"`
	LastPlayed time.Time `json:"last_played"`
}

// UnmatchedOrder selects the sort order of unmatched songs.
type UnmatchedOrder string

const (
	OrderByArtist UnmatchedOrder = "artist"
	OrderByPlayed UnmatchedOrder = "played"
	OrderByID     UnmatchedOrder = "id"
)
