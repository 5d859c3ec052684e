package ports

import (
	"context"
	"time"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
)

// CatalogRepository stores catalog tracks, albums and per-market availability.
type CatalogRepository interface {
	UpsertAlbum(ctx context.Context, album domain.PersistedAlbum) (domain.UpsertOutcome, error)
	UpsertTrack(ctx context.Context, track domain.PersistedTrack) (domain.UpsertOutcome, error)
	// ReplaceAvailability atomically swaps the song's availability rows for records.
	ReplaceAvailability(ctx context.Context, songID int64, records []domain.TrackAvailability) error
	DeleteAvailability(ctx context.Context, songID int64) error
}

// SongRepository reads played songs and records search outcomes.
type SongRepository interface {
	SongsToMatch(ctx context.Context, filter domain.SongFilter) ([]domain.PlayedSong, error)
	GetSongByExternalID(ctx context.Context, externalID int64) (domain.PlayedSong, error)
	SetCorrectedTitle(ctx context.Context, externalID int64, title string) error
	RecordSearch(ctx context.Context, history domain.SearchHistory) error
}

// HandmapRepository stores curated song to track assignments.
type HandmapRepository interface {
	AddHandmapped(ctx context.Context, h domain.HandmappedTrack) (domain.HandmappedTrack, error)
	PendingHandmapped(ctx context.Context) ([]domain.HandmappedTrack, error)
	MarkHandmappedProcessed(ctx context.Context, id int64) error
}

// PlaylistStore persists station plays.
type PlaylistStore interface {
	LatestPlayTime(ctx context.Context) (time.Time, bool, error)
	SavePlay(ctx context.Context, play domain.StationPlay) error
	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error
}

// HistoryReader serves the read-only views over plays and matches.
type HistoryReader interface {
	PlayHistory(ctx context.Context, market string, start, end time.Time) ([]domain.HistoryEntry, error)
	UnmatchedSongs(ctx context.Context, market string, order domain.UnmatchedOrder) ([]domain.UnmatchedSong, error)
}
