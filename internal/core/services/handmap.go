package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
	"github.com/ewilliams-labs/trackmap/internal/core/matching"
	"github.com/ewilliams-labs/trackmap/internal/core/ports"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// HandmapSummary counts the outcome of applying curated assignments.
type HandmapSummary struct {
	RunID     string
	Processed int
	Failed    int
}

// HandmapService applies curated song to catalog track assignments.
type HandmapService struct {
	songs     ports.SongRepository
	handmaps  ports.HandmapRepository
	fetcher   ports.CatalogTrackFetcher
	persister *AvailabilityPersister
	scorer    matching.Scorer
	clock     clockwork.Clock
}

// NewHandmapService constructs a HandmapService. A nil clock uses the real clock.
func NewHandmapService(
	songs ports.SongRepository,
	handmaps ports.HandmapRepository,
	fetcher ports.CatalogTrackFetcher,
	persister *AvailabilityPersister,
	scorer matching.Scorer,
	clock clockwork.Clock,
) *HandmapService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &HandmapService{
		songs:     songs,
		handmaps:  handmaps,
		fetcher:   fetcher,
		persister: persister,
		scorer:    scorer,
		clock:     clock,
	}
}

// Add records that the song with the given station id is catalog track trackID.
func (s *HandmapService) Add(ctx context.Context, externalID int64, trackID, infoURL string) (domain.HandmappedTrack, error) {
	if strings.TrimSpace(trackID) == "" {
		return domain.HandmappedTrack{}, fmt.Errorf("%w: empty track id", domain.ErrInvalidArgument)
	}
	song, err := s.songs.GetSongByExternalID(ctx, externalID)
	if err != nil {
		return domain.HandmappedTrack{}, fmt.Errorf("service: failed to load song %d: %w", externalID, err)
	}
	h, err := s.handmaps.AddHandmapped(ctx, domain.HandmappedTrack{
		SongID:         song.ID,
		CatalogTrackID: trackID,
		InfoURL:        infoURL,
	})
	if err != nil {
		return domain.HandmappedTrack{}, fmt.Errorf("service: failed to add handmapped track: %w", err)
	}
	return h, nil
}

// ProcessPending applies every unprocessed assignment. The assigned track
// becomes the song's match in each of its markets with full confidence.
// Assignments that fail stay pending for the next run.
func (s *HandmapService) ProcessPending(ctx context.Context) (HandmapSummary, error) {
	summary := HandmapSummary{RunID: uuid.NewString()}

	pending, err := s.handmaps.PendingHandmapped(ctx)
	if err != nil {
		return summary, fmt.Errorf("service: failed to load pending handmapped tracks: %w", err)
	}

	for _, h := range pending {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		logger := log.With().
			Int64("handmapped_id", h.ID).
			Int64("song_id", h.SongID).
			Str("track_id", h.CatalogTrackID).
			Logger()

		if err := s.apply(ctx, summary.RunID, h); err != nil {
			logger.Error().Err(err).Msg("failed to apply handmapped track")
			summary.Failed++
			continue
		}
		logger.Info().Msg("handmapped track applied")
		summary.Processed++
	}
	return summary, nil
}

func (s *HandmapService) apply(ctx context.Context, runID string, h domain.HandmappedTrack) error {
	track, err := s.fetcher.GetTrack(ctx, h.CatalogTrackID)
	if err != nil {
		return fmt.Errorf("fetch track: %w", err)
	}

	match := s.fullConfidence(track)
	matches := domain.MarketMatches{}
	for _, market := range track.AvailableMarkets {
		matches.Offer(market, match)
	}
	if !matches.Found() {
		log.Warn().Str("track_id", track.ID).Msg("handmapped track is not available in any market")
	}

	song := domain.PlayedSong{ID: h.SongID}
	records, err := s.persister.CreateTracks(ctx, song, matches)
	if err != nil {
		return err
	}
	if err := s.persister.UpdateAvailability(ctx, song, records); err != nil {
		return err
	}
	if err := s.songs.RecordSearch(ctx, domain.SearchHistory{
		SongID:     h.SongID,
		RunID:      runID,
		SearchTime: s.clock.Now().UTC(),
		Found:      matches.Found(),
	}); err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	if err := s.handmaps.MarkHandmappedProcessed(ctx, h.ID); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	return nil
}

// fullConfidence scores track as an exact match on every axis.
func (s *HandmapService) fullConfidence(track domain.CatalogTrack) domain.ScoredMatch {
	var artist domain.CatalogArtist
	if len(track.Artists) > 0 {
		artist = track.Artists[0]
	}
	const albumScore = 2
	return domain.ScoredMatch{
		Result: domain.MatchResult{
			Track: domain.TrackInfo{ID: track.ID, Title: track.Title, Score: 1},
			Artist: domain.ArtistInfo{
				ID:       artist.ID,
				Name:     artist.Name,
				Multiple: len(track.Artists) > 1,
				Score:    1,
			},
			Album: domain.AlbumInfo{
				ID:     track.Album.ID,
				Title:  track.Album.Title,
				Year:   track.Album.ReleaseYear,
				Images: matching.ExtractImages(track.Album.Images),
				Score:  albumScore,
			},
		},
		Score: s.scorer.Combine(1, 1, albumScore),
	}
}
