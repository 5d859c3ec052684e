package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
	"github.com/ewilliams-labs/trackmap/internal/core/ports"
	"github.com/rs/zerolog/log"
)

// AvailabilityPersister stores matched tracks and a song's per-market availability.
type AvailabilityPersister struct {
	repo ports.CatalogRepository
}

// NewAvailabilityPersister constructs an AvailabilityPersister.
func NewAvailabilityPersister(repo ports.CatalogRepository) *AvailabilityPersister {
	return &AvailabilityPersister{repo: repo}
}

// CreateTracks upserts the album and track of every distinct matched track
// once, then returns one availability record per market. A track whose
// upsert hits an integrity conflict is logged and left out.
func (p *AvailabilityPersister) CreateTracks(ctx context.Context, song domain.PlayedSong, matches domain.MarketMatches) ([]domain.TrackAvailability, error) {
	stored := make(map[string]bool)
	var records []domain.TrackAvailability

	for _, market := range matches.Markets() {
		match := matches[market]
		trackID := match.Result.Track.ID

		ok, seen := stored[trackID]
		if !seen {
			err := p.storeTrack(ctx, match.Result)
			switch {
			case errors.Is(err, domain.ErrIntegrityConflict):
				log.Warn().Err(err).
					Int64("external_id", song.ExternalID).
					Str("track_id", trackID).
					Msg("skipping track after integrity conflict")
			case err != nil:
				return nil, fmt.Errorf("service: failed to store track %s: %w", trackID, err)
			default:
				ok = true
			}
			stored[trackID] = ok
		}
		if !ok {
			continue
		}
		records = append(records, domain.TrackAvailability{
			TrackID: trackID,
			SongID:  song.ID,
			Market:  market,
			Score:   match.Score,
		})
	}
	return records, nil
}

func (p *AvailabilityPersister) storeTrack(ctx context.Context, result domain.MatchResult) error {
	albumOutcome, err := p.repo.UpsertAlbum(ctx, domain.PersistedAlbum{
		CatalogID:   result.Album.ID,
		Title:       result.Album.Title,
		ImageSmall:  result.Album.Images.Small,
		ImageMedium: result.Album.Images.Medium,
		ImageLarge:  result.Album.Images.Large,
	})
	if err != nil {
		return err
	}
	trackOutcome, err := p.repo.UpsertTrack(ctx, domain.PersistedTrack{
		CatalogID:       result.Track.ID,
		Title:           result.Track.Title,
		AlbumID:         result.Album.ID,
		ArtistName:      result.Artist.Name,
		ArtistID:        result.Artist.ID,
		MultipleArtists: result.Artist.Multiple,
	})
	if err != nil {
		return err
	}
	log.Debug().
		Str("track_id", result.Track.ID).
		Stringer("track", trackOutcome).
		Str("album_id", result.Album.ID).
		Stringer("album", albumOutcome).
		Msg("catalog records stored")
	return nil
}

// UpdateAvailability atomically replaces the song's availability with records.
func (p *AvailabilityPersister) UpdateAvailability(ctx context.Context, song domain.PlayedSong, records []domain.TrackAvailability) error {
	if err := p.repo.ReplaceAvailability(ctx, song.ID, records); err != nil {
		return fmt.Errorf("service: failed to update availability: %w", err)
	}
	return nil
}

// DeleteExisting removes every availability row of the song.
func (p *AvailabilityPersister) DeleteExisting(ctx context.Context, song domain.PlayedSong) error {
	if err := p.repo.DeleteAvailability(ctx, song.ID); err != nil {
		return fmt.Errorf("service: failed to delete availability: %w", err)
	}
	return nil
}
