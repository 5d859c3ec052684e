package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
	"github.com/ewilliams-labs/trackmap/internal/core/ports"
	"github.com/ewilliams-labs/trackmap/internal/worker"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MapOptions parameterizes a matching run.
type MapOptions struct {
	Filter domain.SongFilter
	// DeleteExisting removes a song's availability before it is matched.
	DeleteExisting bool
	Workers        int
}

// MapSummary counts the outcome of a matching run.
type MapSummary struct {
	RunID     string
	Processed int
	Matched   int
	Unmatched int
	Failed    int
}

// Runner drives matching runs over stored songs.
type Runner struct {
	engine    *MatchEngine
	persister *AvailabilityPersister
	songs     ports.SongRepository
	clock     clockwork.Clock
	newRunID  func() string
}

// NewRunner constructs a Runner. A nil clock uses the real clock.
func NewRunner(engine *MatchEngine, persister *AvailabilityPersister, songs ports.SongRepository, clock clockwork.Clock) *Runner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Runner{
		engine:    engine,
		persister: persister,
		songs:     songs,
		clock:     clock,
		newRunID:  func() string { return uuid.NewString() },
	}
}

// MapTracks matches every song selected by opts.Filter. A song whose
// matching fails is logged and counted; it gets no search history so the
// next run retries it. The run stops early only when ctx ends.
func (r *Runner) MapTracks(ctx context.Context, opts MapOptions) (MapSummary, error) {
	summary := MapSummary{RunID: r.newRunID()}

	songs, err := r.songs.SongsToMatch(ctx, opts.Filter)
	if err != nil {
		return summary, fmt.Errorf("service: failed to select songs: %w", err)
	}
	log.Info().Str("run_id", summary.RunID).Int("songs", len(songs)).Msg("matching run started")

	var mu sync.Mutex
	handle := func(ctx context.Context, song domain.PlayedSong) {
		found, err := r.mapSong(ctx, summary.RunID, song, opts.DeleteExisting)
		mu.Lock()
		defer mu.Unlock()
		summary.Processed++
		switch {
		case err != nil:
			summary.Failed++
		case found:
			summary.Matched++
		default:
			summary.Unmatched++
		}
	}

	if opts.Workers <= 1 {
		for _, song := range songs {
			if ctx.Err() != nil {
				break
			}
			handle(ctx, song)
		}
	} else {
		pool := worker.NewPool(handle, opts.Workers)
		pool.Start(ctx, opts.Workers)
		for _, song := range songs {
			if err := pool.Submit(ctx, song); err != nil {
				break
			}
		}
		pool.Stop()
	}

	log.Info().
		Str("run_id", summary.RunID).
		Int("processed", summary.Processed).
		Int("matched", summary.Matched).
		Int("unmatched", summary.Unmatched).
		Int("failed", summary.Failed).
		Msg("matching run finished")

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("service: matching run interrupted: %w", err)
	}
	return summary, nil
}

func (r *Runner) mapSong(ctx context.Context, runID string, song domain.PlayedSong, deleteExisting bool) (bool, error) {
	logger := songLogger(runID, song)

	if deleteExisting {
		if err := r.persister.DeleteExisting(ctx, song); err != nil {
			logger.Error().Err(err).Msg("failed to delete existing availability")
			return false, err
		}
	}

	outcome, err := r.engine.FindMatchingTracks(ctx, song)
	if err != nil {
		logger.Error().Err(err).Msg("matching failed")
		return false, err
	}

	records, err := r.persister.CreateTracks(ctx, song, outcome.Matches)
	if err != nil {
		logger.Error().Err(err).Msg("failed to store matched tracks")
		return false, err
	}
	if err := r.persister.UpdateAvailability(ctx, song, records); err != nil {
		logger.Error().Err(err).Msg("failed to store availability")
		return false, err
	}

	found := outcome.Matches.Found()
	if err := r.songs.RecordSearch(ctx, domain.SearchHistory{
		SongID:     song.ID,
		RunID:      runID,
		SearchTime: r.clock.Now().UTC(),
		Found:      found,
	}); err != nil {
		logger.Error().Err(err).Msg("failed to record search history")
		return found, err
	}

	if found {
		logger.Info().
			Strs("markets", outcome.Matches.Markets()).
			Int("queries", len(outcome.Queries)).
			Msg("song matched")
		return true, nil
	}

	event := logger.Info().Int("queries", len(outcome.Queries)).Int("candidates", outcome.Candidates)
	if nm := outcome.NearMiss; nm != nil {
		var artist string
		if len(nm.Track.Artists) > 0 {
			artist = nm.Track.Artists[0].Name
		}
		event = event.
			Str("near_miss_id", nm.Track.ID).
			Str("near_miss_title", nm.Track.Title).
			Str("near_miss_artist", artist).
			Float64("similarity", nm.Similarity)
	}
	event.Msg("no match found")
	return false, nil
}

func songLogger(runID string, song domain.PlayedSong) zerolog.Logger {
	return log.With().
		Str("run_id", runID).
		Int64("song_id", song.ID).
		Int64("external_id", song.ExternalID).
		Str("artist", song.ArtistDisplay()).
		Str("title", song.MatchTitle()).
		Str("album", song.AlbumTitle).
		Logger()
}
