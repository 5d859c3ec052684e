package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
	"github.com/ewilliams-labs/trackmap/internal/core/ports"
	"github.com/rs/zerolog/log"
)

const etagSettingPrefix = "playlist_etag:"

// LoadSummary counts the outcome of one playlist load.
type LoadSummary struct {
	NotModified bool
	Fetched     int
	Saved       int
	Skipped     int
	Conflicts   int
}

// PlaylistLoader stores new plays from the station playlist feed.
type PlaylistLoader struct {
	feed  ports.PlaylistFeed
	store ports.PlaylistStore
}

// NewPlaylistLoader constructs a PlaylistLoader.
func NewPlaylistLoader(feed ports.PlaylistFeed, store ports.PlaylistStore) *PlaylistLoader {
	return &PlaylistLoader{feed: feed, store: store}
}

// Load fetches the feed, skipping the download when its ETag is unchanged,
// and saves every play newer than the latest stored one. Each play is saved
// on its own; a play that conflicts with stored data is logged and skipped.
func (l *PlaylistLoader) Load(ctx context.Context) (LoadSummary, error) {
	var summary LoadSummary
	etagKey := etagSettingPrefix + l.feed.Source()

	etag, err := l.store.GetSetting(ctx, etagKey)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return summary, fmt.Errorf("service: failed to load playlist etag: %w", err)
	}

	res, err := l.feed.Fetch(ctx, etag)
	if err != nil {
		return summary, fmt.Errorf("service: failed to fetch playlist: %w", err)
	}
	if res.NotModified {
		log.Info().Str("source", l.feed.Source()).Msg("playlist not modified")
		summary.NotModified = true
		return summary, nil
	}
	summary.Fetched = len(res.Plays)

	latest, haveLatest, err := l.store.LatestPlayTime(ctx)
	if err != nil {
		return summary, fmt.Errorf("service: failed to load latest play: %w", err)
	}

	plays := append([]domain.StationPlay(nil), res.Plays...)
	sort.SliceStable(plays, func(i, j int) bool { return plays[i].PlayedAt.Before(plays[j].PlayedAt) })

	for _, play := range plays {
		if haveLatest && !play.PlayedAt.After(latest) {
			summary.Skipped++
			continue
		}
		logger := log.With().
			Int64("external_id", play.ExternalSongID).
			Str("artist", play.Artist).
			Str("title", play.Title).
			Time("played_at", play.PlayedAt).
			Logger()
		if strings.TrimSpace(play.AlbumTitle) == "" {
			logger.Warn().Msg("play has no album title")
		}

		err := l.store.SavePlay(ctx, play)
		switch {
		case errors.Is(err, domain.ErrIntegrityConflict):
			logger.Warn().Err(err).Msg("skipping conflicting play")
			summary.Conflicts++
			continue
		case err != nil:
			return summary, fmt.Errorf("service: failed to save play: %w", err)
		}
		logger.Debug().Msg("play saved")
		summary.Saved++
	}

	if res.ETag != "" {
		if err := l.store.PutSetting(ctx, etagKey, res.ETag); err != nil {
			return summary, fmt.Errorf("service: failed to store playlist etag: %w", err)
		}
	}
	log.Info().
		Int("fetched", summary.Fetched).
		Int("saved", summary.Saved).
		Int("skipped", summary.Skipped).
		Int("conflicts", summary.Conflicts).
		Msg("playlist loaded")
	return summary, nil
}
