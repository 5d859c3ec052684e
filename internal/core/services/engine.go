package services

import (
	"context"
	"errors"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/ewilliams-labs/trackmap/internal/core/domain"
	"github.com/ewilliams-labs/trackmap/internal/core/matching"
	"github.com/ewilliams-labs/trackmap/internal/core/ports"
	"github.com/rs/zerolog/log"
)

// Default catalog paging for one query.
const (
	DefaultPageSize = 40
	DefaultMaxItems = 200
)

// NearMiss is the rejected candidate that most resembles the expected song.
type NearMiss struct {
	Track      domain.CatalogTrack
	Similarity float64
}

// Outcome is the result of one matching pass for a song.
type Outcome struct {
	Matches    domain.MarketMatches
	Queries    []string
	Candidates int
	// NearMiss is set only when no market matched.
	NearMiss *NearMiss
}

// MatchEngine finds the best catalog track per market for played songs.
type MatchEngine struct {
	searcher ports.CatalogSearcher
	mapper   *matching.ArtistMapper
	queries  matching.QueryBuilder
	scorer   matching.Scorer
	pageSize int
	maxItems int
}

// NewMatchEngine constructs a MatchEngine. Non-positive paging values fall
// back to DefaultPageSize and DefaultMaxItems.
func NewMatchEngine(searcher ports.CatalogSearcher, mapper *matching.ArtistMapper, scorer matching.Scorer, pageSize, maxItems int) *MatchEngine {
	if mapper == nil {
		mapper = matching.DefaultArtistMapper()
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &MatchEngine{
		searcher: searcher,
		mapper:   mapper,
		queries:  matching.NewQueryBuilder(mapper),
		scorer:   scorer,
		pageSize: pageSize,
		maxItems: maxItems,
	}
}

// FindMatchingTracks searches the catalog with every query variant of song
// and keeps the highest scoring qualifying candidate per market. An empty
// Matches table is a normal outcome. A failed catalog call aborts the pass
// with a *ports.ExternalServiceError.
func (e *MatchEngine) FindMatchingTracks(ctx context.Context, song domain.PlayedSong) (Outcome, error) {
	searchAnd, searchOr := e.mapper.MapNames(song.ArtistNames, matching.SearchMode)
	compareAnd, compareOr := e.mapper.MapNames(song.ArtistNames, matching.CompareMode)

	expected := matching.Expected{
		Title:       song.MatchTitle(),
		And:         compareAnd,
		Or:          compareOr,
		AlbumTitle:  song.AlbumTitle,
		ReleaseYear: song.AlbumReleaseYear,
	}
	if strings.TrimSpace(song.AlbumTitle) == "" {
		log.Warn().
			Int64("external_id", song.ExternalID).
			Str("artist", song.ArtistDisplay()).
			Str("title", expected.Title).
			Msg("song has no album title, album score will be 0")
	}

	out := Outcome{
		Matches: domain.MarketMatches{},
		Queries: e.queries.Queries(expected.Title, searchAnd, searchOr),
	}
	nearMiss := newNearMissTracker(song.ArtistDisplay(), expected.Title)

	for _, query := range out.Queries {
		candidates, err := e.searcher.Search(ctx, query, e.pageSize, e.maxItems)
		if err != nil {
			var extErr *ports.ExternalServiceError
			if errors.As(err, &extErr) {
				return Outcome{}, err
			}
			return Outcome{}, &ports.ExternalServiceError{Op: "catalog search", Query: query, Err: err}
		}
		log.Debug().Str("query", query).Int("candidates", len(candidates)).Msg("catalog search complete")
		out.Candidates += len(candidates)

		for _, candidate := range candidates {
			scored, ok := e.scorer.Score(expected, candidate)
			if !ok {
				nearMiss.consider(candidate)
				continue
			}
			for _, market := range candidate.AvailableMarkets {
				out.Matches.Offer(market, scored)
			}
		}
	}

	if !out.Matches.Found() {
		out.NearMiss = nearMiss.best()
	}
	return out, nil
}

type nearMissTracker struct {
	target string
	metric *metrics.JaroWinkler
	track  domain.CatalogTrack
	score  float64
	found  bool
}

func newNearMissTracker(artist, title string) *nearMissTracker {
	return &nearMissTracker{
		target: strings.ToLower(artist + " " + title),
		metric: metrics.NewJaroWinkler(),
	}
}

func (t *nearMissTracker) consider(candidate domain.CatalogTrack) {
	var artist string
	if len(candidate.Artists) > 0 {
		artist = candidate.Artists[0].Name
	}
	score := strutil.Similarity(t.target, strings.ToLower(artist+" "+candidate.Title), t.metric)
	if !t.found || score > t.score {
		t.track, t.score, t.found = candidate, score, true
	}
}

func (t *nearMissTracker) best() *NearMiss {
	if !t.found {
		return nil
	}
	return &NearMiss{Track: t.track, Similarity: t.score}
}
