// Package spotify implements the catalog ports on top of the Spotify Web API.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
	"github.com/ewilliams-labs/trackmap/internal/core/ports"
)

// albumBatchSize is the API limit on ids per album lookup.
const albumBatchSize = 20

// Config configures a Client.
type Config struct {
	ClientID          string
	ClientSecret      string
	TokenURL          string
	BaseURL           string
	TokenExpirySkew   time.Duration
	RequestsPerSecond float64
	MaxRetries        int
	RetryBackoff      time.Duration
	Timeout           time.Duration
	Clock             clockwork.Clock
	// Transport is the innermost round tripper; http.DefaultTransport when nil.
	Transport http.RoundTripper
}

// Client searches the Spotify catalog.
type Client struct {
	api    *spotify.Client
	tokens *tokenCache
}

// compile-time interface assertions
var (
	_ ports.CatalogSearcher     = (*Client)(nil)
	_ ports.CatalogTrackFetcher = (*Client)(nil)
)

// NewClient builds a client whose requests are authenticated with a cached
// client-credentials token, paced and retried.
func NewClient(cfg Config) *Client {
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	credentials := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tokens := newTokenCache(credentials, cfg.Clock, cfg.TokenExpirySkew)

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	var transport http.RoundTripper = &rateLimitTransport{limiter: rate.NewLimiter(limit, 1), base: base}
	transport = &retryTransport{base: transport, maxRetries: cfg.MaxRetries, baseBackoff: cfg.RetryBackoff}
	transport = &authTransport{tokens: tokens, base: transport}

	httpClient := &http.Client{Transport: transport, Timeout: cfg.Timeout}

	var opts []spotify.ClientOption
	if cfg.BaseURL != "" {
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts, spotify.WithBaseURL(baseURL))
	}

	return &Client{api: spotify.New(httpClient, opts...), tokens: tokens}
}

// Search pages through track results for query. Whole pages are kept until
// the API has no further pages or at least maxItems have been collected.
// Album release years are attached before returning.
func (c *Client) Search(ctx context.Context, query string, pageSize, maxItems int) ([]domain.CatalogTrack, error) {
	res, err := c.api.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(pageSize))
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: search request failed: %w", err)
	}
	if res.Tracks == nil {
		return []domain.CatalogTrack{}, nil
	}

	var tracks []domain.CatalogTrack
	for {
		page := res.Tracks.Tracks
		for _, item := range page {
			tracks = append(tracks, mapTrackToDomain(item))
		}
		if len(page) == 0 || len(tracks) >= maxItems {
			break
		}
		err := c.api.NextTrackResults(ctx, res)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("spotify adapter: search pagination failed: %w", err)
		}
	}

	if err := c.attachReleaseYears(ctx, tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// GetTrack loads one track by id. Unknown ids return domain.ErrNotFound.
func (c *Client) GetTrack(ctx context.Context, id string) (domain.CatalogTrack, error) {
	st, err := c.api.GetTrack(ctx, spotify.ID(id))
	if err != nil {
		if isMissing(err) {
			return domain.CatalogTrack{}, fmt.Errorf("spotify adapter: track %s: %w", id, domain.ErrNotFound)
		}
		return domain.CatalogTrack{}, fmt.Errorf("spotify adapter: get track %s: %w", id, err)
	}

	tracks := []domain.CatalogTrack{mapTrackToDomain(*st)}
	if err := c.attachReleaseYears(ctx, tracks); err != nil {
		return domain.CatalogTrack{}, err
	}
	return tracks[0], nil
}

// attachReleaseYears fills missing album years from batched album lookups.
func (c *Client) attachReleaseYears(ctx context.Context, tracks []domain.CatalogTrack) error {
	var ids []spotify.ID
	seen := map[string]bool{}
	for _, t := range tracks {
		if t.Album.ReleaseYear != 0 || t.Album.ID == "" || seen[t.Album.ID] {
			continue
		}
		seen[t.Album.ID] = true
		ids = append(ids, spotify.ID(t.Album.ID))
	}
	if len(ids) == 0 {
		return nil
	}

	years := make(map[string]int, len(ids))
	for start := 0; start < len(ids); start += albumBatchSize {
		end := min(start+albumBatchSize, len(ids))
		albums, err := c.api.GetAlbums(ctx, ids[start:end])
		if err != nil {
			return fmt.Errorf("spotify adapter: album lookup failed: %w", err)
		}
		for _, album := range albums {
			if album == nil {
				continue
			}
			years[string(album.ID)] = releaseYear(album.ReleaseDate)
		}
	}

	for i := range tracks {
		if year, ok := years[tracks[i].Album.ID]; ok {
			tracks[i].Album.ReleaseYear = year
		}
	}
	return nil
}

func isMissing(err error) bool {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusBadRequest
	}
	var apiErrPtr *spotify.Error
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Status == http.StatusNotFound || apiErrPtr.Status == http.StatusBadRequest
	}
	return false
}
