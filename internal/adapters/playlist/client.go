// Package playlist fetches and parses the station's XML playlist feed.
package playlist

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
	"github.com/ewilliams-labs/trackmap/internal/core/ports"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 20 * time.Second

// maxFeedBytes bounds the feed body read into memory.
const maxFeedBytes = 8 << 20

var _ ports.PlaylistFeed = (*Client)(nil)

// Client implements ports.PlaylistFeed over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient returns a feed client for url. A non-positive timeout uses the default.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Source identifies the feed for per-feed state such as the stored ETag.
func (c *Client) Source() string {
	return c.url
}

// Fetch downloads the feed. With a non-empty etag the request is conditional
// and a 304 response yields NotModified.
func (c *Client) Fetch(ctx context.Context, etag string) (ports.FeedResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return ports.FeedResult{}, fmt.Errorf("playlist: build request: %w", err)
	}
	req.Header.Set("Accept", "application/xml, text/xml")
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.FeedResult{}, fmt.Errorf("playlist: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return ports.FeedResult{ETag: etag, NotModified: true}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ports.FeedResult{}, fmt.Errorf("playlist: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return ports.FeedResult{}, fmt.Errorf("playlist: read body: %w", err)
	}
	plays, err := Parse(body)
	if err != nil {
		return ports.FeedResult{}, err
	}
	return ports.FeedResult{Plays: plays, ETag: resp.Header.Get("ETag")}, nil
}

type xmlPlaylist struct {
	Songs []xmlSong `xml:"song"`
}

type xmlSong struct {
	Timestamp   string `xml:"timestamp"`
	SongID      string `xml:"songid"`
	Title       string `xml:"title"`
	Artist      string `xml:"artist"`
	Album       string `xml:"album"`
	ASIN        string `xml:"asin"`
	ReleaseDate string `xml:"release_date"`
}

// Parse decodes a playlist document into plays sorted oldest first.
// Entries without a usable timestamp or song id are logged and dropped.
func Parse(data []byte) ([]domain.StationPlay, error) {
	var doc xmlPlaylist
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("playlist: decode xml: %w", err)
	}

	plays := make([]domain.StationPlay, 0, len(doc.Songs))
	for _, s := range doc.Songs {
		playedAt, err := parseTimestamp(s.Timestamp)
		if err != nil {
			log.Warn().Err(err).Str("title", s.Title).Msg("playlist: skipping entry with bad timestamp")
			continue
		}
		songID, err := strconv.ParseInt(strings.TrimSpace(s.SongID), 10, 64)
		if err != nil {
			log.Warn().Err(err).Str("title", s.Title).Msg("playlist: skipping entry with bad song id")
			continue
		}
		plays = append(plays, domain.StationPlay{
			PlayedAt:         playedAt,
			ExternalSongID:   songID,
			Title:            strings.TrimSpace(s.Title),
			Artist:           strings.TrimSpace(s.Artist),
			AlbumTitle:       strings.TrimSpace(s.Album),
			AlbumASIN:        strings.TrimSpace(s.ASIN),
			AlbumReleaseYear: parseYear(s.ReleaseDate),
		})
	}

	sort.SliceStable(plays, func(i, j int) bool { return plays[i].PlayedAt.Before(plays[j].PlayedAt) })
	return plays, nil
}

// parseTimestamp reads unix seconds, possibly fractional.
func parseTimestamp(raw string) (time.Time, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return time.Time{}, err
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
}

func parseYear(raw string) int {
	raw = strings.TrimSpace(raw)
	if len(raw) > 4 {
		raw = raw[:4]
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 0 {
		return 0
	}
	return year
}
