package ports

import (
	"context"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
)

// FeedResult is one fetch of the station playlist feed.
type FeedResult struct {
	Plays       []domain.StationPlay
	ETag        string
	NotModified bool
}

// PlaylistFeed fetches the station playlist. A non-empty etag makes the
// request conditional.
type PlaylistFeed interface {
	Fetch(ctx context.Context, etag string) (FeedResult, error)
	Source() string
}
