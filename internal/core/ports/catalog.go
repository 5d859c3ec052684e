package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
)

// ErrExternalService indicates the catalog or credential exchange failed.
var ErrExternalService = errors.New("external service error")

// ExternalServiceError provides context for a failed catalog call.
type ExternalServiceError struct {
	Op    string
	Query string
	Err   error
}

func (e *ExternalServiceError) Error() string {
	if e.Query == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Query, e.Err)
}

func (e *ExternalServiceError) Is(target error) bool {
	return target == ErrExternalService
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// CatalogSearcher pages through catalog search results. Results carry album
// release years. An empty result is not an error.
type CatalogSearcher interface {
	Search(ctx context.Context, query string, pageSize, maxItems int) ([]domain.CatalogTrack, error)
}

// CatalogTrackFetcher loads a single catalog track by id.
type CatalogTrackFetcher interface {
	GetTrack(ctx context.Context, id string) (domain.CatalogTrack, error)
}
