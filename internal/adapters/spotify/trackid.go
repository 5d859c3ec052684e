package spotify

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
)

var trackIDPattern = regexp.MustCompile(`^[0-9A-Za-z]{22}$`)

// ParseTrackID accepts a bare track id, a spotify:track: URI or an
// open.spotify.com track link and returns the id.
func ParseTrackID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	id := ref
	switch {
	case strings.HasPrefix(ref, "spotify:track:"):
		id = strings.TrimPrefix(ref, "spotify:track:")
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("spotify adapter: parse track link: %w", err)
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) < 2 || parts[len(parts)-2] != "track" {
			return "", fmt.Errorf("spotify adapter: %q is not a track link: %w", ref, domain.ErrInvalidArgument)
		}
		id = parts[len(parts)-1]
	}
	if !trackIDPattern.MatchString(id) {
		return "", fmt.Errorf("spotify adapter: invalid track id %q: %w", id, domain.ErrInvalidArgument)
	}
	return id, nil
}
