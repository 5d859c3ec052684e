package matching

import (
	"math"
	"strings"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
)

// Default scoring constants.
const (
	DefaultScale           = 100
	DefaultThePrefixCredit = 1.0
	DefaultPartialCredit   = 0.8
)

// Scorer computes per-axis match scores and the combined ranking score.
type Scorer struct {
	Scale           float64
	ThePrefixCredit float64
	PartialCredit   float64
}

// DefaultScorer returns a Scorer using the default constants.
func DefaultScorer() Scorer {
	return Scorer{
		Scale:           DefaultScale,
		ThePrefixCredit: DefaultThePrefixCredit,
		PartialCredit:   DefaultPartialCredit,
	}
}

// Expected is what a played song says the track should look like.
// And and Or are artist names resolved in compare mode.
type Expected struct {
	Title       string
	And         []string
	Or          []string
	AlbumTitle  string
	ReleaseYear int
}

// TrackScore returns the confidence that candidate is the expected title.
// ok is false when no title rule matched.
func (s Scorer) TrackScore(expected, candidate string) (float64, bool) {
	m, ok := MatchTitle(expected, candidate)
	if !ok {
		return 0, false
	}
	return m.Confidence, true
}

// ArtistMatch is the outcome of comparing expected names to a candidate's
// artist credits.
type ArtistMatch struct {
	Score  float64
	Artist domain.CatalogArtist
}

// ArtistScore credits every required name with its best match among the
// candidate artists, then tries the alternates until one matches. The total
// is divided by the number of required names plus one when alternates exist.
// ok is false when nothing matched.
func (s Scorer) ArtistScore(and, or []string, candidates []domain.CatalogArtist) (ArtistMatch, bool) {
	var (
		total   float64
		matched int
		first   *domain.CatalogArtist
	)
	for _, name := range and {
		credit, artist := s.bestCredit(name, candidates)
		if credit == 0 {
			continue
		}
		total += credit
		matched++
		if first == nil {
			first = artist
		}
	}

	denominator := len(and)
	if len(or) > 0 {
		denominator++
		for _, name := range or {
			credit, artist := s.bestCredit(name, candidates)
			if credit == 0 {
				continue
			}
			total += credit
			matched++
			if first == nil {
				first = artist
			}
			break
		}
	}

	if matched == 0 || denominator == 0 {
		return ArtistMatch{}, false
	}
	return ArtistMatch{Score: total / float64(denominator), Artist: *first}, true
}

func (s Scorer) bestCredit(name string, candidates []domain.CatalogArtist) (float64, *domain.CatalogArtist) {
	var (
		best   float64
		artist *domain.CatalogArtist
	)
	for i := range candidates {
		if credit := s.artistCredit(name, candidates[i].Name); credit > best {
			best = credit
			artist = &candidates[i]
		}
	}
	return best, artist
}

func (s Scorer) artistCredit(expected, candidate string) float64 {
	ke := NormalizeForCompare(expected)
	kc := NormalizeForCompare(candidate)
	if ke == "" || kc == "" {
		return 0
	}
	if ke == kc {
		return 1.0
	}
	if withoutThe(expected) == withoutThe(candidate) {
		return s.ThePrefixCredit
	}
	variants := map[string]struct{}{
		ke: {}, "the" + ke: {}, kc: {}, "the" + kc: {},
	}
	if len(variants) < 4 {
		return s.PartialCredit
	}
	return 0
}

// withoutThe lowers name, folds accents and drops a leading "the ".
func withoutThe(name string) string {
	s := collapseSpaces(stripAccents(strings.ToLower(name)))
	return strings.TrimPrefix(s, "the ")
}

// AlbumScore gives one point for a matching album title and a second for a
// matching release year, which only counts when the title matched.
func AlbumScore(expectedTitle string, expectedYear int, album domain.CatalogAlbum) int {
	ke := NormalizeForCompare(expectedTitle)
	if ke == "" || ke != NormalizeForCompare(album.Title) {
		return 0
	}
	if expectedYear > 0 && expectedYear == album.ReleaseYear {
		return 2
	}
	return 1
}

// Combine scales the sum of the three axis scores to the ranking value.
func (s Scorer) Combine(track, artist float64, album int) int {
	return int(math.Round((track + artist + float64(album)) * s.Scale))
}

// Score evaluates candidate against expected. ok is false when either the
// title or the artists failed to match; album mismatch only lowers the score.
func (s Scorer) Score(expected Expected, candidate domain.CatalogTrack) (domain.ScoredMatch, bool) {
	trackScore, ok := s.TrackScore(expected.Title, candidate.Title)
	if !ok {
		return domain.ScoredMatch{}, false
	}
	artist, ok := s.ArtistScore(expected.And, expected.Or, candidate.Artists)
	if !ok {
		return domain.ScoredMatch{}, false
	}
	albumScore := AlbumScore(expected.AlbumTitle, expected.ReleaseYear, candidate.Album)

	result := domain.MatchResult{
		Track: domain.TrackInfo{ID: candidate.ID, Title: candidate.Title, Score: trackScore},
		Artist: domain.ArtistInfo{
			ID:       artist.Artist.ID,
			Name:     artist.Artist.Name,
			Multiple: len(candidate.Artists) > 1,
			Score:    artist.Score,
		},
		Album: domain.AlbumInfo{
			ID:     candidate.Album.ID,
			Title:  candidate.Album.Title,
			Year:   candidate.Album.ReleaseYear,
			Images: ExtractImages(candidate.Album.Images),
			Score:  albumScore,
		},
	}
	return domain.ScoredMatch{
		Result: result,
		Score:  s.Combine(trackScore, artist.Score, albumScore),
	}, true
}
