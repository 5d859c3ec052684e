package domain

import "sort"

// TrackInfo describes the matched catalog track.
type TrackInfo struct {
	ID    string
	Title string
	Score float64
}

// ArtistInfo describes the catalog artist credit that matched.
type ArtistInfo struct {
	ID       string
	Name     string
	Multiple bool
	Score    float64
}

// AlbumInfo describes the candidate's album.
type AlbumInfo struct {
	ID     string
	Title  string
	Year   int
	Images Images
	Score  int
}

// MatchResult combines the per-axis results for one qualifying candidate.
type MatchResult struct {
	Track  TrackInfo
	Artist ArtistInfo
	Album  AlbumInfo
}

// ScoredMatch is a match result with its combined ranking score.
type ScoredMatch struct {
	Result MatchResult
	Score  int
}

// MarketMatches maps a two-letter market code to the best match seen for it.
type MarketMatches map[string]ScoredMatch

// Offer records candidate for market if it beats the current best.
// Ties keep the existing entry. Reports whether the table changed.
func (m MarketMatches) Offer(market string, candidate ScoredMatch) bool {
	current, ok := m[market]
	if ok && !better(candidate, current) {
		return false
	}
	m[market] = candidate
	return true
}

func better(a, b ScoredMatch) bool {
	return a.Score > b.Score
}

// Markets returns the market codes in sorted order.
func (m MarketMatches) Markets() []string {
	markets := make([]string, 0, len(m))
	for market := range m {
		markets = append(markets, market)
	}
	sort.Strings(markets)
	return markets
}

// Found reports whether any market has a match.
func (m MarketMatches) Found() bool {
	return len(m) > 0
}
