package matching

import (
	"testing"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
)

func artists(names ...string) []domain.CatalogArtist {
	out := make([]domain.CatalogArtist, 0, len(names))
	for i, n := range names {
		out = append(out, domain.CatalogArtist{ID: string(rune('a' + i)), Name: n})
	}
	return out
}

func TestScorerArtistScore(t *testing.T) {
	tests := []struct {
		name       string
		scorer     Scorer
		and        []string
		or         []string
		candidates []domain.CatalogArtist
		want       float64
		wantName   string
		wantOK     bool
	}{
		{
			name:       "exact",
			scorer:     DefaultScorer(),
			and:        []string{"Bob Marley & The Wailers"},
			candidates: artists("Bob Marley & The Wailers"),
			want:       1.0,
			wantName:   "Bob Marley & The Wailers",
			wantOK:     true,
		},
		{
			name:       "the prefix uses its own credit",
			scorer:     Scorer{Scale: 100, ThePrefixCredit: 0.9, PartialCredit: 0.8},
			and:        []string{"The XX"},
			candidates: artists("XX"),
			want:       0.9,
			wantName:   "XX",
			wantOK:     true,
		},
		{
			name:       "partial overlap",
			scorer:     DefaultScorer(),
			and:        []string{"The-Dream"},
			candidates: artists("Dream"),
			want:       0.8,
			wantName:   "Dream",
			wantOK:     true,
		},
		{
			name:       "best candidate wins",
			scorer:     DefaultScorer(),
			and:        []string{"Robert Plant"},
			candidates: artists("Alison Krauss", "Robert Plant"),
			want:       1.0,
			wantName:   "Robert Plant",
			wantOK:     true,
		},
		{
			name:       "one of two required names",
			scorer:     DefaultScorer(),
			and:        []string{"Robert Plant", "Alison Krauss"},
			candidates: artists("Robert Plant"),
			want:       0.5,
			wantName:   "Robert Plant",
			wantOK:     true,
		},
		{
			name:       "second alternate matches",
			scorer:     DefaultScorer(),
			or:         []string{"Jimi Hendrix", "The Jimi Hendrix Experience"},
			candidates: artists("The Jimi Hendrix Experience"),
			want:       1.0,
			wantName:   "The Jimi Hendrix Experience",
			wantOK:     true,
		},
		{
			name:       "alternate counts as one name",
			scorer:     DefaultScorer(),
			and:        []string{"Sheila E."},
			or:         []string{"Prince", "Prince & The Revolution"},
			candidates: artists("Prince", "Prince & The Revolution"),
			want:       0.5,
			wantName:   "Prince",
			wantOK:     true,
		},
		{
			name:       "no match",
			scorer:     DefaultScorer(),
			and:        []string{"Radiohead"},
			candidates: artists("Coldplay"),
			wantOK:     false,
		},
		{
			name:       "no names",
			scorer:     DefaultScorer(),
			candidates: artists("Coldplay"),
			wantOK:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.scorer.ArtistScore(tt.and, tt.or, tt.candidates)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Score != tt.want {
				t.Fatalf("score: got %v, want %v", got.Score, tt.want)
			}
			if got.Artist.Name != tt.wantName {
				t.Fatalf("artist: got %q, want %q", got.Artist.Name, tt.wantName)
			}
		})
	}
}

func TestAlbumScore(t *testing.T) {
	tests := []struct {
		name  string
		title string
		year  int
		album domain.CatalogAlbum
		want  int
	}{
		{name: "title and year", title: "Legend", year: 1984, album: domain.CatalogAlbum{Title: "Legend", ReleaseYear: 1984}, want: 2},
		{name: "title only", title: "Legend", year: 1984, album: domain.CatalogAlbum{Title: "Legend", ReleaseYear: 2002}, want: 1},
		{name: "year without title", title: "Legend", year: 1984, album: domain.CatalogAlbum{Title: "Legend (Remastered)", ReleaseYear: 1984}, want: 0},
		{name: "unknown year", title: "Legend", year: 0, album: domain.CatalogAlbum{Title: "Legend", ReleaseYear: 0}, want: 1},
		{name: "missing expected title", title: "", year: 1984, album: domain.CatalogAlbum{Title: "", ReleaseYear: 1984}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AlbumScore(tt.title, tt.year, tt.album); got != tt.want {
				t.Fatalf("AlbumScore: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScorerScore(t *testing.T) {
	legend := domain.CatalogTrack{
		ID:      "track-1",
		Title:   "Legend",
		Artists: artists("Bob Marley & The Wailers"),
		Album: domain.CatalogAlbum{
			ID:          "album-1",
			Title:       "Legend",
			ReleaseYear: 1984,
			Images:      []domain.Image{{URL: "big", Height: 640}, {URL: "small", Height: 64}},
		},
		AvailableMarkets: []string{"US", "GB"},
	}

	tests := []struct {
		name      string
		expected  Expected
		candidate domain.CatalogTrack
		want      int
		wantOK    bool
	}{
		{
			name: "perfect match",
			expected: Expected{
				Title: "Legend", And: []string{"Bob Marley & The Wailers"},
				AlbumTitle: "Legend", ReleaseYear: 1984,
			},
			candidate: legend,
			want:      400,
			wantOK:    true,
		},
		{
			name: "album mismatch lowers score",
			expected: Expected{
				Title: "Legend", And: []string{"Bob Marley & The Wailers"},
				AlbumTitle: "Exodus", ReleaseYear: 1977,
			},
			candidate: legend,
			want:      200,
			wantOK:    true,
		},
		{
			name:      "title mismatch rejects",
			expected:  Expected{Title: "Exodus", And: []string{"Bob Marley & The Wailers"}},
			candidate: legend,
			wantOK:    false,
		},
		{
			name:      "artist mismatch rejects",
			expected:  Expected{Title: "Legend", And: []string{"Peter Tosh"}},
			candidate: legend,
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DefaultScorer().Score(tt.expected, tt.candidate)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Score != tt.want {
				t.Fatalf("score: got %d, want %d", got.Score, tt.want)
			}
			if got.Result.Track.ID != "track-1" || got.Result.Album.ID != "album-1" {
				t.Fatalf("result ids: got %+v", got.Result)
			}
			if got.Result.Album.Images.Small != "small" || got.Result.Album.Images.Large != "big" {
				t.Fatalf("images: got %+v", got.Result.Album.Images)
			}
		})
	}
}

func TestScorerLiveFallbackStillQualifies(t *testing.T) {
	candidate := domain.CatalogTrack{
		ID:      "t",
		Title:   "Song (Live)",
		Artists: artists("Band"),
	}
	got, ok := DefaultScorer().Score(Expected{Title: "Song", And: []string{"Band"}}, candidate)
	if !ok {
		t.Fatal("expected live fallback to qualify")
	}
	if got.Result.Track.Score != 0.5 {
		t.Fatalf("track score: got %v, want 0.5", got.Result.Track.Score)
	}
	if got.Score != 150 {
		t.Fatalf("combined: got %d, want 150", got.Score)
	}
}
