package matching

import "testing"

func TestNormalizeForCompare(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		same bool
	}{
		{name: "case and punctuation", a: "Don't Stop!", b: "dont stop", same: true},
		{name: "ampersand", a: "Simon & Garfunkel", b: "Simon and Garfunkel", same: true},
		{name: "plus", a: "Crosby + Nash", b: "Crosby and Nash", same: true},
		{name: "accents", a: "Déjà Vu", b: "Deja Vu", same: true},
		{name: "leading the", a: "The Cure", b: "Cure", same: true},
		{name: "leading a", a: "A Forest", b: "Forest", same: true},
		{name: "short title keeps article", a: "The Ox", b: "Ox", same: false},
		{name: "part with comma", a: "Shine On, Pt. 2", b: "Shine On (Part 2)", same: true},
		{name: "part plain", a: "Shine On Part 2", b: "Shine On, pt 2", same: true},
		{name: "featuring variants", a: "Song (feat. Someone)", b: "Song (w/ Someone)", same: true},
		{name: "featuring kept", a: "Song (feat. Someone)", b: "Song", same: false},
		{name: "different words", a: "Blue", b: "Green", same: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NormalizeForCompare(tt.a)
			b := NormalizeForCompare(tt.b)
			if (a == b) != tt.same {
				t.Fatalf("NormalizeForCompare(%q)=%q, NormalizeForCompare(%q)=%q, same: got %v, want %v", tt.a, a, tt.b, b, a == b, tt.same)
			}
		})
	}
}

func TestNormalizeForCompareShortArticle(t *testing.T) {
	if got := NormalizeForCompare("A"); got != "a" {
		t.Fatalf("NormalizeForCompare(A): got %q, want %q", got, "a")
	}
	if got := NormalizeForCompare("The End"); got != "end" {
		t.Fatalf("NormalizeForCompare(The End): got %q, want %q", got, "end")
	}
	if got := NormalizeForCompare("The Ox"); got != "theox" {
		t.Fatalf("NormalizeForCompare(The Ox): got %q, want %q", got, "theox")
	}
}

func TestNormalizeForSearch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Déjà Vu", want: "déjà vu"},
		{in: "Rock & Roll", want: "rock and roll"},
		{in: "Song (feat. Someone Else)", want: "song"},
		{in: "Song feat. Someone", want: "song"},
		{in: `"Heroes"`, want: "heroes"},
		{in: "Don't Stop", want: "dont stop"},
		{in: "AC/DC: Live!", want: "ac dc live"},
		{in: "$100 Bill - #1 Hit", want: "$100 bill - #1 hit"},
		{in: "  Spaced   Out ", want: "spaced out"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeForSearch(tt.in); got != tt.want {
				t.Fatalf("NormalizeForSearch(%q): got %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripLiveSuffix(t *testing.T) {
	tests := []struct {
		in       string
		want     string
		stripped bool
	}{
		{in: "Song (Live)", want: "Song", stripped: true},
		{in: "Song ( acoustic ) ", want: "Song", stripped: true},
		{in: "Live Forever", want: "Live Forever", stripped: false},
		{in: "Song (Live at Leeds)", want: "Song (Live at Leeds)", stripped: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, stripped := StripLiveSuffix(tt.in)
			if got != tt.want || stripped != tt.stripped {
				t.Fatalf("StripLiveSuffix(%q): got (%q, %v), want (%q, %v)", tt.in, got, stripped, tt.want, tt.stripped)
			}
		})
	}
}

func TestStripFeaturing(t *testing.T) {
	if got := StripFeaturing("Walk On (featuring Someone) [Edit]"); got != "Walk On [Edit]" {
		t.Fatalf("StripFeaturing: got %q", got)
	}
}
