// Package matching holds the text normalization, artist mapping, query
// building and candidate scoring used to match station songs to catalog tracks.
package matching

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type featuringMode int

const (
	keepFeaturing featuringMode = iota
	dropFeaturing
)

var (
	conjunctionPattern = regexp.MustCompile(`\s+[&+]\s+`)
	partPattern        = regexp.MustCompile(`(?:,\s*|\s+\(?\s*)(?:pt\.?|part)\s*(\d+)\s*\)?\s*$`)
	featParenPattern   = regexp.MustCompile(`(?i)\s*[(\[]\s*(?:w/\s*|featuring\s+|feat\.\s*|feat\s+|ft\.\s*|ft\s+)([^)\]]*)[)\]]`)
	featTrailPattern   = regexp.MustCompile(`(?i)\s+(?:featuring|feat\.|ft\.)\s+(.+)$`)
	liveSuffixPattern  = regexp.MustCompile(`(?i)\s*\(\s*(?:live|acoustic)\s*\)\s*$`)
	spacePattern       = regexp.MustCompile(`\s+`)
	searchPunctPattern = regexp.MustCompile(`[()\[\]{}.,:;!?/\\*_~^|<>=@%]+`)
	quotePattern       = regexp.MustCompile(`["'‘’“”` + "`" + `]`)
)

// NormalizeForCompare returns the canonical form of text used for equality
// checks: case folded, accent free, articles and punctuation removed, with
// part markers collapsed and featuring clauses rewritten to "featuring X".
func NormalizeForCompare(text string) string {
	return canonical(text, keepFeaturing)
}

// NormalizeForSearch returns text in a form safe to embed in a quoted catalog
// query. Accents are kept and featuring clauses are removed.
func NormalizeForSearch(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = conjunctionPattern.ReplaceAllString(s, " and ")
	s = stripFeaturing(s)
	s = quotePattern.ReplaceAllString(s, "")
	s = searchPunctPattern.ReplaceAllString(s, " ")
	return collapseSpaces(s)
}

// StripFeaturing removes "(feat. X)" style clauses from text.
func StripFeaturing(text string) string {
	return collapseSpaces(stripFeaturing(text))
}

// StripLiveSuffix removes a trailing "(live)" or "(acoustic)" marker and
// reports whether one was present.
func StripLiveSuffix(title string) (string, bool) {
	stripped := liveSuffixPattern.ReplaceAllString(title, "")
	return stripped, stripped != title
}

func canonical(text string, mode featuringMode) string {
	s := stripAccents(strings.ToLower(strings.TrimSpace(text)))
	s = conjunctionPattern.ReplaceAllString(s, " and ")
	s = partPattern.ReplaceAllString(s, " part$1")
	if mode == dropFeaturing {
		s = stripFeaturing(s)
	} else {
		s = featParenPattern.ReplaceAllString(s, " featuring $1")
		s = featTrailPattern.ReplaceAllString(s, " featuring $1")
	}
	s = collapseSpaces(s)
	s = dropArticle(s)
	return alphanumeric(s)
}

func stripFeaturing(s string) string {
	s = featParenPattern.ReplaceAllString(s, "")
	return featTrailPattern.ReplaceAllString(s, "")
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// dropArticle removes a leading "a " or "the " when at least three
// characters remain.
func dropArticle(s string) string {
	for _, article := range []string{"the ", "a "} {
		if rest, ok := strings.CutPrefix(s, article); ok {
			if utf8.RuneCountInString(strings.TrimSpace(rest)) >= 3 {
				return rest
			}
			return s
		}
	}
	return s
}

func alphanumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
