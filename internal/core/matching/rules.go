package matching

import (
	"regexp"
	"strings"
)

var (
	remasterPattern = regexp.MustCompile(`(?:\s*(?:-\s+|[(\[]\s*)(?:\d{4}\s+)?(?:(?:digital(?:ly)?|stereo|mono)\s+)?remaster(?:ed)?(?:\s+(?:version|edition|\d{4}))*\s*[)\]]?\s*$` +
		`|\s*(?:-\s+|[(\[]\s*)\d{4}(?:\s+(?:version|mix|mono|stereo))?\s*[)\]]?\s*$)`)
	versionPattern = regexp.MustCompile(`(?:\s+-\s+[^-]*\b(?:instrumental|vocal|acoustic|live|original)\b[^-]*$` +
		`|\s*[(\[][^)\]]*\b(?:instrumental|vocal|original)\b[^)\]]*[)\]]\s*$)`)
	unpluggedPattern = regexp.MustCompile(`(?:\s*[(\[][^)\]]*\b(?:live|acoustic|unplugged)\b[^)\]]*[)\]]\s*$` +
		`|\s+-\s+[^-]*\b(?:live|acoustic|unplugged)\b[^-]*$)`)
)

// titleRule relaxes a title comparison by stripping a suffix from the
// expected and candidate titles before comparing their canonical forms.
type titleRule struct {
	name       string
	confidence float64
	expected   *regexp.Regexp
	candidate  *regexp.Regexp
}

// titleRules are evaluated in order; the first that matches wins.
var titleRules = []titleRule{
	{name: "exact", confidence: 1.0},
	{name: "remaster", confidence: 0.9, expected: remasterPattern, candidate: remasterPattern},
	{name: "version", confidence: 0.6, expected: versionPattern, candidate: versionPattern},
	{name: "unplugged", confidence: 0.5, expected: liveSuffixPattern, candidate: unpluggedPattern},
}

func (r titleRule) apply(expected, candidate string) (string, string) {
	if r.expected != nil {
		expected = r.expected.ReplaceAllString(expected, "")
	}
	if r.candidate != nil {
		candidate = r.candidate.ReplaceAllString(candidate, "")
	}
	return expected, candidate
}

// TitleMatch names the rule that matched two titles.
type TitleMatch struct {
	Rule       string
	Confidence float64
}

// MatchTitle compares an expected title with a candidate title using the
// ordered relaxation rules. Each rule is tried with featuring clauses kept
// and then removed.
func MatchTitle(expected, candidate string) (TitleMatch, bool) {
	e := strings.ToLower(expected)
	c := strings.ToLower(candidate)
	for _, rule := range titleRules {
		re, rc := rule.apply(e, c)
		for _, mode := range []featuringMode{keepFeaturing, dropFeaturing} {
			ke := canonical(re, mode)
			if ke != "" && ke == canonical(rc, mode) {
				return TitleMatch{Rule: rule.name, Confidence: rule.confidence}, true
			}
		}
	}
	return TitleMatch{}, false
}
