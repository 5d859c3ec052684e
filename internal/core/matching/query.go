package matching

import (
	"fmt"
	"strings"
)

// QueryBuilder composes catalog search queries from song metadata.
type QueryBuilder struct {
	mapper *ArtistMapper
}

// NewQueryBuilder returns a builder applying mapper's search-only spellings.
func NewQueryBuilder(mapper *ArtistMapper) QueryBuilder {
	if mapper == nil {
		mapper = NewArtistMapper(nil, nil)
	}
	return QueryBuilder{mapper: mapper}
}

// Build returns a query with each field quoted as an exact phrase:
// track:"..." artist:"..." album:"...". Empty artists and album are omitted.
func (b QueryBuilder) Build(title string, artists []string, album string) string {
	parts := []string{phrase("track", NormalizeForSearch(title))}
	for _, artist := range artists {
		name := sanitizePhrase(b.mapper.SearchSpelling(artist))
		if name == "" {
			continue
		}
		parts = append(parts, phrase("artist", name))
	}
	if a := sanitizePhrase(album); a != "" {
		parts = append(parts, phrase("album", a))
	}
	return strings.Join(parts, " ")
}

// Queries returns one query per alternate name plus one for the required
// names when there are any. A song without artists gets a title-only query.
// Duplicates are dropped, keeping the first occurrence.
func (b QueryBuilder) Queries(title string, and, or []string) []string {
	var queries []string
	seen := map[string]bool{}
	add := func(q string) {
		if !seen[q] {
			seen[q] = true
			queries = append(queries, q)
		}
	}
	for _, alt := range or {
		add(b.Build(title, []string{alt}, ""))
	}
	if len(and) > 0 || len(or) == 0 {
		add(b.Build(title, and, ""))
	}
	return queries
}

func phrase(field, value string) string {
	return fmt.Sprintf(`%s:"%s"`, field, value)
}

func sanitizePhrase(s string) string {
	return collapseSpaces(quotePattern.ReplaceAllString(s, ""))
}
