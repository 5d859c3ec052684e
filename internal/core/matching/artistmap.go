package matching

// Mode selects whether artist variants are resolved for querying the
// catalog or for comparing against its results.
type Mode int

const (
	SearchMode Mode = iota
	CompareMode
)

func (m Mode) String() string {
	if m == CompareMode {
		return "compare"
	}
	return "search"
}

// Mapping is a known discrepancy between a station artist name and the
// catalog's naming. The variants are Replace, OneToMany and AnyOf.
type Mapping interface {
	resolve(mode Mode) (and, or []string)
}

// Replace maps a station name to a single different catalog name.
type Replace struct {
	Name string
}

func (r Replace) resolve(Mode) ([]string, []string) {
	return []string{r.Name}, nil
}

// OneToMany splits a combined station credit into separate catalog artists,
// all of which must match.
type OneToMany struct {
	Names []string
}

func (o OneToMany) resolve(Mode) ([]string, []string) {
	return append([]string(nil), o.Names...), nil
}

// AnyOf lists acceptable alternates of which one must match. Search
// alternates are queried one by one; Compare alternates are accepted when
// scoring.
type AnyOf struct {
	Search  []string
	Compare []string
}

func (a AnyOf) resolve(mode Mode) ([]string, []string) {
	if mode == CompareMode {
		return nil, append([]string(nil), a.Compare...)
	}
	return nil, append([]string(nil), a.Search...)
}

// ArtistMapper resolves station artist names through a static mapping table
// and a separate table of search-only spellings.
type ArtistMapper struct {
	mappings  map[string]Mapping
	spellings map[string]string
}

// NewArtistMapper builds a mapper from the given tables. Either may be nil.
func NewArtistMapper(mappings map[string]Mapping, spellings map[string]string) *ArtistMapper {
	if mappings == nil {
		mappings = map[string]Mapping{}
	}
	if spellings == nil {
		spellings = map[string]string{}
	}
	return &ArtistMapper{mappings: mappings, spellings: spellings}
}

// DefaultArtistMapper returns a mapper over the built-in station tables.
func DefaultArtistMapper() *ArtistMapper {
	return NewArtistMapper(stationMappings, searchSpellings)
}

// MapNames resolves names into the names that must all match (and) and the
// alternates of which any one suffices (or). Lookups are by exact name.
func (m *ArtistMapper) MapNames(names []string, mode Mode) (and, or []string) {
	for _, name := range names {
		if name == "" {
			continue
		}
		mapping, ok := m.mappings[name]
		if !ok {
			and = append(and, name)
			continue
		}
		a, o := mapping.resolve(mode)
		and = append(and, a...)
		or = append(or, o...)
	}
	return and, or
}

// SearchSpelling returns the search-only spelling of name, or name itself.
func (m *ArtistMapper) SearchSpelling(name string) string {
	if alt, ok := m.spellings[name]; ok {
		return alt
	}
	return name
}

// Lookup returns the mapping registered for name.
func (m *ArtistMapper) Lookup(name string) (Mapping, bool) {
	mapping, ok := m.mappings[name]
	return mapping, ok
}
