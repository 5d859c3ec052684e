package domain

// CatalogTrack is one search result item returned by the music catalog.
// It only lives for the duration of a matching pass.
type CatalogTrack struct {
	ID               string
	URI              string
	Title            string
	Artists          []CatalogArtist
	Album            CatalogAlbum
	AvailableMarkets []string
	ISRC             string
}

// CatalogArtist is an artist credit on a catalog track.
type CatalogArtist struct {
	ID   string
	Name string
}

// CatalogAlbum is the album a catalog track belongs to.
type CatalogAlbum struct {
	ID          string
	Title       string
	ReleaseYear int // 0 when unknown
	Images      []Image
}

// Image is a cover art rendition.
type Image struct {
	URL    string
	Height int
}

// Images holds the three cover sizes kept for display.
type Images struct {
	Small  string
	Medium string
	Large  string
}
