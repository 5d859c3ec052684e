package domain

// PersistedAlbum is the stored form of a catalog album.
type PersistedAlbum struct {
	CatalogID   string
	Title       string
	ImageSmall  string
	ImageMedium string
	ImageLarge  string
}

// Diff lists the fields of want that differ from a.
func (a PersistedAlbum) Diff(want PersistedAlbum) []string {
	var changed []string
	if a.Title != want.Title {
		changed = append(changed, "title")
	}
	if a.ImageSmall != want.ImageSmall {
		changed = append(changed, "img_small_url")
	}
	if a.ImageMedium != want.ImageMedium {
		changed = append(changed, "img_medium_url")
	}
	if a.ImageLarge != want.ImageLarge {
		changed = append(changed, "img_large_url")
	}
	return changed
}

// PersistedTrack is the stored form of a catalog track.
type PersistedTrack struct {
	CatalogID       string
	Title           string
	AlbumID         string
	ArtistName      string
	ArtistID        string
	MultipleArtists bool
}

// Diff lists the fields of want that differ from t.
func (t PersistedTrack) Diff(want PersistedTrack) []string {
	var changed []string
	if t.Title != want.Title {
		changed = append(changed, "title")
	}
	if t.AlbumID != want.AlbumID {
		changed = append(changed, "album_id")
	}
	if t.ArtistName != want.ArtistName {
		changed = append(changed, "artist")
	}
	if t.ArtistID != want.ArtistID {
		changed = append(changed, "artist_id")
	}
	if t.MultipleArtists != want.MultipleArtists {
		changed = append(changed, "many_artists")
	}
	return changed
}

// UpsertOutcome reports what an upsert did.
type UpsertOutcome int

const (
	Unchanged UpsertOutcome = iota
	Created
	Updated
)

func (o UpsertOutcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}

// TrackAvailability says a catalog track is the match for a song in a market.
type TrackAvailability struct {
	TrackID string
	SongID  int64
	Market  string
	Score   int
}
