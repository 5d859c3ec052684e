package spotify

import (
	"strconv"

	"github.com/zmb3/spotify/v2"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
)

// mapTrackToDomain converts a catalog track to a domain candidate. The
// album release year is filled from the release date when present.
func mapTrackToDomain(st spotify.FullTrack) domain.CatalogTrack {
	artists := make([]domain.CatalogArtist, 0, len(st.Artists))
	for _, a := range st.Artists {
		artists = append(artists, domain.CatalogArtist{ID: string(a.ID), Name: a.Name})
	}

	images := make([]domain.Image, 0, len(st.Album.Images))
	for _, img := range st.Album.Images {
		images = append(images, domain.Image{URL: img.URL, Height: int(img.Height)})
	}

	return domain.CatalogTrack{
		ID:      string(st.ID),
		URI:     string(st.URI),
		Title:   st.Name,
		Artists: artists,
		Album: domain.CatalogAlbum{
			ID:          string(st.Album.ID),
			Title:       st.Album.Name,
			ReleaseYear: releaseYear(st.Album.ReleaseDate),
			Images:      images,
		},
		AvailableMarkets: append([]string(nil), st.AvailableMarkets...),
		ISRC:             st.ExternalIDs["isrc"],
	}
}

// releaseYear extracts the year from "YYYY", "YYYY-MM" or "YYYY-MM-DD".
func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
