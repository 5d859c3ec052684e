package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
)

// UpsertAlbum inserts the album or rewrites it when any stored field differs.
func (a *Adapter) UpsertAlbum(ctx context.Context, album domain.PersistedAlbum) (domain.UpsertOutcome, error) {
	var existing domain.PersistedAlbum
	err := a.db.QueryRowContext(ctx, `
		SELECT id, title, IFNULL(img_small_url, ''), IFNULL(img_medium_url, ''), IFNULL(img_large_url, '')
		FROM catalog_albums WHERE id = ?`, album.CatalogID).
		Scan(&existing.CatalogID, &existing.Title, &existing.ImageSmall, &existing.ImageMedium, &existing.ImageLarge)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err := a.db.ExecContext(ctx, `
			INSERT INTO catalog_albums (id, title, img_small_url, img_medium_url, img_large_url)
			VALUES (?, ?, ?, ?, ?)`,
			album.CatalogID, album.Title,
			nullString(album.ImageSmall), nullString(album.ImageMedium), nullString(album.ImageLarge))
		if err != nil {
			return domain.Unchanged, fmt.Errorf("failed to insert catalog album %s: %w", album.CatalogID, translateError(err))
		}
		return domain.Created, nil
	case err != nil:
		return domain.Unchanged, fmt.Errorf("failed to load catalog album %s: %w", album.CatalogID, err)
	}

	if len(existing.Diff(album)) == 0 {
		return domain.Unchanged, nil
	}
	_, err = a.db.ExecContext(ctx, `
		UPDATE catalog_albums
		SET title = ?, img_small_url = ?, img_medium_url = ?, img_large_url = ?
		WHERE id = ?`,
		album.Title, nullString(album.ImageSmall), nullString(album.ImageMedium), nullString(album.ImageLarge),
		album.CatalogID)
	if err != nil {
		return domain.Unchanged, fmt.Errorf("failed to update catalog album %s: %w", album.CatalogID, translateError(err))
	}
	return domain.Updated, nil
}

// UpsertTrack inserts the track or rewrites it when any stored field differs.
// The referenced album must already exist.
func (a *Adapter) UpsertTrack(ctx context.Context, track domain.PersistedTrack) (domain.UpsertOutcome, error) {
	var existing domain.PersistedTrack
	err := a.db.QueryRowContext(ctx, `
		SELECT id, title, album_id, artist, artist_id, many_artists
		FROM catalog_tracks WHERE id = ?`, track.CatalogID).
		Scan(&existing.CatalogID, &existing.Title, &existing.AlbumID, &existing.ArtistName,
			&existing.ArtistID, &existing.MultipleArtists)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err := a.db.ExecContext(ctx, `
			INSERT INTO catalog_tracks (id, title, album_id, artist, artist_id, many_artists)
			VALUES (?, ?, ?, ?, ?, ?)`,
			track.CatalogID, track.Title, track.AlbumID, track.ArtistName, track.ArtistID,
			boolToInt(track.MultipleArtists))
		if err != nil {
			return domain.Unchanged, fmt.Errorf("failed to insert catalog track %s: %w", track.CatalogID, translateError(err))
		}
		return domain.Created, nil
	case err != nil:
		return domain.Unchanged, fmt.Errorf("failed to load catalog track %s: %w", track.CatalogID, err)
	}

	if len(existing.Diff(track)) == 0 {
		return domain.Unchanged, nil
	}
	_, err = a.db.ExecContext(ctx, `
		UPDATE catalog_tracks
		SET title = ?, album_id = ?, artist = ?, artist_id = ?, many_artists = ?
		WHERE id = ?`,
		track.Title, track.AlbumID, track.ArtistName, track.ArtistID, boolToInt(track.MultipleArtists),
		track.CatalogID)
	if err != nil {
		return domain.Unchanged, fmt.Errorf("failed to update catalog track %s: %w", track.CatalogID, translateError(err))
	}
	return domain.Updated, nil
}

// ReplaceAvailability deletes every availability row of the song and inserts
// records in one transaction.
func (a *Adapter) ReplaceAvailability(ctx context.Context, songID int64, records []domain.TrackAvailability) error {
	return a.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM track_availability WHERE song_id = ?", songID); err != nil {
			return fmt.Errorf("failed to clear availability for song %d: %w", songID, err)
		}
		if len(records) == 0 {
			return nil
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO track_availability (track_id, song_id, market, score)
			VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare availability insert: %w", err)
		}
		defer stmt.Close()

		for _, rec := range records {
			if _, err := stmt.ExecContext(ctx, rec.TrackID, songID, rec.Market, rec.Score); err != nil {
				return fmt.Errorf("failed to insert availability %s/%s: %w", rec.TrackID, rec.Market, translateError(err))
			}
		}
		return nil
	})
}

// DeleteAvailability removes every availability row of the song.
func (a *Adapter) DeleteAvailability(ctx context.Context, songID int64) error {
	if _, err := a.db.ExecContext(ctx, "DELETE FROM track_availability WHERE song_id = ?", songID); err != nil {
		return fmt.Errorf("failed to delete availability for song %d: %w", songID, err)
	}
	return nil
}

// AvailabilityForSong lists the song's availability rows ordered by market.
func (a *Adapter) AvailabilityForSong(ctx context.Context, songID int64) ([]domain.TrackAvailability, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT track_id, song_id, market, score
		FROM track_availability
		WHERE song_id = ?
		ORDER BY market, track_id`, songID)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability for song %d: %w", songID, err)
	}
	defer rows.Close()

	var out []domain.TrackAvailability
	for rows.Next() {
		var rec domain.TrackAvailability
		if err := rows.Scan(&rec.TrackID, &rec.SongID, &rec.Market, &rec.Score); err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate availability: %w", err)
	}
	return out, nil
}
