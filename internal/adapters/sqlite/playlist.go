package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
)

// LatestPlayTime returns the newest stored play time. ok is false when no
// plays are stored yet.
func (a *Adapter) LatestPlayTime(ctx context.Context) (time.Time, bool, error) {
	var latest dbTime
	err := a.db.QueryRowContext(ctx, "SELECT played_at FROM plays ORDER BY played_at DESC LIMIT 1").Scan(&latest)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to load latest play: %w", err)
	}
	return latest.Time, latest.Valid, nil
}

// SavePlay stores a play together with its song, album and artist, creating
// any that do not exist yet. A play at an already stored time fails with
// domain.ErrIntegrityConflict and leaves nothing behind.
func (a *Adapter) SavePlay(ctx context.Context, play domain.StationPlay) error {
	return a.withTx(ctx, func(tx *sql.Tx) error {
		albumID, err := stationAlbumID(ctx, tx, play)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO songs (rp_song_id, title, album_id) VALUES (?, ?, ?)
			ON CONFLICT(rp_song_id) DO NOTHING`,
			play.ExternalSongID, play.Title, albumID); err != nil {
			return fmt.Errorf("failed to insert song %d: %w", play.ExternalSongID, err)
		}
		var songID int64
		if err := tx.QueryRowContext(ctx, "SELECT id FROM songs WHERE rp_song_id = ?", play.ExternalSongID).
			Scan(&songID); err != nil {
			return fmt.Errorf("failed to load song %d: %w", play.ExternalSongID, err)
		}

		if artist := strings.TrimSpace(play.Artist); artist != "" {
			if err := linkArtist(ctx, tx, songID, artist); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, "INSERT INTO plays (song_id, played_at) VALUES (?, ?)",
			songID, play.PlayedAt.UTC().Truncate(time.Second)); err != nil {
			return fmt.Errorf("failed to insert play at %s: %w", play.PlayedAt.Format(time.RFC3339), translateError(err))
		}
		return nil
	})
}

// stationAlbumID finds or creates the station album of a play. Albums with an
// ASIN are keyed on it; the rest are keyed on title and year.
func stationAlbumID(ctx context.Context, tx *sql.Tx, play domain.StationPlay) (sql.NullInt64, error) {
	title := strings.TrimSpace(play.AlbumTitle)
	asin := strings.TrimSpace(play.AlbumASIN)
	if title == "" && asin == "" {
		return sql.NullInt64{}, nil
	}
	year := sql.NullInt64{Int64: int64(play.AlbumReleaseYear), Valid: play.AlbumReleaseYear > 0}

	var id int64
	if asin != "" {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO station_albums (title, asin, release_year) VALUES (?, ?, ?)
			ON CONFLICT(asin) DO NOTHING`, title, asin, year); err != nil {
			return sql.NullInt64{}, fmt.Errorf("failed to insert album %s: %w", asin, err)
		}
		if err := tx.QueryRowContext(ctx, "SELECT id FROM station_albums WHERE asin = ?", asin).Scan(&id); err != nil {
			return sql.NullInt64{}, fmt.Errorf("failed to load album %s: %w", asin, err)
		}
		return sql.NullInt64{Int64: id, Valid: true}, nil
	}

	err := tx.QueryRowContext(ctx, `
		SELECT id FROM station_albums
		WHERE asin IS NULL AND title = ? AND IFNULL(release_year, 0) = ?`,
		title, play.AlbumReleaseYear).Scan(&id)
	if err == nil {
		return sql.NullInt64{Int64: id, Valid: true}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return sql.NullInt64{}, fmt.Errorf("failed to look up album %q: %w", title, err)
	}
	res, err := tx.ExecContext(ctx, "INSERT INTO station_albums (title, release_year) VALUES (?, ?)", title, year)
	if err != nil {
		return sql.NullInt64{}, fmt.Errorf("failed to insert album %q: %w", title, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return sql.NullInt64{}, fmt.Errorf("failed to read album id: %w", err)
	}
	return sql.NullInt64{Int64: id, Valid: true}, nil
}

func linkArtist(ctx context.Context, tx *sql.Tx, songID int64, name string) error {
	if _, err := tx.ExecContext(ctx, "INSERT INTO artists (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name); err != nil {
		return fmt.Errorf("failed to insert artist %q: %w", name, err)
	}
	var artistID int64
	if err := tx.QueryRowContext(ctx, "SELECT id FROM artists WHERE name = ?", name).Scan(&artistID); err != nil {
		return fmt.Errorf("failed to load artist %q: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO song_artists (song_id, artist_id, position)
		VALUES (?, ?, (SELECT COUNT(*) FROM song_artists WHERE song_id = ?))
		ON CONFLICT(song_id, artist_id) DO NOTHING`, songID, artistID, songID); err != nil {
		return fmt.Errorf("failed to link artist %q: %w", name, err)
	}
	return nil
}

// GetSetting returns a stored setting or domain.ErrNotFound.
func (a *Adapter) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := a.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load setting %s: %w", key, err)
	}
	return value, nil
}

// PutSetting creates or overwrites a setting.
func (a *Adapter) PutSetting(ctx context.Context, key, value string) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to store setting %s: %w", key, err)
	}
	return nil
}
