package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
)

const songColumns = `
	s.id, s.rp_song_id, s.title, IFNULL(s.corrected_title, ''), IFNULL(s.isrc, ''),
	IFNULL(al.title, ''), IFNULL(al.release_year, 0), IFNULL(al.asin, '')`

func scanSong(scanner interface{ Scan(...any) error }) (domain.PlayedSong, error) {
	var song domain.PlayedSong
	err := scanner.Scan(&song.ID, &song.ExternalID, &song.Title, &song.CorrectedTitle, &song.ISRC,
		&song.AlbumTitle, &song.AlbumReleaseYear, &song.AlbumASIN)
	return song, err
}

// SongsToMatch returns the songs a matching run should process, ordered by id.
//
// Explicit external ids select those songs regardless of history. Otherwise
// Force selects every song, OnlyFailed selects songs whose latest search
// found nothing, and the default selects songs that were never searched.
func (a *Adapter) SongsToMatch(ctx context.Context, filter domain.SongFilter) ([]domain.PlayedSong, error) {
	var (
		where []string
		args  []any
	)
	switch {
	case len(filter.ExternalIDs) > 0:
		where = append(where, "s.rp_song_id IN ("+placeholders(len(filter.ExternalIDs))+")")
		for _, id := range filter.ExternalIDs {
			args = append(args, id)
		}
	case filter.Force:
	case filter.OnlyFailed:
		where = append(where, "h.found = 0")
	default:
		where = append(where, "h.song_id IS NULL")
	}

	query := `SELECT` + songColumns + `
		FROM songs s
		LEFT JOIN station_albums al ON al.id = s.album_id
		LEFT JOIN search_history h ON h.song_id = s.id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY s.id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select songs to match: %w", err)
	}
	var songs []domain.PlayedSong
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate songs: %w", err)
	}
	rows.Close()

	if err := a.attachArtists(ctx, songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// GetSongByExternalID loads one song by its station id.
func (a *Adapter) GetSongByExternalID(ctx context.Context, externalID int64) (domain.PlayedSong, error) {
	row := a.db.QueryRowContext(ctx, `SELECT`+songColumns+`
		FROM songs s
		LEFT JOIN station_albums al ON al.id = s.album_id
		WHERE s.rp_song_id = ?`, externalID)
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PlayedSong{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.PlayedSong{}, fmt.Errorf("failed to load song %d: %w", externalID, err)
	}

	songs := []domain.PlayedSong{song}
	if err := a.attachArtists(ctx, songs); err != nil {
		return domain.PlayedSong{}, err
	}
	return songs[0], nil
}

// SetCorrectedTitle stores a curated title and clears the song's search
// history so the next run searches it again. An empty title removes the override.
func (a *Adapter) SetCorrectedTitle(ctx context.Context, externalID int64, title string) error {
	return a.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE songs SET corrected_title = ? WHERE rp_song_id = ?",
			nullString(strings.TrimSpace(title)), externalID)
		if err != nil {
			return fmt.Errorf("failed to set corrected title: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM search_history
			WHERE song_id = (SELECT id FROM songs WHERE rp_song_id = ?)`, externalID); err != nil {
			return fmt.Errorf("failed to reset search history: %w", err)
		}
		return nil
	})
}

// RecordSearch creates or overwrites the song's search history row.
func (a *Adapter) RecordSearch(ctx context.Context, history domain.SearchHistory) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO search_history (song_id, run_id, search_time, found)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(song_id) DO UPDATE SET
			run_id = excluded.run_id,
			search_time = excluded.search_time,
			found = excluded.found`,
		history.SongID, history.RunID, history.SearchTime.UTC(), boolToInt(history.Found))
	if err != nil {
		return fmt.Errorf("failed to record search for song %d: %w", history.SongID, translateError(err))
	}
	return nil
}

// SearchHistoryFor returns the song's latest search outcome.
func (a *Adapter) SearchHistoryFor(ctx context.Context, songID int64) (domain.SearchHistory, error) {
	var (
		h    domain.SearchHistory
		when dbTime
	)
	err := a.db.QueryRowContext(ctx, `
		SELECT song_id, run_id, search_time, found FROM search_history WHERE song_id = ?`, songID).
		Scan(&h.SongID, &h.RunID, &when, &h.Found)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SearchHistory{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.SearchHistory{}, fmt.Errorf("failed to load search history: %w", err)
	}
	h.SearchTime = when.Time
	return h, nil
}

// attachArtists fills ArtistNames of each song in credit order.
func (a *Adapter) attachArtists(ctx context.Context, songs []domain.PlayedSong) error {
	if len(songs) == 0 {
		return nil
	}
	ids := make([]int64, len(songs))
	for i, s := range songs {
		ids[i] = s.ID
	}
	byID, err := a.artistsForSongs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range songs {
		songs[i].ArtistNames = byID[songs[i].ID]
	}
	return nil
}

// artistQueryChunk stays well below SQLite's bound parameter limit.
const artistQueryChunk = 500

func (a *Adapter) artistsForSongs(ctx context.Context, songIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string, len(songIDs))
	for start := 0; start < len(songIDs); start += artistQueryChunk {
		end := min(start+artistQueryChunk, len(songIDs))
		if err := a.loadArtistChunk(ctx, songIDs[start:end], out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (a *Adapter) loadArtistChunk(ctx context.Context, songIDs []int64, out map[int64][]string) error {
	args := make([]any, len(songIDs))
	for i, id := range songIDs {
		args[i] = id
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT sa.song_id, ar.name
		FROM song_artists sa
		JOIN artists ar ON ar.id = sa.artist_id
		WHERE sa.song_id IN (`+placeholders(len(songIDs))+`)
		ORDER BY sa.song_id, sa.position`, args...)
	if err != nil {
		return fmt.Errorf("failed to load song artists: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			songID int64
			name   string
		)
		if err := rows.Scan(&songID, &name); err != nil {
			return fmt.Errorf("failed to scan song artist: %w", err)
		}
		out[songID] = append(out[songID], name)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate song artists: %w", err)
	}
	return nil
}
