package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
)

// PlayHistory lists plays in [start, end), newest first, each joined with the
// track matched for market when there is one.
func (a *Adapter) PlayHistory(ctx context.Context, market string, start, end time.Time) ([]domain.HistoryEntry, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT p.played_at, s.id, s.rp_song_id,
			COALESCE(NULLIF(s.corrected_title, ''), s.title),
			IFNULL(al.title, ''), IFNULL(al.release_year, 0),
			t.id, t.title, t.artist, ca.title,
			ca.img_small_url, ca.img_medium_url, ca.img_large_url, ta.score
		FROM plays p
		JOIN songs s ON s.id = p.song_id
		LEFT JOIN station_albums al ON al.id = s.album_id
		LEFT JOIN track_availability ta ON ta.song_id = s.id AND ta.market = ?
		LEFT JOIN catalog_tracks t ON t.id = ta.track_id
		LEFT JOIN catalog_albums ca ON ca.id = t.album_id
		WHERE p.played_at >= ? AND p.played_at < ?
		ORDER BY p.played_at DESC`,
		market, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to load play history: %w", err)
	}

	var (
		entries []domain.HistoryEntry
		songIDs []int64
		seen    = make(map[int64]bool)
	)
	for rows.Next() {
		var (
			e                           domain.HistoryEntry
			playedAt                    dbTime
			trackID, title, artist      sql.NullString
			album, small, medium, large sql.NullString
			score                       sql.NullInt64
		)
		if err := rows.Scan(&playedAt, &e.SongID, &e.ExternalID, &e.Title, &e.AlbumTitle, &e.ReleaseYear,
			&trackID, &title, &artist, &album, &small, &medium, &large, &score); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan play history: %w", err)
		}
		e.PlayedAt = playedAt.Time
		if trackID.Valid {
			e.Track = &domain.HistoryTrack{
				ID:         trackID.String,
				Title:      title.String,
				Artist:     artist.String,
				AlbumTitle: album.String,
				ImageSmall: small.String,
				ImageMed:   medium.String,
				ImageLarge: large.String,
				Score:      int(score.Int64),
			}
		}
		if !seen[e.SongID] {
			seen[e.SongID] = true
			songIDs = append(songIDs, e.SongID)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate play history: %w", err)
	}
	rows.Close()

	artists, err := a.artistsForSongs(ctx, songIDs)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Artists = artists[entries[i].SongID]
	}
	return entries, nil
}

var unmatchedOrderBy = map[domain.UnmatchedOrder]string{
	domain.OrderByArtist: "first_artist COLLATE NOCASE, s.id",
	domain.OrderByPlayed: "last_played DESC, s.id",
	domain.OrderByID:     "s.id",
}

// UnmatchedSongs lists songs with no matched track in market.
func (a *Adapter) UnmatchedSongs(ctx context.Context, market string, order domain.UnmatchedOrder) ([]domain.UnmatchedSong, error) {
	orderBy, ok := unmatchedOrderBy[order]
	if !ok {
		return nil, fmt.Errorf("%w: unknown order %q", domain.ErrInvalidArgument, order)
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT s.id, s.rp_song_id,
			COALESCE(NULLIF(s.corrected_title, ''), s.title),
			IFNULL(al.title, ''),
			(SELECT MAX(p.played_at) FROM plays p WHERE p.song_id = s.id) AS last_played,
			(SELECT ar.name FROM song_artists sa JOIN artists ar ON ar.id = sa.artist_id
				WHERE sa.song_id = s.id ORDER BY sa.position LIMIT 1) AS first_artist
		FROM songs s
		LEFT JOIN station_albums al ON al.id = s.album_id
		WHERE NOT EXISTS (
			SELECT 1 FROM track_availability ta WHERE ta.song_id = s.id AND ta.market = ?
		)
		ORDER BY `+orderBy, market)
	if err != nil {
		return nil, fmt.Errorf("failed to load unmatched songs: %w", err)
	}

	var (
		songs   []domain.UnmatchedSong
		songIDs []int64
	)
	for rows.Next() {
		var (
			u           domain.UnmatchedSong
			lastPlayed  dbTime
			firstArtist sql.NullString
		)
		if err := rows.Scan(&u.SongID, &u.ExternalID, &u.Title, &u.AlbumTitle, &lastPlayed, &firstArtist); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan unmatched song: %w", err)
		}
		u.LastPlayed = lastPlayed.Time
		songs = append(songs, u)
		songIDs = append(songIDs, u.SongID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate unmatched songs: %w", err)
	}
	rows.Close()

	artists, err := a.artistsForSongs(ctx, songIDs)
	if err != nil {
		return nil, err
	}
	for i := range songs {
		songs[i].Artists = artists[songs[i].SongID]
	}
	return songs, nil
}
