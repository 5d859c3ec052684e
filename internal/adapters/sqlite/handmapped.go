package sqlite

import (
	"context"
	"fmt"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
)

// AddHandmapped stores a curated assignment. A second assignment for the same
// song fails with domain.ErrIntegrityConflict.
func (a *Adapter) AddHandmapped(ctx context.Context, h domain.HandmappedTrack) (domain.HandmappedTrack, error) {
	res, err := a.db.ExecContext(ctx, `
		INSERT INTO handmapped_tracks (song_id, track_id, info_url, processed)
		VALUES (?, ?, ?, ?)`,
		h.SongID, h.CatalogTrackID, nullString(h.InfoURL), boolToInt(h.Processed))
	if err != nil {
		return domain.HandmappedTrack{}, fmt.Errorf("failed to add handmapped track for song %d: %w", h.SongID, translateError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.HandmappedTrack{}, fmt.Errorf("failed to read handmapped id: %w", err)
	}
	h.ID = id
	return h, nil
}

// PendingHandmapped lists unprocessed assignments in insertion order.
func (a *Adapter) PendingHandmapped(ctx context.Context) ([]domain.HandmappedTrack, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, song_id, track_id, IFNULL(info_url, ''), processed
		FROM handmapped_tracks
		WHERE processed = 0
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending handmapped tracks: %w", err)
	}
	defer rows.Close()

	var out []domain.HandmappedTrack
	for rows.Next() {
		var h domain.HandmappedTrack
		if err := rows.Scan(&h.ID, &h.SongID, &h.CatalogTrackID, &h.InfoURL, &h.Processed); err != nil {
			return nil, fmt.Errorf("failed to scan handmapped track: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate handmapped tracks: %w", err)
	}
	return out, nil
}

// MarkHandmappedProcessed flags an assignment as applied.
func (a *Adapter) MarkHandmappedProcessed(ctx context.Context, id int64) error {
	res, err := a.db.ExecContext(ctx, "UPDATE handmapped_tracks SET processed = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to mark handmapped track %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
