package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ewilliams-labs/trackmap/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2016, 1, 17, 13, 55, 0, 0, time.UTC)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func play(extID int64, title, artist string, at time.Time) domain.StationPlay {
	return domain.StationPlay{
		PlayedAt:         at,
		ExternalSongID:   extID,
		Title:            title,
		Artist:           artist,
		AlbumTitle:       title + " LP",
		AlbumASIN:        "B00" + title,
		AlbumReleaseYear: 1984,
	}
}

func seedPlays(t *testing.T, a *Adapter, plays ...domain.StationPlay) {
	t.Helper()
	for _, p := range plays {
		require.NoError(t, a.SavePlay(context.Background(), p))
	}
}

func mustSong(t *testing.T, a *Adapter, extID int64) domain.PlayedSong {
	t.Helper()
	song, err := a.GetSongByExternalID(context.Background(), extID)
	require.NoError(t, err)
	return song
}

func TestNewAdapter_MigratesTwice(t *testing.T) {
	a := newTestAdapter(t)
	require.NoError(t, migrateUp(a.db))

	_, ok, err := a.LatestPlayTime(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSavePlay(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)

	seedPlays(t, a,
		play(1, "Redemption Song", "Bob Marley", baseTime),
		play(1, "Redemption Song", "Bob Marley", baseTime.Add(3*time.Hour)),
		play(2, "Whole Lotta Love", "Led Zeppelin", baseTime.Add(time.Hour)),
	)

	song := mustSong(t, a, 1)
	assert.Equal(t, "Redemption Song", song.Title)
	assert.Equal(t, []string{"Bob Marley"}, song.ArtistNames)
	assert.Equal(t, "Redemption Song LP", song.AlbumTitle)
	assert.Equal(t, 1984, song.AlbumReleaseYear)
	assert.Equal(t, "B00Redemption Song", song.AlbumASIN)

	latest, ok, err := a.LatestPlayTime(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, latest.Equal(baseTime.Add(3*time.Hour)), "latest = %s", latest)

	err = a.SavePlay(ctx, play(3, "Other", "Someone", baseTime))
	require.ErrorIs(t, err, domain.ErrIntegrityConflict)
	_, err = a.GetSongByExternalID(ctx, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound, "failed play must not leave its song behind")
}

func TestSavePlay_AlbumWithoutASIN(t *testing.T) {
	a := newTestAdapter(t)
	p1 := play(1, "One", "A", baseTime)
	p2 := play(2, "Two", "B", baseTime.Add(time.Minute))
	p1.AlbumASIN, p2.AlbumASIN = "", ""
	p1.AlbumTitle, p2.AlbumTitle = "Shared", "Shared"
	seedPlays(t, a, p1, p2)

	var albums int
	require.NoError(t, a.db.QueryRow("SELECT COUNT(*) FROM station_albums").Scan(&albums))
	assert.Equal(t, 1, albums)
	assert.Empty(t, mustSong(t, a, 2).AlbumASIN)
}

func TestSongsToMatch(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)
	seedPlays(t, a,
		play(10, "Never Searched", "A", baseTime),
		play(20, "Found", "B", baseTime.Add(time.Minute)),
		play(30, "Not Found", "C", baseTime.Add(2*time.Minute)),
	)
	require.NoError(t, a.RecordSearch(ctx, domain.SearchHistory{
		SongID: mustSong(t, a, 20).ID, RunID: "r1", SearchTime: baseTime, Found: true,
	}))
	require.NoError(t, a.RecordSearch(ctx, domain.SearchHistory{
		SongID: mustSong(t, a, 30).ID, RunID: "r1", SearchTime: baseTime, Found: false,
	}))

	tests := []struct {
		name   string
		filter domain.SongFilter
		want   []int64
	}{
		{name: "default selects never searched", filter: domain.SongFilter{}, want: []int64{10}},
		{name: "only failed", filter: domain.SongFilter{OnlyFailed: true}, want: []int64{30}},
		{name: "force selects all", filter: domain.SongFilter{Force: true}, want: []int64{10, 20, 30}},
		{name: "force with limit", filter: domain.SongFilter{Force: true, Limit: 2}, want: []int64{10, 20}},
		{name: "explicit ids ignore history", filter: domain.SongFilter{ExternalIDs: []int64{20, 30}}, want: []int64{20, 30}},
		{name: "unknown id", filter: domain.SongFilter{ExternalIDs: []int64{99}}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			songs, err := a.SongsToMatch(ctx, tt.filter)
			require.NoError(t, err)
			var got []int64
			for _, s := range songs {
				got = append(got, s.ExternalID)
				assert.NotEmpty(t, s.ArtistNames)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordSearch_Overwrites(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)
	seedPlays(t, a, play(1, "Song", "Artist", baseTime))
	id := mustSong(t, a, 1).ID

	require.NoError(t, a.RecordSearch(ctx, domain.SearchHistory{SongID: id, RunID: "r1", SearchTime: baseTime}))
	require.NoError(t, a.RecordSearch(ctx, domain.SearchHistory{SongID: id, RunID: "r2", SearchTime: baseTime.Add(time.Hour), Found: true}))

	h, err := a.SearchHistoryFor(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "r2", h.RunID)
	assert.True(t, h.Found)
	assert.True(t, h.SearchTime.Equal(baseTime.Add(time.Hour)))
}

func TestSetCorrectedTitle(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)
	seedPlays(t, a, play(1, "Redemtion Song", "Bob Marley", baseTime))
	id := mustSong(t, a, 1).ID
	require.NoError(t, a.RecordSearch(ctx, domain.SearchHistory{SongID: id, RunID: "r1", SearchTime: baseTime}))

	require.NoError(t, a.SetCorrectedTitle(ctx, 1, "Redemption Song"))
	song := mustSong(t, a, 1)
	assert.Equal(t, "Redemption Song", song.CorrectedTitle)
	assert.Equal(t, "Redemption Song", song.MatchTitle())

	_, err := a.SearchHistoryFor(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, a.SetCorrectedTitle(ctx, 1, ""))
	assert.Empty(t, mustSong(t, a, 1).CorrectedTitle)

	assert.ErrorIs(t, a.SetCorrectedTitle(ctx, 404, "x"), domain.ErrNotFound)
}

func TestUpsertAlbumAndTrack(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)

	album := domain.PersistedAlbum{CatalogID: "alb1", Title: "Legend", ImageSmall: "s", ImageMedium: "m", ImageLarge: "l"}
	track := domain.PersistedTrack{CatalogID: "trk1", Title: "Redemption Song", AlbumID: "alb1", ArtistName: "Bob Marley & The Wailers", ArtistID: "art1"}

	tests := []struct {
		name      string
		mutate    func()
		wantAlbum domain.UpsertOutcome
		wantTrack domain.UpsertOutcome
	}{
		{name: "first write creates", mutate: func() {}, wantAlbum: domain.Created, wantTrack: domain.Created},
		{name: "same data is unchanged", mutate: func() {}, wantAlbum: domain.Unchanged, wantTrack: domain.Unchanged},
		{
			name: "changed fields update",
			mutate: func() {
				album.ImageLarge = "l2"
				track.MultipleArtists = true
			},
			wantAlbum: domain.Updated,
			wantTrack: domain.Updated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mutate()
			got, err := a.UpsertAlbum(ctx, album)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAlbum, got)

			got, err = a.UpsertTrack(ctx, track)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTrack, got)
		})
	}

	_, err := a.UpsertTrack(ctx, domain.PersistedTrack{CatalogID: "orphan", Title: "x", AlbumID: "missing", ArtistName: "a", ArtistID: "b"})
	assert.Error(t, err, "track without album must violate the foreign key")
}

func TestReplaceAvailability(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)
	seedPlays(t, a, play(1, "Song", "Artist", baseTime))
	songID := mustSong(t, a, 1).ID

	_, err := a.UpsertAlbum(ctx, domain.PersistedAlbum{CatalogID: "alb", Title: "Album"})
	require.NoError(t, err)
	for _, id := range []string{"t1", "t2"} {
		_, err := a.UpsertTrack(ctx, domain.PersistedTrack{CatalogID: id, Title: "Song", AlbumID: "alb", ArtistName: "Artist", ArtistID: "ar"})
		require.NoError(t, err)
	}

	first := []domain.TrackAvailability{
		{TrackID: "t1", Market: "US", Score: 400},
		{TrackID: "t2", Market: "GB", Score: 300},
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, a.ReplaceAvailability(ctx, songID, first))
	}
	got, err := a.AvailabilityForSong(ctx, songID)
	require.NoError(t, err)
	assert.Equal(t, []domain.TrackAvailability{
		{TrackID: "t2", SongID: songID, Market: "GB", Score: 300},
		{TrackID: "t1", SongID: songID, Market: "US", Score: 400},
	}, got)

	require.NoError(t, a.ReplaceAvailability(ctx, songID, []domain.TrackAvailability{{TrackID: "t2", Market: "US", Score: 350}}))
	got, err = a.AvailabilityForSong(ctx, songID)
	require.NoError(t, err)
	assert.Equal(t, []domain.TrackAvailability{{TrackID: "t2", SongID: songID, Market: "US", Score: 350}}, got)

	require.NoError(t, a.DeleteAvailability(ctx, songID))
	got, err = a.AvailabilityForSong(ctx, songID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplaceAvailability_RollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM track_availability WHERE song_id = \?`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectPrepare(`INSERT INTO track_availability`).
		ExpectExec().
		WithArgs("t1", int64(7), "US", 400).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	a := NewFromDB(db)
	err = a.ReplaceAvailability(context.Background(), 7, []domain.TrackAvailability{{TrackID: "t1", Market: "US", Score: 400}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandmapped(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)
	seedPlays(t, a,
		play(1, "One", "A", baseTime),
		play(2, "Two", "B", baseTime.Add(time.Minute)),
	)
	one, two := mustSong(t, a, 1), mustSong(t, a, 2)

	h1, err := a.AddHandmapped(ctx, domain.HandmappedTrack{SongID: one.ID, CatalogTrackID: "trk1", InfoURL: "https://example.test/1"})
	require.NoError(t, err)
	assert.NotZero(t, h1.ID)
	_, err = a.AddHandmapped(ctx, domain.HandmappedTrack{SongID: two.ID, CatalogTrackID: "trk2"})
	require.NoError(t, err)

	_, err = a.AddHandmapped(ctx, domain.HandmappedTrack{SongID: one.ID, CatalogTrackID: "trk3"})
	require.ErrorIs(t, err, domain.ErrIntegrityConflict)

	require.NoError(t, a.MarkHandmappedProcessed(ctx, h1.ID))
	pending, err := a.PendingHandmapped(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "trk2", pending[0].CatalogTrackID)
	assert.Empty(t, pending[0].InfoURL)

	assert.ErrorIs(t, a.MarkHandmappedProcessed(ctx, 999), domain.ErrNotFound)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)

	_, err := a.GetSetting(ctx, "playlist_etag")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, a.PutSetting(ctx, "playlist_etag", `"abc"`))
	require.NoError(t, a.PutSetting(ctx, "playlist_etag", `"def"`))
	got, err := a.GetSetting(ctx, "playlist_etag")
	require.NoError(t, err)
	assert.Equal(t, `"def"`, got)
}

func seedMatched(t *testing.T, a *Adapter, extID int64, trackID, market string, score int) {
	t.Helper()
	ctx := context.Background()
	_, err := a.UpsertAlbum(ctx, domain.PersistedAlbum{CatalogID: "alb-" + trackID, Title: "Catalog Album", ImageSmall: "small.jpg"})
	require.NoError(t, err)
	_, err = a.UpsertTrack(ctx, domain.PersistedTrack{CatalogID: trackID, Title: "Catalog Title", AlbumID: "alb-" + trackID, ArtistName: "Catalog Artist", ArtistID: "ar"})
	require.NoError(t, err)
	require.NoError(t, a.ReplaceAvailability(ctx, mustSong(t, a, extID).ID,
		[]domain.TrackAvailability{{TrackID: trackID, Market: market, Score: score}}))
}

func TestPlayHistory(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)
	seedPlays(t, a,
		play(1, "Matched", "A", baseTime),
		play(2, "Unmatched", "B", baseTime.Add(time.Hour)),
		play(1, "Matched", "A", baseTime.Add(2*time.Hour)),
		play(3, "Outside", "C", baseTime.Add(5*time.Hour)),
	)
	seedMatched(t, a, 1, "trk1", "US", 400)

	entries, err := a.PlayHistory(ctx, "US", baseTime, baseTime.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.True(t, entries[0].PlayedAt.Equal(baseTime.Add(2*time.Hour)))
	assert.Equal(t, int64(1), entries[0].ExternalID)
	require.NotNil(t, entries[0].Track)
	assert.Equal(t, "trk1", entries[0].Track.ID)
	assert.Equal(t, "small.jpg", entries[0].Track.ImageSmall)
	assert.Equal(t, 400, entries[0].Track.Score)
	assert.Equal(t, []string{"A"}, entries[0].Artists)

	assert.Equal(t, int64(2), entries[1].ExternalID)
	assert.Nil(t, entries[1].Track)

	other, err := a.PlayHistory(ctx, "GB", baseTime, baseTime.Add(3*time.Hour))
	require.NoError(t, err)
	for _, e := range other {
		assert.Nil(t, e.Track, "no GB matches were stored")
	}
}

func TestUnmatchedSongs(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)
	seedPlays(t, a,
		play(1, "First", "zappa", baseTime.Add(2*time.Hour)),
		play(2, "Second", "Abba", baseTime),
		play(3, "Third", "Matched", baseTime.Add(time.Hour)),
	)
	seedMatched(t, a, 3, "trk3", "US", 300)

	tests := []struct {
		order domain.UnmatchedOrder
		want  []int64
	}{
		{order: domain.OrderByArtist, want: []int64{2, 1}},
		{order: domain.OrderByPlayed, want: []int64{1, 2}},
		{order: domain.OrderByID, want: []int64{1, 2}},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			songs, err := a.UnmatchedSongs(ctx, "US", tt.order)
			require.NoError(t, err)
			var got []int64
			for _, s := range songs {
				got = append(got, s.ExternalID)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	songs, err := a.UnmatchedSongs(ctx, "US", domain.OrderByPlayed)
	require.NoError(t, err)
	assert.True(t, songs[0].LastPlayed.Equal(baseTime.Add(2*time.Hour)), "last played = %s", songs[0].LastPlayed)

	all, err := a.UnmatchedSongs(ctx, "GB", domain.OrderByID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = a.UnmatchedSongs(ctx, "US", "random")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
