package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
	"github.com/ewilliams-labs/trackmap/internal/core/ports"
)

func catalogTrack(id, title, artist, album string, year int, markets ...string) domain.CatalogTrack {
	return domain.CatalogTrack{
		ID:      id,
		URI:     "spotify:track:" + id,
		Title:   title,
		Artists: []domain.CatalogArtist{{ID: "ar-" + id, Name: artist}},
		Album: domain.CatalogAlbum{
			ID:          "al-" + id,
			Title:       album,
			ReleaseYear: year,
			Images:      []domain.Image{{URL: "https://img.test/" + id + "-64.jpg", Height: 64}},
		},
		AvailableMarkets: markets,
	}
}

type fakeSearcher struct {
	mu       sync.Mutex
	byQuery  map[string][]domain.CatalogTrack
	fallback []domain.CatalogTrack
	errs     map[string]error
	err      error
	queries  []string
}

func (f *fakeSearcher) Search(_ context.Context, query string, _, _ int) ([]domain.CatalogTrack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	if results, ok := f.byQuery[query]; ok {
		return results, nil
	}
	return f.fallback, nil
}

type fakeCatalogRepo struct {
	mu           sync.Mutex
	albums       map[string]domain.PersistedAlbum
	tracks       map[string]domain.PersistedTrack
	availability map[int64][]domain.TrackAvailability
	conflicts    map[string]bool
	albumWrites  int
	trackWrites  int
	replaceErr   error
	deleted      []int64
}

var _ ports.CatalogRepository = (*fakeCatalogRepo)(nil)

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		albums:       map[string]domain.PersistedAlbum{},
		tracks:       map[string]domain.PersistedTrack{},
		availability: map[int64][]domain.TrackAvailability{},
		conflicts:    map[string]bool{},
	}
}

func (f *fakeCatalogRepo) UpsertAlbum(_ context.Context, album domain.PersistedAlbum) (domain.UpsertOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.albumWrites++
	existing, ok := f.albums[album.CatalogID]
	f.albums[album.CatalogID] = album
	switch {
	case !ok:
		return domain.Created, nil
	case len(existing.Diff(album)) > 0:
		return domain.Updated, nil
	}
	return domain.Unchanged, nil
}

func (f *fakeCatalogRepo) UpsertTrack(_ context.Context, track domain.PersistedTrack) (domain.UpsertOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trackWrites++
	if f.conflicts[track.CatalogID] {
		return domain.Unchanged, domain.ErrIntegrityConflict
	}
	_, ok := f.tracks[track.CatalogID]
	f.tracks[track.CatalogID] = track
	if ok {
		return domain.Unchanged, nil
	}
	return domain.Created, nil
}

func (f *fakeCatalogRepo) ReplaceAvailability(_ context.Context, songID int64, records []domain.TrackAvailability) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.availability[songID] = append([]domain.TrackAvailability(nil), records...)
	return nil
}

func (f *fakeCatalogRepo) DeleteAvailability(_ context.Context, songID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, songID)
	delete(f.availability, songID)
	return nil
}

func (f *fakeCatalogRepo) availabilityFor(songID int64) []domain.TrackAvailability {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.availability[songID]
}

type fakeSongRepo struct {
	mu      sync.Mutex
	songs   []domain.PlayedSong
	history map[int64]domain.SearchHistory
	filters []domain.SongFilter
}

var _ ports.SongRepository = (*fakeSongRepo)(nil)

func newFakeSongRepo(songs ...domain.PlayedSong) *fakeSongRepo {
	return &fakeSongRepo{songs: songs, history: map[int64]domain.SearchHistory{}}
}

func (f *fakeSongRepo) SongsToMatch(_ context.Context, filter domain.SongFilter) ([]domain.PlayedSong, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	out := append([]domain.PlayedSong(nil), f.songs...)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeSongRepo) GetSongByExternalID(_ context.Context, externalID int64) (domain.PlayedSong, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.songs {
		if s.ExternalID == externalID {
			return s, nil
		}
	}
	return domain.PlayedSong{}, domain.ErrNotFound
}

func (f *fakeSongRepo) SetCorrectedTitle(_ context.Context, externalID int64, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.songs {
		if f.songs[i].ExternalID == externalID {
			f.songs[i].CorrectedTitle = title
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeSongRepo) RecordSearch(_ context.Context, h domain.SearchHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history[h.SongID] = h
	return nil
}

func (f *fakeSongRepo) historyFor(songID int64) (domain.SearchHistory, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.history[songID]
	return h, ok
}

type fakeHandmapRepo struct {
	rows   []domain.HandmappedTrack
	addErr error
}

var _ ports.HandmapRepository = (*fakeHandmapRepo)(nil)

func (f *fakeHandmapRepo) AddHandmapped(_ context.Context, h domain.HandmappedTrack) (domain.HandmappedTrack, error) {
	if f.addErr != nil {
		return domain.HandmappedTrack{}, f.addErr
	}
	h.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, h)
	return h, nil
}

func (f *fakeHandmapRepo) PendingHandmapped(context.Context) ([]domain.HandmappedTrack, error) {
	var out []domain.HandmappedTrack
	for _, h := range f.rows {
		if !h.Processed {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHandmapRepo) MarkHandmappedProcessed(_ context.Context, id int64) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Processed = true
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeFetcher struct {
	tracks map[string]domain.CatalogTrack
}

func (f *fakeFetcher) GetTrack(_ context.Context, id string) (domain.CatalogTrack, error) {
	t, ok := f.tracks[id]
	if !ok {
		return domain.CatalogTrack{}, domain.ErrNotFound
	}
	return t, nil
}

type fakeFeed struct {
	result    ports.FeedResult
	err       error
	seenETags []string
}

func (f *fakeFeed) Fetch(_ context.Context, etag string) (ports.FeedResult, error) {
	f.seenETags = append(f.seenETags, etag)
	return f.result, f.err
}

func (f *fakeFeed) Source() string { return "test" }

type fakePlaylistStore struct {
	plays     []domain.StationPlay
	settings  map[string]string
	conflicts map[int64]bool
}

var _ ports.PlaylistStore = (*fakePlaylistStore)(nil)

func newFakePlaylistStore() *fakePlaylistStore {
	return &fakePlaylistStore{settings: map[string]string{}, conflicts: map[int64]bool{}}
}

func (f *fakePlaylistStore) LatestPlayTime(context.Context) (time.Time, bool, error) {
	if len(f.plays) == 0 {
		return time.Time{}, false, nil
	}
	sorted := append([]domain.StationPlay(nil), f.plays...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PlayedAt.After(sorted[j].PlayedAt) })
	return sorted[0].PlayedAt, true, nil
}

func (f *fakePlaylistStore) SavePlay(_ context.Context, play domain.StationPlay) error {
	if f.conflicts[play.ExternalSongID] {
		return domain.ErrIntegrityConflict
	}
	f.plays = append(f.plays, play)
	return nil
}

func (f *fakePlaylistStore) GetSetting(_ context.Context, key string) (string, error) {
	v, ok := f.settings[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (f *fakePlaylistStore) PutSetting(_ context.Context, key, value string) error {
	f.settings[key] = value
	return nil
}
