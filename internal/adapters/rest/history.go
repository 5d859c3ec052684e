package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	errCodeInvalidMarket = "INVALID_MARKET"
	errCodeInvalidWindow = "INVALID_WINDOW"
	errCodeInvalidOrder  = "INVALID_ORDER"
)

type historyResponse struct {
	Market    string                `json:"market"`
	StartTime time.Time             `json:"start_time"`
	EndTime   time.Time             `json:"end_time"`
	Plays     []domain.HistoryEntry `json:"plays"`
}

type unmatchedResponse struct {
	Market string                 `json:"market"`
	Order  domain.UnmatchedOrder  `json:"order"`
	Songs  []domain.UnmatchedSong `json:"songs"`
}

// GetHistory handles GET /api/v1/history/{market}?start_time=&end_time=
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	market, ok := parseMarket(chi.URLParam(r, "market"))
	if !ok {
		writeErrorWithCode(w, http.StatusBadRequest, "market must be a two-letter country code", errCodeInvalidMarket)
		return
	}

	start, end, err := h.parseWindow(r)
	if err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidWindow)
		return
	}

	plays, err := h.history.PlayHistory(r.Context(), market, start, end)
	if err != nil {
		log.Error().Err(err).Str("market", market).Msg("rest: failed to load play history")
		writeError(w, http.StatusInternalServerError, "failed to load play history")
		return
	}
	if plays == nil {
		plays = []domain.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Market: market, StartTime: start, EndTime: end, Plays: plays})
}

// GetUnmatched handles GET /api/v1/unmatched/{market}?order=artist|played|id
func (h *Handler) GetUnmatched(w http.ResponseWriter, r *http.Request) {
	market, ok := parseMarket(chi.URLParam(r, "market"))
	if !ok {
		writeErrorWithCode(w, http.StatusBadRequest, "market must be a two-letter country code", errCodeInvalidMarket)
		return
	}

	order := domain.UnmatchedOrder(r.URL.Query().Get("order"))
	if order == "" {
		order = domain.OrderByArtist
	}

	songs, err := h.history.UnmatchedSongs(r.Context(), market, order)
	if errors.Is(err, domain.ErrInvalidArgument) {
		writeErrorWithCode(w, http.StatusBadRequest, "order must be one of artist, played, id", errCodeInvalidOrder)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("market", market).Msg("rest: failed to load unmatched songs")
		writeError(w, http.StatusInternalServerError, "failed to load unmatched songs")
		return
	}
	if songs == nil {
		songs = []domain.UnmatchedSong{}
	}
	writeJSON(w, http.StatusOK, unmatchedResponse{Market: market, Order: order, Songs: songs})
}

func parseMarket(raw string) (string, bool) {
	market := strings.ToUpper(strings.TrimSpace(raw))
	if len(market) != 2 {
		return "", false
	}
	for _, c := range market {
		if c < 'A' || c > 'Z' {
			return "", false
		}
	}
	return market, true
}

// parseWindow reads start_time and end_time as RFC3339. end defaults to now
// and start to end minus the default window.
func (h *Handler) parseWindow(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()

	end := h.clock.Now().UTC()
	if raw := q.Get("end_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end_time must be RFC3339: %w", err)
		}
		end = t.UTC()
	}

	start := end.Add(-h.defaultWindow)
	if raw := q.Get("start_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("start_time must be RFC3339: %w", err)
		}
		start = t.UTC()
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, errors.New("start_time must be before end_time")
	}
	if end.Sub(start) > maxHistoryWindow {
		return time.Time{}, time.Time{}, fmt.Errorf("window must not exceed %s", maxHistoryWindow)
	}
	return start, end, nil
}
