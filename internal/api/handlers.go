package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/bbref-scraper/internal/document"
	"github.com/JakeFAU/bbref-scraper/internal/fetch"
	"github.com/JakeFAU/bbref-scraper/internal/scraper"
)

func (s *Server) getPlayer(w http.ResponseWriter, r *http.Request) {
	p, err := s.source.PlayerByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"player": p})
}

func (s *Server) getGameLogs(w http.ResponseWriter, r *http.Request) {
	season, err := parseYear(chi.URLParam(r, "season"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind, err := scraper.ParseSeasonKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	logs, err := s.source.PlayerGameLogs(r.Context(), chi.URLParam(r, "id"), season, kind)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if logs == nil {
		logs = []*scraper.GameLog{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"season": season, "kind": kind, "game_logs": logs})
}

func (s *Server) getTeam(w http.ResponseWriter, r *http.Request) {
	team, err := s.source.TeamByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"team": team})
}

func (s *Server) getRoster(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	code := strings.ToUpper(chi.URLParam(r, "code"))
	roster, err := s.source.TeamRoster(r.Context(), code, year)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if roster == nil {
		roster = []scraper.PlayerShell{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"team": code, "year": year, "roster": roster})
}

func (s *Server) getDraft(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	class, err := s.source.Draft(r.Context(), year)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": year, "picks": class})
}

func (s *Server) getBoxScore(w http.ResponseWriter, r *http.Request) {
	game, err := s.source.BoxScore(r.Context(), chi.URLParam(r, "game_id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"game": game})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	kind, err := scraper.ParseSearchKind(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	results, err := s.source.Search(r.Context(), q, kind)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": q, "type": kind, "results": results})
}

// fail maps a scraper error to a status and logs the ones that are not the
// caller's fault.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	var remote *fetch.RemoteError
	switch {
	case errors.Is(err, fetch.ErrNotFound), errors.Is(err, scraper.ErrNoSearchResult):
		return http.StatusNotFound
	case errors.Is(err, scraper.ErrMissingIdentity),
		errors.Is(err, document.ErrInvalidArgument),
		errors.Is(err, fetch.ErrInvalidLocator):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &remote):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func parseYear(raw string) (int, error) {
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1800 || year > 9999 {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	return year, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
