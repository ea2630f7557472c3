package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/bbref-scraper/internal/lazy"
	"github.com/JakeFAU/bbref-scraper/internal/metrics"
	"github.com/JakeFAU/bbref-scraper/internal/scraper"
)

// DefaultTimeout bounds a single API request, fetches included.
const DefaultTimeout = 60 * time.Second

// Source is the slice of the scraper the API reads from. *scraper.Client
// satisfies it.
type Source interface {
	PlayerByID(ctx context.Context, id string) (*scraper.Player, error)
	PlayerGameLogs(ctx context.Context, playerID string, season int, kind scraper.SeasonKind) ([]*scraper.GameLog, error)
	TeamByCode(ctx context.Context, code string) (*scraper.Team, error)
	TeamRoster(ctx context.Context, code string, year int) ([]scraper.PlayerShell, error)
	Draft(ctx context.Context, year int) (*lazy.Seq[*scraper.PlayerInDraft], error)
	BoxScore(ctx context.Context, gameID string) (*scraper.Game, error)
	Search(ctx context.Context, query string, kind scraper.SearchKind) ([]scraper.SearchResult, error)
}

// Server wires HTTP handlers to a Source.
type Server struct {
	router chi.Router
	source Source
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes. A timeout of
// zero uses DefaultTimeout.
func NewServer(source Source, logger *zap.Logger, timeout time.Duration) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	metrics.Init()

	s := &Server{source: source, logger: logger}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)
	r.Use(timeoutMiddleware(timeout))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/players/{id}", func(r chi.Router) {
			r.Get("/", s.getPlayer)
			r.Get("/gamelogs/{season}", s.getGameLogs)
		})
		r.Route("/teams/{code}", func(r chi.Router) {
			r.Get("/", s.getTeam)
			r.Get("/rosters/{year}", s.getRoster)
		})
		r.Get("/drafts/{year}", s.getDraft)
		r.Get("/boxscores/{game_id}", s.getBoxScore)
		r.Get("/search", s.search)
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	if s.source == nil {
		writeError(w, http.StatusServiceUnavailable, "scraper unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
