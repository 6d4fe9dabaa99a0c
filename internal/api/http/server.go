package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arena-bridge/arena-bridge/internal/application/leaderboard"
	"github.com/arena-bridge/arena-bridge/internal/application/orchestrator"
	"github.com/arena-bridge/arena-bridge/internal/domain/agent"
	"github.com/arena-bridge/arena-bridge/internal/domain/battle"
	"github.com/arena-bridge/arena-bridge/internal/domain/ledger"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	orch        *orchestrator.Orchestrator
	battles     battle.Repository
	stats       agent.StatsRepository
	leaderboard *leaderboard.Service
	ledger      ledger.Client
	registry    *prometheus.Registry
}

func NewServer(
	orch *orchestrator.Orchestrator,
	battles battle.Repository,
	stats agent.StatsRepository,
	lb *leaderboard.Service,
	lc ledger.Client,
	registry *prometheus.Registry,
) *Server {
	return &Server{
		orch:        orch,
		battles:     battles,
		stats:       stats,
		leaderboard: lb,
		ledger:      lc,
		registry:    registry,
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/arena", func(r chi.Router) {
			r.Post("/battles", s.createBattle)
			r.Post("/fight", s.executeFight)
			r.Post("/reset", s.reset)
			r.Get("/state", s.getState)
			r.Get("/battle-count", s.getBattleCount)
		})

		r.Route("/battles", func(r chi.Router) {
			r.Get("/", s.listBattles)
			r.Get("/{battleId}", s.getBattle)
			r.Get("/{battleId}/events", s.listBattleEvents)
		})

		r.Route("/agents", func(r chi.Router) {
			r.Get("/{agentId}/stats", s.getAgentStats)
		})

		r.Get("/leaderboard", s.getLeaderboard)
	})

	if s.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	return r
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func parseInt64Param(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}

func parseQueryInt64(v string) (int64, error) {
	return strconv.ParseInt(v, 10, 64)
}

func parseLimitOffset(r *http.Request, defaultLimit, maxLimit int) (int, int) {
	limit := defaultLimit
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil {
			offset = o
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
