// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/spoilerfree/gei/internal/domain/model"
	"github.com/spoilerfree/gei/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit adapts and enqueues a game for async scoring. The bool is
	// false on backpressure.
	Submit(ctx context.Context, game map[string]any, samples []map[string]any) (types.Receipt, bool)

	// Read operations expose ranking data.
	TopN(ctx context.Context, n int) ([]Entry, error)
	Result(ctx context.Context, gameID string) (model.ScoreResult, error)
}

// Entry mirrors the read shape returned by ranking queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	gamesHandler    *GamesHandler
	rankingsHandler *RankingsHandler
	resultHandler   *ResultHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRankingLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		gamesHandler:    NewGamesHandler(deps),
		rankingsHandler: NewRankingsHandler(deps, maxRankingLimit),
		resultHandler:   NewResultHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/games", MetricsMiddleware(s.gamesHandler.HandlePostGame, "games"))
	mux.HandleFunc("/games/", MetricsMiddleware(s.resultHandler.HandleGetResult, "game_result"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
}

// scoreRequest is the POST /games payload. The game object and each sample
// are deliberately loose maps; field resolution happens in the ingest
// stage so callers with differing feed schemas can submit as-is.
type scoreRequest struct {
	Game    map[string]any   `json:"game"`
	Samples []map[string]any `json:"samples"`
}

func (r scoreRequest) validate() error {
	if r.Game == nil {
		return NewKind("api.post_game", ErrBadRequest)
	}
	return nil
}

type ackResponse struct {
	Status  string        `json:"status"`
	Receipt types.Receipt `json:"receipt"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
