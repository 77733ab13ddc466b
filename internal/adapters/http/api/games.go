package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/spoilerfree/gei/internal/domain/types"
)

// GameDependencies defines the interface for game submission.
type GameDependencies interface {
	Submit(ctx context.Context, game map[string]any, samples []map[string]any) (types.Receipt, bool)
}

// GamesHandler handles game submissions.
type GamesHandler struct {
	deps GameDependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps GameDependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

// HandlePostGame handles POST /games requests.
func (h *GamesHandler) HandlePostGame(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_game"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	receipt, ok := h.deps.Submit(r.Context(), req.Game, req.Samples)
	if !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	if receipt.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Receipt: receipt})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Receipt: receipt})
}
