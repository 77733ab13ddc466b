package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/spoilerfree/gei/internal/adapters/repository"
	"github.com/spoilerfree/gei/internal/domain/model"
)

// ResultDependencies defines the interface for score result reads.
type ResultDependencies interface {
	Result(ctx context.Context, gameID string) (model.ScoreResult, error)
}

// ResultHandler handles full score result requests.
type ResultHandler struct {
	deps ResultDependencies
}

// NewResultHandler creates a new result handler.
func NewResultHandler(deps ResultDependencies) *ResultHandler {
	return &ResultHandler{deps: deps}
}

// HandleGetResult handles GET /games/{game_id} requests. Unlike the
// rankings listing, this response includes the full breakdown and is not
// spoiler-free; the caller opted in by asking for one specific game.
func (h *ResultHandler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_result"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	gameID := strings.TrimPrefix(r.URL.Path, "/games/")
	if gameID == "" || strings.Contains(gameID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	result, err := h.deps.Result(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
