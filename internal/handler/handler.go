package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/taskboard-dev/taskboard/internal/logger"
	"github.com/taskboard-dev/taskboard/internal/service"
)

// HealthChecker reports whether the storage backend is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth   service.AuthService
	board  service.BoardService
	collab service.CollabService
	health HealthChecker
}

func New(auth service.AuthService, board service.BoardService, collab service.CollabService, health HealthChecker) *Handler {
	return &Handler{auth: auth, board: board, collab: collab, health: health}
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
