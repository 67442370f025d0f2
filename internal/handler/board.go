package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskboard-dev/taskboard/internal/api"
	"github.com/taskboard-dev/taskboard/internal/domain"
	mw "github.com/taskboard-dev/taskboard/internal/middleware"
	"github.com/taskboard-dev/taskboard/internal/utils"
)

// GetBoard handles GET /v1/boards/{board}. The gate has already resolved
// visibility, so by the time we are here the caller may see the board.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	boardId := domain.BoardId(chi.URLParam(r, "board"))

	board, err := h.board.Get(boardId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.FromBoard(board))
}

// GetBoards handles GET /v1/boards: the boards the caller owns or
// collaborates on.
func (h *Handler) GetBoards(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaimsFromContext(r)
	if claims == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	boards, err := h.board.For(claims.Subject)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	out := make([]api.BoardResponse, len(boards))
	for i, b := range boards {
		out[i] = api.FromBoard(b)
	}
	writeJSON(w, api.BoardListResponse{Boards: out})
}
