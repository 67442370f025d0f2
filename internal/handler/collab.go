package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskboard-dev/taskboard/internal/api"
	"github.com/taskboard-dev/taskboard/internal/domain"
	mw "github.com/taskboard-dev/taskboard/internal/middleware"
	"github.com/taskboard-dev/taskboard/internal/utils"
)

// SendInvitation handles POST /v1/boards/{board}/invitations.
func (h *Handler) SendInvitation(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaimsFromContext(r)
	if claims == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	var body api.SendInvitationRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	boardId := domain.BoardId(chi.URLParam(r, "board"))
	inv, err := h.collab.SendInvitation(boardId, *claims, domain.UserId(body.InviteeId), domain.AccessRight(body.AccessRight))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, api.FromInvitation(inv))
}

// AcceptInvitation handles PUT /v1/boards/{board}/invitations/{invitation}.
func (h *Handler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaimsFromContext(r)
	if claims == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	boardId := domain.BoardId(chi.URLParam(r, "board"))
	invitationId := chi.URLParam(r, "invitation")

	collaborator, err := h.collab.AcceptInvitation(boardId, invitationId, *claims)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.FromCollaborator(collaborator))
}

// DeclineInvitation handles DELETE /v1/boards/{board}/invitations/{invitation}.
func (h *Handler) DeclineInvitation(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaimsFromContext(r)
	if claims == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	boardId := domain.BoardId(chi.URLParam(r, "board"))
	invitationId := chi.URLParam(r, "invitation")

	if err := h.collab.DeclineInvitation(boardId, invitationId, *claims); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Invitation declined"))
}

// GetInvitations handles GET /v1/boards/{board}/invitations. It only ever
// returns the caller's own pending invitations.
func (h *Handler) GetInvitations(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaimsFromContext(r)
	if claims == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	boardId := domain.BoardId(chi.URLParam(r, "board"))
	invitations, err := h.collab.PendingInvitations(boardId, *claims)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	out := make([]api.InvitationResponse, len(invitations))
	for i, inv := range invitations {
		out[i] = api.FromInvitation(inv)
	}
	writeJSON(w, api.InvitationListResponse{Invitations: out})
}

// AddCollaborator handles POST /v1/boards/{board}/collaborators.
func (h *Handler) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaimsFromContext(r)
	if claims == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	var body api.AddCollaboratorRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	boardId := domain.BoardId(chi.URLParam(r, "board"))
	collaborator, err := h.collab.AddCollaborator(boardId, *claims, body.Email, domain.AccessRight(body.AccessRight))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, api.FromCollaborator(collaborator))
}

// GetCollaborators handles GET /v1/boards/{board}/collaborators.
func (h *Handler) GetCollaborators(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaimsFromContext(r)
	if claims == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	boardId := domain.BoardId(chi.URLParam(r, "board"))
	collaborators, err := h.collab.Collaborators(boardId, *claims)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	out := make([]api.CollaboratorResponse, len(collaborators))
	for i, c := range collaborators {
		out[i] = api.FromCollaborator(c)
	}
	writeJSON(w, api.CollaboratorListResponse{Collaborators: out})
}
