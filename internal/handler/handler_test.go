package handler

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"

	"github.com/taskboard-dev/taskboard/internal/domain"
	mw "github.com/taskboard-dev/taskboard/internal/middleware"
	"github.com/taskboard-dev/taskboard/internal/service"
)

type mockAuthService struct {
	loginFunc   func(email, password string) (service.TokenPair, error)
	refreshFunc func(refreshToken string) (service.TokenPair, error)
}

func (m *mockAuthService) Login(email, password string) (service.TokenPair, error) {
	if m.loginFunc != nil {
		return m.loginFunc(email, password)
	}
	return service.TokenPair{}, nil
}

func (m *mockAuthService) Refresh(refreshToken string) (service.TokenPair, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(refreshToken)
	}
	return service.TokenPair{}, nil
}

type mockBoardService struct {
	getFunc func(id domain.BoardId) (domain.Board, error)
	forFunc func(userId domain.UserId) ([]domain.Board, error)
}

func (m *mockBoardService) Get(id domain.BoardId) (domain.Board, error) {
	if m.getFunc != nil {
		return m.getFunc(id)
	}
	return domain.Board{}, nil
}

func (m *mockBoardService) For(userId domain.UserId) ([]domain.Board, error) {
	if m.forFunc != nil {
		return m.forFunc(userId)
	}
	return nil, nil
}

type mockCollabService struct {
	sendInvitationFunc     func(boardId domain.BoardId, inviter domain.Claims, inviteeId domain.UserId, accessRight domain.AccessRight) (domain.Invitation, error)
	acceptInvitationFunc   func(boardId domain.BoardId, invitationId string, invitee domain.Claims) (domain.Collaborator, error)
	declineInvitationFunc  func(boardId domain.BoardId, invitationId string, invitee domain.Claims) error
	pendingInvitationsFunc func(boardId domain.BoardId, caller domain.Claims) ([]domain.Invitation, error)
	addCollaboratorFunc    func(boardId domain.BoardId, owner domain.Claims, email string, accessRight domain.AccessRight) (domain.Collaborator, error)
	collaboratorsFunc      func(boardId domain.BoardId, caller domain.Claims) ([]domain.Collaborator, error)
}

func (m *mockCollabService) SendInvitation(boardId domain.BoardId, inviter domain.Claims, inviteeId domain.UserId, accessRight domain.AccessRight) (domain.Invitation, error) {
	if m.sendInvitationFunc != nil {
		return m.sendInvitationFunc(boardId, inviter, inviteeId, accessRight)
	}
	return domain.Invitation{}, nil
}

func (m *mockCollabService) AcceptInvitation(boardId domain.BoardId, invitationId string, invitee domain.Claims) (domain.Collaborator, error) {
	if m.acceptInvitationFunc != nil {
		return m.acceptInvitationFunc(boardId, invitationId, invitee)
	}
	return domain.Collaborator{}, nil
}

func (m *mockCollabService) DeclineInvitation(boardId domain.BoardId, invitationId string, invitee domain.Claims) error {
	if m.declineInvitationFunc != nil {
		return m.declineInvitationFunc(boardId, invitationId, invitee)
	}
	return nil
}

func (m *mockCollabService) PendingInvitations(boardId domain.BoardId, caller domain.Claims) ([]domain.Invitation, error) {
	if m.pendingInvitationsFunc != nil {
		return m.pendingInvitationsFunc(boardId, caller)
	}
	return nil, nil
}

func (m *mockCollabService) AddCollaborator(boardId domain.BoardId, owner domain.Claims, email string, accessRight domain.AccessRight) (domain.Collaborator, error) {
	if m.addCollaboratorFunc != nil {
		return m.addCollaboratorFunc(boardId, owner, email, accessRight)
	}
	return domain.Collaborator{}, nil
}

func (m *mockCollabService) Collaborators(boardId domain.BoardId, caller domain.Claims) ([]domain.Collaborator, error) {
	if m.collaboratorsFunc != nil {
		return m.collaboratorsFunc(boardId, caller)
	}
	return nil, nil
}

type mockHealthChecker struct {
	pingFunc func(ctx context.Context) error
}

func (m *mockHealthChecker) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

// testRouter mounts the handler on the real route table so URL params
// resolve the same way they do in production.
func testRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/v1/auth/login", h.Login)
	r.Post("/v1/auth/refresh", h.Refresh)
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Get("/v1/boards", h.GetBoards)
	r.Get("/v1/boards/{board}", h.GetBoard)
	r.Get("/v1/boards/{board}/invitations", h.GetInvitations)
	r.Post("/v1/boards/{board}/invitations", h.SendInvitation)
	r.Put("/v1/boards/{board}/invitations/{invitation}", h.AcceptInvitation)
	r.Delete("/v1/boards/{board}/invitations/{invitation}", h.DeclineInvitation)
	r.Get("/v1/boards/{board}/collaborators", h.GetCollaborators)
	r.Post("/v1/boards/{board}/collaborators", h.AddCollaborator)
	return r
}

func asUser(req *http.Request, userId domain.UserId) *http.Request {
	claims := &domain.Claims{Subject: userId, Name: "Test User", Email: "test@x.com", Role: domain.RoleStudent}
	return req.WithContext(context.WithValue(req.Context(), mw.ClaimsKey, claims))
}

func serve(router chi.Router, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}
