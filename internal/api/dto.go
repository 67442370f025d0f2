// Package api holds the request/response shapes of the HTTP surface.
package api

import (
	"time"

	"github.com/taskboard-dev/taskboard/internal/domain"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type SendInvitationRequest struct {
	InviteeId   string `json:"invitee_id" validate:"required"`
	AccessRight string `json:"access_right" validate:"required"`
}

type AddCollaboratorRequest struct {
	Email       string `json:"email" validate:"required,email"`
	AccessRight string `json:"access_right" validate:"required"`
}

type InvitationResponse struct {
	Id          string    `json:"id"`
	BoardId     string    `json:"board_id"`
	InviterId   string    `json:"inviter_id"`
	InviteeId   string    `json:"invitee_id"`
	AccessRight string    `json:"access_right"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type InvitationListResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
}

type CollaboratorResponse struct {
	Id          string    `json:"id"`
	BoardId     string    `json:"board_id"`
	UserId      string    `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	AccessRight string    `json:"access_right"`
	AddedAt     time.Time `json:"added_at"`
}

type CollaboratorListResponse struct {
	Collaborators []CollaboratorResponse `json:"collaborators"`
}

type BoardResponse struct {
	Id         string    `json:"id"`
	OwnerId    string    `json:"owner_id"`
	Title      string    `json:"title"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
}

type BoardListResponse struct {
	Boards []BoardResponse `json:"boards"`
}

func FromInvitation(inv domain.Invitation) InvitationResponse {
	return InvitationResponse{
		Id:          inv.Id,
		BoardId:     inv.BoardId,
		InviterId:   inv.InviterId,
		InviteeId:   inv.InviteeId,
		AccessRight: string(inv.AccessRight),
		Status:      string(inv.Status),
		CreatedAt:   inv.CreatedAt,
	}
}

func FromCollaborator(c domain.Collaborator) CollaboratorResponse {
	return CollaboratorResponse{
		Id:          c.Id,
		BoardId:     c.BoardId,
		UserId:      c.UserId,
		Name:        c.Name,
		Email:       c.Email,
		AccessRight: string(c.AccessRight),
		AddedAt:     c.AddedAt,
	}
}

func FromBoard(b domain.Board) BoardResponse {
	return BoardResponse{
		Id:         b.Id,
		OwnerId:    b.OwnerId,
		Title:      b.Title,
		Visibility: string(b.Visibility),
		CreatedAt:  b.CreatedAt,
	}
}
