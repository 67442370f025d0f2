package service

import (
	"github.com/google/uuid"

	"github.com/taskboard-dev/taskboard/internal/domain"
	"github.com/taskboard-dev/taskboard/internal/errors"
	"github.com/taskboard-dev/taskboard/internal/logger"
)

type CollabService interface {
	SendInvitation(boardId domain.BoardId, inviter domain.Claims, inviteeId domain.UserId, accessRight domain.AccessRight) (domain.Invitation, error)
	AcceptInvitation(boardId domain.BoardId, invitationId string, invitee domain.Claims) (domain.Collaborator, error)
	DeclineInvitation(boardId domain.BoardId, invitationId string, invitee domain.Claims) error
	PendingInvitations(boardId domain.BoardId, caller domain.Claims) ([]domain.Invitation, error)
	AddCollaborator(boardId domain.BoardId, owner domain.Claims, email string, accessRight domain.AccessRight) (domain.Collaborator, error)
	Collaborators(boardId domain.BoardId, caller domain.Claims) ([]domain.Collaborator, error)
}

// CollabStorage is the persistence capability the lifecycle needs. Every
// mutation runs inside a single storage transaction.
type CollabStorage interface {
	Board(id domain.BoardId) (domain.Board, error)
	Invitation(id string) (domain.Invitation, error)
	CreateInvitation(inv domain.Invitation) error
	AcceptInvitation(invitationId string, shadow domain.CachedUser, collaborator domain.Collaborator) error
	DeleteInvitation(id string) error
	PendingInvitations(boardId domain.BoardId, inviteeId domain.UserId) ([]domain.Invitation, error)
	HasCollaborator(boardId domain.BoardId, userId domain.UserId) (bool, error)
	Collaborators(boardId domain.BoardId) ([]domain.Collaborator, error)
	CreateCollaborator(shadow domain.CachedUser, collaborator domain.Collaborator) error
}

type Collab struct {
	storage CollabStorage
	users   CredentialStore
}

func NewCollab(storage CollabStorage, users CredentialStore) *Collab {
	return &Collab{storage: storage, users: users}
}

// SendInvitation creates a PENDING invitation from the board owner to
// inviteeId. Duplicate invites and already-collaborating invitees are
// rejected with Conflict.
func (c *Collab) SendInvitation(boardId domain.BoardId, inviter domain.Claims, inviteeId domain.UserId, accessRight domain.AccessRight) (domain.Invitation, error) {
	board, err := c.storage.Board(boardId)
	if err != nil {
		return domain.Invitation{}, err
	}
	if !board.OwnedBy(inviter.Subject) {
		return domain.Invitation{}, errors.Forbidden("Only the board owner can send invitations")
	}
	if !accessRight.Valid() {
		return domain.Invitation{}, errors.BadRequest("Access right must be READ or WRITE")
	}
	if inviteeId == board.OwnerId {
		return domain.Invitation{}, errors.Conflict("Board owner cannot be invited as collaborator")
	}

	if _, err := c.users.UserById(inviteeId); err != nil {
		return domain.Invitation{}, err
	}

	inv := domain.Invitation{
		Id:          uuid.NewString(),
		BoardId:     board.Id,
		InviterId:   inviter.Subject,
		InviteeId:   inviteeId,
		AccessRight: accessRight,
		Status:      domain.InvitationPending,
	}
	if err := c.storage.CreateInvitation(inv); err != nil {
		return domain.Invitation{}, err
	}

	logger.Log.Info("invitation sent", "board_id", board.Id, "invitee_id", inviteeId)
	return inv, nil
}

// AcceptInvitation turns a PENDING invitation addressed to the caller into
// a collaborator row. Both writes happen in one storage transaction.
func (c *Collab) AcceptInvitation(boardId domain.BoardId, invitationId string, invitee domain.Claims) (domain.Collaborator, error) {
	inv, err := c.invitationForCaller(boardId, invitationId, invitee)
	if err != nil {
		return domain.Collaborator{}, err
	}

	user, err := c.users.UserById(inv.InviteeId)
	if err != nil {
		return domain.Collaborator{}, err
	}

	collaborator := domain.Collaborator{
		Id:          uuid.NewString(),
		BoardId:     inv.BoardId,
		UserId:      user.Id,
		Name:        user.Name,
		Email:       user.Email,
		AccessRight: inv.AccessRight,
		Status:      domain.InvitationAccepted,
	}
	shadow := domain.CachedUser{Id: user.Id, Name: user.Name, Username: user.Username, Email: user.Email}

	if err := c.storage.AcceptInvitation(inv.Id, shadow, collaborator); err != nil {
		return domain.Collaborator{}, err
	}

	logger.Log.Info("invitation accepted", "board_id", inv.BoardId, "user_id", user.Id)
	return collaborator, nil
}

// DeclineInvitation deletes the invitation. Terminal: a declined invite can
// only be replaced by a new one.
func (c *Collab) DeclineInvitation(boardId domain.BoardId, invitationId string, invitee domain.Claims) error {
	inv, err := c.invitationForCaller(boardId, invitationId, invitee)
	if err != nil {
		return err
	}
	if err := c.storage.DeleteInvitation(inv.Id); err != nil {
		return err
	}
	logger.Log.Info("invitation declined", "board_id", inv.BoardId, "invitee_id", inv.InviteeId)
	return nil
}

// PendingInvitations returns only the caller's own pending invitations on
// the board — never another user's, even for the board owner.
func (c *Collab) PendingInvitations(boardId domain.BoardId, caller domain.Claims) ([]domain.Invitation, error) {
	if _, err := c.storage.Board(boardId); err != nil {
		return nil, err
	}
	return c.storage.PendingInvitations(boardId, caller.Subject)
}

// AddCollaborator is the direct-add path: the owner grants access to an
// existing user by email, skipping the invitation round trip.
func (c *Collab) AddCollaborator(boardId domain.BoardId, owner domain.Claims, email string, accessRight domain.AccessRight) (domain.Collaborator, error) {
	board, err := c.storage.Board(boardId)
	if err != nil {
		return domain.Collaborator{}, err
	}
	if !board.OwnedBy(owner.Subject) {
		return domain.Collaborator{}, errors.Forbidden("Only the board owner can add collaborators")
	}
	if !accessRight.Valid() {
		return domain.Collaborator{}, errors.BadRequest("Access right must be READ or WRITE")
	}

	user, err := c.users.User(email)
	if err != nil {
		return domain.Collaborator{}, err
	}
	if user.Id == board.OwnerId {
		return domain.Collaborator{}, errors.Conflict("Board owner cannot be added as collaborator")
	}

	isCollaborator, err := c.storage.HasCollaborator(board.Id, user.Id)
	if err != nil {
		return domain.Collaborator{}, err
	}
	if isCollaborator {
		return domain.Collaborator{}, errors.Conflict("User is already a collaborator on this board")
	}

	collaborator := domain.Collaborator{
		Id:          uuid.NewString(),
		BoardId:     board.Id,
		UserId:      user.Id,
		Name:        user.Name,
		Email:       user.Email,
		AccessRight: accessRight,
		Status:      domain.InvitationAccepted,
	}
	shadow := domain.CachedUser{Id: user.Id, Name: user.Name, Username: user.Username, Email: user.Email}

	if err := c.storage.CreateCollaborator(shadow, collaborator); err != nil {
		return domain.Collaborator{}, err
	}

	logger.Log.Info("collaborator added", "board_id", board.Id, "user_id", user.Id)
	return collaborator, nil
}

// Collaborators lists the board's collaborators for the owner or an
// existing collaborator.
func (c *Collab) Collaborators(boardId domain.BoardId, caller domain.Claims) ([]domain.Collaborator, error) {
	board, err := c.storage.Board(boardId)
	if err != nil {
		return nil, err
	}
	if !board.OwnedBy(caller.Subject) {
		isCollaborator, err := c.storage.HasCollaborator(board.Id, caller.Subject)
		if err != nil {
			return nil, err
		}
		if !isCollaborator {
			return nil, errors.Forbidden("Only the board owner or collaborators can list collaborators")
		}
	}
	return c.storage.Collaborators(board.Id)
}

// invitationForCaller resolves an invitation and enforces that it belongs
// to the board in the path, is addressed to the caller, and is PENDING.
func (c *Collab) invitationForCaller(boardId domain.BoardId, invitationId string, caller domain.Claims) (domain.Invitation, error) {
	inv, err := c.storage.Invitation(invitationId)
	if err != nil {
		return domain.Invitation{}, err
	}
	// A mismatched board id looks identical to a missing invitation so
	// invitation ids can't be probed across boards.
	if inv.BoardId != boardId {
		return domain.Invitation{}, errors.NotFound("Invitation not found")
	}
	if inv.InviteeId != caller.Subject {
		return domain.Invitation{}, errors.Forbidden("Invitation belongs to another user")
	}
	if inv.Status != domain.InvitationPending {
		return domain.Invitation{}, errors.Forbidden("Invitation is not pending")
	}
	return inv, nil
}
