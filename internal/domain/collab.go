package domain

import "time"

type AccessRight string

const (
	AccessRead  AccessRight = "READ"
	AccessWrite AccessRight = "WRITE"
)

// Valid reports whether the value is one of the defined grant levels.
func (a AccessRight) Valid() bool {
	return a == AccessRead || a == AccessWrite
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
)

// Invitation is a pending offer of collaboration. It is deleted on decline
// and marked ACCEPTED (superseded by a Collaborator row) on accept.
// At most one PENDING invitation per (board, invitee).
type Invitation struct {
	Id          string
	BoardId     BoardId
	InviterId   UserId
	InviteeId   UserId
	AccessRight AccessRight
	Status      InvitationStatus
	CreatedAt   time.Time
}

// Collaborator is a realized grant of board access to a non-owner user.
// At most one row per (board, user); the board owner is never a collaborator.
type Collaborator struct {
	Id          string
	BoardId     BoardId
	UserId      UserId
	Name        string
	Email       string
	AccessRight AccessRight
	Status      InvitationStatus
	AddedAt     time.Time
}
