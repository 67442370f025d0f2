package domain

import "time"

type BoardId = string

type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// Board as consumed by access control: this service only reads OwnerId and
// Visibility, the rest is carried for display.
type Board struct {
	Id         BoardId
	OwnerId    UserId
	Title      string
	Visibility Visibility
	CreatedAt  time.Time
}

// OwnedBy is the single authorization primitive guarding every mutating
// collaboration operation.
func (b *Board) OwnedBy(userId UserId) bool {
	return b.OwnerId == userId
}
