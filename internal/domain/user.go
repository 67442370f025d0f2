package domain

import "time"

type UserId = string

type Role string

const (
	RoleLecturer Role = "LECTURER"
	RoleStaff    Role = "STAFF"
	RoleStudent  Role = "STUDENT"
)

// User is a durable identity record. Identities are provisioned out-of-band
// (external identity source); the id is opaque and immutable.
type User struct {
	Id       UserId
	Name     string
	Username string
	Email    string
	PassHash string
	Role     Role
}

// CachedUser is a local shadow of a User, created lazily the first time the
// user is referenced by the collaboration lifecycle. At most one row per id.
type CachedUser struct {
	Id        UserId
	Name      string
	Username  string
	Email     string
	CreatedAt time.Time
}

// Claims is the verified principal derived from a bearer token.
// Lifetime is a single request; never persisted.
type Claims struct {
	Subject   UserId
	Name      string
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
