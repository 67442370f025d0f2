package service

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard-dev/taskboard/internal/domain"
	"github.com/taskboard-dev/taskboard/internal/errors"
	"github.com/taskboard-dev/taskboard/internal/logger"
)

type AuthService interface {
	Login(email, password string) (TokenPair, error)
	Refresh(refreshToken string) (TokenPair, error)
}

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // access token lifetime in seconds
}

// CredentialStore resolves identities for authentication.
type CredentialStore interface {
	User(email string) (domain.User, error)
	UserById(id domain.UserId) (domain.User, error)
}

type Jwt interface {
	NewToken(user domain.User, issuedAt time.Time) (string, error)
	NewRefreshToken(user domain.User, issuedAt time.Time) (string, error)
	Decode(token string) (*domain.Claims, error)
}

type Auth struct {
	users CredentialStore
	jwt   Jwt
	ttl   time.Duration
}

func NewAuth(users CredentialStore, jwt Jwt, ttl time.Duration) *Auth {
	return &Auth{users: users, jwt: jwt, ttl: ttl}
}

// Login verifies the credentials and returns a fresh token pair.
// Lookup failures and password mismatches produce the same response so
// existing emails can't be probed.
func (a *Auth) Login(email, password string) (TokenPair, error) {
	user, err := a.users.User(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return TokenPair{}, errors.Unauthorized("Invalid credentials")
		}
		return TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		logger.Log.Debug("password verification failed", "error", err)
		return TokenPair{}, errors.Unauthorized("Invalid credentials")
	}

	return a.issuePair(user)
}

// Refresh exchanges a valid refresh token for a new pair.
func (a *Auth) Refresh(refreshToken string) (TokenPair, error) {
	claims, err := a.jwt.Decode(refreshToken)
	if err != nil {
		return TokenPair{}, errors.Unauthorized(err.Error())
	}

	user, err := a.users.UserById(claims.Subject)
	if err != nil {
		if errors.IsNotFound(err) {
			return TokenPair{}, errors.Unauthorized("Unknown token subject")
		}
		return TokenPair{}, err
	}

	return a.issuePair(user)
}

func (a *Auth) issuePair(user domain.User) (TokenPair, error) {
	now := time.Now()

	accessToken, err := a.jwt.NewToken(user, now)
	if err != nil {
		logger.Log.Error("failed to create access token", "user_id", user.Id, "error", err)
		return TokenPair{}, err
	}
	refreshToken, err := a.jwt.NewRefreshToken(user, now)
	if err != nil {
		logger.Log.Error("failed to create refresh token", "user_id", user.Id, "error", err)
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(a.ttl.Seconds()),
	}, nil
}
