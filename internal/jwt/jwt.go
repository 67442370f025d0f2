package jwt

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskboard-dev/taskboard/internal/domain"
	"github.com/taskboard-dev/taskboard/internal/logger"
)

// ErrorKind distinguishes the ways a presented token can be rejected.
// All kinds map to 401 at the HTTP layer; the message per kind is a
// diagnostic contract, not a status-code contract.
type ErrorKind int

const (
	KindMalformed ErrorKind = iota
	KindExpired
	KindTampered
	KindMissingSubject
	KindSubjectMismatch
)

type TokenError struct {
	Kind ErrorKind
}

func (e *TokenError) Error() string {
	switch e.Kind {
	case KindExpired:
		return "Token expired"
	case KindTampered:
		return "Invalid token signature"
	case KindMissingSubject:
		return "Token has no subject"
	case KindSubjectMismatch:
		return "Token subject mismatch"
	default:
		return "Token is malformed"
	}
}

// claims is the wire shape of an access token. Refresh tokens carry the
// reduced set {iss, oid, iat, exp}.
type claims struct {
	Name  string `json:"name,omitempty"`
	Oid   string `json:"oid"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Service issues and validates HS256 bearer tokens. Key material and TTLs
// are injected at construction so tests can run with distinct keys.
type Service struct {
	key        []byte
	issuer     string
	ttl        time.Duration
	refreshTTL time.Duration
}

func New(key, issuer string, ttl, refreshTTL time.Duration) *Service {
	return &Service{key: []byte(key), issuer: issuer, ttl: ttl, refreshTTL: refreshTTL}
}

// NewToken issues an access token for the user with exp = issuedAt + ttl.
// Pure function of its inputs plus key material.
func (s *Service) NewToken(user domain.User, issuedAt time.Time) (string, error) {
	return s.sign(claims{
		Name:  user.Name,
		Oid:   user.Id,
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	})
}

// NewRefreshToken issues a long-lived token carrying only the subject.
func (s *Service) NewRefreshToken(user domain.User, issuedAt time.Time) (string, error) {
	return s.sign(claims{
		Oid: user.Id,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.refreshTTL)),
		},
	})
}

func (s *Service) sign(c claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tokenString, err := token.SignedString(s.key)
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", errors.New("Can't create token")
	}
	return tokenString, nil
}

// Decode parses and verifies a token, failing closed on any structural or
// cryptographic defect. On failure the error is always a *TokenError.
func (s *Service) Decode(tokenStr string) (*domain.Claims, error) {
	// Structural check before any cryptographic work: a token must have
	// exactly three dot-separated segments.
	if strings.Count(tokenStr, ".") != 2 {
		return nil, &TokenError{Kind: KindMalformed}
	}

	var parsed claims
	_, err := jwt.ParseWithClaims(tokenStr, &parsed, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, mapParseError(err)
	}

	if parsed.Oid == "" {
		return nil, &TokenError{Kind: KindMissingSubject}
	}

	out := &domain.Claims{
		Subject: parsed.Oid,
		Name:    parsed.Name,
		Email:   parsed.Email,
		Role:    domain.Role(parsed.Role),
	}
	if parsed.IssuedAt != nil {
		out.IssuedAt = parsed.IssuedAt.Time
	}
	if parsed.ExpiresAt != nil {
		out.ExpiresAt = parsed.ExpiresAt.Time
	}
	return out, nil
}

// Validate decodes the token and, when expectedSubject is non-empty, checks
// the oid claim against it.
func (s *Service) Validate(tokenStr string, expectedSubject domain.UserId) (*domain.Claims, error) {
	decoded, err := s.Decode(tokenStr)
	if err != nil {
		return nil, err
	}
	if expectedSubject != "" && decoded.Subject != expectedSubject {
		return nil, &TokenError{Kind: KindSubjectMismatch}
	}
	return decoded, nil
}

// mapParseError translates golang-jwt errors into the typed taxonomy so
// callers can branch on the variant instead of library error classes.
func mapParseError(err error) *TokenError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return &TokenError{Kind: KindExpired}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return &TokenError{Kind: KindTampered}
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return &TokenError{Kind: KindTampered}
	default:
		return &TokenError{Kind: KindMalformed}
	}
}
