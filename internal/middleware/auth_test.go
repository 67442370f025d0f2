package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard-dev/taskboard/internal/domain"
	"github.com/taskboard-dev/taskboard/internal/errors"
	"github.com/taskboard-dev/taskboard/internal/jwt"
)

// mockBoardFinder mocks the BoardFinder interface.
type mockBoardFinder struct {
	boards map[domain.BoardId]domain.Board
}

func (m *mockBoardFinder) Board(id domain.BoardId) (domain.Board, error) {
	board, ok := m.boards[id]
	if !ok {
		return domain.Board{}, errors.NotFound("Board not found")
	}
	return board, nil
}

func testGate(t *testing.T) (*Gate, *jwt.Service) {
	t.Helper()
	jwtService := jwt.New("test_secret", "taskboard", time.Hour, 24*time.Hour)
	boards := &mockBoardFinder{boards: map[domain.BoardId]domain.Board{
		"pub1": {Id: "pub1", OwnerId: "O1", Visibility: domain.VisibilityPublic},
		"prv1": {Id: "prv1", OwnerId: "O1", Visibility: domain.VisibilityPrivate},
	}}
	return NewGate(jwtService, boards), jwtService
}

func TestGateDecision(t *testing.T) {
	gate, jwtService := testGate(t)

	user := domain.User{Id: "U1", Name: "User One", Email: "u@x.com", Role: domain.RoleStudent}
	token, err := jwtService.NewToken(user, time.Now())
	require.NoError(t, err)
	expiredToken, err := jwtService.NewToken(user, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	otherService := jwt.New("other_secret", "taskboard", time.Hour, 24*time.Hour)
	tamperedToken, err := otherService.NewToken(user, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name            string
		path            string
		authorization   string
		expectedStatus  int
		expectClaims    bool
		expectedSubject domain.UserId
		expectedBody    string
	}{
		{
			name:           "login endpoint is allow-listed",
			path:           "/v1/auth/login",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "health probe is allow-listed",
			path:           "/health",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "public board read without header passes anonymously",
			path:           "/v1/boards/pub1",
			expectedStatus: http.StatusOK,
			expectClaims:   false,
		},
		{
			name:            "public board with valid token attaches principal",
			path:            "/v1/boards/pub1/invitations",
			authorization:   "Bearer " + token,
			expectedStatus:  http.StatusOK,
			expectClaims:    true,
			expectedSubject: "U1",
		},
		{
			name:           "public board with garbage token still passes anonymously",
			path:           "/v1/boards/pub1",
			authorization:  "Bearer garbage",
			expectedStatus: http.StatusOK,
			expectClaims:   false,
		},
		{
			name:           "private board without header is unauthorized",
			path:           "/v1/boards/prv1",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Missing bearer token",
		},
		{
			name:            "private board with valid token passes",
			path:            "/v1/boards/prv1",
			authorization:   "Bearer " + token,
			expectedStatus:  http.StatusOK,
			expectClaims:    true,
			expectedSubject: "U1",
		},
		{
			name:           "unknown board is not found before auth",
			path:           "/v1/boards/nope",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing board id is a bad request",
			path:           "/v1/widgets",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Board id missing",
		},
		{
			name:            "board collection root requires auth",
			path:            "/v1/boards",
			authorization:   "Bearer " + token,
			expectedStatus:  http.StatusOK,
			expectClaims:    true,
			expectedSubject: "U1",
		},
		{
			name:           "board collection root without token is unauthorized",
			path:           "/v1/boards",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "header without bearer prefix",
			path:           "/v1/boards/prv1",
			authorization:  "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Malformed authorization header",
		},
		{
			name:           "token with wrong segment count",
			path:           "/v1/boards/prv1",
			authorization:  "Bearer onlyonesegment",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Token is malformed",
		},
		{
			name:           "expired token",
			path:           "/v1/boards/prv1",
			authorization:  "Bearer " + expiredToken,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Token expired",
		},
		{
			name:           "tampered token",
			path:           "/v1/boards/prv1",
			authorization:  "Bearer " + tamperedToken,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid token signature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "http://example.com"+tt.path, nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			rr := httptest.NewRecorder()

			handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				claims := GetClaimsFromContext(r)
				if tt.expectClaims {
					require.NotNil(t, claims, "expected a principal in context")
					assert.Equal(t, tt.expectedSubject, claims.Subject)
				} else {
					assert.Nil(t, claims, "expected an anonymous request")
				}
				w.WriteHeader(http.StatusOK)
			}))
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code, "gate returned wrong status code")
			if tt.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestGateIdempotentAttach(t *testing.T) {
	gate, jwtService := testGate(t)
	user := domain.User{Id: "U1", Email: "u@x.com"}
	token, err := jwtService.NewToken(user, time.Now())
	require.NoError(t, err)

	preAttached := &domain.Claims{Subject: "already-there"}

	req := httptest.NewRequest("GET", "http://example.com/v1/boards/prv1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req = req.WithContext(withClaims(req.Context(), preAttached))
	rr := httptest.NewRecorder()

	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// header parsing must be skipped when a principal is already attached
		assert.Same(t, preAttached, GetClaimsFromContext(r))
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestBoardIdFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/v1/boards/abc", "abc"},
		{"/v1/boards/abc/invitations", "abc"},
		{"/v1/boards/abc/invitations/inv1", "abc"},
		{"/v1/boards", ""},
		{"/v1/boards/", ""},
		{"/v1/widgets/abc", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, boardIdFromPath(tt.path), "path %q", tt.path)
	}
}

func TestGetClaimsFromContext(t *testing.T) {
	t.Run("no claims in context", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		assert.Nil(t, GetClaimsFromContext(req))
	})

	t.Run("claims in context", func(t *testing.T) {
		claims := &domain.Claims{Subject: "U1"}
		req := httptest.NewRequest("GET", "/", nil)
		req = req.WithContext(withClaims(req.Context(), claims))
		assert.Equal(t, claims, GetClaimsFromContext(req))
	})
}
