package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	h := &Handler{}
	router := testRouter(h)

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestReadyHandler(t *testing.T) {
	h := &Handler{}
	router := testRouter(h)

	t.Run("database reachable", func(t *testing.T) {
		h.health = &mockHealthChecker{}
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("database down", func(t *testing.T) {
		h.health = &mockHealthChecker{
			pingFunc: func(ctx context.Context) error {
				return errors.New("connection refused")
			},
		}
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}
