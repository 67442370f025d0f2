package middleware

import (
	"net/http"

	"github.com/taskboard-dev/taskboard/internal/middleware/ratelimiter"
	"github.com/taskboard-dev/taskboard/internal/utils"
)

// RateLimit rejects requests over the limiter's budget for the identity
// produced by getIdentity (client IP, user id, ...).
func RateLimit(rl *ratelimiter.Limiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
