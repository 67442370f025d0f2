package router

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/taskboard-dev/taskboard/internal/middleware"
	"github.com/taskboard-dev/taskboard/internal/middleware/metrics"
	rl "github.com/taskboard-dev/taskboard/internal/middleware/ratelimiter"
	"github.com/taskboard-dev/taskboard/internal/setup"
	"github.com/taskboard-dev/taskboard/internal/utils"
)

// New builds the route table. The gate runs for every route; its
// allow-list covers auth, probes and metrics, everything else is
// board-scoped and resolves visibility before authentication.
func New(deps *setup.Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.Public.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))
	r.Use(mw.SecurityHeaders)
	r.Use(metrics.Middleware)
	r.Use(deps.Gate.Middleware)

	h := deps.Handler

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// login is brute-forceable, keep it at 1/s per IP
			r.With(mw.RateLimit(rl.OncePerSecond(), utils.GetIP)).Post("/login", h.Login)
			r.Post("/refresh", h.Refresh)
		})

		r.Route("/boards", func(r chi.Router) {
			r.Get("/", h.GetBoards)

			r.Route("/{board}", func(r chi.Router) {
				r.Get("/", h.GetBoard)

				r.Route("/invitations", func(r chi.Router) {
					r.Get("/", h.GetInvitations)
					r.Post("/", h.SendInvitation)
					r.Put("/{invitation}", h.AcceptInvitation)
					r.Delete("/{invitation}", h.DeclineInvitation)
				})

				r.Route("/collaborators", func(r chi.Router) {
					r.Get("/", h.GetCollaborators)
					r.Post("/", h.AddCollaborator)
				})
			})
		})
	})

	return r
}
