package setup

import (
	"github.com/taskboard-dev/taskboard/internal/config"
	"github.com/taskboard-dev/taskboard/internal/handler"
	"github.com/taskboard-dev/taskboard/internal/jwt"
	"github.com/taskboard-dev/taskboard/internal/middleware"
	"github.com/taskboard-dev/taskboard/internal/service"
	"github.com/taskboard-dev/taskboard/internal/storage/pg"
)

// Dependencies holds all initialized dependencies.
type Dependencies struct {
	Config  *config.Config
	Storage *pg.Storage
	Handler *handler.Handler
	Gate    *middleware.Gate
}

// SetupDependencies wires storage, the token engine, services and the
// request gate together.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.New(cfg.Private.JwtKey, cfg.Public.JwtIssuer, cfg.Public.JwtTTL, cfg.Public.JwtRefreshTTL)

	auth := service.NewAuth(storage, jwtService, cfg.Public.JwtTTL)
	board := service.NewBoard(storage)
	collab := service.NewCollab(storage, storage)

	h := handler.New(auth, board, collab, storage)
	gate := middleware.NewGate(jwtService, storage)

	return &Dependencies{
		Config:  cfg,
		Storage: storage,
		Handler: h,
		Gate:    gate,
	}, nil
}
