package middleware

import (
	"context"

	"hseinspect/config"
	"hseinspect/internal/database"
	"hseinspect/internal/repositories"
	"hseinspect/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

// TokenValidator checks a bearer token and its server side session.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenInfo, error)
}

type Middleware struct {
	DB       database.DB
	userRepo repositories.UserRepository
	auth     TokenValidator
	Config   config.Config
	log      logger.Logger
}

func New(
	db database.DB,
	auth TokenValidator,
	config config.Config,
	repos repositories.Repository,
) Middleware {
	log := logger.New("middleware")

	return Middleware{
		DB:       db,
		userRepo: repos.User,
		auth:     auth,
		Config:   config,
		log:      log,
	}
}
