package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/edulane/lessonbot/internal/api"
	"github.com/edulane/lessonbot/internal/controller/state"
	"github.com/edulane/lessonbot/internal/service"
)

// AuthAPI is the unauthenticated slice of the backend client: issuing
// tokens and creating accounts. Implemented by *api.Client.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, r api.RegisterRequest) error
}

// Handlers carries the dependencies of the command and dialog handlers.
type Handlers struct {
	auth         AuthAPI
	sessions     *service.SessionService
	viewers      *service.ViewerService
	lessons      *service.LessonService
	stateManager *state.Manager
	logger       *zap.Logger
}

func NewHandlers(
	auth AuthAPI,
	sessions *service.SessionService,
	viewers *service.ViewerService,
	lessons *service.LessonService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		auth:         auth,
		sessions:     sessions,
		viewers:      viewers,
		lessons:      lessons,
		stateManager: stateManager,
		logger:       logger,
	}
}
