package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/edulane/lessonbot/internal/api"
	"github.com/edulane/lessonbot/internal/model"
)

var (
	// ErrNotAuthenticated means no token is stored for the chat; nothing
	// was fetched.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionExpired means the backend rejected the stored token. The
	// token has already been discarded when this is returned.
	ErrSessionExpired = errors.New("session expired")
)

// ProfileAPI is the slice of the backend client the viewer service needs.
type ProfileAPI interface {
	Me(ctx context.Context, token string) (*model.Profile, error)
}

// Viewer is the resolved authenticated user: profile, role and the token
// to use for follow-up fetches.
type Viewer struct {
	Profile *model.Profile
	Role    model.Role
	Token   string
}

// ViewerService resolves a chat to an authenticated viewer. This is the
// profile-loading half of the calendar flow: role is only known once the
// profile fetch completes.
type ViewerService struct {
	api      ProfileAPI
	sessions *SessionService
	logger   *zap.Logger
}

func NewViewerService(api ProfileAPI, sessions *SessionService, logger *zap.Logger) *ViewerService {
	return &ViewerService{api: api, sessions: sessions, logger: logger}
}

// Load fetches the viewer's profile with the chat's stored token. A 401
// discards the token so the next attempt starts from a clean slate.
func (s *ViewerService) Load(ctx context.Context, chatID int64) (*Viewer, error) {
	token, ok, err := s.sessions.Token(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAuthenticated
	}

	profile, err := s.api.Me(ctx, token)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			if clearErr := s.sessions.Clear(ctx, chatID); clearErr != nil {
				s.logger.Error("failed to discard rejected token",
					zap.Int64("chat_id", chatID), zap.Error(clearErr))
			}
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	return &Viewer{Profile: profile, Role: profile.Role(), Token: token}, nil
}
