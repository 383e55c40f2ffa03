package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// TokenStore is the credential provider: it answers "what bearer token, if
// any, does this chat hold". Abstracting it keeps the calendar and lesson
// logic away from any particular storage mechanism.
type TokenStore interface {
	Get(ctx context.Context, chatID int64) (string, error)
	Set(ctx context.Context, chatID int64, token string) error
	Delete(ctx context.Context, chatID int64) error
}

// SessionService owns login/logout and token handover for the rest of the
// services.
type SessionService struct {
	store  TokenStore
	logger *zap.Logger
}

func NewSessionService(store TokenStore, logger *zap.Logger) *SessionService {
	return &SessionService{store: store, logger: logger}
}

// Token returns the chat's stored token; ok is false when the chat is not
// authenticated.
func (s *SessionService) Token(ctx context.Context, chatID int64) (string, bool, error) {
	token, err := s.store.Get(ctx, chatID)
	if err != nil {
		return "", false, fmt.Errorf("load token: %w", err)
	}
	return token, token != "", nil
}

// Save stores a freshly issued token.
func (s *SessionService) Save(ctx context.Context, chatID int64, token string) error {
	if err := s.store.Set(ctx, chatID, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	s.logger.Info("session stored", zap.Int64("chat_id", chatID))
	return nil
}

// Clear discards the chat's token, both on /logout and when the backend
// rejects it.
func (s *SessionService) Clear(ctx context.Context, chatID int64) error {
	if err := s.store.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	s.logger.Info("session cleared", zap.Int64("chat_id", chatID))
	return nil
}
