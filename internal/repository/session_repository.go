package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository persists the bearer token issued by the backend, one
// per chat. The chat id is the single fixed key the rest of the code looks
// tokens up by.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Get returns the stored token for a chat, or "" when none is stored.
func (r *SessionRepository) Get(ctx context.Context, chatID int64) (string, error) {
	query := `SELECT token FROM sessions WHERE chat_id = $1`

	var token string
	err := r.pool.QueryRow(ctx, query, chatID).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get session: %w", err)
	}
	return token, nil
}

// Set stores or replaces the token for a chat.
func (r *SessionRepository) Set(ctx context.Context, chatID int64, token string) error {
	query := `
		INSERT INTO sessions (chat_id, token, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (chat_id) DO UPDATE SET token = EXCLUDED.token, updated_at = now()
	`

	if _, err := r.pool.Exec(ctx, query, chatID, token); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Delete discards the stored token, if any.
func (r *SessionRepository) Delete(ctx context.Context, chatID int64) error {
	query := `DELETE FROM sessions WHERE chat_id = $1`

	if _, err := r.pool.Exec(ctx, query, chatID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteOlderThan removes sessions not refreshed since the cutoff. The
// backend's tokens expire long before that anyway; this just keeps the
// table from collecting dead rows.
func (r *SessionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE updated_at < $1`

	tag, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
