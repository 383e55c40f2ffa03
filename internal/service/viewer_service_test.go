package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edulane/lessonbot/internal/api"
	"github.com/edulane/lessonbot/internal/model"
)

// memoryStore is an in-memory TokenStore for tests.
type memoryStore struct {
	tokens map[int64]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{tokens: make(map[int64]string)}
}

func (m *memoryStore) Get(ctx context.Context, chatID int64) (string, error) {
	return m.tokens[chatID], nil
}

func (m *memoryStore) Set(ctx context.Context, chatID int64, token string) error {
	m.tokens[chatID] = token
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, chatID int64) error {
	delete(m.tokens, chatID)
	return nil
}

type fakeProfileAPI struct {
	profile *model.Profile
	err     error
}

func (f *fakeProfileAPI) Me(ctx context.Context, token string) (*model.Profile, error) {
	return f.profile, f.err
}

func TestLoad_NoTokenMeansNotAuthenticated(t *testing.T) {
	sessions := NewSessionService(newMemoryStore(), zap.NewNop())
	svc := NewViewerService(&fakeProfileAPI{}, sessions, zap.NewNop())

	_, err := svc.Load(context.Background(), 100)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestLoad_RejectedTokenIsDiscarded(t *testing.T) {
	store := newMemoryStore()
	store.tokens[100] = "stale"
	sessions := NewSessionService(store, zap.NewNop())
	svc := NewViewerService(&fakeProfileAPI{err: api.ErrUnauthorized}, sessions, zap.NewNop())

	_, err := svc.Load(context.Background(), 100)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.NotContains(t, store.tokens, int64(100), "401 must discard the stored token")
}

func TestLoad_ResolvesRole(t *testing.T) {
	store := newMemoryStore()
	store.tokens[100] = "tok"
	sessions := NewSessionService(store, zap.NewNop())
	svc := NewViewerService(&fakeProfileAPI{
		profile: &model.Profile{ID: 7, Name: "Ada", RoleRaw: "Teacher"},
	}, sessions, zap.NewNop())

	viewer, err := svc.Load(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, model.RoleTeacher, viewer.Role)
	assert.Equal(t, "tok", viewer.Token)
	assert.Equal(t, "Ada", viewer.Profile.Name)
}

func TestSessionService_TokenLifecycle(t *testing.T) {
	sessions := NewSessionService(newMemoryStore(), zap.NewNop())
	ctx := context.Background()

	_, ok, err := sessions.Token(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, sessions.Save(ctx, 5, "tok"))
	token, ok, err := sessions.Token(ctx, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", token)

	require.NoError(t, sessions.Clear(ctx, 5))
	_, ok, err = sessions.Token(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}
