package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/wedding-wander/internal/model"
)

func TestNewKeys(t *testing.T) {
	k := NewKeys("")
	assert.Equal(t, "weddingwander_users", k.Users)
	assert.Equal(t, "weddingwander_current_user", k.CurrentUser)
	assert.Equal(t, "weddingwander_events", k.Events)
	assert.Equal(t, "weddingwander_registrations", k.Registrations)

	assert.Equal(t, "staging_events", NewKeys("staging").Events)
}

func TestStore_EmptyCollections(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend(), "")

	users, err := s.Users(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NotNil(t, users)

	regs, err := s.Registrations(ctx)
	require.NoError(t, err)
	assert.Empty(t, regs)

	has, err := s.HasEvents(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	u, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := New(backend, "")

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	users := []model.User{{ID: "u1", Name: "Ana", Email: "ana@example.com", Password: "secret1", CreatedAt: created}}
	require.NoError(t, s.SetUsers(ctx, users))

	got, err := s.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, users, got)

	require.NoError(t, s.SetEvents(ctx, nil))
	has, err := s.HasEvents(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	raw, err := backend.Get(ctx, "weddingwander_events")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestStore_CurrentUser(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := New(backend, "")

	u := &model.User{ID: "u1", Name: "Ana", Email: "ana@example.com", Password: "secret1"}
	require.NoError(t, s.SetCurrentUser(ctx, u))

	got, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ana@example.com", got.Email)

	require.NoError(t, s.SetCurrentUser(ctx, nil))
	_, err = backend.Get(ctx, "weddingwander_current_user")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestStore_MalformedJSON(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, "weddingwander_registrations", []byte("{not json")))

	_, err := New(backend, "").Registrations(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode weddingwander_registrations")
}

type failingBackend struct{ err error }

func (f failingBackend) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingBackend) Set(context.Context, string, []byte) error   { return f.err }
func (f failingBackend) Delete(context.Context, string) error        { return f.err }

func TestStore_PropagatesBackendErrors(t *testing.T) {
	ctx := context.Background()
	quota := errors.New("quota exceeded")
	s := New(failingBackend{err: quota}, "")

	_, err := s.Events(ctx)
	assert.ErrorIs(t, err, quota)
	assert.ErrorIs(t, s.SetUsers(ctx, []model.User{{ID: "u1"}}), quota)
	_, err = s.HasEvents(ctx)
	assert.ErrorIs(t, err, quota)
}

func TestMemoryBackend_CopiesValues(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	v := []byte("abc")
	require.NoError(t, b.Set(ctx, "k", v))
	v[0] = 'z'

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
