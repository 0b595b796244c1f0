package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/wedding-wander/internal/model"
)

// DefaultNamespace is the key prefix used by the browser build.
const DefaultNamespace = "weddingwander"

// Keys names the four stored collections.
type Keys struct {
	Users         string
	CurrentUser   string
	Events        string
	Registrations string
}

// NewKeys derives the collection keys from a namespace prefix.
func NewKeys(namespace string) Keys {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return Keys{
		Users:         namespace + "_users",
		CurrentUser:   namespace + "_current_user",
		Events:        namespace + "_events",
		Registrations: namespace + "_registrations",
	}
}

// Store reads and writes whole collections as JSON. It does not lock;
// callers that read-modify-write must serialise themselves.
type Store struct {
	backend Backend
	keys    Keys
}

// New returns a Store over backend using the given namespace.
func New(backend Backend, namespace string) *Store {
	return &Store{backend: backend, keys: NewKeys(namespace)}
}

// Keys returns the keys this store writes to.
func (s *Store) Keys() Keys {
	return s.keys
}

func getCollection[T any](ctx context.Context, b Backend, key string) ([]T, error) {
	raw, err := b.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func setCollection[T any](ctx context.Context, b Backend, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return b.Set(ctx, key, raw)
}

// Users returns all stored users.
func (s *Store) Users(ctx context.Context) ([]model.User, error) {
	return getCollection[model.User](ctx, s.backend, s.keys.Users)
}

// SetUsers overwrites the users collection.
func (s *Store) SetUsers(ctx context.Context, users []model.User) error {
	return setCollection(ctx, s.backend, s.keys.Users, users)
}

// Events returns all stored events, empty when none were ever written.
func (s *Store) Events(ctx context.Context) ([]model.WeddingEvent, error) {
	return getCollection[model.WeddingEvent](ctx, s.backend, s.keys.Events)
}

// SetEvents overwrites the events collection.
func (s *Store) SetEvents(ctx context.Context, events []model.WeddingEvent) error {
	return setCollection(ctx, s.backend, s.keys.Events, events)
}

// HasEvents reports whether the events key has ever been written.
func (s *Store) HasEvents(ctx context.Context) (bool, error) {
	_, err := s.backend.Get(ctx, s.keys.Events)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Registrations returns all stored registrations in storage order.
func (s *Store) Registrations(ctx context.Context) ([]model.Registration, error) {
	return getCollection[model.Registration](ctx, s.backend, s.keys.Registrations)
}

// SetRegistrations overwrites the registrations collection.
func (s *Store) SetRegistrations(ctx context.Context, regs []model.Registration) error {
	return setCollection(ctx, s.backend, s.keys.Registrations, regs)
}

// CurrentUser returns the signed-in user, or nil.
func (s *Store) CurrentUser(ctx context.Context) (*model.User, error) {
	raw, err := s.backend.Get(ctx, s.keys.CurrentUser)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return nil, nil
	}
	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.keys.CurrentUser, err)
	}
	return &u, nil
}

// SetCurrentUser stores u as the signed-in user. A nil user removes the key.
func (s *Store) SetCurrentUser(ctx context.Context, u *model.User) error {
	if u == nil {
		return s.backend.Delete(ctx, s.keys.CurrentUser)
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.keys.CurrentUser, err)
	}
	return s.backend.Set(ctx, s.keys.CurrentUser, raw)
}
