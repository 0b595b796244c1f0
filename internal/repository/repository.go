// Package repository implements the read-modify-write operations on the
// stored users, events and registrations.
//
// Every repository serialises its own writes: the underlying Store replaces
// whole collections, so two unsynchronised writers would lose updates.
package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/wedding-wander/internal/model"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/storage"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrEventFull is returned when an event has no remaining capacity.
var ErrEventFull = errors.New("event is fully booked")

// ErrAlreadyRegistered is returned when the same user registers twice.
var ErrAlreadyRegistered = errors.New("user already registered for this event")

// ErrEmailTaken is returned when an account with the email already exists.
var ErrEmailTaken = errors.New("an account with this email already exists")

// ─── Users ───────────────────────────────────────────────────────────────────

// UserRepository handles persistence for users and the current-user pointer.
type UserRepository struct {
	store *storage.Store
	mu    sync.Mutex
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(store *storage.Store) *UserRepository {
	return &UserRepository{store: store}
}

// List returns all users.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	return r.store.Users(ctx)
}

// Save replaces the user with the same id, or appends it.
func (r *UserRepository) Save(ctx context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.store.Users(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	replaced := false
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = user
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, user)
	}
	if err := r.store.SetUsers(ctx, users); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

// Create appends a new user unless the email is already taken.
// The check and the write happen under one lock.
func (r *UserRepository) Create(ctx context.Context, name, email, password string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		if u.Email == email {
			return nil, ErrEmailTaken
		}
	}

	user := model.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Password:  password,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.store.SetUsers(ctx, append(users, user)); err != nil {
		return nil, fmt.Errorf("save users: %w", err)
	}
	return &user, nil
}

// GetByEmail returns the first user whose email matches exactly.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := r.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

// GetByID returns a single user or ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	users, err := r.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

// Current returns the signed-in user, or nil.
func (r *UserRepository) Current(ctx context.Context) (*model.User, error) {
	return r.store.CurrentUser(ctx)
}

// SetCurrent stores the signed-in user; nil signs out.
func (r *UserRepository) SetCurrent(ctx context.Context, user *model.User) error {
	return r.store.SetCurrentUser(ctx, user)
}

// ─── Events ──────────────────────────────────────────────────────────────────

// EventRepository handles persistence for wedding events.
type EventRepository struct {
	store *storage.Store
	mu    sync.Mutex
	now   func() time.Time
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(store *storage.Store) *EventRepository {
	return &EventRepository{store: store, now: time.Now}
}

// List returns all events. The sample events are written the first time
// the events key is found absent and never again.
func (r *EventRepository) List(ctx context.Context) ([]model.WeddingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seeded, err := r.store.HasEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("check events: %w", err)
	}
	if !seeded {
		events := SampleEvents(r.now().UTC())
		if err := r.store.SetEvents(ctx, events); err != nil {
			return nil, fmt.Errorf("seed events: %w", err)
		}
		return events, nil
	}

	events, err := r.store.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// SaveAll overwrites the stored events.
func (r *EventRepository) SaveAll(ctx context.Context, events []model.WeddingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.SetEvents(ctx, events)
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.WeddingEvent, error) {
	events, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].ID == id {
			return &events[i], nil
		}
	}
	return nil, ErrNotFound
}

// Update replaces the stored event with the same id.
func (r *EventRepository) Update(ctx context.Context, event model.WeddingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	events, err := r.store.Events(ctx)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	for i := range events {
		if events[i].ID == event.ID {
			events[i] = event
			if err := r.store.SetEvents(ctx, events); err != nil {
				return fmt.Errorf("update event: %w", err)
			}
			return nil
		}
	}
	return ErrNotFound
}

// ─── Registrations ───────────────────────────────────────────────────────────

// RegistrationRepository handles persistence for registrations.
//
// A (user, event) pair maps to at most one record written by this
// repository. Stored data may still hold duplicates from older writers;
// lookups then use the first match in storage order.
type RegistrationRepository struct {
	store *storage.Store
	mu    sync.Mutex
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(store *storage.Store) *RegistrationRepository {
	return &RegistrationRepository{store: store}
}

func firstMatch(regs []model.Registration, userID, eventID string) int {
	for i := range regs {
		if regs[i].UserID == userID && regs[i].EventID == eventID {
			return i
		}
	}
	return -1
}

// List returns all registrations in storage order.
func (r *RegistrationRepository) List(ctx context.Context) ([]model.Registration, error) {
	return r.store.Registrations(ctx)
}

// Save replaces the registration with the same id, or appends it.
func (r *RegistrationRepository) Save(ctx context.Context, reg model.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs, err := r.store.Registrations(ctx)
	if err != nil {
		return fmt.Errorf("load registrations: %w", err)
	}
	replaced := false
	for i := range regs {
		if regs[i].ID == reg.ID {
			regs[i] = reg
			replaced = true
			break
		}
	}
	if !replaced {
		regs = append(regs, reg)
	}
	return r.store.SetRegistrations(ctx, regs)
}

// Find returns the first registration for the pair, or ErrNotFound.
func (r *RegistrationRepository) Find(ctx context.Context, userID, eventID string) (*model.Registration, error) {
	regs, err := r.store.Registrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registrations: %w", err)
	}
	if i := firstMatch(regs, userID, eventID); i >= 0 {
		return &regs[i], nil
	}
	return nil, ErrNotFound
}

// ForUser returns the user's active registrations in storage order.
func (r *RegistrationRepository) ForUser(ctx context.Context, userID string) ([]model.Registration, error) {
	regs, err := r.store.Registrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registrations: %w", err)
	}
	out := []model.Registration{}
	for _, reg := range regs {
		if reg.UserID == userID && reg.Active() {
			out = append(out, reg)
		}
	}
	return out, nil
}

// Activate marks the pair as registered. A cancelled record is re-activated
// in place; a missing one is appended. It returns ErrAlreadyRegistered when
// the first match is already active.
func (r *RegistrationRepository) Activate(ctx context.Context, userID, eventID string, at time.Time) (*model.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs, err := r.store.Registrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registrations: %w", err)
	}

	var reg model.Registration
	if i := firstMatch(regs, userID, eventID); i >= 0 {
		if regs[i].Active() {
			return nil, ErrAlreadyRegistered
		}
		regs[i].Status = model.StatusRegistered
		regs[i].RegisteredAt = at
		reg = regs[i]
	} else {
		reg = model.Registration{
			ID:           uuid.New().String(),
			UserID:       userID,
			EventID:      eventID,
			Status:       model.StatusRegistered,
			RegisteredAt: at,
		}
		regs = append(regs, reg)
	}

	if err := r.store.SetRegistrations(ctx, regs); err != nil {
		return nil, fmt.Errorf("save registration: %w", err)
	}
	return &reg, nil
}

// Cancel flips every registration for the pair to cancelled and returns
// the records as they were before, in storage order. Nothing is written
// when no record exists.
func (r *RegistrationRepository) Cancel(ctx context.Context, userID, eventID string) ([]model.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs, err := r.store.Registrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registrations: %w", err)
	}
	var prior []model.Registration
	for i := range regs {
		if regs[i].UserID == userID && regs[i].EventID == eventID {
			prior = append(prior, regs[i])
			regs[i].Status = model.StatusCancelled
		}
	}
	if len(prior) == 0 {
		return nil, nil
	}
	if err := r.store.SetRegistrations(ctx, regs); err != nil {
		return nil, fmt.Errorf("cancel registration: %w", err)
	}
	return prior, nil
}

// Restore writes back records returned by Cancel, matched by id.
func (r *RegistrationRepository) Restore(ctx context.Context, prior []model.Registration) error {
	if len(prior) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	regs, err := r.store.Registrations(ctx)
	if err != nil {
		return fmt.Errorf("load registrations: %w", err)
	}
	byID := make(map[string]model.Registration, len(prior))
	for _, reg := range prior {
		byID[reg.ID] = reg
	}
	for i := range regs {
		if reg, ok := byID[regs[i].ID]; ok {
			regs[i] = reg
		}
	}
	if err := r.store.SetRegistrations(ctx, regs); err != nil {
		return fmt.Errorf("restore registrations: %w", err)
	}
	return nil
}
