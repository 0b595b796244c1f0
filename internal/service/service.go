// Package service implements the session and catalog managers that sit
// between the presentation layer and the repositories.
//
// Operations report their outcome twice: as a returned error for callers
// that branch on it, and as a user-facing notice sent to a notice.Sink.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Shivanand-hulikatti/wedding-wander/internal/model"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrInvalidInput is returned when signup fields fail validation.
var ErrInvalidInput = errors.New("invalid input")

// ErrUnexpected is returned when storage fails underneath an operation.
var ErrUnexpected = errors.New("an unexpected error occurred")

const unexpectedDescription = "An unexpected error occurred"

// Notifier sends system notifications for catalog activity.
type Notifier interface {
	SendRegistrationConfirmation(ctx context.Context, userID string, event model.WeddingEvent)
	ScheduleEventReminder(userID string, event model.WeddingEvent)
	CancelReminder(userID, eventID string) bool
}

type nopNotifier struct{}

func (nopNotifier) SendRegistrationConfirmation(context.Context, string, model.WeddingEvent) {}
func (nopNotifier) ScheduleEventReminder(string, model.WeddingEvent)                         {}
func (nopNotifier) CancelReminder(string, string) bool                                       { return false }

// NopNotifier discards every notification.
var NopNotifier Notifier = nopNotifier{}

var validate = validator.New()

// validationMessage describes the first failed field of a validator error.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Please enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "eqfield":
		return "Passwords don't match"
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// keyedMutex hands out one mutex per key. Entries are never removed; the
// key space is the event catalog, which is small.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
