package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/wedding-wander/internal/metrics"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/model"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/notice"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/repository"
)

// SessionService tracks the signed-in user.
type SessionService struct {
	users   *repository.UserRepository
	notices notice.Sink
	metrics *metrics.Metrics
	log     *zap.Logger

	mu    sync.RWMutex
	state model.SessionState
}

// NewSessionService restores the signed-in user from storage.
func NewSessionService(
	ctx context.Context,
	users *repository.UserRepository,
	notices notice.Sink,
	m *metrics.Metrics,
	log *zap.Logger,
) (*SessionService, error) {
	s := &SessionService{
		users:   users,
		notices: notices,
		metrics: m,
		log:     log,
		state:   model.SessionState{IsLoading: true},
	}

	current, err := users.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	s.state = model.SessionState{User: current, IsAuthenticated: current != nil}
	return s, nil
}

// State returns a snapshot of the session.
func (s *SessionService) State() model.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// CurrentUser returns the signed-in user, or nil.
func (s *SessionService) CurrentUser() *model.User {
	return s.State().User
}

func (s *SessionService) signIn(u *model.User) {
	s.mu.Lock()
	s.state = model.SessionState{User: u, IsAuthenticated: true}
	s.mu.Unlock()
}

func (s *SessionService) unexpected(op, title string, err error) error {
	s.log.Error("session operation failed", zap.String("operation", op), zap.Error(err))
	s.notices.Notify(notice.Failure(title, unexpectedDescription))
	s.metrics.SessionOp(op, metrics.OutcomeError)
	return ErrUnexpected
}

// Login signs in the user whose email and password match exactly. Unknown
// email and wrong password are reported identically.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return s.unexpected("login", "Login error", err)
	}
	if user == nil || user.Password != password {
		s.notices.Notify(notice.Failure("Login failed", "Invalid email or password"))
		s.metrics.SessionOp("login", metrics.OutcomeFailure)
		return ErrInvalidCredentials
	}

	if err := s.users.SetCurrent(ctx, user); err != nil {
		return s.unexpected("login", "Login error", err)
	}
	s.signIn(user)

	s.notices.Notify(notice.Success("Welcome back!", fmt.Sprintf("Good to see you again, %s", user.Name)))
	s.metrics.SessionOp("login", metrics.OutcomeSuccess)
	s.log.Info("user logged in", zap.String("user_id", user.ID))
	return nil
}

type signupInput struct {
	Name     string `validate:"required,min=2"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Register creates an account and signs it in.
func (s *SessionService) Register(ctx context.Context, name, email, password string) error {
	if err := validate.Struct(signupInput{Name: name, Email: email, Password: password}); err != nil {
		s.notices.Notify(notice.Failure("Registration failed", validationMessage(err)))
		s.metrics.SessionOp("register", metrics.OutcomeFailure)
		return fmt.Errorf("%w: %s", ErrInvalidInput, validationMessage(err))
	}

	user, err := s.users.Create(ctx, name, email, password)
	if errors.Is(err, repository.ErrEmailTaken) {
		s.notices.Notify(notice.Failure("Registration failed", "An account with this email already exists"))
		s.metrics.SessionOp("register", metrics.OutcomeFailure)
		return repository.ErrEmailTaken
	}
	if err != nil {
		return s.unexpected("register", "Registration error", err)
	}

	if err := s.users.SetCurrent(ctx, user); err != nil {
		return s.unexpected("register", "Registration error", err)
	}
	s.signIn(user)

	s.notices.Notify(notice.Success("Account created!", "Welcome to WeddingWander"))
	s.metrics.SessionOp("register", metrics.OutcomeSuccess)
	s.log.Info("user registered", zap.String("user_id", user.ID))
	return nil
}

// Logout signs the current user out.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.state = model.SessionState{}
	s.mu.Unlock()

	if err := s.users.SetCurrent(ctx, nil); err != nil {
		return s.unexpected("logout", "Logout error", err)
	}
	s.notices.Notify(notice.Success("Logged out", "You have been successfully logged out"))
	s.metrics.SessionOp("logout", metrics.OutcomeSuccess)
	return nil
}
