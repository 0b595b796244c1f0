package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/wedding-wander/internal/metrics"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/model"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/notice"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/repository"
)

// CatalogService holds the event catalog and the registrations against it.
//
// Register and unregister for one event run one at a time. The repositories
// serialise writes to each stored collection.
type CatalogService struct {
	events   *repository.EventRepository
	regs     *repository.RegistrationRepository
	notifier Notifier
	notices  notice.Sink
	metrics  *metrics.Metrics
	log      *zap.Logger
	locks    *keyedMutex
	now      func() time.Time

	mu            sync.RWMutex
	all           []model.WeddingEvent
	filtered      []model.WeddingEvent
	filters       model.FilterOptions
	registrations []model.Registration
	loading       bool
}

// NewCatalogService loads events (seeding them on first run) and
// registrations.
func NewCatalogService(
	ctx context.Context,
	events *repository.EventRepository,
	regs *repository.RegistrationRepository,
	notifier Notifier,
	notices notice.Sink,
	m *metrics.Metrics,
	log *zap.Logger,
) (*CatalogService, error) {
	if notifier == nil {
		notifier = NopNotifier
	}
	s := &CatalogService{
		events:   events,
		regs:     regs,
		notifier: notifier,
		notices:  notices,
		metrics:  m,
		log:      log,
		locks:    newKeyedMutex(),
		now:      time.Now,
		loading:  true,
	}

	all, err := events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	registrations, err := regs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registrations: %w", err)
	}

	s.mu.Lock()
	s.all = all
	s.filtered = cloneEvents(all)
	s.registrations = registrations
	s.loading = false
	s.mu.Unlock()

	log.Info("catalog loaded",
		zap.Int("events", len(all)),
		zap.Int("registrations", len(registrations)),
	)
	return s, nil
}

func cloneEvents(events []model.WeddingEvent) []model.WeddingEvent {
	out := make([]model.WeddingEvent, len(events))
	copy(out, events)
	return out
}

// Events returns the full catalog.
func (s *CatalogService) Events() []model.WeddingEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEvents(s.all)
}

// FilteredEvents returns the result of the last ApplyFilters.
func (s *CatalogService) FilteredEvents() []model.WeddingEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEvents(s.filtered)
}

// Registrations returns every registration record known to the service.
func (s *CatalogService) Registrations() []model.Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Registration, len(s.registrations))
	copy(out, s.registrations)
	return out
}

// IsLoading reports whether the initial load has not finished.
func (s *CatalogService) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Event returns one event by id, or repository.ErrNotFound.
func (s *CatalogService) Event(ctx context.Context, id string) (*model.WeddingEvent, error) {
	return s.events.GetByID(ctx, id)
}

// ApplyFilters recomputes the filtered list from the full catalog and
// returns it. Every non-empty option must match.
func (s *CatalogService) ApplyFilters(opts model.FilterOptions) []model.WeddingEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = opts
	s.filtered = FilterEvents(s.all, opts)
	return cloneEvents(s.filtered)
}

// FilterEvents returns the events matching opts, in catalog order.
func FilterEvents(events []model.WeddingEvent, opts model.FilterOptions) []model.WeddingEvent {
	search := strings.ToLower(opts.Search)
	location := strings.ToLower(opts.Location)
	from, hasFrom := parseBound(opts.DateFrom)
	to, hasTo := parseBound(opts.DateTo)

	out := []model.WeddingEvent{}
	for _, e := range events {
		if search != "" && !matchesSearch(e, search) {
			continue
		}
		if location != "" &&
			strings.ToLower(e.Country) != location &&
			!strings.Contains(strings.ToLower(e.Location), location) {
			continue
		}
		if hasFrom || hasTo {
			day, ok := e.Day()
			if !ok {
				continue
			}
			if hasFrom && day.Before(from) {
				continue
			}
			if hasTo && day.After(to) {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func matchesSearch(e model.WeddingEvent, search string) bool {
	for _, field := range []string{e.Title, e.Location, e.CoupleName, e.Description} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func parseBound(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// replaceEvent swaps the stored copy of e into the full list and re-derives
// the filtered list with the last applied filters. Callers hold s.mu.
func (s *CatalogService) replaceEvent(e model.WeddingEvent) {
	for i := range s.all {
		if s.all[i].ID == e.ID {
			s.all[i] = e
		}
	}
	s.filtered = FilterEvents(s.all, s.filters)
}

func (s *CatalogService) unexpected(op, eventID, title string, err error) error {
	s.log.Error("catalog operation failed",
		zap.String("operation", op),
		zap.String("event_id", eventID),
		zap.Error(err),
	)
	s.notices.Notify(notice.Failure(title, unexpectedDescription))
	s.metrics.RegistrationOp(op, eventID, metrics.OutcomeError)
	return ErrUnexpected
}

func (s *CatalogService) rejected(op, eventID string, n model.Notice, err error) error {
	s.notices.Notify(n)
	s.metrics.RegistrationOp(op, eventID, metrics.OutcomeFailure)
	return err
}

func (s *CatalogService) lookup(ctx context.Context, op, eventID, failTitle string) (*model.WeddingEvent, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, s.rejected(op, eventID,
			notice.Failure("Event not found", "The selected event could not be found"),
			repository.ErrNotFound)
	}
	if err != nil {
		return nil, s.unexpected(op, eventID, failTitle, err)
	}
	return event, nil
}

// RegisterForEvent books a place on eventID for userID.
func (s *CatalogService) RegisterForEvent(ctx context.Context, eventID, userID string) error {
	const op = "register"
	unlock := s.locks.Lock(eventID)
	defer unlock()

	event, err := s.lookup(ctx, op, eventID, "Registration failed")
	if err != nil {
		return err
	}

	alreadyRegistered := notice.Failure("Already registered", "You are already registered for this event")
	existing, err := s.regs.Find(ctx, userID, eventID)
	switch {
	case err == nil && existing.Active():
		return s.rejected(op, eventID, alreadyRegistered, repository.ErrAlreadyRegistered)
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return s.unexpected(op, eventID, "Registration failed", err)
	}

	if event.IsFull() {
		return s.rejected(op, eventID,
			notice.Failure("Event full", "This event has reached its maximum capacity"),
			repository.ErrEventFull)
	}

	reg, err := s.regs.Activate(ctx, userID, eventID, s.now().UTC())
	if errors.Is(err, repository.ErrAlreadyRegistered) {
		return s.rejected(op, eventID, alreadyRegistered, repository.ErrAlreadyRegistered)
	}
	if err != nil {
		return s.unexpected(op, eventID, "Registration failed", err)
	}

	updated := *event
	updated.CurrentGuests++
	if err := s.events.Update(ctx, updated); err != nil {
		previous := *reg
		previous.Status = model.StatusCancelled
		if existing != nil {
			previous = *existing
		}
		if rerr := s.regs.Restore(ctx, []model.Registration{previous}); rerr != nil {
			s.log.Error("rollback registration", zap.String("event_id", eventID), zap.Error(rerr))
		}
		return s.unexpected(op, eventID, "Registration failed", err)
	}

	s.mu.Lock()
	s.replaceEvent(updated)
	replaced := false
	for i := range s.registrations {
		if s.registrations[i].ID == reg.ID {
			s.registrations[i] = *reg
			replaced = true
			break
		}
	}
	if !replaced {
		s.registrations = append(s.registrations, *reg)
	}
	s.mu.Unlock()

	s.notifier.SendRegistrationConfirmation(ctx, userID, updated)
	s.notifier.ScheduleEventReminder(userID, updated)

	s.notices.Notify(notice.Success("Registration successful!",
		fmt.Sprintf("You're now registered for %s", updated.Title)))
	s.metrics.RegistrationOp(op, eventID, metrics.OutcomeSuccess)
	s.log.Info("registered for event",
		zap.String("event_id", eventID),
		zap.String("user_id", userID),
		zap.Int("current_guests", updated.CurrentGuests),
	)
	return nil
}

// UnregisterFromEvent releases userID's place on eventID. Every record for
// the pair is cancelled; the guest count drops only when the first record
// was active. A user without any record is left as is and no error is
// returned.
func (s *CatalogService) UnregisterFromEvent(ctx context.Context, eventID, userID string) error {
	const op = "unregister"
	unlock := s.locks.Lock(eventID)
	defer unlock()

	event, err := s.lookup(ctx, op, eventID, "Unregistration failed")
	if err != nil {
		return err
	}

	prior, err := s.regs.Cancel(ctx, userID, eventID)
	if err != nil {
		return s.unexpected(op, eventID, "Unregistration failed", err)
	}
	wasActive := len(prior) > 0 && prior[0].Active()

	updated := *event
	if wasActive {
		if updated.CurrentGuests > 0 {
			updated.CurrentGuests--
		}
		if err := s.events.Update(ctx, updated); err != nil {
			if rerr := s.regs.Restore(ctx, prior); rerr != nil {
				s.log.Error("rollback unregistration", zap.String("event_id", eventID), zap.Error(rerr))
			}
			return s.unexpected(op, eventID, "Unregistration failed", err)
		}
	}
	s.notifier.CancelReminder(userID, eventID)

	s.mu.Lock()
	if wasActive {
		s.replaceEvent(updated)
	}
	for i := range s.registrations {
		if s.registrations[i].UserID == userID && s.registrations[i].EventID == eventID {
			s.registrations[i].Status = model.StatusCancelled
		}
	}
	s.mu.Unlock()

	if !wasActive {
		s.log.Debug("unregister without active registration",
			zap.String("event_id", eventID),
			zap.String("user_id", userID),
		)
		return nil
	}

	s.notices.Notify(notice.Success("Unregistered",
		fmt.Sprintf("You have been unregistered from %s", updated.Title)))
	s.metrics.RegistrationOp(op, eventID, metrics.OutcomeSuccess)
	s.log.Info("unregistered from event",
		zap.String("event_id", eventID),
		zap.String("user_id", userID),
		zap.Int("current_guests", updated.CurrentGuests),
	)
	return nil
}

// UserRegistrations returns the user's active registrations in storage order.
func (s *CatalogService) UserRegistrations(ctx context.Context, userID string) ([]model.Registration, error) {
	return s.regs.ForUser(ctx, userID)
}

// IsUserRegistered reports whether the user's first record for the event is
// active.
func (s *CatalogService) IsUserRegistered(ctx context.Context, userID, eventID string) (bool, error) {
	reg, err := s.regs.Find(ctx, userID, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return reg.Active(), nil
}

// Dashboard summarises the user's registrations. Events dated after now are
// upcoming; the rest, including undated ones, are past.
func (s *CatalogService) Dashboard(ctx context.Context, userID string, now time.Time) (*model.Dashboard, error) {
	regs, err := s.regs.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.WeddingEvent, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	d := &model.Dashboard{
		Registrations:    regs,
		RegisteredEvents: []model.WeddingEvent{},
		Upcoming:         []model.WeddingEvent{},
		Past:             []model.WeddingEvent{},
	}
	countries := map[string]struct{}{}
	for _, reg := range regs {
		e, ok := byID[reg.EventID]
		if !ok {
			continue
		}
		d.RegisteredEvents = append(d.RegisteredEvents, e)
		countries[e.Country] = struct{}{}
		if day, ok := e.Day(); ok && day.After(now) {
			d.Upcoming = append(d.Upcoming, e)
		} else {
			d.Past = append(d.Past, e)
		}
	}
	d.TotalRegistrations = len(regs)
	d.UniqueCountries = len(countries)
	return d, nil
}
