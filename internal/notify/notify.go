// Package notify delivers system notifications to users: an immediate
// confirmation on registration and a delayed, cancellable reminder.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/wedding-wander/internal/metrics"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/model"
)

// Permission mirrors the host's notification permission.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ParsePermission maps a config value to a Permission.
func ParsePermission(s string) (Permission, error) {
	switch p := Permission(s); p {
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return p, nil
	}
	return "", fmt.Errorf("unknown notification permission %q", s)
}

// DefaultIcon is used when NotificationOptions.Icon is empty.
const DefaultIcon = "/favicon.ico"

// DefaultReminderDelay is how long ScheduleEventReminder waits.
const DefaultReminderDelay = 2 * time.Second

// Host shows notifications to a user.
type Host interface {
	Permission() Permission
	RequestPermission(ctx context.Context) (Permission, error)
	Show(ctx context.Context, userID string, opts model.NotificationOptions) error
}

type reminderKey struct {
	userID  string
	eventID string
}

// Dispatcher sends notifications through a Host. Sends are fire-and-forget:
// host errors are logged, never returned.
type Dispatcher struct {
	host    Host
	delay   time.Duration
	log     *zap.Logger
	metrics *metrics.Metrics

	permissionOnce sync.Once

	mu        sync.Mutex
	reminders map[reminderKey]*time.Timer
	closed    bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithReminderDelay overrides DefaultReminderDelay.
func WithReminderDelay(d time.Duration) Option {
	return func(disp *Dispatcher) { disp.delay = d }
}

// WithMetrics records deliveries and pending reminders.
func WithMetrics(m *metrics.Metrics) Option {
	return func(disp *Dispatcher) { disp.metrics = m }
}

// NewDispatcher returns a Dispatcher over host.
func NewDispatcher(host Host, log *zap.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		host:      host,
		delay:     DefaultReminderDelay,
		log:       log,
		reminders: make(map[reminderKey]*time.Timer),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ensurePermission asks the host once, on first use, if it has not decided.
func (d *Dispatcher) ensurePermission(ctx context.Context) {
	d.permissionOnce.Do(func() {
		if d.host.Permission() != PermissionDefault {
			return
		}
		p, err := d.host.RequestPermission(ctx)
		if err != nil {
			d.log.Warn("notification permission request failed", zap.Error(err))
			return
		}
		d.log.Debug("notification permission", zap.String("permission", string(p)))
	})
}

// SendNotification shows opts to userID if permission was granted.
func (d *Dispatcher) SendNotification(ctx context.Context, userID string, opts model.NotificationOptions) {
	d.send(ctx, "custom", userID, opts)
}

func (d *Dispatcher) send(ctx context.Context, kind, userID string, opts model.NotificationOptions) {
	d.ensurePermission(ctx)
	if d.host.Permission() != PermissionGranted {
		d.metrics.Notification(kind, "skipped")
		return
	}
	if opts.Icon == "" {
		opts.Icon = DefaultIcon
	}
	if err := d.host.Show(ctx, userID, opts); err != nil {
		d.log.Warn("notification not delivered",
			zap.String("kind", kind),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		d.metrics.Notification(kind, metrics.OutcomeError)
		return
	}
	d.metrics.Notification(kind, metrics.OutcomeSuccess)
}

// formatDate renders an event date as month/day/year.
func formatDate(event model.WeddingEvent) string {
	if day, ok := event.Day(); ok {
		return day.Format("1/2/2006")
	}
	return event.Date
}

// SendRegistrationConfirmation notifies userID right away.
func (d *Dispatcher) SendRegistrationConfirmation(ctx context.Context, userID string, event model.WeddingEvent) {
	d.send(ctx, "confirmation", userID, model.NotificationOptions{
		Title: "Registration Confirmed!",
		Body:  fmt.Sprintf("You're registered for %s on %s", event.Title, formatDate(event)),
	})
}

// ScheduleEventReminder notifies userID after the reminder delay. A reminder
// already pending for the same user and event is replaced.
func (d *Dispatcher) ScheduleEventReminder(userID string, event model.WeddingEvent) {
	key := reminderKey{userID: userID, eventID: event.ID}
	opts := model.NotificationOptions{
		Title: "Wedding Reminder",
		Body:  fmt.Sprintf("Don't forget about %s on %s!", event.Title, formatDate(event)),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if prev, ok := d.reminders[key]; ok {
		prev.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.reminders[key] != timer {
			d.mu.Unlock()
			return
		}
		delete(d.reminders, key)
		d.metrics.RemindersPending(len(d.reminders))
		d.mu.Unlock()

		d.send(context.Background(), "reminder", userID, opts)
	})
	d.reminders[key] = timer
	d.metrics.RemindersPending(len(d.reminders))
}

// CancelReminder stops the pending reminder for the pair. It reports whether
// one was pending.
func (d *Dispatcher) CancelReminder(userID, eventID string) bool {
	key := reminderKey{userID: userID, eventID: eventID}

	d.mu.Lock()
	defer d.mu.Unlock()
	timer, ok := d.reminders[key]
	if !ok {
		return false
	}
	timer.Stop()
	delete(d.reminders, key)
	d.metrics.RemindersPending(len(d.reminders))
	return true
}

// Pending returns the number of scheduled reminders.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.reminders)
}

// Close stops every pending reminder. Later schedules are ignored.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, timer := range d.reminders {
		timer.Stop()
		delete(d.reminders, key)
	}
	d.closed = true
	d.metrics.RemindersPending(0)
}
