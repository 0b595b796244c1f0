package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/wedding-wander/internal/metrics"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/model"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/notice"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/repository"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/storage"
)

type recordingSink struct {
	mu      sync.Mutex
	notices []model.Notice
}

func (r *recordingSink) Notify(n model.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingSink) last() model.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notices[len(r.notices)-1]
}

type recordingNotifier struct {
	mu            sync.Mutex
	confirmations []string
	reminders     []string
	cancelled     []string
}

func (n *recordingNotifier) SendRegistrationConfirmation(_ context.Context, userID string, e model.WeddingEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations = append(n.confirmations, userID+"/"+e.ID)
}

func (n *recordingNotifier) ScheduleEventReminder(userID string, e model.WeddingEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders = append(n.reminders, userID+"/"+e.ID)
}

func (n *recordingNotifier) CancelReminder(userID, eventID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, userID+"/"+eventID)
	return true
}

type catalogFixture struct {
	svc      *CatalogService
	store    *storage.Store
	events   *repository.EventRepository
	regs     *repository.RegistrationRepository
	sink     *recordingSink
	notifier *recordingNotifier
}

func newCatalog(t *testing.T, backend storage.Backend) *catalogFixture {
	t.Helper()
	store := storage.New(backend, "")
	f := &catalogFixture{
		store:    store,
		events:   repository.NewEventRepository(store),
		regs:     repository.NewRegistrationRepository(store),
		sink:     &recordingSink{},
		notifier: &recordingNotifier{},
	}
	svc, err := NewCatalogService(context.Background(), f.events, f.regs, f.notifier, f.sink,
		metrics.New(prometheus.NewRegistry()), zap.NewNop())
	require.NoError(t, err)
	f.svc = svc
	return f
}

func ids(events []model.WeddingEvent) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestCatalog_LoadsSeedEvents(t *testing.T) {
	f := newCatalog(t, storage.NewMemoryBackend())

	assert.False(t, f.svc.IsLoading())
	assert.Len(t, f.svc.Events(), 6)
	assert.Equal(t, ids(f.svc.Events()), ids(f.svc.FilteredEvents()))
	assert.Empty(t, f.svc.Registrations())
}

func TestApplyFilters_Search(t *testing.T) {
	f := newCatalog(t, storage.NewMemoryBackend())

	got := f.svc.ApplyFilters(model.FilterOptions{Search: "santorini"})
	assert.Equal(t, []string{"1"}, ids(got))
	assert.Equal(t, []string{"1"}, ids(f.svc.FilteredEvents()))

	got = f.svc.ApplyFilters(model.FilterOptions{Search: "KAI & AISHA"})
	assert.Equal(t, []string{"3"}, ids(got))
}

func TestApplyFilters_Location(t *testing.T) {
	f := newCatalog(t, storage.NewMemoryBackend())

	assert.Equal(t, []string{"2"}, ids(f.svc.ApplyFilters(model.FilterOptions{Location: "Italy"})))
	assert.Equal(t, []string{"6"}, ids(f.svc.ApplyFilters(model.FilterOptions{Location: "kyoto"})))
	assert.Empty(t, f.svc.ApplyFilters(model.FilterOptions{Location: "norway"}))
}

func TestApplyFilters_DateRange(t *testing.T) {
	f := newCatalog(t, storage.NewMemoryBackend())

	got := f.svc.ApplyFilters(model.FilterOptions{DateFrom: "2024-07-01", DateTo: "2024-08-31"})
	assert.Equal(t, []string{"2", "3"}, ids(got))

	// Bounds are inclusive.
	got = f.svc.ApplyFilters(model.FilterOptions{DateFrom: "2024-06-15", DateTo: "2024-06-15"})
	assert.Equal(t, []string{"1"}, ids(got))

	got = f.svc.ApplyFilters(model.FilterOptions{DateFrom: "not-a-date"})
	assert.Len(t, got, 6)

	got = f.svc.ApplyFilters(model.FilterOptions{})
	assert.Len(t, got, 6)
}

func TestFilterEvents_CombinesWithAnd(t *testing.T) {
	events := []model.WeddingEvent{
		{ID: "a", Title: "Beach party", Country: "greece", Location: "Crete, Greece", Date: "2024-06-01"},
		{ID: "b", Title: "Beach party", Country: "spain", Location: "Ibiza, Spain", Date: "2024-06-01"},
		{ID: "c", Title: "Beach party", Country: "greece", Location: "Rhodes, Greece", Date: "someday"},
	}

	got := FilterEvents(events, model.FilterOptions{Search: "beach", Location: "greece", DateFrom: "2024-01-01"})
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestRegisterForEvent_UpdatesCountAndNotifies(t *testing.T) {
	ctx := context.Background()
	f := newCatalog(t, storage.NewMemoryBackend())

	require.NoError(t, f.svc.RegisterForEvent(ctx, "1", "u1"))

	stored, err := f.events.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 25, stored.CurrentGuests)
	assert.Equal(t, 55, stored.Remaining())

	ok, err := f.svc.IsUserRegistered(ctx, "u1", "1")
	require.NoError(t, err)
	assert.True(t, ok)

	regs, err := f.svc.UserRegistrations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, model.StatusRegistered, regs[0].Status)

	assert.Equal(t, 25, f.svc.Events()[0].CurrentGuests)
	assert.Len(t, f.svc.Registrations(), 1)
	assert.Equal(t, []string{"u1/1"}, f.notifier.confirmations)
	assert.Equal(t, []string{"u1/1"}, f.notifier.reminders)
	assert.Equal(t, "Registration successful!", f.sink.last().Title)
	assert.Equal(t, "You're now registered for Elena & Marco's Santorini Dream", f.sink.last().Description)
}

func TestRegisterThenUnregister_RestoresCount(t *testing.T) {
	ctx := context.Background()
	f := newCatalog(t, storage.NewMemoryBackend())

	require.NoError(t, f.svc.RegisterForEvent(ctx, "1", "u1"))
	require.NoError(t, f.svc.UnregisterFromEvent(ctx, "1", "u1"))

	stored, err := f.events.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 24, stored.CurrentGuests)

	ok, err := f.svc.IsUserRegistered(ctx, "u1", "1")
	require.NoError(t, err)
	assert.False(t, ok)

	regs, err := f.svc.UserRegistrations(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, regs)

	assert.Equal(t, model.StatusCancelled, f.svc.Registrations()[0].Status)
	assert.Equal(t, []string{"u1/1"}, f.notifier.cancelled)
	assert.Equal(t, "Unregistered", f.sink.last().Title)
	assert.Equal(t, "You have been unregistered from Elena & Marco's Santorini Dream", f.sink.last().Description)

	// Re-registering re-activates the same record.
	require.NoError(t, f.svc.RegisterForEvent(ctx, "1", "u1"))
	all, err := f.regs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Len(t, f.svc.Registrations(), 1)
}

func TestRegisterForEvent_Twice(t *testing.T) {
	ctx := context.Background()
	f := newCatalog(t, storage.NewMemoryBackend())

	require.NoError(t, f.svc.RegisterForEvent(ctx, "1", "u1"))
	err := f.svc.RegisterForEvent(ctx, "1", "u1")
	assert.ErrorIs(t, err, repository.ErrAlreadyRegistered)
	assert.Equal(t, "Already registered", f.sink.last().Title)
	assert.Equal(t, model.NoticeDestructive, f.sink.last().Variant)

	stored, err := f.events.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 25, stored.CurrentGuests)
}

func TestRegisterForEvent_Full(t *testing.T) {
	ctx := context.Background()
	f := newCatalog(t, storage.NewMemoryBackend())

	event, err := f.events.GetByID(ctx, "6")
	require.NoError(t, err)
	event.CurrentGuests = event.MaxGuests
	require.NoError(t, f.events.Update(ctx, *event))

	err = f.svc.RegisterForEvent(ctx, "6", "u1")
	assert.ErrorIs(t, err, repository.ErrEventFull)
	assert.Equal(t, "Event full", f.sink.last().Title)

	regs, err := f.regs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, regs)
	assert.Empty(t, f.notifier.confirmations)
}

func TestRegisterForEvent_UnknownEvent(t *testing.T) {
	f := newCatalog(t, storage.NewMemoryBackend())

	err := f.svc.RegisterForEvent(context.Background(), "missing", "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, "Event not found", f.sink.last().Title)

	err = f.svc.UnregisterFromEvent(context.Background(), "missing", "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUnregisterFromEvent_NonMemberIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newCatalog(t, storage.NewMemoryBackend())

	require.NoError(t, f.svc.UnregisterFromEvent(ctx, "1", "stranger"))

	stored, err := f.events.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 24, stored.CurrentGuests)
	assert.Empty(t, f.sink.notices)
}

func TestUnregisterFromEvent_ClampsAtZero(t *testing.T) {
	ctx := context.Background()
	f := newCatalog(t, storage.NewMemoryBackend())

	require.NoError(t, f.svc.RegisterForEvent(ctx, "1", "u1"))
	event, err := f.events.GetByID(ctx, "1")
	require.NoError(t, err)
	event.CurrentGuests = 0
	require.NoError(t, f.events.Update(ctx, *event))

	require.NoError(t, f.svc.UnregisterFromEvent(ctx, "1", "u1"))

	stored, err := f.events.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CurrentGuests)
}

func TestRegisterForEvent_ConcurrentLastPlace(t *testing.T) {
	ctx := context.Background()
	f := newCatalog(t, storage.NewMemoryBackend())

	event, err := f.events.GetByID(ctx, "1")
	require.NoError(t, err)
	event.CurrentGuests = event.MaxGuests - 1
	require.NoError(t, f.events.Update(ctx, *event))

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.RegisterForEvent(ctx, "1", "u"+string(rune('a'+i)))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, repository.ErrEventFull)
	}
	assert.Equal(t, 1, succeeded)

	stored, err := f.events.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, stored.MaxGuests, stored.CurrentGuests)
}

func TestRegisterForEvent_ConcurrentDoubleSubmit(t *testing.T) {
	ctx := context.Background()
	f := newCatalog(t, storage.NewMemoryBackend())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.RegisterForEvent(ctx, "2", "u1")
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
			assert.ErrorIs(t, err, repository.ErrAlreadyRegistered)
		}
	}
	assert.Equal(t, 1, failures)

	stored, err := f.events.GetByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 19, stored.CurrentGuests)
}

// flakyBackend fails writes to one key once armed.
type flakyBackend struct {
	*storage.MemoryBackend
	mu      sync.Mutex
	failKey string
}

func (b *flakyBackend) arm(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failKey = key
}

func (b *flakyBackend) Set(ctx context.Context, key string, value []byte) error {
	b.mu.Lock()
	fail := b.failKey != "" && key == b.failKey
	b.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return b.MemoryBackend.Set(ctx, key, value)
}

func TestRegisterForEvent_RollsBackOnEventWriteFailure(t *testing.T) {
	ctx := context.Background()
	backend := &flakyBackend{MemoryBackend: storage.NewMemoryBackend()}
	f := newCatalog(t, backend)
	backend.arm(f.store.Keys().Events)

	err := f.svc.RegisterForEvent(ctx, "1", "u1")
	assert.ErrorIs(t, err, ErrUnexpected)
	assert.Equal(t, "Registration failed", f.sink.last().Title)
	assert.Equal(t, "An unexpected error occurred", f.sink.last().Description)

	ok, err := f.svc.IsUserRegistered(ctx, "u1", "1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.svc.Registrations())
	assert.Equal(t, 24, f.svc.Events()[0].CurrentGuests)
}

func TestUnregisterFromEvent_StoreFailure(t *testing.T) {
	ctx := context.Background()
	backend := &flakyBackend{MemoryBackend: storage.NewMemoryBackend()}
	f := newCatalog(t, backend)
	require.NoError(t, f.svc.RegisterForEvent(ctx, "1", "u1"))
	backend.arm(f.store.Keys().Registrations)

	err := f.svc.UnregisterFromEvent(ctx, "1", "u1")
	assert.ErrorIs(t, err, ErrUnexpected)
	assert.Equal(t, "Unregistration failed", f.sink.last().Title)
}

func TestUnregisterFromEvent_RollsBackOnEventWriteFailure(t *testing.T) {
	ctx := context.Background()
	backend := &flakyBackend{MemoryBackend: storage.NewMemoryBackend()}
	f := newCatalog(t, backend)
	require.NoError(t, f.svc.RegisterForEvent(ctx, "1", "u1"))
	before, err := f.regs.List(ctx)
	require.NoError(t, err)
	backend.arm(f.store.Keys().Events)

	err = f.svc.UnregisterFromEvent(ctx, "1", "u1")
	assert.ErrorIs(t, err, ErrUnexpected)
	assert.Equal(t, "Unregistration failed", f.sink.last().Title)

	after, err := f.regs.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	ok, err := f.svc.IsUserRegistered(ctx, "u1", "1")
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := f.events.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 25, stored.CurrentGuests)
	assert.Equal(t, 25, f.svc.Events()[0].CurrentGuests)
	assert.Equal(t, model.StatusRegistered, f.svc.Registrations()[0].Status)
	assert.Empty(t, f.notifier.cancelled)
}

func TestUnregisterFromEvent_CancelsEveryDuplicate(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	seedStore := storage.New(backend, "")
	require.NoError(t, seedStore.SetRegistrations(ctx, []model.Registration{
		{ID: "a", UserID: "u1", EventID: "1", Status: model.StatusCancelled},
		{ID: "b", UserID: "u1", EventID: "1", Status: model.StatusRegistered},
		{ID: "c", UserID: "u2", EventID: "1", Status: model.StatusRegistered},
	}))
	f := newCatalog(t, backend)

	require.NoError(t, f.svc.UnregisterFromEvent(ctx, "1", "u1"))

	for _, reg := range f.svc.Registrations() {
		if reg.UserID == "u1" {
			assert.Equal(t, model.StatusCancelled, reg.Status, reg.ID)
		} else {
			assert.Equal(t, model.StatusRegistered, reg.Status, reg.ID)
		}
	}

	mine, err := f.svc.UserRegistrations(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, mine)

	others, err := f.svc.UserRegistrations(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, others, 1)

	// The first record was already cancelled, so no place is released.
	stored, err := f.events.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 24, stored.CurrentGuests)
	assert.Empty(t, f.sink.notices)
}

func TestApplyFilters_SurviveGuestCountChanges(t *testing.T) {
	ctx := context.Background()
	f := newCatalog(t, storage.NewMemoryBackend())

	require.Equal(t, []string{"2"}, ids(f.svc.ApplyFilters(model.FilterOptions{Location: "italy"})))

	require.NoError(t, f.svc.RegisterForEvent(ctx, "2", "u1"))
	require.NoError(t, f.svc.RegisterForEvent(ctx, "1", "u1"))

	filtered := f.svc.FilteredEvents()
	require.Equal(t, []string{"2"}, ids(filtered))
	assert.Equal(t, 19, filtered[0].CurrentGuests)

	require.NoError(t, f.svc.UnregisterFromEvent(ctx, "2", "u1"))
	assert.Equal(t, 18, f.svc.FilteredEvents()[0].CurrentGuests)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	f := newCatalog(t, storage.NewMemoryBackend())

	for _, id := range []string{"1", "2", "6"} {
		require.NoError(t, f.svc.RegisterForEvent(ctx, id, "u1"))
	}
	require.NoError(t, f.svc.RegisterForEvent(ctx, "3", "u2"))

	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	d, err := f.svc.Dashboard(ctx, "u1", now)
	require.NoError(t, err)

	assert.Equal(t, 3, d.TotalRegistrations)
	assert.Equal(t, 3, d.UniqueCountries)
	assert.Equal(t, []string{"1", "2", "6"}, ids(d.RegisteredEvents))
	assert.Equal(t, []string{"2"}, ids(d.Upcoming))
	assert.Equal(t, []string{"1", "6"}, ids(d.Past))
}

func TestNewCatalogService_LoadError(t *testing.T) {
	store := storage.New(failing{}, "")
	_, err := NewCatalogService(context.Background(),
		repository.NewEventRepository(store),
		repository.NewRegistrationRepository(store),
		nil, notice.Discard, nil, zap.NewNop())
	assert.ErrorContains(t, err, "load events")
}

type failing struct{}

func (failing) Get(context.Context, string) ([]byte, error) { return nil, errors.New("offline") }
func (failing) Set(context.Context, string, []byte) error   { return errors.New("offline") }
func (failing) Delete(context.Context, string) error        { return errors.New("offline") }
