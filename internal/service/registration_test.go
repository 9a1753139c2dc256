package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/gatherhub/gatherhub/internal/domain/event"
	"github.com/gatherhub/gatherhub/internal/domain/registration"
	"github.com/gatherhub/gatherhub/internal/domain/user"
	"github.com/gatherhub/gatherhub/internal/notifications"
	"github.com/gatherhub/gatherhub/internal/repo/memory"
	"github.com/gatherhub/gatherhub/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// captureQueue records enqueued notifications for assertions.

type captureQueue struct {
	mu   sync.Mutex
	sent []notifications.Notification
}

func (q *captureQueue) Enqueue(ctx context.Context, n notifications.Notification) error {
	q.mu.Lock()
	q.sent = append(q.sent, n)
	q.mu.Unlock()
	return nil
}

type fixture struct {
	users  *memory.UsersRepo
	events *memory.EventsRepo
	store  *memory.RegistrationsRepo
	queue  *captureQueue
	svc    *service.RegistrationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:  memory.NewUsersRepo(),
		events: memory.NewEventsRepo(),
		store:  memory.NewRegistrationsRepo(),
		queue:  &captureQueue{},
	}

	f.svc = service.NewRegistrationService(f.store, f.users, f.events, f.queue, testLogger())

	return f
}

func (f *fixture) addUser(t *testing.T, id string) {
	t.Helper()

	_, err := f.users.Create(context.Background(), user.CreateUserRequest{UserID: id, Name: "User " + id})

	if err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
}

func (f *fixture) addEvent(t *testing.T, id string, capacity int, waitlist bool) {
	t.Helper()

	_, err := f.events.Create(context.Background(), event.CreateEventRequest{
		EventID:         id,
		Title:           "Event " + id,
		Description:     "test event",
		Date:            "2026-09-01",
		Location:        "Toronto",
		Capacity:        capacity,
		Organizer:       "org",
		Status:          "scheduled",
		WaitlistEnabled: waitlist,
	})

	if err != nil {
		t.Fatalf("create event %s: %v", id, err)
	}
}

func TestRegisterActiveUntilCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEvent(t, "ev-1", 2, true)
	f.addUser(t, "u-1")
	f.addUser(t, "u-2")
	f.addUser(t, "u-3")

	for _, id := range []string{"u-1", "u-2"} {
		reg, err := f.svc.Register(ctx, id, "ev-1")

		if err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
		if reg.Status != registration.StatusActive {
			t.Fatalf("register %s: got status %q, want active", id, reg.Status)
		}
		if reg.WaitlistPosition != nil {
			t.Fatalf("register %s: active registration has waitlistPosition %d", id, *reg.WaitlistPosition)
		}
		if reg.RegistrationID == "" {
			t.Fatalf("register %s: missing registrationId", id)
		}
	}

	reg, err := f.svc.Register(ctx, "u-3", "ev-1")

	if err != nil {
		t.Fatalf("register u-3: %v", err)
	}
	if reg.Status != registration.StatusWaitlisted {
		t.Fatalf("got status %q, want waitlisted", reg.Status)
	}
	if reg.WaitlistPosition == nil || *reg.WaitlistPosition != 1 {
		t.Fatalf("got waitlistPosition %v, want 1", reg.WaitlistPosition)
	}

	count, err := f.store.CountActiveByEvent(ctx, "ev-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("active count = %d, want 2 (capacity)", count)
	}
}

func TestRegisterCheckOrder(t *testing.T) {
	// who is missing decides which error the caller sees
	f := newFixture(t)
	ctx := context.Background()

	f.addEvent(t, "ev-1", 1, false)
	f.addUser(t, "u-1")

	tests := []struct {
		name    string
		userID  string
		eventID string
		wantErr error
	}{
		{name: "missing_user", userID: "nope", eventID: "ev-1", wantErr: user.ErrNotFound},
		{name: "missing_event", userID: "u-1", eventID: "nope", wantErr: event.ErrNotFound},
		{name: "missing_user_and_event", userID: "nope", eventID: "nope", wantErr: user.ErrNotFound},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, tt.userID, tt.eventID)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got err %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEvent(t, "ev-1", 1, true)
	f.addUser(t, "u-1")
	f.addUser(t, "u-2")

	if _, err := f.svc.Register(ctx, "u-1", "ev-1"); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := f.svc.Register(ctx, "u-1", "ev-1")

	if !errors.Is(err, registration.ErrDuplicate) {
		t.Fatalf("got err %v, want ErrDuplicate", err)
	}

	// duplicate rejection applies to waitlisted registrations too
	if _, err := f.svc.Register(ctx, "u-2", "ev-1"); err != nil {
		t.Fatalf("register u-2: %v", err)
	}

	_, err = f.svc.Register(ctx, "u-2", "ev-1")

	if !errors.Is(err, registration.ErrDuplicate) {
		t.Fatalf("waitlisted duplicate: got err %v, want ErrDuplicate", err)
	}
}

func TestRegisterFullNoWaitlist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEvent(t, "ev-1", 1, false)
	f.addUser(t, "u-1")
	f.addUser(t, "u-2")

	if _, err := f.svc.Register(ctx, "u-1", "ev-1"); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := f.svc.Register(ctx, "u-2", "ev-1")

	if !errors.Is(err, registration.ErrEventFull) {
		t.Fatalf("got err %v, want ErrEventFull", err)
	}

	// nothing was saved for the rejected caller
	if _, err := f.store.FindByUserAndEvent(ctx, "u-2", "ev-1"); !errors.Is(err, registration.ErrNotFound) {
		t.Fatalf("rejected registration was persisted")
	}
}

func TestUnregisterPromotesInFIFOOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEvent(t, "ev-1", 1, true)

	for i := 1; i <= 4; i++ {
		f.addUser(t, fmt.Sprintf("u-%d", i))
	}

	for i := 1; i <= 4; i++ {
		if _, err := f.svc.Register(ctx, fmt.Sprintf("u-%d", i), "ev-1"); err != nil {
			t.Fatalf("register u-%d: %v", i, err)
		}
	}

	// u-1 active; u-2,u-3,u-4 waitlisted at 1,2,3
	if err := f.svc.Unregister(ctx, "u-1", "ev-1"); err != nil {
		t.Fatalf("unregister: %v", err)
	}

	promoted, err := f.store.FindByUserAndEvent(ctx, "u-2", "ev-1")
	if err != nil {
		t.Fatalf("find u-2: %v", err)
	}
	if promoted.Status != registration.StatusActive {
		t.Fatalf("u-2 status = %q, want active (front of waitlist)", promoted.Status)
	}
	if promoted.WaitlistPosition != nil {
		t.Fatalf("promoted registration kept waitlistPosition %d", *promoted.WaitlistPosition)
	}

	assertWaitlist(t, f.store, "ev-1", []string{"u-3", "u-4"})
}

func TestUnregisterWaitlistedRenumbers(t *testing.T) {
	// removing a middle waitlist entry must not leave a gap
	f := newFixture(t)
	ctx := context.Background()

	f.addEvent(t, "ev-1", 1, true)

	for i := 1; i <= 5; i++ {
		f.addUser(t, fmt.Sprintf("u-%d", i))

		if _, err := f.svc.Register(ctx, fmt.Sprintf("u-%d", i), "ev-1"); err != nil {
			t.Fatalf("register u-%d: %v", i, err)
		}
	}

	// waitlist is u-2..u-5 at positions 1..4; drop u-3 (position 2)
	if err := f.svc.Unregister(ctx, "u-3", "ev-1"); err != nil {
		t.Fatalf("unregister: %v", err)
	}

	// u-1 keeps its slot, no promotion happened
	active, err := f.store.FindByUserAndEvent(ctx, "u-1", "ev-1")
	if err != nil || active.Status != registration.StatusActive {
		t.Fatalf("u-1 should still be active, got (%v, %v)", active.Status, err)
	}

	assertWaitlist(t, f.store, "ev-1", []string{"u-2", "u-4", "u-5"})
}

func TestUnregisterActiveEmptyWaitlist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEvent(t, "ev-1", 2, true)
	f.addUser(t, "u-1")

	if _, err := f.svc.Register(ctx, "u-1", "ev-1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := f.svc.Unregister(ctx, "u-1", "ev-1"); err != nil {
		t.Fatalf("unregister: %v", err)
	}

	if _, err := f.store.FindByUserAndEvent(ctx, "u-1", "ev-1"); !errors.Is(err, registration.ErrNotFound) {
		t.Fatalf("registration still present after unregister")
	}
}

func TestUnregisterMissing(t *testing.T) {
	f := newFixture(t)

	f.addEvent(t, "ev-1", 1, true)
	f.addUser(t, "u-1")

	err := f.svc.Unregister(context.Background(), "u-1", "ev-1")

	if !errors.Is(err, registration.ErrNotFound) {
		t.Fatalf("got err %v, want ErrNotFound", err)
	}
}

func TestUserRegistrationsActiveOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addUser(t, "u-1")
	f.addUser(t, "u-2")
	f.addEvent(t, "ev-1", 2, true)
	f.addEvent(t, "ev-2", 1, true)

	if _, err := f.svc.Register(ctx, "u-1", "ev-1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	// fill ev-2 so u-1 lands on its waitlist
	if _, err := f.svc.Register(ctx, "u-2", "ev-2"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := f.svc.Register(ctx, "u-1", "ev-2"); err != nil {
		t.Fatalf("register: %v", err)
	}

	events, err := f.svc.UserRegistrations(ctx, "u-1")

	if err != nil {
		t.Fatalf("user registrations: %v", err)
	}

	if len(events) != 1 || events[0].EventID != "ev-1" {
		t.Fatalf("got %d events, want just ev-1", len(events))
	}
}

func TestUserRegistrationsSkipsStaleEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addUser(t, "u-1")
	f.addEvent(t, "ev-1", 2, true)
	f.addEvent(t, "ev-2", 2, true)

	for _, ev := range []string{"ev-1", "ev-2"} {
		if _, err := f.svc.Register(ctx, "u-1", ev); err != nil {
			t.Fatalf("register %s: %v", ev, err)
		}
	}

	// the event is deleted out from under its registrations
	if err := f.events.Delete(ctx, "ev-2"); err != nil {
		t.Fatalf("delete event: %v", err)
	}

	events, err := f.svc.UserRegistrations(ctx, "u-1")

	if err != nil {
		t.Fatalf("user registrations: %v", err)
	}

	if len(events) != 1 || events[0].EventID != "ev-1" {
		t.Fatalf("stale event was not skipped, got %d events", len(events))
	}
}

func TestEventRegistrationsIncludesWaitlist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEvent(t, "ev-1", 1, true)
	f.addUser(t, "u-1")
	f.addUser(t, "u-2")

	for _, id := range []string{"u-1", "u-2"} {
		if _, err := f.svc.Register(ctx, id, "ev-1"); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}

	regs, err := f.svc.EventRegistrations(ctx, "ev-1")

	if err != nil {
		t.Fatalf("event registrations: %v", err)
	}

	if len(regs) != 2 {
		t.Fatalf("got %d registrations, want 2", len(regs))
	}

	_, err = f.svc.EventRegistrations(ctx, "missing")

	if !errors.Is(err, event.ErrNotFound) {
		t.Fatalf("got err %v, want event.ErrNotFound", err)
	}
}

func TestRegisterAndPromotionEnqueueNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEvent(t, "ev-1", 1, true)
	f.addUser(t, "u-1")
	f.addUser(t, "u-2")

	if _, err := f.svc.Register(ctx, "u-1", "ev-1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := f.svc.Register(ctx, "u-2", "ev-1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := f.svc.Unregister(ctx, "u-1", "ev-1"); err != nil {
		t.Fatalf("unregister: %v", err)
	}

	want := []notifications.Kind{
		notifications.KindRegistrationConfirmed,
		notifications.KindRegistrationWaitlisted,
		notifications.KindWaitlistPromoted,
	}

	if len(f.queue.sent) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(f.queue.sent), len(want))
	}

	for i, kind := range want {
		if f.queue.sent[i].Kind != kind {
			t.Fatalf("notification %d: got kind %q, want %q", i, f.queue.sent[i].Kind, kind)
		}
	}
}

// assertWaitlist verifies order and that positions are a dense 1..N run.

func assertWaitlist(t *testing.T, store *memory.RegistrationsRepo, eventID string, wantUsers []string) {
	t.Helper()

	waitlist, err := store.WaitlistByEvent(context.Background(), eventID)

	if err != nil {
		t.Fatalf("waitlist: %v", err)
	}

	if len(waitlist) != len(wantUsers) {
		t.Fatalf("waitlist has %d entries, want %d", len(waitlist), len(wantUsers))
	}

	for i, reg := range waitlist {
		if reg.UserID != wantUsers[i] {
			t.Fatalf("waitlist[%d] = %s, want %s", i, reg.UserID, wantUsers[i])
		}
		if reg.WaitlistPosition == nil || *reg.WaitlistPosition != i+1 {
			t.Fatalf("waitlist[%d] position = %v, want %d", i, reg.WaitlistPosition, i+1)
		}
	}
}
