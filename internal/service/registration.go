// Package service holds the registration engine: the state machine that
// decides active vs waitlisted on signup and promotes waitlisted users in
// FIFO order when a confirmed slot frees up.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gatherhub/gatherhub/internal/domain/event"
	"github.com/gatherhub/gatherhub/internal/domain/registration"
	"github.com/gatherhub/gatherhub/internal/domain/user"
	"github.com/gatherhub/gatherhub/internal/notifications"
)

// RegistrationStore is keyed persistence for registration records,
// addressable by the (userID, eventID) composite key.
type RegistrationStore interface {
	Save(ctx context.Context, reg registration.Registration) error
	Delete(ctx context.Context, userID, eventID string) error
	FindByUserAndEvent(ctx context.Context, userID, eventID string) (registration.Registration, error)
	FindByUser(ctx context.Context, userID string) ([]registration.Registration, error)
	FindByEvent(ctx context.Context, eventID string) ([]registration.Registration, error)
	CountActiveByEvent(ctx context.Context, eventID string) (int, error)
	WaitlistByEvent(ctx context.Context, eventID string) ([]registration.Registration, error)
}

type UserDirectory interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type EventDirectory interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
}

// Enqueuer hands a notification to the async pipeline. Failures are
// logged, never surfaced to the caller.
type Enqueuer interface {
	Enqueue(ctx context.Context, n notifications.Notification) error
}

type RegistrationService struct {
	store  RegistrationStore
	users  UserDirectory
	events EventDirectory
	queue  Enqueuer
	locks  *keyedMutex
	log    *slog.Logger
}

func NewRegistrationService(store RegistrationStore, users UserDirectory, events EventDirectory, queue Enqueuer, log *slog.Logger) *RegistrationService {
	return &RegistrationService{
		store:  store,
		users:  users,
		events: events,
		queue:  queue,
		locks:  newKeyedMutex(),
		log:    log,
	}
}

// Register signs a user up for an event. The result is active when a
// capacity slot is free, waitlisted at the next position when the event
// is full with the waitlist enabled, and registration.ErrEventFull
// otherwise. Check order is fixed: user, event, duplicate, capacity.
func (s *RegistrationService) Register(ctx context.Context, userID, eventID string) (registration.Registration, error) {
	s.locks.Lock(eventID)
	defer s.locks.Unlock(eventID)

	_, err := s.users.GetByID(ctx, userID)

	if err != nil {
		return registration.Registration{}, err
	}

	ev, err := s.events.GetByID(ctx, eventID)

	if err != nil {
		return registration.Registration{}, err
	}

	_, err = s.store.FindByUserAndEvent(ctx, userID, eventID)

	if err == nil {
		return registration.Registration{}, registration.ErrDuplicate
	}

	if !errors.Is(err, registration.ErrNotFound) {
		return registration.Registration{}, err
	}

	activeCount, err := s.store.CountActiveByEvent(ctx, eventID)

	if err != nil {
		return registration.Registration{}, err
	}

	var reg registration.Registration

	switch {
	case activeCount < ev.Capacity:
		reg = registration.NewActive(userID, eventID)

	case ev.WaitlistEnabled:
		waitlist, err := s.store.WaitlistByEvent(ctx, eventID)

		if err != nil {
			return registration.Registration{}, err
		}

		reg = registration.NewWaitlisted(userID, eventID, len(waitlist)+1)

	default:
		return registration.Registration{}, registration.ErrEventFull
	}

	err = s.store.Save(ctx, reg)

	if err != nil {
		return registration.Registration{}, err
	}

	kind := notifications.KindRegistrationConfirmed

	if reg.Status == registration.StatusWaitlisted {
		kind = notifications.KindRegistrationWaitlisted
	}

	s.enqueue(ctx, notifications.New(kind, reg))

	return reg, nil
}

// Unregister removes a registration. If the removed record held a
// confirmed slot the front of the waitlist is promoted into it; the
// remaining waitlist is renumbered to a dense 1..N on every removal path.
func (s *RegistrationService) Unregister(ctx context.Context, userID, eventID string) error {
	s.locks.Lock(eventID)
	defer s.locks.Unlock(eventID)

	reg, err := s.store.FindByUserAndEvent(ctx, userID, eventID)

	if err != nil {
		return err
	}

	wasActive := reg.Status == registration.StatusActive

	err = s.store.Delete(ctx, userID, eventID)

	if err != nil {
		return err
	}

	waitlist, err := s.store.WaitlistByEvent(ctx, eventID)

	if err != nil {
		return err
	}

	if wasActive && len(waitlist) > 0 {
		// exactly one slot was just freed, no capacity re-check needed
		promoted := waitlist[0]
		promoted.Status = registration.StatusActive
		promoted.WaitlistPosition = nil

		err = s.store.Save(ctx, promoted)

		if err != nil {
			return err
		}

		s.enqueue(ctx, notifications.New(notifications.KindWaitlistPromoted, promoted))

		waitlist = waitlist[1:]
	}

	return s.renumber(ctx, waitlist)
}

// renumber reassigns 1-based positions in the current order, writing back
// only the entries whose position actually changed.
func (s *RegistrationService) renumber(ctx context.Context, waitlist []registration.Registration) error {
	for i := range waitlist {
		want := i + 1

		if waitlist[i].WaitlistPosition != nil && *waitlist[i].WaitlistPosition == want {
			continue
		}

		pos := want
		waitlist[i].WaitlistPosition = &pos

		err := s.store.Save(ctx, waitlist[i])

		if err != nil {
			return err
		}
	}

	return nil
}

// UserRegistrations returns the events the user holds a confirmed slot
// for. Events that can no longer be resolved are skipped, not surfaced.
func (s *RegistrationService) UserRegistrations(ctx context.Context, userID string) ([]event.Event, error) {
	regs, err := s.store.FindByUser(ctx, userID)

	if err != nil {
		return nil, err
	}

	events := make([]event.Event, 0, len(regs))

	for _, reg := range regs {
		if reg.Status != registration.StatusActive {
			continue
		}

		ev, err := s.events.GetByID(ctx, reg.EventID)

		if err != nil {
			s.log.Debug("skipping registration with unresolvable event",
				"userId", userID, "eventId", reg.EventID, "err", err)
			continue
		}

		events = append(events, ev)
	}

	return events, nil
}

// EventRegistrations returns every registration for the event, confirmed
// and waitlisted.
func (s *RegistrationService) EventRegistrations(ctx context.Context, eventID string) ([]registration.Registration, error) {
	_, err := s.events.GetByID(ctx, eventID)

	if err != nil {
		return nil, err
	}

	return s.store.FindByEvent(ctx, eventID)
}

func (s *RegistrationService) enqueue(ctx context.Context, n notifications.Notification) {
	if s.queue == nil {
		return
	}

	err := s.queue.Enqueue(ctx, n)

	if err != nil {
		s.log.Warn("notification enqueue failed", "kind", n.Kind, "registrationId", n.RegistrationID, "err", err)
	}
}
