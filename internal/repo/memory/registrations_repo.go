package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gatherhub/gatherhub/internal/domain/registration"
)

// regKey is the composite (user,event) key. A struct key instead of the
// string-concat encoding so ids containing separators cannot collide.
type regKey struct {
	UserID  string
	EventID string
}

type RegistrationsRepo struct {
	mu    sync.RWMutex
	items map[regKey]registration.Registration
}

func NewRegistrationsRepo() *RegistrationsRepo {
	return &RegistrationsRepo{
		items: make(map[regKey]registration.Registration),
	}
}

// Save upserts by composite key.

func (r *RegistrationsRepo) Save(ctx context.Context, reg registration.Registration) error {
	r.mu.Lock()
	r.items[regKey{UserID: reg.UserID, EventID: reg.EventID}] = reg
	r.mu.Unlock()

	return nil
}

// Delete is a no-op when the record is absent.

func (r *RegistrationsRepo) Delete(ctx context.Context, userID, eventID string) error {
	r.mu.Lock()
	delete(r.items, regKey{UserID: userID, EventID: eventID})
	r.mu.Unlock()

	return nil
}

func (r *RegistrationsRepo) FindByUserAndEvent(ctx context.Context, userID, eventID string) (registration.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.items[regKey{UserID: userID, EventID: eventID}]

	if !ok {
		return registration.Registration{}, registration.ErrNotFound
	}

	return reg, nil
}

func (r *RegistrationsRepo) FindByUser(ctx context.Context, userID string) ([]registration.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]registration.Registration, 0)

	for key, reg := range r.items {
		if key.UserID == userID {
			out = append(out, reg)
		}
	}

	return out, nil
}

func (r *RegistrationsRepo) FindByEvent(ctx context.Context, eventID string) ([]registration.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]registration.Registration, 0)

	for key, reg := range r.items {
		if key.EventID == eventID {
			out = append(out, reg)
		}
	}

	// stable: confirmed slots first, then waitlist order, then arrival
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]

		if a.Status != b.Status {
			return a.Status == registration.StatusActive
		}

		if a.WaitlistPosition != nil && b.WaitlistPosition != nil {
			return *a.WaitlistPosition < *b.WaitlistPosition
		}

		return a.CreatedAt.Before(b.CreatedAt)
	})

	return out, nil
}

func (r *RegistrationsRepo) CountActiveByEvent(ctx context.Context, eventID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0

	for key, reg := range r.items {
		if key.EventID == eventID && reg.Status == registration.StatusActive {
			count++
		}
	}

	return count, nil
}

// WaitlistByEvent returns the waitlisted registrations sorted ascending by position.

func (r *RegistrationsRepo) WaitlistByEvent(ctx context.Context, eventID string) ([]registration.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]registration.Registration, 0)

	for key, reg := range r.items {
		if key.EventID == eventID && reg.Status == registration.StatusWaitlisted {
			out = append(out, reg)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		pi, pj := 0, 0
		if out[i].WaitlistPosition != nil {
			pi = *out[i].WaitlistPosition
		}
		if out[j].WaitlistPosition != nil {
			pj = *out[j].WaitlistPosition
		}
		return pi < pj
	})

	return out, nil
}
