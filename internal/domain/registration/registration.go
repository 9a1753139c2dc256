package registration

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusWaitlisted Status = "waitlisted"
)

type Registration struct {
	RegistrationID string `json:"registrationId"`
	UserID         string `json:"userId"`
	EventID        string `json:"eventId"`
	Status         Status `json:"status"`
	// set iff Status == StatusWaitlisted, positions run 1..N
	WaitlistPosition *int      `json:"waitlistPosition,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// if the (user,event) pair is already registered.
var ErrDuplicate = errors.New("registration already exists")

// error if event is full and has no waitlist
var ErrEventFull = errors.New("event is at full capacity")
var ErrNotFound = errors.New("registration not found")

type CreateRegistrationRequest struct {
	EventID string `json:"-"`
	UserID  string `json:"userId" binding:"required,min=1,max=200"`
}

// NewActive builds a confirmed registration holding a capacity slot.

func NewActive(userID, eventID string) Registration {
	return Registration{
		RegistrationID: uuid.NewString(),
		UserID:         userID,
		EventID:        eventID,
		Status:         StatusActive,
		CreatedAt:      time.Now().UTC(),
	}
}

// NewWaitlisted builds a queued registration at the given 1-based position.

func NewWaitlisted(userID, eventID string, position int) Registration {
	return Registration{
		RegistrationID:   uuid.NewString(),
		UserID:           userID,
		EventID:          eventID,
		Status:           StatusWaitlisted,
		WaitlistPosition: &position,
		CreatedAt:        time.Now().UTC(),
	}
}
