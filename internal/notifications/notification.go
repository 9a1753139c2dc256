package notifications

import (
	"errors"
	"time"

	"github.com/gatherhub/gatherhub/internal/domain/registration"
)

type Kind string

const (
	KindRegistrationConfirmed  Kind = "registration_confirmed"
	KindRegistrationWaitlisted Kind = "registration_waitlisted"
	KindWaitlistPromoted       Kind = "waitlist_promoted"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindRegistrationConfirmed, KindRegistrationWaitlisted, KindWaitlistPromoted:
		return true
	}
	return false
}

var (
	ErrInvalidKind    = errors.New("invalid notification kind")
	ErrInvalidPayload = errors.New("invalid notification payload")
)

// Notification is the message placed on the queue. Keep it minimal and
// ID-based; the consumer does not need full records.
type Notification struct {
	Kind             Kind      `json:"kind"`
	RegistrationID   string    `json:"registrationId"`
	UserID           string    `json:"userId"`
	EventID          string    `json:"eventId"`
	WaitlistPosition *int      `json:"waitlistPosition,omitempty"`
	OccurredAt       time.Time `json:"occurredAt"`
}

func New(kind Kind, reg registration.Registration) Notification {
	return Notification{
		Kind:             kind,
		RegistrationID:   reg.RegistrationID,
		UserID:           reg.UserID,
		EventID:          reg.EventID,
		WaitlistPosition: reg.WaitlistPosition,
		OccurredAt:       time.Now().UTC(),
	}
}
