package event

import (
	"errors"
	"time"
)

type Event struct {
	EventID         string    `json:"eventId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            string    `json:"date"`
	Location        string    `json:"location"`
	Capacity        int       `json:"capacity"`
	Organizer       string    `json:"organizer"`
	Status          string    `json:"status"`
	WaitlistEnabled bool      `json:"waitlistEnabled"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("event not found")

type CreateEventRequest struct {
	// optional, generated when absent
	EventID         string `json:"eventId" binding:"omitempty,min=1,max=200"`
	Title           string `json:"title" binding:"required,min=1,max=200"`
	Description     string `json:"description" binding:"required,min=1,max=2000"`
	Date            string `json:"date" binding:"required,datetime=2006-01-02"`
	Location        string `json:"location" binding:"required,min=1,max=500"`
	Capacity        int    `json:"capacity" binding:"required,min=1"`
	Organizer       string `json:"organizer" binding:"required,min=1,max=200"`
	Status          string `json:"status" binding:"required,oneof=active scheduled ongoing completed cancelled"`
	WaitlistEnabled bool   `json:"waitlistEnabled"`
}

// partial update payload, nil fields are left untouched
type UpdateEventRequest struct {
	Title           *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description     *string `json:"description" binding:"omitempty,min=1,max=2000"`
	Date            *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Location        *string `json:"location" binding:"omitempty,min=1,max=500"`
	Capacity        *int    `json:"capacity" binding:"omitempty,min=1"`
	Organizer       *string `json:"organizer" binding:"omitempty,min=1,max=200"`
	Status          *string `json:"status" binding:"omitempty,oneof=active scheduled ongoing completed cancelled"`
	WaitlistEnabled *bool   `json:"waitlistEnabled"`
}

// with pointers if optional, it will be nil
type ListEventsFilter struct {
	Status *string
}
