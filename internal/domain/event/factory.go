package event

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreateEventRequest) Event {
	now := time.Now().UTC()

	id := req.EventID

	if id == "" {
		id = uuid.NewString()
	}

	return Event{
		EventID:         id,
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		Location:        req.Location,
		Capacity:        req.Capacity,
		Organizer:       req.Organizer,
		Status:          req.Status,
		WaitlistEnabled: req.WaitlistEnabled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ApplyUpdate copies the non-nil fields of the patch onto e and bumps UpdatedAt.

func ApplyUpdate(e Event, req UpdateEventRequest) Event {
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Date != nil {
		e.Date = *req.Date
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.Capacity != nil {
		e.Capacity = *req.Capacity
	}
	if req.Organizer != nil {
		e.Organizer = *req.Organizer
	}
	if req.Status != nil {
		e.Status = *req.Status
	}
	if req.WaitlistEnabled != nil {
		e.WaitlistEnabled = *req.WaitlistEnabled
	}

	e.UpdatedAt = time.Now().UTC()

	return e
}
