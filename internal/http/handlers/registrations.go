package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gatherhub/gatherhub/internal/config"
	"github.com/gatherhub/gatherhub/internal/domain/event"
	"github.com/gatherhub/gatherhub/internal/domain/registration"
	"github.com/gatherhub/gatherhub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type RegistrationEngine interface {
	Register(ctx context.Context, userID, eventID string) (registration.Registration, error)
	Unregister(ctx context.Context, userID, eventID string) error
	UserRegistrations(ctx context.Context, userID string) ([]event.Event, error)
	EventRegistrations(ctx context.Context, eventID string) ([]registration.Registration, error)
}

type RegistrationsHandler struct {
	engine RegistrationEngine
}

func NewRegistrationsHandler(engine RegistrationEngine) *RegistrationsHandler {
	return &RegistrationsHandler{engine: engine}
}

func (h *RegistrationsHandler) Register(ctx *gin.Context) {
	eventID := ctx.Param("id")

	var req registration.CreateRegistrationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// force URL param as the source of truth
	req.EventID = eventID

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	reg, err := h.engine.Register(cctx, req.UserID, req.EventID)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			RespondNotFound(ctx, "User not found")
		case errors.Is(err, event.ErrNotFound):
			RespondNotFound(ctx, "Event not found")
		case errors.Is(err, registration.ErrDuplicate):
			RespondConflict(ctx, "already_registered", "this user is already registered for this event.")
		case errors.Is(err, registration.ErrEventFull):
			RespondConflict(ctx, "event_full", "this event is at full capacity and has no waitlist.")
		default:
			RespondInternal(ctx, "Could not register for event")
		}
		return
	}

	ctx.JSON(http.StatusCreated, reg)
}

func (h *RegistrationsHandler) ListForEvent(ctx *gin.Context) {
	eventID := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	regs, err := h.engine.EventRegistrations(cctx, eventID)

	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}

		RespondInternal(ctx, "Could not list registrations")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"eventId":       eventID,
		"count":         len(regs),
		"registrations": regs,
	})
}

func (h *RegistrationsHandler) Unregister(ctx *gin.Context) {
	eventID := ctx.Param("id")
	userID := ctx.Param("userId")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.engine.Unregister(cctx, userID, eventID)

	if err != nil {
		if errors.Is(err, registration.ErrNotFound) {
			RespondNotFound(ctx, "Registration not found")
			return
		}

		RespondInternal(ctx, "Could not cancel registration")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *RegistrationsHandler) ListForUser(ctx *gin.Context) {
	userID := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	events, err := h.engine.UserRegistrations(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list registrations")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"userId": userID,
		"count":  len(events),
		"events": events,
	})
}
