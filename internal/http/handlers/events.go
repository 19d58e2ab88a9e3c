package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/koinonia/internal/config"
	"github.com/geocoder89/koinonia/internal/domain/event"
	"github.com/geocoder89/koinonia/internal/domain/user"
	"github.com/geocoder89/koinonia/internal/format"
	"github.com/geocoder89/koinonia/internal/http/middlewares"
	"github.com/geocoder89/koinonia/internal/sanitize"
	"github.com/gin-gonic/gin"
)

type EventStore interface {
	Create(ctx context.Context, in event.NewEvent) (event.Event, error)
	List(ctx context.Context) ([]event.Listing, error)
	GetByID(ctx context.Context, id int64) (event.Listing, error)
	ListEnrolledByUser(ctx context.Context, userID int64) ([]event.UserListing, error)
}

type EventsHandler struct {
	repo EventStore
}

func NewEventsHandler(repo EventStore) *EventsHandler {
	return &EventsHandler{repo: repo}
}

func (h *EventsHandler) CreateEvent(ctx *gin.Context) {
	var req event.CreateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	date, ok := format.ParseEventDate(req.Date)
	if !ok {
		RespondInvalid(ctx, "invalid_date", "date must be DD/MM/YYYY or an ISO date")
		return
	}

	price, err := format.ParsePrice(string(req.Price))
	if err != nil {
		RespondInvalid(ctx, "invalid_price", `price must be a number like "R$ 25,90" or "Gratuito"`)
		return
	}

	in := event.NewEvent{
		Title:       strings.TrimSpace(req.Title),
		Description: sanitize.OptionalHTML(req.Description),
		Attractions: sanitize.OptionalHTML(req.Attractions),
		Location:    strings.TrimSpace(req.Location),
		Date:        date,
		PriceCents:  price.Cents,
		IsFree:      price.IsFree,
		ImageURL:    trimmedOrNil(req.ImageURL),
		CreatedByID: req.CreatedByID,
	}

	if in.CreatedByID == nil {
		if id, ok := middlewares.IdentityFromContext(ctx); ok {
			in.CreatedByID = &id.ID
		}
	}

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	e, err := h.repo.Create(cctx, in)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "Creator user not found")
			return
		}

		RespondInternal(ctx, "Could not create event", err)
		return
	}

	var none int64
	ctx.JSON(http.StatusCreated, event.Project(event.Listing{Event: e, Subscribers: &none}))
}

func (h *EventsHandler) ListEvents(ctx *gin.Context) {
	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	listings, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list events", err)
		return
	}

	items := event.ProjectAll(listings)

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *EventsHandler) GetEventByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	l, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}
		RespondInternal(ctx, "Could not fetch event", err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, event.Project(l))
}

// ListUserEvents lists the events a user has active participants in.
func (h *EventsHandler) ListUserEvents(ctx *gin.Context) {
	userID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	listings, err := h.repo.ListEnrolledByUser(cctx, userID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Could not list enrolled events", err)
		return
	}

	items := make([]event.UserView, 0, len(listings))
	for _, l := range listings {
		items = append(items, event.ProjectForUser(l))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"userId": userID,
		"items":  items,
		"count":  len(items),
	})
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
