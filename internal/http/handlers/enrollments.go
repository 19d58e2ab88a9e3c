package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/koinonia/internal/config"
	"github.com/geocoder89/koinonia/internal/domain/enrollment"
	"github.com/geocoder89/koinonia/internal/domain/event"
	"github.com/geocoder89/koinonia/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type EnrollmentStore interface {
	AddParticipants(ctx context.Context, eventID, userID int64, requested []enrollment.Participant) (enrollment.AddResult, error)
	ListActive(ctx context.Context, eventID, userID int64) ([]enrollment.Enrollment, error)
	Cancel(ctx context.Context, eventID, userID int64) (int64, error)
}

type EnrollmentsHandler struct {
	repo EnrollmentStore
}

func NewEnrollmentsHandler(repo EnrollmentStore) *EnrollmentsHandler {
	return &EnrollmentsHandler{repo: repo}
}

type addParticipantsResponse struct {
	Message string                  `json:"message"`
	EventID int64                   `json:"eventId"`
	UserID  int64                   `json:"userId"`
	Added   []enrollment.Enrollment `json:"added"`
}

type participantView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Age  *int   `json:"age"`
}

func (h *EnrollmentsHandler) AddParticipants(ctx *gin.Context) {
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req enrollment.AddParticipantsRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	res, err := h.repo.AddParticipants(cctx, eventID, req.UserID, req.Participants)

	if err != nil {
		switch {
		case errors.Is(err, event.ErrNotFound):
			RespondNotFound(ctx, "Event not found")
		case errors.Is(err, user.ErrNotFound):
			RespondNotFound(ctx, "User not found")
		default:
			RespondInternal(ctx, "Could not enroll participants", err)
		}
		return
	}

	if res.NothingAdded() {
		ctx.JSON(http.StatusOK, addParticipantsResponse{
			Message: "All participants are already enrolled.",
			EventID: eventID,
			UserID:  req.UserID,
			Added:   []enrollment.Enrollment{},
		})
		return
	}

	ctx.JSON(http.StatusCreated, addParticipantsResponse{
		Message: "Participants enrolled.",
		EventID: eventID,
		UserID:  req.UserID,
		Added:   res.Added,
	})
}

func (h *EnrollmentsHandler) GetParticipants(ctx *gin.Context) {
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := pathID(ctx, "userId")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	rows, err := h.repo.ListActive(cctx, eventID, userID)

	if err != nil {
		if errors.Is(err, enrollment.ErrNotFound) {
			RespondNotFound(ctx, "No active enrollment for this user and event")
			return
		}
		RespondInternal(ctx, "Could not fetch enrollment", err)
		return
	}

	participants := make([]participantView, 0, len(rows))
	for _, r := range rows {
		participants = append(participants, participantView{ID: r.ID, Name: r.Name, Age: r.Age})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"userId":       userID,
		"eventId":      eventID,
		"participants": participants,
	})
}

func (h *EnrollmentsHandler) CancelEnrollment(ctx *gin.Context) {
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := pathID(ctx, "userId")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	n, err := h.repo.Cancel(cctx, eventID, userID)

	if err != nil {
		if errors.Is(err, enrollment.ErrNotFound) {
			RespondNotFound(ctx, "No active enrollment for this user and event")
			return
		}
		RespondInternal(ctx, "Could not cancel enrollment", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":   "Enrollment cancelled.",
		"cancelled": n,
	})
}
