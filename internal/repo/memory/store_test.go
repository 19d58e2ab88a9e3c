package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/koinonia/internal/domain/enrollment"
	"github.com/geocoder89/koinonia/internal/domain/event"
	"github.com/geocoder89/koinonia/internal/domain/user"
)

func seed(t *testing.T) (*Store, int64, int64) {
	t.Helper()
	s := NewStore()
	ctx := context.Background()

	u, err := s.Users().Create(ctx, "Ana", "ana@example.com", "hash", "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	e, err := s.Events().Create(ctx, event.NewEvent{
		Title:    "Retiro",
		Location: "Sítio",
		Date:     time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC),
		IsFree:   true,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return s, u.ID, e.ID
}

func TestUsers_DuplicateEmail(t *testing.T) {
	s, _, _ := seed(t)

	_, err := s.Users().Create(context.Background(), "Ana", "ana@example.com", "x", "")
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestEvents_ListOrderedByDateThenID(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	d := func(day int) time.Time { return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC) }

	for _, day := range []int{20, 10, 20} {
		if _, err := s.Events().Create(ctx, event.NewEvent{Title: "e", Location: "l", Date: d(day)}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := s.Events().List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	got := []int64{list[0].ID, list[1].ID, list[2].ID}
	want := []int64{2, 1, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestEvents_UnknownCreator(t *testing.T) {
	s := NewStore()
	missing := int64(7)

	_, err := s.Events().Create(context.Background(), event.NewEvent{Title: "e", Location: "l", CreatedByID: &missing})
	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected user.ErrNotFound, got %v", err)
	}
}

func TestEnrollments_AddIsAdditive(t *testing.T) {
	s, userID, eventID := seed(t)
	ctx := context.Background()
	age := 30

	res, err := s.Enrollments().AddParticipants(ctx, eventID, userID, []enrollment.Participant{{Name: "Ana", Age: &age}, {Name: "Bia"}})
	if err != nil || len(res.Added) != 2 {
		t.Fatalf("first add: %v %+v", err, res)
	}

	res, err = s.Enrollments().AddParticipants(ctx, eventID, userID, []enrollment.Participant{{Name: " ANA ", Age: &age}, {Name: "Bia"}})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if !res.NothingAdded() {
		t.Fatalf("expected nothing added, got %+v", res.Added)
	}

	l, _ := s.Events().GetByID(ctx, eventID)
	if *l.Subscribers != 2 {
		t.Fatalf("subscribers = %d, want 2", *l.Subscribers)
	}
}

func TestEnrollments_NotFoundCases(t *testing.T) {
	s, userID, eventID := seed(t)
	ctx := context.Background()
	ps := []enrollment.Participant{{Name: "Ana"}}

	if _, err := s.Enrollments().AddParticipants(ctx, 99, userID, ps); !errors.Is(err, event.ErrNotFound) {
		t.Fatalf("unknown event: %v", err)
	}
	if _, err := s.Enrollments().AddParticipants(ctx, eventID, 99, ps); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("unknown user: %v", err)
	}
	if _, err := s.Enrollments().ListActive(ctx, eventID, userID); !errors.Is(err, enrollment.ErrNotFound) {
		t.Fatalf("list with none: %v", err)
	}
	if _, err := s.Enrollments().Cancel(ctx, eventID, userID); !errors.Is(err, enrollment.ErrNotFound) {
		t.Fatalf("cancel with none: %v", err)
	}
}

func TestEnrollments_CancelThenEnrolledEvents(t *testing.T) {
	s, userID, eventID := seed(t)
	ctx := context.Background()

	if _, err := s.Enrollments().AddParticipants(ctx, eventID, userID, []enrollment.Participant{{Name: "Ana"}, {Name: "Bia"}}); err != nil {
		t.Fatalf("add: %v", err)
	}

	mine, err := s.Events().ListEnrolledByUser(ctx, userID)
	if err != nil || len(mine) != 1 || mine[0].Participants != 2 {
		t.Fatalf("enrolled events: %v %+v", err, mine)
	}

	n, err := s.Enrollments().Cancel(ctx, eventID, userID)
	if err != nil || n != 2 {
		t.Fatalf("cancel: %d %v", n, err)
	}

	mine, err = s.Events().ListEnrolledByUser(ctx, userID)
	if err != nil || len(mine) != 0 {
		t.Fatalf("after cancel: %v %+v", err, mine)
	}

	if _, err := s.Events().ListEnrolledByUser(ctx, 99); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("unknown user: %v", err)
	}
}
