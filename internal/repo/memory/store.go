package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/geocoder89/koinonia/internal/domain/enrollment"
	"github.com/geocoder89/koinonia/internal/domain/event"
	"github.com/geocoder89/koinonia/internal/domain/user"
)

// Store keeps users, events and enrollments in process memory behind one
// lock. It backs tests and local runs without Postgres.
type Store struct {
	mu sync.RWMutex

	users       map[int64]user.User
	events      map[int64]event.Event
	enrollments []enrollment.Enrollment

	nextUserID       int64
	nextEventID      int64
	nextEnrollmentID int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:  make(map[int64]user.User),
		events: make(map[int64]event.Event),
		now:    time.Now,
	}
}

func (s *Store) Users() *UsersRepo             { return &UsersRepo{s: s} }
func (s *Store) Events() *EventsRepo           { return &EventsRepo{s: s} }
func (s *Store) Enrollments() *EnrollmentsRepo { return &EnrollmentsRepo{s: s} }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

type UsersRepo struct{ s *Store }

func (r *UsersRepo) Create(_ context.Context, name, email, passwordHash, role string) (user.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return user.User{}, user.ErrEmailTaken
		}
	}

	if role == "" {
		role = user.RoleMember
	}

	s.nextUserID++
	u := user.User{
		ID:           s.nextUserID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	s.users[u.ID] = u
	return u, nil
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) GetByID(_ context.Context, id int64) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

type EventsRepo struct{ s *Store }

func (r *EventsRepo) Create(_ context.Context, in event.NewEvent) (event.Event, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.CreatedByID != nil {
		if _, ok := s.users[*in.CreatedByID]; !ok {
			return event.Event{}, user.ErrNotFound
		}
	}

	s.nextEventID++
	e := event.Event{
		ID:          s.nextEventID,
		Title:       in.Title,
		Description: in.Description,
		Attractions: in.Attractions,
		Location:    in.Location,
		Date:        in.Date,
		PriceCents:  in.PriceCents,
		IsFree:      in.IsFree,
		ImageURL:    in.ImageURL,
		CreatedByID: in.CreatedByID,
		CreatedAt:   s.now().UTC(),
	}
	s.events[e.ID] = e
	return e, nil
}

func (r *EventsRepo) List(_ context.Context) ([]event.Listing, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]event.Listing, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, s.listingLocked(e))
	}
	sortListings(out, func(i int) event.Event { return out[i].Event })
	return out, nil
}

func (r *EventsRepo) GetByID(_ context.Context, id int64) (event.Listing, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return event.Listing{}, event.ErrNotFound
	}
	return s.listingLocked(e), nil
}

func (r *EventsRepo) ListEnrolledByUser(ctx context.Context, userID int64) ([]event.UserListing, error) {
	s := r.s
	if _, err := s.Users().GetByID(ctx, userID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	mine := make(map[int64]int64)
	for _, en := range s.enrollments {
		if en.UserID == userID && en.Status == enrollment.StatusEnrolled {
			mine[en.EventID]++
		}
	}

	out := make([]event.UserListing, 0, len(mine))
	for eventID, n := range mine {
		e, ok := s.events[eventID]
		if !ok {
			continue
		}
		out = append(out, event.UserListing{Listing: s.listingLocked(e), Participants: n})
	}
	sortListings(out, func(i int) event.Event { return out[i].Event })
	return out, nil
}

func (s *Store) listingLocked(e event.Event) event.Listing {
	var n int64
	for _, en := range s.enrollments {
		if en.EventID == e.ID && en.Status == enrollment.StatusEnrolled {
			n++
		}
	}
	return event.Listing{Event: e, Subscribers: &n}
}

func sortListings[T any](items []T, at func(i int) event.Event) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := at(i), at(j)
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ID < b.ID
	})
}

type EnrollmentsRepo struct{ s *Store }

// AddParticipants applies the same additive reconcile as the Postgres store
// under the store lock.
func (r *EnrollmentsRepo) AddParticipants(_ context.Context, eventID, userID int64, requested []enrollment.Participant) (enrollment.AddResult, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[eventID]; !ok {
		return enrollment.AddResult{}, event.ErrNotFound
	}
	if _, ok := s.users[userID]; !ok {
		return enrollment.AddResult{}, user.ErrNotFound
	}

	res := enrollment.AddResult{EventID: eventID, UserID: userID, Added: []enrollment.Enrollment{}}

	for _, p := range enrollment.Reconcile(s.activeLocked(eventID, userID), requested) {
		s.nextEnrollmentID++
		en := enrollment.Enrollment{
			ID:        s.nextEnrollmentID,
			UserID:    userID,
			EventID:   eventID,
			Name:      strings.TrimSpace(p.Name),
			Age:       p.Age,
			Status:    enrollment.StatusEnrolled,
			CreatedAt: s.now().UTC(),
		}
		s.enrollments = append(s.enrollments, en)
		res.Added = append(res.Added, en)
	}

	return res, nil
}

func (r *EnrollmentsRepo) ListActive(_ context.Context, eventID, userID int64) ([]enrollment.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := r.s.activeLocked(eventID, userID)
	if len(out) == 0 {
		return nil, enrollment.ErrNotFound
	}
	return out, nil
}

func (r *EnrollmentsRepo) Cancel(_ context.Context, eventID, userID int64) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for i := range s.enrollments {
		en := &s.enrollments[i]
		if en.EventID == eventID && en.UserID == userID && en.Status == enrollment.StatusEnrolled {
			en.Status = enrollment.StatusCancelled
			n++
		}
	}
	if n == 0 {
		return 0, enrollment.ErrNotFound
	}
	return n, nil
}

func (s *Store) activeLocked(eventID, userID int64) []enrollment.Enrollment {
	var out []enrollment.Enrollment
	for _, en := range s.enrollments {
		if en.EventID == eventID && en.UserID == userID && en.Status == enrollment.StatusEnrolled {
			out = append(out, en)
		}
	}
	return out
}
