package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/koinonia/internal/domain/enrollment"
	"github.com/geocoder89/koinonia/internal/domain/event"
	"github.com/geocoder89/koinonia/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test
func init() {
	gin.SetMode(gin.TestMode)
}

type fakeEventsRepo struct {
	createFn       func(ctx context.Context, in event.NewEvent) (event.Event, error)
	listFn         func(ctx context.Context) ([]event.Listing, error)
	getFn          func(ctx context.Context, id int64) (event.Listing, error)
	listEnrolledFn func(ctx context.Context, userID int64) ([]event.UserListing, error)
}

func (f *fakeEventsRepo) Create(ctx context.Context, in event.NewEvent) (event.Event, error) {
	if f.createFn != nil {
		return f.createFn(ctx, in)
	}
	return event.Event{}, nil
}

func (f *fakeEventsRepo) List(ctx context.Context) ([]event.Listing, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeEventsRepo) GetByID(ctx context.Context, id int64) (event.Listing, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return event.Listing{}, nil
}

func (f *fakeEventsRepo) ListEnrolledByUser(ctx context.Context, userID int64) ([]event.UserListing, error) {
	if f.listEnrolledFn != nil {
		return f.listEnrolledFn(ctx, userID)
	}
	return nil, nil
}

type fakeEnrollmentsRepo struct {
	addFn    func(ctx context.Context, eventID, userID int64, ps []enrollment.Participant) (enrollment.AddResult, error)
	listFn   func(ctx context.Context, eventID, userID int64) ([]enrollment.Enrollment, error)
	cancelFn func(ctx context.Context, eventID, userID int64) (int64, error)
}

func (f *fakeEnrollmentsRepo) AddParticipants(ctx context.Context, eventID, userID int64, ps []enrollment.Participant) (enrollment.AddResult, error) {
	if f.addFn != nil {
		return f.addFn(ctx, eventID, userID, ps)
	}
	return enrollment.AddResult{}, nil
}

func (f *fakeEnrollmentsRepo) ListActive(ctx context.Context, eventID, userID int64) ([]enrollment.Enrollment, error) {
	if f.listFn != nil {
		return f.listFn(ctx, eventID, userID)
	}
	return nil, nil
}

func (f *fakeEnrollmentsRepo) Cancel(ctx context.Context, eventID, userID int64) (int64, error) {
	if f.cancelFn != nil {
		return f.cancelFn(ctx, eventID, userID)
	}
	return 0, nil
}

type fakeUsersRepo struct {
	createFn     func(ctx context.Context, name, email, hash, role string) (user.User, error)
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
}

func (f *fakeUsersRepo) Create(ctx context.Context, name, email, hash, role string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, name, email, hash, role)
	}
	return user.User{}, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return user.User{}, user.ErrNotFound
}

func serve(r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v body=%s", err, w.Body.String())
	}
	return resp.Error.Code
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d, body=%s", w.Code, status, w.Body.String())
	}
}
