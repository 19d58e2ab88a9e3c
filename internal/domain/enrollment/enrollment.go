package enrollment

import (
	"errors"
	"time"
)

const (
	StatusEnrolled  = "enrolled"
	StatusCancelled = "cancelled"
)

// Enrollment is one participant's registration for one event. A user may
// hold several rows for the same event, one per participant.
type Enrollment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	EventID   int64     `json:"-"`
	Name      string    `json:"name"`
	Age       *int      `json:"age"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrNotFound means there is no active enrollment for the (event, user) pair.
var ErrNotFound = errors.New("enrollment not found")

type Participant struct {
	Name string `json:"name" binding:"required,notblank,max=120"`
	Age  *int   `json:"age" binding:"omitempty,gte=0,lte=150"`
}

type AddParticipantsRequest struct {
	UserID       int64         `json:"userId" binding:"required,gt=0"`
	Participants []Participant `json:"participants" binding:"required,min=1,max=50,dive"`
}

// AddResult reports the rows inserted by one add-participants call.
// Added is empty when every requested participant was already enrolled.
type AddResult struct {
	EventID int64
	UserID  int64
	Added   []Enrollment
}

func (r AddResult) NothingAdded() bool {
	return len(r.Added) == 0
}
