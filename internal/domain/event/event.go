package event

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Event is a stored event row.
type Event struct {
	ID          int64
	Title       string
	Description *string
	Attractions *string
	Location    string
	Date        time.Time // UTC midnight
	PriceCents  int64
	IsFree      bool
	ImageURL    *string
	CreatedByID *int64
	CreatedAt   time.Time
}

// Listing is an event joined with its aggregated active enrollment count.
// Subscribers is nil when the aggregate came back NULL.
type Listing struct {
	Event
	Subscribers *int64
}

// UserListing is a Listing seen from one user: how many of that user's
// participants are actively enrolled.
type UserListing struct {
	Listing
	Participants int64
}

var ErrNotFound = errors.New("event not found")

type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,notblank,max=200"`
	Date        string    `json:"date" binding:"required,notblank"`
	Location    string    `json:"location" binding:"required,notblank,max=200"`
	Price       PriceText `json:"price" binding:"max=40"`
	Description *string   `json:"description" binding:"omitempty,max=5000"`
	Attractions *string   `json:"attractions" binding:"omitempty,max=5000"`
	ImageURL    *string   `json:"imageUrl" binding:"omitempty,url,max=2048"`
	CreatedByID *int64    `json:"createdById" binding:"omitempty,gt=0"`
}

// PriceText is the raw price input. Clients send either text ("R$ 25,90",
// "Gratuito") or a bare JSON number; numbers are rewritten with a decimal
// comma so 25.9 reads as 25,90 and not as a thousands-grouped 259.
type PriceText string

func (p *PriceText) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))

	switch {
	case raw == "null":
		*p = ""
		return nil
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = PriceText(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return &json.UnmarshalTypeError{Value: "non-price value", Type: reflect.TypeOf("")}
	}

	f, err := n.Float64()
	if err != nil {
		return &json.UnmarshalTypeError{Value: "number " + raw, Type: reflect.TypeOf("")}
	}

	*p = PriceText(strings.Replace(strconv.FormatFloat(f, 'f', -1, 64), ".", ",", 1))
	return nil
}

// NewEvent is the validated, normalized input for a store insert.
type NewEvent struct {
	Title       string
	Description *string
	Attractions *string
	Location    string
	Date        time.Time
	PriceCents  int64
	IsFree      bool
	ImageURL    *string
	CreatedByID *int64
}
