package event

import "github.com/geocoder89/koinonia/internal/format"

// View is the external representation of an event.
type View struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Description      *string `json:"description"`
	Attractions      *string `json:"attractions"`
	Location         string  `json:"location"`
	Date             *string `json:"date"`
	Price            string  `json:"price"`
	ImageURL         *string `json:"imageUrl"`
	SubscribersCount int64   `json:"subscribersCount"`
}

type UserView struct {
	View
	ParticipantsCount int64 `json:"participantsCount"`
}

func Project(l Listing) View {
	date := l.Date

	return View{
		ID:               l.ID,
		Title:            l.Title,
		Description:      l.Description,
		Attractions:      l.Attractions,
		Location:         l.Location,
		Date:             format.FormatEventDate(&date),
		Price:            format.FormatPrice(l.PriceCents, l.IsFree),
		ImageURL:         l.ImageURL,
		SubscribersCount: nonNegative(l.Subscribers),
	}
}

func ProjectAll(ls []Listing) []View {
	out := make([]View, 0, len(ls))
	for _, l := range ls {
		out = append(out, Project(l))
	}
	return out
}

func ProjectForUser(ul UserListing) UserView {
	return UserView{
		View:              Project(ul.Listing),
		ParticipantsCount: ul.Participants,
	}
}

func nonNegative(n *int64) int64 {
	if n == nil || *n < 0 {
		return 0
	}
	return *n
}
