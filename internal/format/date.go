package format

import (
	"regexp"
	"strings"
	"time"
)

const brDateLayout = "02/01/2006"

var brDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// ISO layouts accepted as a fallback, most specific first.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseEventDate reads either a strict DD/MM/YYYY date or an ISO-8601 string
// and returns the UTC midnight of the resulting calendar day.
func ParseEventDate(input string) (time.Time, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, false
	}

	if brDatePattern.MatchString(s) {
		t, err := time.ParseInLocation(brDateLayout, s, time.UTC)
		if err != nil {
			// 31/02/2025 and friends
			return time.Time{}, false
		}
		return t, true
	}

	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return truncateToDay(t), true
		}
	}

	return time.Time{}, false
}

// FormatEventDate renders a stored event date as DD/MM/YYYY.
func FormatEventDate(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}

	s := t.UTC().Format(brDateLayout)
	return &s
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
