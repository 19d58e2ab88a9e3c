package format

import (
	"errors"
	"testing"
	"time"
)

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{name: "br_date", input: "18/03/2025", want: time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "br_date_padded", input: "  01/01/2026 ", want: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "iso_date", input: "2025-03-18", want: time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "iso_datetime_utc", input: "2025-03-18T15:30:00Z", want: time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "iso_datetime_offset_crosses_day", input: "2025-03-18T22:00:00-03:00", want: time.Date(2025, 3, 19, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "not_a_date", input: "not-a-date", wantOK: false},
		{name: "empty", input: "", wantOK: false},
		{name: "impossible_br_day", input: "31/02/2025", wantOK: false},
		{name: "br_without_padding", input: "1/3/2025", wantOK: false},
		{name: "month_out_of_range", input: "10/13/2025", wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseEventDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseEventDate(%q) ok=%v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Fatalf("ParseEventDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatEventDateIsLeftInverse(t *testing.T) {
	inputs := []string{"18/03/2025", "01/01/2026", "29/02/2024", "31/12/1999", "05/07/2030"}

	for _, in := range inputs {
		d, ok := ParseEventDate(in)
		if !ok {
			t.Fatalf("ParseEventDate(%q) failed", in)
		}

		out := FormatEventDate(&d)
		if out == nil || *out != in {
			t.Fatalf("FormatEventDate(ParseEventDate(%q)) = %v", in, out)
		}
	}
}

func TestFormatEventDateNil(t *testing.T) {
	if got := FormatEventDate(nil); got != nil {
		t.Fatalf("expected nil, got %q", *got)
	}

	var zero time.Time
	if got := FormatEventDate(&zero); got != nil {
		t.Fatalf("expected nil for zero time, got %q", *got)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Price
	}{
		{name: "free_word", input: "Gratuito", want: Price{Cents: 0, IsFree: true}},
		{name: "free_word_lowercase", input: "entrada gratis", want: Price{Cents: 0, IsFree: true}},
		{name: "free_english", input: "FREE", want: Price{Cents: 0, IsFree: true}},
		{name: "empty", input: "", want: Price{Cents: 0, IsFree: true}},
		{name: "whitespace", input: "   ", want: Price{Cents: 0, IsFree: true}},
		{name: "currency", input: "R$ 25,90", want: Price{Cents: 2590}},
		{name: "thousands", input: "R$ 1.234,56", want: Price{Cents: 123456}},
		{name: "integer", input: "40", want: Price{Cents: 4000}},
		{name: "one_decimal", input: "10,5", want: Price{Cents: 1050}},
		{name: "rounds_half_cent", input: "0,005", want: Price{Cents: 1}},
		{name: "zero_is_free", input: "R$ 0,00", want: Price{Cents: 0, IsFree: true}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if err != nil {
				t.Fatalf("ParsePrice(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("ParsePrice(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if got.IsFree && got.Cents != 0 {
				t.Fatalf("free price must be zero, got %d", got.Cents)
			}
		})
	}
}

// Unreadable price text is rejected instead of silently becoming a
// zero-priced paid event.
func TestParsePrice_UnparseableIsRejected(t *testing.T) {
	for _, in := range []string{"abc", "R$ --", "a combinar"} {
		_, err := ParsePrice(in)
		if !errors.Is(err, ErrInvalidPrice) {
			t.Fatalf("ParsePrice(%q) err = %v, want ErrInvalidPrice", in, err)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(0, true); got != FreeLabel {
		t.Fatalf("got %q, want %q", got, FreeLabel)
	}

	if got := FormatPrice(2590, false); got != "R$ 25,90" {
		t.Fatalf("got %q, want %q", got, "R$ 25,90")
	}

	if got := FormatPrice(50, false); got != "R$ 0,50" {
		t.Fatalf("got %q, want %q", got, "R$ 0,50")
	}
}
