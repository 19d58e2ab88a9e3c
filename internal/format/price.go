package format

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FreeLabel is what a free event shows instead of a price.
const FreeLabel = "Gratuito"

var ErrInvalidPrice = errors.New("invalid price")

var (
	nonPriceChars  = regexp.MustCompile(`[^\d,]`)
	leadingDecimal = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)`)
	freeMarkers    = []string{"grat", "free"}
	brPrinter      = message.NewPrinter(language.BrazilianPortuguese)
)

type Price struct {
	Cents  int64
	IsFree bool
}

// ParsePrice turns user-entered price text ("R$ 25,90", "1.234,50",
// "Gratuito") into integer cents.
//
// Dots are thousand separators and the comma is the decimal separator.
// Text that carries no readable number returns ErrInvalidPrice.
func ParsePrice(input string) (Price, error) {
	s := strings.TrimSpace(input)
	if s == "" || isFreeText(s) {
		return Price{Cents: 0, IsFree: true}, nil
	}

	numeric := nonPriceChars.ReplaceAllString(s, "")
	numeric = strings.Replace(numeric, ",", ".", 1)

	m := leadingDecimal.FindString(numeric)
	if m == "" {
		return Price{}, ErrInvalidPrice
	}

	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Price{}, ErrInvalidPrice
	}

	// keeps cents well inside int64
	if v > 9e15 {
		return Price{}, ErrInvalidPrice
	}

	cents := int64(math.Round(v * 100))

	return Price{Cents: cents, IsFree: cents == 0}, nil
}

// FormatPrice renders cents as pt-BR currency text, or FreeLabel.
func FormatPrice(cents int64, isFree bool) string {
	if isFree {
		return FreeLabel
	}

	if cents < 0 {
		cents = 0
	}

	return "R$ " + brPrinter.Sprintf("%.2f", float64(cents)/100)
}

func isFreeText(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range freeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
