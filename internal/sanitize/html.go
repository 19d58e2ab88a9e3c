package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// UGCPolicy keeps basic formatting (<p>, <b>, <a>, lists) and drops scripts,
// event handlers and styles.
var UGCPolicy = bluemonday.UGCPolicy()

// HTML sanitizes free-text event fields such as description and attractions.
func HTML(input string) string {
	return strings.TrimSpace(UGCPolicy.Sanitize(input))
}

// OptionalHTML sanitizes a nullable field; blank results collapse to nil.
func OptionalHTML(input *string) *string {
	if input == nil {
		return nil
	}

	s := HTML(*input)
	if s == "" {
		return nil
	}
	return &s
}
