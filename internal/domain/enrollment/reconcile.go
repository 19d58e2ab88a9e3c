package enrollment

import (
	"strconv"
	"strings"
)

// Key identifies a participant within one (user, event) pair: the trimmed,
// lower-cased name plus the age, or an empty age when unknown.
func Key(name string, age *int) string {
	a := ""
	if age != nil {
		a = strconv.Itoa(*age)
	}
	return strings.ToLower(strings.TrimSpace(name)) + "|" + a
}

// Reconcile returns the requested participants that are not already
// actively enrolled. Duplicates inside the request collapse to their first
// occurrence. Order is preserved and names come back trimmed.
//
// active must hold only rows with status enrolled.
func Reconcile(active []Enrollment, requested []Participant) []Participant {
	seen := make(map[string]struct{}, len(active)+len(requested))
	for _, e := range active {
		seen[Key(e.Name, e.Age)] = struct{}{}
	}

	accepted := make([]Participant, 0, len(requested))
	for _, p := range requested {
		k := Key(p.Name, p.Age)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		accepted = append(accepted, Participant{Name: strings.TrimSpace(p.Name), Age: p.Age})
	}

	return accepted
}
