// Package query holds the pure filtering and aggregation helpers the screens
// run over lists already loaded from the store. Nothing here mutates its
// input.
package query

import (
	"strings"

	"github.com/sadopc/otis/internal/store"
)

// Criteria narrows a list. Every non-empty field must match; empty fields
// match everything.
type Criteria struct {
	Search       string
	Country      string
	Status       string
	ElevatorType string
}

// Filter returns the items for which keep is true, in source order. The
// result is never nil.
func Filter[T any](list []T, keep func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, it := range list {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func FilterInstallations(list []store.Installation, c Criteria) []store.Installation {
	search := normalize(c.Search)
	return Filter(list, func(i store.Installation) bool {
		return matches(c.Country, i.Country) &&
			matches(c.Status, string(i.Status)) &&
			matches(c.ElevatorType, string(i.ElevatorType)) &&
			containsAny(search, i.Client, i.ID)
	})
}

func FilterFeedback(list []store.Feedback, c Criteria) []store.Feedback {
	search := normalize(c.Search)
	return Filter(list, func(f store.Feedback) bool {
		return matches(c.Country, f.Country) &&
			matches(c.Status, string(f.Status)) &&
			containsAny(search, f.ClientName, f.Comment)
	})
}

func FilterInteractions(list []store.Interaction, c Criteria) []store.Interaction {
	search := normalize(c.Search)
	return Filter(list, func(it store.Interaction) bool {
		return matches(c.Status, string(it.Status)) &&
			containsAny(search, it.ClientName, it.Description)
	})
}

func matches(want, got string) bool {
	return want == "" || want == got
}

// containsAny reports whether any field contains the already normalized
// needle. An empty needle matches.
func containsAny(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
