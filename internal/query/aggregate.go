package query

import (
	"sort"

	"github.com/sadopc/otis/internal/store"
)

// Count is one bar of a grouped display.
type Count struct {
	Key   string
	Count int
}

// Distinct returns the sorted set of non-empty values of field.
func Distinct[T any](list []T, field func(T) string) []string {
	seen := make(map[string]struct{})
	for _, it := range list {
		if v := field(it); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func GroupCount[T any](list []T, field func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, it := range list {
		counts[field(it)]++
	}
	return counts
}

// Tally is GroupCount ordered by descending count, then key.
func Tally[T any](list []T, field func(T) string) []Count {
	groups := GroupCount(list, field)
	out := make([]Count, 0, len(groups))
	for k, n := range groups {
		out = append(out, Count{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Average is the arithmetic mean of field, or 0 for an empty list.
func Average[T any](list []T, field func(T) float64) float64 {
	if len(list) == 0 {
		return 0
	}
	var sum float64
	for _, it := range list {
		sum += field(it)
	}
	return sum / float64(len(list))
}

// UpcomingDeadlines returns the first n in-progress installations ordered by
// deadline. Equal deadlines keep their source order.
func UpcomingDeadlines(list []store.Installation, n int) []store.Installation {
	if n <= 0 {
		return []store.Installation{}
	}
	active := Filter(list, func(i store.Installation) bool {
		return i.Status == store.StatusInProgress
	})
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Deadline.Before(active[j].Deadline.Time)
	})
	if len(active) > n {
		active = active[:n]
	}
	return active
}
