package todo

import (
	"math"
	"sort"
	"strings"
)

// FilterStatusAll disables status matching in a Filter.
const FilterStatusAll = "all"

// Filter narrows a todo collection. Zero-valued fields are inactive: an empty
// or "all" Status matches every status, an empty Priority or Category skips
// that predicate, and an empty Search matches everything.
type Filter struct {
	Status   string   `json:"status"`
	Priority Priority `json:"priority,omitempty"`
	Category string   `json:"category,omitempty"`
	Search   string   `json:"search"`
}

// Matches reports whether t passes every active predicate of f.
func (f Filter) Matches(t Todo) bool {
	if f.Status != "" && f.Status != FilterStatusAll && string(t.Status) != f.Status {
		return false
	}

	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}

	if f.Category != "" && t.Category != f.Category {
		return false
	}

	if f.Search != "" {
		search := strings.ToLower(f.Search)
		matchesTitle := strings.Contains(strings.ToLower(t.Title), search)
		matchesDescription := strings.Contains(strings.ToLower(t.Description), search)
		matchesCategory := strings.Contains(strings.ToLower(t.Category), search)

		if !matchesTitle && !matchesDescription && !matchesCategory {
			return false
		}
	}

	return true
}

// FilterTodos returns the todos that pass every active predicate of f,
// preserving input order. The input slice is never mutated.
func FilterTodos(todos []Todo, f Filter) []Todo {
	out := make([]Todo, 0, len(todos))

	for _, t := range todos {
		if f.Matches(t) {
			out = append(out, t)
		}
	}

	return out
}

// SortField selects the comparison key for SortTodos.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByDueDate   SortField = "dueDate"
	SortByPriority  SortField = "priority"
	SortByTitle     SortField = "title"
)

// SortDirection orders a sorted sequence ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort is a field plus direction specification for SortTodos.
type Sort struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// SortTodos returns a new slice ordered by s. The sort is stable, so ties keep
// their relative input order, and the input slice is never mutated. Todos
// without a due date sort as positive infinity, last in ascending order. An
// unknown sort field leaves the input order untouched.
func SortTodos(todos []Todo, s Sort) []Todo {
	out := make([]Todo, len(todos))
	copy(out, todos)

	sort.SliceStable(out, func(i, j int) bool {
		cmp := compareTodos(out[i], out[j], s.Field)

		if s.Direction == SortDesc {
			return cmp > 0
		}

		return cmp < 0
	})

	return out
}

func compareTodos(a, b Todo, field SortField) int {
	switch field {
	case SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case SortByDueDate:
		return compareFloats(dueStamp(a), dueStamp(b))
	case SortByPriority:
		return a.Priority.Weight() - b.Priority.Weight()
	case SortByTitle:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	}
	return 0
}

// dueStamp converts a due date to a sortable timestamp, with missing or
// unparsable dates pushed past every real one.
func dueStamp(t Todo) float64 {
	d, ok := t.DueTime()

	if !ok {
		return math.Inf(1)
	}

	return float64(d.Unix())
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
