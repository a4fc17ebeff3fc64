package todo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleTodos() []Todo {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	return []Todo{
		{ID: "1", Title: "Buy milk", Priority: PriorityMedium, Status: StatusActive, Category: "errands", CreatedAt: base},
		{ID: "2", Title: "Write report", Description: "quarterly numbers", Priority: PriorityHigh, Status: StatusActive, DueDate: "2026-08-10", CreatedAt: base.Add(time.Hour)},
		{ID: "3", Title: "water plants", Priority: PriorityLow, Status: StatusCompleted, Category: "home", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "4", Title: "Call dentist", Priority: PriorityHigh, Status: StatusCompleted, DueDate: "2026-08-05", CreatedAt: base.Add(3 * time.Hour)},
	}
}

func TestFilterTodos_NoActivePredicatesReturnsAll(t *testing.T) {
	todos := sampleTodos()

	out := FilterTodos(todos, Filter{Status: FilterStatusAll, Search: ""})

	assert.Equal(t, todos, out)
}

func TestFilterTodos_ByStatus(t *testing.T) {
	out := FilterTodos(sampleTodos(), Filter{Status: "completed"})

	assert.Len(t, out, 2)
	assert.Equal(t, "3", out[0].ID)
	assert.Equal(t, "4", out[1].ID)
}

func TestFilterTodos_ByPriorityAndCategory(t *testing.T) {
	out := FilterTodos(sampleTodos(), Filter{Priority: PriorityHigh})
	assert.Len(t, out, 2)

	out = FilterTodos(sampleTodos(), Filter{Category: "home"})
	assert.Len(t, out, 1)
	assert.Equal(t, "3", out[0].ID)
}

func TestFilterTodos_SearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	todos := sampleTodos()

	byTitle := FilterTodos(todos, Filter{Search: "MILK"})
	assert.Len(t, byTitle, 1)
	assert.Equal(t, "1", byTitle[0].ID)

	byDescription := FilterTodos(todos, Filter{Search: "quarterly"})
	assert.Len(t, byDescription, 1)
	assert.Equal(t, "2", byDescription[0].ID)

	byCategory := FilterTodos(todos, Filter{Search: "ERRANDS"})
	assert.Len(t, byCategory, 1)
	assert.Equal(t, "1", byCategory[0].ID)
}

func TestFilterTodos_AllPredicatesMustPass(t *testing.T) {
	out := FilterTodos(sampleTodos(), Filter{
		Status:   "completed",
		Priority: PriorityHigh,
		Search:   "dentist",
	})

	assert.Len(t, out, 1)
	assert.Equal(t, "4", out[0].ID)
}

func TestFilterTodos_OutputIsOrderedSubsetOfInput(t *testing.T) {
	todos := sampleTodos()

	out := FilterTodos(todos, Filter{Status: "active"})

	idx := 0
	for _, got := range out {
		found := false
		for ; idx < len(todos); idx++ {
			if todos[idx].ID == got.ID {
				found = true
				idx++
				break
			}
		}
		assert.True(t, found, "output reorders or invents items")
	}
}

func TestSortTodos_DoesNotMutateInput(t *testing.T) {
	todos := sampleTodos()
	original := make([]Todo, len(todos))
	copy(original, todos)

	SortTodos(todos, Sort{Field: SortByTitle, Direction: SortDesc})

	assert.Equal(t, original, todos)
}

func TestSortTodos_ByTitleCaseInsensitive(t *testing.T) {
	todos := []Todo{
		{ID: "1", Title: "b"},
		{ID: "2", Title: "A"},
		{ID: "3", Title: "c"},
	}

	out := SortTodos(todos, Sort{Field: SortByTitle, Direction: SortAsc})

	assert.Equal(t, []string{"A", "b", "c"}, []string{out[0].Title, out[1].Title, out[2].Title})
}

func TestSortTodos_DescReversesStrictOrder(t *testing.T) {
	todos := sampleTodos()

	asc := SortTodos(todos, Sort{Field: SortByCreatedAt, Direction: SortAsc})
	desc := SortTodos(todos, Sort{Field: SortByCreatedAt, Direction: SortDesc})

	for i := range asc {
		assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
	}
}

func TestSortTodos_MissingDueDateSortsLastAscending(t *testing.T) {
	out := SortTodos(sampleTodos(), Sort{Field: SortByDueDate, Direction: SortAsc})

	assert.Equal(t, "4", out[0].ID) // 2026-08-05
	assert.Equal(t, "2", out[1].ID) // 2026-08-10

	// no due date, stable among themselves
	assert.Equal(t, "1", out[2].ID)
	assert.Equal(t, "3", out[3].ID)
}

func TestSortTodos_ByPriorityWeights(t *testing.T) {
	todos := []Todo{
		{ID: "1", Priority: PriorityLow},
		{ID: "2", Priority: "unknown"},
		{ID: "3", Priority: PriorityHigh},
		{ID: "4", Priority: PriorityMedium},
	}

	out := SortTodos(todos, Sort{Field: SortByPriority, Direction: SortDesc})

	assert.Equal(t, "3", out[0].ID)
	assert.Equal(t, "4", out[1].ID)
	assert.Equal(t, "1", out[2].ID)
	assert.Equal(t, "2", out[3].ID)
}

func TestSortTodos_StableOnTies(t *testing.T) {
	when := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	todos := []Todo{
		{ID: "1", CreatedAt: when},
		{ID: "2", CreatedAt: when},
		{ID: "3", CreatedAt: when},
	}

	out := SortTodos(todos, Sort{Field: SortByCreatedAt, Direction: SortAsc})

	assert.Equal(t, []string{"1", "2", "3"}, []string{out[0].ID, out[1].ID, out[2].ID})
}

func TestSortTodos_UnknownFieldKeepsInputOrder(t *testing.T) {
	todos := sampleTodos()

	out := SortTodos(todos, Sort{Field: "color", Direction: SortAsc})

	assert.Equal(t, todos, out)
}
