// Package todo holds the task domain model and the pure operations over
// collections of tasks: validation, filtering, sorting and stat aggregation.
package todo

import "time"

// Priority is the importance level of a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is one of the known priority levels.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Weight maps a priority to its sort weight. Unknown priorities weigh zero so
// they sort before low in ascending order.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Status is the completion state of a todo.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusActive
	}
	return StatusCompleted
}

// DueDateLayout is the calendar date format carried by Todo.DueDate.
const DueDateLayout = "2006-01-02"

// Todo is a single task record with scheduling and categorization metadata.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description,omitempty" validate:"max=1000"`
	DueDate     string    `json:"dueDate,omitempty" validate:"omitempty,calendardate"`
	Priority    Priority  `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      Status    `json:"status"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	OrderIndex  int       `json:"orderIndex"`
}

// Completed reports whether the todo is done.
func (t Todo) Completed() bool {
	return t.Status == StatusCompleted
}

// DueTime parses DueDate. The boolean is false when the todo has no due date
// or the value does not parse as a calendar date.
func (t Todo) DueTime() (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	if d, err := time.Parse(DueDateLayout, t.DueDate); err == nil {
		return d, true
	}
	if d, err := time.Parse(time.RFC3339, t.DueDate); err == nil {
		return d, true
	}
	return time.Time{}, false
}
