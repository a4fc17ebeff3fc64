package todo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_TitleRequired(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		result := Validate(Todo{Title: title})

		assert.False(t, result.IsValid)
		assert.Contains(t, result.Errors, "Title is required")
	}
}

func TestValidate_TitleWithinBound(t *testing.T) {
	for _, title := range []string{"a", "Buy milk", strings.Repeat("x", 200)} {
		result := Validate(Todo{Title: title})

		assert.True(t, result.IsValid, "title %q should be valid", title)
		assert.Empty(t, result.Errors)
	}
}

func TestValidate_TitleTooLong(t *testing.T) {
	result := Validate(Todo{Title: strings.Repeat("x", 201)})

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "Title must be less than 200 characters")
}

func TestValidate_DescriptionTooLong(t *testing.T) {
	result := Validate(Todo{
		Title:       "ok",
		Description: strings.Repeat("d", 1001),
	})

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "Description must be less than 1000 characters")
}

func TestValidate_DueDate(t *testing.T) {
	valid := Validate(Todo{Title: "ok", DueDate: "2026-09-15"})
	assert.True(t, valid.IsValid)

	invalid := Validate(Todo{Title: "ok", DueDate: "next tuesday"})
	assert.False(t, invalid.IsValid)
	assert.Contains(t, invalid.Errors, "Invalid due date format")
}

func TestValidate_Priority(t *testing.T) {
	for _, p := range []Priority{"", PriorityLow, PriorityMedium, PriorityHigh} {
		result := Validate(Todo{Title: "ok", Priority: p})
		assert.True(t, result.IsValid, "priority %q should be valid", p)
	}

	result := Validate(Todo{Title: "ok", Priority: "urgent"})
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "Invalid priority level")
}

func TestValidate_CollectsAllViolationsInOrder(t *testing.T) {
	result := Validate(Todo{
		Title:       "",
		Description: strings.Repeat("d", 1001),
		DueDate:     "not-a-date",
		Priority:    "urgent",
	})

	assert.False(t, result.IsValid)
	assert.Equal(t, []string{
		"Title is required",
		"Description must be less than 1000 characters",
		"Invalid due date format",
		"Invalid priority level",
	}, result.Errors)
}

func TestValidate_Deterministic(t *testing.T) {
	candidate := Todo{Title: "", Priority: "urgent"}

	first := Validate(candidate)
	second := Validate(candidate)

	assert.Equal(t, first, second)
}
