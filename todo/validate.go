package todo

import (
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// Validator is the shared validator instance for todo candidates.
	Validator *validator.Validate

	// Translator renders validation failures as user-facing messages.
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}

	if err := Validator.RegisterValidation("calendardate", isCalendarDate); err != nil {
		panic(err)
	}

	addCustomTranslations()
}

func isCalendarDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	if _, err := time.Parse(DueDateLayout, value); err == nil {
		return true
	}

	_, err := time.Parse(time.RFC3339, value)

	return err == nil
}

func addCustomTranslations() {
	Validator.RegisterTranslation("required", Translator, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is required", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", getFieldName(fe.Field()))
		return t
	})

	Validator.RegisterTranslation("max", Translator, func(ut ut.Translator) error {
		return ut.Add("max", "{0} must be less than {1} characters", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("max", getFieldName(fe.Field()), fe.Param())
		return t
	})

	Validator.RegisterTranslation("calendardate", Translator, func(ut ut.Translator) error {
		return ut.Add("calendardate", "Invalid due date format", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("calendardate")
		return t
	})

	Validator.RegisterTranslation("oneof", Translator, func(ut ut.Translator) error {
		return ut.Add("oneof", "Invalid {0} level", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("oneof", strings.ToLower(getFieldName(fe.Field())))
		return t
	})
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Title":       "Title",
		"Description": "Description",
		"DueDate":     "Due date",
		"Priority":    "Priority",
	}

	if name, exists := fieldNames[field]; exists {
		return name
	}

	return field
}

// ValidationResult collects every constraint violation of a candidate todo,
// in declaration order. Validation never short-circuits: all violated rules
// are reported together.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Validate checks a candidate todo against the domain constraints. The title
// is compared after trimming, so a whitespace-only title counts as missing.
// The candidate itself is not modified.
func Validate(candidate Todo) ValidationResult {
	candidate.Title = strings.TrimSpace(candidate.Title)

	err := Validator.Struct(candidate)

	if err == nil {
		return ValidationResult{IsValid: true, Errors: []string{}}
	}

	validationErrors, ok := err.(validator.ValidationErrors)

	if !ok {
		return ValidationResult{IsValid: false, Errors: []string{err.Error()}}
	}

	messages := make([]string, 0, len(validationErrors))

	for _, fieldError := range validationErrors {
		messages = append(messages, fieldError.Translate(Translator))
	}

	return ValidationResult{IsValid: false, Errors: messages}
}
