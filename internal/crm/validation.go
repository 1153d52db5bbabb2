package crm

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError rejects input before any store write or group derivation runs.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, msg string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Error: msg}}}
}

type validation struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newValidation() *validation {
	validate := validator.New()
	locale := en.New()
	translator, _ := ut.New(locale, locale).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &validation{validate: validate, translator: translator}
	v.register("lead_status", "{0} must be one of New, Contacted, Converted, Not Interested",
		func(s string) bool { return models.LeadStatus(s).Valid() })
	v.register("group_type", "{0} must be one of Age, Course, City, Admission Status",
		func(s string) bool { return models.GroupType(s).Valid() })
	v.register("reminder_status", "{0} must be one of Pending, In Progress, Completed, Not Started",
		func(s string) bool { return models.ReminderStatus(s).Valid() })
	v.register("notification_type", "{0} must be one of no_leads, reminder_status, reports, group_creation",
		func(s string) bool { return models.NotificationType(s).Valid() })
	return v
}

// register adds a string-valued validation tag with its English message.
func (v *validation) register(tag, text string, ok func(string) bool) {
	_ = v.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return ok(fl.Field().String())
	})
	_ = v.validate.RegisterTranslation(tag, v.translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func (v *validation) check(input any) error {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Error: fe.Translate(v.translator)})
	}
	return &ValidationError{Fields: fields}
}
