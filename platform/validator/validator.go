// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"
	"reflect"
	"strings"

	"clientflow_backend/platform/apperr"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// FieldIssue describes one failed validation rule.
type FieldIssue struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// New creates a new Validator instance.
// Domain-specific validation rules can be registered using RegisterValidation.
// Field names in reported issues use the json tag when present.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// Check validates s and converts any failure into an apperr validation
// error carrying the flattened field issues as details.
func (val *Validator) Check(s interface{}, message string) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	issues := Issues(err)
	if len(issues) == 0 {
		return apperr.Wrap(apperr.KindValidation, message, err)
	}
	return apperr.Wrap(apperr.KindValidation, message, err).WithDetails(issues)
}

// Issues flattens validator.ValidationErrors into field issues. Namespaces
// are reported without the top-level struct name, e.g. "ranges[1].max".
func Issues(err error) []FieldIssue {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	issues := make([]FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if idx := strings.Index(field, "."); idx >= 0 {
			field = field[idx+1:]
		}
		issues = append(issues, FieldIssue{
			Field: field,
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return issues
}
