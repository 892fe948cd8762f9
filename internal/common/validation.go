package common

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// Validator collects every failure instead of stopping at the first one.
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
	}
}

// Field validates a field and collects errors
func (v *Validator) Field(fieldName string, value interface{}, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(fieldName, value); err != nil {
			v.errors = append(v.errors, *err)
		}
	}
	return v
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// Fields returns the distinct names of the failed fields, in the order they were checked.
func (v *Validator) Fields() []string {
	seen := make(map[string]struct{}, len(v.errors))
	var out []string
	for _, e := range v.errors {
		if _, ok := seen[e.Field]; ok {
			continue
		}
		seen[e.Field] = struct{}{}
		out = append(out, e.Field)
	}
	return out
}

// Error returns a combined error message
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}
	return errors.New(v.ErrorMessage())
}

// ErrorMessage returns a combined error message as string
func (v *Validator) ErrorMessage() string {
	if !v.HasErrors() {
		return ""
	}

	var messages []string
	for _, err := range v.errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// MissingFieldsError converts the collected failures into the extractor error for vendor.
func (v *Validator) MissingFieldsError(vendor string) error {
	if !v.HasErrors() {
		return nil
	}
	return NewMissingFieldsError(vendor, v.Fields())
}

// RecordError wraps the collected failures as ErrInvalidRecord.
func (v *Validator) RecordError() error {
	if !v.HasErrors() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecord, v.ErrorMessage())
}

// ValidationRule represents a single validation rule
type ValidationRule func(fieldName string, value interface{}) *ValidationError

// Required fails for nil pointers, blank strings and false.
func Required(fieldName string, value interface{}) *ValidationError {
	missing := &ValidationError{Field: fieldName, Value: value, Message: "is required"}
	if value == nil {
		return missing
	}

	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return missing
		}
	case *string:
		if v == nil || strings.TrimSpace(*v) == "" {
			return missing
		}
	case *float64:
		if v == nil {
			return missing
		}
	case bool:
		if !v {
			return missing
		}
	default:
		if isNilPointer(value) {
			return missing
		}
		if z, ok := value.(interface{ IsZero() bool }); ok && z.IsZero() {
			return missing
		}
	}
	return nil
}

// Percent accepts nil or a finite value in [0, 100].
func Percent(fieldName string, value interface{}) *ValidationError {
	f, ok := floatValue(value)
	if !ok {
		return nil
	}
	if math.IsNaN(f) || f < 0 || f > 100 {
		return &ValidationError{Field: fieldName, Value: f, Message: "must be between 0 and 100"}
	}
	return nil
}

// NonNegative accepts nil or a finite value >= 0.
func NonNegative(fieldName string, value interface{}) *ValidationError {
	f, ok := floatValue(value)
	if !ok {
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return &ValidationError{Field: fieldName, Value: f, Message: "must be a non-negative number"}
	}
	return nil
}

func floatValue(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case *float64:
		if v == nil {
			return 0, false
		}
		return *v, true
	}
	return 0, false
}

func isNilPointer(value interface{}) bool {
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
