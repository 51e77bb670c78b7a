package utils

import (
	"math"
	"strconv"
	"strings"

	"ticketdash/internal/shared/errors"
)

// FieldKind says which checks a form field is subject to.
type FieldKind int

const (
	// FieldText only has to be present.
	FieldText FieldKind = iota
	// FieldNumeric has to be present, numeric and strictly positive.
	FieldNumeric
)

// Field is a single named input as the operator typed it.
type Field struct {
	Name  string
	Value string
	Kind  FieldKind
}

// Text builds a presence-only field.
func Text(name, value string) Field {
	return Field{Name: name, Value: value, Kind: FieldText}
}

// Numeric builds a field that must hold a positive number.
func Numeric(name, value string) Field {
	return Field{Name: name, Value: value, Kind: FieldNumeric}
}

// Form is an insertion-ordered set of fields. The zero value is an empty form.
type Form struct {
	fields []Field
}

// NewForm builds a form keeping the given field order.
func NewForm(fields ...Field) Form {
	return Form{fields: append([]Field(nil), fields...)}
}

// Fields returns a copy of the fields in insertion order.
func (f Form) Fields() []Field {
	return append([]Field(nil), f.fields...)
}

// Get returns the raw value of the named field.
func (f Form) Get(name string) string {
	for _, field := range f.fields {
		if field.Name == name {
			return field.Value
		}
	}
	return ""
}

// Len reports how many fields the form has.
func (f Form) Len() int {
	return len(f.fields)
}

// With returns a copy of the form with the named field's value replaced, or the
// field appended as text when absent.
func (f Form) With(name, value string) Form {
	out := f.Fields()
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return Form{fields: out}
		}
	}
	return Form{fields: append(out, Text(name, value))}
}

// ValidateForm returns a validation error for the first field, in insertion order,
// that is empty, or for numeric fields non-numeric or not greater than zero.
func ValidateForm(form Form) *errors.AppError {
	for _, field := range form.fields {
		value := strings.TrimSpace(field.Value)
		if value == "" {
			return errors.NewValidationError(field.Name)
		}
		if field.Kind != FieldNumeric {
			continue
		}
		if err := validate.Var(value, "required,numeric"); err != nil {
			return errors.NewValidationError(field.Name)
		}
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
			return errors.NewValidationError(field.Name)
		}
	}
	return nil
}
