// Package forms turns raw submitted values into typed entities or field errors.
package forms

import "strings"

// NonFieldErrors is the key for errors that do not belong to a single input.
const NonFieldErrors = "__all__"

// Values holds the raw submitted strings keyed by input name.
type Values map[string]string

// Get returns the trimmed value of field.
func (v Values) Get(field string) string {
	return strings.TrimSpace(v[field])
}

// FieldErrors maps an input name to its validation messages.
type FieldErrors map[string][]string

// Add appends msg to the messages of field.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field has at least one message.
func (e FieldErrors) Has(field string) bool {
	return len(e[field]) > 0
}

// Fields lists the fields that failed. Order is unspecified.
func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	return fields
}

// Result is either a valid typed Value or a non-empty set of Errors.
type Result[T any] struct {
	Value  T
	Errors FieldErrors
}

// Valid reports whether the submission passed every rule.
func (r Result[T]) Valid() bool {
	return len(r.Errors) == 0
}

func finish[T any](value T, errs FieldErrors) Result[T] {
	if len(errs) > 0 {
		var zero T
		return Result[T]{Value: zero, Errors: errs}
	}
	return Result[T]{Value: value}
}

// Form is the template binding of a page's inputs: the values to echo back and
// any messages to show next to them.
type Form struct {
	Values Values
	Errors FieldErrors
}

// NewForm binds values and errors for rendering. Either may be nil.
func NewForm(values Values, errs FieldErrors) *Form {
	if values == nil {
		values = Values{}
	}
	if errs == nil {
		errs = FieldErrors{}
	}
	return &Form{Values: values, Errors: errs}
}

// Value returns the raw value of field as submitted.
func (f *Form) Value(field string) string {
	return f.Values[field]
}

// ErrorsFor returns the messages attached to field.
func (f *Form) ErrorsFor(field string) []string {
	return f.Errors[field]
}

// NonField returns the messages not bound to an input.
func (f *Form) NonField() []string {
	return f.Errors[NonFieldErrors]
}

// HasErrors reports whether anything failed.
func (f *Form) HasErrors() bool {
	return len(f.Errors) > 0
}
