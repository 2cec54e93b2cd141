// Package validation collects field-level input errors for request payloads.
package validation

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/edupass/internal/common"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Error aggregates the failures of one Validator. It matches
// common.ErrValidation via errors.Is.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Error()
	}
	return strings.Join(messages, "; ")
}

func (e *Error) Unwrap() error {
	return common.ErrValidation
}

// Validator accumulates rule failures; rules are chainable.
type Validator struct {
	errors []FieldError
}

func New() *Validator {
	return &Validator{}
}

// Required fails when value is empty or only whitespace.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
	return v
}

// MaxLength fails when value is longer than max bytes.
func (v *Validator) MaxLength(field, value string, max int) *Validator {
	if len(value) > max {
		v.add(field, fmt.Sprintf("must be no more than %d characters", max))
	}
	return v
}

// Email accepts a bare RFC 5322 address; display-name forms such as
// "Ana <ana@escola.com>" are rejected. Empty values are left to Required.
func (v *Validator) Email(field, value string) *Validator {
	if value == "" {
		return v
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v.add(field, "must be a valid email address")
	}
	return v
}

func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Err returns nil or an *Error listing every failure in rule order.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return &Error{Fields: v.errors}
}

func (v *Validator) add(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}
