// Package validate collects field-level validation errors. Requests
// are validated exhaustively: every failing field contributes a
// message and the whole list is returned together, never just the
// first failure. Stateful rules (email uniqueness, ownership) are a
// separate phase performed against the store inside the handlers.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Bounds shared by the account and content endpoints.
const (
	NameMin     = 2
	NameMax     = 25
	PasswordMin = 8
	TitleMax    = 128
	ContentMax  = 65535
)

// FieldError is one entry of the {errors:[...]} response body.
type FieldError struct {
	Msg   string `json:"msg"`
	Field string `json:"field,omitempty"`
}

// Errors accumulates field errors across all checks of a request.
type Errors []FieldError

func (e *Errors) Add(field, msg string) {
	*e = append(*e, FieldError{Msg: msg, Field: field})
}

// NormalizeEmail lower-cases and trims an address; uniqueness checks
// and storage always operate on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Email checks presence and format of an address.
func Email(errs *Errors, email string) {
	if email == "" {
		errs.Add("email", "email is required")
		return
	}
	if a, err := mail.ParseAddress(email); err != nil || a.Address != email {
		errs.Add("email", "invalid email address")
	}
}

// Name bounds a display-name field to NameMin..NameMax characters.
func Name(errs *Errors, field, value string) {
	n := utf8.RuneCountInString(value)
	if n < NameMin || n > NameMax {
		errs.Add(field, fmt.Sprintf("%s must be between %d and %d characters", field, NameMin, NameMax))
	}
}

// Password enforces the minimum secret length.
func Password(errs *Errors, value string) {
	if utf8.RuneCountInString(value) < PasswordMin {
		errs.Add("password", fmt.Sprintf("password must be at least %d characters", PasswordMin))
	}
}

// Length checks a generic non-empty bounded text field.
func Length(errs *Errors, field, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		errs.Add(field, fmt.Sprintf("%s must be between %d and %d characters", field, min, max))
	}
}
