// Package validation holds the field rules shared by the booking wizard and the
// contact form. Every rule is pure: it inspects a raw string and returns nil or a
// *FieldError carrying a reason that can be shown next to the field.
package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

const minNameLength = 2
const minMessageLength = 10

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@.]+$`)
	phonePattern  = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	cardPattern   = regexp.MustCompile(`^\d{16}$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

// FieldError describes one failing field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// Errors is an ordered list of field failures for one form.
type Errors []*FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Collect gathers the non-nil results of several rules. It returns nil when every
// rule passed, otherwise an Errors value in argument order.
func Collect(results ...error) error {
	var out Errors
	for _, err := range results {
		if err == nil {
			continue
		}
		var fe *FieldError
		if errors.As(err, &fe) {
			out = append(out, fe)
			continue
		}
		out = append(out, &FieldError{Field: "form", Reason: err.Error()})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Fields returns the field errors carried by err, or nil.
func Fields(err error) []*FieldError {
	var list Errors
	if errors.As(err, &list) {
		return list
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return []*FieldError{fe}
	}
	return nil
}

func fail(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// Name checks a person name field such as first name or name on card.
// label is the human name used in the message ("First name").
func Name(field, label, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fail(field, label+" is required")
	}
	if utf8.RuneCountInString(value) < minNameLength {
		return fail(field, label+" must be at least 2 characters")
	}
	return nil
}

// Email requires the general local@domain.tld shape.
func Email(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fail(field, "Email is required")
	}
	if !emailPattern.MatchString(value) {
		return fail(field, "Please enter a valid email address")
	}
	return nil
}

// Phone checks an optional leading +, a first digit 1-9 and at most 15 more digits.
// When required is false an empty value passes.
func Phone(field, value string, required bool) error {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			return fail(field, "Phone number is required")
		}
		return nil
	}
	if !phonePattern.MatchString(value) {
		return fail(field, "Please enter a valid phone number")
	}
	return nil
}

// CardNumber requires exactly 16 digits once spaces and dashes are removed.
func CardNumber(field, value string) error {
	stripped := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '\t' {
			return -1
		}
		return r
	}, value)
	if stripped == "" {
		return fail(field, "Card number is required")
	}
	if !cardPattern.MatchString(stripped) {
		return fail(field, "Card number must be 16 digits")
	}
	return nil
}

// Expiry requires MM/YY with a month between 01 and 12.
func Expiry(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fail(field, "Expiry date is required")
	}
	if !expiryPattern.MatchString(value) {
		return fail(field, "Expiry date must be in MM/YY format")
	}
	return nil
}

// CVV requires three or four digits.
func CVV(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fail(field, "CVV is required")
	}
	if !cvvPattern.MatchString(value) {
		return fail(field, "CVV must be 3 or 4 digits")
	}
	return nil
}

// Required fails on blank values.
func Required(field, label, value string) error {
	if strings.TrimSpace(value) == "" {
		return fail(field, label+" is required")
	}
	return nil
}

// Message checks the free-text body of the contact form.
func Message(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fail(field, "Message is required")
	}
	if utf8.RuneCountInString(value) < minMessageLength {
		return fail(field, "Message must be at least 10 characters")
	}
	return nil
}
