// Package formatting turns raw keystrokes into display values. The functions run
// on every keystroke, so they accept any partial input and never fail.
package formatting

import (
	"strings"
	"time"
)

const (
	cardDigits   = 16
	cardGroup    = 4
	expiryDigits = 4

	// LongDateLayout renders dates as "Monday, January 2, 2006".
	LongDateLayout = "Monday, January 2, 2006"
	// ISODateLayout is the wire format for calendar dates.
	ISODateLayout = "2006-01-02"
)

// Digits drops every non-digit rune.
func Digits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCardNumber keeps the first 16 digits and groups them in fours,
// e.g. "4111111111111111" -> "4111 1111 1111 1111". Formatting an already
// formatted value returns it unchanged.
func FormatCardNumber(value string) string {
	digits := Digits(value)
	if len(digits) > cardDigits {
		digits = digits[:cardDigits]
	}
	return group(digits)
}

func group(digits string) string {
	if len(digits) <= cardGroup {
		return digits
	}
	var b strings.Builder
	for i := 0; i < len(digits); i += cardGroup {
		if i > 0 {
			b.WriteByte(' ')
		}
		end := i + cardGroup
		if end > len(digits) {
			end = len(digits)
		}
		b.WriteString(digits[i:end])
	}
	return b.String()
}

// FormatExpiry inserts "/" after the month once two digits are present and caps
// the value at MMYY: "1225" -> "12/25", "1" -> "1", "12" -> "12/".
func FormatExpiry(value string) string {
	digits := Digits(value)
	if len(digits) > expiryDigits {
		digits = digits[:expiryDigits]
	}
	if len(digits) >= 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}

// MaskCardNumber hides all but the last four digits, keeping the grouping.
func MaskCardNumber(value string) string {
	digits := Digits(value)
	if len(digits) > cardDigits {
		digits = digits[:cardDigits]
	}
	visible := 4
	if len(digits) < visible {
		visible = 0
	}
	masked := strings.Repeat("•", len(digits)-visible) + digits[len(digits)-visible:]
	runes := []rune(masked)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && i%cardGroup == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatLongDate renders t the way confirmations and emails show dates.
func FormatLongDate(t time.Time) string {
	return t.Format(LongDateLayout)
}

// ParseISODate parses a YYYY-MM-DD date at midnight in loc.
func ParseISODate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(ISODateLayout, strings.TrimSpace(value), loc)
}
