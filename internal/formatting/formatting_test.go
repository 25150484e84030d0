package formatting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCardNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"4", "4"},
		{"4111", "4111"},
		{"41111", "4111 1"},
		{"4111111111111111", "4111 1111 1111 1111"},
		{"4111 1111 1111 1111", "4111 1111 1111 1111"},
		{"4111-1111-1111-1111", "4111 1111 1111 1111"},
		{"41111111111111119999", "4111 1111 1111 1111"},
		{"abc", ""},
		{"41a1", "411"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCardNumber(tt.in), "input %q", tt.in)
	}
}

func TestFormatCardNumberIsLossless(t *testing.T) {
	source := "4111222233334444"
	for n := 0; n <= len(source); n++ {
		digits := source[:n]
		formatted := FormatCardNumber(digits)
		assert.Equal(t, digits, strings.ReplaceAll(formatted, " ", ""), "length %d", n)
		assert.Equal(t, formatted, FormatCardNumber(formatted), "idempotent at length %d", n)
		assert.LessOrEqual(t, len(formatted), 19)
	}
}

func TestFormatExpiry(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"1", "1"},
		{"12", "12/"},
		{"122", "12/2"},
		{"1225", "12/25"},
		{"12/25", "12/25"},
		{"122599", "12/25"},
		{"ab", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatExpiry(tt.in), "input %q", tt.in)
	}
}

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "•••• •••• •••• 1111", MaskCardNumber("4111111111111111"))
	assert.Equal(t, "•••• 1234", MaskCardNumber("55551234"))
	assert.Equal(t, "•••", MaskCardNumber("123"))
	assert.Equal(t, "", MaskCardNumber(""))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "4111", Digits(" 4-1 1x1"))
}

func TestFormatLongDate(t *testing.T) {
	d := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Monday, October 19, 2026", FormatLongDate(d))
}

func TestParseISODate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	d, err := ParseISODate("2026-10-19", loc)
	require.NoError(t, err)
	assert.Equal(t, loc, d.Location())
	assert.Equal(t, 19, d.Day())

	_, err = ParseISODate("10/19/2026", loc)
	assert.Error(t, err)
}
