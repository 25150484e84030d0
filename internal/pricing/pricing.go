// Package pricing derives the amount charged for a booking from a catalog price range.
package pricing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// TaxRate is the sales tax applied to every booking.
const TaxRate = 0.08

// Breakdown keeps full precision; rounding happens only in the display helpers.
type Breakdown struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Quote prices a range such as "$85-120" at its lower bound. A string that does
// not parse yields a zero subtotal rather than an error.
func Quote(priceRange string) Breakdown {
	subtotal := ParseBasePrice(priceRange)
	tax := subtotal * TaxRate
	return Breakdown{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// ParseBasePrice reads the number that opens the first segment of the range,
// after the leading "$". Trailing text is ignored, so "$85abc-120" is 85. A
// segment that does not start with a number gives 0.
func ParseBasePrice(priceRange string) float64 {
	first := strings.SplitN(priceRange, "-", 2)[0]
	first = strings.TrimSpace(first)
	first = strings.TrimPrefix(first, "$")
	number := leadingNumber.FindString(strings.TrimSpace(first))
	if number == "" {
		return 0
	}
	value, err := strconv.ParseFloat(number, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// Round2 rounds half away from zero to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Money renders an amount as "$91.80".
func Money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Display is the rounded breakdown shown in the booking summary.
type Display struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

// Display formats every amount to two decimals.
func (b Breakdown) Display() Display {
	return Display{
		Subtotal: Money(b.Subtotal),
		Tax:      Money(b.Tax),
		Total:    Money(b.Total),
	}
}

// PayLabel is the caption of the payment submit action.
func (b Breakdown) PayLabel() string {
	return "Complete Booking (" + Money(b.Total) + ")"
}
