package pricing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteRangeUsesLowerBound(t *testing.T) {
	for _, a := range []float64{0, 45, 85, 120, 180, 199.99, 1250.5} {
		price := fmt.Sprintf("$%v-%v", a, a+35)
		got := Quote(price)

		assert.Equal(t, a, got.Subtotal, price)
		assert.InDelta(t, Round2(a*TaxRate), Round2(got.Tax), 1e-9, price)
		assert.Equal(t, got.Subtotal+got.Tax, got.Total, price)
	}
}

func TestQuoteDisplay(t *testing.T) {
	q := Quote("$85-120")

	assert.Equal(t, 85.0, q.Subtotal)
	assert.InDelta(t, 6.8, q.Tax, 1e-9)
	assert.InDelta(t, 91.8, q.Total, 1e-9)
	assert.Equal(t, Display{Subtotal: "$85.00", Tax: "$6.80", Total: "$91.80"}, q.Display())
	assert.Equal(t, "Complete Booking ($91.80)", q.PayLabel())
}

func TestQuoteSinglePrice(t *testing.T) {
	assert.Equal(t, 60.0, Quote("$60").Subtotal)
	assert.Equal(t, 60.0, Quote("60-80").Subtotal)
}

func TestQuoteMalformedDefaultsToZero(t *testing.T) {
	for _, price := range []string{"", "$", "free", "call us", "$abc-120", "-120"} {
		q := Quote(price)
		assert.Zero(t, q.Subtotal, price)
		assert.Zero(t, q.Tax, price)
		assert.Zero(t, q.Total, price)
	}
}

func TestParseBasePriceReadsLeadingNumber(t *testing.T) {
	cases := map[string]float64{
		"$85abc-120":  85,
		"$85 and up":  85,
		"$45.50/hr":   45.5,
		"$.5-1":       0.5,
		"$1e2 promo":  100,
		"$12.-20":     12,
		"abc":         0,
		"$ 60 - 80":   60,
		"$+70 deluxe": 70,
	}
	for price, want := range cases {
		assert.Equal(t, want, ParseBasePrice(price), price)
	}
}

func TestQuoteKeepsPrecision(t *testing.T) {
	q := Quote("$199.99-250")
	assert.InDelta(t, 15.9992, q.Tax, 1e-9)
	assert.Equal(t, "$16.00", Money(q.Tax))
}
