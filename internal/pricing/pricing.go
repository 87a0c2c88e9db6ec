package pricing

import (
	"fmt"

	"github.com/spiceroute/storefront/internal/cart"
)

// OrderType selects the fulfillment mode. Only delivery carries a fee.
type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
)

func ParseOrderType(s string) (OrderType, error) {
	switch OrderType(s) {
	case OrderTypeDelivery, OrderTypePickup:
		return OrderType(s), nil
	}
	return "", fmt.Errorf("unknown order type %q", s)
}

type Totals struct {
	SubtotalCents    int64 `json:"subtotal_cents"`
	DeliveryFeeCents int64 `json:"delivery_fee_cents"`
	TaxCents         int64 `json:"tax_cents"`
	GrandTotalCents  int64 `json:"grand_total_cents"`
}

// Calculator holds the configured fee and tax rate. Both come from config so
// no call site carries its own constant.
type Calculator struct {
	DeliveryFeeCents   int64
	TaxRateBasisPoints int64
}

// ComputeTotals derives the full price breakdown from the lines and the
// order type. Pure: same inputs, same totals, empty carts included.
func (c Calculator) ComputeTotals(lines []cart.LineItem, orderType OrderType) Totals {
	var subtotal int64
	for _, li := range lines {
		subtotal += li.LineTotalCents()
	}

	var fee int64
	if orderType == OrderTypeDelivery {
		fee = c.DeliveryFeeCents
	}

	tax := roundedBasisPoints(subtotal, c.TaxRateBasisPoints)

	return Totals{
		SubtotalCents:    subtotal,
		DeliveryFeeCents: fee,
		TaxCents:         tax,
		GrandTotalCents:  subtotal + fee + tax,
	}
}

// roundedBasisPoints applies rate/10000 to amount, rounding half up in cents.
func roundedBasisPoints(amount, rate int64) int64 {
	return (amount*rate + 5000) / 10000
}

// FormatCents renders an amount for display, e.g. 1234 -> "12.34".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
