// Package billing computes order money totals. Australian GST applies at a
// flat rate on the goods subtotal; amounts are rounded to cents.
package billing

import (
	"math"

	"tubeworks/internal/storage"
)

// GSTRate is the Australian goods and services tax rate.
const GSTRate = 0.10

// Totals carries the money summary for one order, in dollars.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	GST      float64 `json:"gst"`
	Total    float64 `json:"total"`
}

// OrderTotals sums quantity times unit price across the order's line items
// and applies GST on top. Each figure is rounded to cents independently, so
// Total is always exactly Subtotal plus GST.
func OrderTotals(items []storage.OrderItem) Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += float64(it.Quantity) * it.UnitPrice
	}
	subtotal = roundCents(subtotal)
	gst := roundCents(subtotal * GSTRate)

	return Totals{
		Subtotal: subtotal,
		GST:      gst,
		Total:    roundCents(subtotal + gst),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
