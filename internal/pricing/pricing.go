// Package pricing computes cart totals. Amounts are whole currency units.
package pricing

import (
	"math"

	"storefront_service/internal/domain"
)

type Totals struct {
	Subtotal       int64 `json:"subtotal"`
	DiscountAmount int64 `json:"discountAmount"`
	FinalTotal     int64 `json:"finalTotal"`
	CartCount      int   `json:"cartCount"`
}

func Calculate(items []domain.CartItem, coupon *domain.Coupon) Totals {
	var t Totals
	for _, item := range items {
		t.Subtotal += item.LineTotal()
		t.CartCount += item.Quantity
	}
	if coupon != nil {
		t.DiscountAmount = Discount(t.Subtotal, coupon.DiscountPercentage)
	}
	t.FinalTotal = t.Subtotal - t.DiscountAmount
	return t
}

// Discount is round(subtotal × pct / 100), half away from zero.
func Discount(subtotal int64, pct int) int64 {
	return int64(math.Round(float64(subtotal) * float64(pct) / 100))
}
