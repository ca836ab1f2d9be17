package domain

import "strings"

type Coupon struct {
	Code               string `json:"code" yaml:"code"`
	DiscountPercentage int    `json:"discountPercentage" yaml:"discountPercentage"`
	IsActive           bool   `json:"isActive" yaml:"isActive"`
}

// NormalizeCouponCode is the storage key form of a coupon code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Matches reports whether code redeems this coupon.
func (c Coupon) Matches(code string) bool {
	return c.IsActive && strings.EqualFold(strings.TrimSpace(c.Code), strings.TrimSpace(code))
}
