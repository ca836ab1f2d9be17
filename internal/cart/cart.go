package cart

import (
	"fmt"
	"time"

	"storefront_service/internal/domain"
	"storefront_service/internal/pricing"
)

// Cart is a single session's transient cart. It is never persisted.
type Cart struct {
	ID        string            `json:"id"`
	Items     []domain.CartItem `json:"items"`
	Coupon    *domain.Coupon    `json:"coupon,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func New(id string) *Cart {
	return &Cart{ID: id, Items: []domain.CartItem{}}
}

func (c *Cart) find(productID string) int {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			return i
		}
	}
	return -1
}

// Add puts qty of product in the cart, merging with an existing line.
func (c *Cart) Add(product domain.Product, qty int) error {
	if qty <= 0 {
		qty = 1
	}
	idx := c.find(product.ID)
	current := 0
	if idx >= 0 {
		current = c.Items[idx].Quantity
	}
	if current+qty > product.Stock {
		return fmt.Errorf("%w: %s has %d left, cart would hold %d", domain.ErrInsufficientStock, product.Name, product.Stock, current+qty)
	}
	if idx >= 0 {
		c.Items[idx].Product = product
		c.Items[idx].Quantity += qty
	} else {
		c.Items = append(c.Items, domain.CartItem{Product: product, Quantity: qty})
	}
	return nil
}

// ChangeQuantity adjusts a line by delta. A result below one is ignored.
func (c *Cart) ChangeQuantity(productID string, delta int) error {
	idx := c.find(productID)
	if idx < 0 {
		return fmt.Errorf("product %s is not in the cart: %w", productID, domain.ErrNotFound)
	}
	next := c.Items[idx].Quantity + delta
	if next < 1 {
		return nil
	}
	if delta > 0 && next > c.Items[idx].Stock {
		return fmt.Errorf("%w: %s has %d left", domain.ErrInsufficientStock, c.Items[idx].Name, c.Items[idx].Stock)
	}
	c.Items[idx].Quantity = next
	return nil
}

func (c *Cart) Remove(productID string) {
	if idx := c.find(productID); idx >= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	}
}

func (c *Cart) Clear() {
	c.Items = []domain.CartItem{}
	c.Coupon = nil
}

func (c *Cart) ApplyCoupon(coupon domain.Coupon) {
	c.Coupon = &coupon
}

func (c *Cart) RemoveCoupon() {
	c.Coupon = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Totals() pricing.Totals {
	return pricing.Calculate(c.Items, c.Coupon)
}

// Clone returns a deep copy safe to hand outside the store lock.
func (c *Cart) Clone() *Cart {
	cp := &Cart{ID: c.ID, UpdatedAt: c.UpdatedAt, Items: make([]domain.CartItem, len(c.Items))}
	copy(cp.Items, c.Items)
	if c.Coupon != nil {
		coupon := *c.Coupon
		cp.Coupon = &coupon
	}
	return cp
}
