package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"storefront_service/internal/cart"
	"storefront_service/internal/domain"
	"storefront_service/internal/pricing"
)

type CartView struct {
	ID     string            `json:"id"`
	Items  []domain.CartItem `json:"items"`
	Coupon *domain.Coupon    `json:"coupon,omitempty"`
	pricing.Totals
}

func newCartView(c *cart.Cart) *CartView {
	return &CartView{ID: c.ID, Items: c.Items, Coupon: c.Coupon, Totals: c.Totals()}
}

type CartUseCase interface {
	ViewCart(ctx context.Context, cartID string) *CartView
	AddItem(ctx context.Context, cartID, productID string, quantity int) (*CartView, error)
	ChangeQuantity(ctx context.Context, cartID, productID string, delta int) (*CartView, error)
	RemoveItem(ctx context.Context, cartID, productID string) (*CartView, error)
	ClearCart(ctx context.Context, cartID string) *CartView
	ApplyCoupon(ctx context.Context, cartID, code string) (*CartView, error)
	RemoveCoupon(ctx context.Context, cartID string) *CartView
	SweepIdle(idle time.Duration) int
}

type cartUseCase struct {
	carts   *cart.Store
	catalog CatalogUseCase
	coupons CouponUseCase
	log     *logrus.Logger
}

func NewCartUseCase(store *cart.Store, catalog CatalogUseCase, coupons CouponUseCase, logger *logrus.Logger) CartUseCase {
	return &cartUseCase{carts: store, catalog: catalog, coupons: coupons, log: logger}
}

func (uc *cartUseCase) ViewCart(_ context.Context, cartID string) *CartView {
	return newCartView(uc.carts.Get(cartID))
}

func (uc *cartUseCase) AddItem(ctx context.Context, cartID, productID string, quantity int) (*CartView, error) {
	product, err := uc.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	c, err := uc.carts.Update(cartID, func(c *cart.Cart) error {
		return c.Add(*product, quantity)
	})
	if err != nil {
		uc.log.Warnf("Use Case: Could not add product %s to cart %s: %v", productID, cartID, err)
		return nil, err
	}
	return newCartView(c), nil
}

// ChangeQuantity refreshes the line's product before applying delta so the
// stock check sees current inventory.
func (uc *cartUseCase) ChangeQuantity(ctx context.Context, cartID, productID string, delta int) (*CartView, error) {
	var fresh *domain.Product
	if delta > 0 {
		p, err := uc.catalog.GetProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		fresh = p
	}
	c, err := uc.carts.Update(cartID, func(c *cart.Cart) error {
		if fresh != nil {
			for i := range c.Items {
				if c.Items[i].ID == productID {
					c.Items[i].Product = *fresh
				}
			}
		}
		return c.ChangeQuantity(productID, delta)
	})
	if err != nil {
		uc.log.Warnf("Use Case: Could not change quantity of %s in cart %s by %d: %v", productID, cartID, delta, err)
		return nil, err
	}
	return newCartView(c), nil
}

func (uc *cartUseCase) RemoveItem(_ context.Context, cartID, productID string) (*CartView, error) {
	c, err := uc.carts.Update(cartID, func(c *cart.Cart) error {
		c.Remove(productID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newCartView(c), nil
}

func (uc *cartUseCase) ClearCart(_ context.Context, cartID string) *CartView {
	uc.carts.Drop(cartID)
	return newCartView(cart.New(cartID))
}

func (uc *cartUseCase) ApplyCoupon(ctx context.Context, cartID, code string) (*CartView, error) {
	coupon, err := uc.coupons.ValidateCoupon(ctx, code)
	if err != nil {
		return nil, err
	}
	c, err := uc.carts.Update(cartID, func(c *cart.Cart) error {
		c.ApplyCoupon(*coupon)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: Coupon %s applied to cart %s", coupon.Code, cartID)
	return newCartView(c), nil
}

func (uc *cartUseCase) RemoveCoupon(_ context.Context, cartID string) *CartView {
	c, _ := uc.carts.Update(cartID, func(c *cart.Cart) error {
		c.RemoveCoupon()
		return nil
	})
	return newCartView(c)
}

func (uc *cartUseCase) SweepIdle(idle time.Duration) int {
	n := uc.carts.Sweep(idle)
	if n > 0 {
		uc.log.Infof("Use Case: Evicted %d idle carts", n)
	}
	return n
}
