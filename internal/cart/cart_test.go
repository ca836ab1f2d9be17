package cart

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_service/internal/domain"
)

var (
	banarasi   = domain.Product{ID: "p1", Name: "Banarasi Silk", Price: 4500, Stock: 10, Section: domain.SectionSaree}
	kanjivaram = domain.Product{ID: "p2", Name: "Kanjivaram", Price: 7800, Stock: 2, Section: domain.SectionSaree}
)

func TestAddSameProductIncrements(t *testing.T) {
	c := New("c1")
	require.NoError(t, c.Add(banarasi, 1))
	require.NoError(t, c.Add(banarasi, 1))
	require.NoError(t, c.Add(kanjivaram, 1))

	require.Len(t, c.Items, 2)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, 3, c.Totals().CartCount)
}

func TestAddRespectsStock(t *testing.T) {
	c := New("c1")
	require.NoError(t, c.Add(kanjivaram, 2))
	err := c.Add(kanjivaram, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestDecrementBelowOneIsNoop(t *testing.T) {
	c := New("c1")
	require.NoError(t, c.Add(banarasi, 1))
	require.NoError(t, c.ChangeQuantity("p1", -1))
	assert.Equal(t, 1, c.Items[0].Quantity)

	require.NoError(t, c.ChangeQuantity("p1", 2))
	require.NoError(t, c.ChangeQuantity("p1", -5))
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestChangeQuantityUnknownProduct(t *testing.T) {
	c := New("c1")
	assert.ErrorIs(t, c.ChangeQuantity("nope", 1), domain.ErrNotFound)
}

func TestCouponScenario(t *testing.T) {
	c := New("c1")
	require.NoError(t, c.Add(banarasi, 2))
	require.NoError(t, c.Add(kanjivaram, 1))

	before := c.Totals()
	c.ApplyCoupon(domain.Coupon{Code: "SAVE20", DiscountPercentage: 20, IsActive: true})
	withCoupon := c.Totals()
	assert.Equal(t, int64(16800), withCoupon.Subtotal)
	assert.Equal(t, int64(3360), withCoupon.DiscountAmount)
	assert.Equal(t, int64(13440), withCoupon.FinalTotal)

	c.RemoveCoupon()
	assert.Equal(t, before, c.Totals())
}

func TestRemoveAndClear(t *testing.T) {
	c := New("c1")
	require.NoError(t, c.Add(banarasi, 1))
	require.NoError(t, c.Add(kanjivaram, 1))
	c.Remove("p1")
	require.Len(t, c.Items, 1)
	assert.Equal(t, "p2", c.Items[0].ID)

	c.ApplyCoupon(domain.Coupon{Code: "X", DiscountPercentage: 5, IsActive: true})
	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Nil(t, c.Coupon)
}

func TestStoreUpdateDiscardsOnError(t *testing.T) {
	s := NewStore()
	_, err := s.Update("c1", func(c *Cart) error { return c.Add(banarasi, 2) })
	require.NoError(t, err)

	boom := errors.New("boom")
	got, err := s.Update("c1", func(c *Cart) error {
		c.Clear()
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, got.Items, 1)
	assert.Len(t, s.Get("c1").Items, 1)
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := NewStore()
	_, err := s.Update("c1", func(c *Cart) error { return c.Add(banarasi, 1) })
	require.NoError(t, err)

	c := s.Get("c1")
	c.Items[0].Quantity = 99
	assert.Equal(t, 1, s.Get("c1").Items[0].Quantity)
}

func TestStoreSweep(t *testing.T) {
	s := NewStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	_, _ = s.Update("old", func(c *Cart) error { return nil })

	now = now.Add(7 * time.Hour)
	_, _ = s.Update("fresh", func(c *Cart) error { return nil })

	assert.Equal(t, 1, s.Sweep(6*time.Hour))
	assert.Equal(t, 1, s.Len())
	assert.Empty(t, s.Get("old").Items)
}

func TestStoreTakeClaimsOnce(t *testing.T) {
	s := NewStore()
	_, err := s.Update("c1", func(c *Cart) error { return c.Add(banarasi, 2) })
	require.NoError(t, err)

	taken := s.Take("c1")
	assert.Len(t, taken.Items, 1)
	assert.Zero(t, s.Len())
	assert.True(t, s.Take("c1").IsEmpty())
}

func TestStoreRestoreMergesNewerLines(t *testing.T) {
	s := NewStore()
	_, err := s.Update("c1", func(c *Cart) error {
		c.ApplyCoupon(domain.Coupon{Code: "SAVE20", DiscountPercentage: 20, IsActive: true})
		return c.Add(banarasi, 2)
	})
	require.NoError(t, err)
	taken := s.Take("c1")

	_, err = s.Update("c1", func(c *Cart) error {
		if err := c.Add(banarasi, 1); err != nil {
			return err
		}
		return c.Add(kanjivaram, 1)
	})
	require.NoError(t, err)
	s.Restore(taken)

	got := s.Get("c1")
	require.Len(t, got.Items, 2)
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.Equal(t, 1, got.Items[1].Quantity)
	require.NotNil(t, got.Coupon)
	assert.Equal(t, "SAVE20", got.Coupon.Code)
}

func TestStoreRestoreWithoutNewerCart(t *testing.T) {
	s := NewStore()
	_, err := s.Update("c1", func(c *Cart) error { return c.Add(kanjivaram, 2) })
	require.NoError(t, err)

	s.Restore(s.Take("c1"))
	got := s.Get("c1")
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
}
