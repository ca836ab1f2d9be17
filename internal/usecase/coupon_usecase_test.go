package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_service/internal/domain"
)

func TestValidateCoupon(t *testing.T) {
	f := newFixture(t)
	uc := NewCouponUseCase(f.coupons, quietLogger())
	ctx := context.Background()

	_, err := uc.SaveCoupon(ctx, domain.Coupon{Code: "save20", DiscountPercentage: 20, IsActive: true})
	require.NoError(t, err)
	_, err = uc.SaveCoupon(ctx, domain.Coupon{Code: "OLD5", DiscountPercentage: 5, IsActive: false})
	require.NoError(t, err)

	c, err := uc.ValidateCoupon(ctx, "Save20")
	require.NoError(t, err)
	assert.Equal(t, "SAVE20", c.Code)
	assert.Equal(t, 20, c.DiscountPercentage)

	_, err = uc.ValidateCoupon(ctx, "OLD5")
	assert.ErrorIs(t, err, domain.ErrCouponInvalid)
	_, err = uc.ValidateCoupon(ctx, "SAVE2")
	assert.ErrorIs(t, err, domain.ErrCouponInvalid)
}

func TestToggleAndDeleteCoupon(t *testing.T) {
	f := newFixture(t)
	uc := NewCouponUseCase(f.coupons, quietLogger())
	ctx := context.Background()
	_, err := uc.SaveCoupon(ctx, domain.Coupon{Code: "WELCOME10", DiscountPercentage: 10, IsActive: true})
	require.NoError(t, err)

	toggled, err := uc.ToggleCoupon(ctx, "welcome10")
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)
	_, err = uc.ValidateCoupon(ctx, "WELCOME10")
	assert.ErrorIs(t, err, domain.ErrCouponInvalid)

	require.NoError(t, uc.DeleteCoupon(ctx, "Welcome10"))
	coupons, err := uc.ListCoupons(ctx)
	require.NoError(t, err)
	assert.Empty(t, coupons)
	assert.ErrorIs(t, uc.DeleteCoupon(ctx, "WELCOME10"), domain.ErrNotFound)
}

func TestSaveCouponRejectsBadInput(t *testing.T) {
	uc := NewCouponUseCase(newFixture(t).coupons, quietLogger())
	_, err := uc.SaveCoupon(context.Background(), domain.Coupon{Code: " ", DiscountPercentage: 10})
	assert.True(t, domain.IsValidationError(err))
	_, err = uc.SaveCoupon(context.Background(), domain.Coupon{Code: "BIG", DiscountPercentage: 101})
	assert.True(t, domain.IsValidationError(err))
}
