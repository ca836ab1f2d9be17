package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"storefront_service/internal/domain"
)

type CouponUseCase interface {
	ListCoupons(ctx context.Context) ([]domain.Coupon, error)
	SaveCoupon(ctx context.Context, coupon domain.Coupon) (*domain.Coupon, error)
	DeleteCoupon(ctx context.Context, code string) error
	ToggleCoupon(ctx context.Context, code string) (*domain.Coupon, error)
	ValidateCoupon(ctx context.Context, code string) (*domain.Coupon, error)
}

type couponUseCase struct {
	couponRepo domain.CouponRepository
	log        *logrus.Logger
}

func NewCouponUseCase(repo domain.CouponRepository, logger *logrus.Logger) CouponUseCase {
	return &couponUseCase{couponRepo: repo, log: logger}
}

func (uc *couponUseCase) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	coupons, err := uc.couponRepo.List(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list coupons: %v", err)
		return nil, fmt.Errorf("could not retrieve coupons: %w", err)
	}
	sort.Slice(coupons, func(i, j int) bool { return coupons[i].Code < coupons[j].Code })
	return coupons, nil
}

func (uc *couponUseCase) SaveCoupon(ctx context.Context, coupon domain.Coupon) (*domain.Coupon, error) {
	coupon.Code = domain.NormalizeCouponCode(coupon.Code)
	if coupon.Code == "" {
		uc.log.Warn("Use Case: Attempted to save coupon with empty code")
		return nil, domain.NewValidationError("code", "coupon code cannot be empty")
	}
	if coupon.DiscountPercentage < 0 || coupon.DiscountPercentage > 100 {
		uc.log.Warnf("Use Case: Coupon %s has out of range discount %d", coupon.Code, coupon.DiscountPercentage)
		return nil, domain.NewValidationError("discountPercentage", "must be between 0 and 100")
	}
	if err := uc.couponRepo.Save(ctx, coupon); err != nil {
		uc.log.Errorf("Use Case: Repository failed to save coupon %s: %v", coupon.Code, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Coupon %s saved (%d%%, active: %t)", coupon.Code, coupon.DiscountPercentage, coupon.IsActive)
	return &coupon, nil
}

func (uc *couponUseCase) DeleteCoupon(ctx context.Context, code string) error {
	code = domain.NormalizeCouponCode(code)
	if err := uc.couponRepo.Delete(ctx, code); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete coupon %s: %v", code, err)
		return err
	}
	uc.log.Infof("Use Case: Coupon %s deleted", code)
	return nil
}

func (uc *couponUseCase) ToggleCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	code = domain.NormalizeCouponCode(code)
	coupon, err := uc.couponRepo.Get(ctx, code)
	if err != nil {
		uc.log.Warnf("Use Case: Coupon %s not found for toggle: %v", code, err)
		return nil, err
	}
	coupon.IsActive = !coupon.IsActive
	if err := uc.couponRepo.Save(ctx, coupon); err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: Coupon %s is now active=%t", code, coupon.IsActive)
	return &coupon, nil
}

// ValidateCoupon finds an active coupon whose code equals code ignoring case.
func (uc *couponUseCase) ValidateCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	coupons, err := uc.couponRepo.List(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list coupons for validation: %v", err)
		return nil, fmt.Errorf("could not validate coupon: %w", err)
	}
	for _, c := range coupons {
		if c.Matches(code) {
			return &c, nil
		}
	}
	uc.log.Infof("Use Case: Coupon %q rejected", code)
	return nil, domain.ErrCouponInvalid
}
