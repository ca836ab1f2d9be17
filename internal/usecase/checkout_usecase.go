package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront_service/internal/cart"
	"storefront_service/internal/clients"
	"storefront_service/internal/domain"
	"storefront_service/internal/metrics"
)

type PaymentOutcome string

const (
	PaymentSuccess   PaymentOutcome = "success"
	PaymentFailure   PaymentOutcome = "failure"
	PaymentDismissed PaymentOutcome = "dismissed"
)

type PaymentRequest struct {
	Method    domain.PaymentMethod `json:"method"`
	Outcome   PaymentOutcome       `json:"outcome"`
	Reference string               `json:"reference"`
	PaymentID string               `json:"paymentId"`
	Signature string               `json:"signature"`
}

type CheckoutRequest struct {
	CartID   string
	UserID   string
	Customer domain.Customer
	Payment  PaymentRequest
}

// StockShortfall records a line whose stock could not be decremented after
// the order was written.
type StockShortfall struct {
	ProductID string `json:"productId"`
	Error     string `json:"error"`
}

type CheckoutResult struct {
	Order          *domain.Order    `json:"order"`
	StockShortfall []StockShortfall `json:"stockShortfall,omitempty"`
}

type CheckoutUseCase interface {
	PlaceOrder(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
}

type checkoutUseCase struct {
	carts    *cart.Store
	catalog  CatalogUseCase
	coupons  CouponUseCase
	orders   domain.OrderRepository
	payments clients.PaymentVerifier
	metrics  *metrics.Metrics
	log      *logrus.Logger
	now      func() time.Time
}

func NewCheckoutUseCase(
	store *cart.Store,
	catalog CatalogUseCase,
	coupons CouponUseCase,
	orders domain.OrderRepository,
	payments clients.PaymentVerifier,
	m *metrics.Metrics,
	logger *logrus.Logger,
) CheckoutUseCase {
	return &checkoutUseCase{
		carts:    store,
		catalog:  catalog,
		coupons:  coupons,
		orders:   orders,
		payments: payments,
		metrics:  m,
		log:      logger,
		now:      time.Now,
	}
}

func newOrderID() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func (uc *checkoutUseCase) checkPayment(p PaymentRequest) (domain.PaymentInfo, error) {
	switch p.Method {
	case domain.PaymentCOD:
		return domain.PaymentInfo{Method: domain.PaymentCOD}, nil
	case domain.PaymentOnline:
	default:
		return domain.PaymentInfo{}, domain.NewValidationError("payment.method", "must be online or cod")
	}

	switch p.Outcome {
	case PaymentSuccess:
	case PaymentFailure:
		return domain.PaymentInfo{}, domain.ErrPaymentFailed
	case PaymentDismissed:
		return domain.PaymentInfo{}, domain.ErrPaymentDismissed
	default:
		return domain.PaymentInfo{}, domain.NewValidationError("payment.outcome", "must be success, failure or dismissed")
	}
	if strings.TrimSpace(p.PaymentID) == "" {
		return domain.PaymentInfo{}, domain.NewValidationError("payment.paymentId", "cannot be empty")
	}
	if !uc.payments.Verify(p.Reference, p.PaymentID, p.Signature) {
		uc.log.Warnf("Use Case: Payment signature mismatch for payment %s", p.PaymentID)
		return domain.PaymentInfo{}, fmt.Errorf("%w: signature mismatch", domain.ErrPaymentFailed)
	}
	return domain.PaymentInfo{Method: domain.PaymentOnline, Reference: p.Reference, PaymentID: p.PaymentID}, nil
}

func (uc *checkoutUseCase) fail(reason string, err error) error {
	uc.metrics.OrdersFailed.WithLabelValues(reason).Inc()
	return err
}

// PlaceOrder claims the cart and writes its order. If the write fails the
// cart is put back; stock is decremented only after it succeeds. Items added
// to the cart while the order is written are not part of it and stay in the
// cart.
func (uc *checkoutUseCase) PlaceOrder(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	customer, err := validateCustomer(req.Customer)
	if err != nil {
		uc.log.Warnf("Use Case: Checkout rejected for cart %s: %v", req.CartID, err)
		return nil, uc.fail("validation", err)
	}

	if uc.carts.Get(req.CartID).IsEmpty() {
		return nil, uc.fail("empty_cart", domain.ErrEmptyCart)
	}

	payment, err := uc.checkPayment(req.Payment)
	if err != nil {
		reason := "payment"
		if errors.Is(err, domain.ErrPaymentDismissed) {
			reason = "payment_dismissed"
		}
		uc.log.Warnf("Use Case: Payment not accepted for cart %s: %v", req.CartID, err)
		return nil, uc.fail(reason, err)
	}

	c := uc.carts.Take(req.CartID)
	if c.IsEmpty() {
		uc.log.Warnf("Use Case: Cart %s was checked out concurrently", req.CartID)
		return nil, uc.fail("empty_cart", domain.ErrEmptyCart)
	}
	if c.Coupon != nil {
		coupon, err := uc.coupons.ValidateCoupon(ctx, c.Coupon.Code)
		if err != nil {
			uc.carts.Restore(c)
			uc.log.Warnf("Use Case: Coupon %s no longer valid for cart %s: %v", c.Coupon.Code, req.CartID, err)
			return nil, uc.fail("coupon", err)
		}
		c.Coupon = coupon
	}

	totals := c.Totals()
	lines := make([]domain.OrderLine, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, domain.OrderLine{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		})
	}
	now := uc.now()
	order := domain.Order{
		ID:           newOrderID(),
		UserID:       req.UserID,
		Customer:     customer,
		Items:        lines,
		ItemsSummary: domain.SummarizeItems(lines),
		Subtotal:     totals.Subtotal,
		Discount:     totals.DiscountAmount,
		Total:        totals.FinalTotal,
		Payment:      payment,
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if c.Coupon != nil {
		order.CouponCode = c.Coupon.Code
	}

	uc.log.Infof("Use Case: Attempting to place order %s for cart %s (total %d)", order.ID, req.CartID, order.Total)
	if err := uc.orders.Save(ctx, order); err != nil {
		uc.carts.Restore(c)
		uc.log.Errorf("Use Case: Repository failed to create order %s: %v", order.ID, err)
		return nil, uc.fail("persist", fmt.Errorf("could not place order: %w", err))
	}
	uc.metrics.OrdersPlaced.Inc()

	result := &CheckoutResult{Order: &order}
	for _, line := range lines {
		if _, err := uc.catalog.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			uc.metrics.StockDecrements.WithLabelValues("error").Inc()
			result.StockShortfall = append(result.StockShortfall, StockShortfall{ProductID: line.ProductID, Error: err.Error()})
			continue
		}
		uc.metrics.StockDecrements.WithLabelValues("ok").Inc()
	}

	uc.log.Infof("Use Case: Order %s placed successfully", order.ID)
	return result, nil
}
