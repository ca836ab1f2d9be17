package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"storefront_service/internal/domain"
)

const (
	ProductsCollection  = "products"
	OrdersCollection    = "orders"
	CouponsCollection   = "coupons"
	InquiriesCollection = "inquiries"
	FeedbackCollection  = "feedback"
	UsersCollection     = "users"
	// UserEmailsCollection holds one claim per normalized email.
	UserEmailsCollection = "user_emails"
)

var (
	_ domain.ProductRepository  = (*ProductRepository)(nil)
	_ domain.OrderRepository    = (*Repository[domain.Order])(nil)
	_ domain.CouponRepository   = (*Repository[domain.Coupon])(nil)
	_ domain.InquiryRepository  = (*Repository[domain.Inquiry])(nil)
	_ domain.FeedbackRepository = (*Repository[domain.Feedback])(nil)
	_ domain.UserRepository     = (*UserRepository)(nil)
)

type ProductRepository struct {
	*Repository[domain.Product]
}

func NewProductRepository(b Backend, logger *logrus.Logger) *ProductRepository {
	return &ProductRepository{New(b, Collection[domain.Product]{
		Name: ProductsCollection,
		ID:   func(p domain.Product) string { return p.ID },
	}, logger)}
}

func (r *ProductRepository) DecrementStock(ctx context.Context, id string, n int) (int, error) {
	return r.Decrement(ctx, id, "stock", n)
}

func NewOrderRepository(b Backend, logger *logrus.Logger) *Repository[domain.Order] {
	return New(b, Collection[domain.Order]{
		Name: OrdersCollection,
		ID:   func(o domain.Order) string { return o.ID },
	}, logger)
}

// NewCouponRepository keys coupons by their upper-cased code.
func NewCouponRepository(b Backend, logger *logrus.Logger) *Repository[domain.Coupon] {
	return New(b, Collection[domain.Coupon]{
		Name: CouponsCollection,
		ID:   func(c domain.Coupon) string { return domain.NormalizeCouponCode(c.Code) },
	}, logger)
}

func NewInquiryRepository(b Backend, logger *logrus.Logger) *Repository[domain.Inquiry] {
	return New(b, Collection[domain.Inquiry]{
		Name: InquiriesCollection,
		ID:   func(i domain.Inquiry) string { return i.ID },
	}, logger)
}

func NewFeedbackRepository(b Backend, logger *logrus.Logger) *Repository[domain.Feedback] {
	return New(b, Collection[domain.Feedback]{
		Name: FeedbackCollection,
		ID:   func(f domain.Feedback) string { return f.ID },
	}, logger)
}

type emailClaim struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
}

// UserRepository stores users and keeps every email claimed by at most one
// of them.
type UserRepository struct {
	*Repository[domain.User]
	emails *Repository[emailClaim]
}

func NewUserRepository(b Backend, logger *logrus.Logger) *UserRepository {
	return &UserRepository{
		Repository: New(b, Collection[domain.User]{
			Name: UsersCollection,
			ID:   func(u domain.User) string { return u.ID },
		}, logger),
		emails: New(b, Collection[emailClaim]{
			Name: UserEmailsCollection,
			ID:   func(c emailClaim) string { return c.Email },
		}, logger),
	}
}

// Create claims the user's email and then writes the user. A claim held by
// another user fails with domain.ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	email := strings.ToLower(strings.TrimSpace(user.Email))
	if email == "" {
		return fmt.Errorf("cannot create user %s without an email", user.ID)
	}
	if err := r.emails.Create(ctx, emailClaim{Email: email, UserID: user.ID}); err != nil {
		return err
	}
	if err := r.Save(ctx, user); err != nil {
		if relErr := r.emails.Delete(ctx, email); relErr != nil {
			r.log.Errorf("Repository: Could not release email claim %s: %v", email, relErr)
		}
		return err
	}
	return nil
}
