package domain

import "context"

// Repository is the data-access contract every persisted entity shares,
// whichever backend serves it.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Save(ctx context.Context, item T) error
	Delete(ctx context.Context, id string) error
}

type ProductRepository interface {
	Repository[Product]
	// DecrementStock atomically lowers stock by n, never below zero, and
	// returns the resulting stock.
	DecrementStock(ctx context.Context, id string, n int) (int, error)
}

type OrderRepository interface {
	Repository[Order]
}

type CouponRepository interface {
	Repository[Coupon]
}

type InquiryRepository interface {
	Repository[Inquiry]
}

type FeedbackRepository interface {
	Repository[Feedback]
}

type UserRepository interface {
	Repository[User]
	// Create adds a new user and fails with ErrAlreadyExists when another
	// user already holds the same email.
	Create(ctx context.Context, user User) error
}
