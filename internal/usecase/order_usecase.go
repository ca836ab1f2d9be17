package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"storefront_service/internal/domain"
)

type OrderFilter struct {
	Status domain.OrderStatus
	Limit  int
	Offset int
}

type OrderPage struct {
	Orders []domain.Order `json:"orders"`
	Total  int            `json:"total"`
}

type OrderUseCase interface {
	GetOrder(ctx context.Context, session *domain.Session, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) (*OrderPage, error)
	ListMyOrders(ctx context.Context, session *domain.Session) ([]domain.Order, error)
	TrackOrder(ctx context.Context, id, email string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	UpdateRefundStatus(ctx context.Context, id string, status domain.RefundStatus) (*domain.Order, error)
	CancelOrder(ctx context.Context, session *domain.Session, id string) (*domain.Order, error)
	RequestReturn(ctx context.Context, session *domain.Session, id string, kind domain.ReturnKind, reason string) (*domain.Order, error)
}

type orderUseCase struct {
	orderRepo    domain.OrderRepository
	returnWindow time.Duration
	log          *logrus.Logger
	now          func() time.Time
}

func NewOrderUseCase(repo domain.OrderRepository, returnWindow time.Duration, logger *logrus.Logger) OrderUseCase {
	return &orderUseCase{orderRepo: repo, returnWindow: returnWindow, log: logger, now: time.Now}
}

func newestFirst(orders []domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

func ownsOrder(session *domain.Session, order domain.Order) bool {
	if session == nil {
		return false
	}
	if session.IsAdmin() {
		return true
	}
	if order.UserID != "" {
		return order.UserID == session.UserID
	}
	return strings.EqualFold(order.Customer.Email, session.Email)
}

func (uc *orderUseCase) ownedOrder(ctx context.Context, session *domain.Session, id string) (domain.Order, error) {
	order, err := uc.orderRepo.Get(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get order %s: %v", id, err)
		return order, err
	}
	if !ownsOrder(session, order) {
		uc.log.Warnf("Use Case: Session %s attempted to access order %s it does not own", sessionID(session), id)
		return order, fmt.Errorf("order %s: %w", id, domain.ErrForbidden)
	}
	return order, nil
}

func sessionID(s *domain.Session) string {
	if s == nil {
		return "<none>"
	}
	return s.ID
}

func (uc *orderUseCase) GetOrder(ctx context.Context, session *domain.Session, id string) (*domain.Order, error) {
	order, err := uc.ownedOrder(ctx, session, id)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filter OrderFilter) (*OrderPage, error) {
	if filter.Status != "" && !domain.IsValidStatus(filter.Status) {
		return nil, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", filter.Status))
	}
	all, err := uc.orderRepo.List(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list orders: %v", err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	matched := make([]domain.Order, 0, len(all))
	for _, o := range all {
		if filter.Status == "" || o.Status == filter.Status {
			matched = append(matched, o)
		}
	}
	newestFirst(matched)
	uc.log.Infof("Use Case: Retrieved %d orders (status filter %q)", len(matched), filter.Status)
	return &OrderPage{Orders: paginate(matched, filter.Limit, filter.Offset), Total: len(matched)}, nil
}

func (uc *orderUseCase) ListMyOrders(ctx context.Context, session *domain.Session) ([]domain.Order, error) {
	if session == nil {
		return nil, domain.ErrUnauthorized
	}
	all, err := uc.orderRepo.List(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list orders for user %s: %v", session.UserID, err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	mine := []domain.Order{}
	for _, o := range all {
		if o.UserID == session.UserID || (o.UserID == "" && strings.EqualFold(o.Customer.Email, session.Email)) {
			mine = append(mine, o)
		}
	}
	newestFirst(mine)
	return mine, nil
}

// TrackOrder is the guest lookup: the order id plus the email it was placed with.
func (uc *orderUseCase) TrackOrder(ctx context.Context, id, email string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	email = normalizeEmail(email)
	if id == "" || email == "" {
		return nil, domain.NewValidationError("id", "order id and email are required")
	}
	order, err := uc.orderRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(order.Customer.Email, email) {
		uc.log.Warnf("Use Case: Tracking lookup for order %s with mismatched email", id)
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return &order, nil
}

func (uc *orderUseCase) mutate(ctx context.Context, id string, fn func(*domain.Order) error, get func(context.Context) (domain.Order, error)) (*domain.Order, error) {
	order, err := get(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(&order); err != nil {
		uc.log.Warnf("Use Case: Order %s change rejected: %v", id, err)
		return nil, err
	}
	if err := uc.orderRepo.Save(ctx, order); err != nil {
		uc.log.Errorf("Use Case: Repository failed to save order %s: %v", id, err)
		return nil, err
	}
	return &order, nil
}

func (uc *orderUseCase) byID(id string) func(context.Context) (domain.Order, error) {
	return func(ctx context.Context) (domain.Order, error) { return uc.orderRepo.Get(ctx, id) }
}

func (uc *orderUseCase) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := uc.mutate(ctx, id, func(o *domain.Order) error {
		return o.AdminSetStatus(status, uc.now())
	}, uc.byID(id))
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: Order %s status set to %s", id, status)
	return order, nil
}

func (uc *orderUseCase) UpdateRefundStatus(ctx context.Context, id string, status domain.RefundStatus) (*domain.Order, error) {
	order, err := uc.mutate(ctx, id, func(o *domain.Order) error {
		return o.SetRefundStatus(status, uc.now())
	}, uc.byID(id))
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: Order %s refund status set to %s", id, status)
	return order, nil
}

func (uc *orderUseCase) CancelOrder(ctx context.Context, session *domain.Session, id string) (*domain.Order, error) {
	order, err := uc.mutate(ctx, id, func(o *domain.Order) error {
		return o.Cancel(uc.now())
	}, func(ctx context.Context) (domain.Order, error) { return uc.ownedOrder(ctx, session, id) })
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: Order %s cancelled by customer", id)
	return order, nil
}

func (uc *orderUseCase) RequestReturn(ctx context.Context, session *domain.Session, id string, kind domain.ReturnKind, reason string) (*domain.Order, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domain.NewValidationError("reason", "cannot be empty")
	}
	order, err := uc.mutate(ctx, id, func(o *domain.Order) error {
		return o.RequestReturn(kind, reason, uc.now(), uc.returnWindow)
	}, func(ctx context.Context) (domain.Order, error) { return uc.ownedOrder(ctx, session, id) })
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: %s requested for order %s", kind, id)
	return order, nil
}
