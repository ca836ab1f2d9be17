package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"storefront_service/internal/domain"
	"storefront_service/internal/metrics"
	"storefront_service/internal/repository"
	"storefront_service/pkg/kvstore"
)

var fixedNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testMetrics() *metrics.Metrics {
	return metrics.New("test", prometheus.NewRegistry())
}

type fixture struct {
	backend  *repository.LocalBackend
	products *repository.ProductRepository
	orders   *repository.Repository[domain.Order]
	coupons  *repository.Repository[domain.Coupon]
	users    *repository.UserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := repository.NewLocalBackend(kvstore.NewMemoryStore(), quietLogger())
	return &fixture{
		backend:  backend,
		products: repository.NewProductRepository(backend, quietLogger()),
		orders:   repository.NewOrderRepository(backend, quietLogger()),
		coupons:  repository.NewCouponRepository(backend, quietLogger()),
		users:    repository.NewUserRepository(backend, quietLogger()),
	}
}

func (f *fixture) addProduct(t *testing.T, p domain.Product) {
	t.Helper()
	if p.Section == "" {
		p.Section = domain.SectionSaree
	}
	require.NoError(t, f.products.Save(context.Background(), p))
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.products.Get(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

// failingOrders rejects every write.
type failingOrders struct {
	domain.OrderRepository
}

var errWriteRejected = errors.New("write rejected by store")

func (failingOrders) Save(context.Context, domain.Order) error {
	return errWriteRejected
}

func sampleCustomer() domain.Customer {
	return domain.Customer{
		Name:    "Meera Iyer",
		Email:   "meera@example.com",
		Phone:   "9876543210",
		Address: "12 Temple Street",
		City:    "Chennai",
		State:   "Tamil Nadu",
		Pincode: "600004",
	}
}

// gatedOrders holds every Save until release is closed.
type gatedOrders struct {
	domain.OrderRepository
	started chan struct{}
	release chan struct{}
}

func newGatedOrders(inner domain.OrderRepository) *gatedOrders {
	return &gatedOrders{OrderRepository: inner, started: make(chan struct{}, 4), release: make(chan struct{})}
}

func (g *gatedOrders) Save(ctx context.Context, o domain.Order) error {
	g.started <- struct{}{}
	<-g.release
	return g.OrderRepository.Save(ctx, o)
}
