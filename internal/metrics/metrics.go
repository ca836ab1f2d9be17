package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"storefront_service/internal/domain"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OrdersPlaced      prometheus.Counter
	OrdersFailed      *prometheus.CounterVec
	StockDecrements   *prometheus.CounterVec
	StylistRequests   *prometheus.CounterVec
	AuthAttempts      *prometheus.CounterVec
	ProductInventory  *prometheus.GaugeVec
	CartsSwept        prometheus.Counter
	RepositoryBackend *prometheus.GaugeVec
}

// New registers every storefront metric on reg under prefix.
func New(prefix string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		OrdersPlaced: f.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_orders_placed_total",
			Help: "Total number of orders placed",
		}),
		OrdersFailed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_orders_failed_total",
				Help: "Total number of checkout attempts that did not produce an order",
			},
			[]string{"reason"},
		),
		StockDecrements: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_stock_decrements_total",
				Help: "Total number of stock decrements after checkout",
			},
			[]string{"result"},
		),
		StylistRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_stylist_requests_total",
				Help: "Total number of stylist assistant requests",
			},
			[]string{"result"},
		),
		AuthAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_auth_attempts_total",
				Help: "Total number of login attempts",
			},
			[]string{"result"},
		),
		ProductInventory: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_product_inventory",
				Help: "Current inventory level for products",
			},
			[]string{"product_id", "section", "category"},
		),
		CartsSwept: f.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_carts_swept_total",
			Help: "Total number of idle carts evicted",
		}),
		RepositoryBackend: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_repository_backend",
				Help: "Active persistence backend (1 for the selected mode)",
			},
			[]string{"mode"},
		),
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, path, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(elapsed.Seconds())
}

// SetInventory replaces the inventory gauge with the given snapshot, so
// deleted products disappear from it.
func (m *Metrics) SetInventory(products []domain.Product) {
	m.ProductInventory.Reset()
	for _, p := range products {
		m.ProductInventory.WithLabelValues(p.ID, string(p.Section), p.Category).Set(float64(p.Stock))
	}
}

func (m *Metrics) SetBackend(mode string) {
	m.RepositoryBackend.Reset()
	m.RepositoryBackend.WithLabelValues(mode).Set(1)
}
