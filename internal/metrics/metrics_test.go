package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_service/internal/domain"
)

func TestObserveRequest(t *testing.T) {
	m := New("test", prometheus.NewRegistry())
	m.ObserveRequest("GET", "/products", "200", 20*time.Millisecond)
	m.ObserveRequest("GET", "/products", "200", 30*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/products", "200")))
}

func TestSetInventoryReplacesSnapshot(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("test", reg)

	m.SetInventory([]domain.Product{
		{ID: "a", Stock: 3, Section: domain.SectionSaree, Category: "Silk"},
		{ID: "b", Stock: 1, Section: domain.SectionKids, Category: "Lehenga"},
	})
	assert.Equal(t, 2, testutil.CollectAndCount(m.ProductInventory))

	m.SetInventory([]domain.Product{{ID: "a", Stock: 2, Section: domain.SectionSaree, Category: "Silk"}})
	assert.Equal(t, 1, testutil.CollectAndCount(m.ProductInventory))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProductInventory.WithLabelValues("a", "Saree", "Silk")))
}

func TestNewRegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("shop", reg)
	m.OrdersPlaced.Inc()
	m.SetBackend("local")

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["shop_orders_placed_total"])
	assert.True(t, names["shop_repository_backend"])
}
