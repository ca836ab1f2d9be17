package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_service/internal/domain"
)

func TestLoadEmbeddedDataset(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, ds.Products)

	seen := map[string]bool{}
	for _, p := range ds.Products {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.Positive(t, p.Price, p.ID)
		assert.GreaterOrEqual(t, p.Stock, 0, p.ID)
		if p.MRP != 0 {
			assert.GreaterOrEqual(t, p.MRP, p.Price, p.ID)
		}
	}

	codes := map[string]domain.Coupon{}
	for _, c := range ds.Coupons {
		codes[c.Code] = c
	}
	assert.Equal(t, 10, codes["WELCOME10"].DiscountPercentage)
	assert.True(t, codes["SAVE20"].IsActive)
}

func TestParseCoercesMRPAndCodes(t *testing.T) {
	ds, err := Parse([]byte(`
products:
  - id: p1
    name: Test
    price: 500
    mrp: 300
    section: Kids
coupons:
  - code: " hello5 "
    discountPercentage: 5
    isActive: true
`))
	require.NoError(t, err)
	assert.Equal(t, int64(500), ds.Products[0].MRP)
	assert.Equal(t, "HELLO5", ds.Coupons[0].Code)
}

func TestParseRejectsUnknownSection(t *testing.T) {
	_, err := Parse([]byte("products:\n  - id: p1\n    section: Menswear\n"))
	assert.Error(t, err)
}
