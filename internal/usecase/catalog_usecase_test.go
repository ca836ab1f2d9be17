package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_service/internal/domain"
)

func newCatalog(f *fixture) *catalogUseCase {
	uc := NewCatalogUseCase(f.products, quietLogger()).(*catalogUseCase)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestCreateProductValidation(t *testing.T) {
	uc := newCatalog(newFixture(t))
	ctx := context.Background()

	cases := map[string]domain.Product{
		"name":    {Name: " ", Price: 100, Section: domain.SectionSaree},
		"price":   {Name: "Silk", Price: 0, Section: domain.SectionSaree},
		"stock":   {Name: "Silk", Price: 100, Stock: -1, Section: domain.SectionSaree},
		"section": {Name: "Silk", Price: 100, Section: "Menswear"},
	}
	for field, p := range cases {
		_, err := uc.CreateProduct(ctx, &p)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, field)
		assert.Equal(t, field, ve.Field)
	}
}

func TestCreateProductCoercesMRPAndAssignsID(t *testing.T) {
	f := newFixture(t)
	uc := newCatalog(f)

	created, err := uc.CreateProduct(context.Background(), &domain.Product{
		Name: "Tussar Silk", Price: 5000, MRP: 4000, Stock: 2, Section: domain.SectionSaree,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(5000), created.MRP)
	assert.Equal(t, fixedNow, created.CreatedAt)

	_, err = uc.CreateProduct(context.Background(), &domain.Product{
		ID: created.ID, Name: "Dup", Price: 1, Section: domain.SectionKids,
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestUpdateProductKeepsIdentity(t *testing.T) {
	f := newFixture(t)
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.addProduct(t, domain.Product{ID: "p1", Name: "Old", Price: 100, CreatedAt: created})
	uc := newCatalog(f)

	updated, err := uc.UpdateProduct(context.Background(), "p1", &domain.Product{
		ID: "ignored", Name: "New", Price: 200, Stock: 5, Section: domain.SectionKids,
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", updated.ID)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, fixedNow, updated.UpdatedAt)

	_, err = uc.UpdateProduct(context.Background(), "missing", &domain.Product{Name: "x", Price: 1, Section: domain.SectionKids})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListProductsFiltersAndPages(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.addProduct(t, domain.Product{ID: "a", Name: "Banarasi", Category: "Silk", Price: 1, CreatedAt: base})
	f.addProduct(t, domain.Product{ID: "b", Name: "Kanjivaram", Category: "Silk", Price: 1, Tags: []string{"bridal"}, CreatedAt: base.Add(time.Hour)})
	f.addProduct(t, domain.Product{ID: "c", Name: "Linen", Category: "Linen", Price: 1, CreatedAt: base.Add(2 * time.Hour)})
	f.addProduct(t, domain.Product{ID: "k", Name: "Lehenga", Category: "Lehenga", Section: domain.SectionKids, Price: 1, CreatedAt: base})
	uc := newCatalog(f)
	ctx := context.Background()

	page, err := uc.ListProducts(ctx, ProductFilter{Section: domain.SectionSaree})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, "c", page.Products[0].ID, "newest first")

	page, err = uc.ListProducts(ctx, ProductFilter{Category: "silk"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = uc.ListProducts(ctx, ProductFilter{Query: "BRIDAL"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "b", page.Products[0].ID)

	page, err = uc.ListProducts(ctx, ProductFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Len(t, page.Products, 2)

	page, err = uc.ListProducts(ctx, ProductFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Products)

	_, err = uc.ListProducts(ctx, ProductFilter{Section: "Menswear"})
	assert.True(t, domain.IsValidationError(err))
}

func TestDecrementStockFloorsAtZero(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, domain.Product{ID: "p1", Name: "Chanderi", Price: 3200, Stock: 3})
	uc := newCatalog(f)

	left, err := uc.DecrementStock(context.Background(), "p1", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, left)
	assert.Equal(t, 0, f.stock(t, "p1"))

	_, err = uc.DecrementStock(context.Background(), "p1", 0)
	assert.True(t, domain.IsValidationError(err))
}
