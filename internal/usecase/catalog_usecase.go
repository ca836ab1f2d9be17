package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront_service/internal/domain"
)

type ProductFilter struct {
	Section  domain.Section
	Category string
	Query    string
	Limit    int
	Offset   int
}

type ProductPage struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

type CatalogUseCase interface {
	ListProducts(ctx context.Context, filter ProductFilter) (*ProductPage, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	DecrementStock(ctx context.Context, id string, quantity int) (int, error)
}

type catalogUseCase struct {
	productRepo domain.ProductRepository
	log         *logrus.Logger
	now         func() time.Time
}

func NewCatalogUseCase(repo domain.ProductRepository, logger *logrus.Logger) CatalogUseCase {
	return &catalogUseCase{productRepo: repo, log: logger, now: time.Now}
}

func matchesFilter(p domain.Product, f ProductFilter) bool {
	if f.Section != "" && p.Section != f.Section {
		return false
	}
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	haystack := []string{p.Name, p.Category, p.Fabric, p.Occasion}
	haystack = append(haystack, p.Tags...)
	haystack = append(haystack, p.Colors...)
	for _, field := range haystack {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, filter ProductFilter) (*ProductPage, error) {
	if filter.Section != "" && !domain.IsValidSection(filter.Section) {
		uc.log.Warnf("Use Case: Invalid section filter %q", filter.Section)
		return nil, domain.NewValidationError("section", "must be Saree or Kids")
	}
	uc.log.Infof("Use Case: Attempting to list products (section: %q, category: %q, q: %q, limit: %d, offset: %d)",
		filter.Section, filter.Category, filter.Query, filter.Limit, filter.Offset)

	all, err := uc.productRepo.List(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}

	matched := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if matchesFilter(p, filter) {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	page := paginate(matched, filter.Limit, filter.Offset)
	uc.log.Infof("Use Case: Retrieved %d of %d matching products", len(page), len(matched))
	return &ProductPage{Products: page, Total: len(matched)}, nil
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		uc.log.Warn("Use Case: Attempted to get product with empty ID")
		return nil, domain.NewValidationError("id", "invalid product ID")
	}
	product, err := uc.productRepo.Get(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get product ID %s: %v", id, err)
		return nil, err
	}
	return &product, nil
}

func (uc *catalogUseCase) validateProduct(product *domain.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		uc.log.Warn("Use Case: Attempted to save product with empty name")
		return domain.NewValidationError("name", "product name cannot be empty")
	}
	if product.Price <= 0 {
		uc.log.Warnf("Use Case: Attempted to save product '%s' with invalid price: %d", product.Name, product.Price)
		return domain.NewValidationError("price", "product price must be positive")
	}
	if product.Stock < 0 {
		uc.log.Warnf("Use Case: Attempted to save product '%s' with negative stock: %d", product.Name, product.Stock)
		return domain.NewValidationError("stock", "product stock cannot be negative")
	}
	if !domain.IsValidSection(product.Section) {
		uc.log.Warnf("Use Case: Attempted to save product '%s' with unknown section %q", product.Name, product.Section)
		return domain.NewValidationError("section", "must be Saree or Kids")
	}
	product.NormalizeMRP()
	return nil
}

func (uc *catalogUseCase) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := uc.validateProduct(product); err != nil {
		return nil, err
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	} else if _, err := uc.productRepo.Get(ctx, product.ID); err == nil {
		return nil, fmt.Errorf("product %s: %w", product.ID, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	now := uc.now()
	product.CreatedAt = now
	product.UpdatedAt = now

	uc.log.Infof("Use Case: Attempting to create product '%s'", product.Name)
	if err := uc.productRepo.Save(ctx, *product); err != nil {
		uc.log.Errorf("Use Case: Repository failed to create product '%s': %v", product.Name, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Product '%s' created successfully with ID %s", product.Name, product.ID)
	return product, nil
}

// UpdateProduct replaces the stored product, keeping its id and creation time.
func (uc *catalogUseCase) UpdateProduct(ctx context.Context, id string, product *domain.Product) (*domain.Product, error) {
	existing, err := uc.productRepo.Get(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Product ID %s not found for update: %v", id, err)
		return nil, err
	}
	if err := uc.validateProduct(product); err != nil {
		return nil, err
	}
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = uc.now()

	if err := uc.productRepo.Save(ctx, *product); err != nil {
		uc.log.Errorf("Use Case: Repository failed to update product ID %s: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Product updated successfully for ID %s", id)
	return product, nil
}

func (uc *catalogUseCase) DeleteProduct(ctx context.Context, id string) error {
	uc.log.Infof("Use Case: Attempting to delete product ID %s", id)
	if err := uc.productRepo.Delete(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete product ID %s: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Product deleted successfully for ID %s", id)
	return nil
}

func (uc *catalogUseCase) DecrementStock(ctx context.Context, id string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, domain.NewValidationError("quantity", "must be positive")
	}
	remaining, err := uc.productRepo.DecrementStock(ctx, id, quantity)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to decrement stock for product %s by %d: %v", id, quantity, err)
		return 0, err
	}
	uc.log.Infof("Use Case: Stock for product %s decremented by %d, %d left", id, quantity, remaining)
	return remaining, nil
}
