package delivery

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront_service/internal/domain"
	"storefront_service/internal/usecase"
)

// ProductStream opens a live catalog subscription for one client.
type ProductStream interface {
	Subscribe(ctx context.Context) (<-chan []domain.Product, error)
}

type ProductHandler struct {
	useCase usecase.CatalogUseCase
	stream  ProductStream
	log     *logrus.Logger
}

func NewProductHandler(uc usecase.CatalogUseCase, stream ProductStream, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{useCase: uc, stream: stream, log: logger}
}

func (h *ProductHandler) RegisterRoutes(public, admin gin.IRouter) {
	products := public.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/live", h.LiveProducts)
		products.GET("/:id", h.GetProduct)
	}
	adminProducts := admin.Group("/products")
	{
		adminProducts.POST("", h.CreateProduct)
		adminProducts.PUT("/:id", h.UpdateProduct)
		adminProducts.DELETE("/:id", h.DeleteProduct)
	}
}

func queryInt(c *gin.Context, log *logrus.Logger, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		log.Warnf("Invalid %s parameter '%s', using default %d", name, raw, fallback)
		return fallback
	}
	return v
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := usecase.ProductFilter{
		Section:  domain.Section(c.Query("section")),
		Category: c.Query("category"),
		Query:    c.Query("q"),
		Limit:    queryInt(c, h.log, "limit", 10),
		Offset:   queryInt(c, h.log, "offset", 0),
	}
	page, err := h.useCase.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, "retrieve products", err)
		return
	}
	if len(page.Products) == 0 {
		SuccessResponse(c, http.StatusOK, "No products found matching criteria", page)
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", page)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.useCase.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "retrieve product", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

// LiveProducts streams a full catalog snapshot as a server-sent event
// every time the catalog changes.
func (h *ProductHandler) LiveProducts(c *gin.Context) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	snapshots, err := h.stream.Subscribe(ctx)
	if err != nil {
		respondError(c, h.log, "open product stream", err)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	h.log.Infof("Live product stream opened for %s", c.ClientIP())

	c.Stream(func(w io.Writer) bool {
		products, ok := <-snapshots
		if !ok {
			return false
		}
		c.SSEvent("products", products)
		return true
	})
	h.log.Infof("Live product stream closed for %s", c.ClientIP())
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		bindError(c, h.log, "create product", err)
		return
	}
	created, err := h.useCase.CreateProduct(c.Request.Context(), &product)
	if err != nil {
		respondError(c, h.log, "create product", err)
		return
	}
	h.log.Infof("Product created successfully: ID %s, Name %s", created.ID, created.Name)
	SuccessResponse(c, http.StatusCreated, "Product created successfully", created)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		bindError(c, h.log, "update product", err)
		return
	}
	updated, err := h.useCase.UpdateProduct(c.Request.Context(), c.Param("id"), &product)
	if err != nil {
		respondError(c, h.log, "update product", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Product updated successfully", updated)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.useCase.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, "delete product", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Product deleted successfully", nil)
}
