package delivery

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront_service/internal/usecase"
)

const CartIDHeader = "X-Cart-ID"

// cartID returns the caller's cart id, issuing a new one when absent. The id
// is always echoed in the response header.
func cartID(c *gin.Context) string {
	id := strings.TrimSpace(c.GetHeader(CartIDHeader))
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(CartIDHeader, id)
	return id
}

type CartHandler struct {
	useCase usecase.CartUseCase
	coupons usecase.CouponUseCase
	log     *logrus.Logger
}

func NewCartHandler(uc usecase.CartUseCase, coupons usecase.CouponUseCase, logger *logrus.Logger) *CartHandler {
	return &CartHandler{useCase: uc, coupons: coupons, log: logger}
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type changeQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type couponRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *CartHandler) RegisterRoutes(public gin.IRouter) {
	carts := public.Group("/cart")
	{
		carts.GET("", h.ViewCart)
		carts.DELETE("", h.ClearCart)
		carts.POST("/items", h.AddItem)
		carts.PATCH("/items/:productId", h.ChangeQuantity)
		carts.DELETE("/items/:productId", h.RemoveItem)
		carts.POST("/coupon", h.ApplyCoupon)
		carts.DELETE("/coupon", h.RemoveCoupon)
	}
	public.POST("/coupons/validate", h.ValidateCoupon)
}

func (h *CartHandler) ViewCart(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", h.useCase.ViewCart(c.Request.Context(), cartID(c)))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Cart cleared", h.useCase.ClearCart(c.Request.Context(), cartID(c)))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	id := cartID(c)
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, "add cart item", err)
		return
	}
	view, err := h.useCase.AddItem(c.Request.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, h.log, "add item to cart", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Item added to cart", view)
}

func (h *CartHandler) ChangeQuantity(c *gin.Context) {
	id := cartID(c)
	var req changeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, "change cart quantity", err)
		return
	}
	view, err := h.useCase.ChangeQuantity(c.Request.Context(), id, c.Param("productId"), req.Delta)
	if err != nil {
		respondError(c, h.log, "change quantity", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart updated", view)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	view, err := h.useCase.RemoveItem(c.Request.Context(), cartID(c), c.Param("productId"))
	if err != nil {
		respondError(c, h.log, "remove item", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Item removed from cart", view)
}

func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	id := cartID(c)
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, "apply coupon", err)
		return
	}
	view, err := h.useCase.ApplyCoupon(c.Request.Context(), id, req.Code)
	if err != nil {
		respondError(c, h.log, "apply coupon", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Coupon applied", view)
}

func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Coupon removed", h.useCase.RemoveCoupon(c.Request.Context(), cartID(c)))
}

func (h *CartHandler) ValidateCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, "validate coupon", err)
		return
	}
	coupon, err := h.coupons.ValidateCoupon(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, h.log, "validate coupon", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Coupon is valid", coupon)
}
