package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront_service/internal/domain"
	"storefront_service/internal/middleware"
	"storefront_service/internal/usecase"
)

type OrderHandler struct {
	checkout usecase.CheckoutUseCase
	orders   usecase.OrderUseCase
	log      *logrus.Logger
}

func NewOrderHandler(checkout usecase.CheckoutUseCase, orders usecase.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders, log: logger}
}

type checkoutRequest struct {
	Customer domain.Customer        `json:"customer"`
	Payment  usecase.PaymentRequest `json:"payment"`
}

type returnRequest struct {
	Type   domain.ReturnKind `json:"type" binding:"required"`
	Reason string            `json:"reason"`
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

type refundRequest struct {
	RefundStatus domain.RefundStatus `json:"refundStatus" binding:"required"`
}

func (h *OrderHandler) RegisterRoutes(public, authed, admin gin.IRouter) {
	public.POST("/checkout", h.Checkout)
	public.GET("/orders/track", h.TrackOrder)

	authed.GET("/orders", h.ListMyOrders)
	authed.GET("/orders/:id", h.GetOrder)
	authed.POST("/orders/:id/cancel", h.CancelOrder)
	authed.POST("/orders/:id/return", h.RequestReturn)

	admin.GET("/orders", h.ListOrders)
	admin.PATCH("/orders/:id/status", h.UpdateStatus)
	admin.PATCH("/orders/:id/refund", h.UpdateRefund)
}

// Checkout places an order for the caller's cart. Signed-in callers are
// recorded as the order owner; guests may check out too.
func (h *OrderHandler) Checkout(c *gin.Context) {
	id := cartID(c)
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, "checkout", err)
		return
	}
	checkoutReq := usecase.CheckoutRequest{CartID: id, Customer: req.Customer, Payment: req.Payment}
	if session := middleware.SessionFrom(c); session != nil {
		checkoutReq.UserID = session.UserID
	}
	result, err := h.checkout.PlaceOrder(c.Request.Context(), checkoutReq)
	if err != nil {
		respondError(c, h.log, "place order", err)
		return
	}
	h.log.Infof("Order placed successfully: ID %s", result.Order.ID)
	SuccessResponse(c, http.StatusCreated, "Order placed successfully", result)
}

func (h *OrderHandler) TrackOrder(c *gin.Context) {
	order, err := h.orders.TrackOrder(c.Request.Context(), c.Query("id"), c.Query("email"))
	if err != nil {
		respondError(c, h.log, "track order", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	orders, err := h.orders.ListMyOrders(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		respondError(c, h.log, "retrieve orders", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "retrieve order", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	order, err := h.orders.CancelOrder(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "cancel order", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Order cancelled", order)
}

func (h *OrderHandler) RequestReturn(c *gin.Context) {
	var req returnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, "request return", err)
		return
	}
	order, err := h.orders.RequestReturn(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"), req.Type, req.Reason)
	if err != nil {
		respondError(c, h.log, "request return", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Request submitted", order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, err := h.orders.ListOrders(c.Request.Context(), usecase.OrderFilter{
		Status: domain.OrderStatus(c.Query("status")),
		Limit:  queryInt(c, h.log, "limit", 10),
		Offset: queryInt(c, h.log, "offset", 0),
	})
	if err != nil {
		respondError(c, h.log, "retrieve orders", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", page)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, "update order status", err)
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.log, "update order status", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Order status updated", order)
}

func (h *OrderHandler) UpdateRefund(c *gin.Context) {
	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, "update refund status", err)
		return
	}
	order, err := h.orders.UpdateRefundStatus(c.Request.Context(), c.Param("id"), req.RefundStatus)
	if err != nil {
		respondError(c, h.log, "update refund status", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Refund status updated", order)
}
