package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront_service/internal/domain"
	"storefront_service/internal/usecase"
)

// BackOfficeHandler serves coupon administration and the customer message
// inboxes. Inquiry and feedback submission are public.
type BackOfficeHandler struct {
	coupons   usecase.CouponUseCase
	inquiries usecase.InquiryUseCase
	feedback  usecase.FeedbackUseCase
	log       *logrus.Logger
}

func NewBackOfficeHandler(coupons usecase.CouponUseCase, inquiries usecase.InquiryUseCase, feedback usecase.FeedbackUseCase, logger *logrus.Logger) *BackOfficeHandler {
	return &BackOfficeHandler{coupons: coupons, inquiries: inquiries, feedback: feedback, log: logger}
}

func (h *BackOfficeHandler) RegisterRoutes(public, admin gin.IRouter) {
	public.POST("/inquiries", h.SubmitInquiry)
	public.POST("/feedback", h.SubmitFeedback)

	admin.GET("/coupons", h.ListCoupons)
	admin.POST("/coupons", h.SaveCoupon)
	admin.PATCH("/coupons/:code/toggle", h.ToggleCoupon)
	admin.DELETE("/coupons/:code", h.DeleteCoupon)
	admin.GET("/inquiries", h.ListInquiries)
	admin.PATCH("/inquiries/:id/read", h.MarkInquiryRead)
	admin.GET("/feedback", h.ListFeedback)
}

func (h *BackOfficeHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.coupons.ListCoupons(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "retrieve coupons", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Coupons retrieved successfully", coupons)
}

func (h *BackOfficeHandler) SaveCoupon(c *gin.Context) {
	var coupon domain.Coupon
	if err := c.ShouldBindJSON(&coupon); err != nil {
		bindError(c, h.log, "save coupon", err)
		return
	}
	saved, err := h.coupons.SaveCoupon(c.Request.Context(), coupon)
	if err != nil {
		respondError(c, h.log, "save coupon", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Coupon saved", saved)
}

func (h *BackOfficeHandler) ToggleCoupon(c *gin.Context) {
	coupon, err := h.coupons.ToggleCoupon(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.log, "toggle coupon", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Coupon updated", coupon)
}

func (h *BackOfficeHandler) DeleteCoupon(c *gin.Context) {
	if err := h.coupons.DeleteCoupon(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, h.log, "delete coupon", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Coupon deleted", nil)
}

func (h *BackOfficeHandler) SubmitInquiry(c *gin.Context) {
	var inquiry domain.Inquiry
	if err := c.ShouldBindJSON(&inquiry); err != nil {
		bindError(c, h.log, "submit inquiry", err)
		return
	}
	saved, err := h.inquiries.SubmitInquiry(c.Request.Context(), inquiry)
	if err != nil {
		respondError(c, h.log, "submit inquiry", err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Thank you, we will get back to you soon", saved)
}

func (h *BackOfficeHandler) ListInquiries(c *gin.Context) {
	items, err := h.inquiries.ListInquiries(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "retrieve inquiries", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Inquiries retrieved successfully", items)
}

func (h *BackOfficeHandler) MarkInquiryRead(c *gin.Context) {
	inquiry, err := h.inquiries.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "update inquiry", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Inquiry marked as read", inquiry)
}

func (h *BackOfficeHandler) SubmitFeedback(c *gin.Context) {
	var feedback domain.Feedback
	if err := c.ShouldBindJSON(&feedback); err != nil {
		bindError(c, h.log, "submit feedback", err)
		return
	}
	saved, err := h.feedback.SubmitFeedback(c.Request.Context(), feedback)
	if err != nil {
		respondError(c, h.log, "submit feedback", err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Thank you for your feedback", saved)
}

func (h *BackOfficeHandler) ListFeedback(c *gin.Context) {
	items, err := h.feedback.ListFeedback(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "retrieve feedback", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Feedback retrieved successfully", items)
}
