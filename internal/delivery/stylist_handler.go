package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront_service/internal/usecase"
)

type StylistHandler struct {
	useCase usecase.StylistUseCase
	log     *logrus.Logger
}

func NewStylistHandler(uc usecase.StylistUseCase, logger *logrus.Logger) *StylistHandler {
	return &StylistHandler{useCase: uc, log: logger}
}

func (h *StylistHandler) RegisterRoutes(public gin.IRouter) {
	public.POST("/stylist/chat", h.Chat)
}

func (h *StylistHandler) Chat(c *gin.Context) {
	var input usecase.StylistChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, h.log, "stylist chat", err)
		return
	}
	reply, err := h.useCase.Chat(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, "get stylist reply", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Stylist replied", reply)
}
