package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront_service/internal/middleware"
	"storefront_service/internal/usecase"
)

type AuthHandler struct {
	useCase usecase.AuthUseCase
	log     *logrus.Logger
}

func NewAuthHandler(uc usecase.AuthUseCase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{useCase: uc, log: logger}
}

type loginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

func (h *AuthHandler) RegisterRoutes(public, authed, admin gin.IRouter) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/me", h.Me)
	admin.GET("/users", h.ListUsers)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input usecase.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, h.log, "register", err)
		return
	}
	resp, err := h.useCase.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, "register", err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "User registered successfully", resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, "login", err)
		return
	}
	resp, err := h.useCase.Login(c.Request.Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		respondError(c, h.log, "login", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Login successful", resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.useCase.Logout(c.Request.Context(), middleware.TokenFrom(c)); err != nil {
		respondError(c, h.log, "logout", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Logged out", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.useCase.Profile(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		respondError(c, h.log, "retrieve profile", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", profile)
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.useCase.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "retrieve users", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Users retrieved successfully", users)
}
