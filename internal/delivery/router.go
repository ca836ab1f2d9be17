package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"storefront_service/internal/metrics"
	"storefront_service/internal/middleware"
	"storefront_service/internal/usecase"
)

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	Auth      usecase.AuthUseCase
	Catalog   usecase.CatalogUseCase
	Cart      usecase.CartUseCase
	Coupons   usecase.CouponUseCase
	Checkout  usecase.CheckoutUseCase
	Orders    usecase.OrderUseCase
	Inquiries usecase.InquiryUseCase
	Feedback  usecase.FeedbackUseCase
	Stylist   usecase.StylistUseCase

	Products ProductStream
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	// Mode names the active repository backend for /healthz.
	Mode  string
	Ready func() bool

	Logger *logrus.Logger
}

type healthStatus struct {
	Mode         string `json:"mode"`
	CatalogReady bool   `json:"catalogReady"`
}

func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Logger
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics(deps.Metrics))

	router.GET("/healthz", func(c *gin.Context) {
		ready := deps.Ready == nil || deps.Ready()
		status := healthStatus{Mode: deps.Mode, CatalogReady: ready}
		if !ready {
			c.JSON(http.StatusServiceUnavailable, Response{Status: "Fail", Message: "Catalog not loaded yet", Data: status})
			return
		}
		SuccessResponse(c, http.StatusOK, "OK", status)
	})
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	public := router.Group("/", middleware.OptionalAuth(deps.Auth, log))
	authed := router.Group("/", middleware.RequireAuth(deps.Auth, log))
	admin := router.Group("/admin", middleware.RequireAuth(deps.Auth, log), middleware.RequireAdmin(log))

	NewProductHandler(deps.Catalog, deps.Products, log).RegisterRoutes(public, admin)
	NewAuthHandler(deps.Auth, log).RegisterRoutes(public, authed, admin)
	NewCartHandler(deps.Cart, deps.Coupons, log).RegisterRoutes(public)
	NewOrderHandler(deps.Checkout, deps.Orders, log).RegisterRoutes(public, authed, admin)
	NewBackOfficeHandler(deps.Coupons, deps.Inquiries, deps.Feedback, log).RegisterRoutes(public, admin)
	NewStylistHandler(deps.Stylist, log).RegisterRoutes(public)

	return router
}
