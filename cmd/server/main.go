package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"storefront_service/config"
	"storefront_service/internal/cart"
	"storefront_service/internal/clients"
	"storefront_service/internal/delivery"
	grpcHandler "storefront_service/internal/delivery/grpc"
	"storefront_service/internal/domain"
	"storefront_service/internal/metrics"
	"storefront_service/internal/repository"
	"storefront_service/internal/seed"
	"storefront_service/internal/usecase"
	"storefront_service/pkg/db"
	"storefront_service/pkg/kvstore"
)

const cartSweepInterval = 10 * time.Minute

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig(logger)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s' in config, using default 'info'. Error: %v", cfg.LogLevel, err)
	} else {
		logger.SetLevel(logLevel)
	}
	logger.Info("Starting Storefront Service...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Local storage ---
	durable, err := kvstore.Open(ctx, kvstore.Options{
		Driver:    cfg.LocalStoreDriver,
		Path:      cfg.LocalStorePath,
		RedisAddr: cfg.RedisAddr,
	}, logger)
	if err != nil {
		logger.Fatalf("Failed to open local store: %v", err)
	}
	defer func() {
		if err := durable.Close(); err != nil {
			logger.Errorf("Error closing local store: %v", err)
		}
	}()
	ephemeral := kvstore.NewMemoryStore()

	// --- Repository backend ---
	var backend repository.Backend = repository.NewLocalBackend(durable, logger)
	var remote *repository.PostgresBackend
	if cfg.RemoteConfigured() {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Errorf("Remote document store unavailable, falling back to local store: %v", err)
		} else {
			defer database.Close()
			remote, err = repository.NewPostgresBackend(ctx, database, cfg.DatabaseURL, logger)
			if err != nil {
				logger.Errorf("Remote document store could not be prepared, falling back to local store: %v", err)
			} else {
				backend = remote
			}
		}
	}
	logger.Infof("Repository backend: %s", backend.Mode())

	productRepo := repository.NewProductRepository(backend, logger)
	orderRepo := repository.NewOrderRepository(backend, logger)
	couponRepo := repository.NewCouponRepository(backend, logger)
	inquiryRepo := repository.NewInquiryRepository(backend, logger)
	feedbackRepo := repository.NewFeedbackRepository(backend, logger)
	userRepo := repository.NewUserRepository(backend, logger)
	logger.Info("Repositories initialized.")

	dataset, err := seed.Load()
	if err != nil {
		logger.Fatalf("Failed to load seed dataset: %v", err)
	}
	if _, err := productRepo.Seed(ctx, durable, dataset.Products); err != nil {
		logger.Errorf("Could not seed products: %v", err)
	}
	if _, err := couponRepo.Seed(ctx, durable, dataset.Coupons); err != nil {
		logger.Errorf("Could not seed coupons: %v", err)
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(cfg.MetricsPrefix, registry)
	m.SetBackend(string(backend.Mode()))

	health := grpcHandler.NewHealthServer(logger, "catalog", "checkout", "stylist")
	mirror := repository.NewMirror(productRepo.Repository)
	mirror.OnUpdate(func(products []domain.Product) {
		m.SetInventory(products)
		health.SetServing("catalog", true)
	})

	// --- Use cases ---
	var stylistClient clients.StylistClient
	if cfg.GeminiAPIKey != "" {
		stylistClient, err = clients.NewGeminiStylistClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			logger.Errorf("Stylist assistant disabled: %v", err)
			stylistClient = nil
		}
	}

	carts := cart.NewStore()
	catalogUseCase := usecase.NewCatalogUseCase(productRepo, logger)
	couponUseCase := usecase.NewCouponUseCase(couponRepo, logger)
	cartUseCase := usecase.NewCartUseCase(carts, catalogUseCase, couponUseCase, logger)
	authUseCase := usecase.NewAuthUseCase(userRepo, durable, ephemeral, usecase.AuthConfig{
		Secret:        cfg.JWTSecret,
		SessionTTL:    cfg.SessionTTL,
		RememberMeTTL: cfg.RememberMeTTL,
	}, m, logger)
	if err := authUseCase.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Errorf("Could not provision admin account: %v", err)
	}
	logger.Info("Use cases initialized.")

	router := delivery.NewRouter(delivery.RouterDeps{
		Auth:      authUseCase,
		Catalog:   catalogUseCase,
		Cart:      cartUseCase,
		Coupons:   couponUseCase,
		Checkout:  usecase.NewCheckoutUseCase(carts, catalogUseCase, couponUseCase, orderRepo, clients.NewPaymentVerifier(cfg.PaymentKeySecret), m, logger),
		Orders:    usecase.NewOrderUseCase(orderRepo, cfg.ReturnWindow, logger),
		Inquiries: usecase.NewInquiryUseCase(inquiryRepo, logger),
		Feedback:  usecase.NewFeedbackUseCase(feedbackRepo, logger),
		Stylist:   usecase.NewStylistUseCase(stylistClient, mirror, m, logger),
		Products:  productRepo,
		Metrics:   m,
		Gatherer:  registry,
		Mode:      string(backend.Mode()),
		Ready: func() bool {
			select {
			case <-mirror.Ready():
				return true
			default:
				return false
			}
		},
		Logger: logger,
	})
	lis, err := net.Listen("tcp", cfg.GrpcPort)
	if err != nil {
		logger.Fatalf("Failed to listen on port %s: %v", cfg.GrpcPort, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	// Live product streams end when gctx is cancelled, so Shutdown can drain them.
	server := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}
	g.Go(func() error {
		logger.Infof("Starting HTTP server on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Attempting graceful shutdown of HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return health.Serve(gctx, lis)
	})
	g.Go(func() error {
		return mirror.Run(gctx)
	})
	if remote != nil {
		g.Go(func() error {
			return remote.Run(gctx)
		})
	}
	g.Go(func() error {
		ticker := time.NewTicker(cartSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := cartUseCase.SweepIdle(cfg.CartIdleTTL); n > 0 {
					m.CartsSwept.Add(float64(n))
				}
			}
		}
	})
	health.SetServing("checkout", true)
	health.SetServing("stylist", stylistClient != nil)

	if err := g.Wait(); err != nil {
		logger.Errorf("Storefront Service stopped with error: %v", err)
		os.Exit(1)
	}
	logger.Info("Storefront Service shut down gracefully.")
}
