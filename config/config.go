package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL"`
	HTTPPort    string `envconfig:"HTTP_PORT"   default:":8080"`
	GrpcPort    string `envconfig:"GRPC_PORT"   default:":50051"` // gRPC health port
	LogLevel    string `envconfig:"LOG_LEVEL"   default:"info"`

	LocalStoreDriver string `envconfig:"LOCAL_STORE_DRIVER" default:"sqlite"`
	LocalStorePath   string `envconfig:"LOCAL_STORE_PATH"   default:"data/storefront.db"`
	RedisAddr        string `envconfig:"REDIS_ADDR"`

	JWTSecret     string        `envconfig:"JWT_SECRET"      default:"change_me_storefront_secret"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL"     default:"24h"`
	RememberMeTTL time.Duration `envconfig:"REMEMBER_ME_TTL" default:"720h"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL"    default:"admin@sareeboutique.in"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"Admin@1234"`
	AdminName     string `envconfig:"ADMIN_NAME"     default:"Boutique Admin"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`

	PaymentKeySecret string        `envconfig:"PAYMENT_KEY_SECRET"`
	Currency         string        `envconfig:"CURRENCY"      default:"INR"`
	ReturnWindow     time.Duration `envconfig:"RETURN_WINDOW" default:"72h"`
	CartIdleTTL      time.Duration `envconfig:"CART_IDLE_TTL" default:"6h"`

	MetricsPrefix string `envconfig:"METRICS_PREFIX" default:"storefront"`
	SiteBaseURL   string `envconfig:"SITE_BASE_URL"  default:"https://www.sareeboutique.in"`
}

// DefaultJWTSecret is the JWT_SECRET used when none is configured.
const DefaultJWTSecret = "change_me_storefront_secret"

// ErrPlaceholderSecret is returned when the remote store is enabled but
// JWT_SECRET is still a template value.
var ErrPlaceholderSecret = errors.New("JWT_SECRET is a placeholder; set a real secret before enabling the remote store")

// placeholderMarkers identify credentials copied from a template and never filled in.
var placeholderMarkers = []string{"your_", "placeholder", "changeme", "<"}

// RemoteConfigured reports whether the remote document store credentials are
// present and not a template placeholder.
func (c *Config) RemoteConfigured() bool {
	url := strings.TrimSpace(c.DatabaseURL)
	if url == "" {
		return false
	}
	lower := strings.ToLower(url)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

// PlaceholderJWTSecret reports whether JWT_SECRET is empty, the default or
// a template value. Separators are ignored, so "change_me" counts as
// "changeme".
func (c *Config) PlaceholderJWTSecret() bool {
	secret := strings.TrimSpace(c.JWTSecret)
	if secret == "" || secret == DefaultJWTSecret {
		return true
	}
	squashed := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(secret))
	for _, marker := range placeholderMarkers {
		if strings.Contains(squashed, strings.Trim(marker, "_")) {
			return true
		}
	}
	return false
}

func LoadConfig(logger *logrus.Logger) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	logger.Infof("Configuration loaded: HTTP Port=%s, GRPC Port=%s, LogLevel=%s, LocalStore=%s",
		cfg.HTTPPort, cfg.GrpcPort, cfg.LogLevel, cfg.LocalStoreDriver)
	if cfg.RemoteConfigured() {
		logger.Info("Configuration loaded: DatabaseURL is set, remote document store enabled")
	} else {
		logger.Warn("Configuration loaded: DatabaseURL missing or placeholder, using local store")
	}
	if cfg.PlaceholderJWTSecret() {
		if cfg.RemoteConfigured() {
			logger.Error("Configuration loaded: JWT_SECRET is a placeholder while the remote document store is enabled")
			return nil, ErrPlaceholderSecret
		}
		logger.Warn("Configuration loaded: JWT_SECRET is a placeholder, sessions can be forged; set a real secret")
	}
	if cfg.GeminiAPIKey == "" {
		logger.Warn("Configuration loaded: GEMINI_API_KEY not set, stylist assistant disabled")
	}
	return &cfg, nil
}
