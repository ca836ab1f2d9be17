package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_service/internal/domain"
	"storefront_service/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tokenTable map[string]*domain.Session

func (t tokenTable) Authenticate(_ context.Context, token string) (*domain.Session, error) {
	if s, ok := t[token]; ok {
		return s, nil
	}
	return nil, errors.New("unknown token")
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newRouter() *gin.Engine {
	log := quietLogger()
	auth := tokenTable{
		"user-token":  {ID: "s1", UserID: "u1", Role: domain.RoleUser},
		"admin-token": {ID: "s2", UserID: "a1", Role: domain.RoleAdmin},
	}
	r := gin.New()
	r.Use(RequestID())
	r.GET("/open", OptionalAuth(auth, log), func(c *gin.Context) {
		if s := SessionFrom(c); s != nil {
			c.String(http.StatusOK, s.UserID)
			return
		}
		c.String(http.StatusOK, "guest")
	})
	r.GET("/me", RequireAuth(auth, log), func(c *gin.Context) {
		c.String(http.StatusOK, SessionFrom(c).UserID+":"+TokenFrom(c))
	})
	r.GET("/admin", RequireAuth(auth, log), RequireAdmin(log), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "bogus").Code)

	w := get(r, "/me", "user-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1:user-token", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token user-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter()
	assert.Equal(t, http.StatusUnauthorized, get(r, "/admin", "").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", "user-token").Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", "admin-token").Code)
}

func TestOptionalAuth(t *testing.T) {
	r := newRouter()
	assert.Equal(t, "guest", get(r, "/open", "").Body.String())
	assert.Equal(t, "guest", get(r, "/open", "bogus").Body.String())
	assert.Equal(t, "u1", get(r, "/open", "user-token").Body.String())
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newRouter()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	m := metrics.New("test", prometheus.NewRegistry())
	r := gin.New()
	r.Use(Metrics(m), RequestLogger(quietLogger()))
	r.GET("/products/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	get(r, "/products/a", "")
	get(r, "/products/b", "")
	get(r, "/nowhere", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/products/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}
