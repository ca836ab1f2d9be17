package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront_service/internal/domain"
)

const (
	sessionKey = "session"
	tokenKey   = "rawToken"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"Status": "Fail", "Message": message})
}

// OptionalAuth attaches the session when a valid bearer token is present and
// lets the request through either way.
func OptionalAuth(auth Authenticator, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rawToken, ok := bearerToken(c); ok {
			session, err := auth.Authenticate(c.Request.Context(), rawToken)
			if err == nil {
				c.Set(sessionKey, session)
				c.Set(tokenKey, rawToken)
			} else {
				log.Debugf("Middleware: Ignoring invalid optional token: %v", err)
			}
		}
		c.Next()
	}
}

func RequireAuth(auth Authenticator, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			log.Warn("Middleware: Authorization header is missing")
			abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}
		rawToken, ok := bearerToken(c)
		if !ok {
			log.Warn("Middleware: Invalid Authorization header format")
			abort(c, http.StatusUnauthorized, "Invalid Authorization header format")
			return
		}
		session, err := auth.Authenticate(c.Request.Context(), rawToken)
		if err != nil {
			log.Warnf("Middleware: Token rejected: %v", err)
			abort(c, http.StatusUnauthorized, "Invalid or expired session")
			return
		}
		c.Set(sessionKey, session)
		c.Set(tokenKey, rawToken)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if session == nil {
			abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !session.IsAdmin() {
			log.Warnf("Middleware: User %s denied admin route %s", session.UserID, c.FullPath())
			abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// SessionFrom returns the session attached by the auth middleware, or nil.
func SessionFrom(c *gin.Context) *domain.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*domain.Session)
	return session
}

func TokenFrom(c *gin.Context) string {
	return c.GetString(tokenKey)
}
