package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/auth"
)

const principalKey = "principal"

// TokenVerifier resolves a bearer token to the current state of its user.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (auth.Principal, error)
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Auth rejects requests without a valid bearer token.
func Auth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token provided"})
			return
		}
		if !authenticate(c, v, token) {
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches a principal when a valid token is present and lets anonymous
// requests through. A present but invalid token is still rejected.
func OptionalAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		if !authenticate(c, v, token) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, v TokenVerifier, token string) bool {
	p, err := v.Verify(c.Request.Context(), token)
	switch {
	case err == nil:
		c.Set(principalKey, p)
		return true
	case errors.Is(err, auth.ErrInvalidToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message":    "Server error",
			"request_id": c.GetString(RequestIDKey),
		})
	}
	return false
}

// AdminOnly must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok || !p.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Not authorized as an admin"})
			return
		}
		c.Next()
	}
}

func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}
