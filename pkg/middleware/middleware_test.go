package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/auth"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTokens() *auth.Tokens {
	return auth.NewTokens("0123456789abcdef", time.Hour)
}

type userMap map[string]*domain.User

func (m userMap) Get(_ context.Context, id string) (*domain.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type brokenUsers struct{}

func (brokenUsers) Get(context.Context, string) (*domain.User, error) {
	return nil, errors.New("connection reset")
}

// issue stores u1 with the given role and returns a token for it.
func issue(t *testing.T, tokens *auth.Tokens, users userMap, role domain.Role) string {
	t.Helper()
	u := &domain.User{ID: "u1", Email: "u1@x.io", Role: role}
	users[u.ID] = u
	token, err := tokens.Issue(u)
	require.NoError(t, err)
	return token
}

func router(v TokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	whoami := func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"user": p.UserID, "authenticated": ok})
	}
	r.GET("/private", Auth(v), whoami)
	r.GET("/optional", OptionalAuth(v), whoami)
	r.GET("/admin", Auth(v), AdminOnly(), whoami)
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuth(t *testing.T) {
	tokens, users := newTokens(), userMap{}
	r := router(auth.NewSessions(tokens, users))

	assert.Equal(t, http.StatusUnauthorized, do(r, "/private", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/private", "garbage").Code)

	token := issue(t, tokens, users, domain.RoleCustomer)
	rec := do(r, "/private", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user":"u1"`)

	delete(users, "u1")
	assert.Equal(t, http.StatusUnauthorized, do(r, "/private", token).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/optional", token).Code)
}

func TestAuth_StoreFailure(t *testing.T) {
	tokens := newTokens()
	token := issue(t, tokens, userMap{}, domain.RoleCustomer)
	r := router(auth.NewSessions(tokens, brokenUsers{}))

	rec := do(r, "/private", token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"request_id"`)
}

func TestOptionalAuth(t *testing.T) {
	tokens, users := newTokens(), userMap{}
	r := router(auth.NewSessions(tokens, users))

	rec := do(r, "/optional", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)

	rec = do(r, "/optional", issue(t, tokens, users, domain.RoleCustomer))
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/optional", "garbage").Code)
}

func TestAdminOnly(t *testing.T) {
	tokens, users := newTokens(), userMap{}
	r := router(auth.NewSessions(tokens, users))

	rec := do(r, "/admin", issue(t, tokens, users, domain.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authorized as an admin")

	admin := issue(t, tokens, users, domain.RoleAdmin)
	assert.Equal(t, http.StatusOK, do(r, "/admin", admin).Code)

	// The stored role wins over the role baked into the token.
	users["u1"].Role = domain.RoleCustomer
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", admin).Code)
}

func TestRequestID(t *testing.T) {
	r := router(auth.NewSessions(newTokens(), userMap{}))

	rec := do(r, "/optional", "")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	do(r, "/ok", "")
	do(r, "/boom", "")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Request handled", entries[0].Message)
	assert.Equal(t, "Request failed", entries[1].Message)
	assert.Equal(t, int64(http.StatusInternalServerError), entries[1].ContextMap()["status"])
}
