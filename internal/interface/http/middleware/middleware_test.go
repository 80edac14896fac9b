package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/pkg/jwt"
)

type staticBlacklist map[string]bool

func (b staticBlacklist) IsInBlacklist(_ context.Context, token string) (bool, error) {
	return b[token], nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(m *AuthMiddleware) *gin.Engine {
	r := gin.New()
	r.GET("/me", m.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	r.GET("/admin", m.RequireAuth(), RequireRole("ROLE_ADMIN"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	userPair, err := manager.GenerateToken(1, "user1", []string{"ROLE_USER"})
	require.NoError(t, err)
	adminPair, err := manager.GenerateToken(2, "admin", []string{"ROLE_ADMIN", "ROLE_USER"})
	require.NoError(t, err)
	revokedPair, err := manager.GenerateToken(3, "gone", []string{"ROLE_USER"})
	require.NoError(t, err)

	r := newEngine(NewAuthMiddleware(manager, staticBlacklist{revokedPair.AccessToken: true}))

	t.Run("未携带Token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	})

	t.Run("Token无效", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "not-a-jwt").Code)
	})

	t.Run("已登出的Token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "/me", revokedPair.AccessToken).Code)
	})

	t.Run("有效Token写入用户ID", func(t *testing.T) {
		w := do(r, "/me", userPair.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":1}`, w.Body.String())
	})

	t.Run("角色不足", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, do(r, "/admin", userPair.AccessToken).Code)
	})

	t.Run("管理员", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do(r, "/admin", adminPair.AccessToken).Code)
	})

	t.Run("未启用黑名单", func(t *testing.T) {
		r := newEngine(NewAuthMiddleware(manager, nil))
		assert.Equal(t, http.StatusOK, do(r, "/me", revokedPair.AccessToken).Code)
	})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.GET("/books/:bookId", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("生成请求ID", func(t *testing.T) {
		w := do(r, "/books/7", "")
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		assert.Contains(t, buf.String(), `"path":"/books/:bookId"`)
	})

	t.Run("沿用客户端请求ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books/7", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
		assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	})
}
