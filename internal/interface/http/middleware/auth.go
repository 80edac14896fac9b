package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/response"
)

// Context中的key
const (
	ctxUserID = "user_id"
	ctxClaims = "claims"
	ctxToken  = "access_token"
)

// TokenBlacklist Token黑名单(登出后的Token在过期前不能再用)
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Bearer Token
// 2. 检查黑名单(未启用Redis时blacklist为nil,跳过)
// 3. 验证签名和有效期
// 4. 用户ID、Claims写入Context,由Handler显式传给用例
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, blacklist: blacklist}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 提取Token(Authorization: Bearer <token>)
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, apperrors.ErrUnauthorized)
			return
		}

		// 2. 黑名单检查
		if m.blacklist != nil {
			revoked, err := m.blacklist.IsInBlacklist(c.Request.Context(), tokenString)
			if err != nil {
				abort(c, err)
				return
			}
			if revoked {
				abort(c, apperrors.ErrInvalidToken)
				return
			}
		}

		// 3. 验证Token
		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			abort(c, err)
			return
		}

		// 4. 写入Context
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxClaims, claims)
		c.Set(ctxToken, tokenString)
		c.Next()
	}
}

// RequireRole 要求拥有任一角色,必须放在RequireAuth之后
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abort(c, apperrors.ErrUnauthorized)
			return
		}
		for _, role := range roles {
			if claims.HasRole(role) {
				c.Next()
				return
			}
		}
		abort(c, apperrors.ErrForbidden)
	}
}

// =========================================
// Context辅助函数(供Handler使用)
// =========================================

// GetUserID 当前登录用户ID,未登录返回0
func GetUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

// GetClaims 当前登录用户的Claims,未登录返回nil
func GetClaims(c *gin.Context) *jwt.Claims {
	if v, ok := c.Get(ctxClaims); ok {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetAccessToken 当前请求的Access Token(登出时加入黑名单)
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func abort(c *gin.Context, err error) {
	response.Error(c, err)
	c.Abort()
}
