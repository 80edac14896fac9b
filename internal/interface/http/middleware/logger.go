package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 超过该耗时记录慢请求警告
const slowRequestThreshold = 3 * time.Second

// RequestIDHeader 请求ID响应头
const RequestIDHeader = "X-Request-ID"

// RequestLogger 请求日志中间件
// 1. 生成请求ID(客户端传了X-Request-ID则沿用)
// 2. 记录方法、路由、状态码、耗时、客户端IP
// 3. 慢请求记Warn,5xx记Error
// 不记录请求体和Authorization头
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", latency,
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		ctx := c.Request.Context()
		switch {
		case c.Writer.Status() >= 500:
			logger.ErrorContext(ctx, "request", attrs...)
		case latency > slowRequestThreshold:
			logger.WarnContext(ctx, "slow request", attrs...)
		default:
			logger.InfoContext(ctx, "request", attrs...)
		}
	}
}
