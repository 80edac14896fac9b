package redis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// 所有key的统一前缀,与同一Redis实例上的其他服务隔离
const keyPrefix = "library:"

// NewClient 创建Redis客户端
// 1. 连接池参数(PoolSize、MinIdleConns)
// 2. 超时参数(DialTimeout、ReadTimeout、WriteTimeout)
// 3. 启动时Ping一次,连接失败直接返回错误
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	slog.Info("redis connected", "addr", cfg.Addr(), "db", cfg.DB)
	return client, nil
}
