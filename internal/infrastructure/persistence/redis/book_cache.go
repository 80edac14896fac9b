package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/domain/book"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BookCache 图书详情缓存
//
// Cache-Aside:先查缓存,未命中再查数据库并回填。
// 图书变更(修改、下架、借出、归还)提交后失效缓存,不做更新:
//  1. 失效时写入一个短期的失效标记(invalidationGuard),而不是直接DEL
//  2. 回填使用SET NX,键存在(包括失效标记)时不写入
//
// 读请求在变更提交前查到旧数据、提交后才回填时,会被失效标记挡住,
// 旧值最多只能在标记过期后写入,不会一直留到ttl过期。
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ book.Cache = (*BookCache)(nil)

const (
	// invalidatedMarker 失效标记,Get读到时按未命中处理
	invalidatedMarker = "__invalidated__"

	// invalidationGuard 失效标记的存活时间,需大于一次回源查询的耗时
	invalidationGuard = 5 * time.Second
)

// NewBookCache 创建图书详情缓存
func NewBookCache(client *redis.Client, ttl time.Duration) *BookCache {
	return &BookCache{client: client, ttl: ttl}
}

// cachedBook 缓存中的图书结构
// 与领域实体分开定义,实体字段调整不会影响已缓存的数据格式
type cachedBook struct {
	ID              uint      `json:"id"`
	CategoryID      uint      `json:"category_id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Description     string    `json:"description"`
	CopiesTotal     int       `json:"copies_total"`
	CopiesAvailable int       `json:"copies_available"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Get 读取缓存,未命中返回(nil, nil)
func (c *BookCache) Get(ctx context.Context, id uint) (*book.Book, error) {
	val, err := c.client.Get(ctx, bookKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("获取缓存失败: %w", err)
	}
	if string(val) == invalidatedMarker {
		return nil, nil
	}

	var cb cachedBook
	if err := json.Unmarshal(val, &cb); err != nil {
		return nil, fmt.Errorf("反序列化失败: %w", err)
	}

	return &book.Book{
		ID:              cb.ID,
		CategoryID:      cb.CategoryID,
		Title:           cb.Title,
		Author:          cb.Author,
		Description:     cb.Description,
		CopiesTotal:     cb.CopiesTotal,
		CopiesAvailable: cb.CopiesAvailable,
		Status:          book.Status(cb.Status),
		CreatedAt:       cb.CreatedAt,
		UpdatedAt:       cb.UpdatedAt,
	}, nil
}

// Set 回填缓存,键已存在(含失效标记)时不覆盖
func (c *BookCache) Set(ctx context.Context, b *book.Book) error {
	val, err := json.Marshal(cachedBook{
		ID:              b.ID,
		CategoryID:      b.CategoryID,
		Title:           b.Title,
		Author:          b.Author,
		Description:     b.Description,
		CopiesTotal:     b.CopiesTotal,
		CopiesAvailable: b.CopiesAvailable,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}

	if err := c.client.SetNX(ctx, bookKey(b.ID), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("设置缓存失败: %w", err)
	}
	return nil
}

// Delete 失效缓存,写入失效标记
func (c *BookCache) Delete(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for _, id := range ids {
		pipe.Set(ctx, bookKey(id), invalidatedMarker, invalidationGuard)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("删除缓存失败: %w", err)
	}
	return nil
}

func bookKey(id uint) string {
	return fmt.Sprintf("%sbook:%d", keyPrefix, id)
}
