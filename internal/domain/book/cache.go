package book

import "context"

// Cache 图书详情缓存(Cache-Aside)
// 未命中返回(nil, nil),由调用方回源数据库
// Set只在缓存中没有该键时写入;Delete之后的一小段时间内Set不生效
type Cache interface {
	Get(ctx context.Context, id uint) (*Book, error)
	Set(ctx context.Context, b *Book) error
	Delete(ctx context.Context, ids ...uint) error
}

// NopCache 不启用Redis时使用
type NopCache struct{}

func (NopCache) Get(context.Context, uint) (*Book, error) { return nil, nil }
func (NopCache) Set(context.Context, *Book) error         { return nil }
func (NopCache) Delete(context.Context, ...uint) error    { return nil }
