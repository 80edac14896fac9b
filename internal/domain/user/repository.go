package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明:
// 1. 接口定义在domain层(依赖倒置原则)
// 2. 具体实现在infrastructure/persistence/rdb
type Repository interface {
	// Create 创建用户(含角色)
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	// 如果不存在,返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByUsername 根据用户名查找用户
	// 如果不存在,返回ErrUserNotFound
	FindByUsername(ctx context.Context, username string) (*User, error)

	// ExistsByUsername 用户名是否已存在
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail 邮箱是否已存在
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
