package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// userRepository 用户仓储实现
// 1. 实现domain/user/repository.go定义的接口
// 2. 角色通过user_roles关联表多对多保存
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
// 返回的是domain层的接口类型(依赖倒置)
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
// 服务层已检查用户名和邮箱,并发注册时由唯一索引兜底
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	db := getDB(ctx, r.db)

	roles, err := r.findRoles(db, u.Roles)
	if err != nil {
		return err
	}

	model := &UserModel{
		Username: u.Username,
		Email:    u.Email,
		Password: u.Password,
		Roles:    roles,
	}
	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "username or email already exists")
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return r.first(getDB(ctx, r.db).Where("id = ?", id))
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.first(getDB(ctx, r.db).Where("username = ?", username))
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(getDB(ctx, r.db).Where("username = ?", username))
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(getDB(ctx, r.db).Where("email = ?", email))
}

// =========================================
// 辅助函数
// =========================================

func (r *userRepository) first(query *gorm.DB) (*user.User, error) {
	var model UserModel
	if err := query.Preload("Roles").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

func (r *userRepository) exists(query *gorm.DB) (bool, error) {
	var count int64
	if err := query.Model(&UserModel{}).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, "查询用户失败")
	}
	return count > 0, nil
}

// findRoles 角色名 → 角色记录(角色由Migrate初始化)
func (r *userRepository) findRoles(db *gorm.DB, roles []user.Role) ([]RoleModel, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	var models []RoleModel
	if err := db.Where("name IN ?", names).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询角色失败")
	}
	if len(models) != len(names) {
		return nil, apperrors.Newf(apperrors.ErrCodeInternal, "roles not initialized: %v", names)
	}
	return models, nil
}
