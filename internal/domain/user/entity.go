package user

import (
	"slices"
	"time"
)

// Role 用户角色
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// User 用户实体(聚合根)
// 设计说明:
// 1. 密码已加密存储(bcrypt),不提供获取明文的方法
// 2. 领域实体不依赖GORM tag,映射由infrastructure层处理
// 3. 借阅只需要用户ID,身份信息由JWT提供
type User struct {
	ID        uint
	Username  string
	Email     string
	Password  string // bcrypt哈希值
	Roles     []Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户(工厂方法)
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, email, hashedPassword string, roles ...Role) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasRole 是否拥有角色
func (u *User) HasRole(role Role) bool {
	return slices.Contains(u.Roles, role)
}

// RoleNames 角色名列表(写入JWT)
func (u *User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = string(r)
	}
	return names
}
