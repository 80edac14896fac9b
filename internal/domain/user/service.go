package user

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Service 用户领域服务
// 设计说明:
// 1. Service包含不属于单个实体的业务逻辑(密码加密、验证)
// 2. Service依赖Repository接口,不依赖具体实现
type Service interface {
	// Register 普通用户注册(ROLE_USER)
	Register(ctx context.Context, username, email, password string) (*User, error)

	// RegisterAdmin 管理员注册(ROLE_ADMIN + ROLE_USER),调用方需先校验当前用户是管理员
	RegisterAdmin(ctx context.Context, username, email, password string) (*User, error)

	// Login 用户名密码登录
	Login(ctx context.Context, username, password string) (*User, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo, cost: bcrypt.DefaultCost}
}

// NewServiceWithCost 指定bcrypt cost(测试中使用bcrypt.MinCost加速)
func NewServiceWithCost(repo Repository, cost int) Service {
	return &service{repo: repo, cost: cost}
}

func (s *service) Register(ctx context.Context, username, email, password string) (*User, error) {
	return s.register(ctx, username, email, password, RoleUser)
}

func (s *service) RegisterAdmin(ctx context.Context, username, email, password string) (*User, error) {
	return s.register(ctx, username, email, password, RoleAdmin, RoleUser)
}

// Login 用户登录
// 用户不存在和密码错误返回同一个错误,不暴露用户名是否存在
func (s *service) Login(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperrors.ErrInvalidPassword
	}
	if err != nil {
		return nil, err
	}

	if err := s.ValidatePassword(u.Password, password); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "password verification failed")
	}
	return nil
}

// register 注册流程
// 1. 格式校验
// 2. 用户名、邮箱重复检查(返回具体的业务错误)
// 3. bcrypt加密
// 4. 持久化,并发注册由唯一索引兜底
func (s *service) register(ctx context.Context, username, email, password string, roles ...Role) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateSignup(username, email, password); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken(username)
	}

	exists, err = s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken(email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "password hashing failed")
	}

	u := NewUser(username, email, string(hashed), roles...)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// =========================================
// 辅助函数:注册参数校验
// =========================================

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// validateSignup 用户名3-20位,邮箱不超过50位,密码6-40位
func validateSignup(username, email, password string) error {
	if len(username) < 3 || len(username) > 20 {
		return apperrors.Validation("username must be 3 to 20 characters")
	}
	if len(email) > 50 || !emailPattern.MatchString(email) {
		return apperrors.Validation("email is not valid")
	}
	if len(password) < 6 || len(password) > 40 {
		return apperrors.Validation("password must be 6 to 40 characters")
	}
	return nil
}
