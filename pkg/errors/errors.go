package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按Code+Message比较
// 领域层预定义的错误（如book.ErrInactiveBook）被Wrap之后仍然可以用errors.Is判断
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf 格式化创建AppError（消息中需要带上业务数据时使用）
func Newf(code int, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）
// 号段与错误种类一一对应，Kind()按号段归类

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 用户名或密码错误
	ErrCodeForbidden       = 40104 // 无权限

	// 资源不存在（40400-40499）
	ErrCodeNotFound            = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound        = 40401 // 用户不存在
	ErrCodeBookNotFound        = 40402 // 图书不存在
	ErrCodeCategoryNotFound    = 40403 // 分类不存在
	ErrCodeTransactionNotFound = 40404 // 借阅记录不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError     = 40000 // 业务错误(通用)
	ErrCodeBookInactive      = 40001 // 图书已下架
	ErrCodeNoCopiesAvailable = 40002 // 无可借副本
	ErrCodeAlreadyBorrowed   = 40003 // 重复借阅
	ErrCodeNotBorrowed       = 40004 // 未借阅该书
	ErrCodeUsernameTaken     = 40005 // 用户名已存在
	ErrCodeEmailTaken        = 40006 // 邮箱已存在

	// 冲突错误（40900-40999）
	ErrCodeConflict       = 40900 // 冲突(通用)
	ErrCodeDuplicateEntry = 40901 // 重复记录
	ErrCodeInUse          = 40902 // 资源仍被引用

	// 参数校验错误（42200-42299）
	ErrCodeInvalidParams = 42200 // 参数错误
	ErrCodeBindError     = 42201 // 参数绑定失败
)

// Kind 错误种类
type Kind int

const (
	KindInternal Kind = iota
	KindBusiness
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindBusiness:
		return "business"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// KindOfCode 按号段归类错误码
func KindOfCode(code int) Kind {
	switch {
	case code == ErrCodeForbidden:
		return KindForbidden
	case code >= 40000 && code < 40100:
		return KindBusiness
	case code >= 40100 && code < 40200:
		return KindUnauthorized
	case code >= 40400 && code < 40500:
		return KindNotFound
	case code >= 40900 && code < 41000:
		return KindConflict
	case code >= 42200 && code < 42300:
		return KindValidation
	default:
		return KindInternal
	}
}

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "internal server error")
	ErrDatabaseError = New(ErrCodeDatabaseError, "database error")
	ErrRedisError    = New(ErrCodeRedisError, "cache service error")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "authentication required")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "invalid token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "token expired")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "bad credentials")
	ErrForbidden       = New(ErrCodeForbidden, "access denied")

	// 资源不存在
	ErrUserNotFound = New(ErrCodeUserNotFound, "user not found")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "invalid parameters")
	ErrBindError     = New(ErrCodeBindError, "malformed request")
)

// 按种类构造错误的快捷函数

// NotFound 资源不存在
func NotFound(message string) *AppError { return New(ErrCodeNotFound, message) }

// Validation 参数校验失败
func Validation(message string) *AppError { return New(ErrCodeInvalidParams, message) }

// Conflict 唯一性或引用完整性冲突
func Conflict(message string) *AppError { return New(ErrCodeConflict, message) }

// Business 业务规则不满足
func Business(message string) *AppError { return New(ErrCodeBusinessError, message) }

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "internal server error")
}

// KindOf 返回错误种类，非AppError一律视为内部错误
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return KindInternal
	}
	return KindOfCode(appErr.Code)
}

// IsNotFound 是否为资源不存在
func IsNotFound(err error) bool { return err != nil && KindOf(err) == KindNotFound }

// IsValidation 是否为参数校验错误
func IsValidation(err error) bool { return err != nil && KindOf(err) == KindValidation }

// IsConflict 是否为冲突错误
func IsConflict(err error) bool { return err != nil && KindOf(err) == KindConflict }

// IsBusiness 是否为业务规则错误
func IsBusiness(err error) bool { return err != nil && KindOf(err) == KindBusiness }
