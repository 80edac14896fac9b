package shared

import (
	"math"
	"slices"
	"strings"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 排序方向
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// 分页默认值,应用层会用配置覆盖PageSize
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageQuery 分页查询参数
// PageNumber从0开始
type PageQuery struct {
	PageNumber int
	PageSize   int
	SortBy     string // 实体属性名(如bookId、title),由Repository映射到列名
	SortDir    string // asc/desc,大小写不敏感
}

// Normalize 填充默认值并校验排序字段和方向
// sortable[0]是默认排序字段
func (q PageQuery) Normalize(sortable []string) (PageQuery, error) {
	if q.PageNumber < 0 {
		return q, apperrors.Validation("page number must not be negative")
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	// Offset不能溢出
	if q.PageNumber > math.MaxInt/q.PageSize {
		return q, apperrors.Validation("page number is too large")
	}

	q.SortBy = strings.TrimSpace(q.SortBy)
	if q.SortBy == "" {
		q.SortBy = sortable[0]
	}
	if !slices.Contains(sortable, q.SortBy) {
		return q, apperrors.Validation("unknown sort field: " + q.SortBy)
	}

	switch strings.ToLower(strings.TrimSpace(q.SortDir)) {
	case "", SortAsc:
		q.SortDir = SortAsc
	case SortDesc:
		q.SortDir = SortDesc
	default:
		return q, apperrors.Validation("sort direction must be asc or desc: " + q.SortDir)
	}
	return q, nil
}

// Offset SQL偏移量
func (q PageQuery) Offset() int {
	return q.PageNumber * q.PageSize
}

// Page 分页结果
type Page[T any] struct {
	Content       []T
	PageNumber    int
	PageSize      int
	TotalElements int64
	TotalPages    int
	LastPage      bool
}

// NewPage 根据总数计算总页数和是否最后一页
func NewPage[T any](content []T, q PageQuery, total int64) Page[T] {
	totalPages := 0
	if q.PageSize > 0 {
		totalPages = int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	}
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content:       content,
		PageNumber:    q.PageNumber,
		PageSize:      q.PageSize,
		TotalElements: total,
		TotalPages:    totalPages,
		LastPage:      q.PageNumber+1 >= totalPages,
	}
}

// MapPage 转换分页内容类型
func MapPage[T, R any](p Page[T], fn func(T) R) Page[R] {
	out := make([]R, len(p.Content))
	for i, v := range p.Content {
		out[i] = fn(v)
	}
	return Page[R]{
		Content:       out,
		PageNumber:    p.PageNumber,
		PageSize:      p.PageSize,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		LastPage:      p.LastPage,
	}
}
