package dto

import "github.com/xiebiao/library/internal/domain/shared"

// PageQuery 分页查询参数(?pageNumber=0&pageSize=10&sortBy=title&sortOrder=desc)
// 页码从0开始,页大小为0时由应用层使用配置默认值
type PageQuery struct {
	PageNumber int    `form:"pageNumber" binding:"min=0"`
	PageSize   int    `form:"pageSize" binding:"min=0"`
	SortBy     string `form:"sortBy"`
	SortOrder  string `form:"sortOrder" binding:"omitempty,oneof=asc desc ASC DESC Asc Desc"`
}

// ToDomain 转换为领域分页参数
func (q PageQuery) ToDomain() shared.PageQuery {
	return shared.PageQuery{
		PageNumber: q.PageNumber,
		PageSize:   q.PageSize,
		SortBy:     q.SortBy,
		SortDir:    q.SortOrder,
	}
}
