package dto

// CategoryRequest 创建/修改分类
type CategoryRequest struct {
	Name string `json:"category_name" binding:"required,max=100"`
}
