package dto

// BookRequest 添加图书/全量更新
// 书名非空、总副本数>0由领域层校验,错误信息保持一致
// 长度上限与表字段一致(title 200, author 100)
type BookRequest struct {
	Title       string `json:"title" binding:"max=200"`
	Author      string `json:"author" binding:"max=100"`
	Description string `json:"description" binding:"max=2000"`
	CopiesTotal int    `json:"copies_total"`
	CategoryID  uint   `json:"category_id"` // 仅全量更新使用,0表示不修改
}

// BookPatchRequest 部分更新,未出现的字段为nil
type BookPatchRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Author      *string `json:"author" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	CopiesTotal *int    `json:"copies_total"`
	CategoryID  *uint   `json:"category_id"`
}
