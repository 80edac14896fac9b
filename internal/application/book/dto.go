package book

import (
	"time"

	"github.com/xiebiao/library/internal/domain/book"
)

// =========================================
// 应用层DTO
// =========================================

// BookResponse 图书响应
// 已借出数由总数和可借数推导,与领域不变式一致
type BookResponse struct {
	ID              uint      `json:"book_id"`
	CategoryID      uint      `json:"category_id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Description     string    `json:"description"`
	CopiesTotal     int       `json:"copies_total"`
	CopiesAvailable int       `json:"copies_available"`
	CopiesBorrowed  int       `json:"copies_borrowed"`
	Active          bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookInput 新增/全量更新的图书数据
type BookInput struct {
	Title       string
	Author      string
	Description string
	CopiesTotal int
	CategoryID  uint // 仅全量更新使用,0表示不修改
}

func (in BookInput) details() book.Details {
	return book.Details{
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		CopiesTotal: in.CopiesTotal,
		CategoryID:  in.CategoryID,
	}
}

// ToResponse 领域实体 → 响应DTO
func ToResponse(b *book.Book) BookResponse {
	return BookResponse{
		ID:              b.ID,
		CategoryID:      b.CategoryID,
		Title:           b.Title,
		Author:          b.Author,
		Description:     b.Description,
		CopiesTotal:     b.CopiesTotal,
		CopiesAvailable: b.CopiesAvailable,
		CopiesBorrowed:  b.CopiesBorrowed(),
		Active:          b.IsActive(),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
