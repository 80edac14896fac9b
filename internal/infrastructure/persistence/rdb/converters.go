package rdb

import (
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/internal/domain/user"
)

// =========================================
// 模型转换:逐字段显式赋值
// =========================================

func toCategoryModel(c *category.Category) *CategoryModel {
	return &CategoryModel{
		ID:        c.ID,
		Name:      c.Name,
		NameKey:   c.NameKey(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCategoryEntity(m *CategoryModel) *category.Category {
	return &category.Category{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		CategoryID:      b.CategoryID,
		Title:           b.Title,
		Author:          b.Author,
		Description:     b.Description,
		CopiesTotal:     b.CopiesTotal,
		CopiesAvailable: b.CopiesAvailable,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		ID:              m.ID,
		CategoryID:      m.CategoryID,
		Title:           m.Title,
		Author:          m.Author,
		Description:     m.Description,
		CopiesTotal:     m.CopiesTotal,
		CopiesAvailable: m.CopiesAvailable,
		Status:          book.Status(m.Status),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toTransactionModel(t *lending.Transaction) *TransactionModel {
	m := &TransactionModel{
		ID:         t.ID,
		BookID:     t.BookID,
		UserID:     t.UserID,
		BorrowedAt: t.BorrowedAt,
		ReturnedAt: t.ReturnedAt,
		Returned:   t.Returned,
	}
	if key := t.OpenKey(); key != "" {
		m.OpenKey = &key
	}
	return m
}

func toTransactionEntity(m *TransactionModel) *lending.Transaction {
	return &lending.Transaction{
		ID:         m.ID,
		BookID:     m.BookID,
		UserID:     m.UserID,
		BorrowedAt: m.BorrowedAt,
		ReturnedAt: m.ReturnedAt,
		Returned:   m.Returned,
	}
}

func toUserEntity(m *UserModel) *user.User {
	roles := make([]user.Role, len(m.Roles))
	for i, r := range m.Roles {
		roles[i] = user.Role(r.Name)
	}
	return &user.User{
		ID:        m.ID,
		Username:  m.Username,
		Email:     m.Email,
		Password:  m.Password,
		Roles:     roles,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
