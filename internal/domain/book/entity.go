package book

import (
	"strings"
	"time"
)

// Status 图书生命周期状态
// 只有两个取值,下架(软删除)后除再次下架外不允许任何修改
type Status string

const (
	StatusActive   Status = "ACTIVE"   // 在架,可借阅
	StatusInactive Status = "INACTIVE" // 已下架,保留历史借阅记录
)

// Book 图书实体(聚合根)
// 副本数不变式:
// 1. 0 <= CopiesAvailable <= CopiesTotal
// 2. 已借出数 = CopiesTotal - CopiesAvailable(不单独存储)
// CopiesAvailable只能通过借还或修改总数改变
type Book struct {
	ID              uint
	CategoryID      uint
	Title           string
	Author          string
	Description     string
	CopiesTotal     int
	CopiesAvailable int
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Details 图书可编辑信息(新增和全量更新)
// CategoryID为0表示不修改分类(仅全量更新时有意义)
type Details struct {
	Title       string
	Author      string
	Description string
	CopiesTotal int
	CategoryID  uint
}

// Patch 部分更新,nil表示未提供
type Patch struct {
	Title       *string
	Author      *string
	Description *string
	CopiesTotal *int
	CategoryID  *uint
}

// NewBook 创建图书(工厂方法)
// 新书全部副本可借,状态为在架
func NewBook(categoryID uint, d Details) (*Book, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Book{
		CategoryID:      categoryID,
		Title:           strings.TrimSpace(d.Title),
		Author:          d.Author,
		Description:     d.Description,
		CopiesTotal:     d.CopiesTotal,
		CopiesAvailable: d.CopiesTotal,
		Status:          StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Validate 校验书名和总副本数
func (d Details) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if d.CopiesTotal <= 0 {
		return ErrInvalidCopiesTotal
	}
	return nil
}

// IsActive 是否在架
func (b *Book) IsActive() bool {
	return b.Status == StatusActive
}

// CopiesBorrowed 已借出副本数
func (b *Book) CopiesBorrowed() int {
	return b.CopiesTotal - b.CopiesAvailable
}

// Replace 全量更新(领域行为)
// 可借数按 新总数 - 已借出数 重新计算,分类由服务层校验后传入
func (b *Book) Replace(d Details) error {
	if !b.IsActive() {
		return ErrBookInactive
	}
	if err := d.Validate(); err != nil {
		return err
	}
	if err := b.setCopiesTotal(d.CopiesTotal); err != nil {
		return err
	}

	b.Title = strings.TrimSpace(d.Title)
	b.Author = d.Author
	b.Description = d.Description
	if d.CategoryID != 0 {
		b.CategoryID = d.CategoryID
	}
	b.Status = StatusActive
	b.UpdatedAt = time.Now()
	return nil
}

// ApplyPatch 部分更新(领域行为)
// 字段为nil或空白时保留原值;分类是否存在由服务层决定,不存在时应先把p.CategoryID置nil
func (b *Book) ApplyPatch(p Patch) error {
	if !b.IsActive() {
		return ErrBookInactive
	}

	if p.CopiesTotal != nil {
		if *p.CopiesTotal <= 0 {
			return ErrInvalidCopiesTotal
		}
		if err := b.setCopiesTotal(*p.CopiesTotal); err != nil {
			return err
		}
	}
	if present(p.Title) {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if present(p.Author) {
		b.Author = *p.Author
	}
	if present(p.Description) {
		b.Description = *p.Description
	}
	if p.CategoryID != nil && *p.CategoryID != 0 {
		b.CategoryID = *p.CategoryID
	}
	b.UpdatedAt = time.Now()
	return nil
}

// Deactivate 下架(软删除),重复下架无副作用
func (b *Book) Deactivate() {
	if b.Status == StatusInactive {
		return
	}
	b.Status = StatusInactive
	b.UpdatedAt = time.Now()
}

// BorrowOneCopy 借出一本
// 调用方应先检查在架和可借数,这里仍然拒绝越界
func (b *Book) BorrowOneCopy() error {
	if !b.IsActive() {
		return ErrNotBorrowable
	}
	if b.CopiesAvailable <= 0 {
		return ErrNoCopiesAvailable
	}
	b.CopiesAvailable--
	b.UpdatedAt = time.Now()
	return nil
}

// ReturnOneCopy 归还一本
// 可借数已等于总数时不变,返回false
func (b *Book) ReturnOneCopy() bool {
	if b.CopiesAvailable >= b.CopiesTotal {
		return false
	}
	b.CopiesAvailable++
	b.UpdatedAt = time.Now()
	return true
}

// =========================================
// 辅助函数
// =========================================

// setCopiesTotal 修改总数并重算可借数
func (b *Book) setCopiesTotal(total int) error {
	borrowed := b.CopiesBorrowed()
	if total < borrowed {
		return ErrTotalBelowBorrowed
	}
	b.CopiesTotal = total
	b.CopiesAvailable = total - borrowed
	return nil
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
