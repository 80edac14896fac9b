package category

import (
	"strings"
	"time"
)

// Category 图书分类(聚合根)
// 名称唯一且大小写不敏感:数据库对NameKey(去空白、小写)建唯一索引,
// 唯一性检查与写入是同一条SQL,不存在先查后写的竞态
type Category struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory 创建分类(工厂方法)
// name需调用方先校验非空
func NewCategory(name string) *Category {
	now := time.Now()
	return &Category{
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename 修改名称
func (c *Category) Rename(name string) {
	c.Name = strings.TrimSpace(name)
	c.UpdatedAt = time.Now()
}

// NameKey 唯一性比较用的规范化名称
func (c *Category) NameKey() string {
	return NormalizeName(c.Name)
}

// NormalizeName 去除首尾空白并转小写
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
