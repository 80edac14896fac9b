package rdb

import (
	"time"
)

// 设计说明:
// 1. 这是infrastructure层的数据模型,包含GORM tag
// 2. domain层实体不依赖GORM,Repository负责两者之间的转换(converters.go)

// RoleModel 角色
type RoleModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:20;not null;comment:角色名(ROLE_USER/ROLE_ADMIN)"`
}

// TableName 指定表名
func (RoleModel) TableName() string {
	return "roles"
}

// UserModel GORM用户模型
type UserModel struct {
	ID        uint        `gorm:"primaryKey"`
	Username  string      `gorm:"uniqueIndex;size:20;not null;comment:用户名"`
	Email     string      `gorm:"uniqueIndex;size:50;not null;comment:邮箱"`
	Password  string      `gorm:"size:255;not null;comment:密码(bcrypt加密)"`
	Roles     []RoleModel `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
	CreatedAt time.Time   `gorm:"comment:创建时间"`
	UpdatedAt time.Time   `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// CategoryModel GORM分类模型
// NameKey是小写去空白后的名称,唯一索引保证名称大小写不敏感唯一
type CategoryModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null;comment:分类名称"`
	NameKey   string    `gorm:"uniqueIndex;size:100;not null;comment:规范化名称(唯一)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 不使用gorm.DeletedAt,下架用Status表示,借阅记录仍能关联到图书
// 2. 已借出数不存储,由 copies_total - copies_available 得出
type BookModel struct {
	ID              uint      `gorm:"primaryKey"`
	CategoryID      uint      `gorm:"index;not null;comment:分类ID"`
	Title           string    `gorm:"index;size:200;not null;comment:书名"`
	Author          string    `gorm:"index;size:100;comment:作者"`
	Description     string    `gorm:"type:text;comment:图书描述"`
	CopiesTotal     int       `gorm:"not null;comment:总副本数"`
	CopiesAvailable int       `gorm:"not null;comment:可借副本数"`
	Status          string    `gorm:"index;size:16;not null;default:ACTIVE;comment:状态(ACTIVE/INACTIVE)"`
	CreatedAt       time.Time `gorm:"comment:创建时间"`
	UpdatedAt       time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// TransactionModel GORM借阅记录模型
// OpenKey在未归还时为"用户ID:图书ID",归还后置NULL;
// 唯一索引允许多个NULL,因此同一(用户,图书)最多一条未归还记录
type TransactionModel struct {
	ID         uint       `gorm:"primaryKey"`
	BookID     uint       `gorm:"index;not null;comment:图书ID"`
	UserID     uint       `gorm:"index;not null;comment:用户ID"`
	BorrowedAt time.Time  `gorm:"not null;comment:借出时间"`
	ReturnedAt *time.Time `gorm:"comment:归还时间"`
	Returned   bool       `gorm:"not null;default:false;comment:是否已归还"`
	OpenKey    *string    `gorm:"uniqueIndex;size:64;comment:未归还唯一键"`
}

// TableName 指定表名
func (TransactionModel) TableName() string {
	return "lending_transactions"
}
