package rdb

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/shared"
)

type txKey struct{}

// withTx 把事务DB放入context
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 所有Repository方法都必须经过getDB,否则不在同一事务中(SQLite单连接下还会死锁)
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// isDuplicateError 判断是否为唯一索引冲突
// 开启TranslateError后三种驱动都会返回gorm.ErrDuplicatedKey,
// 错误信息匹配用于兜底:
// - MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
// - PostgreSQL 23505: duplicate key value violates unique constraint
// - SQLite: UNIQUE constraint failed
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// paginate 排序+分页
// columns把实体属性名映射到列名,q已经过Normalize;追加id作为稳定排序的次序
func paginate(db *gorm.DB, q shared.PageQuery, columns map[string]string) *gorm.DB {
	column, ok := columns[q.SortBy]
	if !ok {
		column = "id"
	}
	desc := q.SortDir == shared.SortDesc

	db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
	if column != "id" {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})
	}
	return db.Limit(q.PageSize).Offset(q.Offset())
}

// likePattern 大小写不敏感的包含匹配,配合 LOWER(col) LIKE ? 使用
func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
