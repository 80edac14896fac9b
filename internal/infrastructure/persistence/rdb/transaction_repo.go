package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/internal/domain/shared"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var transactionSortColumns = map[string]string{
	"transactionId": "id",
	"borrowedDate":  "borrowed_at",
}

// transactionRepository 借阅记录仓储实现
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository 创建借阅记录仓储
func NewTransactionRepository(db *gorm.DB) lending.Repository {
	return &transactionRepository{db: db}
}

// Create 创建借阅记录
// open_key唯一索引冲突说明同一用户已有未归还记录
func (r *transactionRepository) Create(ctx context.Context, t *lending.Transaction) error {
	model := toTransactionModel(t)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return lending.ErrAlreadyBorrowed
		}
		return apperrors.Wrap(err, "创建借阅记录失败")
	}

	t.ID = model.ID
	return nil
}

func (r *transactionRepository) FindOpen(ctx context.Context, userID, bookID uint) (*lending.Transaction, error) {
	var model TransactionModel
	err := getDB(ctx, r.db).
		Where("user_id = ? AND book_id = ? AND returned = ?", userID, bookID, false).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lending.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(err, "查询借阅记录失败")
	}
	return toTransactionEntity(&model), nil
}

// MarkReturned 条件更新,已归还的记录不会被再次修改
func (r *transactionRepository) MarkReturned(ctx context.Context, t *lending.Transaction) error {
	result := getDB(ctx, r.db).Model(&TransactionModel{}).
		Where("id = ? AND returned = ?", t.ID, false).
		Updates(map[string]any{
			"returned":    true,
			"returned_at": t.ReturnedAt,
			"open_key":    nil,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新借阅记录失败")
	}
	if result.RowsAffected == 0 {
		return lending.ErrNotBorrowed
	}
	return nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uint, q shared.PageQuery) ([]*lending.Transaction, int64, error) {
	var (
		models []TransactionModel
		total  int64
	)

	query := getDB(ctx, r.db).Model(&TransactionModel{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅记录总数失败")
	}
	if err := paginate(query, q, transactionSortColumns).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅记录失败")
	}

	items := make([]*lending.Transaction, len(models))
	for i := range models {
		items[i] = toTransactionEntity(&models[i])
	}
	return items, total, nil
}
