package lending

import (
	"time"

	"github.com/xiebiao/library/internal/domain/lending"
)

// TransactionResponse 借阅记录响应
type TransactionResponse struct {
	ID           uint       `json:"transaction_id"`
	BookID       uint       `json:"book_id"`
	UserID       uint       `json:"user_id"`
	BorrowedDate time.Time  `json:"borrowed_date"`
	ReturnedDate *time.Time `json:"returned_date"`
	Returned     bool       `json:"is_returned"`
}

func toResponse(t *lending.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           t.ID,
		BookID:       t.BookID,
		UserID:       t.UserID,
		BorrowedDate: t.BorrowedAt,
		ReturnedDate: t.ReturnedAt,
		Returned:     t.Returned,
	}
}
