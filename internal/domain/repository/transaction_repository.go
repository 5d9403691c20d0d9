package repository

import (
	"context"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	AttachOrder(ctx context.Context, id, orderID string) error
	ListByUser(ctx context.Context, userID string, limit int) ([]entity.Transaction, error)
	// Settle flips payment to true and credits the owner in one atomic step.
	// It fails with DuplicateSettlement when the transaction is already settled
	// and UnknownTransaction when it does not exist.
	Settle(ctx context.Context, id string) (*entity.Settlement, error)
}
