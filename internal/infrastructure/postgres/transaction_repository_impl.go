package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
	"github.com/oksasatya/pixcredit/internal/domain/repository"
	"github.com/oksasatya/pixcredit/pkg/apperror"
)

const transactionColumns = `id, user_id, plan, credits, amount, currency, COALESCE(order_id, ''), payment, created_at, settled_at`

type TransactionRepository struct {
	db DBTX
}

func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	t := &entity.Transaction{}
	err := row.Scan(&t.ID, &t.UserID, &t.Plan, &t.Credits, &t.Amount, &t.Currency, &t.OrderID,
		&t.Payment, &t.CreatedAt, &t.SettledAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, t *entity.Transaction) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO transactions (id, user_id, plan, credits, amount, currency)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, t.ID, t.UserID, t.Plan, t.Credits, t.Amount, t.Currency).Scan(&t.CreatedAt)
	if err != nil {
		return storeErr("insert transaction", err)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.UnknownTransaction(id)
		}
		return nil, storeErr("get transaction", err)
	}
	return t, nil
}

func (r *TransactionRepository) AttachOrder(ctx context.Context, id, orderID string) error {
	res, err := r.db.Exec(ctx, `UPDATE transactions SET order_id = $1 WHERE id = $2`, orderID, id)
	if err != nil {
		return storeErr("attach order", err)
	}
	if res.RowsAffected() == 0 {
		return apperror.UnknownTransaction(id)
	}
	return nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]entity.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	defer rows.Close()

	out := make([]entity.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, storeErr("scan transaction", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate transactions", err)
	}
	return out, nil
}

// Settle marks the transaction paid and credits the owner in one statement.
// The payment = FALSE predicate is the idempotency guard: of any number of
// concurrent calls exactly one gets a row back.
func (r *TransactionRepository) Settle(ctx context.Context, id string) (*entity.Settlement, error) {
	s := &entity.Settlement{TransactionID: id}
	err := r.db.QueryRow(ctx, `
		WITH settled AS (
			UPDATE transactions
			SET payment = TRUE, settled_at = now()
			WHERE id = $1 AND payment = FALSE
			RETURNING user_id, credits
		)
		UPDATE users u
		SET credit_balance = u.credit_balance + s.credits, updated_at = now()
		FROM settled s
		WHERE u.id = s.user_id
		RETURNING u.id, s.credits, u.credit_balance
	`, id).Scan(&s.UserID, &s.Credits, &s.Balance)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, storeErr("settle transaction", err)
	}

	var paid bool
	err = r.db.QueryRow(ctx, `SELECT payment FROM transactions WHERE id = $1`, id).Scan(&paid)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, apperror.UnknownTransaction(id)
	case err != nil:
		return nil, storeErr("load transaction", err)
	case paid:
		return nil, apperror.DuplicateSettlement(id)
	default:
		return nil, errors.New("settle transaction: owner not found")
	}
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)
