package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
	"github.com/oksasatya/pixcredit/internal/domain/repository"
	"github.com/oksasatya/pixcredit/pkg/apperror"
)

const userColumns = `id, email, name, password_hash, is_verified, verification_code, verification_expires_at, credit_balance, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Password, &u.IsVerified, &u.VerificationCode,
		&u.VerificationExpiresAt, &u.CreditBalance, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash, verification_code, verification_expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, credit_balance, created_at, updated_at
	`, u.Email, u.Name, u.Password, u.VerificationCode, u.VerificationExpiresAt)

	if err := row.Scan(&u.ID, &u.CreditBalance, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("User already exists")
		}
		return storeErr("insert user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("User does not exist")
		}
		return nil, storeErr("get user by id", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("User does not exist")
		}
		return nil, storeErr("get user by email", err)
	}
	return u, nil
}

// VerifyEmail consumes the code in the same statement that checks it, so a
// code can be used once even under concurrent requests.
func (r *UserRepository) VerifyEmail(ctx context.Context, email, code string, now time.Time) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `
		UPDATE users
		SET is_verified = TRUE, verification_code = NULL, verification_expires_at = NULL, updated_at = now()
		WHERE email = $1 AND verification_code = $2 AND verification_expires_at > $3
		RETURNING `+userColumns, email, code, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.InvalidOrExpiredCode()
		}
		return nil, storeErr("verify email", err)
	}
	return u, nil
}

func (r *UserRepository) SetVerificationCode(ctx context.Context, userID, code string, expiresAt time.Time) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET verification_code = $1, verification_expires_at = $2, updated_at = now()
		WHERE id = $3 AND is_verified = FALSE
	`, code, expiresAt, userID)
	if err != nil {
		return storeErr("set verification code", err)
	}
	if res.RowsAffected() == 0 {
		return apperror.NotFound("User does not exist")
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, hash string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2
	`, hash, userID)
	if err != nil {
		return storeErr("update password", err)
	}
	if res.RowsAffected() == 0 {
		return apperror.NotFound("User does not exist")
	}
	return nil
}

func (r *UserRepository) ConsumeCredit(ctx context.Context, userID string) (int, error) {
	var balance int
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET credit_balance = credit_balance - 1, updated_at = now()
		WHERE id = $1 AND credit_balance > 0
		RETURNING credit_balance
	`, userID).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, storeErr("consume credit", err)
	}

	// Nothing updated: either the user is gone or the balance is zero.
	if _, err := r.GetByID(ctx, userID); err != nil {
		return 0, err
	}
	return 0, apperror.InsufficientCredits()
}

var _ repository.UserRepository = (*UserRepository)(nil)
