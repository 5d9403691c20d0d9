package repository

import (
	"context"
	"time"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
)

// UserRepository is the credential store. Balance changes are single atomic
// statements; callers never read-modify-write the balance.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// VerifyEmail marks the user verified if code matches an unexpired code, and clears it.
	VerifyEmail(ctx context.Context, email, code string, now time.Time) (*entity.User, error)
	SetVerificationCode(ctx context.Context, userID, code string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, userID, hash string) error
	// ConsumeCredit decrements the balance by one when it is positive and returns the new balance.
	ConsumeCredit(ctx context.Context, userID string) (int, error)
}
