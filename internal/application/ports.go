package application

import (
	"context"
	"time"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
	"github.com/oksasatya/pixcredit/internal/infrastructure/cache"
)

// SessionStore caches token -> user lookups. It is never authoritative.
type SessionStore interface {
	Put(ctx context.Context, token, userID string, exp time.Time) error
	Get(ctx context.Context, token string) (cache.SessionEntry, bool, error)
}

// CreditStore caches credit snapshots per user.
type CreditStore interface {
	Get(ctx context.Context, userID string) (entity.CreditSnapshot, bool, error)
	Put(ctx context.Context, userID string, s entity.CreditSnapshot) error
	Invalidate(ctx context.Context, userID string) error
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*entity.GatewayOrder, error)
	FetchOrder(ctx context.Context, orderID string) (*entity.GatewayOrder, error)
}

type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

type ObjectStore interface {
	Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error)
}

// AccountMailer sends account lifecycle emails.
type AccountMailer interface {
	SendVerificationCode(ctx context.Context, to, name, code string, expiresAt time.Time) error
	SendWelcome(ctx context.Context, to, name string) error
	SendPasswordReset(ctx context.Context, to, name, link string, expiresAt time.Time) error
}
