package application

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
	"github.com/oksasatya/pixcredit/internal/infrastructure/cache"
	"github.com/oksasatya/pixcredit/pkg/apperror"
	"github.com/oksasatya/pixcredit/pkg/helpers"
)

// memStore is an in-memory user + transaction store with the same atomicity
// as the SQL implementation: every method holds the lock for its whole body.
type memStore struct {
	mu     sync.Mutex
	users  map[string]*entity.User
	txs    map[string]*entity.Transaction
	images []entity.GeneratedImage
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*entity.User{}, txs: map[string]*entity.Transaction{}}
}

func (m *memStore) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return apperror.Conflict("User already exists")
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("User does not exist")
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("User does not exist")
}

func (m *memStore) VerifyEmail(_ context.Context, email, code string, now time.Time) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email != email {
			continue
		}
		if u.VerificationCode == nil || *u.VerificationCode != code ||
			u.VerificationExpiresAt == nil || !now.Before(*u.VerificationExpiresAt) {
			return nil, apperror.InvalidOrExpiredCode()
		}
		u.IsVerified = true
		u.VerificationCode = nil
		u.VerificationExpiresAt = nil
		cp := *u
		return &cp, nil
	}
	return nil, apperror.InvalidOrExpiredCode()
}

func (m *memStore) SetVerificationCode(_ context.Context, userID, code string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.IsVerified {
		return apperror.NotFound("User does not exist")
	}
	u.VerificationCode = &code
	u.VerificationExpiresAt = &expiresAt
	return nil
}

func (m *memStore) UpdatePassword(_ context.Context, userID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return apperror.NotFound("User does not exist")
	}
	u.Password = hash
	return nil
}

func (m *memStore) ConsumeCredit(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return 0, apperror.NotFound("User does not exist")
	}
	if u.CreditBalance <= 0 {
		return 0, apperror.InsufficientCredits()
	}
	u.CreditBalance--
	return u.CreditBalance, nil
}

func (m *memStore) setBalance(userID string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID].CreditBalance = n
}

// memTxs adapts memStore to TransactionRepository; method names overlap with
// the user side.
type memTxs struct{ *memStore }

func (t memTxs) Create(_ context.Context, tx *entity.Transaction) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	tx.CreatedAt = time.Now()
	cp := *tx
	t.txs[tx.ID] = &cp
	return nil
}

func (t memTxs) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tx, ok := t.txs[id]
	if !ok {
		return nil, apperror.UnknownTransaction(id)
	}
	cp := *tx
	return &cp, nil
}

func (t memTxs) AttachOrder(_ context.Context, id, orderID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	tx, ok := t.txs[id]
	if !ok {
		return apperror.UnknownTransaction(id)
	}
	tx.OrderID = orderID
	return nil
}

func (t memTxs) ListByUser(_ context.Context, userID string, limit int) ([]entity.Transaction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]entity.Transaction, 0)
	for _, tx := range t.txs {
		if tx.UserID == userID {
			out = append(out, *tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (t memTxs) Settle(_ context.Context, id string) (*entity.Settlement, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tx, ok := t.txs[id]
	if !ok {
		return nil, apperror.UnknownTransaction(id)
	}
	if tx.Payment {
		return nil, apperror.DuplicateSettlement(id)
	}
	now := time.Now()
	tx.Payment = true
	tx.SettledAt = &now
	u := t.users[tx.UserID]
	u.CreditBalance += tx.Credits
	return &entity.Settlement{TransactionID: id, UserID: u.ID, Credits: tx.Credits, Balance: u.CreditBalance}, nil
}

type memImages struct{ *memStore }

func (i memImages) Create(_ context.Context, img *entity.GeneratedImage) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	img.CreatedAt = time.Now()
	i.images = append(i.images, *img)
	return nil
}

func (i memImages) Search(_ context.Context, userID, _ string, _ int) ([]entity.GeneratedImage, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]entity.GeneratedImage, 0)
	for _, img := range i.images {
		if img.UserID == userID {
			out = append(out, img)
		}
	}
	return out, nil
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendVerificationCode(ctx context.Context, to, name, code string, expiresAt time.Time) error {
	return m.Called(ctx, to, name, code, expiresAt).Error(0)
}

func (m *mockMailer) SendWelcome(ctx context.Context, to, name string) error {
	return m.Called(ctx, to, name).Error(0)
}

func (m *mockMailer) SendPasswordReset(ctx context.Context, to, name, link string, expiresAt time.Time) error {
	return m.Called(ctx, to, name, link, expiresAt).Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*entity.GatewayOrder, error) {
	args := m.Called(ctx, amount, currency, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GatewayOrder), args.Error(1)
}

func (m *mockGateway) FetchOrder(ctx context.Context, orderID string) (*entity.GatewayOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GatewayOrder), args.Error(1)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type mockObjectStore struct {
	mock.Mock
}

func (m *mockObjectStore) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, objectPath, contentType, data)
	return args.String(0), args.Error(1)
}

// testClock is a settable clock shared by the token manager and caches.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store    *memStore
	mr       *miniredis.Miniredis
	rdb      *goredis.Client
	clock    *testClock
	tokens   *helpers.TokenManager
	sessions *cache.SessionCache
	credits  *cache.CreditCache
	mailer   *mockMailer
	gateway  *mockGateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	clock := &testClock{now: time.Now()}
	tokens := helpers.NewTokenManager("test-secret", time.Hour, 24*time.Hour, 15*time.Minute).WithClock(clock.Now)
	return &fixture{
		store:    newMemStore(),
		mr:       mr,
		rdb:      rdb,
		clock:    clock,
		tokens:   tokens,
		sessions: cache.NewSessionCache(rdb, time.Hour).WithClock(clock.Now),
		credits:  cache.NewCreditCache(rdb, time.Minute),
		mailer:   &mockMailer{},
		gateway:  &mockGateway{},
	}
}

func (f *fixture) authService() *AuthService {
	svc := NewAuthService(f.store, f.tokens, helpers.NewPasswordHasher(4), f.sessions, f.mailer,
		helpers.NewNopLogger(), 24*time.Hour, "http://localhost:5173/reset-password")
	return svc
}

func (f *fixture) creditService() *CreditService {
	return NewCreditService(f.store, memTxs{f.store}, f.credits, helpers.NewNopLogger())
}

func (f *fixture) settlementService() *SettlementService {
	return NewSettlementService(memTxs{f.store}, f.gateway, f.credits, "INR", helpers.NewNopLogger())
}

func (f *fixture) authenticator() *Authenticator {
	return NewAuthenticator(f.sessions, f.tokens, helpers.NewNopLogger())
}
