package helpers

import (
	"crypto/sha256"
	"errors"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const resetAudience = "password-reset"

// TokenManager mints and verifies HS256 session and password-reset tokens.
// The signing secret is fixed at construction.
type TokenManager struct {
	secret      []byte
	RegisterTTL time.Duration
	LoginTTL    time.Duration
	ResetTTL    time.Duration

	now func() time.Time
}

func NewTokenManager(secret string, registerTTL, loginTTL, resetTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:      []byte(secret),
		RegisterTTL: registerTTL,
		LoginTTL:    loginTTL,
		ResetTTL:    resetTTL,
		now:         time.Now,
	}
}

// WithClock replaces the time source; used by tests to age tokens.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	cp := *m
	cp.now = now
	return &cp
}

// Now returns the manager's notion of the current time.
func (m *TokenManager) Now() time.Time { return m.now() }

type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Expiry returns the expiry claim or the zero time.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

func (m *TokenManager) IssueRegistration(userID string) (string, time.Time, error) {
	return m.issue(userID, m.RegisterTTL, m.secret, nil)
}

func (m *TokenManager) IssueLogin(userID string) (string, time.Time, error) {
	return m.issue(userID, m.LoginTTL, m.secret, nil)
}

// Parse verifies signature and expiry of a session token.
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	claims, err := m.parse(tokenStr, m.secret)
	if err != nil {
		return nil, err
	}
	if len(claims.Audience) > 0 {
		return nil, errors.New("unexpected audience")
	}
	return claims, nil
}

// ResetSecret derives the per-user key for password-reset tokens from the
// service secret and the user's current password hash. Changing the password
// changes the key, so every outstanding reset token stops verifying.
func (m *TokenManager) ResetSecret(passwordHash string) ([]byte, error) {
	r := hkdf.New(sha256.New, m.secret, []byte(passwordHash), []byte(resetAudience))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

func (m *TokenManager) IssueReset(userID, passwordHash string) (string, time.Time, error) {
	key, err := m.ResetSecret(passwordHash)
	if err != nil {
		return "", time.Time{}, err
	}
	return m.issue(userID, m.ResetTTL, key, jwt.ClaimStrings{resetAudience})
}

func (m *TokenManager) ParseReset(tokenStr, passwordHash string) (*Claims, error) {
	key, err := m.ResetSecret(passwordHash)
	if err != nil {
		return nil, err
	}
	return m.parse(tokenStr, key, jwt.WithAudience(resetAudience))
}

func (m *TokenManager) issue(userID string, ttl time.Duration, key []byte, aud jwt.ClaimStrings) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(ttl)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Audience:  aud,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(key)
	return s, exp, err
}

func (m *TokenManager) parse(tokenStr string, secret []byte, opts ...jwt.ParserOption) (*Claims, error) {
	claims := &Claims{}
	opts = append(opts, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
