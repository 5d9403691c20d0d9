package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pixcredit/pkg/apperror"
	"github.com/oksasatya/pixcredit/pkg/helpers"
)

// Authenticator resolves bearer tokens to user ids. The session cache is
// consulted first; on a miss or cache failure the token signature is
// verified and the cache is refilled.
type Authenticator struct {
	Sessions SessionStore
	Tokens   *helpers.TokenManager
	Logger   *logrus.Logger
}

func NewAuthenticator(sessions SessionStore, tokens *helpers.TokenManager, logger *logrus.Logger) *Authenticator {
	return &Authenticator{Sessions: sessions, Tokens: tokens, Logger: logger}
}

// ExtractToken accepts both "Bearer <token>" and a raw token.
func ExtractToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func (a *Authenticator) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperror.Unauthenticated("Not Authorized. Login Again")
	}

	if a.Sessions != nil {
		entry, found, err := a.Sessions.Get(ctx, token)
		if err != nil && a.Logger != nil {
			a.Logger.WithError(err).Warn("session cache lookup failed")
		}
		if found {
			return entry.UserID, nil
		}
	}

	claims, err := a.Tokens.Parse(token)
	if err != nil {
		return "", apperror.InvalidToken(err)
	}
	if claims.UserID == "" {
		return "", apperror.InvalidToken(errors.New("token has no user id"))
	}

	if a.Sessions != nil {
		if err := a.Sessions.Put(ctx, token, claims.UserID, claims.Expiry()); err != nil && a.Logger != nil {
			a.Logger.WithError(err).WithField("user_id", claims.UserID).Warn("session cache write failed")
		}
	}
	return claims.UserID, nil
}
