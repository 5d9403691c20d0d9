package application

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
	repo "github.com/oksasatya/pixcredit/internal/domain/repository"
	"github.com/oksasatya/pixcredit/pkg/apperror"
	"github.com/oksasatya/pixcredit/pkg/helpers"
)

type AuthService struct {
	Users            repo.UserRepository
	Tokens           *helpers.TokenManager
	Hasher           *helpers.PasswordHasher
	Sessions         SessionStore
	Mailer           AccountMailer
	Logger           *logrus.Logger
	VerificationTTL  time.Duration
	ResetPasswordURL string

	// GenCode produces verification codes; replaced in tests.
	GenCode func() (string, error)
}

func NewAuthService(users repo.UserRepository, tokens *helpers.TokenManager, hasher *helpers.PasswordHasher,
	sessions SessionStore, mailer AccountMailer, logger *logrus.Logger, verificationTTL time.Duration, resetURL string) *AuthService {
	return &AuthService{
		Users:            users,
		Tokens:           tokens,
		Hasher:           hasher,
		Sessions:         sessions,
		Mailer:           mailer,
		Logger:           logger,
		VerificationTTL:  verificationTTL,
		ResetPasswordURL: resetURL,
		GenCode:          helpers.GenOTPCode,
	}
}

// Session is a freshly minted bearer token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified user, sends the verification code and
// returns a short-lived session. The code email is awaited: if it cannot be
// sent the caller gets an error and can ask for a new code.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	code, err := s.GenCode()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	exp := s.Tokens.Now().Add(s.VerificationTTL)

	u := &entity.User{
		Name:                  strings.TrimSpace(in.Name),
		Email:                 normalizeEmail(in.Email),
		Password:              hash,
		VerificationCode:      &code,
		VerificationExpiresAt: &exp,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	if err := s.Mailer.SendVerificationCode(ctx, u.Email, u.Name, code, exp); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("send verification code failed")
		}
		return nil, apperror.ExternalService("Failed to send verification email", err)
	}

	token, tokenExp, err := s.Tokens.IssueRegistration(u.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	s.cacheSession(ctx, token, u.ID, tokenExp)
	return &Session{Token: token, ExpiresAt: tokenExp, UserID: u.ID, Name: u.Name, Email: u.Email}, nil
}

// VerifyEmail checks and consumes the one-time code.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*entity.User, error) {
	email = normalizeEmail(email)
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u.IsVerified {
		return nil, apperror.Conflict("Email already verified")
	}

	u, err = s.Users.VerifyEmail(ctx, email, code, s.Tokens.Now())
	if err != nil {
		return nil, err
	}

	if err := s.Mailer.SendWelcome(ctx, u.Email, u.Name); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email failed")
	}
	return u, nil
}

// ResendCode replaces the verification code of an unverified user.
func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if u.IsVerified {
		return apperror.Conflict("Email already verified")
	}
	code, err := s.GenCode()
	if err != nil {
		return apperror.Internal(err)
	}
	exp := s.Tokens.Now().Add(s.VerificationTTL)
	if err := s.Users.SetVerificationCode(ctx, u.ID, code, exp); err != nil {
		return err
	}
	if err := s.Mailer.SendVerificationCode(ctx, u.Email, u.Name, code, exp); err != nil {
		return apperror.ExternalService("Failed to send verification email", err)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if !u.IsVerified {
		return nil, apperror.EmailNotVerified()
	}
	if !s.Hasher.Verify(password, u.Password) {
		return nil, apperror.InvalidCredentials()
	}

	token, exp, err := s.Tokens.IssueLogin(u.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	s.cacheSession(ctx, token, u.ID, exp)
	return &Session{Token: token, ExpiresAt: exp, UserID: u.ID, Name: u.Name, Email: u.Email}, nil
}

// ForgotPassword mails a reset link. Unknown emails succeed silently.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		return err
	}

	token, exp, err := s.Tokens.IssueReset(u.ID, u.Password)
	if err != nil {
		return apperror.Internal(err)
	}
	link := strings.TrimRight(s.ResetPasswordURL, "/") + "/" + url.PathEscape(u.ID) + "/" + url.PathEscape(token)
	if err := s.Mailer.SendPasswordReset(ctx, u.Email, u.Name, link, exp); err != nil {
		return apperror.ExternalService("Failed to send reset email", err)
	}
	return nil
}

// ResetPassword verifies a reset token against the user's current password
// hash and stores the new hash, which voids the token and any sibling.
func (s *AuthService) ResetPassword(ctx context.Context, userID, token, password string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return apperror.InvalidToken(err)
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.InvalidToken(err)
		}
		return err
	}
	claims, err := s.Tokens.ParseReset(token, u.Password)
	if err != nil {
		return apperror.InvalidToken(err)
	}
	if claims.UserID != u.ID {
		return apperror.InvalidToken(errors.New("token user mismatch"))
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return apperror.Internal(err)
	}
	return s.Users.UpdatePassword(ctx, u.ID, hash)
}

func (s *AuthService) cacheSession(ctx context.Context, token, userID string, exp time.Time) {
	if s.Sessions == nil {
		return
	}
	if err := s.Sessions.Put(ctx, token, userID, exp); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session cache write failed")
	}
}
