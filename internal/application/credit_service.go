package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
	repo "github.com/oksasatya/pixcredit/internal/domain/repository"
)

const transactionsPageSize = 50

type CreditService struct {
	Users        repo.UserRepository
	Transactions repo.TransactionRepository
	Credits      CreditStore
	Logger       *logrus.Logger
}

func NewCreditService(users repo.UserRepository, txs repo.TransactionRepository, credits CreditStore, logger *logrus.Logger) *CreditService {
	return &CreditService{Users: users, Transactions: txs, Credits: credits, Logger: logger}
}

// Balance reads credits:<userId> first and falls back to the user record.
func (s *CreditService) Balance(ctx context.Context, userID string) (entity.CreditSnapshot, error) {
	if s.Credits != nil {
		snap, found, err := s.Credits.Get(ctx, userID)
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("credits cache lookup failed")
		}
		if found {
			return snap, nil
		}
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return entity.CreditSnapshot{}, err
	}
	snap := u.Credits()
	if s.Credits != nil {
		if err := s.Credits.Put(ctx, userID, snap); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("credits cache write failed")
		}
	}
	return snap, nil
}

func (s *CreditService) ListTransactions(ctx context.Context, userID string) ([]entity.Transaction, error) {
	return s.Transactions.ListByUser(ctx, userID, transactionsPageSize)
}
