package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
	repo "github.com/oksasatya/pixcredit/internal/domain/repository"
	"github.com/oksasatya/pixcredit/pkg/apperror"
)

// SettlementService turns paid gateway orders into credits. A transaction
// moves Created -> Settled once; the store's conditional update is the guard.
type SettlementService struct {
	Transactions repo.TransactionRepository
	Gateway      PaymentGateway
	Credits      CreditStore
	Currency     string
	Logger       *logrus.Logger
}

func NewSettlementService(txs repo.TransactionRepository, gateway PaymentGateway, credits CreditStore, currency string, logger *logrus.Logger) *SettlementService {
	return &SettlementService{Transactions: txs, Gateway: gateway, Credits: credits, Currency: currency, Logger: logger}
}

type OrderResult struct {
	Transaction *entity.Transaction  `json:"transaction"`
	Order       *entity.GatewayOrder `json:"order"`
}

// CreateOrder records a Created transaction for the plan and opens a gateway
// order whose receipt is the transaction id. If the gateway fails the
// transaction is left in place; it can never be settled without a paid order.
func (s *SettlementService) CreateOrder(ctx context.Context, userID, planID string) (*OrderResult, error) {
	plan, ok := entity.LookupPlan(planID)
	if !ok {
		return nil, apperror.InvalidPlan(planID)
	}

	tx := &entity.Transaction{
		ID:       uuid.NewString(),
		UserID:   userID,
		Plan:     plan.ID,
		Credits:  plan.Credits,
		Amount:   plan.Price,
		Currency: s.Currency,
	}
	if err := s.Transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	order, err := s.Gateway.CreateOrder(ctx, plan.Price*100, s.Currency, tx.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("transaction_id", tx.ID).Error("gateway order failed")
		}
		var ae *apperror.Error
		if errors.As(err, &ae) {
			return nil, ae
		}
		return nil, apperror.PaymentGateway(err)
	}

	if err := s.Transactions.AttachOrder(ctx, tx.ID, order.ID); err != nil {
		return nil, err
	}
	tx.OrderID = order.ID
	return &OrderResult{Transaction: tx, Order: order}, nil
}

// VerifyPayment settles the transaction behind a paid gateway order. Repeated
// calls for the same order credit once and then fail with DuplicateSettlement.
func (s *SettlementService) VerifyPayment(ctx context.Context, orderID string) (*entity.Settlement, error) {
	order, err := s.Gateway.FetchOrder(ctx, orderID)
	if err != nil {
		settlementsTotal.WithLabelValues("gateway_error").Inc()
		var ae *apperror.Error
		if errors.As(err, &ae) {
			return nil, ae
		}
		return nil, apperror.PaymentGateway(err)
	}
	if order.Status != entity.OrderStatusPaid {
		settlementsTotal.WithLabelValues("not_paid").Inc()
		return nil, apperror.PaymentFailed("Payment Failed")
	}
	if _, err := uuid.Parse(order.Receipt); err != nil {
		settlementsTotal.WithLabelValues("unknown").Inc()
		return nil, apperror.UnknownTransaction(order.Receipt)
	}

	settled, err := s.Transactions.Settle(ctx, order.Receipt)
	switch {
	case errors.Is(err, apperror.ErrDuplicateSettlement):
		settlementsTotal.WithLabelValues("duplicate").Inc()
		return nil, err
	case errors.Is(err, apperror.ErrUnknownTransaction):
		settlementsTotal.WithLabelValues("unknown").Inc()
		return nil, err
	case err != nil:
		settlementsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if s.Credits != nil {
		if err := s.Credits.Invalidate(ctx, settled.UserID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", settled.UserID).Error("credits cache invalidation failed")
		}
	}
	settlementsTotal.WithLabelValues("settled").Inc()
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"transaction_id": settled.TransactionID,
			"user_id":        settled.UserID,
			"credits":        settled.Credits,
			"balance":        settled.Balance,
		}).Info("transaction settled")
	}
	return settled, nil
}
