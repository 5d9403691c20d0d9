package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pixcredit/internal/application"
	"github.com/oksasatya/pixcredit/internal/domain/entity"
	"github.com/oksasatya/pixcredit/internal/interface/middleware"
	"github.com/oksasatya/pixcredit/pkg/response"
)

type PaymentHandler struct {
	Svc    *application.SettlementService
	Logger *logrus.Logger
}

func NewPaymentHandler(svc *application.SettlementService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{Svc: svc, Logger: logger}
}

type payRequest struct {
	PlanID string `json:"planId" binding:"required"`
}

// settledView is all an unauthenticated caller learns about a settlement.
type settledView struct {
	Credits int `json:"credits"`
}

type verifyRequest struct {
	OrderID string `json:"razorpay_order_id" binding:"required"`
}

// Plans GET /api/user/plans
func (h *PaymentHandler) Plans(c *gin.Context) {
	response.Success(c, http.StatusOK, entity.Plans(), "", nil)
}

// PayRazor POST /api/user/pay-razor
func (h *PaymentHandler) PayRazor(c *gin.Context) {
	var req payRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.Svc.CreateOrder(c.Request.Context(), middleware.UserID(c), req.PlanID)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res.Order, "Order created", map[string]any{"transaction_id": res.Transaction.ID})
}

// VerifyRazor POST /api/user/verify-razor
func (h *PaymentHandler) VerifyRazor(c *gin.Context) {
	var req verifyRequest
	if !bind(c, &req) {
		return
	}
	s, err := h.Svc.VerifyPayment(c.Request.Context(), req.OrderID)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, settledView{Credits: s.Credits}, "Credits Added", nil)
}
