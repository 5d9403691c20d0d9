package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pixcredit/internal/application"
	"github.com/oksasatya/pixcredit/internal/interface/middleware"
	"github.com/oksasatya/pixcredit/pkg/response"
)

type UserHandler struct {
	Svc    *application.CreditService
	Logger *logrus.Logger
}

func NewUserHandler(credits *application.CreditService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: credits, Logger: logger}
}

type creditsView struct {
	Credits int      `json:"credits"`
	User    userView `json:"user"`
}

// Credits GET /api/user/credits
func (h *UserHandler) Credits(c *gin.Context) {
	snap, err := h.Svc.Balance(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, creditsView{Credits: snap.Credits, User: userView{Name: snap.Name}}, "", nil)
}

// Transactions GET /api/user/transactions
func (h *UserHandler) Transactions(c *gin.Context) {
	txs, err := h.Svc.ListTransactions(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, txs, "", map[string]any{"count": len(txs)})
}
