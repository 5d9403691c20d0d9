package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pixcredit/pkg/apperror"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Code      string      `json:"code,omitempty"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
	ctx.JSON(status, resp)
	return resp
}

// Fail writes err as a structured failure. Internal causes are logged, never returned.
func Fail(ctx *gin.Context, logger *logrus.Logger, err error) {
	ae := apperror.From(err)
	status := ae.Status()
	if status >= http.StatusInternalServerError && logger != nil {
		logger.WithError(err).
			WithField("request_id", ctx.GetString("request_id")).
			WithField("path", ctx.FullPath()).
			Error("request failed")
	}
	resp := APIResponse[any]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   ae.Message,
		Code:      ae.Code,
		Data:      ae.Data,
	}
	ctx.JSON(status, resp)
}

// Abort is Fail for middleware: it stops the handler chain.
func Abort(ctx *gin.Context, logger *logrus.Logger, err error) {
	Fail(ctx, logger, err)
	ctx.Abort()
}
