package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind groups errors by how they are reported to the caller.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindUnauthenticated Kind = "unauthenticated"
	KindInvalidToken    Kind = "invalid_token"
	KindForbidden       Kind = "forbidden"
	KindConflict        Kind = "conflict"
	KindUnprocessable   Kind = "unprocessable"
	KindExternalService Kind = "external_service"
	KindInternal        Kind = "internal"
)

// Codes shared with API clients. Clients match on code, never on message.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeConflict            = "CONFLICT"
	CodeExternalService     = "EXTERNAL_SERVICE_ERROR"
	CodeInternal            = "INTERNAL_ERROR"
	CodeInvalidPlan         = "INVALID_PLAN"
	CodePaymentGateway      = "PAYMENT_GATEWAY_ERROR"
	CodePaymentFailed       = "PAYMENT_FAILED"
	CodeUnknownTransaction  = "UNKNOWN_TRANSACTION"
	CodeDuplicateSettlement = "DUPLICATE_SETTLEMENT"
	CodeInvalidCode         = "INVALID_OR_EXPIRED_CODE"
	CodeEmailNotVerified    = "EMAIL_NOT_VERIFIED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInsufficientCredits = "INSUFFICIENT_CREDITS"
)

// Error is a classified application error. Message is safe to show to users;
// Err carries the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
	// Data is optional payload returned to the caller alongside the message.
	Data any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// WithData returns a copy of e carrying d as response payload.
func (e *Error) WithData(d any) *Error {
	cp := *e
	cp.Data = d
	return &cp
}

// Is matches another *Error by code so sentinel comparisons work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated, KindInvalidToken:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	case KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newErr(kind Kind, code, msg string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Err: err}
}

func Validation(msg string) *Error { return newErr(KindValidation, CodeValidation, msg, nil) }
func NotFound(msg string) *Error   { return newErr(KindNotFound, CodeNotFound, msg, nil) }
func Unauthenticated(msg string) *Error {
	return newErr(KindUnauthenticated, CodeUnauthenticated, msg, nil)
}

func InvalidToken(err error) *Error {
	return newErr(KindInvalidToken, CodeInvalidToken, "Unauthorized or expired token", err)
}

func Conflict(msg string) *Error { return newErr(KindConflict, CodeConflict, msg, nil) }

func ExternalService(msg string, err error) *Error {
	return newErr(KindExternalService, CodeExternalService, msg, err)
}

func Internal(err error) *Error {
	return newErr(KindInternal, CodeInternal, "Internal Server Error", err)
}

func InvalidPlan(planID string) *Error {
	return newErr(KindValidation, CodeInvalidPlan, fmt.Sprintf("plan %q not found", planID), nil)
}

func PaymentGateway(err error) *Error {
	return newErr(KindExternalService, CodePaymentGateway, "payment gateway unavailable", err)
}

func PaymentFailed(msg string) *Error {
	return newErr(KindUnprocessable, CodePaymentFailed, msg, nil)
}

func UnknownTransaction(receipt string) *Error {
	return newErr(KindNotFound, CodeUnknownTransaction, fmt.Sprintf("no transaction for receipt %q", receipt), nil)
}

func DuplicateSettlement(txID string) *Error {
	return newErr(KindConflict, CodeDuplicateSettlement, fmt.Sprintf("transaction %s already settled", txID), nil)
}

func InvalidOrExpiredCode() *Error {
	return newErr(KindValidation, CodeInvalidCode, "Invalid or Expired Code", nil)
}

func EmailNotVerified() *Error {
	return newErr(KindValidation, CodeEmailNotVerified, "Email is not verified", nil)
}

func InvalidCredentials() *Error {
	return newErr(KindUnauthenticated, CodeInvalidCredentials, "Invalid credentials", nil)
}

func InsufficientCredits() *Error {
	return newErr(KindForbidden, CodeInsufficientCredits, "No Credit Balance", nil)
}

// Sentinels for errors.Is checks; compared by code.
var (
	ErrNotFound            = NotFound("")
	ErrConflict            = Conflict("")
	ErrDuplicateSettlement = &Error{Code: CodeDuplicateSettlement}
	ErrUnknownTransaction  = &Error{Code: CodeUnknownTransaction}
	ErrInvalidPlan         = &Error{Code: CodeInvalidPlan}
	ErrPaymentFailed       = &Error{Code: CodePaymentFailed}
	ErrPaymentGateway      = &Error{Code: CodePaymentGateway}
	ErrInvalidToken        = &Error{Code: CodeInvalidToken}
	ErrUnauthenticated     = &Error{Code: CodeUnauthenticated}
	ErrInvalidCode         = &Error{Code: CodeInvalidCode}
	ErrEmailNotVerified    = &Error{Code: CodeEmailNotVerified}
	ErrInvalidCredentials  = &Error{Code: CodeInvalidCredentials}
	ErrInsufficientCredits = &Error{Code: CodeInsufficientCredits}
)

// From classifies err. Unclassified errors become Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}
