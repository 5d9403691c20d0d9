package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pixcredit/internal/application"
	"github.com/oksasatya/pixcredit/pkg/response"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type verifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,otp"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,pwd"`
}

type sessionView struct {
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expires_at"`
	User      userView `json:"user"`
}

func toSessionView(s *application.Session) sessionView {
	return sessionView{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt.Unix(),
		User:      userView{ID: s.UserID, Name: s.Name, Email: s.Email},
	}
}

// Register POST /api/user/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}
	sess, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toSessionView(sess), "Verification code sent to email", nil)
}

// VerifyEmail POST /api/user/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.Svc.VerifyEmail(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"isVerified": u.IsVerified}, "Email verified successfully", nil)
}

// ResendCode POST /api/user/resend-code
func (h *AuthHandler) ResendCode(c *gin.Context) {
	var req emailRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.ResendCode(c.Request.Context(), req.Email); err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Verification code sent to email", nil)
}

// Login POST /api/user/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toSessionView(sess), "Login successful", nil)
}

// ForgotPassword POST /api/user/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "If the email exists, a reset link has been sent", nil)
}

// ResetPassword POST /api/user/reset-password/:id/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), c.Param("id"), c.Param("token"), req.Password); err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Password updated", nil)
}
