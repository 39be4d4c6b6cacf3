package handler

import (
	"net/http"
	"strings"
	"time"

	"earnrewardzz/internal/domain"
	"earnrewardzz/internal/metrics"
	"earnrewardzz/internal/middleware"
	"earnrewardzz/internal/repository"
	"earnrewardzz/internal/service"
	"earnrewardzz/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authSvc    *service.AuthService
	userRepo   *repository.UserRepository
	walletRepo *repository.WalletRepository
	log        *logger.Logger
	metrics    *metrics.Metrics
}

func NewAuthHandler(authSvc *service.AuthService, userRepo *repository.UserRepository, walletRepo *repository.WalletRepository, log *logger.Logger, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, userRepo: userRepo, walletRepo: walletRepo, log: log, metrics: m}
}

// RequestOTP sends a login/signup code to the given email.
// POST /api/auth/otp/request
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		PhoneNumber string `json:"phoneNumber"`
		IsSignup    bool   `json:"isSignup"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, h.metrics, domain.E(domain.KindValidation, "a valid email is required"))
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.authSvc.RequestOTP(email, strings.TrimSpace(req.PhoneNumber), req.IsSignup); err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// VerifyOTP consumes the code and returns the session token with the initial
// wallet snapshot.
// POST /api/auth/otp/verify
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email        string `json:"email" binding:"required,email"`
		OTP          string `json:"otp" binding:"required"`
		ReferralCode string `json:"referralCode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, h.metrics, domain.E(domain.KindValidation, "email and otp are required"))
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, wallet, token, err := h.authSvc.VerifyOTP(c.Request.Context(), email, strings.TrimSpace(req.OTP), req.ReferralCode)
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
		"wallet":  walletJSON(wallet, time.Now()),
	})
}

// Me returns the authenticated account with its wallet snapshot.
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	wallet, err := h.walletRepo.GetOrCreate(userID)
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
		"wallet":  walletJSON(wallet, time.Now()),
	})
}
