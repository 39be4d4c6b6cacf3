package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"earnrewardzz/internal/metrics"
	"earnrewardzz/internal/middleware"
	"earnrewardzz/internal/service"
	"earnrewardzz/pkg/logger"

	"github.com/gin-gonic/gin"
)

type WithdrawalHandler struct {
	withdrawalSvc *service.WithdrawalService
	log           *logger.Logger
	metrics       *metrics.Metrics
}

func NewWithdrawalHandler(withdrawalSvc *service.WithdrawalService, log *logger.Logger, m *metrics.Metrics) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalSvc: withdrawalSvc, log: log, metrics: m}
}

// Create reserves coins and records a pending payout. The secret code in the
// response is shown exactly once.
// POST /api/coins/withdraw
func (h *WithdrawalHandler) Create(c *gin.Context) {
	var req struct {
		AmountUSD float64 `json:"amountUSD" binding:"required"`
		Address   string  `json:"address" binding:"required"`
		Method    string  `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, h.log, h.metrics, "amountUSD, address and method are required")
		return
	}
	usdCents := int64(math.Round(req.AmountUSD * 100))
	wd, err := h.withdrawalSvc.Request(c.Request.Context(), middleware.GetUserID(c),
		usdCents, strings.TrimSpace(req.Address), strings.ToLower(req.Method))
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"id":         wd.ID,
		"coins":      wd.Coins,
		"usd_amount": float64(wd.USDCents) / 100,
		"status":     wd.Status,
		"secretCode": wd.SecretCode,
	})
}

// List returns the caller's payout records (without secret codes).
// GET /api/coins/withdrawals
func (h *WithdrawalHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.withdrawalSvc.ListByUser(middleware.GetUserID(c), limit, offset)
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "withdrawals": list})
}

// Gift moves coins to another account by email.
// POST /api/coins/gift
func (h *WithdrawalHandler) Gift(c *gin.Context) {
	var req struct {
		RecipientEmail string `json:"recipientEmail" binding:"required,email"`
		AmountCoins    int64  `json:"amountCoins" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, h.log, h.metrics, "recipientEmail and amountCoins are required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.RecipientEmail))
	if err := h.withdrawalSvc.Gift(c.Request.Context(), middleware.GetUserID(c), email, req.AmountCoins); err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminList returns the settlement queue.
// GET /api/admin/withdrawals?status=
func (h *WithdrawalHandler) AdminList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.withdrawalSvc.ListByStatus(c.Query("status"), limit, offset)
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "withdrawals": list})
}

// AdminMarkPaid settles a payout; repeating it is a no-op.
// POST /api/admin/withdrawals/:id/paid
func (h *WithdrawalHandler) AdminMarkPaid(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		failValidation(c, h.log, h.metrics, "invalid withdrawal id")
		return
	}
	if err := h.withdrawalSvc.MarkPaid(c.Request.Context(), uint(id)); err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
