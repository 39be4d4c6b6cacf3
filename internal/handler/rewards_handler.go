package handler

import (
	"net/http"
	"strconv"
	"time"

	"earnrewardzz/internal/metrics"
	"earnrewardzz/internal/middleware"
	"earnrewardzz/internal/service"
	"earnrewardzz/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RewardsHandler struct {
	rewardSvc   *service.RewardService
	referralSvc *service.ReferralService
	log         *logger.Logger
	metrics     *metrics.Metrics
}

func NewRewardsHandler(rewardSvc *service.RewardService, referralSvc *service.ReferralService, log *logger.Logger, m *metrics.Metrics) *RewardsHandler {
	return &RewardsHandler{rewardSvc: rewardSvc, referralSvc: referralSvc, log: log, metrics: m}
}

// EarnAd consumes an ad-completion signal and credits one coin if the daily
// cap has room.
// POST /api/coins/earn/ad
func (h *RewardsHandler) EarnAd(c *gin.Context) {
	var req struct {
		Event       string `json:"event" binding:"required"`
		PlacementID string `json:"placementId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, h.log, h.metrics, "event is required")
		return
	}
	w, err := h.rewardSvc.EarnAd(c.Request.Context(), middleware.GetUserID(c), req.Event, req.PlacementID)
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "wallet": walletJSON(w, time.Now())})
}

// DailyCheckin claims the once-per-day bonus spin.
// POST /api/rewards/daily-checkin
func (h *RewardsHandler) DailyCheckin(c *gin.Context) {
	spinsLeft, err := h.rewardSvc.DailyCheckin(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "spinsLeft": spinsLeft})
}

// SpinPlay consumes one spin and returns the outcome.
// POST /api/tokens/spin/play
func (h *RewardsHandler) SpinPlay(c *gin.Context) {
	reward, winAmount, w, err := h.rewardSvc.SpinPlay(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"reward":    reward,
		"winAmount": winAmount,
		"wallet":    walletJSON(w, time.Now()),
	})
}

// EarnTokens credits tokens from a whitelisted source.
// POST /api/tokens/earn
func (h *RewardsHandler) EarnTokens(c *gin.Context) {
	var req struct {
		Source string `json:"source" binding:"required"`
		Amount int64  `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, h.log, h.metrics, "source and amount are required")
		return
	}
	w, err := h.rewardSvc.EarnTokens(c.Request.Context(), middleware.GetUserID(c), req.Source, req.Amount)
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "wallet": walletJSON(w, time.Now())})
}

// ReferralCode returns (creating if needed) the caller's immutable code.
// GET /api/rewards/referral-code
func (h *RewardsHandler) ReferralCode(c *gin.Context) {
	rc, err := h.referralSvc.Code(middleware.GetUserID(c))
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "code": rc.Code, "created_at": rc.CreatedAt})
}

// Referrals lists who the caller referred, plus whether the caller has
// already redeemed someone else's code.
// GET /api/rewards/referrals
func (h *RewardsHandler) Referrals(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.referralSvc.List(userID, limit, offset)
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	redeemed, err := h.referralSvc.Redeemed(userID)
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, ref := range list {
		out = append(out, gin.H{
			"referred_email": ref.ReferredUser.Email,
			"status":         ref.Status,
			"created_at":     ref.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"referrals":   out,
		"total":       len(out),
		"hasRedeemed": redeemed,
	})
}

// Redeem applies another user's referral code, once.
// POST /api/rewards/referrals/redeem
func (h *RewardsHandler) Redeem(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, h.log, h.metrics, "code is required")
		return
	}
	if err := h.referralSvc.Redeem(c.Request.Context(), middleware.GetUserID(c), req.Code); err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "referral bonus credited to both accounts"})
}
