package handler

import (
	"net/http"
	"strconv"
	"time"

	"earnrewardzz/internal/domain"
	"earnrewardzz/internal/metrics"
	"earnrewardzz/internal/middleware"
	"earnrewardzz/internal/repository"
	"earnrewardzz/pkg/logger"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletRepo *repository.WalletRepository
	log        *logger.Logger
	metrics    *metrics.Metrics
}

func NewWalletHandler(walletRepo *repository.WalletRepository, log *logger.Logger, m *metrics.Metrics) *WalletHandler {
	return &WalletHandler{walletRepo: walletRepo, log: log, metrics: m}
}

// GetWallet returns both sub-ledgers for the current user.
// GET /api/wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, err := h.walletRepo.GetOrCreate(userID)
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, walletJSON(w, time.Now()))
}

// CoinHistory returns coin ledger entries newest-first.
// GET /api/coins/history?source=&limit=&offset=
func (h *WalletHandler) CoinHistory(c *gin.Context) {
	h.history(c, domain.CurrencyCoin)
}

// TokenHistory returns token ledger entries newest-first.
// GET /api/tokens/history?source=&limit=&offset=
func (h *WalletHandler) TokenHistory(c *gin.Context) {
	h.history(c, domain.CurrencyToken)
}

func (h *WalletHandler) history(c *gin.Context, currency string) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, err := h.walletRepo.History(userID, currency, c.Query("source"), limit, offset)
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": entries,
		"limit":   limit,
		"offset":  offset,
	})
}
