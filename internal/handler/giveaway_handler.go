package handler

import (
	"net/http"
	"strconv"
	"time"

	"earnrewardzz/internal/metrics"
	"earnrewardzz/internal/middleware"
	"earnrewardzz/internal/models"
	"earnrewardzz/internal/service"
	"earnrewardzz/pkg/logger"

	"github.com/gin-gonic/gin"
)

type GiveawayHandler struct {
	giveawaySvc *service.GiveawayService
	log         *logger.Logger
	metrics     *metrics.Metrics
}

func NewGiveawayHandler(giveawaySvc *service.GiveawayService, log *logger.Logger, m *metrics.Metrics) *GiveawayHandler {
	return &GiveawayHandler{giveawaySvc: giveawaySvc, log: log, metrics: m}
}

// Active lists open giveaways with the caller's ticket counts.
// GET /api/giveaway/active
func (h *GiveawayHandler) Active(c *gin.Context) {
	list, err := h.giveawaySvc.Active(middleware.GetUserID(c))
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "giveaways": list})
}

// Buy spends tokens on tickets for an open giveaway.
// POST /api/giveaway/buy-ticket
func (h *GiveawayHandler) Buy(c *gin.Context) {
	var req struct {
		GiveawayID  uint  `json:"giveawayId" binding:"required"`
		TicketCount int64 `json:"ticketCount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, h.log, h.metrics, "giveawayId is required")
		return
	}
	if req.TicketCount == 0 {
		req.TicketCount = 1
	}
	tickets, wallet, err := h.giveawaySvc.BuyTicket(c.Request.Context(), middleware.GetUserID(c), req.GiveawayID, req.TicketCount)
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tickets": tickets,
		"wallet":  walletJSON(wallet, time.Now()),
	})
}

// MyTickets lists every giveaway the caller holds tickets in.
// GET /api/giveaway/my-tickets
func (h *GiveawayHandler) MyTickets(c *gin.Context) {
	list, err := h.giveawaySvc.MyTickets(middleware.GetUserID(c))
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tickets": list})
}

// Winners lists recently drawn giveaways.
// GET /api/giveaway/winners
func (h *GiveawayHandler) Winners(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	list, err := h.giveawaySvc.Winners(limit)
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "winners": list})
}

// AdminCreate opens a new giveaway.
// POST /api/admin/giveaways
func (h *GiveawayHandler) AdminCreate(c *gin.Context) {
	var req struct {
		Title           string     `json:"title" binding:"required"`
		Prize           string     `json:"prize"`
		TicketTokenCost int64      `json:"ticketTokenCost" binding:"required"`
		EndsAt          *time.Time `json:"endsAt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, h.log, h.metrics, "title and ticketTokenCost are required")
		return
	}
	g := &models.Giveaway{
		Title:           req.Title,
		Prize:           req.Prize,
		TicketTokenCost: req.TicketTokenCost,
		EndsAt:          req.EndsAt,
	}
	if err := h.giveawaySvc.Create(g); err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "giveaway": g})
}

// AdminDraw picks a ticket-weighted winner and finalizes the giveaway.
// POST /api/admin/giveaways/:id/draw
func (h *GiveawayHandler) AdminDraw(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		failValidation(c, h.log, h.metrics, "invalid giveaway id")
		return
	}
	g, err := h.giveawaySvc.Draw(uint(id))
	if err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "giveaway": g})
}

// AdminClose stops ticket sales for a giveaway.
// POST /api/admin/giveaways/:id/close
func (h *GiveawayHandler) AdminClose(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		failValidation(c, h.log, h.metrics, "invalid giveaway id")
		return
	}
	if err := h.giveawaySvc.Close(uint(id)); err != nil {
		fail(c, h.log, h.metrics, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
