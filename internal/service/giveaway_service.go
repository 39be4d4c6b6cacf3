package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"earnrewardzz/config"
	"earnrewardzz/internal/domain"
	"earnrewardzz/internal/metrics"
	"earnrewardzz/internal/models"
	"earnrewardzz/internal/repository"
	"earnrewardzz/pkg/logger"

	"gorm.io/gorm"
)

type GiveawayService struct {
	cfg          *config.RewardsConfig
	giveawayRepo *repository.GiveawayRepository
	walletRepo   *repository.WalletRepository
	log          *logger.Logger
	metrics      *metrics.Metrics
}

func NewGiveawayService(cfg *config.RewardsConfig, giveawayRepo *repository.GiveawayRepository, walletRepo *repository.WalletRepository, log *logger.Logger, m *metrics.Metrics) *GiveawayService {
	return &GiveawayService{cfg: cfg, giveawayRepo: giveawayRepo, walletRepo: walletRepo, log: log, metrics: m}
}

// ActiveGiveaway is a giveaway plus the caller's ticket count for it.
type ActiveGiveaway struct {
	models.Giveaway
	UserTickets int64 `json:"user_tickets"`
}

func (s *GiveawayService) Active(userID uint) ([]ActiveGiveaway, error) {
	list, err := s.giveawayRepo.ListActive()
	if err != nil {
		return nil, err
	}
	out := make([]ActiveGiveaway, 0, len(list))
	for _, g := range list {
		count, err := s.giveawayRepo.TicketCount(userID, g.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ActiveGiveaway{Giveaway: g, UserTickets: count})
	}
	return out, nil
}

// BuyTicket debits tokens and increments the ticket count atomically. The
// count is bounded so the cost multiplication cannot wrap int64.
func (s *GiveawayService) BuyTicket(ctx context.Context, userID, giveawayID uint, count int64) (int64, *models.Wallet, error) {
	if count <= 0 {
		return 0, nil, domain.E(domain.KindValidation, "ticket count must be positive")
	}
	if count > s.cfg.MaxTicketsPerBuy {
		return 0, nil, domain.E(domain.KindValidation,
			fmt.Sprintf("at most %d tickets per purchase", s.cfg.MaxTicketsPerBuy))
	}
	g, err := s.giveawayRepo.GetByID(giveawayID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil, domain.E(domain.KindNotFound, "giveaway not found")
	}
	if err != nil {
		return 0, nil, err
	}
	if !g.Open(time.Now()) {
		return 0, nil, domain.E(domain.KindGiveawayClosed, "giveaway is closed")
	}
	if g.TicketTokenCost > math.MaxInt64/count {
		return 0, nil, domain.E(domain.KindValidation, "ticket cost too large")
	}
	cost := count * g.TicketTokenCost
	var wallet *models.Wallet
	err = s.walletRepo.WithWallet(ctx, userID, func(tx *gorm.DB, w *models.Wallet) error {
		if err := repository.ApplyDebit(w, domain.CurrencyToken, cost); err != nil {
			return err
		}
		if err := tx.Save(w).Error; err != nil {
			return err
		}
		if err := s.giveawayRepo.AddTicketsTx(tx, userID, giveawayID, count, g.TicketTokenCost); err != nil {
			return err
		}
		wallet = w
		return repository.AppendEntry(tx, userID, domain.CurrencyToken, -cost,
			domain.SourceTicketPurchase, domain.EntryStatusCompleted, fmt.Sprintf("giveaway_%d", giveawayID))
	})
	if err != nil {
		return 0, nil, err
	}
	tickets, err := s.giveawayRepo.TicketCount(userID, giveawayID)
	if err != nil {
		return 0, nil, err
	}
	s.metrics.TicketPurchases.Inc()
	return tickets, wallet, nil
}

func (s *GiveawayService) MyTickets(userID uint) ([]models.GiveawayTicket, error) {
	return s.giveawayRepo.TicketsByUser(userID)
}

func (s *GiveawayService) Winners(limit int) ([]models.Giveaway, error) {
	return s.giveawayRepo.ListWinners(limit)
}

func (s *GiveawayService) Create(g *models.Giveaway) error {
	if g.Title == "" || g.TicketTokenCost <= 0 {
		return domain.E(domain.KindValidation, "title and positive ticket cost are required")
	}
	g.Status = domain.GiveawayStatusActive
	return s.giveawayRepo.Create(g)
}

// Draw picks a winner with probability proportional to tickets held and
// finalizes the giveaway. A drawn giveaway cannot be drawn again.
func (s *GiveawayService) Draw(id uint) (*models.Giveaway, error) {
	g, err := s.giveawayRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.E(domain.KindNotFound, "giveaway not found")
	}
	if err != nil {
		return nil, err
	}
	if g.Status == domain.GiveawayStatusDrawn {
		return nil, domain.E(domain.KindValidation, "giveaway already drawn")
	}
	tickets, err := s.giveawayRepo.TicketsByGiveaway(id)
	if err != nil {
		return nil, err
	}
	winnerID, err := pickWinner(tickets)
	if err != nil {
		return nil, err
	}
	if err := s.giveawayRepo.SetWinner(id, winnerID); err != nil {
		return nil, err
	}
	s.log.Infof("[giveaway] %d drawn, winner user %d", id, winnerID)
	return s.giveawayRepo.GetByID(id)
}

// pickWinner rolls once over the total ticket count so each ticket has equal
// odds regardless of how purchases were batched.
func pickWinner(tickets []models.GiveawayTicket) (uint, error) {
	var total int64
	for _, t := range tickets {
		total += t.TicketsPurchased
	}
	if total <= 0 {
		return 0, domain.E(domain.KindValidation, "no tickets sold")
	}
	n, err := rand.Int(rand.Reader, big.NewInt(total))
	if err != nil {
		return 0, err
	}
	roll := n.Int64()
	for _, t := range tickets {
		if roll < t.TicketsPurchased {
			return t.UserID, nil
		}
		roll -= t.TicketsPurchased
	}
	return tickets[len(tickets)-1].UserID, nil
}

func (s *GiveawayService) Close(id uint) error {
	if _, err := s.giveawayRepo.GetByID(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.E(domain.KindNotFound, "giveaway not found")
	} else if err != nil {
		return err
	}
	return s.giveawayRepo.UpdateStatus(id, domain.GiveawayStatusClosed)
}
