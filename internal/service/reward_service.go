package service

import (
	"context"
	"crypto/rand"
	"fmt"
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

// RewardService is the gatekeeper between earn events and the ledger. Every
// policy check (ad cap, once-per-day claim, spin count) runs under the wallet
// row lock so concurrent requests cannot double-issue.
type RewardService struct {
	cfg        *config.RewardsConfig
	walletRepo *repository.WalletRepository
	log        *logger.Logger
	metrics    *metrics.Metrics
}

func NewRewardService(cfg *config.RewardsConfig, walletRepo *repository.WalletRepository, log *logger.Logger, m *metrics.Metrics) *RewardService {
	return &RewardService{cfg: cfg, walletRepo: walletRepo, log: log, metrics: m}
}

// nextUTCMidnight is when daily counters roll over, for rate-limit responses.
func nextUTCMidnight(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}

// EarnAd credits the ad reward if the completion signal is genuine and the
// daily cap has room. The count check and the credit are one locked unit.
func (s *RewardService) EarnAd(ctx context.Context, userID uint, event, placementID string) (*models.Wallet, error) {
	if event != domain.AdEventCompleted {
		return nil, domain.E(domain.KindValidation, "ad was not completed")
	}
	var out *models.Wallet
	err := s.walletRepo.WithWallet(ctx, userID, func(tx *gorm.DB, w *models.Wallet) error {
		now := time.Now()
		w.RolloverAdDay(domain.UTCDay(now))
		if w.AdsWatchedToday >= s.cfg.DailyAdCap {
			return domain.E(domain.KindDailyLimit, "daily ad limit reached").
				With("resets_at", nextUTCMidnight(now))
		}
		w.AdsWatchedToday++
		if err := repository.ApplyCredit(w, domain.CurrencyCoin, s.cfg.AdRewardCoins); err != nil {
			return err
		}
		if err := tx.Save(w).Error; err != nil {
			return err
		}
		if err := repository.AppendEntry(tx, userID, domain.CurrencyCoin, s.cfg.AdRewardCoins,
			domain.SourceAdReward, domain.EntryStatusCompleted, placementID); err != nil {
			return err
		}
		out = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RewardsIssued.WithLabelValues(domain.SourceAdReward, domain.CurrencyCoin).Inc()
	return out, nil
}

// DailyCheckin grants one spin, at most once per UTC day. The claim is
// idempotent in the failure direction: a second call changes nothing.
func (s *RewardService) DailyCheckin(ctx context.Context, userID uint) (int, error) {
	var spinsLeft int
	err := s.walletRepo.WithWallet(ctx, userID, func(tx *gorm.DB, w *models.Wallet) error {
		now := time.Now()
		today := domain.UTCDay(now)
		if w.CheckinClaimed(today) {
			return domain.E(domain.KindAlreadyClaimed, "daily bonus already claimed").
				With("resets_at", nextUTCMidnight(now))
		}
		w.LastCheckinDay = today
		w.SpinsLeft++
		if err := tx.Save(w).Error; err != nil {
			return err
		}
		spinsLeft = w.SpinsLeft
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.metrics.RewardsIssued.WithLabelValues(domain.SourceDailyBonus, "spin").Inc()
	return spinsLeft, nil
}

// SpinPlay consumes one spin and settles its outcome in the same
// transaction: either both happen or neither does.
func (s *RewardService) SpinPlay(ctx context.Context, userID uint) (string, int64, *models.Wallet, error) {
	seg, err := s.draw()
	if err != nil {
		return "", 0, nil, err
	}
	var out *models.Wallet
	err = s.walletRepo.WithWallet(ctx, userID, func(tx *gorm.DB, w *models.Wallet) error {
		if w.SpinsLeft <= 0 {
			return domain.E(domain.KindNoSpins, "no spins available")
		}
		w.SpinsLeft--
		if seg.Tokens > 0 {
			if err := repository.ApplyCredit(w, domain.CurrencyToken, seg.Tokens); err != nil {
				return err
			}
		}
		if err := tx.Save(w).Error; err != nil {
			return err
		}
		// A zero-delta entry records losing spins so every consumed spin has
		// an auditable outcome.
		if err := repository.AppendEntry(tx, userID, domain.CurrencyToken, seg.Tokens,
			domain.SourceSpin, domain.EntryStatusCompleted, seg.Label); err != nil {
			return err
		}
		out = w
		return nil
	})
	if err != nil {
		return "", 0, nil, err
	}
	s.metrics.Spins.WithLabelValues(seg.Label).Inc()
	if seg.Tokens > 0 {
		s.metrics.RewardsIssued.WithLabelValues(domain.SourceSpin, domain.CurrencyToken).Inc()
	}
	return seg.Label, seg.Tokens, out, nil
}

// EarnTokens is the generic token credit path for whitelisted sources.
func (s *RewardService) EarnTokens(ctx context.Context, userID uint, source string, amount int64) (*models.Wallet, error) {
	if !domain.EarnableTokenSources[source] {
		return nil, domain.E(domain.KindValidation, fmt.Sprintf("source %q cannot earn tokens", source))
	}
	if amount <= 0 || amount > s.cfg.TokenEarnMax {
		return nil, domain.E(domain.KindValidation, "invalid token amount")
	}
	w, err := s.walletRepo.Credit(ctx, userID, domain.CurrencyToken, amount, source, "")
	if err != nil {
		return nil, err
	}
	s.metrics.RewardsIssued.WithLabelValues(source, domain.CurrencyToken).Inc()
	return w, nil
}

// draw picks a segment from the configured wheel.
func (s *RewardService) draw() (config.SpinSegment, error) {
	total := 0
	for _, seg := range s.cfg.SpinSegments {
		total += seg.Weight
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(total)))
	if err != nil {
		return config.SpinSegment{}, err
	}
	return pickSegment(s.cfg.SpinSegments, int(n.Int64())), nil
}

// pickSegment maps a roll in [0, total weight) onto the weighted table.
func pickSegment(segs []config.SpinSegment, roll int) config.SpinSegment {
	for _, seg := range segs {
		if roll < seg.Weight {
			return seg
		}
		roll -= seg.Weight
	}
	return segs[len(segs)-1]
}
