package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"earnrewardzz/config"
	"earnrewardzz/internal/auth"
	"earnrewardzz/internal/domain"
	"earnrewardzz/internal/metrics"
	"earnrewardzz/internal/models"
	"earnrewardzz/internal/repository"
	"earnrewardzz/pkg/logger"
	"earnrewardzz/pkg/mailer"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService owns the passwordless OTP flow: request a code, verify it,
// provision the account on signup, and mint the session token.
type AuthService struct {
	cfg         *config.Config
	userRepo    *repository.UserRepository
	otpRepo     *repository.OTPRepository
	walletRepo  *repository.WalletRepository
	referralSvc *ReferralService
	notifier    mailer.Notifier
	log         *logger.Logger
	metrics     *metrics.Metrics
}

func NewAuthService(
	cfg *config.Config,
	userRepo *repository.UserRepository,
	otpRepo *repository.OTPRepository,
	walletRepo *repository.WalletRepository,
	referralSvc *ReferralService,
	notifier mailer.Notifier,
	log *logger.Logger,
	m *metrics.Metrics,
) *AuthService {
	return &AuthService{
		cfg:         cfg,
		userRepo:    userRepo,
		otpRepo:     otpRepo,
		walletRepo:  walletRepo,
		referralSvc: referralSvc,
		notifier:    notifier,
		log:         log,
		metrics:     m,
	}
}

// generateOTP returns a 6-digit numeric code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// RequestOTP stores a hashed 6-digit code with a short expiry, replacing any
// prior code for the email, and sends it out of band.
func (s *AuthService) RequestOTP(email, phoneNumber string, isSignup bool) error {
	if email == "" {
		return domain.E(domain.KindValidation, "email is required")
	}
	if isSignup {
		if phoneNumber == "" {
			return domain.E(domain.KindValidation, "phone number is required for signup")
		}
		if _, err := s.userRepo.GetByEmail(email); err == nil {
			return domain.E(domain.KindValidation, "account already exists, login instead")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	cred := &models.OTPCredential{
		Email:       email,
		OTPHash:     string(hash),
		Expiry:      time.Now().Add(s.cfg.Rewards.OTPTTL).UnixMilli(),
		PhoneNumber: phoneNumber,
		IsSignup:    isSignup,
	}
	if err := s.otpRepo.Upsert(cred); err != nil {
		return err
	}
	if err := s.notifier.SendOTP(email, code); err != nil {
		s.metrics.OTPRequests.WithLabelValues("send_failed").Inc()
		return err
	}
	s.metrics.OTPRequests.WithLabelValues("sent").Inc()
	return nil
}

// VerifyOTP consumes the credential exactly once. The hash is only deleted on
// success or observed expiry; a mismatch keeps it so the user can retry
// within the window.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code, referralCode string) (*models.User, *models.Wallet, string, error) {
	if email == "" || code == "" {
		return nil, nil, "", domain.E(domain.KindValidation, "email and otp are required")
	}
	cred, err := s.otpRepo.GetByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, "", domain.E(domain.KindNotFound, "no code requested for this email")
	}
	if err != nil {
		return nil, nil, "", err
	}
	if cred.ExpiredAt(time.Now()) {
		_ = s.otpRepo.Delete(email)
		return nil, nil, "", domain.E(domain.KindExpired, "code expired, request a new one")
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.OTPHash), []byte(code)) != nil {
		s.metrics.OTPRequests.WithLabelValues("mismatch").Inc()
		return nil, nil, "", domain.E(domain.KindInvalidCredential, "invalid code")
	}
	if err := s.otpRepo.Delete(email); err != nil {
		return nil, nil, "", err
	}

	user, err := s.resolveAccount(email, cred)
	if err != nil {
		return nil, nil, "", err
	}

	if referralCode != "" {
		// Redemption is best-effort here; a bad code must not block login.
		if rerr := s.referralSvc.Redeem(ctx, user.ID, referralCode); rerr != nil {
			s.log.Warnf("[auth] referral redeem for user %d failed: %v", user.ID, rerr)
		}
	}

	wallet, err := s.walletRepo.GetOrCreate(user.ID)
	if err != nil {
		return nil, nil, "", err
	}
	token, err := auth.GenerateToken(&s.cfg.JWT, user.ID, user.Email)
	if err != nil {
		return nil, nil, "", err
	}
	s.metrics.OTPRequests.WithLabelValues("verified").Inc()
	return user, wallet, token, nil
}

func (s *AuthService) resolveAccount(email string, cred *models.OTPCredential) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if !cred.IsSignup {
		return nil, domain.E(domain.KindNotFound, "no account for this email, sign up first")
	}
	// Phone is locked at creation and never changes afterwards.
	user = &models.User{
		Email:       email,
		PhoneNumber: cred.PhoneNumber,
		PhoneLocked: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
