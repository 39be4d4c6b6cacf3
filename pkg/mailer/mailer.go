package mailer

import (
	"fmt"
	"net/smtp"

	"earnrewardzz/config"
	"earnrewardzz/pkg/logger"
)

// Notifier delivers one-time codes out of band. The ledger core treats
// delivery as a side-effecting collaborator; failures surface to the caller
// so no credential row exists without an attempted send.
type Notifier interface {
	SendOTP(email, code string) error
}

// New returns an SMTP notifier when credentials are configured, otherwise a
// log-only notifier so development works without a mail account.
func New(cfg *config.SMTPConfig, log *logger.Logger) Notifier {
	if cfg.Host == "" || cfg.User == "" {
		log.Warn("[mailer] SMTP not configured, OTP codes will be logged instead of emailed")
		return &logNotifier{log: log}
	}
	return &smtpNotifier{cfg: cfg}
}

type smtpNotifier struct {
	cfg *config.SMTPConfig
}

func (m *smtpNotifier) SendOTP(email, code string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your OTP Code\r\n\r\nYour EarnRewardzz code is: %s. Valid for 5 minutes.\r\n",
		m.cfg.From, email, code)
	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, m.cfg.User, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}

type logNotifier struct {
	log *logger.Logger
}

func (m *logNotifier) SendOTP(email, code string) error {
	m.log.Infof("[mailer] OTP for %s: %s", email, code)
	return nil
}
