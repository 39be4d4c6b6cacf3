package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Rewards  RewardsConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	TxTimeout       time.Duration // bound on lock waits inside ledger transactions
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

type AdminConfig struct {
	APIKey string
}

// SpinSegment is one slice of the reward wheel. Tokens 0 means "try again".
type SpinSegment struct {
	Label  string `mapstructure:"label"`
	Tokens int64  `mapstructure:"tokens"`
	Weight int    `mapstructure:"weight"`
}

type RewardsConfig struct {
	DailyAdCap          int
	AdRewardCoins       int64
	ReferralBonusTokens int64
	CoinsPerUSD         int64
	MinWithdrawUSDCents int64
	MaxWithdrawUSDCents int64
	OTPTTL              time.Duration
	TokenEarnMax        int64
	MaxTicketsPerBuy    int64
	SpinSegments        []SpinSegment
}

// DefaultSpinSegments mirrors the production wheel: five slices, most of the
// weight on the losing slice.
func DefaultSpinSegments() []SpinSegment {
	return []SpinSegment{
		{Label: "50_tokens", Tokens: 50, Weight: 30},
		{Label: "100_tokens", Tokens: 100, Weight: 15},
		{Label: "250_tokens", Tokens: 250, Weight: 8},
		{Label: "500_tokens", Tokens: 500, Weight: 2},
		{Label: "try_again", Tokens: 0, Weight: 45},
	}
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")

	v.SetDefault("database.dsn", "earnrewardzz:earnrewardzz@tcp(localhost:3306)/earnrewardzz?charset=utf8mb4&parseTime=True&loc=UTC")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.tx_timeout", "5s")

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.expiry", "168h")
	v.SetDefault("jwt.issuer", "earnrewardzz")

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.pass", "")
	v.SetDefault("smtp.from", "EarnRewardzz <no-reply@earnrewardzz.app>")

	v.SetDefault("rewards.daily_ad_cap", 20)
	v.SetDefault("rewards.ad_reward_coins", 1)
	v.SetDefault("rewards.referral_bonus_tokens", 500)
	v.SetDefault("rewards.coins_per_usd", 500)
	v.SetDefault("rewards.min_withdraw_usd_cents", 100)
	v.SetDefault("rewards.max_withdraw_usd_cents", 100000)
	v.SetDefault("rewards.otp_ttl", "5m")
	v.SetDefault("rewards.token_earn_max", 500)
	v.SetDefault("rewards.max_tickets_per_buy", 1000)

	v.SetDefault("admin.api_key", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("server.port"),
			Env:          v.GetString("server.env"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Database: DatabaseConfig{
			DSN:             v.GetString("database.dsn"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			TxTimeout:       v.GetDuration("database.tx_timeout"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			Expiry: v.GetDuration("jwt.expiry"),
			Issuer: v.GetString("jwt.issuer"),
		},
		SMTP: SMTPConfig{
			Host: v.GetString("smtp.host"),
			Port: v.GetString("smtp.port"),
			User: v.GetString("smtp.user"),
			Pass: v.GetString("smtp.pass"),
			From: v.GetString("smtp.from"),
		},
		Rewards: RewardsConfig{
			DailyAdCap:          v.GetInt("rewards.daily_ad_cap"),
			AdRewardCoins:       v.GetInt64("rewards.ad_reward_coins"),
			ReferralBonusTokens: v.GetInt64("rewards.referral_bonus_tokens"),
			CoinsPerUSD:         v.GetInt64("rewards.coins_per_usd"),
			MinWithdrawUSDCents: v.GetInt64("rewards.min_withdraw_usd_cents"),
			MaxWithdrawUSDCents: v.GetInt64("rewards.max_withdraw_usd_cents"),
			OTPTTL:              v.GetDuration("rewards.otp_ttl"),
			TokenEarnMax:        v.GetInt64("rewards.token_earn_max"),
			MaxTicketsPerBuy:    v.GetInt64("rewards.max_tickets_per_buy"),
		},
		Admin: AdminConfig{
			APIKey: v.GetString("admin.api_key"),
		},
	}

	cfg.Rewards.SpinSegments = DefaultSpinSegments()
	if v.IsSet("rewards.spin_segments") {
		var segs []SpinSegment
		if err := v.UnmarshalKey("rewards.spin_segments", &segs); err != nil {
			return nil, fmt.Errorf("spin segments: %w", err)
		}
		cfg.Rewards.SpinSegments = segs
	}
	if err := ValidateSpinSegments(cfg.Rewards.SpinSegments); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateSpinSegments rejects tables the wheel cannot draw from.
func ValidateSpinSegments(segs []SpinSegment) error {
	if len(segs) == 0 {
		return fmt.Errorf("spin segments: empty table")
	}
	total := 0
	for _, s := range segs {
		if s.Weight < 0 || s.Tokens < 0 {
			return fmt.Errorf("spin segments: negative weight or tokens on %q", s.Label)
		}
		total += s.Weight
	}
	if total <= 0 {
		return fmt.Errorf("spin segments: total weight must be positive")
	}
	return nil
}
