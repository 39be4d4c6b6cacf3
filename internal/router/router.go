package router

import (
	"net/http"
	"time"

	"earnrewardzz/config"
	"earnrewardzz/internal/handler"
	"earnrewardzz/internal/metrics"
	"earnrewardzz/internal/middleware"
	"earnrewardzz/internal/repository"
	"earnrewardzz/internal/service"
	"earnrewardzz/pkg/logger"
	"earnrewardzz/pkg/mailer"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, log *logger.Logger, m *metrics.Metrics, notifier mailer.Notifier) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))
	// Separate per-account budget; keyed by email because it runs after authMw.
	userRate := middleware.RateLimit(middleware.NewInMemoryRateLimiter(60, 60*time.Second))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOTPRepository(db)
	walletRepo := repository.NewWalletRepository(db, cfg.Database.TxTimeout)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	giveawayRepo := repository.NewGiveawayRepository(db)

	// Services
	referralSvc := service.NewReferralService(&cfg.Rewards, referralRepo, walletRepo, log, m)
	authSvc := service.NewAuthService(cfg, userRepo, otpRepo, walletRepo, referralSvc, notifier, log, m)
	rewardSvc := service.NewRewardService(&cfg.Rewards, walletRepo, log, m)
	withdrawalSvc := service.NewWithdrawalService(&cfg.Rewards, userRepo, walletRepo, withdrawalRepo, log, m)
	giveawaySvc := service.NewGiveawayService(&cfg.Rewards, giveawayRepo, walletRepo, log, m)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userRepo, walletRepo, log, m)
	walletHandler := handler.NewWalletHandler(walletRepo, log, m)
	rewardsHandler := handler.NewRewardsHandler(rewardSvc, referralSvc, log, m)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalSvc, log, m)
	giveawayHandler := handler.NewGiveawayHandler(giveawaySvc, log, m)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.AdminRequired(&cfg.Admin)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/otp/request", authHandler.RequestOTP)
			authGroup.POST("/otp/verify", authHandler.VerifyOTP)
			authGroup.GET("/me", authMw, userRate, authHandler.Me)
		}

		api.GET("/wallet", authMw, userRate, walletHandler.GetWallet)

		coins := api.Group("/coins")
		coins.Use(authMw, userRate)
		{
			coins.GET("/history", walletHandler.CoinHistory)
			coins.POST("/earn/ad", rewardsHandler.EarnAd)
			coins.POST("/withdraw", withdrawalHandler.Create)
			coins.GET("/withdrawals", withdrawalHandler.List)
			coins.POST("/gift", withdrawalHandler.Gift)
		}

		tokens := api.Group("/tokens")
		tokens.Use(authMw, userRate)
		{
			tokens.GET("/history", walletHandler.TokenHistory)
			tokens.POST("/earn", rewardsHandler.EarnTokens)
			tokens.POST("/spin/play", rewardsHandler.SpinPlay)
		}

		rewards := api.Group("/rewards")
		rewards.Use(authMw, userRate)
		{
			rewards.POST("/daily-checkin", rewardsHandler.DailyCheckin)
			rewards.GET("/referral-code", rewardsHandler.ReferralCode)
			rewards.GET("/referrals", rewardsHandler.Referrals)
			rewards.POST("/referrals/redeem", rewardsHandler.Redeem)
		}

		giveaway := api.Group("/giveaway")
		giveaway.Use(authMw, userRate)
		{
			giveaway.GET("/active", giveawayHandler.Active)
			giveaway.GET("/my-tickets", giveawayHandler.MyTickets)
			giveaway.GET("/winners", giveawayHandler.Winners)
			giveaway.POST("/buy-ticket", giveawayHandler.Buy)
		}

		admin := api.Group("/admin")
		admin.Use(adminMw)
		{
			admin.GET("/withdrawals", withdrawalHandler.AdminList)
			admin.POST("/withdrawals/:id/paid", withdrawalHandler.AdminMarkPaid)
			admin.POST("/giveaways", giveawayHandler.AdminCreate)
			admin.POST("/giveaways/:id/close", giveawayHandler.AdminClose)
			admin.POST("/giveaways/:id/draw", giveawayHandler.AdminDraw)
		}
	}

	return r
}
