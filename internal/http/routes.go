package http

import (
	"time"

	"invest_platform/internal/config"
	"invest_platform/internal/http/handlers"
	"invest_platform/internal/http/middleware"
	"invest_platform/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, hub *ws.Hub, cfg *config.Config, version string) {
	h := handlers.NewHandler(db, hub)
	healthHandler := handlers.NewHealthHandler(db, version)

	apiRateWindow := time.Duration(cfg.APIRateWindow) * time.Second
	authRateWindow := time.Duration(cfg.AuthRateWindow) * time.Second

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// WebSocket event stream, authenticated by token in the query string
	r.GET("/ws", h.WS)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiRateWindow))

	// Auth, with a tighter limit against credential stuffing
	authRL := middleware.RedisRateLimit(cfg.AuthRateLimit, authRateWindow)
	v1.POST("/auth/register", authRL, h.Register)
	v1.POST("/auth/login", authRL, h.Login)

	// Authenticated user surface
	me := v1.Group("")
	me.Use(middleware.JWT())
	{
		me.GET("/me", h.Me)
		me.GET("/me/balance", h.Balance)

		// spend operations get a per-user limiter on top of the per-IP one
		spendRL := middleware.UserRateLimit(cfg.AuthRateLimit, authRateWindow)
		me.POST("/deposits", spendRL, h.CreateDeposit)
		me.GET("/deposits", h.MyDeposits)
		me.POST("/reinvestments", spendRL, h.CreateReinvestment)
		me.GET("/reinvestments", h.MyReinvestments)
		me.POST("/withdrawals", spendRL, h.RequestWithdrawal)
		me.GET("/withdrawals", h.MyWithdrawals)

		me.GET("/referrals/stats", h.ReferralStats)
		me.GET("/referrals/earnings", h.MyReferralEarnings)
	}

	// Admin surface
	admin := v1.Group("/admin")
	admin.Use(middleware.JWT(), middleware.RequireAdmin(h.AuthService))
	{
		admin.GET("/stats", h.AdminStats)
		admin.GET("/users", h.AdminUsers)
		admin.GET("/deposits", h.AdminDeposits)
		admin.POST("/deposits/:id/review", h.AdminReviewDeposit)
		admin.GET("/withdrawals", h.AdminWithdrawals)
		admin.POST("/withdrawals/:id/review", h.AdminReviewWithdrawal)
		admin.GET("/settings", h.AdminSettings)
		admin.PUT("/settings", h.AdminUpdateSetting)
		admin.GET("/audit", h.AdminAuditLogs)
	}
}
