package routes

import (
	"stakecontrol/internal/handlers"
	"stakecontrol/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupWalletRoutes sets up all routes related to wallets and payments
func SetupWalletRoutes(r *gin.Engine) {
	users := r.Group("/users")
	{
		users.GET("/:id/wallet", handlers.GetWalletBalance)
		users.GET("/:id/transactions", handlers.ListWalletTransactions)
	}

	payments := r.Group("/payments")
	{
		payments.POST("/deposit", handlers.CreateDeposit)
		payments.POST("/withdraw", handlers.CreateWithdraw)
	}

	// 网关回调是外部入口，单独限流
	callback := r.Group("/payments/callback")
	callback.Use(middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 10,
		Burst:             20,
	}))
	{
		callback.POST("", handlers.PaymentCallback)
	}
}
