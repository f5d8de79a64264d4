package routes

import (
	"stakecontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupStakeRoutes sets up all routes related to stakes and rewards
func SetupStakeRoutes(r *gin.Engine) {
	stakes := r.Group("/stakes")
	{
		stakes.POST("", handlers.CreateStake)
		stakes.GET("/:id/rewards", handlers.ListStakeRewards)
		stakes.POST("/:id/claim", handlers.ClaimRewards)
	}

	users := r.Group("/users")
	{
		users.GET("/:id/stakes", handlers.ListStakes)
		users.GET("/:id/cap", handlers.GetCapStatus)
	}
}
