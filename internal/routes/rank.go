package routes

import (
	"stakecontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupRankRoutes sets up all routes related to ranks
func SetupRankRoutes(r *gin.Engine) {
	r.GET("/ranks", handlers.ListRankLadder)

	users := r.Group("/users")
	{
		users.GET("/:id/rank", handlers.GetUserRank)
		users.GET("/:id/rank-progress", handlers.GetRankProgress)
		users.POST("/:id/rank/promote", handlers.PromoteUserRank)
	}
}
