package routes

import (
	"stakecontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupTeamRoutes sets up all routes related to binary team volumes
func SetupTeamRoutes(r *gin.Engine) {
	users := r.Group("/users")
	{
		users.GET("/:id/team-volume", handlers.GetTeamVolume)
		users.GET("/:id/cycles", handlers.ListTeamCycles)
	}
}
