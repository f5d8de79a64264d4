package routes

import (
	"stakecontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupUserRoutes sets up all routes related to users and genealogy
func SetupUserRoutes(r *gin.Engine) {
	users := r.Group("/users")
	{
		users.POST("", handlers.RegisterUser)
		users.GET("/:id", handlers.GetUser)
		users.POST("/:id/verify", handlers.VerifyUser)
		users.POST("/:id/deactivate", handlers.DeactivateUser)
		users.GET("/:id/genealogy", handlers.GetGenealogy)
		users.GET("/:id/sponsor-chain", handlers.GetSponsorChain)
	}
}
