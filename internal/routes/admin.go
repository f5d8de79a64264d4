package routes

import (
	"stakecontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes sets up all operational/admin routes
func SetupAdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	{
		admin.POST("/team-volumes/rebuild", handlers.RebuildTeamVolumes)
		admin.POST("/placement/regenerate", handlers.RegeneratePlacementTree)
		admin.POST("/placement/restore", handlers.RestorePlacementTree)

		admin.GET("/jobs/:name", handlers.GetJobStatus)
		admin.POST("/jobs/:name/run", handlers.TriggerJob)
		admin.DELETE("/jobs/:name", handlers.ResetJobRun)

		admin.GET("/params/:key", handlers.GetSystemParam)
		admin.POST("/params", handlers.UpsertSystemParam)

		admin.POST("/orders/:reference/requery", handlers.RequeryPaymentOrder)
		admin.POST("/queues/:name/purge", handlers.PurgeQueue)
	}
}
