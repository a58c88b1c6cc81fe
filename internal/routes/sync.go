package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/echo-cqy/codeling/internal/handlers"
	"github.com/echo-cqy/codeling/internal/middleware"
)

func RegisterSyncRoutes(r gin.IRouter) {
	sync := r.Group("/sync")
	{
		sync.GET("/status", handlers.SyncStatus)
		sync.POST("/unbind", handlers.UnbindRemote)

		protected := sync.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/bind", handlers.BindRemote)
			protected.POST("/pull", handlers.PullRemote)
			protected.POST("/migrate", handlers.Migrate)
			protected.POST("/skip", handlers.SkipMigration)
		}
	}
}
