package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/echo-cqy/codeling/internal/handlers"
	"github.com/echo-cqy/codeling/internal/middleware"
)

func RegisterSettingsRoutes(r gin.IRouter) {
	settings := r.Group("/settings")
	{
		settings.GET("/language", handlers.GetLanguage)
		settings.PUT("/language", handlers.SetLanguage)
		settings.PUT("/profile", handlers.SaveProfile)
		settings.PUT("/ai-config", handlers.SaveAIConfig)
		settings.POST("/ai-config/test", middleware.AIRateLimit(), handlers.TestAIConfig)
		settings.GET("/hidden-questions", handlers.GetHiddenQuestions)
		settings.PUT("/hidden-questions", handlers.SaveHiddenQuestions)
		settings.POST("/clear-all", handlers.ClearAllData)
	}

	ai := r.Group("/ai")
	ai.Use(middleware.AIRateLimit())
	{
		ai.POST("/generate", handlers.GenerateQuestion)
		ai.POST("/hint", handlers.GetHint)
	}
}
