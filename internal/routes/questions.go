package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/echo-cqy/codeling/internal/handlers"
)

func RegisterQuestionRoutes(r gin.IRouter) {
	questions := r.Group("/questions")
	{
		questions.GET("", handlers.ListQuestions)
		questions.POST("", handlers.CreateQuestion)
		questions.POST("/import", handlers.ImportQuestions)
		questions.GET("/:id/export", handlers.ExportQuestion)
		questions.PATCH("/:id/content", handlers.UpdateQuestionContent)
		questions.POST("/:id/star", handlers.ToggleQuestionStar)
		questions.DELETE("/:id", handlers.DeleteQuestion)
		questions.GET("/:id/history", handlers.GetQuestionHistory)
		questions.GET("/:id/latest", handlers.GetLatestCode)
	}
}
