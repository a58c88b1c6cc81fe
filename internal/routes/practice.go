package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/echo-cqy/codeling/internal/handlers"
)

// RegisterPracticeRoutes sets up the attempt, draft and stats endpoints. All
// of them are local-first: no auth required, remote mirroring is handled
// behind the storage facade when a user is bound.
func RegisterPracticeRoutes(r gin.IRouter) {
	attempts := r.Group("/attempts")
	{
		attempts.POST("", handlers.SaveAttempt)
		attempts.PATCH("/:id", handlers.UpdateAttempt)
		attempts.DELETE("/:id", handlers.DeleteAttempt)
	}

	drafts := r.Group("/drafts")
	{
		drafts.PUT("/:questionId/:framework", handlers.SaveDraft)
		drafts.GET("/:questionId/:framework", handlers.GetDraft)
		drafts.DELETE("/:questionId/:framework", handlers.ClearDraft)
	}

	stats := r.Group("/stats")
	{
		stats.GET("", handlers.GetStats)
		stats.GET("/questions", handlers.GetQuestionStatsAll)
		stats.GET("/questions/:id", handlers.GetQuestionStats)
		stats.POST("/clear", handlers.ClearQuestionListStats)
		stats.POST("/reset", handlers.ResetQuestionListStats)
	}
}
