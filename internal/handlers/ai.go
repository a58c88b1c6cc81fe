package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/echo-cqy/codeling/internal/models"
	"github.com/echo-cqy/codeling/internal/services"
	"github.com/echo-cqy/codeling/pkg/logger"
)

type GenerateQuestionInput struct {
	Topic string `json:"topic" binding:"required"`
}

// GenerateQuestion asks the configured AI provider for a new question about
// the topic and adds it to the catalog.
func GenerateQuestion(c *gin.Context) {
	var input GenerateQuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats := store.GetStats()
	q, err := services.GenerateQuestion(c.Request.Context(), stats.AIConfig, input.Topic, store.GetLanguage())
	if err != nil {
		logger.Warn().Err(err).Str("topic", input.Topic).Msg("AI question generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if err := store.AddQuestion(q); err != nil {
		logger.Error().Err(err).Msg("Failed to save generated question")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save generated question"})
		return
	}

	invalidateQuestionsCache()
	c.JSON(http.StatusCreated, gin.H{"question": q})
}

type HintInput struct {
	QuestionID string           `json:"questionId" binding:"required"`
	Framework  models.Framework `json:"framework" binding:"required"`
	Code       string           `json:"code"`
}

// GetHint asks the provider for a short hint on the user's current code.
func GetHint(c *gin.Context) {
	var input HintInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.Framework.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "framework must be \"react\" or \"vue\""})
		return
	}

	q, found := store.GetQuestion(input.QuestionID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	stats := store.GetStats()
	hint, err := services.GetHint(c.Request.Context(), stats.AIConfig, q.Description, input.Code, store.GetLanguage())
	if err != nil {
		logger.Warn().Err(err).Str("question_id", input.QuestionID).Msg("AI hint failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"hint": hint})
}
