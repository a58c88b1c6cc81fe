package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/echo-cqy/codeling/pkg/logger"
)

// GetStats returns the merged user stats: counters, streak, history, profile
// and AI config with defaults filled in.
func GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stats": store.GetStats()})
}

// GetQuestionStatsAll returns per-question derived stats for every question
// with history.
func GetQuestionStatsAll(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questionStats": store.GetQuestionStatsAll()})
}

// GetQuestionStats derives stats for one question.
func GetQuestionStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questionStats": store.GetQuestionStats(c.Param("id"))})
}

type QuestionListInput struct {
	QuestionIDs []string `json:"questionIds" binding:"required"`
}

// ClearQuestionListStats removes the history entries for the listed questions
// and recomputes the counters. Drafts are untouched.
func ClearQuestionListStats(c *gin.Context) {
	var input QuestionListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := store.ClearQuestionListStats(input.QuestionIDs); err != nil {
		logger.Error().Err(err).Msg("Failed to clear question stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear question stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": store.GetStats()})
}

// ResetQuestionListStats clears history and drafts for the listed questions.
func ResetQuestionListStats(c *gin.Context) {
	var input QuestionListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := store.ResetQuestionListStats(input.QuestionIDs); err != nil {
		logger.Error().Err(err).Msg("Failed to reset question stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset question stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": store.GetStats()})
}
