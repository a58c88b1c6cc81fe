package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/echo-cqy/codeling/internal/models"
	"github.com/echo-cqy/codeling/pkg/logger"
	"github.com/echo-cqy/codeling/pkg/utils"
)

type SaveAttemptInput struct {
	QuestionID string               `json:"questionId" binding:"required"`
	Framework  models.Framework     `json:"framework" binding:"required"`
	Code       string               `json:"code" binding:"required"`
	Status     models.AttemptStatus `json:"status" binding:"required"`
	Name       string               `json:"name"`
}

// SaveAttempt appends a new snapshot to the history. The matching draft slot
// is overwritten so the editor reopens on what was just saved.
func SaveAttempt(c *gin.Context) {
	var input SaveAttemptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !input.Framework.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "framework must be \"react\" or \"vue\""})
		return
	}
	switch input.Status {
	case models.StatusPassed, models.StatusWorking, models.StatusHinted:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be \"passed\", \"working\" or \"hinted\""})
		return
	}
	if _, found := store.GetQuestion(input.QuestionID); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	attempt := models.Attempt{
		ID:         utils.NewID(),
		QuestionID: input.QuestionID,
		Framework:  input.Framework,
		Code:       input.Code,
		Timestamp:  time.Now().UnixMilli(),
		Status:     input.Status,
		Name:       input.Name,
	}

	if err := store.SaveAttempt(attempt); err != nil {
		logger.Error().Err(err).Msg("Failed to save attempt")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attempt"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"attempt": attempt, "stats": store.GetStats()})
}

// UpdateAttempt applies a partial edit (rename, star, status) to one history
// entry.
func UpdateAttempt(c *gin.Context) {
	var patch models.AttemptPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	updated, found, err := store.UpdateAttempt(c.Param("id"), patch)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to update attempt")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update attempt"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attempt not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempt": updated})
}

// DeleteAttempt removes one history entry and recomputes the counters.
func DeleteAttempt(c *gin.Context) {
	if err := store.DeleteAttempt(c.Param("id")); err != nil {
		logger.Error().Err(err).Msg("Failed to delete attempt")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete attempt"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attempt deleted", "stats": store.GetStats()})
}
