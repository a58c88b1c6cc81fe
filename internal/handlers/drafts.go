package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/echo-cqy/codeling/internal/models"
	"github.com/echo-cqy/codeling/pkg/logger"
)

func draftParams(c *gin.Context) (string, models.Framework, bool) {
	questionID := c.Param("questionId")
	fw := models.Framework(c.Param("framework"))
	if questionID == "" || !fw.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "framework must be \"react\" or \"vue\""})
		return "", "", false
	}
	return questionID, fw, true
}

type SaveDraftInput struct {
	Code string `json:"code"`
}

// SaveDraft writes the single draft slot for one question+framework. The
// default path is the debounced autosave; ?flush=1 persists immediately.
func SaveDraft(c *gin.Context) {
	questionID, fw, ok := draftParams(c)
	if !ok {
		return
	}

	var input SaveDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if c.Query("flush") == "1" {
		if err := store.SaveDraft(questionID, fw, input.Code); err != nil {
			logger.Error().Err(err).Msg("Failed to save draft")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save draft"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"saved": true})
		return
	}

	store.AutosaveDraft(questionID, fw, input.Code)
	c.JSON(http.StatusAccepted, gin.H{"scheduled": true})
}

// GetDraft reads the draft slot; code is null when none exists.
func GetDraft(c *gin.Context) {
	questionID, fw, ok := draftParams(c)
	if !ok {
		return
	}

	code, found := store.GetDraft(questionID, fw)
	if !found {
		c.JSON(http.StatusOK, gin.H{"code": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code})
}

// ClearDraft deletes the draft slot.
func ClearDraft(c *gin.Context) {
	questionID, fw, ok := draftParams(c)
	if !ok {
		return
	}

	if err := store.ClearDraft(questionID, fw); err != nil {
		logger.Error().Err(err).Msg("Failed to clear draft")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draft cleared"})
}
