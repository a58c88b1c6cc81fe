package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/echo-cqy/codeling/internal/models"
	"github.com/echo-cqy/codeling/internal/services"
	"github.com/echo-cqy/codeling/pkg/logger"
)

// GetLanguage returns the UI language preference.
func GetLanguage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"language": store.GetLanguage()})
}

type SetLanguageInput struct {
	Language models.Language `json:"language" binding:"required"`
}

// SetLanguage stores the UI language preference.
func SetLanguage(c *gin.Context) {
	var input SetLanguageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Language != models.LanguageEN && input.Language != models.LanguageZH {
		c.JSON(http.StatusBadRequest, gin.H{"error": "language must be \"en\" or \"zh\""})
		return
	}

	if err := store.SetLanguage(input.Language); err != nil {
		logger.Error().Err(err).Msg("Failed to save language")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save language"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": input.Language})
}

// SaveProfile stores the display profile.
func SaveProfile(c *gin.Context) {
	var profile models.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if profile.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	if err := store.SaveProfile(profile); err != nil {
		logger.Error().Err(err).Msg("Failed to save profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// SaveAIConfig stores the AI provider configuration.
func SaveAIConfig(c *gin.Context) {
	var cfg models.AIConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if cfg.Provider == "" || cfg.Model == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provider and model are required"})
		return
	}

	if err := store.SaveAIConfig(cfg); err != nil {
		logger.Error().Err(err).Msg("Failed to save AI config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save AI config"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"aiConfig": cfg})
}

// TestAIConfig checks the submitted config can reach its provider without
// persisting anything.
func TestAIConfig(c *gin.Context) {
	var cfg models.AIConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.TestConnection(c.Request.Context(), &cfg); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetHiddenQuestions returns the ids hidden from the catalog view.
func GetHiddenQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"hiddenQuestionIds": store.GetHiddenQuestions()})
}

type HiddenQuestionsInput struct {
	QuestionIDs []string `json:"questionIds" binding:"required"`
}

// SaveHiddenQuestions replaces the hidden-question id list.
func SaveHiddenQuestions(c *gin.Context) {
	var input HiddenQuestionsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := store.SaveHiddenQuestions(input.QuestionIDs); err != nil {
		logger.Error().Err(err).Msg("Failed to save hidden questions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save hidden questions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hiddenQuestionIds": input.QuestionIDs})
}

// ClearAllData wipes every local key and reseeds the catalog on the next read.
// Remote data is untouched.
func ClearAllData(c *gin.Context) {
	if err := store.ClearAllData(); err != nil {
		logger.Error().Err(err).Msg("Failed to clear local data")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear local data"})
		return
	}
	invalidateQuestionsCache()
	logger.Warn().Msg("All local data cleared")
	c.JSON(http.StatusOK, gin.H{"message": "All local data cleared"})
}
