package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/echo-cqy/codeling/internal/database"
	"github.com/echo-cqy/codeling/internal/models"
	"github.com/echo-cqy/codeling/internal/services"
	"github.com/echo-cqy/codeling/pkg/logger"
	"github.com/echo-cqy/codeling/pkg/utils"
)

const questionsCacheKey = "cache:questions"

func frameworkParam(c *gin.Context, key string) (models.Framework, bool) {
	fw := models.Framework(c.Query(key))
	if fw == "" {
		fw = models.Framework(c.Param(key))
	}
	if !fw.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "framework must be \"react\" or \"vue\""})
		return "", false
	}
	return fw, true
}

func invalidateQuestionsCache() {
	if err := database.CacheInvalidate(questionsCacheKey); err != nil {
		logger.Debug().Err(err).Msg("questions cache invalidate failed")
	}
}

// ListQuestions returns the full catalog, served from the Redis cache when one
// is configured and warm.
func ListQuestions(c *gin.Context) {
	var cached []models.Question
	if err := database.CacheGet(questionsCacheKey, &cached); err == nil {
		c.JSON(http.StatusOK, gin.H{"questions": cached})
		return
	}

	questions := store.GetQuestions()
	if err := database.CacheSet(questionsCacheKey, questions, 30*time.Second); err != nil {
		logger.Debug().Err(err).Msg("questions cache set failed")
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

type CreateQuestionInput struct {
	Title       string              `json:"title" binding:"required"`
	Difficulty  models.Difficulty   `json:"difficulty"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Tags        []string            `json:"tags"`
	React       models.QuestionCode `json:"react"`
	Vue         models.QuestionCode `json:"vue"`
}

// CreateQuestion adds a manually authored question to the front of the catalog.
func CreateQuestion(c *gin.Context) {
	var input CreateQuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.React.Initial == "" && input.Vue.Initial == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one framework needs initial code"})
		return
	}

	difficulty := input.Difficulty
	switch difficulty {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		difficulty = models.DifficultyEasy
	}
	category := input.Category
	if category == "" {
		category = "General"
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	q := models.Question{
		ID:          utils.NewID(),
		Title:       input.Title,
		Difficulty:  difficulty,
		Description: input.Description,
		Category:    category,
		Tags:        tags,
		React:       input.React,
		Vue:         input.Vue,
		CreatedAt:   time.Now().UnixMilli(),
	}

	if err := store.AddQuestion(q); err != nil {
		logger.Error().Err(err).Msg("Failed to save question")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save question"})
		return
	}

	invalidateQuestionsCache()
	c.JSON(http.StatusCreated, gin.H{"question": q})
}

type ImportQuestionsInput struct {
	Documents []string `json:"documents" binding:"required"`
}

// ImportQuestions parses markdown documents and adds every well-formed one.
// Malformed documents are skipped, not fatal.
func ImportQuestions(c *gin.Context) {
	var input ImportQuestionsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imported := []models.Question{}
	skipped := 0
	for _, doc := range input.Documents {
		q, ok := services.ParseQuestionMarkdown(doc)
		if !ok {
			skipped++
			continue
		}
		if err := store.AddQuestion(q); err != nil {
			logger.Error().Err(err).Msg("Failed to save imported question")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save imported question"})
			return
		}
		imported = append(imported, q)
	}

	invalidateQuestionsCache()
	c.JSON(http.StatusOK, gin.H{"imported": imported, "skippedCount": skipped})
}

// ExportQuestion renders one question back into the markdown import format.
func ExportQuestion(c *gin.Context) {
	q, found := store.GetQuestion(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"markdown": services.ExportQuestionMarkdown(q), "title": q.Title})
}

// UpdateQuestionContent applies a partial content edit. The first edit of each
// field snapshots the pristine content so it can be reverted later.
func UpdateQuestionContent(c *gin.Context) {
	var patch models.QuestionContentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, found, err := store.UpdateQuestionContent(c.Param("id"), patch)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to update question")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update question"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	invalidateQuestionsCache()
	c.JSON(http.StatusOK, gin.H{"question": updated})
}

// ToggleQuestionStar flips the star flag.
func ToggleQuestionStar(c *gin.Context) {
	updated, found, err := store.ToggleQuestionStar(c.Param("id"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to toggle star")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle star"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	invalidateQuestionsCache()
	c.JSON(http.StatusOK, gin.H{"question": updated})
}

// DeleteQuestion removes the question and cascades over its attempts, drafts
// and derived counters.
func DeleteQuestion(c *gin.Context) {
	id := c.Param("id")
	if _, found := store.GetQuestion(id); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	if err := store.DeleteQuestion(id); err != nil {
		logger.Error().Err(err).Str("question_id", id).Msg("Failed to delete question")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete question"})
		return
	}

	invalidateQuestionsCache()
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

// GetQuestionHistory returns the attempt history for one question+framework,
// newest first.
func GetQuestionHistory(c *gin.Context) {
	fw, ok := frameworkParam(c, "framework")
	if !ok {
		return
	}
	history := store.GetHistoryByQuestion(c.Param("id"), fw)
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// GetLatestCode resolves the code the editor should open with: the draft if
// one exists, else the newest attempt, else nothing.
func GetLatestCode(c *gin.Context) {
	fw, ok := frameworkParam(c, "framework")
	if !ok {
		return
	}
	code, found := store.GetLatestCode(c.Param("id"), fw)
	if !found {
		c.JSON(http.StatusOK, gin.H{"code": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code})
}
