package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/echo-cqy/codeling/internal/models"
	"github.com/echo-cqy/codeling/pkg/utils"
)

// aiClient builds an OpenAI-compatible chat client from the user's stored
// config. Every supported provider (openai, deepseek, gemini via its
// compatibility endpoint, custom) speaks this API; BaseURL selects the host.
func aiClient(cfg *models.AIConfig) (*openai.Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("AI provider is not configured: set an API key in settings")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg), nil
}

func chat(ctx context.Context, cfg *models.AIConfig, prompt string) (string, error) {
	client, err := aiClient(cfg)
	if err != nil {
		return "", err
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("AI provider returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GetHint asks for a short hint on the current code. The result is opaque
// text; the caller persists a "hinted" attempt status, nothing more.
func GetHint(ctx context.Context, cfg *models.AIConfig, description, currentCode string, lang models.Language) (string, error) {
	language := "English"
	if lang == models.LanguageZH {
		language = "Chinese"
	}
	prompt := fmt.Sprintf(`Frontend Question Hint Request:
Goal: %s
Current Code: %s
Language preference: %s
Provide a concise hint (max 2 sentences) in the specified language. Return ONLY the hint text.`,
		description, currentCode, language)

	return chat(ctx, cfg, prompt)
}

// generatedQuestion is the JSON shape the model is asked to return.
type generatedQuestion struct {
	Title       string              `json:"title"`
	Difficulty  string              `json:"difficulty"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Tags        []string            `json:"tags"`
	React       models.QuestionCode `json:"react"`
	Vue         models.QuestionCode `json:"vue"`
}

// GenerateQuestion produces a new question about the topic. The response is
// shape-checked (title and at least one code pair present) and stamped with a
// fresh id; no deeper validation before storing.
func GenerateQuestion(ctx context.Context, cfg *models.AIConfig, topic string, lang models.Language) (models.Question, error) {
	language := "English"
	if lang == models.LanguageZH {
		language = "Chinese"
	}
	prompt := fmt.Sprintf(`Generate a frontend hand-coding interview question about "%s".
All descriptive text (title, description, category) must be in %s.
Return the response in valid JSON format only, following this structure:
{
  "title": "Short Title",
  "difficulty": "Easy" | "Medium" | "Hard",
  "description": "Clear requirements",
  "category": "e.g. Hooks, CSS",
  "tags": ["tag1", "tag2"],
  "react": { "initial": "starting code", "solution": "complete code" },
  "vue": { "initial": "starting template/script setup", "solution": "complete vue sfc code" }
}`, topic, language)

	raw, err := chat(ctx, cfg, prompt)
	if err != nil {
		return models.Question{}, err
	}

	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var gen generatedQuestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &gen); err != nil {
		return models.Question{}, fmt.Errorf("failed to parse AI response: %w", err)
	}
	if gen.Title == "" || (gen.React.Initial == "" && gen.Vue.Initial == "") {
		return models.Question{}, errors.New("AI response missing title or code")
	}

	difficulty := models.Difficulty(gen.Difficulty)
	switch difficulty {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		difficulty = models.DifficultyEasy
	}
	category := gen.Category
	if category == "" {
		category = "General"
	}
	tags := gen.Tags
	if tags == nil {
		tags = []string{}
	}

	return models.Question{
		ID:          utils.NewID(),
		Title:       gen.Title,
		Difficulty:  difficulty,
		Description: gen.Description,
		Category:    category,
		Tags:        tags,
		React:       gen.React,
		Vue:         gen.Vue,
		CreatedAt:   time.Now().UnixMilli(),
	}, nil
}

// TestConnection verifies the stored config can reach its provider.
func TestConnection(ctx context.Context, cfg *models.AIConfig) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	_, err := chat(ctx, cfg, `Reply with the single word "ok".`)
	return err
}
