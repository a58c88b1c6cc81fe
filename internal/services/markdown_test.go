package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echo-cqy/codeling/internal/models"
)

const sampleDoc = "# Build a Stopwatch\n" +
	"\n" +
	"Implement a stopwatch with start, stop and reset.\n" +
	"\n" +
	"- Difficulty: Medium\n" +
	"- Category: Timers\n" +
	"- Tags: hooks, state\n" +
	"\n" +
	"## React\n" +
	"```tsx\n" +
	"export default function Stopwatch() {}\n" +
	"```\n" +
	"\n" +
	"## Vue\n" +
	"```vue\n" +
	"<template><div /></template>\n" +
	"```\n"

func TestParseQuestionMarkdown_FullDocument(t *testing.T) {
	q, ok := ParseQuestionMarkdown(sampleDoc)
	require.True(t, ok)

	assert.Equal(t, "Build a Stopwatch", q.Title)
	assert.Equal(t, models.DifficultyMedium, q.Difficulty)
	assert.Equal(t, "Timers", q.Category)
	assert.Equal(t, []string{"hooks", "state"}, q.Tags)
	assert.Equal(t, "Implement a stopwatch with start, stop and reset.", q.Description)
	assert.Equal(t, "export default function Stopwatch() {}", q.React.Initial)
	assert.Equal(t, "<template><div /></template>", q.Vue.Initial)
	assert.NotEmpty(t, q.ID)
	assert.NotZero(t, q.CreatedAt)
}

func TestParseQuestionMarkdown_MinimalDocument(t *testing.T) {
	doc := "# Tiny\n## React\n```tsx\nconst x = 1\n```\n"
	q, ok := ParseQuestionMarkdown(doc)
	require.True(t, ok)

	assert.Equal(t, "Tiny", q.Title)
	assert.Equal(t, models.DifficultyEasy, q.Difficulty)
	assert.Equal(t, "General", q.Category)
	assert.Empty(t, q.Tags)
	assert.Equal(t, "No description provided.", q.Description)
	assert.Equal(t, "const x = 1", q.React.Initial)
	// The missing framework gets a placeholder, not an empty buffer.
	assert.Equal(t, "<!-- Write your Vue code here -->", q.Vue.Initial)
}

func TestParseQuestionMarkdown_Rejections(t *testing.T) {
	_, ok := ParseQuestionMarkdown("no title, no code")
	assert.False(t, ok)

	_, ok = ParseQuestionMarkdown("# Title Only\nsome description\n")
	assert.False(t, ok)
}

func TestExportThenParse_RoundTrips(t *testing.T) {
	original := models.Question{
		ID:          "q1",
		Title:       "Debounced Search",
		Difficulty:  models.DifficultyHard,
		Description: "Type into a box, results appear after a pause.",
		Category:    "Async",
		Tags:        []string{"debounce", "fetch"},
		React:       models.QuestionCode{Initial: "function Search() {}"},
		Vue:         models.QuestionCode{Initial: "<script setup></script>"},
	}

	parsed, ok := ParseQuestionMarkdown(ExportQuestionMarkdown(original))
	require.True(t, ok)

	assert.Equal(t, original.Title, parsed.Title)
	assert.Equal(t, original.Difficulty, parsed.Difficulty)
	assert.Equal(t, original.Description, parsed.Description)
	assert.Equal(t, original.Category, parsed.Category)
	assert.Equal(t, original.Tags, parsed.Tags)
	assert.Equal(t, original.React.Initial, parsed.React.Initial)
	assert.Equal(t, original.Vue.Initial, parsed.Vue.Initial)
	// Import always mints a fresh id.
	assert.NotEqual(t, original.ID, parsed.ID)
}
