package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/echo-cqy/codeling/internal/models"
	"github.com/echo-cqy/codeling/pkg/utils"
)

// Markdown question format:
//
//	# Title
//	description...
//	- Difficulty: Medium
//	- Category: Hooks
//	- Tags: a, b
//	## React
//	```tsx
//	...
//	```
//	## Vue
//	```vue
//	...
//	```
//
// This is a house convention, not CommonMark; the parsing below mirrors the
// format exactly.

var (
	titleRe      = regexp.MustCompile(`(?m)^#\s+(.*)`)
	difficultyRe = regexp.MustCompile(`(?im)- Difficulty:\s*(.*)`)
	categoryRe   = regexp.MustCompile(`(?im)- Category:\s*(.*)`)
	tagsRe       = regexp.MustCompile(`(?im)- Tags:\s*(.*)`)
	sectionRe    = regexp.MustCompile(`(?m)^##\s+`)
	metaLineRe   = regexp.MustCompile(`(?im)- (Difficulty|Category|Tags):.*\n?`)
	metaHeadRe   = regexp.MustCompile(`(?im)##\s+Meta\n?`)
)

func extractCode(content, section string) string {
	re := regexp.MustCompile(`(?i)##\s+` + section + "[\\s\\S]*?```(?:tsx|jsx|javascript|js|vue|html|xml)?\\n([\\s\\S]*?)```")
	m := re.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ParseQuestionMarkdown parses one markdown document into a Question. Returns
// ok=false when the document has no title or no code block at all.
func ParseQuestionMarkdown(content string) (models.Question, bool) {
	titleMatch := titleRe.FindStringSubmatch(content)
	if titleMatch == nil {
		return models.Question{}, false
	}
	title := strings.TrimSpace(titleMatch[1])

	difficulty := models.DifficultyEasy
	if m := difficultyRe.FindStringSubmatch(content); m != nil {
		switch strings.ToLower(strings.TrimSpace(m[1])) {
		case "medium":
			difficulty = models.DifficultyMedium
		case "hard":
			difficulty = models.DifficultyHard
		}
	}

	category := "General"
	if m := categoryRe.FindStringSubmatch(content); m != nil && strings.TrimSpace(m[1]) != "" {
		category = strings.TrimSpace(m[1])
	}

	tags := []string{}
	if m := tagsRe.FindStringSubmatch(content); m != nil {
		for _, t := range strings.Split(m[1], ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	reactCode := extractCode(content, "React")
	vueCode := extractCode(content, "Vue")
	if title == "" || (reactCode == "" && vueCode == "") {
		return models.Question{}, false
	}

	// Description: everything between the title line and the first ## section,
	// with meta lines stripped.
	description := ""
	if nl := strings.Index(content, "\n"); nl != -1 {
		body := content[nl+1:]
		if loc := sectionRe.FindStringIndex(body); loc != nil {
			description = body[:loc[0]]
		} else {
			description = body
		}
	}
	description = metaLineRe.ReplaceAllString(description, "")
	description = metaHeadRe.ReplaceAllString(description, "")
	description = strings.TrimSpace(description)
	if description == "" {
		description = "No description provided."
	}

	if reactCode == "" {
		reactCode = "// Write your React code here"
	}
	if vueCode == "" {
		vueCode = "<!-- Write your Vue code here -->"
	}

	return models.Question{
		ID:          utils.NewID(),
		Title:       title,
		Difficulty:  difficulty,
		Description: description,
		Category:    category,
		Tags:        tags,
		React:       models.QuestionCode{Initial: reactCode},
		Vue:         models.QuestionCode{Initial: vueCode},
		CreatedAt:   time.Now().UnixMilli(),
	}, true
}

// ExportQuestionMarkdown renders a question back into the markdown format
// ParseQuestionMarkdown reads.
func ExportQuestionMarkdown(q models.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", q.Title)
	if q.Description != "" {
		b.WriteString(q.Description)
		b.WriteString("\n\n")
	}
	b.WriteString("## Meta\n")
	fmt.Fprintf(&b, "- Difficulty: %s\n", q.Difficulty)
	fmt.Fprintf(&b, "- Category: %s\n", q.Category)
	fmt.Fprintf(&b, "- Tags: %s\n\n", strings.Join(q.Tags, ", "))
	if q.React.Initial != "" {
		fmt.Fprintf(&b, "## React\n```tsx\n%s\n```\n\n", q.React.Initial)
	}
	if q.Vue.Initial != "" {
		fmt.Fprintf(&b, "## Vue\n```vue\n%s\n```\n", q.Vue.Initial)
	}
	return b.String()
}
