// Package stats derives aggregate counters from the attempt history. Nothing
// here is persisted: every value is a pure function of UserStats.History, which
// is what keeps solvedCount/totalAttempts honest as denormalized caches.
package stats

import (
	"sort"

	"github.com/echo-cqy/codeling/internal/models"
)

// QuestionStats summarizes the history for a single question across all
// framework variants.
type QuestionStats struct {
	QuestionID     string `json:"questionId"`
	CompletedCount int    `json:"completedCount"`
	HasCompleted   bool   `json:"hasCompleted"`
	IsStarred      bool   `json:"isStarred"`
}

// ForQuestion computes the stats entry for one question id.
func ForQuestion(history []models.Attempt, questionID string) QuestionStats {
	qs := QuestionStats{QuestionID: questionID}
	for _, a := range history {
		if a.QuestionID != questionID {
			continue
		}
		qs.CompletedCount++
		if a.IsStarred {
			qs.IsStarred = true
		}
	}
	qs.HasCompleted = qs.CompletedCount > 0
	return qs
}

// All returns one entry per distinct question id appearing in history.
// Questions never attempted are absent, not zero-filled. Output is sorted by
// question id so responses are stable.
func All(history []models.Attempt) []QuestionStats {
	byID := make(map[string]*QuestionStats)
	for _, a := range history {
		qs, ok := byID[a.QuestionID]
		if !ok {
			qs = &QuestionStats{QuestionID: a.QuestionID}
			byID[a.QuestionID] = qs
		}
		qs.CompletedCount++
		if a.IsStarred {
			qs.IsStarred = true
		}
	}

	out := make([]QuestionStats, 0, len(byID))
	for _, qs := range byID {
		qs.HasCompleted = qs.CompletedCount > 0
		out = append(out, *qs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}

// SolvedCount is the number of distinct question ids with at least one attempt.
func SolvedCount(history []models.Attempt) int {
	seen := make(map[string]struct{}, len(history))
	for _, a := range history {
		seen[a.QuestionID] = struct{}{}
	}
	return len(seen)
}

// Recompute restores the counter invariants from History in place. Streak is
// left alone: it is maintained elsewhere and cannot be rederived from history.
func Recompute(s *models.UserStats) {
	s.TotalAttempts = len(s.History)
	s.SolvedCount = SolvedCount(s.History)
}
