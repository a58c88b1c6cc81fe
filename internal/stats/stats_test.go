package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/echo-cqy/codeling/internal/models"
)

func history() []models.Attempt {
	return []models.Attempt{
		{ID: "a1", QuestionID: "q1", Framework: models.FrameworkReact, Status: models.StatusPassed, Timestamp: 100},
		{ID: "a2", QuestionID: "q1", Framework: models.FrameworkVue, Status: models.StatusWorking, Timestamp: 200},
		{ID: "a3", QuestionID: "q2", Framework: models.FrameworkReact, Status: models.StatusHinted, Timestamp: 300, IsStarred: true},
	}
}

func TestForQuestion(t *testing.T) {
	qs := ForQuestion(history(), "q1")
	assert.Equal(t, "q1", qs.QuestionID)
	assert.Equal(t, 2, qs.CompletedCount)
	assert.True(t, qs.HasCompleted)
	assert.False(t, qs.IsStarred)

	qs = ForQuestion(history(), "q2")
	assert.Equal(t, 1, qs.CompletedCount)
	assert.True(t, qs.IsStarred)
}

func TestForQuestion_NoHistory(t *testing.T) {
	qs := ForQuestion(nil, "missing")
	assert.Equal(t, 0, qs.CompletedCount)
	assert.False(t, qs.HasCompleted)
}

func TestAll_SortedAndSparse(t *testing.T) {
	all := All([]models.Attempt{
		{ID: "a1", QuestionID: "q9"},
		{ID: "a2", QuestionID: "q1"},
		{ID: "a3", QuestionID: "q9"},
	})

	assert.Len(t, all, 2)
	assert.Equal(t, "q1", all[0].QuestionID)
	assert.Equal(t, "q9", all[1].QuestionID)
	assert.Equal(t, 2, all[1].CompletedCount)
}

func TestSolvedCount_DistinctQuestions(t *testing.T) {
	assert.Equal(t, 2, SolvedCount(history()))
	assert.Equal(t, 0, SolvedCount(nil))
}

func TestRecompute_RestoresInvariant(t *testing.T) {
	st := models.UserStats{
		SolvedCount:   99,
		TotalAttempts: 99,
		Streak:        7,
		History:       history(),
	}

	Recompute(&st)

	assert.Equal(t, 3, st.TotalAttempts)
	assert.Equal(t, 2, st.SolvedCount)
	// Streak is not derivable from history and must survive untouched.
	assert.Equal(t, 7, st.Streak)
}
