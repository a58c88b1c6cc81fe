package localstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echo-cqy/codeling/internal/models"
)

func attempt(id, qid string, fw models.Framework, code string, ts int64) models.Attempt {
	return models.Attempt{
		ID:         id,
		QuestionID: qid,
		Framework:  fw,
		Code:       code,
		Timestamp:  ts,
		Status:     models.StatusPassed,
	}
}

func TestGetStats_FillsDefaults(t *testing.T) {
	s := newTestStore(t)

	st := s.GetStats()
	require.NotNil(t, st.Profile)
	assert.Equal(t, "Sweet Coder", st.Profile.Name)
	require.NotNil(t, st.AIConfig)
	assert.Equal(t, "gemini", st.AIConfig.Provider)
	assert.NotNil(t, st.History)
}

func TestGetStoredStats_NoDefaultFill(t *testing.T) {
	s := newTestStore(t)

	st := s.GetStoredStats()
	assert.Nil(t, st.Profile)
	assert.Nil(t, st.AIConfig)
}

func TestSaveAttempt_RecomputesCountersAndSupersedesDraft(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveDraft("1", models.FrameworkReact, "work in progress"))

	require.NoError(t, s.SaveAttempt(attempt("a1", "1", models.FrameworkReact, "final", 100)))
	require.NoError(t, s.SaveAttempt(attempt("a2", "1", models.FrameworkVue, "vue final", 200)))
	require.NoError(t, s.SaveAttempt(attempt("a3", "2", models.FrameworkReact, "other", 300)))

	st := s.GetStats()
	assert.Equal(t, 3, st.TotalAttempts)
	assert.Equal(t, 2, st.SolvedCount)

	// The explicit save replaced the in-progress draft.
	code, found := s.GetDraft("1", models.FrameworkReact)
	require.True(t, found)
	assert.Equal(t, "final", code)
}

func TestUpdateAttempt_AppliesOnlyProvidedFields(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveAttempt(attempt("a1", "1", models.FrameworkReact, "v1", 100)))

	name := "first pass"
	starred := true
	updated, found, err := s.UpdateAttempt("a1", models.AttemptPatch{Name: &name, IsStarred: &starred})
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, "first pass", updated.Name)
	assert.True(t, updated.IsStarred)
	assert.Equal(t, "v1", updated.Code)
	assert.Equal(t, models.StatusPassed, updated.Status)
}

func TestUpdateAttempt_MissingID(t *testing.T) {
	s := newTestStore(t)

	_, found, err := s.UpdateAttempt("ghost", models.AttemptPatch{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteAttempt_LeavesSiblingsIntact(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveAttempt(attempt("a1", "1", models.FrameworkReact, "v1", 100)))
	require.NoError(t, s.SaveAttempt(attempt("a2", "1", models.FrameworkReact, "v2", 200)))

	require.NoError(t, s.DeleteAttempt("a1"))

	st := s.GetStats()
	require.Len(t, st.History, 1)
	assert.Equal(t, "a2", st.History[0].ID)
	assert.Equal(t, 1, st.TotalAttempts)
	assert.Equal(t, 1, st.SolvedCount)
}

func TestGetHistoryByQuestion_NewestFirstPerFramework(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveAttempt(attempt("a1", "1", models.FrameworkReact, "v1", 100)))
	require.NoError(t, s.SaveAttempt(attempt("a2", "1", models.FrameworkReact, "v2", 300)))
	require.NoError(t, s.SaveAttempt(attempt("a3", "1", models.FrameworkVue, "vue", 200)))

	history := s.GetHistoryByQuestion("1", models.FrameworkReact)
	require.Len(t, history, 2)
	assert.Equal(t, "a2", history[0].ID)
	assert.Equal(t, "a1", history[1].ID)
}

func TestGetLatestCode_DraftWinsOverAttempts(t *testing.T) {
	s := newTestStore(t)

	_, found := s.GetLatestCode("1", models.FrameworkReact)
	assert.False(t, found)

	require.NoError(t, s.SaveAttempt(attempt("a1", "1", models.FrameworkReact, "attempt v1", 100)))
	require.NoError(t, s.SaveAttempt(attempt("a2", "1", models.FrameworkReact, "attempt v2", 200)))

	// No separate draft: SaveAttempt wrote the slot, so the newest attempt code
	// is what comes back either way.
	code, found := s.GetLatestCode("1", models.FrameworkReact)
	require.True(t, found)
	assert.Equal(t, "attempt v2", code)

	require.NoError(t, s.SaveDraft("1", models.FrameworkReact, "newer draft"))
	code, found = s.GetLatestCode("1", models.FrameworkReact)
	require.True(t, found)
	assert.Equal(t, "newer draft", code)

	// Clearing the draft falls back to the newest attempt.
	require.NoError(t, s.ClearDraft("1", models.FrameworkReact))
	code, found = s.GetLatestCode("1", models.FrameworkReact)
	require.True(t, found)
	assert.Equal(t, "attempt v2", code)
}

func TestClearQuestionListStats_RemovesHistoryKeepsDrafts(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveAttempt(attempt("a1", "1", models.FrameworkReact, "v1", 100)))
	require.NoError(t, s.SaveAttempt(attempt("a2", "2", models.FrameworkReact, "v2", 200)))
	require.NoError(t, s.SaveDraft("1", models.FrameworkReact, "draft"))

	removed, err := s.ClearQuestionListStats([]string{"1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, removed)

	st := s.GetStats()
	require.Len(t, st.History, 1)
	assert.Equal(t, "a2", st.History[0].ID)
	assert.Equal(t, 1, st.SolvedCount)

	// Clear leaves drafts alone; that is what distinguishes it from reset.
	_, found := s.GetDraft("1", models.FrameworkReact)
	assert.True(t, found)
}

func TestResetQuestionListStats_AlsoDropsDrafts(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveAttempt(attempt("a1", "1", models.FrameworkReact, "v1", 100)))
	require.NoError(t, s.SaveDraft("1", models.FrameworkReact, "draft r"))
	require.NoError(t, s.SaveDraft("1", models.FrameworkVue, "draft v"))

	removed, err := s.ResetQuestionListStats([]string{"1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, removed)

	assert.Empty(t, s.GetStats().History)
	_, found := s.GetDraft("1", models.FrameworkReact)
	assert.False(t, found)
	_, found = s.GetDraft("1", models.FrameworkVue)
	assert.False(t, found)
}

func TestSaveProfileAndAIConfig_PersistAsUserData(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveProfile(models.Profile{Name: "Ada", Avatar: "🚀", JoinedAt: 1}))
	require.NoError(t, s.SaveAIConfig(models.AIConfig{Provider: "openai", Model: "gpt-4o", APIKey: "k"}))

	st := s.GetStoredStats()
	require.NotNil(t, st.Profile)
	assert.Equal(t, "Ada", st.Profile.Name)
	require.NotNil(t, st.AIConfig)
	assert.Equal(t, "openai", st.AIConfig.Provider)
}
