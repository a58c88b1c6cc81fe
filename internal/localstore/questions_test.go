package localstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echo-cqy/codeling/internal/models"
)

func TestDeleteQuestion_CascadesOverHistoryAndDrafts(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveAttempt(attempt("a1", "1", models.FrameworkReact, "v1", 100)))
	require.NoError(t, s.SaveAttempt(attempt("a2", "1", models.FrameworkVue, "v2", 200)))
	require.NoError(t, s.SaveAttempt(attempt("a3", "2", models.FrameworkReact, "keep", 300)))
	require.NoError(t, s.SaveDraft("1", models.FrameworkReact, "draft"))

	require.NoError(t, s.DeleteQuestion("1"))

	_, found := s.GetQuestion("1")
	assert.False(t, found)

	st := s.GetStats()
	require.Len(t, st.History, 1)
	assert.Equal(t, "a3", st.History[0].ID)
	assert.Equal(t, 1, st.SolvedCount)
	assert.Equal(t, 1, st.TotalAttempts)

	for _, fw := range models.Frameworks {
		_, found := s.GetDraft("1", fw)
		assert.False(t, found)
	}

	// The unrelated question's data is untouched.
	_, found = s.GetQuestion("2")
	assert.True(t, found)
}

func TestUpdateQuestionContent_CapturesOriginalOnceOnly(t *testing.T) {
	s := newTestStore(t)

	original, found := s.GetQuestion("1")
	require.True(t, found)
	assert.Nil(t, original.OriginalDescription)

	first := "edited once"
	updated, found, err := s.UpdateQuestionContent("1", models.QuestionContentPatch{Description: &first})
	require.NoError(t, err)
	require.True(t, found)

	require.NotNil(t, updated.OriginalDescription)
	assert.Equal(t, original.Description, *updated.OriginalDescription)
	assert.Equal(t, "edited once", updated.Description)

	// A second edit must not move the snapshot.
	second := "edited twice"
	updated, found, err = s.UpdateQuestionContent("1", models.QuestionContentPatch{Description: &second})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, original.Description, *updated.OriginalDescription)
	assert.Equal(t, "edited twice", updated.Description)

	// Untouched pieces have no snapshot.
	assert.Nil(t, updated.OriginalReact)
	assert.Nil(t, updated.OriginalVue)
}

func TestUpdateQuestionContent_PerFieldSnapshots(t *testing.T) {
	s := newTestStore(t)

	original, _ := s.GetQuestion("1")

	newCode := models.QuestionCode{Initial: "// changed", Solution: "// done"}
	updated, found, err := s.UpdateQuestionContent("1", models.QuestionContentPatch{React: &newCode})
	require.NoError(t, err)
	require.True(t, found)

	require.NotNil(t, updated.OriginalReact)
	assert.Equal(t, original.React, *updated.OriginalReact)
	assert.Equal(t, newCode, updated.React)
	assert.Nil(t, updated.OriginalDescription)
}

func TestUpdateQuestionContent_MissingQuestion(t *testing.T) {
	s := newTestStore(t)

	desc := "x"
	_, found, err := s.UpdateQuestionContent("ghost", models.QuestionContentPatch{Description: &desc})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestToggleQuestionStar(t *testing.T) {
	s := newTestStore(t)

	updated, found, err := s.ToggleQuestionStar("1")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, updated.IsStarred)

	updated, _, err = s.ToggleQuestionStar("1")
	require.NoError(t, err)
	assert.False(t, updated.IsStarred)

	_, found, err = s.ToggleQuestionStar("ghost")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveQuestions_FullReplace(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveQuestions([]models.Question{{ID: "only", Title: "Only"}}))

	questions := s.GetQuestions()
	require.Len(t, questions, 1)
	assert.Equal(t, "only", questions[0].ID)
}
