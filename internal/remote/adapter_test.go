package remote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/echo-cqy/codeling/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One pooled connection keeps every session on the same in-memory
	// database and serializes the concurrent FetchAll reads.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.RemoteModels...))
	return db
}

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := New(setupTestDB(t), "user1")
	require.NoError(t, err)
	return a
}

func TestNew_RequiresDBAndUser(t *testing.T) {
	_, err := New(nil, "user1")
	assert.Error(t, err)

	_, err = New(setupTestDB(t), "")
	assert.Error(t, err)
}

func TestFetchAll_EmptyRemote(t *testing.T) {
	a := newTestAdapter(t)

	snap, err := a.FetchAll(context.Background())
	require.NoError(t, err)

	assert.False(t, snap.HasAnyData())
	assert.Nil(t, snap.Profile)
	assert.Nil(t, snap.AIConfig)
	assert.Empty(t, snap.Questions)
	assert.Empty(t, snap.Attempts)
	assert.Empty(t, snap.Drafts)
}

func TestUpsertProfile_Idempotent(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.UpsertProfile(ctx, models.Profile{Name: "Ada", Avatar: "🚀", JoinedAt: 1}))
	require.NoError(t, a.UpsertProfile(ctx, models.Profile{Name: "Ada L.", Avatar: "🚀", JoinedAt: 1}))

	snap, err := a.FetchAll(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "Ada L.", snap.Profile.Name)

	var count int64
	a.db.Model(&models.RemoteProfile{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpsertQuestions_RoundTripsTagsAndCode(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	q := models.Question{
		ID:         "q1",
		Title:      "Counter",
		Difficulty: models.DifficultyEasy,
		Category:   "Hooks",
		Tags:       []string{"state", "events"},
		React:      models.QuestionCode{Initial: "// start", Solution: "// done"},
		Vue:        models.QuestionCode{Initial: "<!-- start -->"},
		CreatedAt:  42,
	}
	require.NoError(t, a.UpsertQuestions(ctx, []models.Question{q}))

	snap, err := a.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Questions, 1)

	got := snap.Questions[0]
	assert.Equal(t, q.Title, got.Title)
	assert.Equal(t, q.Tags, got.Tags)
	assert.Equal(t, q.React, got.React)
	assert.Equal(t, q.Vue, got.Vue)
	assert.Equal(t, int64(42), got.CreatedAt)
}

func TestUpsertQuestions_EmptySliceIsNoop(t *testing.T) {
	a := newTestAdapter(t)
	require.NoError(t, a.UpsertQuestions(context.Background(), nil))
}

func TestDeleteQuestion_CascadesRemoteRows(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.UpsertQuestions(ctx, []models.Question{{ID: "q1", Title: "A"}, {ID: "q2", Title: "B"}}))
	require.NoError(t, a.UpsertAttempt(ctx, models.Attempt{ID: "a1", QuestionID: "q1", Framework: models.FrameworkReact, Timestamp: 1}))
	require.NoError(t, a.UpsertAttempt(ctx, models.Attempt{ID: "a2", QuestionID: "q2", Framework: models.FrameworkReact, Timestamp: 2}))
	require.NoError(t, a.UpsertDraft(ctx, "q1", models.FrameworkReact, "wip", 3))

	require.NoError(t, a.DeleteQuestion(ctx, "q1"))

	snap, err := a.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Questions, 1)
	assert.Equal(t, "q2", snap.Questions[0].ID)
	require.Len(t, snap.Attempts, 1)
	assert.Equal(t, "a2", snap.Attempts[0].ID)
	assert.Empty(t, snap.Drafts)
}

func TestUpdateAttempt_PatchesOnlyProvidedFields(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.UpsertAttempt(ctx, models.Attempt{
		ID: "a1", QuestionID: "q1", Framework: models.FrameworkReact,
		Code: "v1", Status: models.StatusWorking, Timestamp: 1,
	}))

	status := models.StatusPassed
	require.NoError(t, a.UpdateAttempt(ctx, "a1", models.AttemptPatch{Status: &status}))

	snap, err := a.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Attempts, 1)
	assert.Equal(t, models.StatusPassed, snap.Attempts[0].Status)
	assert.Equal(t, "v1", snap.Attempts[0].Code)
}

func TestUpdateAttempt_EmptyPatchIsNoop(t *testing.T) {
	a := newTestAdapter(t)
	require.NoError(t, a.UpdateAttempt(context.Background(), "ghost", models.AttemptPatch{}))
}

func TestUpsertDraft_LastWriteWinsPerSlot(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.UpsertDraft(ctx, "q1", models.FrameworkReact, "first", 1))
	require.NoError(t, a.UpsertDraft(ctx, "q1", models.FrameworkReact, "second", 2))
	require.NoError(t, a.UpsertDraft(ctx, "q1", models.FrameworkVue, "vue", 3))

	snap, err := a.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Drafts, 2)

	byFramework := map[models.Framework]string{}
	for _, d := range snap.Drafts {
		byFramework[d.Framework] = d.Code
	}
	assert.Equal(t, "second", byFramework[models.FrameworkReact])
	assert.Equal(t, "vue", byFramework[models.FrameworkVue])
}

func TestAdapter_ScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a1, err := New(db, "user1")
	require.NoError(t, err)
	a2, err := New(db, "user2")
	require.NoError(t, err)

	require.NoError(t, a1.UpsertQuestions(ctx, []models.Question{{ID: "q1", Title: "Mine"}}))
	require.NoError(t, a1.UpsertDraft(ctx, "q1", models.FrameworkReact, "mine", 1))

	snap, err := a2.FetchAll(ctx)
	require.NoError(t, err)
	assert.False(t, snap.HasAnyData())

	// Deletes from another user must not reach across.
	require.NoError(t, a2.DeleteQuestion(ctx, "q1"))
	snap, err = a1.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Questions, 1)
}
