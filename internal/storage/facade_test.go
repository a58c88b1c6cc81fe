package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echo-cqy/codeling/internal/models"
	"github.com/echo-cqy/codeling/internal/remote"
)

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestWritesWorkWithoutRemote(t *testing.T) {
	s := newTestService(t, nil)

	require.NoError(t, s.SaveAttempt(seedAttempt("a1", "1", "code", 100)))
	require.NoError(t, s.SaveDraft("1", models.FrameworkVue, "wip"))
	require.NoError(t, s.SaveProfile(models.Profile{Name: "Offline"}))

	st := s.GetStats()
	assert.Len(t, st.History, 1)
	assert.Equal(t, "Offline", st.Profile.Name)
}

func TestSaveAttempt_MirrorsAttemptAndDraft(t *testing.T) {
	db := testRemoteDB(t)
	s := newTestService(t, db)
	ctx := context.Background()

	require.NoError(t, s.SetRemoteUserID("user1"))
	require.NoError(t, s.SaveAttempt(seedAttempt("a1", "1", "solved", 100)))

	adapter, err := remote.New(db, "user1")
	require.NoError(t, err)

	waitUntil(t, func() bool {
		snap, err := adapter.FetchAll(ctx)
		return err == nil && len(snap.Attempts) == 1 && len(snap.Drafts) == 1
	})

	snap, err := adapter.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "solved", snap.Attempts[0].Code)
	assert.Equal(t, "solved", snap.Drafts[0].Code)
}

func TestDeleteQuestion_MirrorsCascade(t *testing.T) {
	db := testRemoteDB(t)
	s := newTestService(t, db)
	ctx := context.Background()

	require.NoError(t, s.SetRemoteUserID("user1"))
	require.NoError(t, s.SaveAttempt(seedAttempt("a1", "1", "solved", 100)))

	adapter, err := remote.New(db, "user1")
	require.NoError(t, err)
	waitUntil(t, func() bool {
		snap, err := adapter.FetchAll(ctx)
		return err == nil && len(snap.Attempts) == 1
	})

	require.NoError(t, s.DeleteQuestion("1"))

	waitUntil(t, func() bool {
		snap, err := adapter.FetchAll(ctx)
		return err == nil && len(snap.Attempts) == 0 && len(snap.Drafts) == 0
	})
}

func TestAutosaveDraft_DebouncedWriteReachesLocalAndRemote(t *testing.T) {
	db := testRemoteDB(t)
	s := newTestService(t, db)
	ctx := context.Background()

	require.NoError(t, s.SetRemoteUserID("user1"))

	s.AutosaveDraft("1", models.FrameworkReact, "v1")
	s.AutosaveDraft("1", models.FrameworkReact, "v2")
	s.AutosaveDraft("1", models.FrameworkReact, "v3")

	waitUntil(t, func() bool {
		code, found := s.GetDraft("1", models.FrameworkReact)
		return found && code == "v3"
	})

	adapter, err := remote.New(db, "user1")
	require.NoError(t, err)
	waitUntil(t, func() bool {
		snap, err := adapter.FetchAll(ctx)
		return err == nil && len(snap.Drafts) == 1 && snap.Drafts[0].Code == "v3"
	})
}

func TestSaveAttempt_CancelsPendingAutosaveForSlot(t *testing.T) {
	s := newTestService(t, nil)

	s.AutosaveDraft("1", models.FrameworkReact, "older keystrokes")
	require.NoError(t, s.SaveAttempt(seedAttempt("a1", "1", "final answer", 100)))

	// The debounce window passes; the stale autosave must not resurrect.
	time.Sleep(100 * time.Millisecond)

	code, found := s.GetDraft("1", models.FrameworkReact)
	require.True(t, found)
	assert.Equal(t, "final answer", code)
}

func TestMirrorFailure_DoesNotAffectLocalWrite(t *testing.T) {
	db := testRemoteDB(t)
	s := newTestService(t, db)

	require.NoError(t, s.SetRemoteUserID("user1"))

	// Break the remote tier under the adapter.
	require.NoError(t, db.Migrator().DropTable(&models.RemoteAttempt{}))

	require.NoError(t, s.SaveAttempt(seedAttempt("a1", "1", "still saved", 100)))

	st := s.GetStats()
	require.Len(t, st.History, 1)
	assert.Equal(t, "still saved", st.History[0].Code)
}

func TestClearAllData_LocalOnly(t *testing.T) {
	db := testRemoteDB(t)
	s := newTestService(t, db)
	ctx := context.Background()

	require.NoError(t, s.SetRemoteUserID("user1"))
	require.NoError(t, s.SaveAttempt(seedAttempt("a1", "1", "remote copy", 100)))

	adapter, err := remote.New(db, "user1")
	require.NoError(t, err)
	waitUntil(t, func() bool {
		snap, err := adapter.FetchAll(ctx)
		return err == nil && len(snap.Attempts) == 1
	})

	require.NoError(t, s.ClearAllData())

	assert.Empty(t, s.GetStats().History)

	// The remote side keeps the account's data.
	snap, err := adapter.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Attempts, 1)
}

func TestClearQuestionListStats_MirrorsAttemptDeletes(t *testing.T) {
	db := testRemoteDB(t)
	s := newTestService(t, db)
	ctx := context.Background()

	require.NoError(t, s.SetRemoteUserID("user1"))
	require.NoError(t, s.SaveAttempt(seedAttempt("a1", "1", "x", 100)))
	require.NoError(t, s.SaveAttempt(seedAttempt("a2", "2", "y", 200)))

	adapter, err := remote.New(db, "user1")
	require.NoError(t, err)
	waitUntil(t, func() bool {
		snap, err := adapter.FetchAll(ctx)
		return err == nil && len(snap.Attempts) == 2
	})

	require.NoError(t, s.ClearQuestionListStats([]string{"1"}))

	waitUntil(t, func() bool {
		snap, err := adapter.FetchAll(ctx)
		return err == nil && len(snap.Attempts) == 1
	})
	snap, err := adapter.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a2", snap.Attempts[0].ID)
}
