package storage

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/echo-cqy/codeling/pkg/errors"

	"github.com/echo-cqy/codeling/internal/models"
	"github.com/echo-cqy/codeling/internal/remote"
	"github.com/echo-cqy/codeling/internal/stats"
)

// PullSummary reports what a pull found remotely so the caller can drive the
// migration decision.
type PullSummary struct {
	HasAnyRemoteData bool `json:"hasAnyRemoteData"`
	QuestionsCount   int  `json:"questionsCount"`
	AttemptsCount    int  `json:"attemptsCount"`
	DraftsCount      int  `json:"draftsCount"`
	HasProfile       bool `json:"hasProfile"`
	HasAIConfig      bool `json:"hasAiConfig"`
}

// BindResult is what BindAndPull hands back to the sign-in flow.
type BindResult struct {
	Pull               PullSummary `json:"pull"`
	MigrationAvailable bool        `json:"migrationAvailable"`
}

// SetRemoteUserID transitions the remote binding. A non-empty id moves
// Unbound -> Bound, instantiating an adapter scoped to that user; empty moves
// Bound -> Unbound, discarding the adapter. No data is deleted either way.
func (s *Service) SetRemoteUserID(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID == "" {
		if s.remote != nil {
			s.log.Info().Str("user", s.remote.UserID()).Msg("remote unbound")
		}
		s.remote = nil
		s.pending = nil
		return nil
	}

	adapter, err := remote.New(s.db, userID)
	if err != nil {
		return err
	}
	s.remote = adapter
	s.log.Info().Str("user", userID).Msg("remote bound")
	return nil
}

// ExportLocalData snapshots local state. The sign-in flow captures it before
// binding so the migration offer compares against pre-sync data.
func (s *Service) ExportLocalData() (models.LocalSnapshot, error) {
	return s.local.ExportLocalData()
}

// PullRemote fetches the remote snapshot and merges it into the local store.
// Unbound pulls are a no-op returning an empty summary. Merge policy:
//   - remote attempts (if any, or a remote profile/ai config) replace local
//     history, sorted ascending by timestamp, counters recomputed
//   - profile/aiConfig replace local only when remote has a value
//   - remote questions, when non-empty, full-replace the local catalog
//   - remote drafts, when non-empty, clear-then-write the local draft keyspace
//
// A fetch failure leaves local state exactly as it was.
func (s *Service) PullRemote(ctx context.Context) (PullSummary, error) {
	r := s.boundRemote()
	if r == nil {
		return PullSummary{}, nil
	}

	snap, err := r.FetchAll(ctx)
	if err != nil {
		return PullSummary{}, err
	}

	summary := PullSummary{
		HasAnyRemoteData: snap.HasAnyData(),
		QuestionsCount:   len(snap.Questions),
		AttemptsCount:    len(snap.Attempts),
		DraftsCount:      len(snap.Drafts),
		HasProfile:       snap.Profile != nil,
		HasAIConfig:      snap.AIConfig != nil,
	}

	if snap.Profile != nil || snap.AIConfig != nil || len(snap.Attempts) > 0 {
		st := s.local.GetStoredStats()

		history := append([]models.Attempt(nil), snap.Attempts...)
		sort.Slice(history, func(i, j int) bool { return history[i].Timestamp < history[j].Timestamp })
		st.History = history
		stats.Recompute(&st)

		if snap.Profile != nil {
			st.Profile = snap.Profile
		}
		if snap.AIConfig != nil {
			st.AIConfig = snap.AIConfig
		}
		// Streak has no remote column; the local counter rides through.

		if err := s.local.SaveStats(st); err != nil {
			return summary, err
		}
	}

	if len(snap.Questions) > 0 {
		// Remote is authoritative once it holds any questions.
		if err := s.local.SaveQuestions(snap.Questions); err != nil {
			return summary, err
		}
	}

	if len(snap.Drafts) > 0 {
		if err := s.local.ReplaceDrafts(snap.Drafts); err != nil {
			return summary, err
		}
	}

	s.log.Info().
		Int("questions", summary.QuestionsCount).
		Int("attempts", summary.AttemptsCount).
		Int("drafts", summary.DraftsCount).
		Bool("hasRemoteData", summary.HasAnyRemoteData).
		Msg("pulled remote snapshot")
	return summary, nil
}

// PushLocalDataToRemote uploads a local snapshot. Profile, AI config and the
// question catalog go sequentially; attempts and drafts fan out in parallel,
// drafts stamped with the current time. All upserts, so repeat pushes are
// safe.
func (s *Service) PushLocalDataToRemote(ctx context.Context, snap models.LocalSnapshot) error {
	r := s.boundRemote()
	if r == nil {
		return apperrors.ErrRemoteUnbound
	}

	if snap.Stats.Profile != nil {
		if err := r.UpsertProfile(ctx, *snap.Stats.Profile); err != nil {
			return err
		}
	}
	if snap.Stats.AIConfig != nil {
		if err := r.UpsertAIConfig(ctx, *snap.Stats.AIConfig); err != nil {
			return err
		}
	}
	if len(snap.Questions) > 0 {
		if err := r.UpsertQuestions(ctx, snap.Questions); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, a := range snap.Stats.History {
		attempt := a
		g.Go(func() error { return r.UpsertAttempt(gctx, attempt) })
	}
	now := time.Now().UnixMilli()
	for _, d := range snap.Drafts {
		draft := d
		g.Go(func() error {
			return r.UpsertDraft(gctx, draft.QuestionID, draft.Framework, draft.Code, now)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.log.Info().
		Int("questions", len(snap.Questions)).
		Int("attempts", len(snap.Stats.History)).
		Int("drafts", len(snap.Drafts)).
		Msg("pushed local data to remote")
	return nil
}

// BindAndPull is the sign-in sequence: snapshot local state, bind the remote
// user, pull. When remote is empty but the snapshot shows progress, the
// snapshot is held and MigrationAvailable set so the caller can offer the
// one-time migration.
func (s *Service) BindAndPull(ctx context.Context, userID string) (BindResult, error) {
	snapshot, err := s.ExportLocalData()
	if err != nil {
		return BindResult{}, err
	}

	if err := s.SetRemoteUserID(userID); err != nil {
		return BindResult{}, err
	}

	summary, err := s.PullRemote(ctx)
	if err != nil {
		return BindResult{}, err
	}

	result := BindResult{Pull: summary}
	if !summary.HasAnyRemoteData && snapshot.HasProgress() {
		s.mu.Lock()
		s.pending = &snapshot
		s.mu.Unlock()
		result.MigrationAvailable = true
	}
	return result, nil
}

// Migrate pushes the snapshot held by BindAndPull, then re-pulls so the local
// cache reflects exactly what remote now holds. Push-then-mandatory-re-pull is
// the one deterministic policy; there is no push without a canonicalizing pull.
func (s *Service) Migrate(ctx context.Context) (PullSummary, error) {
	s.mu.Lock()
	snap := s.pending
	s.mu.Unlock()
	if snap == nil {
		return PullSummary{}, apperrors.BadRequest("No migration snapshot pending")
	}

	if err := s.PushLocalDataToRemote(ctx, *snap); err != nil {
		return PullSummary{}, err
	}

	summary, err := s.PullRemote(ctx)
	if err != nil {
		return summary, err
	}

	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
	return summary, nil
}

// SkipMigration discards the held snapshot. Local data stays local.
func (s *Service) SkipMigration() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

// MigrationPending reports whether a snapshot awaits the user's decision.
func (s *Service) MigrationPending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending != nil
}
