// Package storage is the single entry point the rest of the application uses
// to read and mutate persisted state. Writes are local-first: the local store
// operation runs synchronously and its result is what callers see; when a
// remote user is bound, the matching remote write is fired asynchronously and
// its failure is logged, never propagated.
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/echo-cqy/codeling/internal/localstore"
	"github.com/echo-cqy/codeling/internal/models"
	"github.com/echo-cqy/codeling/internal/remote"
	"github.com/echo-cqy/codeling/internal/stats"
	"github.com/echo-cqy/codeling/pkg/logger"
)

const mirrorTimeout = 15 * time.Second

// Service composes the local store, the statistics derivation and the remote
// adapter. db may be nil when DATABASE_URL is unset; binding then fails with
// ErrRemoteNotConfigured but everything local keeps working.
type Service struct {
	local *localstore.Store
	db    *gorm.DB
	log   zerolog.Logger

	mu      sync.RWMutex
	remote  *remote.Adapter
	pending *models.LocalSnapshot

	debounce *draftDebouncer

	// wg tracks in-flight mirror goroutines so Close can drain them.
	wg sync.WaitGroup
}

// NewService builds the facade. debounceWindow <= 0 uses the default.
func NewService(local *localstore.Store, db *gorm.DB, debounceWindow time.Duration) *Service {
	s := &Service{
		local: local,
		db:    db,
		log:   logger.With("storage"),
	}
	s.debounce = newDraftDebouncer(debounceWindow, s.SaveDraft)
	return s
}

// Close flushes pending draft autosaves and waits for in-flight mirrors.
func (s *Service) Close() {
	s.debounce.Flush()
	s.wg.Wait()
}

// Local exposes the underlying store for read paths that need no remote
// involvement (history, latest-code, hidden questions).
func (s *Service) Local() *localstore.Store {
	return s.local
}

// boundRemote returns the currently bound adapter, nil when unbound.
func (s *Service) boundRemote() *remote.Adapter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remote
}

// mirror fires a best-effort remote write. It never blocks the caller and
// never reports failure: the local write already succeeded and must stand.
func (s *Service) mirror(op string, fn func(ctx context.Context, r *remote.Adapter) error) {
	r := s.boundRemote()
	if r == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := fn(ctx, r); err != nil {
			s.log.Warn().Err(err).Str("op", op).Str("user", r.UserID()).Msg("remote mirror failed")
		}
	}()
}

// --- language / preferences ---

func (s *Service) GetLanguage() models.Language {
	return s.local.GetLanguage()
}

func (s *Service) SetLanguage(lang models.Language) error {
	return s.local.SetLanguage(lang)
}

func (s *Service) GetHiddenQuestions() []string {
	return s.local.GetHiddenQuestions()
}

func (s *Service) SaveHiddenQuestions(ids []string) error {
	return s.local.SaveHiddenQuestions(ids)
}

// --- questions ---

func (s *Service) GetQuestions() []models.Question {
	return s.local.GetQuestions()
}

func (s *Service) GetQuestion(id string) (models.Question, bool) {
	return s.local.GetQuestion(id)
}

func (s *Service) SaveQuestions(questions []models.Question) error {
	if err := s.local.SaveQuestions(questions); err != nil {
		return err
	}
	s.mirror("upsertQuestions", func(ctx context.Context, r *remote.Adapter) error {
		return r.UpsertQuestions(ctx, questions)
	})
	return nil
}

func (s *Service) AddQuestion(q models.Question) error {
	if err := s.local.AddQuestion(q); err != nil {
		return err
	}
	s.mirror("upsertQuestion", func(ctx context.Context, r *remote.Adapter) error {
		return r.UpsertQuestions(ctx, []models.Question{q})
	})
	return nil
}

func (s *Service) UpdateQuestionContent(id string, patch models.QuestionContentPatch) (models.Question, bool, error) {
	updated, found, err := s.local.UpdateQuestionContent(id, patch)
	if err != nil || !found {
		return updated, found, err
	}
	s.mirror("upsertQuestion", func(ctx context.Context, r *remote.Adapter) error {
		return r.UpsertQuestions(ctx, []models.Question{updated})
	})
	return updated, true, nil
}

func (s *Service) ToggleQuestionStar(id string) (models.Question, bool, error) {
	updated, found, err := s.local.ToggleQuestionStar(id)
	if err != nil || !found {
		return updated, found, err
	}
	s.mirror("upsertQuestion", func(ctx context.Context, r *remote.Adapter) error {
		return r.UpsertQuestions(ctx, []models.Question{updated})
	})
	return updated, true, nil
}

func (s *Service) DeleteQuestion(id string) error {
	s.debounce.Drop(id)
	if err := s.local.DeleteQuestion(id); err != nil {
		return err
	}
	s.mirror("deleteQuestion", func(ctx context.Context, r *remote.Adapter) error {
		return r.DeleteQuestion(ctx, id)
	})
	return nil
}

// --- attempts / stats ---

func (s *Service) GetStats() models.UserStats {
	return s.local.GetStats()
}

func (s *Service) SaveAttempt(a models.Attempt) error {
	// The local save supersedes the pending draft, so the debounced write
	// for that slot must not resurrect older code afterwards.
	s.debounce.DropSlot(a.QuestionID, a.Framework)
	if err := s.local.SaveAttempt(a); err != nil {
		return err
	}
	s.mirror("upsertAttempt", func(ctx context.Context, r *remote.Adapter) error {
		if err := r.UpsertAttempt(ctx, a); err != nil {
			return err
		}
		return r.UpsertDraft(ctx, a.QuestionID, a.Framework, a.Code, a.Timestamp)
	})
	return nil
}

func (s *Service) UpdateAttempt(id string, patch models.AttemptPatch) (models.Attempt, bool, error) {
	updated, found, err := s.local.UpdateAttempt(id, patch)
	if err != nil || !found {
		return updated, found, err
	}
	s.mirror("updateAttempt", func(ctx context.Context, r *remote.Adapter) error {
		return r.UpdateAttempt(ctx, id, patch)
	})
	return updated, true, nil
}

func (s *Service) DeleteAttempt(id string) error {
	if err := s.local.DeleteAttempt(id); err != nil {
		return err
	}
	s.mirror("deleteAttempt", func(ctx context.Context, r *remote.Adapter) error {
		return r.DeleteAttempt(ctx, id)
	})
	return nil
}

func (s *Service) GetHistoryByQuestion(questionID string, framework models.Framework) []models.Attempt {
	return s.local.GetHistoryByQuestion(questionID, framework)
}

func (s *Service) GetLatestCode(questionID string, framework models.Framework) (string, bool) {
	return s.local.GetLatestCode(questionID, framework)
}

func (s *Service) GetQuestionStats(questionID string) stats.QuestionStats {
	st := s.local.GetStats()
	return stats.ForQuestion(st.History, questionID)
}

func (s *Service) GetQuestionStatsAll() []stats.QuestionStats {
	st := s.local.GetStats()
	return stats.All(st.History)
}

func (s *Service) ClearQuestionListStats(questionIDs []string) error {
	removed, err := s.local.ClearQuestionListStats(questionIDs)
	if err != nil {
		return err
	}
	s.mirrorAttemptDeletes(removed)
	return nil
}

func (s *Service) ResetQuestionListStats(questionIDs []string) error {
	for _, id := range questionIDs {
		s.debounce.Drop(id)
	}
	removed, err := s.local.ResetQuestionListStats(questionIDs)
	if err != nil {
		return err
	}
	s.mirrorAttemptDeletes(removed)
	for _, id := range questionIDs {
		qid := id
		for _, fw := range models.Frameworks {
			framework := fw
			s.mirror("deleteDraft", func(ctx context.Context, r *remote.Adapter) error {
				return r.DeleteDraft(ctx, qid, framework)
			})
		}
	}
	return nil
}

func (s *Service) mirrorAttemptDeletes(attemptIDs []string) {
	for _, id := range attemptIDs {
		attemptID := id
		s.mirror("deleteAttempt", func(ctx context.Context, r *remote.Adapter) error {
			return r.DeleteAttempt(ctx, attemptID)
		})
	}
}

// --- profile / ai config ---

func (s *Service) SaveProfile(p models.Profile) error {
	if err := s.local.SaveProfile(p); err != nil {
		return err
	}
	s.mirror("upsertProfile", func(ctx context.Context, r *remote.Adapter) error {
		return r.UpsertProfile(ctx, p)
	})
	return nil
}

func (s *Service) SaveAIConfig(c models.AIConfig) error {
	if err := s.local.SaveAIConfig(c); err != nil {
		return err
	}
	s.mirror("upsertAIConfig", func(ctx context.Context, r *remote.Adapter) error {
		return r.UpsertAIConfig(ctx, c)
	})
	return nil
}

// --- drafts ---

// SaveDraft writes the draft slot immediately and mirrors it.
func (s *Service) SaveDraft(questionID string, framework models.Framework, code string) error {
	if err := s.local.SaveDraft(questionID, framework, code); err != nil {
		return err
	}
	now := time.Now().UnixMilli()
	s.mirror("upsertDraft", func(ctx context.Context, r *remote.Adapter) error {
		return r.UpsertDraft(ctx, questionID, framework, code, now)
	})
	return nil
}

// AutosaveDraft coalesces rapid edits: only the last edit before the idle
// window is persisted.
func (s *Service) AutosaveDraft(questionID string, framework models.Framework, code string) {
	s.debounce.Schedule(questionID, framework, code)
}

func (s *Service) GetDraft(questionID string, framework models.Framework) (string, bool) {
	return s.local.GetDraft(questionID, framework)
}

func (s *Service) ClearDraft(questionID string, framework models.Framework) error {
	s.debounce.DropSlot(questionID, framework)
	if err := s.local.ClearDraft(questionID, framework); err != nil {
		return err
	}
	s.mirror("deleteDraft", func(ctx context.Context, r *remote.Adapter) error {
		return r.DeleteDraft(ctx, questionID, framework)
	})
	return nil
}

// --- hard reset ---

// ClearAllData wipes every local key. Remote data is untouched: the escape
// hatch is for the device, not the account.
func (s *Service) ClearAllData() error {
	s.debounce.DropAll()
	return s.local.ClearAllData()
}
