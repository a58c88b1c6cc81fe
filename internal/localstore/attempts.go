package localstore

import (
	"sort"
	"time"

	"github.com/echo-cqy/codeling/internal/models"
	"github.com/echo-cqy/codeling/internal/stats"
)

func defaultProfile() *models.Profile {
	return &models.Profile{
		Name:     "Sweet Coder",
		Avatar:   "🍭",
		JoinedAt: time.Now().UnixMilli(),
	}
}

func defaultAIConfig() *models.AIConfig {
	return &models.AIConfig{
		Provider: "gemini",
		Model:    "gemini-2.5-flash",
	}
}

// statsLocked reads UserStats, falling back to zero-value stats on a missing
// or corrupt blob. Nested defaults are NOT filled in here: persisting the
// defaults back would turn them into user data.
func (s *Store) statsLocked() models.UserStats {
	var st models.UserStats
	found, corrupt, err := s.getJSON(keyStats, &st)
	if err != nil {
		s.log.Error().Err(err).Msg("reading user stats")
		return models.UserStats{History: []models.Attempt{}}
	}
	if !found || corrupt {
		return models.UserStats{History: []models.Attempt{}}
	}
	if st.History == nil {
		st.History = []models.Attempt{}
	}
	return st
}

// GetStats returns stored stats merged over defaults so callers never see a
// nil profile or AI config.
func (s *Store) GetStats() models.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.statsLocked()
	if st.Profile == nil {
		st.Profile = defaultProfile()
	}
	if st.AIConfig == nil {
		st.AIConfig = defaultAIConfig()
	}
	return st
}

// GetStoredStats returns the stats exactly as persisted, without filling the
// profile/aiConfig defaults. The pull merge uses it so a remote-null field
// keeps the stored local value rather than a freshly minted default.
func (s *Store) GetStoredStats() models.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked()
}

// SaveStats full-replaces the stats blob. The sync facade uses it to persist
// a merged pull result.
func (s *Store) SaveStats(st models.UserStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.History == nil {
		st.History = []models.Attempt{}
	}
	return s.setJSON(keyStats, st)
}

// SaveAttempt appends to history, recomputes the counters, persists, and
// overwrites the draft for that (question, framework): an explicit save always
// supersedes the in-progress buffer.
func (s *Store) SaveAttempt(a models.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.statsLocked()
	st.History = append(st.History, a)
	stats.Recompute(&st)
	if err := s.setJSON(keyStats, st); err != nil {
		return err
	}
	return s.set(draftKey(a.QuestionID, a.Framework), []byte(a.Code))
}

// UpdateAttempt applies the provided fields to the attempt with the given id.
func (s *Store) UpdateAttempt(id string, patch models.AttemptPatch) (models.Attempt, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.statsLocked()
	for i := range st.History {
		if st.History[i].ID != id {
			continue
		}
		patch.Apply(&st.History[i])
		if err := s.setJSON(keyStats, st); err != nil {
			return models.Attempt{}, false, err
		}
		return st.History[i], true, nil
	}
	return models.Attempt{}, false, nil
}

// DeleteAttempt removes one attempt by id, independent of other attempts.
func (s *Store) DeleteAttempt(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.statsLocked()
	kept := st.History[:0]
	for _, a := range st.History {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	st.History = kept
	stats.Recompute(&st)
	return s.setJSON(keyStats, st)
}

// SaveProfile replaces the profile fields within UserStats.
func (s *Store) SaveProfile(p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.statsLocked()
	st.Profile = &p
	return s.setJSON(keyStats, st)
}

// SaveAIConfig replaces the AI config fields within UserStats.
func (s *Store) SaveAIConfig(c models.AIConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.statsLocked()
	st.AIConfig = &c
	return s.setJSON(keyStats, st)
}

// GetHistoryByQuestion returns the attempts for (questionID, framework),
// newest first.
func (s *Store) GetHistoryByQuestion(questionID string, framework models.Framework) []models.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.statsLocked()
	var out []models.Attempt
	for _, a := range st.History {
		if a.QuestionID == questionID && a.Framework == framework {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out
}

// GetLatestCode resolves the editor's initial buffer: the draft if one exists,
// else the most recent attempt's code, else empty with ok=false.
func (s *Store) GetLatestCode(questionID string, framework models.Framework) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data, found, err := s.get(draftKey(questionID, framework)); err == nil && found {
		return string(data), true
	}

	st := s.statsLocked()
	var latest *models.Attempt
	for i := range st.History {
		a := &st.History[i]
		if a.QuestionID != questionID || a.Framework != framework {
			continue
		}
		if latest == nil || a.Timestamp > latest.Timestamp {
			latest = a
		}
	}
	if latest == nil {
		return "", false
	}
	return latest.Code, true
}

// ClearQuestionListStats removes every attempt for the given question ids and
// recomputes the counters. The questions themselves are untouched. Returns the
// ids of the removed attempts so the caller can mirror the deletes.
func (s *Store) ClearQuestionListStats(questionIDs []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearListStatsLocked(questionIDs)
}

func (s *Store) clearListStatsLocked(questionIDs []string) ([]string, error) {
	drop := make(map[string]struct{}, len(questionIDs))
	for _, id := range questionIDs {
		drop[id] = struct{}{}
	}

	st := s.statsLocked()
	var removed []string
	kept := st.History[:0]
	for _, a := range st.History {
		if _, ok := drop[a.QuestionID]; ok {
			removed = append(removed, a.ID)
		} else {
			kept = append(kept, a)
		}
	}
	st.History = kept
	stats.Recompute(&st)
	if err := s.setJSON(keyStats, st); err != nil {
		return nil, err
	}
	return removed, nil
}

// ResetQuestionListStats clears the attempts like ClearQuestionListStats and
// additionally drops the drafts for the affected questions, returning the
// question fully to its pristine state.
func (s *Store) ResetQuestionListStats(questionIDs []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.clearListStatsLocked(questionIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range questionIDs {
		for _, fw := range models.Frameworks {
			if err := s.delete(draftKey(id, fw)); err != nil {
				return nil, err
			}
		}
	}
	return removed, nil
}
