package localstore

import (
	"github.com/echo-cqy/codeling/internal/models"
	"github.com/echo-cqy/codeling/internal/seeds"
	"github.com/echo-cqy/codeling/internal/stats"
)

// GetQuestions returns the catalog. A missing key is re-seeded and persisted;
// a corrupt value falls back to the default catalog without overwriting what
// is on disk, so a later fix can still recover the user's data.
func (s *Store) GetQuestions() []models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questionsLocked()
}

func (s *Store) questionsLocked() []models.Question {
	var questions []models.Question
	found, corrupt, err := s.getJSON(keyQuestions, &questions)
	if err != nil {
		s.log.Error().Err(err).Msg("reading question catalog")
		return seeds.DefaultQuestions()
	}
	if corrupt {
		return seeds.DefaultQuestions()
	}
	if !found {
		questions = seeds.DefaultQuestions()
		if err := s.setJSON(keyQuestions, questions); err != nil {
			s.log.Error().Err(err).Msg("seeding question catalog")
		}
	}
	return questions
}

// SaveQuestions full-replaces the catalog.
func (s *Store) SaveQuestions(questions []models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setJSON(keyQuestions, questions)
}

// AddQuestion prepends q so new items sort first.
func (s *Store) AddQuestion(q models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions := s.questionsLocked()
	return s.setJSON(keyQuestions, append([]models.Question{q}, questions...))
}

// GetQuestion looks up one question by id.
func (s *Store) GetQuestion(id string) (models.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range s.questionsLocked() {
		if q.ID == id {
			return q, true
		}
	}
	return models.Question{}, false
}

// DeleteQuestion removes the question and cascades: every attempt for it is
// dropped from history and both framework drafts are removed.
func (s *Store) DeleteQuestion(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions := s.questionsLocked()
	kept := questions[:0]
	for _, q := range questions {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	if err := s.setJSON(keyQuestions, kept); err != nil {
		return err
	}

	st := s.statsLocked()
	filtered := st.History[:0]
	for _, a := range st.History {
		if a.QuestionID != id {
			filtered = append(filtered, a)
		}
	}
	st.History = filtered
	stats.Recompute(&st)
	if err := s.setJSON(keyStats, st); err != nil {
		return err
	}

	for _, fw := range models.Frameworks {
		if err := s.delete(draftKey(id, fw)); err != nil {
			return err
		}
	}
	return nil
}

// UpdateQuestionContent applies a content edit and captures the pristine
// snapshot the first time each piece is edited. Once OriginalX is set it is
// never overwritten, so it always reflects import-time content.
func (s *Store) UpdateQuestionContent(id string, patch models.QuestionContentPatch) (models.Question, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions := s.questionsLocked()
	var updated models.Question
	foundIdx := -1
	for i := range questions {
		if questions[i].ID != id {
			continue
		}
		q := &questions[i]
		if patch.Description != nil {
			if q.OriginalDescription == nil {
				orig := q.Description
				q.OriginalDescription = &orig
			}
			q.Description = *patch.Description
		}
		if patch.React != nil {
			if q.OriginalReact == nil {
				orig := q.React
				q.OriginalReact = &orig
			}
			q.React = *patch.React
		}
		if patch.Vue != nil {
			if q.OriginalVue == nil {
				orig := q.Vue
				q.OriginalVue = &orig
			}
			q.Vue = *patch.Vue
		}
		updated = *q
		foundIdx = i
		break
	}
	if foundIdx < 0 {
		return models.Question{}, false, nil
	}
	if err := s.setJSON(keyQuestions, questions); err != nil {
		return models.Question{}, false, err
	}
	return updated, true, nil
}

// ToggleQuestionStar flips the star on a question and returns the new value.
func (s *Store) ToggleQuestionStar(id string) (models.Question, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions := s.questionsLocked()
	for i := range questions {
		if questions[i].ID == id {
			questions[i].IsStarred = !questions[i].IsStarred
			if err := s.setJSON(keyQuestions, questions); err != nil {
				return models.Question{}, false, err
			}
			return questions[i], true, nil
		}
	}
	return models.Question{}, false, nil
}
