package localstore

import (
	"sort"
	"time"

	"github.com/echo-cqy/codeling/internal/models"
)

// SaveDraft writes the single-slot draft for (questionID, framework). The raw
// code is the stored value; there is nothing else to keep per slot.
func (s *Store) SaveDraft(questionID string, framework models.Framework, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(draftKey(questionID, framework), []byte(code))
}

// GetDraft returns the draft code, ok=false when no draft exists.
func (s *Store) GetDraft(questionID string, framework models.Framework) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, found, err := s.get(draftKey(questionID, framework))
	if err != nil || !found {
		return "", false
	}
	return string(data), true
}

// ClearDraft removes the draft slot.
func (s *Store) ClearDraft(questionID string, framework models.Framework) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delete(draftKey(questionID, framework))
}

// ListDrafts reconstructs every draft by scanning the draft keyspace. Used by
// ExportLocalData and the migration push. UpdatedAt is stamped at read time:
// the local slot stores only the code.
func (s *Store) ListDrafts() ([]models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listDraftsLocked()
}

func (s *Store) listDraftsLocked() ([]models.Draft, error) {
	keys, err := s.keysWithPrefix(draftPrefix)
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	drafts := make([]models.Draft, 0, len(keys))
	for _, key := range keys {
		qid, fw, ok := parseDraftKey(key)
		if !ok {
			s.log.Warn().Str("key", key).Msg("skipping unparseable draft key")
			continue
		}
		data, found, err := s.get(key)
		if err != nil || !found {
			continue
		}
		drafts = append(drafts, models.Draft{
			QuestionID: qid,
			Framework:  fw,
			Code:       string(data),
			UpdatedAt:  now,
		})
	}
	sort.Slice(drafts, func(i, j int) bool {
		if drafts[i].QuestionID != drafts[j].QuestionID {
			return drafts[i].QuestionID < drafts[j].QuestionID
		}
		return drafts[i].Framework < drafts[j].Framework
	})
	return drafts, nil
}

// ReplaceDrafts clears every local draft slot and writes the given set. The
// pull merge uses it so local never retains a draft absent remotely once a
// pull with drafts occurs.
func (s *Store) ReplaceDrafts(drafts []models.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.keysWithPrefix(draftPrefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := s.delete(k); err != nil {
			return err
		}
	}
	for _, d := range drafts {
		if err := s.set(draftKey(d.QuestionID, d.Framework), []byte(d.Code)); err != nil {
			return err
		}
	}
	return nil
}

// ExportLocalData snapshots the full local state: language, catalog, stats and
// every draft. The sync flow captures this before binding a remote user.
func (s *Store) ExportLocalData() (models.LocalSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts, err := s.listDraftsLocked()
	if err != nil {
		return models.LocalSnapshot{}, err
	}

	lang := models.LanguageEN
	if data, found, err := s.get(keyLanguage); err == nil && found {
		lang = models.Language(data)
	}

	return models.LocalSnapshot{
		Language:  lang,
		Questions: s.questionsLocked(),
		Stats:     s.statsLocked(),
		Drafts:    drafts,
	}, nil
}
