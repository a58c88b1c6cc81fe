// Package remote translates local entities to and from the per-user remote
// schema. Every method is scoped by the bound user id and either succeeds or
// returns an error; the storage facade decides which errors are fatal and
// which are swallowed.
package remote

import (
	"context"
	"encoding/json"
	"errors"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/echo-cqy/codeling/pkg/errors"

	"github.com/echo-cqy/codeling/internal/models"
)

// Snapshot is the remote-tier mirror of local state for one user.
type Snapshot struct {
	Profile   *models.Profile
	AIConfig  *models.AIConfig
	Questions []models.Question
	Attempts  []models.Attempt
	Drafts    []models.Draft
}

// HasAnyData reports whether anything at all exists remotely for this user.
func (s *Snapshot) HasAnyData() bool {
	return s.Profile != nil || s.AIConfig != nil ||
		len(s.Questions) > 0 || len(s.Attempts) > 0 || len(s.Drafts) > 0
}

// Adapter is a remote store client bound to one user id.
type Adapter struct {
	db     *gorm.DB
	userID string
}

// New binds an adapter to a user. A nil db means the remote tier was never
// configured; surfacing that here keeps the facade's bind path honest.
func New(db *gorm.DB, userID string) (*Adapter, error) {
	if db == nil {
		return nil, apperrors.ErrRemoteNotConfigured
	}
	if userID == "" {
		return nil, errors.New("remote adapter requires a user id")
	}
	return &Adapter{db: db, userID: userID}, nil
}

// UserID returns the bound user id.
func (a *Adapter) UserID() string {
	return a.userID
}

func marshalJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

func questionToRow(userID string, q models.Question) models.RemoteQuestion {
	return models.RemoteQuestion{
		UserID:      userID,
		ID:          q.ID,
		Title:       q.Title,
		Difficulty:  string(q.Difficulty),
		Description: q.Description,
		Category:    q.Category,
		Tags:        marshalJSON(q.Tags),
		React:       marshalJSON(q.React),
		Vue:         marshalJSON(q.Vue),
		IsStarred:   q.IsStarred,
		CreatedAt:   q.CreatedAt,
	}
}

func rowToQuestion(r models.RemoteQuestion) models.Question {
	q := models.Question{
		ID:          r.ID,
		Title:       r.Title,
		Difficulty:  models.Difficulty(r.Difficulty),
		Description: r.Description,
		Category:    r.Category,
		Tags:        []string{},
		IsStarred:   r.IsStarred,
		CreatedAt:   r.CreatedAt,
	}
	if r.Tags != "" {
		var tags []string
		if err := json.Unmarshal([]byte(r.Tags), &tags); err == nil && tags != nil {
			q.Tags = tags
		}
	}
	if r.React != "" {
		json.Unmarshal([]byte(r.React), &q.React)
	}
	if r.Vue != "" {
		json.Unmarshal([]byte(r.Vue), &q.Vue)
	}
	return q
}

func attemptToRow(userID string, a models.Attempt) models.RemoteAttempt {
	return models.RemoteAttempt{
		UserID:     userID,
		ID:         a.ID,
		QuestionID: a.QuestionID,
		Framework:  string(a.Framework),
		Code:       a.Code,
		Timestamp:  a.Timestamp,
		Status:     string(a.Status),
		Name:       a.Name,
		IsStarred:  a.IsStarred,
	}
}

func rowToAttempt(r models.RemoteAttempt) models.Attempt {
	return models.Attempt{
		ID:         r.ID,
		QuestionID: r.QuestionID,
		Framework:  models.Framework(r.Framework),
		Code:       r.Code,
		Timestamp:  r.Timestamp,
		Status:     models.AttemptStatus(r.Status),
		Name:       r.Name,
		IsStarred:  r.IsStarred,
	}
}

// FetchAll issues the five scoped reads concurrently and maps each row set
// back to the local shape. Any one read failing aborts the whole fetch; a
// partial snapshot is worse than no snapshot.
func (a *Adapter) FetchAll(ctx context.Context) (*Snapshot, error) {
	var (
		profileRow  models.RemoteProfile
		aiRow       models.RemoteAIConfig
		questionRws []models.RemoteQuestion
		attemptRows []models.RemoteAttempt
		draftRows   []models.RemoteDraft
		hasProfile  bool
		hasAI       bool
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := a.db.WithContext(gctx).Where("user_id = ?", a.userID).First(&profileRow).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		hasProfile = err == nil
		return err
	})
	g.Go(func() error {
		err := a.db.WithContext(gctx).Where("user_id = ?", a.userID).First(&aiRow).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		hasAI = err == nil
		return err
	})
	g.Go(func() error {
		return a.db.WithContext(gctx).Where("user_id = ?", a.userID).Find(&questionRws).Error
	})
	g.Go(func() error {
		return a.db.WithContext(gctx).Where("user_id = ?", a.userID).Find(&attemptRows).Error
	})
	g.Go(func() error {
		return a.db.WithContext(gctx).Where("user_id = ?", a.userID).Find(&draftRows).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	if hasProfile {
		snap.Profile = &models.Profile{
			Name:     profileRow.Name,
			Avatar:   profileRow.Avatar,
			JoinedAt: profileRow.JoinedAt,
		}
	}
	if hasAI {
		snap.AIConfig = &models.AIConfig{
			Provider: aiRow.Provider,
			Model:    aiRow.Model,
			APIKey:   aiRow.APIKey,
			BaseURL:  aiRow.BaseURL,
		}
	}
	for _, r := range questionRws {
		snap.Questions = append(snap.Questions, rowToQuestion(r))
	}
	for _, r := range attemptRows {
		snap.Attempts = append(snap.Attempts, rowToAttempt(r))
	}
	for _, r := range draftRows {
		snap.Drafts = append(snap.Drafts, models.Draft{
			QuestionID: r.QuestionID,
			Framework:  models.Framework(r.Framework),
			Code:       r.Code,
			UpdatedAt:  r.UpdatedAt,
		})
	}
	return snap, nil
}

// UpsertProfile writes the single profile row for this user.
func (a *Adapter) UpsertProfile(ctx context.Context, p models.Profile) error {
	row := models.RemoteProfile{
		UserID:   a.userID,
		Name:     p.Name,
		Avatar:   p.Avatar,
		JoinedAt: p.JoinedAt,
	}
	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

// UpsertAIConfig writes the single AI config row for this user.
func (a *Adapter) UpsertAIConfig(ctx context.Context, c models.AIConfig) error {
	row := models.RemoteAIConfig{
		UserID:   a.userID,
		Provider: c.Provider,
		Model:    c.Model,
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
	}
	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

// UpsertQuestions batch-upserts keyed by (user_id, id). Safe to call
// repeatedly with the same question.
func (a *Adapter) UpsertQuestions(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	rows := make([]models.RemoteQuestion, len(questions))
	for i, q := range questions {
		rows[i] = questionToRow(a.userID, q)
	}
	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "id"}},
		UpdateAll: true,
	}).Create(&rows).Error
}

// DeleteQuestion cascades across the question row, its attempts and its
// drafts, as three parallel deletes. If one fails the others may already have
// succeeded; the caller observes the first error and local state is unaffected.
func (a *Adapter) DeleteQuestion(ctx context.Context, questionID string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.db.WithContext(gctx).
			Where("user_id = ? AND id = ?", a.userID, questionID).
			Delete(&models.RemoteQuestion{}).Error
	})
	g.Go(func() error {
		return a.db.WithContext(gctx).
			Where("user_id = ? AND question_id = ?", a.userID, questionID).
			Delete(&models.RemoteAttempt{}).Error
	})
	g.Go(func() error {
		return a.db.WithContext(gctx).
			Where("user_id = ? AND question_id = ?", a.userID, questionID).
			Delete(&models.RemoteDraft{}).Error
	})

	return g.Wait()
}

// UpsertAttempt writes one attempt row keyed by (user_id, id).
func (a *Adapter) UpsertAttempt(ctx context.Context, attempt models.Attempt) error {
	row := attemptToRow(a.userID, attempt)
	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

// UpdateAttempt patches only the provided fields of an attempt row. A patch
// with no fields is a no-op.
func (a *Adapter) UpdateAttempt(ctx context.Context, attemptID string, patch models.AttemptPatch) error {
	payload := map[string]interface{}{}
	if patch.Code != nil {
		payload["code"] = *patch.Code
	}
	if patch.Status != nil {
		payload["status"] = string(*patch.Status)
	}
	if patch.Name != nil {
		payload["name"] = *patch.Name
	}
	if patch.IsStarred != nil {
		payload["is_starred"] = *patch.IsStarred
	}
	if patch.Timestamp != nil {
		payload["timestamp"] = *patch.Timestamp
	}
	if len(payload) == 0 {
		return nil
	}

	return a.db.WithContext(ctx).Model(&models.RemoteAttempt{}).
		Where("user_id = ? AND id = ?", a.userID, attemptID).
		Updates(payload).Error
}

// DeleteAttempt removes one attempt row.
func (a *Adapter) DeleteAttempt(ctx context.Context, attemptID string) error {
	return a.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", a.userID, attemptID).
		Delete(&models.RemoteAttempt{}).Error
}

// UpsertDraft writes the single-slot draft row, last write wins.
func (a *Adapter) UpsertDraft(ctx context.Context, questionID string, framework models.Framework, code string, updatedAt int64) error {
	row := models.RemoteDraft{
		UserID:     a.userID,
		QuestionID: questionID,
		Framework:  string(framework),
		Code:       code,
		UpdatedAt:  updatedAt,
	}
	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "question_id"}, {Name: "framework"}},
		UpdateAll: true,
	}).Create(&row).Error
}

// DeleteDraft removes the draft slot row.
func (a *Adapter) DeleteDraft(ctx context.Context, questionID string, framework models.Framework) error {
	return a.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ? AND framework = ?", a.userID, questionID, string(framework)).
		Delete(&models.RemoteDraft{}).Error
}
