package models

import "time"

// Remote row models. Each table is scoped by a user_id column; conflict
// targets match the composite unique indexes declared here. Tags and the
// per-framework code pairs travel as JSON text so the schema stays portable
// between Postgres and the SQLite test databases.

type RemoteUser struct {
	ID           string    `gorm:"primaryKey;type:text" json:"id"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (RemoteUser) TableName() string {
	return "codeling_users"
}

type RemoteProfile struct {
	UserID   string `gorm:"primaryKey;column:user_id;type:text" json:"userId"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	JoinedAt int64  `gorm:"column:joined_at" json:"joinedAt"`
}

func (RemoteProfile) TableName() string {
	return "codeling_profiles"
}

type RemoteAIConfig struct {
	UserID   string `gorm:"primaryKey;column:user_id;type:text" json:"userId"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	APIKey   string `gorm:"column:api_key" json:"-"`
	BaseURL  string `gorm:"column:base_url" json:"baseUrl"`
}

func (RemoteAIConfig) TableName() string {
	return "codeling_ai_config"
}

type RemoteQuestion struct {
	UserID      string `gorm:"primaryKey;column:user_id;type:text" json:"userId"`
	ID          string `gorm:"primaryKey;type:text" json:"id"`
	Title       string `json:"title"`
	Difficulty  string `json:"difficulty"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `json:"category"`
	Tags        string `gorm:"type:text" json:"tags"`  // JSON string array
	React       string `gorm:"type:text" json:"react"` // JSON {initial, solution}
	Vue         string `gorm:"type:text" json:"vue"`
	IsStarred   bool   `gorm:"column:is_starred" json:"isStarred"`
	CreatedAt   int64  `gorm:"column:created_at" json:"createdAt"`
}

func (RemoteQuestion) TableName() string {
	return "codeling_questions"
}

type RemoteAttempt struct {
	UserID     string `gorm:"primaryKey;column:user_id;type:text" json:"userId"`
	ID         string `gorm:"primaryKey;type:text" json:"id"`
	QuestionID string `gorm:"column:question_id;index" json:"questionId"`
	Framework  string `json:"framework"`
	Code       string `gorm:"type:text" json:"code"`
	Timestamp  int64  `json:"timestamp"`
	Status     string `json:"status"`
	Name       string `json:"name"`
	IsStarred  bool   `gorm:"column:is_starred" json:"isStarred"`
}

func (RemoteAttempt) TableName() string {
	return "codeling_attempts"
}

type RemoteDraft struct {
	UserID     string `gorm:"primaryKey;column:user_id;type:text" json:"userId"`
	QuestionID string `gorm:"primaryKey;column:question_id;type:text" json:"questionId"`
	Framework  string `gorm:"primaryKey;type:text" json:"framework"`
	Code       string `gorm:"type:text" json:"code"`
	UpdatedAt  int64  `gorm:"column:updated_at" json:"updatedAt"`
}

func (RemoteDraft) TableName() string {
	return "codeling_drafts"
}

// RemoteModels lists every synced table for AutoMigrate.
var RemoteModels = []interface{}{
	&RemoteUser{},
	&RemoteProfile{},
	&RemoteAIConfig{},
	&RemoteQuestion{},
	&RemoteAttempt{},
	&RemoteDraft{},
}
