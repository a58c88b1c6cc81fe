package models

// Framework is one of the UI framework variants a question provides code for.
type Framework string

const (
	FrameworkReact Framework = "react"
	FrameworkVue   Framework = "vue"
)

// Frameworks lists every supported variant. Cascading deletes and draft scans
// iterate this instead of hardcoding the pair.
var Frameworks = []Framework{FrameworkReact, FrameworkVue}

// Valid reports whether f is a supported framework tag.
func (f Framework) Valid() bool {
	return f == FrameworkReact || f == FrameworkVue
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

type Language string

const (
	LanguageEN Language = "en"
	LanguageZH Language = "zh"
)

// QuestionCode is the per-framework starter/solution pair.
type QuestionCode struct {
	Initial  string `json:"initial"`
	Solution string `json:"solution"`
}

// Question is a coding challenge. The Original* fields hold pristine snapshots
// of the content as it was before the first edit; once set they are never
// overwritten, so a later revert always lands on import-time content.
type Question struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Difficulty  Difficulty   `json:"difficulty"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Tags        []string     `json:"tags"`
	React       QuestionCode `json:"react"`
	Vue         QuestionCode `json:"vue"`
	IsStarred   bool         `json:"isStarred,omitempty"`
	CreatedAt   int64        `json:"createdAt"`

	OriginalDescription *string       `json:"originalDescription,omitempty"`
	OriginalReact       *QuestionCode `json:"originalReact,omitempty"`
	OriginalVue         *QuestionCode `json:"originalVue,omitempty"`
}

// Code returns the code pair for the given framework.
func (q *Question) Code(f Framework) QuestionCode {
	if f == FrameworkVue {
		return q.Vue
	}
	return q.React
}

type AttemptStatus string

const (
	StatusPassed  AttemptStatus = "passed"
	StatusWorking AttemptStatus = "working"
	StatusHinted  AttemptStatus = "hinted"
)

// Attempt is a saved solution snapshot for one question + framework. Multiple
// attempts per (question, framework) form an append-only version history.
type Attempt struct {
	ID         string        `json:"id"`
	QuestionID string        `json:"questionId"`
	Framework  Framework     `json:"framework"`
	Code       string        `json:"code"`
	Timestamp  int64         `json:"timestamp"`
	Status     AttemptStatus `json:"status"`
	Name       string        `json:"name,omitempty"`
	IsStarred  bool          `json:"isStarred,omitempty"`
}

// Draft is the single latest unsaved code buffer for one (question, framework)
// pair. A write replaces the prior value unconditionally.
type Draft struct {
	QuestionID string    `json:"questionId"`
	Framework  Framework `json:"framework"`
	Code       string    `json:"code"`
	UpdatedAt  int64     `json:"updatedAt"`
}

type Profile struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	JoinedAt int64  `json:"joinedAt"`
}

type AIConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	APIKey   string `json:"apiKey"`
	BaseURL  string `json:"baseUrl,omitempty"`
}

// UserStats is the aggregate root for attempt history. SolvedCount and
// TotalAttempts are denormalized caches of History and must always be
// recomputable from it; stats.Recompute restores the invariant after any
// history mutation.
type UserStats struct {
	SolvedCount   int       `json:"solvedCount"`
	TotalAttempts int       `json:"totalAttempts"`
	Streak        int       `json:"streak"`
	History       []Attempt `json:"history"`
	Profile       *Profile  `json:"profile,omitempty"`
	AIConfig      *AIConfig `json:"aiConfig,omitempty"`
}

// AttemptPatch is a partial attempt update. Nil means the field was not
// provided; only provided fields are applied locally and sent remotely.
type AttemptPatch struct {
	Code      *string        `json:"code,omitempty"`
	Status    *AttemptStatus `json:"status,omitempty"`
	Name      *string        `json:"name,omitempty"`
	IsStarred *bool          `json:"isStarred,omitempty"`
	Timestamp *int64         `json:"timestamp,omitempty"`
}

// Empty reports whether the patch carries no fields.
func (p AttemptPatch) Empty() bool {
	return p.Code == nil && p.Status == nil && p.Name == nil && p.IsStarred == nil && p.Timestamp == nil
}

// Apply writes the provided fields onto a.
func (p AttemptPatch) Apply(a *Attempt) {
	if p.Code != nil {
		a.Code = *p.Code
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.IsStarred != nil {
		a.IsStarred = *p.IsStarred
	}
	if p.Timestamp != nil {
		a.Timestamp = *p.Timestamp
	}
}

// QuestionContentPatch is a partial edit of a question's authored content.
type QuestionContentPatch struct {
	Description *string       `json:"description,omitempty"`
	React       *QuestionCode `json:"react,omitempty"`
	Vue         *QuestionCode `json:"vue,omitempty"`
}

// LocalSnapshot is a full copy of local state, taken before binding a remote
// user so the migration offer can compare against what was on disk.
type LocalSnapshot struct {
	Language  Language   `json:"language"`
	Questions []Question `json:"questions"`
	Stats     UserStats  `json:"stats"`
	Drafts    []Draft    `json:"drafts"`
}

// HasProgress reports whether the snapshot contains anything worth migrating.
func (s *LocalSnapshot) HasProgress() bool {
	return len(s.Stats.History) > 0 || len(s.Drafts) > 0
}
