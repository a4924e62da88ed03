package model

import (
	"time"

	"github.com/wordtrail-app/wordtrail_api/srs"
)

// WordProgress is the per-user, per-word learning state. Unique on
// (user_id, word_id); that pair is the serialization boundary for concurrent
// writers. Status comes out of srs.Transition only, EaseFactor and
// RepetitionInterval out of srs.NextReview or the initial defaults.
type WordProgress struct {
	ID     string     `json:"id" gorm:"primaryKey"`
	UserID string     `json:"user_id" gorm:"not null;index:idx_user_word,unique"`
	WordID string     `json:"word_id" gorm:"not null;index:idx_user_word,unique"`
	Status srs.Status `json:"status" gorm:"not null;index"`

	TimesSeen      int `json:"times_seen" gorm:"default:0"`
	TimesCorrect   int `json:"times_correct" gorm:"default:0"`
	TimesIncorrect int `json:"times_incorrect" gorm:"default:0"`

	EaseFactor         float64 `json:"ease_factor" gorm:"default:2.5"`
	RepetitionInterval int     `json:"repetition_interval" gorm:"default:1"` // days

	NextReviewAt    *time.Time `json:"next_review_at" gorm:"index"`
	FirstLearnedAt  *time.Time `json:"first_learned_at"`
	LastPracticedAt *time.Time `json:"last_practiced_at"`
	AddedAt         time.Time  `json:"added_at"`

	IsFavorite bool   `json:"is_favorite" gorm:"default:false"`
	UserNotes  string `json:"user_notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationship (Preload only)
	Word *Word `json:"word,omitempty" gorm:"foreignKey:WordID;references:ID"`
}

// StudySession is one batch or review activity. Created open, finalized
// exactly once, never reopened.
type StudySession struct {
	ID               string     `json:"id" gorm:"primaryKey"`
	UserID           string     `json:"user_id" gorm:"not null;index"`
	SessionType      string     `json:"session_type" gorm:"not null"` // batch, review
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at"`
	TotalQuestions   int        `json:"total_questions"`
	CorrectAnswers   int        `json:"correct_answers"`
	IncorrectAnswers int        `json:"incorrect_answers"`
	DurationSeconds  int        `json:"duration_seconds"`
	WordIDs          string     `json:"word_ids" gorm:"type:text"` // JSON array, the batch membership
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// SessionDetail is one answered question inside a session.
type SessionDetail struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	SessionID      string    `json:"session_id" gorm:"not null;index"`
	WordID         string    `json:"word_id" gorm:"not null"`
	QuestionKind   string    `json:"question_kind" gorm:"not null"` // practice, quiz, review
	WasCorrect     bool      `json:"was_correct"`
	UserAnswer     string    `json:"user_answer"`
	CorrectAnswer  string    `json:"correct_answer"`
	ResponseTimeMs int       `json:"response_time_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// Streak counts consecutive calendar days with at least one qualifying
// activity. Date granularity, one row per user and streak type.
type Streak struct {
	ID               string     `json:"id" gorm:"primaryKey"`
	UserID           string     `json:"user_id" gorm:"not null;index:idx_user_streak,unique"`
	StreakType       string     `json:"streak_type" gorm:"not null;index:idx_user_streak,unique"`
	CurrentStreak    int        `json:"current_streak" gorm:"default:0"`
	LongestStreak    int        `json:"longest_streak" gorm:"default:0"`
	LastActivityDate *time.Time `json:"last_activity_date"`
	StreakStartDate  *time.Time `json:"streak_start_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
