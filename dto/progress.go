package dto

import (
	"time"

	"github.com/wordtrail-app/wordtrail_api/srs"
)

type AddWordRequest struct {
	WordID string `json:"word_id" validate:"required"`
}

func (r AddWordRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateWordRequest struct {
	IsFavorite *bool   `json:"is_favorite"`
	UserNotes  *string `json:"user_notes"`
}

type ListWordsQuery struct {
	Status   string `query:"status"`
	Category string `query:"category"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}

// ProgressFilter is the store-level selection used by ListWords.
type ProgressFilter struct {
	Status   srs.Status
	Category string
	Limit    int
	Offset   int
}

type WordProgressResponse struct {
	WordID             string     `json:"word_id"`
	Term               string     `json:"term,omitempty"`
	Translation        string     `json:"translation,omitempty"`
	Category           string     `json:"category,omitempty"`
	Status             srs.Status `json:"status"`
	TimesSeen          int        `json:"times_seen"`
	TimesCorrect       int        `json:"times_correct"`
	TimesIncorrect     int        `json:"times_incorrect"`
	EaseFactor         float64    `json:"ease_factor"`
	RepetitionInterval int        `json:"repetition_interval"`
	NextReviewAt       *time.Time `json:"next_review_at,omitempty"`
	FirstLearnedAt     *time.Time `json:"first_learned_at,omitempty"`
	LastPracticedAt    *time.Time `json:"last_practiced_at,omitempty"`
	AddedAt            time.Time  `json:"added_at"`
	IsFavorite         bool       `json:"is_favorite"`
	UserNotes          string     `json:"user_notes,omitempty"`
}

type WordListResponse struct {
	Words  []WordProgressResponse `json:"words"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

type TriggerReviewRequest struct {
	Mode          string `json:"mode" validate:"required,oneof=immediate scheduled"`
	ScheduledDays int    `json:"scheduled_days" validate:"gte=0"`
}

func (r TriggerReviewRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ReviewAnswerRequest struct {
	Answer         string `json:"answer" validate:"required"`
	ResponseTimeMs int    `json:"response_time_ms" validate:"gte=0"`
}

func (r ReviewAnswerRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ReviewAnswerResponse struct {
	WordID       string               `json:"word_id"`
	WasCorrect   bool                 `json:"was_correct"`
	Progress     WordProgressResponse `json:"progress"`
	NextReviewAt *time.Time           `json:"next_review_at,omitempty"`
}

type StreakResponse struct {
	StreakType       string     `json:"streak_type"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
	StreakStartDate  *time.Time `json:"streak_start_date,omitempty"`
}
