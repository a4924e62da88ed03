package dto

import (
	"time"

	"github.com/wordtrail-app/wordtrail_api/srs"
)

type StartBatchRequest struct {
	WordIDs []string `json:"word_ids" validate:"required,len=3,dive,required"`
}

func (r StartBatchRequest) Validate() error {
	return GetValidator().Struct(r)
}

type BatchItem struct {
	WordID      string     `json:"word_id"`
	Term        string     `json:"term"`
	Translation string     `json:"translation"`
	Example     string     `json:"example,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Status      srs.Status `json:"status"`
}

type BatchSelectionResponse struct {
	Items []BatchItem `json:"items"`
}

// QuizQuestion is what the client sees: options only, never the correct
// index. The answer key stays server-side for the session's lifetime.
type QuizQuestion struct {
	WordID   string   `json:"word_id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type SessionResponse struct {
	SessionID      string         `json:"session_id"`
	SessionType    string         `json:"session_type"`
	StartedAt      time.Time      `json:"started_at"`
	TotalQuestions int            `json:"total_questions"`
	Items          []BatchItem    `json:"items,omitempty"`
	Questions      []QuizQuestion `json:"questions,omitempty"`
}

type PracticeAnswerRequest struct {
	WordID         string `json:"word_id" validate:"required"`
	Answer         string `json:"answer" validate:"required"`
	ResponseTimeMs int    `json:"response_time_ms" validate:"gte=0"`
}

func (r PracticeAnswerRequest) Validate() error {
	return GetValidator().Struct(r)
}

type QuizAnswerRequest struct {
	WordID         string `json:"word_id" validate:"required"`
	OptionIndex    int    `json:"option_index" validate:"gte=0,lte=3"`
	ResponseTimeMs int    `json:"response_time_ms" validate:"gte=0"`
}

func (r QuizAnswerRequest) Validate() error {
	return GetValidator().Struct(r)
}

type AnswerResultResponse struct {
	WordID        string `json:"word_id"`
	WasCorrect    bool   `json:"was_correct"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
}

type BatchOutcomeItem struct {
	WordID     string     `json:"word_id"`
	Status     srs.Status `json:"status"`
	NextReview *time.Time `json:"next_review_at,omitempty"`
}

type BatchOutcome struct {
	SessionID        string             `json:"session_id"`
	Learned          []BatchOutcomeItem `json:"learned"`
	StillLearning    []BatchOutcomeItem `json:"still_learning"`
	CorrectAnswers   int                `json:"correct_answers"`
	IncorrectAnswers int                `json:"incorrect_answers"`
}
