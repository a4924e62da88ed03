package handlers

import (
	"context"

	"github.com/wordtrail-app/wordtrail_api/dto"
)

type ProgressServiceInterface interface {
	AddWord(userID, wordID string) (*dto.WordProgressResponse, error)
	ListWords(userID string, query dto.ListWordsQuery) (*dto.WordListResponse, error)
	UpdateWord(userID, wordID string, req dto.UpdateWordRequest) (*dto.WordProgressResponse, error)
	DeleteWord(userID, wordID string) error
	TriggerReview(userID, wordID string, req dto.TriggerReviewRequest) (*dto.WordProgressResponse, error)
	RecordReviewAnswer(userID, wordID string, req dto.ReviewAnswerRequest) (*dto.ReviewAnswerResponse, error)
}

type BatchServiceInterface interface {
	SelectBatch(userID string) (*dto.BatchSelectionResponse, error)
	StartBatch(ctx context.Context, userID string, req dto.StartBatchRequest) (*dto.SessionResponse, error)
	RecordPracticeResult(userID, sessionID string, req dto.PracticeAnswerRequest) (*dto.AnswerResultResponse, error)
	RecordQuizResult(ctx context.Context, userID, sessionID string, req dto.QuizAnswerRequest) (*dto.AnswerResultResponse, error)
	CompleteBatch(ctx context.Context, userID, sessionID string) (*dto.BatchOutcome, error)
}

type GuideServiceInterface interface {
	GetGuide(guideID string) (*dto.GuideResponse, error)
	Enqueue(userID, guideID string) (*dto.EnqueueGuideResponse, error)
}

type StreakServiceInterface interface {
	GetStreak(userID, streakType string) (*dto.StreakResponse, error)
}

type SweepServiceInterface interface {
	RunNow() (int64, error)
}
