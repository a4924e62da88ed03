package services

import (
	"context"
	"time"

	"github.com/wordtrail-app/wordtrail_api/dto"
	"github.com/wordtrail-app/wordtrail_api/model"
)

// Store interfaces sit between the progress subsystem and PostgresService so
// the orchestration services stay testable against in-memory fakes.

// ProgressStore is the persistence contract for WordProgress records.
// SaveProgress uses an optimistic updated_at guard and returns
// shared.ErrStorageConflict on collision; ApplyBatchOutcome applies every
// mutation plus the session finalize as one transaction.
type ProgressStore interface {
	GetProgress(userID, wordID string) (*model.WordProgress, error)
	CreateProgress(p *model.WordProgress) (*model.WordProgress, error)
	SaveProgress(p *model.WordProgress) error
	DeleteProgress(userID, wordID string) error
	ListProgress(userID string, f dto.ProgressFilter) ([]model.WordProgress, int, error)
	SelectBatchCandidates(userID string, size int) ([]model.WordProgress, error)
	MarkOverdueForReview(now time.Time) (int64, error)
	ApplyBatchOutcome(session *model.StudySession, progress []*model.WordProgress) error
}

// SessionStore persists study sessions and their per-question details.
type SessionStore interface {
	CreateSession(s *model.StudySession) (*model.StudySession, error)
	GetSession(sessionID string) (*model.StudySession, error)
	AddSessionDetail(d *model.SessionDetail) error
	ListSessionDetails(sessionID string) ([]model.SessionDetail, error)
}

// WordCatalog is the read-only catalog surface consumed by the progress
// subsystem.
type WordCatalog interface {
	WordExists(wordID string) (bool, error)
	GetWord(wordID string) (*model.Word, error)
	GetWords(wordIDs []string) ([]model.Word, error)
	RandomWords(excludeIDs []string, limit int) ([]model.Word, error)
}

// GuideCatalog resolves curated guide word sets.
type GuideCatalog interface {
	GetGuide(guideID string) (*model.Guide, error)
	GuideWordIDs(guideID string) ([]string, error)
}

// StreakStore persists per-user streak counters.
type StreakStore interface {
	GetStreak(userID, streakType string) (*model.Streak, error)
	CreateStreak(s *model.Streak) (*model.Streak, error)
	SaveStreak(s *model.Streak) error
}

// AnswerKeyStore holds the server-side quiz answer keys for active sessions.
// Implemented by RedisService; faked in tests.
type AnswerKeyStore interface {
	PutAnswerKey(ctx context.Context, sessionID string, key map[string]int, ttl time.Duration) error
	GetAnswerKey(ctx context.Context, sessionID string) (map[string]int, error)
	DeleteAnswerKey(ctx context.Context, sessionID string) error
}
