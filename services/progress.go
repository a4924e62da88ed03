package services

import (
	"errors"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wordtrail-app/wordtrail_api/dto"
	"github.com/wordtrail-app/wordtrail_api/model"
	"github.com/wordtrail-app/wordtrail_api/shared"
	"github.com/wordtrail-app/wordtrail_api/srs"
)

// ProgressService owns the per-word lifecycle outside of batches: tracking
// new words, listing the learning queue, manual review triggers and review
// answers.
type ProgressService struct {
	context.DefaultService

	store     ProgressStore
	sessions  SessionStore
	catalog   WordCatalog
	streakSvc *StreakService
	clock     shared.Clock
}

const PROGRESS_SVC = "progress_svc"

func (svc ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Configure(ctx *context.Context) error {
	svc.clock = shared.SystemClock{}
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressService) Start() error {
	sqlSvc := svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.store = sqlSvc
	svc.sessions = sqlSvc
	svc.catalog = sqlSvc
	svc.streakSvc = svc.Service(STREAK_SVC).(*StreakService)
	return nil
}

// AddWord starts tracking a catalog word at want_to_learn. Idempotent: a
// second call for the same pair, concurrent or not, returns the first
// caller's record.
func (svc *ProgressService) AddWord(userID, wordID string) (*dto.WordProgressResponse, error) {
	exists, err := svc.catalog.WordExists(wordID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to check catalog")
	}
	if !exists {
		return nil, shared.NewNotFoundError(nil, "Word not found in catalog")
	}

	if existing, err := svc.store.GetProgress(userID, wordID); err == nil {
		return svc.toResponse(existing), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewInternalError(err, "Failed to load progress")
	}

	now := svc.clock.Now()
	id, _ := uuid.NewV7()
	progress := &model.WordProgress{
		ID:                 id.String(),
		UserID:             userID,
		WordID:             wordID,
		Status:             srs.StatusWantToLearn,
		EaseFactor:         srs.DefaultEaseFactor,
		RepetitionInterval: srs.DefaultIntervalDays,
		AddedAt:            now,
	}

	created, err := svc.store.CreateProgress(progress)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the creation race; the other writer's record wins.
			existing, getErr := svc.store.GetProgress(userID, wordID)
			if getErr != nil {
				return nil, shared.NewInternalError(getErr, "Failed to load progress")
			}
			return svc.toResponse(existing), nil
		}
		return nil, shared.NewInternalError(err, "Failed to track word")
	}

	return svc.toResponse(created), nil
}

func (svc *ProgressService) ListWords(userID string, query dto.ListWordsQuery) (*dto.WordListResponse, error) {
	filter := dto.ProgressFilter{
		Category: query.Category,
		Limit:    query.Limit,
		Offset:   query.Offset,
	}

	if query.Status != "" {
		status := srs.Status(query.Status)
		if !status.Valid() {
			return nil, shared.NewBadRequestError(nil, "Unknown status filter")
		}
		filter.Status = status
	}

	rows, total, err := svc.store.ListProgress(userID, filter)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to list words")
	}

	words := make([]dto.WordProgressResponse, len(rows))
	for i := range rows {
		words[i] = *svc.toResponse(&rows[i])
	}

	return &dto.WordListResponse{
		Words:  words,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

func (svc *ProgressService) UpdateWord(userID, wordID string, req dto.UpdateWordRequest) (*dto.WordProgressResponse, error) {
	progress, err := svc.getProgressOr404(userID, wordID)
	if err != nil {
		return nil, err
	}

	if req.IsFavorite != nil {
		progress.IsFavorite = *req.IsFavorite
	}
	if req.UserNotes != nil {
		progress.UserNotes = *req.UserNotes
	}

	if err := svc.saveWithRetry(progress, func(p *model.WordProgress) error {
		if req.IsFavorite != nil {
			p.IsFavorite = *req.IsFavorite
		}
		if req.UserNotes != nil {
			p.UserNotes = *req.UserNotes
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return svc.toResponse(progress), nil
}

func (svc *ProgressService) DeleteWord(userID, wordID string) error {
	if err := svc.store.DeleteProgress(userID, wordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewNotFoundError(err, "Word is not tracked")
		}
		return shared.NewInternalError(err, "Failed to delete word")
	}
	return nil
}

// TriggerReview forces a word back into the review flow. Immediate mode
// transitions right away; scheduled mode only moves the due date and lets the
// sweep pick the word up when it comes due.
func (svc *ProgressService) TriggerReview(userID, wordID string, req dto.TriggerReviewRequest) (*dto.WordProgressResponse, error) {
	progress, err := svc.getProgressOr404(userID, wordID)
	if err != nil {
		return nil, err
	}

	now := svc.clock.Now()

	var apply func(p *model.WordProgress) error

	switch req.Mode {
	case shared.ReviewModeImmediate:
		apply = func(p *model.WordProgress) error {
			status, terr := srs.Transition(p.Status, srs.ManualReview())
			if terr != nil {
				return shared.NewConflictError(terr, "Word cannot be sent to review from its current status")
			}
			p.Status = status
			p.NextReviewAt = &now
			return nil
		}

	case shared.ReviewModeScheduled:
		if req.ScheduledDays < 1 {
			return nil, shared.NewBadRequestError(nil, "scheduled_days must be at least 1")
		}
		due := srs.DueAt(now, req.ScheduledDays)
		apply = func(p *model.WordProgress) error {
			p.NextReviewAt = &due
			return nil
		}

	default:
		return nil, shared.NewBadRequestError(nil, "Unknown review mode")
	}

	if err := apply(progress); err != nil {
		return nil, err
	}
	if err := svc.saveWithRetry(progress, apply); err != nil {
		return nil, err
	}

	return svc.toResponse(progress), nil
}

// RecordReviewAnswer resolves a review answer server-side, runs the
// calculator and the state machine, and persists the outcome together with a
// finalized review session.
func (svc *ProgressService) RecordReviewAnswer(userID, wordID string, req dto.ReviewAnswerRequest) (*dto.ReviewAnswerResponse, error) {
	progress, err := svc.getProgressOr404(userID, wordID)
	if err != nil {
		return nil, err
	}

	word, err := svc.catalog.GetWord(wordID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load word")
	}

	correct := answersMatch(req.Answer, word.Translation)
	now := svc.clock.Now()

	apply := func(p *model.WordProgress) error {
		result := srs.NextReview(p.EaseFactor, p.RepetitionInterval, correct)

		newStatus, terr := srs.Transition(p.Status, srs.ReviewAnswered(correct, result.IntervalDays))
		if terr != nil {
			return shared.NewConflictError(terr, "Word is not awaiting review")
		}

		due := srs.DueAt(now, result.IntervalDays)

		p.Status = newStatus
		p.EaseFactor = result.EaseFactor
		p.RepetitionInterval = result.IntervalDays
		p.NextReviewAt = &due
		p.LastPracticedAt = &now
		p.TimesSeen++
		if correct {
			p.TimesCorrect++
		} else {
			p.TimesIncorrect++
		}
		if p.FirstLearnedAt == nil && (newStatus == srs.StatusLearned || newStatus == srs.StatusMastered) {
			p.FirstLearnedAt = &now
		}
		return nil
	}

	if err := apply(progress); err != nil {
		return nil, err
	}
	if err := svc.saveWithRetry(progress, apply); err != nil {
		return nil, err
	}

	svc.recordReviewSession(userID, wordID, req, word.Translation, correct, now)

	if correct {
		svc.streakSvc.recordCorrectAnswer(userID)
	}

	return &dto.ReviewAnswerResponse{
		WordID:       wordID,
		WasCorrect:   correct,
		Progress:     *svc.toResponse(progress),
		NextReviewAt: progress.NextReviewAt,
	}, nil
}

// recordReviewSession persists the single-question review session. Session
// bookkeeping is best effort; the progress write has already committed.
func (svc *ProgressService) recordReviewSession(userID, wordID string, req dto.ReviewAnswerRequest, correctAnswer string, correct bool, now time.Time) {
	finished := now
	session := &model.StudySession{
		UserID:          userID,
		SessionType:     shared.SessionTypeReview,
		StartedAt:       now,
		FinishedAt:      &finished,
		TotalQuestions:  1,
		DurationSeconds: req.ResponseTimeMs / 1000,
	}
	if correct {
		session.CorrectAnswers = 1
	} else {
		session.IncorrectAnswers = 1
	}

	created, err := svc.sessions.CreateSession(session)
	if err != nil {
		log.WithError(err).Error("Failed to record review session")
		return
	}

	detail := &model.SessionDetail{
		SessionID:      created.ID,
		WordID:         wordID,
		QuestionKind:   shared.QuestionKindReview,
		WasCorrect:     correct,
		UserAnswer:     req.Answer,
		CorrectAnswer:  correctAnswer,
		ResponseTimeMs: req.ResponseTimeMs,
	}
	if err := svc.sessions.AddSessionDetail(detail); err != nil {
		log.WithError(err).Error("Failed to record review session detail")
	}
}

func (svc *ProgressService) getProgressOr404(userID, wordID string) (*model.WordProgress, error) {
	progress, err := svc.store.GetProgress(userID, wordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Word is not tracked")
		}
		return nil, shared.NewInternalError(err, "Failed to load progress")
	}
	return progress, nil
}

func (svc *ProgressService) saveWithRetry(p *model.WordProgress, apply func(*model.WordProgress) error) error {
	return saveProgressWithRetry(svc.store, p, apply)
}

// saveProgressWithRetry persists an optimistically guarded progress record.
// On a conflict the record is reloaded, the mutation re-applied (the
// calculator and state machine are pure, so replay is safe) and saved once
// more.
func saveProgressWithRetry(store ProgressStore, p *model.WordProgress, apply func(*model.WordProgress) error) error {
	err := store.SaveProgress(p)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrStorageConflict) {
		return shared.NewInternalError(err, "Failed to save progress")
	}

	fresh, err := store.GetProgress(p.UserID, p.WordID)
	if err != nil {
		return shared.NewInternalError(err, "Failed to reload progress")
	}
	if err := apply(fresh); err != nil {
		return err
	}
	if err := store.SaveProgress(fresh); err != nil {
		if errors.Is(err, shared.ErrStorageConflict) {
			return shared.NewConflictError(err, "Concurrent update, please retry")
		}
		return shared.NewInternalError(err, "Failed to save progress")
	}

	*p = *fresh
	return nil
}

func (svc *ProgressService) toResponse(p *model.WordProgress) *dto.WordProgressResponse {
	resp := &dto.WordProgressResponse{
		WordID:             p.WordID,
		Status:             p.Status,
		TimesSeen:          p.TimesSeen,
		TimesCorrect:       p.TimesCorrect,
		TimesIncorrect:     p.TimesIncorrect,
		EaseFactor:         p.EaseFactor,
		RepetitionInterval: p.RepetitionInterval,
		NextReviewAt:       p.NextReviewAt,
		FirstLearnedAt:     p.FirstLearnedAt,
		LastPracticedAt:    p.LastPracticedAt,
		AddedAt:            p.AddedAt,
		IsFavorite:         p.IsFavorite,
		UserNotes:          p.UserNotes,
	}
	if p.Word != nil {
		resp.Term = p.Word.Term
		resp.Translation = p.Word.Translation
		resp.Category = p.Word.Category
	}
	return resp
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

// answersMatch compares a submitted answer with the catalog translation,
// ignoring case and surrounding whitespace.
func answersMatch(answer, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(expected))
}
