package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wordtrail-app/wordtrail_api/dto"
	"github.com/wordtrail-app/wordtrail_api/model"
	"github.com/wordtrail-app/wordtrail_api/shared"
	"github.com/wordtrail-app/wordtrail_api/srs"
)

// BatchSize is the fixed number of words per study batch.
const BatchSize = 3

// quizOptionCount is the correct translation plus three distractors.
const quizOptionCount = 4

// answerKeyTTL bounds how long an unfinished batch can still be answered.
const answerKeyTTL = 24 * time.Hour

// BatchService runs the practice-then-quiz batch flow: selection, session
// start, server-side answer resolution and the final double-gated promotion.
type BatchService struct {
	appContext.DefaultService

	store      ProgressStore
	sessions   SessionStore
	catalog    WordCatalog
	answerKeys AnswerKeyStore
	streakSvc  *StreakService
	monitoring *MonitoringService
	clock      shared.Clock
}

const BATCH_SVC = "batch_svc"

func (svc BatchService) Id() string {
	return BATCH_SVC
}

func (svc *BatchService) Configure(ctx *appContext.Context) error {
	svc.clock = shared.SystemClock{}
	return svc.DefaultService.Configure(ctx)
}

func (svc *BatchService) Start() error {
	sqlSvc := svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.store = sqlSvc
	svc.sessions = sqlSvc
	svc.catalog = sqlSvc
	svc.answerKeys = svc.Service(REDIS_SVC).(*RedisService)
	svc.streakSvc = svc.Service(STREAK_SVC).(*StreakService)
	svc.monitoring = svc.Service(MONITORING_SVC).(*MonitoringService)
	return nil
}

// SelectBatch proposes the user's next batch: want_to_learn first, then
// learning, then review, oldest touched first. Fewer than BatchSize items
// means the queue is running dry; the client decides whether to start anyway.
func (svc *BatchService) SelectBatch(userID string) (*dto.BatchSelectionResponse, error) {
	candidates, err := svc.store.SelectBatchCandidates(userID, BatchSize)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to select batch")
	}

	items := make([]dto.BatchItem, 0, len(candidates))
	for i := range candidates {
		items = append(items, toBatchItem(&candidates[i]))
	}
	return &dto.BatchSelectionResponse{Items: items}, nil
}

// StartBatch opens a batch session over exactly BatchSize tracked words.
// All validation happens before the first write: a rejected request leaves
// no session and no transitions behind.
func (svc *BatchService) StartBatch(ctx context.Context, userID string, req dto.StartBatchRequest) (*dto.SessionResponse, error) {
	if len(req.WordIDs) != BatchSize {
		return nil, shared.NewBadRequestError(nil, fmt.Sprintf("A batch holds exactly %d words", BatchSize))
	}
	if hasDuplicates(req.WordIDs) {
		return nil, shared.NewBadRequestError(nil, "Batch words must be distinct")
	}

	progresses := make([]*model.WordProgress, 0, BatchSize)
	for _, wordID := range req.WordIDs {
		p, err := svc.store.GetProgress(userID, wordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, shared.NewNotFoundError(err, fmt.Sprintf("Word %s is not tracked", wordID))
			}
			return nil, shared.NewInternalError(err, "Failed to load progress")
		}
		switch p.Status {
		case srs.StatusWantToLearn, srs.StatusLearning, srs.StatusReview:
		default:
			return nil, shared.NewConflictError(nil, fmt.Sprintf("Word %s is already %s", wordID, p.Status))
		}
		progresses = append(progresses, p)
	}

	words, err := svc.catalog.GetWords(req.WordIDs)
	if err != nil || len(words) != BatchSize {
		return nil, shared.NewInternalError(err, "Failed to load batch words")
	}
	wordByID := make(map[string]*model.Word, len(words))
	for i := range words {
		wordByID[words[i].ID] = &words[i]
	}

	now := svc.clock.Now()
	wordIDsJSON, err := sonic.MarshalString(req.WordIDs)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode batch")
	}

	session, err := svc.sessions.CreateSession(&model.StudySession{
		UserID:         userID,
		SessionType:    shared.SessionTypeBatch,
		StartedAt:      now,
		TotalQuestions: BatchSize * 2, // one practice and one quiz per word
		WordIDs:        wordIDsJSON,
	})
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to create session")
	}

	for _, p := range progresses {
		if p.Status != srs.StatusWantToLearn {
			continue
		}
		markShown := func(fresh *model.WordProgress) error {
			if fresh.Status != srs.StatusWantToLearn {
				return nil
			}
			status, terr := srs.Transition(fresh.Status, srs.BatchShown())
			if terr != nil {
				return shared.NewConflictError(terr, "Word left the batch queue")
			}
			fresh.Status = status
			return nil
		}
		if err := markShown(p); err != nil {
			return nil, err
		}
		if err := saveProgressWithRetry(svc.store, p, markShown); err != nil {
			return nil, err
		}
	}

	questions, answerKey := svc.buildQuiz(progresses, wordByID)
	if err := svc.answerKeys.PutAnswerKey(ctx, session.ID, answerKey, answerKeyTTL); err != nil {
		return nil, shared.NewInternalError(err, "Failed to store quiz key")
	}

	items := make([]dto.BatchItem, 0, BatchSize)
	for _, p := range progresses {
		item := toBatchItem(p)
		if w := wordByID[p.WordID]; w != nil {
			item.Term = w.Term
			item.Translation = w.Translation
			item.Example = w.Example
			item.ImageURL = w.ImageURL
		}
		items = append(items, item)
	}

	return &dto.SessionResponse{
		SessionID:      session.ID,
		SessionType:    session.SessionType,
		StartedAt:      session.StartedAt,
		TotalQuestions: session.TotalQuestions,
		Items:          items,
		Questions:      questions,
	}, nil
}

// buildQuiz makes one multiple-choice question per batch word. Distractors
// come from the batch mates first, padded from the catalog when translations
// collide. The returned key maps word ID to the correct option index and
// never leaves the server.
func (svc *BatchService) buildQuiz(progresses []*model.WordProgress, wordByID map[string]*model.Word) ([]dto.QuizQuestion, map[string]int) {
	batchIDs := make([]string, 0, len(progresses))
	for _, p := range progresses {
		batchIDs = append(batchIDs, p.WordID)
	}

	questions := make([]dto.QuizQuestion, 0, len(progresses))
	answerKey := make(map[string]int, len(progresses))

	for _, p := range progresses {
		word := wordByID[p.WordID]
		if word == nil {
			continue
		}

		seen := map[string]bool{word.Translation: true}
		options := []string{word.Translation}
		for _, mateID := range batchIDs {
			mate := wordByID[mateID]
			if mate == nil || mate.ID == word.ID || seen[mate.Translation] {
				continue
			}
			seen[mate.Translation] = true
			options = append(options, mate.Translation)
		}

		if len(options) < quizOptionCount {
			fillers, err := svc.catalog.RandomWords(batchIDs, quizOptionCount-len(options))
			if err != nil {
				log.WithError(err).Error("Failed to load quiz distractors")
			}
			for _, filler := range fillers {
				if seen[filler.Translation] {
					continue
				}
				seen[filler.Translation] = true
				options = append(options, filler.Translation)
				if len(options) == quizOptionCount {
					break
				}
			}
		}

		rand.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})
		for i, opt := range options {
			if opt == word.Translation {
				answerKey[word.ID] = i
				break
			}
		}

		questions = append(questions, dto.QuizQuestion{
			WordID:   word.ID,
			Question: fmt.Sprintf("What does %q mean?", word.Term),
			Options:  options,
		})
	}

	return questions, answerKey
}

// RecordPracticeResult resolves a typed practice answer against the catalog
// translation. The submitted answer is never trusted as a verdict.
func (svc *BatchService) RecordPracticeResult(userID, sessionID string, req dto.PracticeAnswerRequest) (*dto.AnswerResultResponse, error) {
	session, err := svc.openBatchSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireBatchMember(session, req.WordID); err != nil {
		return nil, err
	}

	word, err := svc.catalog.GetWord(req.WordID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load word")
	}

	correct := answersMatch(req.Answer, word.Translation)

	if err := svc.sessions.AddSessionDetail(&model.SessionDetail{
		SessionID:      session.ID,
		WordID:         req.WordID,
		QuestionKind:   shared.QuestionKindPractice,
		WasCorrect:     correct,
		UserAnswer:     req.Answer,
		CorrectAnswer:  word.Translation,
		ResponseTimeMs: req.ResponseTimeMs,
	}); err != nil {
		return nil, shared.NewInternalError(err, "Failed to record answer")
	}

	if correct {
		svc.streakSvc.recordCorrectAnswer(userID)
	}

	resp := &dto.AnswerResultResponse{WordID: req.WordID, WasCorrect: correct}
	if !correct {
		resp.CorrectAnswer = word.Translation
	}
	return resp, nil
}

// RecordQuizResult resolves a quiz pick against the server-held answer key.
func (svc *BatchService) RecordQuizResult(ctx context.Context, userID, sessionID string, req dto.QuizAnswerRequest) (*dto.AnswerResultResponse, error) {
	session, err := svc.openBatchSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireBatchMember(session, req.WordID); err != nil {
		return nil, err
	}

	key, err := svc.answerKeys.GetAnswerKey(ctx, sessionID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load quiz key")
	}
	if key == nil {
		return nil, shared.NewConflictError(nil, "Quiz expired, start a new batch")
	}
	correctIdx, ok := key[req.WordID]
	if !ok {
		return nil, shared.NewBadRequestError(nil, "Word has no quiz question in this session")
	}

	correct := req.OptionIndex == correctIdx

	if err := svc.sessions.AddSessionDetail(&model.SessionDetail{
		SessionID:      session.ID,
		WordID:         req.WordID,
		QuestionKind:   shared.QuestionKindQuiz,
		WasCorrect:     correct,
		UserAnswer:     strconv.Itoa(req.OptionIndex),
		CorrectAnswer:  strconv.Itoa(correctIdx),
		ResponseTimeMs: req.ResponseTimeMs,
	}); err != nil {
		return nil, shared.NewInternalError(err, "Failed to record answer")
	}

	if correct {
		svc.streakSvc.recordCorrectAnswer(userID)
	}

	return &dto.AnswerResultResponse{WordID: req.WordID, WasCorrect: correct}, nil
}

// CompleteBatch closes the session and promotes each word through its double
// gate: both the practice and the quiz answer must be correct. All progress
// writes and the session finalize land in one transaction; a concurrent
// update retries the whole computation once from fresh reads.
func (svc *BatchService) CompleteBatch(ctx context.Context, userID, sessionID string) (*dto.BatchOutcome, error) {
	session, err := svc.openBatchSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	details, err := svc.sessions.ListSessionDetails(sessionID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load session answers")
	}

	var wordIDs []string
	if err := sonic.UnmarshalString(session.WordIDs, &wordIDs); err != nil {
		return nil, shared.NewInternalError(err, "Failed to decode batch")
	}

	gates := gatesFromDetails(details)

	outcome, err := svc.applyOutcome(session, wordIDs, gates, details)
	if errors.Is(err, shared.ErrStorageConflict) {
		outcome, err = svc.applyOutcome(session, wordIDs, gates, details)
	}
	if err != nil {
		if errors.Is(err, shared.ErrStorageConflict) {
			return nil, shared.NewConflictError(err, "Concurrent update, please retry")
		}
		var appErr *shared.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, shared.NewInternalError(err, "Failed to complete batch")
	}

	if err := svc.answerKeys.DeleteAnswerKey(ctx, sessionID); err != nil {
		log.WithError(err).Warn("Failed to drop quiz key")
	}
	svc.monitoring.ObserveBatchCompleted(len(outcome.Learned))

	return outcome, nil
}

// wordGate is the per-word double gate collected from session details.
type wordGate struct {
	practiceAnswered bool
	practiceCorrect  bool
	quizAnswered     bool
	quizCorrect      bool
}

func (g wordGate) passed() bool {
	return g.practiceCorrect && g.quizCorrect
}

// gatesFromDetails folds the answer log into one gate per word. The latest
// answer per question kind wins, so a retried question counts by its final
// attempt.
func gatesFromDetails(details []model.SessionDetail) map[string]wordGate {
	gates := make(map[string]wordGate)
	for _, d := range details {
		g := gates[d.WordID]
		switch d.QuestionKind {
		case shared.QuestionKindPractice:
			g.practiceAnswered = true
			g.practiceCorrect = d.WasCorrect
		case shared.QuestionKindQuiz:
			g.quizAnswered = true
			g.quizCorrect = d.WasCorrect
		}
		gates[d.WordID] = g
	}
	return gates
}

func (svc *BatchService) applyOutcome(session *model.StudySession, wordIDs []string, gates map[string]wordGate, details []model.SessionDetail) (*dto.BatchOutcome, error) {
	now := svc.clock.Now()

	progresses := make([]*model.WordProgress, 0, len(wordIDs))
	for _, wordID := range wordIDs {
		p, err := svc.store.GetProgress(session.UserID, wordID)
		if err != nil {
			return nil, err
		}
		if err := svc.applyWordOutcome(p, gates[wordID], now); err != nil {
			return nil, err
		}
		progresses = append(progresses, p)
	}

	correct, incorrect := 0, 0
	for _, d := range details {
		if d.WasCorrect {
			correct++
		} else {
			incorrect++
		}
	}

	finished := now
	session.FinishedAt = &finished
	session.CorrectAnswers = correct
	session.IncorrectAnswers = incorrect
	session.DurationSeconds = int(now.Sub(session.StartedAt).Seconds())

	if err := svc.store.ApplyBatchOutcome(session, progresses); err != nil {
		return nil, err
	}

	outcome := &dto.BatchOutcome{
		SessionID:        session.ID,
		Learned:          []dto.BatchOutcomeItem{},
		StillLearning:    []dto.BatchOutcomeItem{},
		CorrectAnswers:   correct,
		IncorrectAnswers: incorrect,
	}
	for _, p := range progresses {
		item := dto.BatchOutcomeItem{WordID: p.WordID, Status: p.Status, NextReview: p.NextReviewAt}
		if p.Status == srs.StatusLearned || p.Status == srs.StatusMastered {
			outcome.Learned = append(outcome.Learned, item)
		} else {
			outcome.StillLearning = append(outcome.StillLearning, item)
		}
	}
	return outcome, nil
}

// applyWordOutcome mutates one progress record with its batch result. A word
// in review runs through the calculator like any review answer; a learning
// word keeps its interval and becomes due one interval from now when it
// passes both gates.
func (svc *BatchService) applyWordOutcome(p *model.WordProgress, gate wordGate, now time.Time) error {
	if p.Status == srs.StatusWantToLearn {
		// Session started but the shown transition never landed.
		status, err := srs.Transition(p.Status, srs.BatchShown())
		if err != nil {
			return err
		}
		p.Status = status
	}

	var newStatus srs.Status
	var err error

	switch p.Status {
	case srs.StatusReview:
		result := srs.NextReview(p.EaseFactor, p.RepetitionInterval, gate.passed())
		newStatus, err = srs.Transition(p.Status, srs.ReviewAnswered(gate.passed(), result.IntervalDays))
		if err != nil {
			return err
		}
		due := srs.DueAt(now, result.IntervalDays)
		p.EaseFactor = result.EaseFactor
		p.RepetitionInterval = result.IntervalDays
		p.NextReviewAt = &due

	default:
		newStatus, err = srs.Transition(p.Status, srs.BatchCompleted(gate.practiceCorrect, gate.quizCorrect))
		if err != nil {
			return err
		}
		if newStatus == srs.StatusLearned {
			due := srs.DueAt(now, p.RepetitionInterval)
			p.NextReviewAt = &due
		}
	}

	p.Status = newStatus
	p.LastPracticedAt = &now
	p.TimesSeen += 2 // one practice, one quiz

	// An unanswered question counts against the word.
	if gate.practiceAnswered && gate.practiceCorrect {
		p.TimesCorrect++
	} else {
		p.TimesIncorrect++
	}
	if gate.quizAnswered && gate.quizCorrect {
		p.TimesCorrect++
	} else {
		p.TimesIncorrect++
	}

	if p.FirstLearnedAt == nil && (p.Status == srs.StatusLearned || p.Status == srs.StatusMastered) {
		p.FirstLearnedAt = &now
	}
	return nil
}

// openBatchSession loads a batch session and rejects anything not answerable:
// wrong owner, wrong type, or already finalized.
func (svc *BatchService) openBatchSession(userID, sessionID string) (*model.StudySession, error) {
	session, err := svc.sessions.GetSession(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Session not found")
		}
		return nil, shared.NewInternalError(err, "Failed to load session")
	}
	if session.UserID != userID {
		return nil, shared.NewNotFoundError(nil, "Session not found")
	}
	if session.SessionType != shared.SessionTypeBatch {
		return nil, shared.NewBadRequestError(nil, "Not a batch session")
	}
	if session.FinishedAt != nil {
		return nil, shared.NewConflictError(nil, "Session already completed")
	}
	return session, nil
}

func (svc *BatchService) requireBatchMember(session *model.StudySession, wordID string) error {
	var wordIDs []string
	if err := sonic.UnmarshalString(session.WordIDs, &wordIDs); err != nil {
		return shared.NewInternalError(err, "Failed to decode batch")
	}
	for _, id := range wordIDs {
		if id == wordID {
			return nil
		}
	}
	return shared.NewBadRequestError(nil, "Word is not part of this batch")
}

func toBatchItem(p *model.WordProgress) dto.BatchItem {
	item := dto.BatchItem{WordID: p.WordID, Status: p.Status}
	if p.Word != nil {
		item.Term = p.Word.Term
		item.Translation = p.Word.Translation
		item.Example = p.Word.Example
		item.ImageURL = p.Word.ImageURL
	}
	return item
}

func hasDuplicates(ids []string) bool {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}
