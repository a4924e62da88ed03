package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordtrail-app/wordtrail_api/dto"
	"github.com/wordtrail-app/wordtrail_api/model"
	"github.com/wordtrail-app/wordtrail_api/shared"
	"github.com/wordtrail-app/wordtrail_api/srs"
)

func testWords() []model.Word {
	return []model.Word{
		{ID: "w1", Term: "hola", Translation: "hello", Category: "greetings", IsActive: true},
		{ID: "w2", Term: "adiós", Translation: "goodbye", Category: "greetings", IsActive: true},
		{ID: "w3", Term: "agua", Translation: "water", Category: "food", IsActive: true},
		{ID: "w4", Term: "pan", Translation: "bread", Category: "food", IsActive: true},
		{ID: "w5", Term: "queso", Translation: "cheese", Category: "food", IsActive: true},
		{ID: "w6", Term: "leche", Translation: "milk", Category: "food", IsActive: true},
	}
}

func newTestProgressService() (*ProgressService, *fakeProgressStore, *fakeSessionStore, *fakeClock) {
	clock := &fakeClock{now: testTime()}
	store := newFakeProgressStore()
	sessions := newFakeSessionStore()
	store.sessions = sessions
	streakSvc, _ := newTestStreakService(clock)

	svc := &ProgressService{
		store:     store,
		sessions:  sessions,
		catalog:   newFakeCatalog(testWords()...),
		streakSvc: streakSvc,
		clock:     clock,
	}
	return svc, store, sessions, clock
}

func reviewProgress(userID, wordID string, ease float64, interval int) *model.WordProgress {
	return &model.WordProgress{
		ID:                 "p-" + wordID,
		UserID:             userID,
		WordID:             wordID,
		Status:             srs.StatusReview,
		EaseFactor:         ease,
		RepetitionInterval: interval,
		AddedAt:            testTime().AddDate(0, 0, -10),
	}
}

func TestAddWordDefaults(t *testing.T) {
	svc, store, _, _ := newTestProgressService()

	resp, err := svc.AddWord("user-1", "w1")
	require.NoError(t, err)
	assert.Equal(t, srs.StatusWantToLearn, resp.Status)
	assert.Equal(t, srs.DefaultEaseFactor, resp.EaseFactor)
	assert.Equal(t, srs.DefaultIntervalDays, resp.RepetitionInterval)
	assert.Equal(t, testTime(), resp.AddedAt)

	stored := store.get("user-1", "w1")
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.ID)
}

func TestAddWordUnknownCatalogID(t *testing.T) {
	svc, _, _, _ := newTestProgressService()

	_, err := svc.AddWord("user-1", "missing")
	requireStatus(t, err, 404)
}

func TestAddWordIdempotent(t *testing.T) {
	svc, store, _, _ := newTestProgressService()

	first, err := svc.AddWord("user-1", "w1")
	require.NoError(t, err)

	// Mutate so we can tell a second create from a re-read.
	p := store.get("user-1", "w1")
	p.Status = srs.StatusLearning

	second, err := svc.AddWord("user-1", "w1")
	require.NoError(t, err)
	assert.Equal(t, first.WordID, second.WordID)
	assert.Equal(t, srs.StatusLearning, second.Status)
	assert.Len(t, store.records, 1)
}

func TestListWordsPriorityOrder(t *testing.T) {
	svc, store, _, _ := newTestProgressService()

	base := testTime()
	add := func(wordID string, status srs.Status, updated time.Time) {
		store.put(&model.WordProgress{
			ID: "p-" + wordID, UserID: "user-1", WordID: wordID,
			Status: status, UpdatedAt: updated,
		})
	}
	add("w1", srs.StatusLearned, base)
	add("w2", srs.StatusWantToLearn, base.Add(time.Minute))
	add("w3", srs.StatusReview, base)
	add("w4", srs.StatusLearning, base)
	add("w5", srs.StatusWantToLearn, base)

	resp, err := svc.ListWords("user-1", dto.ListWordsQuery{})
	require.NoError(t, err)
	require.Equal(t, 5, resp.Total)

	got := make([]string, len(resp.Words))
	for i, w := range resp.Words {
		got[i] = w.WordID
	}
	// want_to_learn (oldest first), learning, review, learned
	assert.Equal(t, []string{"w5", "w2", "w4", "w3", "w1"}, got)
}

func TestListWordsRejectsUnknownStatus(t *testing.T) {
	svc, _, _, _ := newTestProgressService()

	_, err := svc.ListWords("user-1", dto.ListWordsQuery{Status: "bogus"})
	requireStatus(t, err, 400)
}

func TestUpdateWordFavoriteAndNotes(t *testing.T) {
	svc, store, _, _ := newTestProgressService()
	_, err := svc.AddWord("user-1", "w1")
	require.NoError(t, err)

	fav := true
	notes := "false friend with 'hole'"
	resp, err := svc.UpdateWord("user-1", "w1", dto.UpdateWordRequest{IsFavorite: &fav, UserNotes: &notes})
	require.NoError(t, err)
	assert.True(t, resp.IsFavorite)
	assert.Equal(t, notes, resp.UserNotes)

	stored := store.get("user-1", "w1")
	assert.True(t, stored.IsFavorite)
	assert.Equal(t, notes, stored.UserNotes)
	assert.Equal(t, srs.StatusWantToLearn, stored.Status, "update must not touch the lifecycle")
}

func TestDeleteWord(t *testing.T) {
	svc, store, _, _ := newTestProgressService()
	_, err := svc.AddWord("user-1", "w1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteWord("user-1", "w1"))
	assert.Nil(t, store.get("user-1", "w1"))

	err = svc.DeleteWord("user-1", "w1")
	requireStatus(t, err, 404)
}

func TestTriggerReviewImmediate(t *testing.T) {
	svc, store, _, clock := newTestProgressService()
	store.put(&model.WordProgress{
		ID: "p-w1", UserID: "user-1", WordID: "w1",
		Status: srs.StatusLearned, EaseFactor: 2.5, RepetitionInterval: 3,
	})

	resp, err := svc.TriggerReview("user-1", "w1", dto.TriggerReviewRequest{Mode: shared.ReviewModeImmediate})
	require.NoError(t, err)
	assert.Equal(t, srs.StatusReview, resp.Status)

	stored := store.get("user-1", "w1")
	assert.Equal(t, srs.StatusReview, stored.Status)
	require.NotNil(t, stored.NextReviewAt)
	assert.Equal(t, clock.now, *stored.NextReviewAt)
}

func TestTriggerReviewImmediateRejectsLearning(t *testing.T) {
	svc, store, _, _ := newTestProgressService()
	store.put(&model.WordProgress{
		ID: "p-w1", UserID: "user-1", WordID: "w1", Status: srs.StatusLearning,
	})

	_, err := svc.TriggerReview("user-1", "w1", dto.TriggerReviewRequest{Mode: shared.ReviewModeImmediate})
	requireStatus(t, err, 409)
}

func TestTriggerReviewScheduled(t *testing.T) {
	svc, store, _, clock := newTestProgressService()
	store.put(&model.WordProgress{
		ID: "p-w1", UserID: "user-1", WordID: "w1", Status: srs.StatusMastered,
	})

	_, err := svc.TriggerReview("user-1", "w1", dto.TriggerReviewRequest{Mode: shared.ReviewModeScheduled, ScheduledDays: 7})
	require.NoError(t, err)

	stored := store.get("user-1", "w1")
	assert.Equal(t, srs.StatusMastered, stored.Status, "scheduled mode only moves the due date")
	require.NotNil(t, stored.NextReviewAt)
	assert.Equal(t, clock.now.AddDate(0, 0, 7), *stored.NextReviewAt)
}

func TestTriggerReviewScheduledNeedsDays(t *testing.T) {
	svc, store, _, _ := newTestProgressService()
	store.put(&model.WordProgress{
		ID: "p-w1", UserID: "user-1", WordID: "w1", Status: srs.StatusLearned,
	})

	_, err := svc.TriggerReview("user-1", "w1", dto.TriggerReviewRequest{Mode: shared.ReviewModeScheduled})
	requireStatus(t, err, 400)
}

func TestReviewAnswerCorrect(t *testing.T) {
	svc, store, sessions, clock := newTestProgressService()
	store.put(reviewProgress("user-1", "w1", 2.5, 1))

	resp, err := svc.RecordReviewAnswer("user-1", "w1", dto.ReviewAnswerRequest{Answer: "Hello ", ResponseTimeMs: 2500})
	require.NoError(t, err)
	assert.True(t, resp.WasCorrect)

	stored := store.get("user-1", "w1")
	assert.Equal(t, srs.StatusLearned, stored.Status)
	assert.Equal(t, 2.6, stored.EaseFactor)
	assert.Equal(t, 3, stored.RepetitionInterval, "round(1 * 2.5) half up")
	require.NotNil(t, stored.NextReviewAt)
	assert.Equal(t, clock.now.AddDate(0, 0, 3), *stored.NextReviewAt)
	assert.Equal(t, 1, stored.TimesSeen)
	assert.Equal(t, 1, stored.TimesCorrect)
	require.NotNil(t, stored.FirstLearnedAt)

	// One finalized single-question review session.
	require.Len(t, sessions.sessions, 1)
	for _, s := range sessions.sessions {
		assert.Equal(t, shared.SessionTypeReview, s.SessionType)
		assert.NotNil(t, s.FinishedAt)
		assert.Equal(t, 1, s.CorrectAnswers)
	}

	streak, err := svc.streakSvc.GetStreak("user-1", shared.StreakTypeDailyCorrect)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
}

func TestReviewAnswerIncorrectResets(t *testing.T) {
	svc, store, _, _ := newTestProgressService()
	store.put(reviewProgress("user-1", "w1", 2.5, 8))

	resp, err := svc.RecordReviewAnswer("user-1", "w1", dto.ReviewAnswerRequest{Answer: "wrong"})
	require.NoError(t, err)
	assert.False(t, resp.WasCorrect)

	stored := store.get("user-1", "w1")
	assert.Equal(t, srs.StatusReview, stored.Status)
	assert.Equal(t, 1, stored.RepetitionInterval)
	assert.Equal(t, 2.3, stored.EaseFactor)
	assert.Equal(t, 1, stored.TimesIncorrect)
	assert.Nil(t, stored.FirstLearnedAt)
}

func TestReviewAnswerPromotesToMastered(t *testing.T) {
	svc, store, _, _ := newTestProgressService()
	store.put(reviewProgress("user-1", "w1", 2.8, 15)) // round(15 * 2.8) = 42

	_, err := svc.RecordReviewAnswer("user-1", "w1", dto.ReviewAnswerRequest{Answer: "hello"})
	require.NoError(t, err)

	stored := store.get("user-1", "w1")
	assert.Equal(t, srs.StatusMastered, stored.Status)
	assert.Equal(t, 42, stored.RepetitionInterval)
}

func TestReviewAnswerRejectedOutsideReview(t *testing.T) {
	svc, store, _, _ := newTestProgressService()
	store.put(&model.WordProgress{
		ID: "p-w1", UserID: "user-1", WordID: "w1", Status: srs.StatusWantToLearn,
	})

	_, err := svc.RecordReviewAnswer("user-1", "w1", dto.ReviewAnswerRequest{Answer: "hello"})
	requireStatus(t, err, 409)
}

func TestReviewAnswerRetriesOnConflict(t *testing.T) {
	svc, store, _, _ := newTestProgressService()
	store.put(reviewProgress("user-1", "w1", 2.5, 1))
	store.conflictsLeft = 1

	_, err := svc.RecordReviewAnswer("user-1", "w1", dto.ReviewAnswerRequest{Answer: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 2, store.saveCalls)
	assert.Equal(t, srs.StatusLearned, store.get("user-1", "w1").Status)
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok, "expected an AppError, got %v", err)
	assert.Equal(t, status, appErr.StatusCode)
}
