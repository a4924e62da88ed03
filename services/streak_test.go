package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordtrail-app/wordtrail_api/shared"
)

func TestStreakFirstActivity(t *testing.T) {
	clock := &fakeClock{now: testTime()}
	svc, _ := newTestStreakService(clock)

	require.NoError(t, svc.RecordActivity("user-1", shared.StreakTypeDailyCorrect))

	streak, err := svc.GetStreak("user-1", shared.StreakTypeDailyCorrect)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.LongestStreak)
	require.NotNil(t, streak.LastActivityDate)
	assert.Equal(t, testTime().Truncate(24*time.Hour), streak.LastActivityDate.UTC())
}

func TestStreakSameDaySaturates(t *testing.T) {
	clock := &fakeClock{now: testTime()}
	svc, _ := newTestStreakService(clock)

	require.NoError(t, svc.RecordActivity("user-1", shared.StreakTypeDailyCorrect))

	// Later the same day, repeatedly.
	clock.now = clock.now.Add(5 * time.Hour)
	require.NoError(t, svc.RecordActivity("user-1", shared.StreakTypeDailyCorrect))
	require.NoError(t, svc.RecordActivity("user-1", shared.StreakTypeDailyCorrect))

	streak, err := svc.GetStreak("user-1", shared.StreakTypeDailyCorrect)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
}

func TestStreakConsecutiveDaysIncrement(t *testing.T) {
	clock := &fakeClock{now: testTime()}
	svc, _ := newTestStreakService(clock)

	for day := 0; day < 4; day++ {
		clock.now = testTime().AddDate(0, 0, day)
		require.NoError(t, svc.RecordActivity("user-1", shared.StreakTypeDailyCorrect))
	}

	streak, err := svc.GetStreak("user-1", shared.StreakTypeDailyCorrect)
	require.NoError(t, err)
	assert.Equal(t, 4, streak.CurrentStreak)
	assert.Equal(t, 4, streak.LongestStreak)
}

func TestStreakGapResets(t *testing.T) {
	clock := &fakeClock{now: testTime()}
	svc, _ := newTestStreakService(clock)

	require.NoError(t, svc.RecordActivity("user-1", shared.StreakTypeDailyCorrect))
	clock.now = testTime().AddDate(0, 0, 1)
	require.NoError(t, svc.RecordActivity("user-1", shared.StreakTypeDailyCorrect))

	// Skip two days.
	clock.now = testTime().AddDate(0, 0, 4)
	require.NoError(t, svc.RecordActivity("user-1", shared.StreakTypeDailyCorrect))

	streak, err := svc.GetStreak("user-1", shared.StreakTypeDailyCorrect)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 2, streak.LongestStreak, "longest survives the reset")
}

func TestStreakUnknownUserIsEmpty(t *testing.T) {
	clock := &fakeClock{now: testTime()}
	svc, _ := newTestStreakService(clock)

	streak, err := svc.GetStreak("nobody", shared.StreakTypeDailyCorrect)
	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 0, streak.LongestStreak)
	assert.Nil(t, streak.LastActivityDate)
}
