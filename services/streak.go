package services

import (
	"errors"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wordtrail-app/wordtrail_api/dto"
	"github.com/wordtrail-app/wordtrail_api/model"
	"github.com/wordtrail-app/wordtrail_api/shared"
)

// StreakService counts consecutive calendar days with at least one correct
// answer. Same-day repeats saturate: a day contributes at most one increment.
type StreakService struct {
	context.DefaultService

	store StreakStore
	clock shared.Clock
}

const STREAK_SVC = "streak_svc"

func (svc StreakService) Id() string {
	return STREAK_SVC
}

func (svc *StreakService) Configure(ctx *context.Context) error {
	svc.clock = shared.SystemClock{}
	return svc.DefaultService.Configure(ctx)
}

func (svc *StreakService) Start() error {
	svc.store = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

func (svc *StreakService) RecordActivity(userID, streakType string) error {
	now := svc.clock.Now()
	today := truncateToDay(now)

	streak, err := svc.store.GetStreak(userID, streakType)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		id, _ := uuid.NewV7()
		_, err = svc.store.CreateStreak(&model.Streak{
			ID:               id.String(),
			UserID:           userID,
			StreakType:       streakType,
			CurrentStreak:    1,
			LongestStreak:    1,
			LastActivityDate: &today,
			StreakStartDate:  &today,
		})
		return err
	}

	if streak.LastActivityDate != nil {
		last := truncateToDay(*streak.LastActivityDate)

		switch {
		case last.Equal(today):
			// Already counted today.
			return nil
		case last.Equal(today.AddDate(0, 0, -1)):
			streak.CurrentStreak++
			if streak.CurrentStreak > streak.LongestStreak {
				streak.LongestStreak = streak.CurrentStreak
			}
		default:
			streak.CurrentStreak = 1
			streak.StreakStartDate = &today
		}
	} else {
		streak.CurrentStreak = 1
		streak.StreakStartDate = &today
		if streak.LongestStreak < 1 {
			streak.LongestStreak = 1
		}
	}

	streak.LastActivityDate = &today
	streak.UpdatedAt = now

	return svc.store.SaveStreak(streak)
}

// recordCorrectAnswer is the shared hook for practice, quiz and review flows.
// Streak bookkeeping must never fail the answer itself.
func (svc *StreakService) recordCorrectAnswer(userID string) {
	if err := svc.RecordActivity(userID, shared.StreakTypeDailyCorrect); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to update streak")
	}
}

func (svc *StreakService) GetStreak(userID, streakType string) (*dto.StreakResponse, error) {
	streak, err := svc.store.GetStreak(userID, streakType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.StreakResponse{StreakType: streakType}, nil
		}
		return nil, err
	}

	return &dto.StreakResponse{
		StreakType:       streak.StreakType,
		CurrentStreak:    streak.CurrentStreak,
		LongestStreak:    streak.LongestStreak,
		LastActivityDate: streak.LastActivityDate,
		StreakStartDate:  streak.StreakStartDate,
	}, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
