package services

import (
	"github.com/google/uuid"

	"github.com/wordtrail-app/wordtrail_api/model"
)

func (ds *PostgresService) GetStreak(userID, streakType string) (*model.Streak, error) {
	var s model.Streak
	if err := ds.db.Where("user_id = ? AND streak_type = ?", userID, streakType).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (ds *PostgresService) CreateStreak(s *model.Streak) (*model.Streak, error) {
	if s.ID == "" {
		id, _ := uuid.NewV7()
		s.ID = id.String()
	}
	if err := ds.db.Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (ds *PostgresService) SaveStreak(s *model.Streak) error {
	return ds.db.Save(s).Error
}
