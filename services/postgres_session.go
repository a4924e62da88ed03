package services

import (
	"github.com/google/uuid"

	"github.com/wordtrail-app/wordtrail_api/model"
)

func (ds *PostgresService) CreateSession(s *model.StudySession) (*model.StudySession, error) {
	if s.ID == "" {
		id, _ := uuid.NewV7()
		s.ID = id.String()
	}
	if err := ds.db.Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (ds *PostgresService) GetSession(sessionID string) (*model.StudySession, error) {
	var s model.StudySession
	if err := ds.db.Where("id = ?", sessionID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (ds *PostgresService) AddSessionDetail(d *model.SessionDetail) error {
	if d.ID == "" {
		id, _ := uuid.NewV7()
		d.ID = id.String()
	}
	return ds.db.Create(d).Error
}

func (ds *PostgresService) ListSessionDetails(sessionID string) ([]model.SessionDetail, error) {
	var details []model.SessionDetail
	err := ds.db.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}
