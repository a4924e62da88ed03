package services

import (
	"encoding/json"

	"github.com/wordtrail-app/wordtrail_api/model"
)

func (ds *PostgresService) WordExists(wordID string) (bool, error) {
	var count int64
	err := ds.db.Model(&model.Word{}).Where("id = ? AND is_active = ?", wordID, true).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ds *PostgresService) GetWord(wordID string) (*model.Word, error) {
	var w model.Word
	if err := ds.db.Where("id = ?", wordID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (ds *PostgresService) GetWords(wordIDs []string) ([]model.Word, error) {
	var words []model.Word
	if err := ds.db.Where("id IN ?", wordIDs).Find(&words).Error; err != nil {
		return nil, err
	}
	return words, nil
}

// RandomWords pads quiz distractors when a batch has too few mates. RANDOM()
// is fine at catalog scale.
func (ds *PostgresService) RandomWords(excludeIDs []string, limit int) ([]model.Word, error) {
	q := ds.db.Where("is_active = ?", true)
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}

	var words []model.Word
	if err := q.Order("RANDOM()").Limit(limit).Find(&words).Error; err != nil {
		return nil, err
	}
	return words, nil
}

func (ds *PostgresService) GetGuide(guideID string) (*model.Guide, error) {
	var g model.Guide
	if err := ds.db.Where("id = ? AND is_active = ?", guideID, true).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (ds *PostgresService) GuideWordIDs(guideID string) ([]string, error) {
	guide, err := ds.GetGuide(guideID)
	if err != nil {
		return nil, err
	}

	var wordIDs []string
	if guide.WordIDs != nil {
		if err := json.Unmarshal(guide.WordIDs, &wordIDs); err != nil {
			return nil, err
		}
	}
	return wordIDs, nil
}
