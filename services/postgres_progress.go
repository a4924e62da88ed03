package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wordtrail-app/wordtrail_api/dto"
	"github.com/wordtrail-app/wordtrail_api/model"
	"github.com/wordtrail-app/wordtrail_api/shared"
	"github.com/wordtrail-app/wordtrail_api/srs"
)

// statusPriority orders the learning queue: new words first, then words in
// flight, then due reviews.
const statusPriority = `CASE status
	WHEN 'want_to_learn' THEN 0
	WHEN 'learning' THEN 1
	WHEN 'review' THEN 2
	WHEN 'learned' THEN 3
	ELSE 4 END`

func (ds *PostgresService) GetProgress(userID, wordID string) (*model.WordProgress, error) {
	var p model.WordProgress
	if err := ds.db.Where("user_id = ? AND word_id = ?", userID, wordID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (ds *PostgresService) CreateProgress(p *model.WordProgress) (*model.WordProgress, error) {
	if p.ID == "" {
		id, _ := uuid.NewV7()
		p.ID = id.String()
	}
	if err := ds.db.Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// SaveProgress writes the record guarded by its previously loaded updated_at.
// A stale guard means another writer won the race; callers retry once.
func (ds *PostgresService) SaveProgress(p *model.WordProgress) error {
	prev := p.UpdatedAt
	p.UpdatedAt = time.Now().UTC()

	res := ds.db.Model(&model.WordProgress{}).
		Where("id = ? AND updated_at = ?", p.ID, prev).
		Select("*").Omit("id", "created_at").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrStorageConflict
	}
	return nil
}

func (ds *PostgresService) DeleteProgress(userID, wordID string) error {
	res := ds.db.Where("user_id = ? AND word_id = ?", userID, wordID).Delete(&model.WordProgress{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (ds *PostgresService) ListProgress(userID string, f dto.ProgressFilter) ([]model.WordProgress, int, error) {
	q := ds.db.Model(&model.WordProgress{}).Where("user_id = ?", userID)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Joins("JOIN words ON words.id = word_progresses.word_id").
			Where("words.category = ?", f.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []model.WordProgress
	err := q.Preload("Word").
		Order(statusPriority).
		Order("word_progresses.updated_at ASC").
		Limit(limit).Offset(f.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, int(total), nil
}

func (ds *PostgresService) SelectBatchCandidates(userID string, size int) ([]model.WordProgress, error) {
	var rows []model.WordProgress
	err := ds.db.Preload("Word").
		Where("user_id = ? AND status IN ?", userID,
			[]srs.Status{srs.StatusWantToLearn, srs.StatusLearning, srs.StatusReview}).
		Order(statusPriority).
		Order("updated_at ASC").
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkOverdueForReview is the sweep's single bulk write: regress every decayed
// learned or mastered word to review, touching status and updated_at only.
func (ds *PostgresService) MarkOverdueForReview(now time.Time) (int64, error) {
	res := ds.db.Model(&model.WordProgress{}).
		Where("status IN ? AND next_review_at IS NOT NULL AND next_review_at <= ?",
			[]srs.Status{srs.StatusLearned, srs.StatusMastered}, now).
		Updates(map[string]interface{}{
			"status":     srs.StatusReview,
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// ApplyBatchOutcome commits a finished batch: every progress mutation plus the
// session finalize in one transaction. Any optimistic collision rolls the
// whole batch back; no partial promotion is ever visible.
func (ds *PostgresService) ApplyBatchOutcome(session *model.StudySession, progress []*model.WordProgress) error {
	return ds.db.Transaction(func(tx *gorm.DB) error {
		for _, p := range progress {
			prev := p.UpdatedAt
			p.UpdatedAt = time.Now().UTC()

			res := tx.Model(&model.WordProgress{}).
				Where("id = ? AND updated_at = ?", p.ID, prev).
				Select("*").Omit("id", "created_at").
				Updates(p)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return shared.ErrStorageConflict
			}
		}

		return tx.Save(session).Error
	})
}
