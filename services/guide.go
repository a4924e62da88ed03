package services

import (
	"errors"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wordtrail-app/wordtrail_api/dto"
	"github.com/wordtrail-app/wordtrail_api/model"
	"github.com/wordtrail-app/wordtrail_api/shared"
	"github.com/wordtrail-app/wordtrail_api/srs"
)

// GuideService onboards curated word sets. Enqueueing a guide is purely
// additive: it tracks every guide word the user does not have yet and never
// touches existing progress.
type GuideService struct {
	context.DefaultService

	store  ProgressStore
	guides GuideCatalog
	clock  shared.Clock
}

const GUIDE_SVC = "guide_svc"

func (svc GuideService) Id() string {
	return GUIDE_SVC
}

func (svc *GuideService) Configure(ctx *context.Context) error {
	svc.clock = shared.SystemClock{}
	return svc.DefaultService.Configure(ctx)
}

func (svc *GuideService) Start() error {
	sqlSvc := svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.store = sqlSvc
	svc.guides = sqlSvc
	return nil
}

func (svc *GuideService) GetGuide(guideID string) (*dto.GuideResponse, error) {
	guide, err := svc.guides.GetGuide(guideID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Guide not found")
		}
		return nil, shared.NewInternalError(err, "Failed to load guide")
	}

	wordIDs, err := svc.guides.GuideWordIDs(guideID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load guide words")
	}

	return &dto.GuideResponse{
		ID:          guide.ID,
		Title:       guide.Title,
		Description: guide.Description,
		Category:    guide.Category,
		WordCount:   len(wordIDs),
	}, nil
}

// Enqueue tracks every word of a guide for the user. Re-running it, or
// racing another enqueue of an overlapping guide, reports the overlap in
// already_present instead of failing.
func (svc *GuideService) Enqueue(userID, guideID string) (*dto.EnqueueGuideResponse, error) {
	if _, err := svc.guides.GetGuide(guideID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Guide not found")
		}
		return nil, shared.NewInternalError(err, "Failed to load guide")
	}

	wordIDs, err := svc.guides.GuideWordIDs(guideID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load guide words")
	}

	resp := &dto.EnqueueGuideResponse{
		GuideID:        guideID,
		Added:          []string{},
		AlreadyPresent: []string{},
	}

	now := svc.clock.Now()
	for _, wordID := range wordIDs {
		if _, err := svc.store.GetProgress(userID, wordID); err == nil {
			resp.AlreadyPresent = append(resp.AlreadyPresent, wordID)
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewInternalError(err, "Failed to load progress")
		}

		id, _ := uuid.NewV7()
		_, err := svc.store.CreateProgress(&model.WordProgress{
			ID:                 id.String(),
			UserID:             userID,
			WordID:             wordID,
			Status:             srs.StatusWantToLearn,
			EaseFactor:         srs.DefaultEaseFactor,
			RepetitionInterval: srs.DefaultIntervalDays,
			AddedAt:            now,
		})
		if err != nil {
			if isUniqueViolation(err) {
				resp.AlreadyPresent = append(resp.AlreadyPresent, wordID)
				continue
			}
			return nil, shared.NewInternalError(err, "Failed to track guide word")
		}
		resp.Added = append(resp.Added, wordID)
	}

	return resp, nil
}
