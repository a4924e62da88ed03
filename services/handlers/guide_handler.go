package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wordtrail-app/wordtrail_api/shared"
)

type GuideHandler struct {
	guideSvc GuideServiceInterface
}

func NewGuideHandler(guideSvc GuideServiceInterface) *GuideHandler {
	return &GuideHandler{guideSvc: guideSvc}
}

// @Summary Get a guide
// @Description Get a curated guide and its word count
// @Tags guides
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param guideId path string true "Guide ID"
// @Success 200 {object} shared.Response{data=dto.GuideResponse}
// @Router /api/v1/guides/{guideId} [get]
func (h *GuideHandler) GetGuide(c *fiber.Ctx) error {
	guideID := c.Params("guideId")

	guide, err := h.guideSvc.GetGuide(guideID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", guide)
}

// @Summary Enqueue a guide
// @Description Track every word of a guide for the current user
// @Tags guides
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param guideId path string true "Guide ID"
// @Success 200 {object} shared.Response{data=dto.EnqueueGuideResponse}
// @Router /api/v1/guides/{guideId}/enqueue [post]
func (h *GuideHandler) EnqueueGuide(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	guideID := c.Params("guideId")

	result, err := h.guideSvc.Enqueue(userID, guideID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}
