package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wordtrail-app/wordtrail_api/shared"
)

type AdminHandler struct {
	sweepSvc SweepServiceInterface
}

func NewAdminHandler(sweepSvc SweepServiceInterface) *AdminHandler {
	return &AdminHandler{sweepSvc: sweepSvc}
}

// @Summary Run the review sweep (Admin)
// @Description Run one sweep pass immediately instead of waiting for the hourly tick
// @Tags admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "Admin API key"
// @Success 200 {object} shared.Response{data=map[string]int64}
// @Router /api/v1/admin/sweep [post]
func (h *AdminHandler) RunSweep(c *fiber.Ctx) error {
	swept, err := h.sweepSvc.RunNow()
	if err != nil {
		return shared.NewInternalError(err, "Sweep failed")
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", map[string]int64{"swept": swept})
}
