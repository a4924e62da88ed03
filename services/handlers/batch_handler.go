package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wordtrail-app/wordtrail_api/dto"
	"github.com/wordtrail-app/wordtrail_api/shared"
)

type BatchHandler struct {
	batchSvc BatchServiceInterface
}

func NewBatchHandler(batchSvc BatchServiceInterface) *BatchHandler {
	return &BatchHandler{batchSvc: batchSvc}
}

// @Summary Get next batch
// @Description Propose the next batch of words to study
// @Tags batch
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.BatchSelectionResponse}
// @Router /api/v1/batch/next [get]
func (h *BatchHandler) SelectBatch(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	selection, err := h.batchSvc.SelectBatch(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", selection)
}

// @Summary Start a batch
// @Description Open a study session over exactly three tracked words
// @Tags batch
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param startRequest body dto.StartBatchRequest true "Batch word IDs"
// @Success 201 {object} shared.Response{data=dto.SessionResponse}
// @Router /api/v1/batch [post]
func (h *BatchHandler) StartBatch(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.StartBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	session, err := h.batchSvc.StartBatch(c.Context(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Success", session)
}

// @Summary Submit a practice answer
// @Description Grade a typed translation against the catalog
// @Tags batch
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param sessionId path string true "Session ID"
// @Param practiceRequest body dto.PracticeAnswerRequest true "Practice answer"
// @Success 200 {object} shared.Response{data=dto.AnswerResultResponse}
// @Router /api/v1/batch/{sessionId}/practice [post]
func (h *BatchHandler) SubmitPractice(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	sessionID := c.Params("sessionId")

	var req dto.PracticeAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	result, err := h.batchSvc.RecordPracticeResult(userID, sessionID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Submit a quiz answer
// @Description Grade a multiple-choice pick against the server-held key
// @Tags batch
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param sessionId path string true "Session ID"
// @Param quizRequest body dto.QuizAnswerRequest true "Quiz answer"
// @Success 200 {object} shared.Response{data=dto.AnswerResultResponse}
// @Router /api/v1/batch/{sessionId}/quiz [post]
func (h *BatchHandler) SubmitQuiz(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	sessionID := c.Params("sessionId")

	var req dto.QuizAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	result, err := h.batchSvc.RecordQuizResult(c.Context(), userID, sessionID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Complete a batch
// @Description Finalize the session and promote words through the double gate
// @Tags batch
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param sessionId path string true "Session ID"
// @Success 200 {object} shared.Response{data=dto.BatchOutcome}
// @Router /api/v1/batch/{sessionId}/complete [post]
func (h *BatchHandler) CompleteBatch(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	sessionID := c.Params("sessionId")

	outcome, err := h.batchSvc.CompleteBatch(c.Context(), userID, sessionID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", outcome)
}
