package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wordtrail-app/wordtrail_api/dto"
	"github.com/wordtrail-app/wordtrail_api/shared"
)

type ProgressHandler struct {
	progressSvc ProgressServiceInterface
	streakSvc   StreakServiceInterface
}

func NewProgressHandler(progressSvc ProgressServiceInterface, streakSvc StreakServiceInterface) *ProgressHandler {
	return &ProgressHandler{
		progressSvc: progressSvc,
		streakSvc:   streakSvc,
	}
}

// @Summary Track a word
// @Description Start tracking a catalog word for the current user
// @Tags words
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param addRequest body dto.AddWordRequest true "Word to track"
// @Success 201 {object} shared.Response{data=dto.WordProgressResponse}
// @Router /api/v1/words [post]
func (h *ProgressHandler) AddWord(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.AddWordRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	progress, err := h.progressSvc.AddWord(userID, req.WordID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Success", progress)
}

// @Summary List tracked words
// @Description List the user's tracked words ordered by learning priority
// @Tags words
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} shared.Response{data=dto.WordListResponse}
// @Router /api/v1/words [get]
func (h *ProgressHandler) ListWords(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var query dto.ListWordsQuery
	if err := c.QueryParser(&query); err != nil {
		return shared.NewBadRequestError(err, "Invalid query")
	}

	words, err := h.progressSvc.ListWords(userID, query)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", words)
}

// @Summary Update a tracked word
// @Description Update the favorite flag or notes of a tracked word
// @Tags words
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param wordId path string true "Word ID"
// @Param updateRequest body dto.UpdateWordRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.WordProgressResponse}
// @Router /api/v1/words/{wordId} [put]
func (h *ProgressHandler) UpdateWord(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	wordID := c.Params("wordId")

	var req dto.UpdateWordRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	progress, err := h.progressSvc.UpdateWord(userID, wordID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", progress)
}

// @Summary Stop tracking a word
// @Description Delete a tracked word and its learning progress
// @Tags words
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param wordId path string true "Word ID"
// @Success 200 {object} shared.Response
// @Router /api/v1/words/{wordId} [delete]
func (h *ProgressHandler) DeleteWord(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	wordID := c.Params("wordId")

	if err := h.progressSvc.DeleteWord(userID, wordID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}

// @Summary Trigger a review
// @Description Send a learned or mastered word back to review, now or on a schedule
// @Tags review
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param wordId path string true "Word ID"
// @Param reviewRequest body dto.TriggerReviewRequest true "Review mode"
// @Success 200 {object} shared.Response{data=dto.WordProgressResponse}
// @Router /api/v1/words/{wordId}/review [post]
func (h *ProgressHandler) TriggerReview(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	wordID := c.Params("wordId")

	var req dto.TriggerReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	progress, err := h.progressSvc.TriggerReview(userID, wordID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", progress)
}

// @Summary Answer a review
// @Description Submit a review answer; the server grades it and reschedules the word
// @Tags review
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param wordId path string true "Word ID"
// @Param answerRequest body dto.ReviewAnswerRequest true "Review answer"
// @Success 200 {object} shared.Response{data=dto.ReviewAnswerResponse}
// @Router /api/v1/words/{wordId}/review/answer [post]
func (h *ProgressHandler) AnswerReview(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	wordID := c.Params("wordId")

	var req dto.ReviewAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	result, err := h.progressSvc.RecordReviewAnswer(userID, wordID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Get daily streak
// @Description Get the user's daily correct-answer streak
// @Tags streak
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.StreakResponse}
// @Router /api/v1/streak [get]
func (h *ProgressHandler) GetStreak(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	streak, err := h.streakSvc.GetStreak(userID, shared.StreakTypeDailyCorrect)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", streak)
}
