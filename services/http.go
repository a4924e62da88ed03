package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/gofiber/swagger"

	"github.com/wordtrail-app/wordtrail_api/docs"
	"github.com/wordtrail-app/wordtrail_api/services/handlers"
	"github.com/wordtrail-app/wordtrail_api/shared"
)

type HttpService struct {
	appContext.DefaultService

	authSvc *AuthMiddleware

	progressHandler *handlers.ProgressHandler
	batchHandler    *handlers.BatchHandler
	guideHandler    *handlers.GuideHandler
	adminHandler    *handlers.AdminHandler

	port        int
	adminAPIKey string
	app         *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *appContext.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	svc.adminAPIKey = os.Getenv("ADMIN_API_KEY")

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_MIDDLEWARE_SVC).(*AuthMiddleware)
	monitoringSvc := svc.Service(MONITORING_SVC).(*MonitoringService)

	svc.progressHandler = handlers.NewProgressHandler(
		svc.Service(PROGRESS_SVC).(*ProgressService),
		svc.Service(STREAK_SVC).(*StreakService),
	)
	svc.batchHandler = handlers.NewBatchHandler(svc.Service(BATCH_SVC).(*BatchService))
	svc.guideHandler = handlers.NewGuideHandler(svc.Service(GUIDE_SVC).(*GuideService))
	svc.adminHandler = handlers.NewAdminHandler(svc.Service(SWEEP_SVC).(*SweepService))

	app := fiber.New(fiber.Config{
		JSONEncoder:  shared.JSONEncoder,
		JSONDecoder:  shared.JSONDecoder,
		ErrorHandler: svc.handleError,
	})

	docs.SwaggerInfo.BasePath = ""

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowCredentials: false,
	}))
	app.Use(monitoringSvc.RequestMetrics())

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", fiberSwagger.HandlerDefault)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	words := v1.Group("/words", svc.authSvc.RequiredAuth())
	words.Post("/", svc.progressHandler.AddWord)
	words.Get("/", svc.progressHandler.ListWords)
	words.Put("/:wordId", svc.progressHandler.UpdateWord)
	words.Delete("/:wordId", svc.progressHandler.DeleteWord)
	words.Post("/:wordId/review", svc.progressHandler.TriggerReview)
	words.Post("/:wordId/review/answer", svc.progressHandler.AnswerReview)

	batch := v1.Group("/batch", svc.authSvc.RequiredAuth())
	batch.Get("/next", svc.batchHandler.SelectBatch)
	batch.Post("/", svc.batchHandler.StartBatch)
	batch.Post("/:sessionId/practice", svc.batchHandler.SubmitPractice)
	batch.Post("/:sessionId/quiz", svc.batchHandler.SubmitQuiz)
	batch.Post("/:sessionId/complete", svc.batchHandler.CompleteBatch)

	guides := v1.Group("/guides", svc.authSvc.RequiredAuth())
	guides.Get("/:guideId", svc.guideHandler.GetGuide)
	guides.Post("/:guideId/enqueue", svc.guideHandler.EnqueueGuide)

	v1.Get("/streak", svc.authSvc.RequiredAuth(), svc.progressHandler.GetStreak)

	admin := v1.Group("/admin", svc.requireAPIKey)
	admin.Post("/sweep", svc.adminHandler.RunSweep)

	svc.app = app
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) requireAPIKey(c *fiber.Ctx) error {
	if svc.adminAPIKey == "" || c.Get("X-API-Key") != svc.adminAPIKey {
		return shared.NewUnauthorizedError(nil, "Invalid API key")
	}
	return c.Next()
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return shared.ResponseJSON(c, fiber.StatusInternalServerError, "Internal server error", nil)
}
