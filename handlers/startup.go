package handlers

import (
	"startup-funding-system/middleware"
	"startup-funding-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupStartupRoutes(app *fiber.App, startupService *services.StartupService, evaluationService *services.EvaluationService) {
	secured := app.Group("/api/v1/startups", middleware.RequireAuth())

	// Startup CRUD
	secured.Post("/", startupService.CreateStartup)
	secured.Get("/", startupService.GetAllStartups)
	secured.Get("/:id", startupService.GetStartupByID) // accepts id or slug
	secured.Put("/:id", startupService.UpdateStartup)
	secured.Delete("/:id", startupService.DeleteStartup)

	// AI evaluation, nested under the startup it describes
	secured.Post("/:id/evaluation", evaluationService.GenerateEvaluation)
	secured.Get("/:id/evaluation", evaluationService.GetEvaluation)
	secured.Put("/:id/evaluation", middleware.RequireRole("admin"), evaluationService.UpdateEvaluation)
	secured.Delete("/:id/evaluation", middleware.RequireRole("admin"), evaluationService.DeleteEvaluation)

	// 🔒 Admin moderation
	secured.Patch("/:id/status", middleware.RequireRole("admin"), startupService.SetStartupStatus)
}
