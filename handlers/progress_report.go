package handlers

import (
	"startup-funding-system/middleware"
	"startup-funding-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressReportRoutes(app *fiber.App, reportService *services.ProgressReportService) {
	secured := app.Group("/api/v1/progress-reports", middleware.RequireAuth())

	secured.Post("/", reportService.CreateReport)
	secured.Get("/dashboard", reportService.GetStartupDashboard)
	secured.Get("/idea/:ideaId", reportService.GetReportsByIdea)
	secured.Get("/:id", reportService.GetReportByID)
	secured.Put("/:id", reportService.UpdateReport)
	secured.Delete("/:id", reportService.DeleteReport)
}
