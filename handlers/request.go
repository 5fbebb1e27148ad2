package handlers

import (
	"startup-funding-system/middleware"
	"startup-funding-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRequestRoutes(app *fiber.App, requestService *services.RequestService) {
	secured := app.Group("/api/v1/requests", middleware.RequireAuth())

	secured.Post("/", requestService.HandleCreateRequest)
	secured.Get("/", requestService.GetAllRequests)
	secured.Get("/:id", requestService.GetRequestByID)
	secured.Patch("/:id/withdraw", requestService.HandleWithdrawRequest)

	// Two-stage approval: founder first, then mentor.
	secured.Patch("/:id/founder-decision", requestService.HandleFounderDecision)
	secured.Patch("/:id/mentor-decision", middleware.RequireRole("mentor"), requestService.HandleMentorDecision)
}
