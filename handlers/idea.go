package handlers

import (
	"startup-funding-system/middleware"
	"startup-funding-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupIdeaRoutes(app *fiber.App, ideaService *services.IdeaService) {
	secured := app.Group("/api/v1/ideas", middleware.RequireAuth())

	secured.Post("/", ideaService.CreateIdea)
	secured.Get("/", ideaService.GetAllIdeas)
	secured.Get("/:id", ideaService.GetIdeaByID)
	secured.Put("/:id", ideaService.UpdateIdea)
	secured.Delete("/:id", ideaService.DeleteIdea)

	// Mentor review decisions
	secured.Patch("/:id/decision", middleware.RequireRole("mentor"), ideaService.SetMentorDecision)
}
