package handlers

import (
	"startup-funding-system/middleware"
	"startup-funding-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupEventRoutes(app *fiber.App, eventService *services.EventService) {
	secured := app.Group("/api/v1/events", middleware.RequireAuth())

	secured.Get("/", eventService.GetUpcomingEvents)
	secured.Get("/:id", eventService.GetEventByID)
	secured.Post("/:id/rsvp", eventService.RSVPToEvent)

	// Mentor-hosted events
	secured.Post("/", middleware.RequireRole("mentor"), eventService.CreateEvent)
	secured.Put("/:id", eventService.UpdateEvent)    // organizer or admin, checked in service
	secured.Delete("/:id", eventService.DeleteEvent) // organizer or admin, checked in service
}
