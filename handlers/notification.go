package handlers

import (
	"startup-funding-system/middleware"
	"startup-funding-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App, notificationService *services.NotificationService) {
	secured := app.Group("/api/v1/notifications", middleware.RequireAuth())

	secured.Get("/", notificationService.GetMyNotifications)
	secured.Get("/unread-count", notificationService.GetUnreadCount)
	secured.Patch("/:id/read", notificationService.MarkRead)
	secured.Patch("/read-all", notificationService.MarkAllRead)
	secured.Delete("/:id", notificationService.DeleteNotification)

	// 🔒 Admin broadcast
	secured.Post("/", middleware.RequireRole("admin"), notificationService.CreateNotification)
}
