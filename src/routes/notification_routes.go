package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/vibora/src/controllers"
)

// NotificationRoutes sets up listing, reading and deleting notifications
func NotificationRoutes(app *fiber.App, nc *controllers.NotificationController, protect fiber.Handler) {
	notification := app.Group("/notifications", protect)
	notification.Get("/", nc.GetUserNotifications)
	notification.Put("/:id/read", nc.MarkNotificationAsRead)
	notification.Delete("/:id", nc.DeleteNotification)
}
