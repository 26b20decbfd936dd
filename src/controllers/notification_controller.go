package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/middleware"
	"github.com/theleywin/vibora/src/services"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// GetUserNotifications lists the authenticated user's notifications, newest first
func (nc *NotificationController) GetUserNotifications(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	list, err := nc.notifications.List(c.UserContext(), user.Id)
	if err != nil {
		return err
	}
	return c.JSON(lib.DataResponse("Notifications fetched successfully", list))
}

// MarkNotificationAsRead marks one of the user's notifications as read
func (nc *NotificationController) MarkNotificationAsRead(c *fiber.Ctx) error {
	id, err := idParam(c, "id", "notification")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	n, err := nc.notifications.MarkRead(c.UserContext(), id, user.Id)
	if err != nil {
		return err
	}
	return c.JSON(lib.DataResponse("Notification marked as read", n))
}

// DeleteNotification removes one of the user's notifications
func (nc *NotificationController) DeleteNotification(c *fiber.Ctx) error {
	id, err := idParam(c, "id", "notification")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if err := nc.notifications.Delete(c.UserContext(), id, user.Id); err != nil {
		return err
	}
	return c.JSON(lib.MessageResponse("Notification deleted successfully"))
}
