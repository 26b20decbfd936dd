package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/vibora/src/controllers"
)

func MessageRoutes(app *fiber.App, mc *controllers.MessageController, protect fiber.Handler) {
	message := app.Group("/message", protect)
	message.Post("/send/:receiverId", mc.SendMessage)
	message.Get("/conversation/:friendId", mc.GetConversation)
	message.Get("/conversations", mc.GetConversations)
	message.Get("/unread/count", mc.GetUnreadCount)
	message.Patch("/mark-read/:friendId", mc.MarkAsRead)
	message.Delete("/delete/:messageId", mc.DeleteMessage)
}
