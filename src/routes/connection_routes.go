package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/vibora/src/controllers"
)

// ConnectionRoutes sets up the connection request lifecycle and the relationship views
func ConnectionRoutes(app *fiber.App, cc *controllers.ConnectionController, protect fiber.Handler) {
	connection := app.Group("/connection", protect)

	connection.Post("/request/:userId", cc.SendConnectionRequest)
	connection.Patch("/accept/:userId", cc.AcceptConnectionRequest)
	connection.Patch("/reject/:userId", cc.RejectConnectionRequest)
	connection.Delete("/cancel/:userId", cc.CancelConnectionRequest)
	connection.Delete("/remove/:friendId", cc.RemoveConnection)
	connection.Patch("/block/:userId", cc.BlockUser)

	connection.Get("/requests/received", cc.GetReceivedRequests)
	connection.Get("/requests/sent", cc.GetSentRequests)
	connection.Get("/friends", cc.GetFriends)
	connection.Get("/stats", cc.GetConnectionStats)
	connection.Get("/status/:userId", cc.GetConnectionStatus)
}
