package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/vibora/src/controllers"
)

// AuthRoutes sets up signup, login and logout
func AuthRoutes(app *fiber.App, ac *controllers.AuthController) {
	app.Post("/signup", ac.Signup)
	app.Post("/login", ac.Login)
	app.Post("/logout", ac.Logout)
}

// UserRoutes sets up the profile endpoints and user discovery
func UserRoutes(app *fiber.App, uc *controllers.UserController, protect fiber.Handler) {
	profile := app.Group("/profile", protect)
	profile.Get("/", uc.GetProfile)
	profile.Get("/user/:userId", uc.GetPublicProfile)
	profile.Patch("/edit", uc.EditProfile)
	profile.Patch("/password", uc.ChangePassword)
	profile.Delete("/delete", uc.DeleteAccount)

	app.Get("/feed/users/search", protect, uc.SearchUsers)
	app.Get("/user/suggestions", protect, uc.GetSuggestedConnections)
}
