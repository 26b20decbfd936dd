package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/vibora/src/models"
	"github.com/theleywin/vibora/src/services"
)

const userLocal = "user"

// ProtectRoute resolves the session token from the cookie or the Authorization header and
// attaches the active user to the request
func ProtectRoute(users *services.UserService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}

		user, err := users.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}

		user.Password = ""
		c.Locals(userLocal, *user)

		return c.Next()
	}
}

// CurrentUser returns the user attached by ProtectRoute
func CurrentUser(c *fiber.Ctx) models.User {
	user, _ := c.Locals(userLocal).(models.User)
	return user
}
