package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/models"
	"github.com/theleywin/vibora/src/services"
)

// idParam parses an ObjectID route parameter
func idParam(c *fiber.Ctx, name, label string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	if err != nil {
		return primitive.NilObjectID, lib.NewValidation(name, "Invalid "+label+" ID format")
	}
	return id, nil
}

func pageQuery(c *fiber.Ctx, defaultLimit int) models.PageRequest {
	return models.NewPageRequest(c.QueryInt("page", 1), c.QueryInt("limit", defaultLimit), defaultLimit)
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return lib.NewValidation("", "Invalid request body")
	}
	return nil
}

// Controllers bundles every handler group
type Controllers struct {
	Auth          *AuthController
	Users         *UserController
	Connections   *ConnectionController
	Posts         *PostController
	Messages      *MessageController
	Notifications *NotificationController
}

func New(svc *services.Services, cookie CookieConfig) *Controllers {
	auth := NewAuthController(svc.Users, cookie)
	return &Controllers{
		Auth:          auth,
		Users:         NewUserController(svc.Users, svc.Feed, auth),
		Connections:   NewConnectionController(svc.Connections),
		Posts:         NewPostController(svc.Posts, svc.Feed),
		Messages:      NewMessageController(svc.Messages),
		Notifications: NewNotificationController(svc.Notifications),
	}
}
