package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/middleware"
	"github.com/theleywin/vibora/src/models"
	"github.com/theleywin/vibora/src/services"
)

// UserController serves the profile endpoints and user discovery
type UserController struct {
	users *services.UserService
	feed  *services.FeedService
	auth  *AuthController
}

func NewUserController(users *services.UserService, feed *services.FeedService, auth *AuthController) *UserController {
	return &UserController{users: users, feed: feed, auth: auth}
}

// GetProfile returns the authenticated user's own profile
func (u *UserController) GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(lib.DataResponse("Profile fetched successfully", user.Dto()))
}

// GetPublicProfile returns another user's profile without the email
func (u *UserController) GetPublicProfile(c *fiber.Ctx) error {
	userID, err := idParam(c, "userId", "user")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	profile, err := u.users.Profile(c.UserContext(), user.Id, userID)
	if err != nil {
		return err
	}
	return c.JSON(lib.DataResponse("Profile fetched successfully", profile))
}

// EditProfile updates the editable profile fields
func (u *UserController) EditProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	updated, err := u.users.UpdateProfile(c.UserContext(), user.Id, c.Body())
	if err != nil {
		return err
	}
	return c.JSON(lib.DataResponse(updated.FirstName+", your profile was updated successfully", updated.Dto()))
}

// ChangePassword replaces the password after checking the current one
func (u *UserController) ChangePassword(c *fiber.Ctx) error {
	var req models.PasswordChangeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if err := u.users.ChangePassword(c.UserContext(), user.Id, req); err != nil {
		return err
	}
	return c.JSON(lib.MessageResponse("Password updated successfully"))
}

// DeleteAccount deactivates the account and ends the session
func (u *UserController) DeleteAccount(c *fiber.Ctx) error {
	var req models.DeleteAccountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if err := u.users.DeleteAccount(c.UserContext(), user.Id, req); err != nil {
		return err
	}

	u.auth.clearSession(c)
	return c.JSON(lib.MessageResponse("Account deleted successfully"))
}

// SearchUsers finds users by name or email the caller has no relationship with
func (u *UserController) SearchUsers(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	users, page, err := u.feed.Search(c.UserContext(), user.Id, c.Query("search"), pageQuery(c, services.DefaultSuggestionsLimit))
	if err != nil {
		return err
	}
	return c.JSON(lib.PageResponse("Users fetched successfully", users, page))
}

// GetSuggestedConnections lists users the caller has no relationship with
func (u *UserController) GetSuggestedConnections(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	users, page, err := u.feed.Suggestions(c.UserContext(), user.Id, pageQuery(c, services.DefaultSuggestionsLimit))
	if err != nil {
		return err
	}
	return c.JSON(lib.PageResponse("Suggestions fetched successfully", users, page))
}
