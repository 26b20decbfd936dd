package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/models"
	"github.com/theleywin/vibora/src/services"
)

// CookieConfig controls the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthController struct {
	users  *services.UserService
	cookie CookieConfig
}

func NewAuthController(users *services.UserService, cookie CookieConfig) *AuthController {
	return &AuthController{users: users, cookie: cookie}
}

func (a *AuthController) setSession(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     a.cookie.Name,
		Value:    token,
		Expires:  time.Now().Add(a.users.TokenTTL()),
		HTTPOnly: true,
		Secure:   a.cookie.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (a *AuthController) clearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     a.cookie.Name,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   a.cookie.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// Signup registers a new user and starts a session
func (a *AuthController) Signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, token, err := a.users.Signup(c.UserContext(), req)
	if err != nil {
		return err
	}

	a.setSession(c, token)
	return c.Status(fiber.StatusCreated).JSON(lib.DataResponse("User created successfully", user.Dto()))
}

// Login authenticates a user and starts a session
func (a *AuthController) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, token, err := a.users.Login(c.UserContext(), req)
	if err != nil {
		return err
	}

	a.setSession(c, token)
	return c.JSON(lib.DataResponse("Logged in successfully", user.Dto()))
}

// Logout clears the session cookie
func (a *AuthController) Logout(c *fiber.Ctx) error {
	a.clearSession(c)
	return c.JSON(lib.MessageResponse("Logged out successfully"))
}
