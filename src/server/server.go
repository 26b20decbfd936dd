// Package server assembles the Fiber application from a store and the configuration.
package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theleywin/vibora/src/controllers"
	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/middleware"
	"github.com/theleywin/vibora/src/repository"
	"github.com/theleywin/vibora/src/routes"
	"github.com/theleywin/vibora/src/services"
)

// Deps is everything the application needs from main
type Deps struct {
	Config *lib.Config
	Store  *repository.Store
	Logger *zap.Logger
	// Ping checks the store for /healthz. Nil means always healthy.
	Ping func(context.Context) error
}

func New(d Deps) *fiber.App {
	cfg := d.Config

	app := fiber.New(fiber.Config{
		AppName:      "vibora",
		ErrorHandler: lib.ErrorHandler(d.Logger),
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger(d.Logger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: cfg.CORSOrigins != "*",
	}))
	app.Use(middleware.Timeout(cfg.RequestTimeout))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if d.Ping != nil {
			if err := d.Ping(c.UserContext()); err != nil {
				d.Logger.Warn("health check failed", zap.Error(err))
				return c.Status(fiber.StatusServiceUnavailable).JSON(lib.MessageResponse("unavailable"))
			}
		}
		return c.JSON(lib.MessageResponse("ok"))
	})
	app.Get("/metrics", adaptor.HTTPHandler(lib.MetricsHandler()))

	tokens := lib.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	svc := services.New(d.Store, tokens, cfg.Auth.BcryptCost, d.Logger)
	ctrl := controllers.New(svc, controllers.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.Auth.CookieSecure,
	})
	protect := middleware.ProtectRoute(svc.Users, cfg.Auth.CookieName)

	routes.AuthRoutes(app, ctrl.Auth)
	routes.UserRoutes(app, ctrl.Users, protect)
	routes.ConnectionRoutes(app, ctrl.Connections, protect)
	routes.PostRoutes(app, ctrl.Posts, protect)
	routes.MessageRoutes(app, ctrl.Messages, protect)
	routes.NotificationRoutes(app, ctrl.Notifications, protect)

	return app
}
