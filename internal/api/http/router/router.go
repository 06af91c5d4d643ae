package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/userdir/userdir-server/internal/api/http/handler"
	"github.com/userdir/userdir-server/internal/api/http/middleware"
	"github.com/userdir/userdir-server/internal/logger"
)

// Router wires the user endpoints and middleware into a fiber app.
type Router struct {
	userService handler.UserService
	authorizer  middleware.Authorizer
	logger      *logger.Logger
}

// New creates new Router instance.
func New(
	userService handler.UserService,
	authorizer middleware.Authorizer,
	logger *logger.Logger,
) *Router {
	return &Router{
		userService: userService,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// Register builds the fiber app with request logging, authorization and
// the user routes.
func (r *Router) Register() *fiber.App {
	logging := middleware.NewLogging(r.logger)
	authorize := middleware.NewAuthorize(r.authorizer, r.logger)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(logging.Handle)
	app.Use(authorize.Handle)

	r.registerUserRoutes(app)

	return app
}

func (r *Router) registerUserRoutes(app *fiber.App) {
	userHandler := handler.NewUser(r.userService, r.logger)

	app.Get("/users", userHandler.List)
	app.Post("/users", userHandler.Create)
	app.Patch("/users", userHandler.Update)
	app.Delete("/users", userHandler.Delete)
}

// errorHandler keeps stray errors inside the API's error envelope
// without leaking their details.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	if code == fiber.StatusInternalServerError {
		return c.Status(code).JSON(fiber.Map{"error": "Something went wrong. Please contact administrator"})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
