package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/josdesi/gpac-backend/app/controllers"
	"github.com/josdesi/gpac-backend/internal/pkg/middleware"
	"github.com/josdesi/gpac-backend/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

// registerPublicRoutes installs the unauthenticated surface: health check and
// the provider webhook endpoints. Webhooks authenticate through payload
// signatures, not sessions.
func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	webhooks := app.Group("/webhooks")
	webhooks.Post("/hellosign", controllers.HandleHelloSignWebhook)
	webhooks.Post("/docusign", controllers.HandleDocusignWebhook)
	webhooks.Post("/sendgrid", controllers.HandleSendGridWebhook)
}
