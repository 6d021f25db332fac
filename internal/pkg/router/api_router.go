package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/josdesi/gpac-backend/app/controllers"
	"github.com/josdesi/gpac-backend/app/models"
	"github.com/josdesi/gpac-backend/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	// Auth
	v1.Post("/auth/login", controllers.HandleLogin)
	v1.Post("/auth/logout", controllers.HandleLogout)
	v1.Get("/auth/me", middleware.RequireAPIAuth(), controllers.HandleMe)
	v1.Post("/auth/api-key", middleware.RequireAPISessionAuth, controllers.HandleGenerateAPIKey)
	v1.Post("/auth/register", middleware.RequireAPIAuth(), middleware.RequireRole(models.ROLE_ADMIN), controllers.HandleRegisterUser)

	// Everything below requires a staff session or an API key
	staff := v1.Group("", middleware.RequireAPIAuth())

	// Companies and hiring authorities
	staff.Post("/companies", controllers.HandleCreateCompany)
	staff.Get("/companies", controllers.HandleListCompanies)
	staff.Get("/companies/:id", controllers.HandleGetCompany)
	staff.Post("/companies/:id/hiring-authorities", controllers.HandleCreateHiringAuthority)
	staff.Get("/companies/:id/hiring-authorities", controllers.HandleListHiringAuthorities)

	// Candidates
	staff.Post("/candidates", controllers.HandleCreateCandidate)
	staff.Get("/candidates", controllers.HandleListCandidates)
	staff.Get("/candidates/:id", controllers.HandleGetCandidate)

	// Job orders and placements
	staff.Post("/job-orders", controllers.HandleCreateJobOrder)
	staff.Get("/job-orders", controllers.HandleListJobOrders)
	staff.Get("/job-orders/:id", controllers.HandleGetJobOrder)
	staff.Post("/job-orders/:id/placements", controllers.HandleCreatePlacement)

	// Fee agreements
	staff.Post("/fee-agreements", controllers.HandleCreateFeeAgreement)
	staff.Get("/fee-agreements", controllers.HandleListFeeAgreements)
	staff.Get("/fee-agreements/statuses", controllers.HandleListFeeAgreementStatuses)
	staff.Get("/fee-agreements/:id", controllers.HandleGetFeeAgreement)
	staff.Post("/fee-agreements/:id/void",
		middleware.RequireRole(models.ROLE_COACH, models.ROLE_OPERATIONS),
		controllers.HandleVoidFeeAgreement)
	staff.Post("/fee-agreements/:id/decline",
		middleware.RequireRole(models.ROLE_COACH, models.ROLE_OPERATIONS),
		controllers.HandleDeclineFeeAgreement)
	staff.Post("/fee-agreements/:id/resend", controllers.HandleResendFeeAgreement)
	staff.Post("/fee-agreements/:id/reactivate",
		middleware.RequireRole(models.ROLE_OPERATIONS),
		controllers.HandleReactivateFeeAgreement)

	// Sendouts
	staff.Post("/sendouts", controllers.HandleCreateSendout)
	staff.Get("/sendouts/:uuid", controllers.HandleGetSendout)
	staff.Post("/sendouts/:uuid/schedule", controllers.HandleScheduleSendout)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
