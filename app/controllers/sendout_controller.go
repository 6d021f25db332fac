package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
	"github.com/josdesi/gpac-backend/internal/pkg/database"
	"github.com/josdesi/gpac-backend/internal/pkg/sendout"
	"github.com/josdesi/gpac-backend/internal/pkg/usercontext"
)

// HandleCreateSendout creates a bulk email campaign. Recipients are screened
// against the block list and address verification before the sendout is
// stored.
func HandleCreateSendout(c *fiber.Ctx) error {
	var input sendout.CreateSendoutInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, apperr.NewValidationError("body", "invalid JSON payload"))
	}
	input.CreatorID = usercontext.GetUserID(c)

	svc := sendout.NewServiceFromDB(database.GetDB())
	so, err := svc.CreateSendout(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"sendout": so})
}

type scheduleSendoutRequest struct {
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// HandleScheduleSendout schedules a draft sendout for delivery; without a
// scheduled_at it goes out on the next sweep.
func HandleScheduleSendout(c *fiber.Ctx) error {
	uuid := c.Params("uuid")
	if uuid == "" {
		return respondError(c, apperr.NewValidationError("uuid", "is required"))
	}

	var req scheduleSendoutRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return respondError(c, apperr.NewValidationError("body", "invalid JSON payload"))
	}

	svc := sendout.NewServiceFromDB(database.GetDB())
	so, err := svc.Schedule(c.Context(), uuid, req.ScheduledAt)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"sendout": so})
}

// HandleGetSendout returns a sendout with its per-recipient delivery state.
func HandleGetSendout(c *fiber.Ctx) error {
	uuid := c.Params("uuid")
	if uuid == "" {
		return respondError(c, apperr.NewValidationError("uuid", "is required"))
	}

	svc := sendout.NewServiceFromDB(database.GetDB())
	so, err := svc.GetByUUID(c.Context(), uuid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"sendout": so})
}
