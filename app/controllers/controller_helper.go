package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
)

const (
	AUTH_KEY       string = "authenticated"
	USER_ID        string = "user_id"
	USER_NAME      string = "username"
	USER_ROLE      string = "userRole"
	FROM_PROTECTED string = "from_protected"
)

// respondError maps service errors onto HTTP responses. Validation problems
// become 400s, missing entities 404s, everything else a logged 500.
func respondError(c *fiber.Ctx, err error) error {
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_error",
			"field":   verr.Field,
			"message": verr.Message,
		})
	}

	var nferr *apperr.NotFoundError
	if errors.As(err, &nferr) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": nferr.Error(),
		})
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "Record not found",
		})
	}

	log.Errorf("[API] %s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_server_error",
		"message": "Something went wrong",
	})
}

// parseIDParam reads a positive numeric path parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.NewValidationError(name, "must be a positive integer")
	}
	return uint(id), nil
}

// parsePagination reads offset/limit query parameters with sane bounds.
func parsePagination(c *fiber.Ctx) (offset, limit int) {
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	limit = c.QueryInt("limit", 25)
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return offset, limit
}
