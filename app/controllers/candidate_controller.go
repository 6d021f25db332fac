package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/josdesi/gpac-backend/app/models"
	"github.com/josdesi/gpac-backend/app/repository"
	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
	"github.com/josdesi/gpac-backend/internal/pkg/usercontext"
)

// HandleCreateCandidate creates a candidate owned by the caller.
func HandleCreateCandidate(c *fiber.Ctx) error {
	var candidate models.Candidate
	if err := c.BodyParser(&candidate); err != nil {
		return respondError(c, apperr.NewValidationError("body", "invalid JSON payload"))
	}
	if candidate.RecruiterID == 0 {
		candidate.RecruiterID = usercontext.GetUserID(c)
	}
	if err := candidate.Validate(); err != nil {
		return respondError(c, apperr.FromValidator(err))
	}

	repo := repository.GetGlobalFactory().GetCandidateRepository()
	if err := repo.Create(&candidate); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"candidate": candidate})
}

// HandleGetCandidate returns a single candidate.
func HandleGetCandidate(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	repo := repository.GetGlobalFactory().GetCandidateRepository()
	candidate, err := repo.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"candidate": candidate})
}

// HandleListCandidates lists candidates, optionally filtered by a search
// query.
func HandleListCandidates(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetCandidateRepository()

	if q := c.Query("q"); q != "" {
		candidates, err := repo.Search(q)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"candidates": candidates})
	}

	offset, limit := parsePagination(c)
	candidates, err := repo.List(offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	total, err := repo.Count()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"candidates": candidates, "total": total})
}
