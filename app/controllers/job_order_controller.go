package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/josdesi/gpac-backend/app/models"
	"github.com/josdesi/gpac-backend/app/repository"
	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
	"github.com/josdesi/gpac-backend/internal/pkg/usercontext"
)

// HandleCreateJobOrder opens a search at a client company.
func HandleCreateJobOrder(c *fiber.Ctx) error {
	var jobOrder models.JobOrder
	if err := c.BodyParser(&jobOrder); err != nil {
		return respondError(c, apperr.NewValidationError("body", "invalid JSON payload"))
	}
	if jobOrder.RecruiterID == 0 {
		jobOrder.RecruiterID = usercontext.GetUserID(c)
	}
	if jobOrder.Status == "" {
		jobOrder.Status = models.JOB_ORDER_OPEN
	}
	if err := jobOrder.Validate(); err != nil {
		return respondError(c, apperr.FromValidator(err))
	}

	repo := repository.GetGlobalFactory().GetJobOrderRepository()
	if err := repo.Create(&jobOrder); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"job_order": jobOrder})
}

// HandleGetJobOrder returns a job order with company, contact and placements.
func HandleGetJobOrder(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	repo := repository.GetGlobalFactory().GetJobOrderRepository()
	jobOrder, err := repo.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"job_order": jobOrder})
}

// HandleListJobOrders lists job orders, optionally filtered by status.
func HandleListJobOrders(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetJobOrderRepository()
	offset, limit := parsePagination(c)

	if status := c.Query("status"); status != "" {
		jobOrders, err := repo.GetByStatus(status, offset, limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"job_orders": jobOrders})
	}

	jobOrders, err := repo.List(offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	total, err := repo.Count()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"job_orders": jobOrders, "total": total})
}

// HandleCreatePlacement records a hire against a job order and closes it.
func HandleCreatePlacement(c *fiber.Ctx) error {
	jobOrderID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var placement models.Placement
	if err := c.BodyParser(&placement); err != nil {
		return respondError(c, apperr.NewValidationError("body", "invalid JSON payload"))
	}
	placement.JobOrderID = jobOrderID
	if err := placement.Validate(); err != nil {
		return respondError(c, apperr.FromValidator(err))
	}

	repo := repository.GetGlobalFactory().GetJobOrderRepository()
	jobOrder, err := repo.GetByID(jobOrderID)
	if err != nil {
		return respondError(c, err)
	}
	if err := repo.CreatePlacement(&placement); err != nil {
		return respondError(c, err)
	}

	jobOrder.Status = models.JOB_ORDER_PLACED
	jobOrder.Company = models.Company{}
	jobOrder.HiringAuthority = models.HiringAuthority{}
	jobOrder.Placements = nil
	if err := repo.Update(jobOrder); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"placement": placement})
}
