package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/josdesi/gpac-backend/app/models"
	"github.com/josdesi/gpac-backend/app/repository"
	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
	"github.com/josdesi/gpac-backend/internal/pkg/usercontext"
)

// HandleCreateCompany creates a client company owned by the caller.
func HandleCreateCompany(c *fiber.Ctx) error {
	var company models.Company
	if err := c.BodyParser(&company); err != nil {
		return respondError(c, apperr.NewValidationError("body", "invalid JSON payload"))
	}
	if company.RecruiterID == 0 {
		company.RecruiterID = usercontext.GetUserID(c)
	}
	if err := company.Validate(); err != nil {
		return respondError(c, apperr.FromValidator(err))
	}

	repo := repository.GetGlobalFactory().GetCompanyRepository()
	if err := repo.Create(&company); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"company": company})
}

// HandleGetCompany returns a company with contacts and fee agreements.
func HandleGetCompany(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	repo := repository.GetGlobalFactory().GetCompanyRepository()
	company, err := repo.GetWithAgreements(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"company": company})
}

// HandleListCompanies lists companies, optionally filtered by a search query.
func HandleListCompanies(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetCompanyRepository()

	if q := c.Query("q"); q != "" {
		companies, err := repo.Search(q)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"companies": companies})
	}

	offset, limit := parsePagination(c)
	companies, err := repo.List(offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	total, err := repo.Count()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"companies": companies, "total": total})
}

// HandleCreateHiringAuthority adds a contact to a company.
func HandleCreateHiringAuthority(c *fiber.Ctx) error {
	companyID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var ha models.HiringAuthority
	if err := c.BodyParser(&ha); err != nil {
		return respondError(c, apperr.NewValidationError("body", "invalid JSON payload"))
	}
	ha.CompanyID = companyID
	if err := ha.Validate(); err != nil {
		return respondError(c, apperr.FromValidator(err))
	}

	repo := repository.GetGlobalFactory().GetCompanyRepository()
	if _, err := repo.GetByID(companyID); err != nil {
		return respondError(c, err)
	}
	if err := repo.CreateHiringAuthority(&ha); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"hiring_authority": ha})
}

// HandleListHiringAuthorities lists a company's contacts.
func HandleListHiringAuthorities(c *fiber.Ctx) error {
	companyID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	repo := repository.GetGlobalFactory().GetCompanyRepository()
	has, err := repo.ListHiringAuthorities(companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"hiring_authorities": has})
}
