package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/josdesi/gpac-backend/app/models"
	"github.com/josdesi/gpac-backend/app/repository"
	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
	"github.com/josdesi/gpac-backend/internal/pkg/database"
	"github.com/josdesi/gpac-backend/internal/pkg/esign"
	"github.com/josdesi/gpac-backend/internal/pkg/feeagreement"
	"github.com/josdesi/gpac-backend/internal/pkg/usercontext"
)

type createFeeAgreementRequest struct {
	CompanyID         uint    `json:"company_id"`
	HiringAuthorityID uint    `json:"hiring_authority_id"`
	FeePercent        float64 `json:"fee_percentage"`
	GuaranteeDays     int     `json:"guarantee_days"`
	Verbiage          string  `json:"verbiage"`
	SendToSign        bool    `json:"send_to_sign"`
}

// HandleCreateFeeAgreement creates a fee agreement for a company contact and,
// when send_to_sign is set, pushes it to the e-signature provider and links
// the resulting signature request.
func HandleCreateFeeAgreement(c *fiber.Ctx) error {
	var req createFeeAgreementRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.NewValidationError("body", "invalid JSON payload"))
	}

	companyRepo := repository.GetGlobalFactory().GetCompanyRepository()
	ha, err := companyRepo.GetHiringAuthorityByID(req.HiringAuthorityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, apperr.NewNotFoundError("hiring authority", req.HiringAuthorityID))
		}
		return respondError(c, err)
	}
	if ha.CompanyID != req.CompanyID {
		return respondError(c, apperr.NewValidationError("hiring_authority_id", "does not belong to the company"))
	}

	fa := &models.CompanyFeeAgreement{
		UUID:              uuid.New().String(),
		CompanyID:         req.CompanyID,
		HiringAuthorityID: req.HiringAuthorityID,
		CreatorID:         usercontext.GetUserID(c),
		FeePercent:        req.FeePercent,
		GuaranteeDays:     req.GuaranteeDays,
		Verbiage:          req.Verbiage,
		StatusID:          models.FeeAgreementStatusUnsigned,
	}
	if fa.GuaranteeDays == 0 {
		fa.GuaranteeDays = 30
	}
	if err := fa.Validate(); err != nil {
		return respondError(c, apperr.FromValidator(err))
	}

	db := database.GetDB()
	if err := db.Create(fa).Error; err != nil {
		return respondError(c, err)
	}

	if req.SendToSign {
		if err := sendAgreementToSign(c, fa, ha); err != nil {
			// The agreement exists; surface the provider failure without
			// rolling it back so staff can retry the send.
			log.Errorf("[FeeAgreement] initial send failed for agreement %d: %v", fa.ID, err)
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{
				"agreement": fa,
				"warning":   "agreement created but could not be sent for signature",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"agreement": fa})
}

// sendAgreementToSign creates the provider signature request and records it
// on the agreement.
func sendAgreementToSign(c *fiber.Ctx, fa *models.CompanyFeeAgreement, ha *models.HiringAuthority) error {
	client := esign.NewHelloSignClientFromEnv()
	sr, err := client.CreateSignatureRequest(c.Context(), esign.SignatureRequestInput{
		Title:       "Fee Agreement",
		Subject:     "Fee agreement ready for signature",
		Message:     fa.Verbiage,
		SignerName:  ha.FullName(),
		SignerEmail: ha.Email,
	})
	if err != nil {
		return err
	}

	svc := newFeeAgreementService()
	updated, err := svc.RegisterSignatureRequest(c.Context(), fa.ID,
		feeagreement.ProviderHelloSign, sr.SignatureRequestID, usercontext.GetUserID(c))
	if err != nil {
		return err
	}
	*fa = *updated
	return nil
}

// HandleGetFeeAgreement returns an agreement with its visible history log.
func HandleGetFeeAgreement(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	db := database.GetDB()
	var fa models.CompanyFeeAgreement
	if err := db.Preload("Company").Preload("HiringAuthority").Preload("Status").
		First(&fa, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, apperr.NewNotFoundError("fee agreement", id))
		}
		return respondError(c, err)
	}

	history, err := newFeeAgreementService().HistoryLog(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"agreement":   fa,
		"history_log": history,
	})
}

// HandleListFeeAgreements lists agreements, optionally filtered by status
// group, hiding statuses the caller's role is not meant to see.
func HandleListFeeAgreements(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	role := usercontext.GetRole(c)
	cat := feeagreement.GetCatalog()

	db := database.GetDB()
	query := db.Model(&models.CompanyFeeAgreement{}).
		Preload("Company").Preload("Status").
		Order("created_at DESC")

	if groupID := c.QueryInt("status_group", 0); groupID > 0 {
		var statusIDs []uint
		for _, s := range cat.VisibleStatuses(role) {
			if s.StatusGroupID == uint(groupID) {
				statusIDs = append(statusIDs, s.ID)
			}
		}
		if len(statusIDs) == 0 {
			return c.JSON(fiber.Map{"agreements": []models.CompanyFeeAgreement{}})
		}
		query = query.Where("status_id IN ?", statusIDs)
	} else if hiddenIDs := cat.HiddenStatusIDsForRole(role); len(hiddenIDs) > 0 {
		query = query.Where("status_id NOT IN ?", hiddenIDs)
	}

	var agreements []models.CompanyFeeAgreement
	if err := query.Offset(offset).Limit(limit).Find(&agreements).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"agreements": agreements})
}

// HandleListFeeAgreementStatuses returns the status catalog visible to the
// caller's role, for building list filters.
func HandleListFeeAgreementStatuses(c *fiber.Ctx) error {
	role := usercontext.GetRole(c)
	return c.JSON(fiber.Map{
		"statuses": feeagreement.GetCatalog().VisibleStatuses(role),
	})
}

type voidRequest struct {
	VoidedReason string `json:"voidedReason"`
}

// HandleVoidFeeAgreement voids an agreement with a mandatory reason.
func HandleVoidFeeAgreement(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req voidRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.NewValidationError("body", "invalid JSON payload"))
	}

	fa, err := newFeeAgreementService().Void(c.Context(), id, req.VoidedReason, usercontext.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"agreement": fa})
}

type declineRequest struct {
	DeclinationNotes string `json:"declination_notes"`
}

// HandleDeclineFeeAgreement declines an agreement on behalf of the hiring
// authority with mandatory declination notes.
func HandleDeclineFeeAgreement(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req declineRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.NewValidationError("body", "invalid JSON payload"))
	}

	fa, err := newFeeAgreementService().Decline(c.Context(), id, req.DeclinationNotes, usercontext.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"agreement": fa})
}

// HandleResendFeeAgreement re-sends the signature request reminder to the
// hiring authority.
func HandleResendFeeAgreement(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	db := database.GetDB()
	var fa models.CompanyFeeAgreement
	if err := db.Preload("HiringAuthority").First(&fa, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, apperr.NewNotFoundError("fee agreement", id))
		}
		return respondError(c, err)
	}

	updated, err := newFeeAgreementService().Resend(c.Context(), id, fa.HiringAuthority.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"agreement": updated})
}

// HandleReactivateFeeAgreement moves a voided or declined agreement back into
// the signature workflow.
func HandleReactivateFeeAgreement(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	fa, err := newFeeAgreementService().Reactivate(c.Context(), id, usercontext.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"agreement": fa})
}

// newFeeAgreementService wires the workflow service with the production
// e-signature client and the email notifier.
func newFeeAgreementService() *feeagreement.Service {
	db := database.GetDB()
	svc := feeagreement.NewServiceFromDB(db)
	svc.SetESigner(esign.NewHelloSignClientFromEnv())
	svc.SetNotifier(feeagreement.NewEmailNotifier(db))
	return svc
}
