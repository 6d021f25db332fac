package feeagreement

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/josdesi/gpac-backend/app/models"
	"github.com/josdesi/gpac-backend/internal/pkg/mail"
	"gorm.io/gorm"
)

// emailNotifier alerts the creating recruiter by email when an agreement
// status changes. Delivery is fire-and-forget with no retry.
type emailNotifier struct {
	db *gorm.DB
}

// NewEmailNotifier creates a Notifier that emails the agreement creator.
func NewEmailNotifier(db *gorm.DB) Notifier {
	return &emailNotifier{db: db}
}

func (n *emailNotifier) StatusChanged(fa *models.CompanyFeeAgreement, oldStatusID, newStatusID uint) {
	go func() {
		var creator models.User
		if err := n.db.First(&creator, fa.CreatorID).Error; err != nil {
			log.Warnf("[FeeAgreement] notify: creator %d not found: %v", fa.CreatorID, err)
			return
		}
		title := fmt.Sprintf("status %d", newStatusID)
		if s, ok := GetCatalog().StatusByID(newStatusID); ok {
			title = s.Title
		}
		subject := fmt.Sprintf("Fee agreement %s is now %s", fa.UUID, title)
		body := fmt.Sprintf("<p>Hi %s,</p><p>Fee agreement <b>%s</b> moved to <b>%s</b>.</p>",
			creator.FirstName, fa.UUID, title)
		if err := mail.SendMail(creator.Email, subject, body); err != nil {
			log.Warnf("[FeeAgreement] notify: send to %s failed: %v", creator.Email, err)
		}
	}()
}
