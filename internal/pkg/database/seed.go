package database

import (
	"github.com/josdesi/gpac-backend/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedCatalogs loads the immutable status and event type reference data. The
// inserts are keyed by primary key with DoNothing on conflict, so running it
// on every boot is safe and deployed rows are never overwritten at runtime.
func SeedCatalogs(db *gorm.DB) error {
	groups := []models.FeeAgreementStatusGroup{
		{ID: models.StatusGroupUnsigned, Title: "Unsigned", StyleClassName: "warning"},
		{ID: models.StatusGroupSigned, Title: "Signed", StyleClassName: "success"},
		{ID: models.StatusGroupVoided, Title: "Voided", StyleClassName: "danger"},
		{ID: models.StatusGroupDeclined, Title: "Declined", StyleClassName: "danger"},
	}

	statuses := []models.FeeAgreementStatus{
		{ID: models.FeeAgreementStatusUnsigned, Title: "Unsigned", StatusGroupID: models.StatusGroupUnsigned},
		{ID: models.FeeAgreementStatusSentToSign, Title: "Sent to Sign", StatusGroupID: models.StatusGroupUnsigned},
		{ID: models.FeeAgreementStatusSigned, Title: "Signed", StatusGroupID: models.StatusGroupSigned},
		{ID: models.FeeAgreementStatusVoided, Title: "Voided", StatusGroupID: models.StatusGroupVoided,
			HideByDefaultForRoles: "recruiter"},
		{ID: models.FeeAgreementStatusDeclined, Title: "Declined", StatusGroupID: models.StatusGroupDeclined,
			HideByDefaultForRoles: "recruiter"},
	}

	eventTypes := []models.FeeAgreementEventType{
		{ID: models.EventTypeCreated, Name: "Created",
			TargetStatusID: 0, ShowInHistoryLog: true},
		{ID: models.EventTypeSentToSign, Name: "Sent to Sign",
			HelloSignEventType: strPtr("signature_request_sent"),
			DocusignEventType:  strPtr("envelope-sent"),
			TargetStatusID:     models.FeeAgreementStatusSentToSign, ShowInHistoryLog: true},
		{ID: models.EventTypeViewed, Name: "Viewed",
			HelloSignEventType: strPtr("signature_request_viewed"),
			DocusignEventType:  strPtr("envelope-delivered"),
			TargetStatusID:     0, ShowInHistoryLog: true},
		{ID: models.EventTypeSigned, Name: "Signed",
			HelloSignEventType: strPtr("signature_request_all_signed"),
			DocusignEventType:  strPtr("envelope-completed"),
			TargetStatusID:     models.FeeAgreementStatusSigned, ShowInHistoryLog: true},
		{ID: models.EventTypeDeclined, Name: "Declined",
			HelloSignEventType: strPtr("signature_request_declined"),
			DocusignEventType:  strPtr("envelope-declined"),
			TargetStatusID:     models.FeeAgreementStatusDeclined,
			Administrative:     true, ShowInHistoryLog: true},
		{ID: models.EventTypeVoided, Name: "Voided",
			DocusignEventType: strPtr("envelope-voided"),
			TargetStatusID:    models.FeeAgreementStatusVoided,
			Administrative:    true, ShowInHistoryLog: true},
		{ID: models.EventTypeReactivated, Name: "Reactivated",
			TargetStatusID: models.FeeAgreementStatusSentToSign,
			Administrative: true, ShowInHistoryLog: true},
	}

	for _, g := range groups {
		g := g
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&g).Error; err != nil {
			return err
		}
	}
	for _, s := range statuses {
		s := s
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&s).Error; err != nil {
			return err
		}
	}
	for _, et := range eventTypes {
		et := et
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&et).Error; err != nil {
			return err
		}
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}
