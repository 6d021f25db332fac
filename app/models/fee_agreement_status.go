package models

import "strings"

// Seeded status group IDs. Reference data, loaded by migrations/seeding and
// never mutated at runtime.
const (
	StatusGroupUnsigned uint = 1
	StatusGroupSigned   uint = 2
	StatusGroupVoided   uint = 3
	StatusGroupDeclined uint = 4
)

// Seeded fee agreement status IDs.
const (
	FeeAgreementStatusUnsigned   uint = 1
	FeeAgreementStatusSentToSign uint = 2
	FeeAgreementStatusSigned     uint = 3
	FeeAgreementStatusVoided     uint = 4
	FeeAgreementStatusDeclined   uint = 5
)

// FeeAgreementStatusGroup buckets statuses into the coarse categories the UI
// filters on (Unsigned, Signed, Voided, Declined).
type FeeAgreementStatusGroup struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Title          string `gorm:"type:varchar(100);not null;uniqueIndex" json:"title"`
	StyleClassName string `gorm:"type:varchar(100)" json:"style_class_name"`
}

// FeeAgreementStatus is a fine-grained signature workflow status. Every status
// belongs to exactly one group; the group carries the broad bucket semantics.
type FeeAgreementStatus struct {
	ID                    uint                    `gorm:"primaryKey" json:"id"`
	Title                 string                  `gorm:"type:varchar(100);not null" json:"title"`
	StatusGroupID         uint                    `gorm:"not null;index" json:"fee_agreement_status_group_id"`
	StatusGroup           FeeAgreementStatusGroup `gorm:"foreignKey:StatusGroupID" json:"status_group,omitempty"`
	Hidden                bool                    `gorm:"default:false" json:"hidden"`
	HideByDefaultForRoles string                  `gorm:"type:varchar(255)" json:"-"` // comma-separated role names
}

// IsTerminal reports whether the status locks the agreement against further
// non-administrative events.
func (s *FeeAgreementStatus) IsTerminal() bool {
	return s.StatusGroupID == StatusGroupVoided || s.StatusGroupID == StatusGroupDeclined
}

// HiddenForRole reports whether the status should be filtered out of listings
// for the given role.
func (s *FeeAgreementStatus) HiddenForRole(role string) bool {
	if s.Hidden {
		return true
	}
	if s.HideByDefaultForRoles == "" {
		return false
	}
	role = strings.ToLower(strings.TrimSpace(role))
	for _, r := range strings.Split(s.HideByDefaultForRoles, ",") {
		if strings.ToLower(strings.TrimSpace(r)) == role {
			return true
		}
	}
	return false
}
