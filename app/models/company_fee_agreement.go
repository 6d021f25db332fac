package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Signature provider identifiers as stored on agreements and used by the
// webhook adapters.
const (
	SignatureProviderHelloSign = "hellosign"
	SignatureProviderDocusign  = "docusign"
)

// CompanyFeeAgreement is the contract between the agency and a client company,
// tracked through the signature workflow. StatusID holds the current resolved
// status; it is written exclusively by the status resolver, driven by the
// event log -- staff void/decline actions go through synthetic event log
// entries rather than touching the column directly.
type CompanyFeeAgreement struct {
	ID                 uint               `gorm:"primaryKey" json:"id"`
	UUID               string             `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	CompanyID          uint               `gorm:"not null;index" json:"company_id" validate:"required"`
	Company            Company            `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	HiringAuthorityID  uint               `gorm:"not null;index" json:"hiring_authority_id" validate:"required"`
	HiringAuthority    HiringAuthority    `gorm:"foreignKey:HiringAuthorityID" json:"hiring_authority,omitempty"`
	CreatorID          uint               `gorm:"not null;index" json:"creator_id" validate:"required"`
	FeePercent         float64            `gorm:"type:decimal(5,2)" json:"fee_percentage" validate:"gte=0,lte=100"`
	GuaranteeDays      int                `gorm:"default:30" json:"guarantee_days" validate:"gte=0,lte=365"`
	Verbiage           string             `gorm:"type:text" json:"verbiage"`
	StatusID           uint               `gorm:"not null;default:1;index" json:"fee_agreement_status_id"`
	Status             FeeAgreementStatus `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	SignatureProvider  string             `gorm:"type:varchar(20)" json:"signature_provider"`
	SignatureRequestID string             `gorm:"type:varchar(191);index" json:"signature_request_id"`

	TrackingSentToSignDate *time.Time `gorm:"type:timestamp;default:null" json:"tracking_sent_to_sign_date,omitempty"`
	TrackingSignedDate     *time.Time `gorm:"type:timestamp;default:null" json:"tracking_signed_date,omitempty"`
	LastResendTime         *time.Time `gorm:"type:timestamp;default:null" json:"last_resend_time,omitempty"`

	VoidedReason     string `gorm:"type:varchar(200)" json:"voided_reason,omitempty"`
	DeclinationNotes string `gorm:"type:text" json:"declination_notes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	EventLogs []FeeAgreementEventLog `gorm:"foreignKey:FeeAgreementID" json:"event_logs,omitempty"`
}

func (fa *CompanyFeeAgreement) Validate() error {
	v := validator.New()

	return v.Struct(fa)
}
