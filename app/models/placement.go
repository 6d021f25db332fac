package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Placement records a candidate hired through a job order and the fee the
// agency invoices for it. FeeAgreementID links the placement back to the
// signed agreement its fee terms come from.
type Placement struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	JobOrderID     uint           `gorm:"not null;index" json:"job_order_id" validate:"required"`
	CandidateID    uint           `gorm:"not null;index" json:"candidate_id" validate:"required"`
	FeeAgreementID *uint          `gorm:"index" json:"company_fee_agreement_id,omitempty"`
	FeeAmount      float64        `gorm:"type:decimal(12,2)" json:"fee_amount" validate:"gte=0"`
	StartDate      *time.Time     `gorm:"type:timestamp;default:null" json:"start_date,omitempty"`
	Approved       bool           `gorm:"default:false" json:"approved"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Placement) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
