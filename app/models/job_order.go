package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	JOB_ORDER_OPEN   = "open"
	JOB_ORDER_PLACED = "placed"
	JOB_ORDER_CLOSED = "closed"
)

// JobOrder is an open search at a client company.
type JobOrder struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Title             string          `gorm:"type:varchar(200);not null;index" json:"title" validate:"required,min=2,max=200"`
	CompanyID         uint            `gorm:"not null;index" json:"company_id" validate:"required"`
	Company           Company         `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	HiringAuthorityID uint            `gorm:"not null;index" json:"hiring_authority_id" validate:"required"`
	HiringAuthority   HiringAuthority `gorm:"foreignKey:HiringAuthorityID" json:"hiring_authority,omitempty"`
	RecruiterID       uint            `gorm:"not null;index" json:"recruiter_id" validate:"required"`
	Status            string          `gorm:"type:varchar(20);default:'open';index" json:"status" validate:"oneof=open placed closed"`
	SalaryLow         float64         `gorm:"type:decimal(12,2)" json:"salary_low" validate:"gte=0"`
	SalaryHigh        float64         `gorm:"type:decimal(12,2)" json:"salary_high" validate:"gte=0"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`

	Placements []Placement `gorm:"foreignKey:JobOrderID" json:"placements,omitempty"`
}

func (j *JobOrder) Validate() error {
	v := validator.New()

	return v.Struct(j)
}
