package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Company is a client company the agency recruits for.
type Company struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(200);not null;index" json:"name" validate:"required,min=2,max=200"`
	Website     string         `gorm:"type:varchar(255)" json:"website" validate:"omitempty,url,max=255"`
	Phone       string         `gorm:"type:varchar(30)" json:"phone" validate:"max=30"`
	Address     string         `gorm:"type:varchar(255)" json:"address" validate:"max=255"`
	City        string         `gorm:"type:varchar(100);index" json:"city" validate:"max=100"`
	State       string         `gorm:"type:varchar(100)" json:"state" validate:"max=100"`
	Zip         string         `gorm:"type:varchar(20)" json:"zip" validate:"max=20"`
	RecruiterID uint           `gorm:"not null;index" json:"recruiter_id" validate:"required"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	HiringAuthorities []HiringAuthority     `gorm:"foreignKey:CompanyID" json:"hiring_authorities,omitempty"`
	FeeAgreements     []CompanyFeeAgreement `gorm:"foreignKey:CompanyID" json:"fee_agreements,omitempty"`
	JobOrders         []JobOrder            `gorm:"foreignKey:CompanyID" json:"job_orders,omitempty"`
}

func (c *Company) Validate() error {
	v := validator.New()

	return v.Struct(c)
}
