package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// HiringAuthority is the contact at a client company who signs fee agreements
// and makes hiring decisions.
type HiringAuthority struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CompanyID uint           `gorm:"not null;index" json:"company_id" validate:"required"`
	FirstName string         `gorm:"type:varchar(100);not null" json:"first_name" validate:"required,min=2,max=100"`
	LastName  string         `gorm:"type:varchar(100);not null" json:"last_name" validate:"required,min=2,max=100"`
	Title     string         `gorm:"type:varchar(150)" json:"title" validate:"max=150"`
	Email     string         `gorm:"type:varchar(200);not null;index" json:"work_email" validate:"required,email,max=200"`
	Phone     string         `gorm:"type:varchar(30)" json:"work_phone" validate:"max=30"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (h *HiringAuthority) Validate() error {
	v := validator.New()

	return v.Struct(h)
}

// FullName returns "First Last" for signature requests and emails.
func (h *HiringAuthority) FullName() string {
	return h.FirstName + " " + h.LastName
}
