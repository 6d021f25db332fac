package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Candidate is a person the agency markets to client companies.
type Candidate struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	FirstName   string         `gorm:"type:varchar(100);not null" json:"first_name" validate:"required,min=2,max=100"`
	LastName    string         `gorm:"type:varchar(100);not null;index" json:"last_name" validate:"required,min=2,max=100"`
	Email       string         `gorm:"type:varchar(200);not null;index" json:"email" validate:"required,email,max=200"`
	Phone       string         `gorm:"type:varchar(30)" json:"phone" validate:"max=30"`
	Title       string         `gorm:"type:varchar(150)" json:"title" validate:"max=150"`
	CurrentRate float64        `gorm:"type:decimal(12,2)" json:"current_rate" validate:"gte=0"`
	City        string         `gorm:"type:varchar(100)" json:"city" validate:"max=100"`
	State       string         `gorm:"type:varchar(100)" json:"state" validate:"max=100"`
	Relocatable bool           `gorm:"default:false" json:"relocatable"`
	RecruiterID uint           `gorm:"not null;index" json:"recruiter_id" validate:"required"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Candidate) Validate() error {
	v := validator.New()

	return v.Struct(c)
}
