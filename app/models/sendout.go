package models

import "time"

// Sendout statuses.
const (
	SendoutStatusDraft     = "draft"
	SendoutStatusScheduled = "scheduled"
	SendoutStatusSending   = "sending"
	SendoutStatusSent      = "sent"
	SendoutStatusFailed    = "failed"
)

// Sendout recipient states. A recipient moves pending -> sent -> delivered/
// bounced/opened as SendGrid webhook events arrive; blocked and invalid are
// set before delivery by the validation pipeline.
const (
	RecipientStatusPending   = "pending"
	RecipientStatusBlocked   = "blocked"
	RecipientStatusInvalid   = "invalid"
	RecipientStatusSent      = "sent"
	RecipientStatusDelivered = "delivered"
	RecipientStatusBounced   = "bounced"
	RecipientStatusOpened    = "opened"
	RecipientStatusFailed    = "failed"
)

// Sendout is one bulk email campaign created by a recruiter.
type Sendout struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UUID        string     `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	Subject     string     `gorm:"type:varchar(255);not null" json:"subject"`
	BodyHTML    string     `gorm:"type:longtext;not null" json:"body_html"`
	CreatorID   uint       `gorm:"not null;index" json:"creator_id"`
	Status      string     `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	ScheduledAt *time.Time `gorm:"type:timestamp;default:null" json:"scheduled_at,omitempty"`
	SentAt      *time.Time `gorm:"type:timestamp;default:null" json:"sent_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Recipients []SendoutRecipient `gorm:"foreignKey:SendoutID" json:"recipients,omitempty"`
}

// SendoutRecipient is one target address of a sendout with its per-recipient
// delivery state. SGMessageID correlates SendGrid webhook events back to the
// row that produced the send.
type SendoutRecipient struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SendoutID   uint      `gorm:"not null;index" json:"sendout_id"`
	Email       string    `gorm:"type:varchar(200);not null;index" json:"email"`
	Name        string    `gorm:"type:varchar(200)" json:"name"`
	Status      string    `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	BlockReason string    `gorm:"type:varchar(255)" json:"block_reason,omitempty"`
	Validation  string    `gorm:"type:varchar(50)" json:"validation,omitempty"` // BriteVerify verdict
	SGMessageID string    `gorm:"type:varchar(191);index" json:"sg_message_id,omitempty"`
	ErrorMsg    string    `gorm:"type:text" json:"error_msg,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
