package models

import "time"

// HelloSignEvent stores a raw HelloSign callback payload verbatim. The
// provider event id is the primary key, so a redelivered callback finds the
// existing row instead of creating a second one -- that uniqueness is the
// idempotency mechanism for the whole ingestion path.
type HelloSignEvent struct {
	EventID   string    `gorm:"primaryKey;type:varchar(191)" json:"event_id"`
	EventType string    `gorm:"type:varchar(100);not null;index" json:"event_type"`
	Payload   string    `gorm:"type:longtext;not null" json:"payload"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// SendGridEvent records a processed SendGrid webhook event id. The primary
// key makes a redelivered batch entry a no-op even when the side effect it
// produced, such as a block row staff has since removed, no longer exists.
type SendGridEvent struct {
	EventID   string    `gorm:"primaryKey;type:varchar(191)" json:"event_id"`
	EventType string    `gorm:"type:varchar(50);not null" json:"event_type"`
	Email     string    `gorm:"type:varchar(200);not null" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// DocusignEvent stores a raw DocuSign Connect payload verbatim, keyed by the
// provider event id. Processed marks whether the event has been folded into
// an event log entry; redeliveries of an already processed id are no-ops.
type DocusignEvent struct {
	EventID   string    `gorm:"primaryKey;type:varchar(191)" json:"event_id"`
	EventType string    `gorm:"type:varchar(100);not null;index" json:"event_type"`
	Payload   string    `gorm:"type:longtext;not null" json:"payload"`
	Processed bool      `gorm:"default:false;index" json:"processed"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
