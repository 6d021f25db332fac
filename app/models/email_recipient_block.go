package models

import (
	"strings"
	"time"
)

// Block kinds and sources.
const (
	BlockKindEmail  = "email"
	BlockKindDomain = "domain"

	BlockSourceBounce     = "bounce"
	BlockSourceSpamReport = "spamreport"
	BlockSourceManual     = "manual"
)

// EmailRecipientBlock suppresses future sendout deliveries to an address or an
// entire domain. Rows are created automatically from SendGrid bounce/spam
// events or manually by operations staff. The (kind, value) unique index keeps
// one row per blocked target regardless of how many events hit it.
type EmailRecipientBlock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      string    `gorm:"type:varchar(10);not null;index:ux_email_recipient_blocks_kind_value,unique,priority:1" json:"kind"`
	Value     string    `gorm:"type:varchar(191);not null;index:ux_email_recipient_blocks_kind_value,unique,priority:2" json:"value"`
	Source    string    `gorm:"type:varchar(20);not null" json:"source"`
	Notes     string    `gorm:"type:varchar(255)" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Matches reports whether the block applies to the given email address.
func (b *EmailRecipientBlock) Matches(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	switch b.Kind {
	case BlockKindEmail:
		return email == strings.ToLower(b.Value)
	case BlockKindDomain:
		at := strings.LastIndex(email, "@")
		return at >= 0 && email[at+1:] == strings.ToLower(b.Value)
	default:
		return false
	}
}
