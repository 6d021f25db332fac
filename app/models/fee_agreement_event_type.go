package models

// Seeded fee agreement event type IDs.
const (
	EventTypeCreated     uint = 1
	EventTypeSentToSign  uint = 2
	EventTypeViewed      uint = 3
	EventTypeSigned      uint = 4
	EventTypeDeclined    uint = 5
	EventTypeVoided      uint = 6
	EventTypeReactivated uint = 7
)

// FeeAgreementEventType describes one kind of event that can occur on a fee
// agreement. Provider columns map the external e-signature vocabulary onto the
// internal one; at most one event type may claim a given provider string, which
// the unique indexes enforce. TargetStatusID is the status the event drives the
// agreement to (0 = history-only, no status effect). Administrative event types
// are the only ones allowed to move an agreement out of a terminal status.
type FeeAgreementEventType struct {
	ID                 uint    `gorm:"primaryKey" json:"id"`
	Name               string  `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	HelloSignEventType *string `gorm:"type:varchar(100);uniqueIndex" json:"associated_hellosign_event_type,omitempty"`
	DocusignEventType  *string `gorm:"type:varchar(100);uniqueIndex" json:"associated_docusign_event_type,omitempty"`
	TargetStatusID     uint    `gorm:"default:0" json:"target_status_id"`
	Administrative     bool    `gorm:"default:false" json:"administrative"`
	ShowInHistoryLog   bool    `gorm:"default:true" json:"show_in_history_log"`
}
