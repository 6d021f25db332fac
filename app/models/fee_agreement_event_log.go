package models

import "time"

// FeeAgreementEventLog is the append-only ledger of events applied to a fee
// agreement. Rows are created once per received or derived event and never
// updated or deleted; the status resolver folds over them to compute the
// agreement's current status.
//
// RealDate is the event time as reported by the provider, which can differ
// from CreatedAt (ingestion time) when deliveries arrive late or out of order.
// HelloSignEventID/DocusignEventID back-reference the raw webhook row and
// double as the per-provider idempotency check before an append.
type FeeAgreementEventLog struct {
	ID               uint                  `gorm:"primaryKey" json:"id"`
	FeeAgreementID   uint                  `gorm:"not null;index" json:"company_fee_agreement_id"`
	EventTypeID      uint                  `gorm:"not null;index" json:"event_type_id"`
	EventType        FeeAgreementEventType `gorm:"foreignKey:EventTypeID" json:"event_type,omitempty"`
	RealDate         time.Time             `gorm:"not null;index" json:"real_date"`
	HelloSignEventID *string               `gorm:"type:varchar(191);uniqueIndex" json:"associated_hello_sign_event_id,omitempty"`
	DocusignEventID  *string               `gorm:"type:varchar(191);uniqueIndex" json:"associated_docusign_event_id,omitempty"`
	Notes            string                `gorm:"type:text" json:"notes,omitempty"`
	CreatedByID      *uint                 `gorm:"index" json:"created_by_id,omitempty"` // staff user for synthetic events
	CreatedAt        time.Time             `gorm:"autoCreateTime" json:"created_at"`
}
