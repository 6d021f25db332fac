package feeagreement

import "time"

// Provider identifies the e-signature service a webhook came from.
type Provider string

const (
	ProviderHelloSign Provider = "hellosign"
	ProviderDocusign  Provider = "docusign"
)

// ProviderEvent is the provider-agnostic shape a webhook adapter produces.
// RawType still carries the provider vocabulary; the catalog resolves it to an
// internal event type. RealDate is the provider-reported event time and may be
// zero when the payload omits it (ingestion time is used then).
type ProviderEvent struct {
	Provider           Provider
	EventID            string
	RawType            string
	RealDate           time.Time
	SignatureRequestID string
	Payload            string
}

// IngestResult reports what a webhook ingestion actually did.
type IngestResult struct {
	Duplicate      bool // provider event id already seen, nothing appended
	Unmapped       bool // raw payload stored, no catalog mapping for RawType
	AgreementFound bool
	FeeAgreementID uint
	StatusID       uint // resolved status after ingestion
}

// HistoryEntry is one visible row of an agreement's history log.
type HistoryEntry struct {
	EventTypeID uint      `json:"event_type_id"`
	EventName   string    `json:"event_name"`
	RealDate    time.Time `json:"real_date"`
	Notes       string    `json:"notes,omitempty"`
	CreatedByID *uint     `json:"created_by_id,omitempty"`
}
