package feeagreement

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
)

// docusignNotification mirrors the DocuSign Connect JSON notification shape.
// The envelope id is the reference we store as the signature request id.
type docusignNotification struct {
	Event             string `json:"event"`
	EventID           string `json:"eventId"`
	GeneratedDateTime string `json:"generatedDateTime"` // RFC 3339
	Data              struct {
		EnvelopeID string `json:"envelopeId"`
		AccountID  string `json:"accountId"`
	} `json:"data"`
}

// ParseDocusignEvent translates a raw DocuSign Connect notification into the
// provider-agnostic event shape. Missing event id or event name is a
// MalformedWebhookError.
func ParseDocusignEvent(raw []byte) (*ProviderEvent, error) {
	var n docusignNotification
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, apperr.NewMalformedWebhookError(string(ProviderDocusign), "invalid JSON: "+err.Error())
	}
	if strings.TrimSpace(n.EventID) == "" {
		return nil, apperr.NewMalformedWebhookError(string(ProviderDocusign), "missing event id")
	}
	if strings.TrimSpace(n.Event) == "" {
		return nil, apperr.NewMalformedWebhookError(string(ProviderDocusign), "missing event type")
	}

	var realDate time.Time
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(n.GeneratedDateTime)); err == nil {
		realDate = t.UTC()
	}

	return &ProviderEvent{
		Provider:           ProviderDocusign,
		EventID:            strings.TrimSpace(n.EventID),
		RawType:            strings.TrimSpace(n.Event),
		RealDate:           realDate,
		SignatureRequestID: strings.TrimSpace(n.Data.EnvelopeID),
		Payload:            string(raw),
	}, nil
}
