package feeagreement

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
)

// helloSignCallback mirrors the HelloSign callback JSON shape. The payload
// arrives as the "json" form field of a multipart POST; the controller hands
// the adapter the decoded field verbatim.
type helloSignCallback struct {
	Event struct {
		EventID   string `json:"event_id"`
		EventType string `json:"event_type"`
		EventTime string `json:"event_time"` // unix seconds as string
		EventHash string `json:"event_hash"`
	} `json:"event"`
	SignatureRequest struct {
		SignatureRequestID string `json:"signature_request_id"`
	} `json:"signature_request"`
}

// ParseHelloSignEvent translates a raw HelloSign callback into the
// provider-agnostic event shape. Missing event id or event type is a
// MalformedWebhookError; a missing event_time falls back to zero (ingestion
// time is used downstream).
func ParseHelloSignEvent(raw []byte) (*ProviderEvent, error) {
	var cb helloSignCallback
	if err := json.Unmarshal(raw, &cb); err != nil {
		return nil, apperr.NewMalformedWebhookError(string(ProviderHelloSign), "invalid JSON: "+err.Error())
	}
	if strings.TrimSpace(cb.Event.EventID) == "" {
		return nil, apperr.NewMalformedWebhookError(string(ProviderHelloSign), "missing event id")
	}
	if strings.TrimSpace(cb.Event.EventType) == "" {
		return nil, apperr.NewMalformedWebhookError(string(ProviderHelloSign), "missing event type")
	}

	var realDate time.Time
	if ts, err := strconv.ParseInt(strings.TrimSpace(cb.Event.EventTime), 10, 64); err == nil && ts > 0 {
		realDate = time.Unix(ts, 0).UTC()
	}

	return &ProviderEvent{
		Provider:           ProviderHelloSign,
		EventID:            strings.TrimSpace(cb.Event.EventID),
		RawType:            strings.TrimSpace(cb.Event.EventType),
		RealDate:           realDate,
		SignatureRequestID: strings.TrimSpace(cb.SignatureRequest.SignatureRequestID),
		Payload:            string(raw),
	}, nil
}

// VerifyHelloSignEventHash checks the callback event_hash, which HelloSign
// computes as HMAC-SHA256(api_key, event_time + event_type).
func VerifyHelloSignEventHash(raw []byte, apiKey string) bool {
	if strings.TrimSpace(apiKey) == "" {
		return false
	}
	var cb helloSignCallback
	if err := json.Unmarshal(raw, &cb); err != nil {
		return false
	}
	expected, err := hex.DecodeString(strings.ToLower(strings.TrimSpace(cb.Event.EventHash)))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write([]byte(cb.Event.EventTime + cb.Event.EventType))
	return hmac.Equal(mac.Sum(nil), expected)
}
