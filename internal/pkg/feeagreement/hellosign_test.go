package feeagreement

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
)

func TestParseHelloSignEvent(t *testing.T) {
	raw := []byte(`{
		"event": {
			"event_id": "abc123",
			"event_type": "signature_request_all_signed",
			"event_time": "1767225600",
			"event_hash": "deadbeef"
		},
		"signature_request": {"signature_request_id": "sig-42"}
	}`)

	ev, err := ParseHelloSignEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, ProviderHelloSign, ev.Provider)
	assert.Equal(t, "abc123", ev.EventID)
	assert.Equal(t, "signature_request_all_signed", ev.RawType)
	assert.Equal(t, "sig-42", ev.SignatureRequestID)
	assert.True(t, ev.RealDate.Equal(time.Unix(1767225600, 0).UTC()))
	assert.Equal(t, string(raw), ev.Payload)
}

func TestParseHelloSignEventCallbackTestPing(t *testing.T) {
	// Account callback test pings carry no signature_request block.
	raw := []byte(`{
		"event": {"event_id": "ping-1", "event_type": "callback_test", "event_time": "1767225600"}
	}`)
	ev, err := ParseHelloSignEvent(raw)
	require.NoError(t, err)
	assert.Empty(t, ev.SignatureRequestID)
}

func TestParseHelloSignEventMalformed(t *testing.T) {
	var mwe *apperr.MalformedWebhookError
	cases := map[string]string{
		"invalid json":  `{"event":`,
		"no event id":   `{"event": {"event_type": "signature_request_sent"}}`,
		"no event type": `{"event": {"event_id": "x"}}`,
	}
	for name, raw := range cases {
		_, err := ParseHelloSignEvent([]byte(raw))
		require.ErrorAs(t, err, &mwe, name)
		assert.Equal(t, "hellosign", mwe.Provider, name)
	}
}

func TestParseHelloSignEventBadTimestamp(t *testing.T) {
	raw := []byte(`{
		"event": {"event_id": "ev-1", "event_type": "signature_request_sent", "event_time": "not-a-number"}
	}`)
	ev, err := ParseHelloSignEvent(raw)
	require.NoError(t, err)
	assert.True(t, ev.RealDate.IsZero())
}

func signedHelloSignPayload(apiKey, eventID, eventType, eventTime string) []byte {
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write([]byte(eventTime + eventType))
	hash := hex.EncodeToString(mac.Sum(nil))
	return []byte(fmt.Sprintf(`{
		"event": {"event_id": %q, "event_type": %q, "event_time": %q, "event_hash": %q}
	}`, eventID, eventType, eventTime, hash))
}

func TestVerifyHelloSignEventHash(t *testing.T) {
	const apiKey = "test-api-key"
	raw := signedHelloSignPayload(apiKey, "ev-1", "signature_request_sent", "1767225600")

	assert.True(t, VerifyHelloSignEventHash(raw, apiKey))
	assert.False(t, VerifyHelloSignEventHash(raw, "other-key"))
	assert.False(t, VerifyHelloSignEventHash(raw, ""))
	assert.False(t, VerifyHelloSignEventHash([]byte(`{"event": {"event_hash": "zz"}}`), apiKey))
	assert.False(t, VerifyHelloSignEventHash([]byte(`not json`), apiKey))
}
