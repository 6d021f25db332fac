package feeagreement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
)

func TestParseDocusignEvent(t *testing.T) {
	raw := []byte(`{
		"event": "envelope-completed",
		"eventId": "ds-123",
		"generatedDateTime": "2026-04-01T12:30:00Z",
		"data": {"envelopeId": "env-9", "accountId": "acct-1"}
	}`)

	ev, err := ParseDocusignEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, ProviderDocusign, ev.Provider)
	assert.Equal(t, "ds-123", ev.EventID)
	assert.Equal(t, "envelope-completed", ev.RawType)
	assert.Equal(t, "env-9", ev.SignatureRequestID)
	assert.True(t, ev.RealDate.Equal(time.Date(2026, 4, 1, 12, 30, 0, 0, time.UTC)))
}

func TestParseDocusignEventMalformed(t *testing.T) {
	var mwe *apperr.MalformedWebhookError
	cases := map[string]string{
		"invalid json":  `envelope`,
		"no event id":   `{"event": "envelope-sent"}`,
		"no event name": `{"eventId": "ds-1"}`,
	}
	for name, raw := range cases {
		_, err := ParseDocusignEvent([]byte(raw))
		require.ErrorAs(t, err, &mwe, name)
		assert.Equal(t, "docusign", mwe.Provider, name)
	}
}

func TestParseDocusignEventBadTimestamp(t *testing.T) {
	raw := []byte(`{"event": "envelope-sent", "eventId": "ds-2", "generatedDateTime": "yesterday"}`)
	ev, err := ParseDocusignEvent(raw)
	require.NoError(t, err)
	assert.True(t, ev.RealDate.IsZero())
}
