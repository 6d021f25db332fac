package feeagreement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/josdesi/gpac-backend/app/models"
)

func logEntry(id uint, eventTypeID uint, at time.Time) models.FeeAgreementEventLog {
	return models.FeeAgreementEventLog{ID: id, FeeAgreementID: 1, EventTypeID: eventTypeID, RealDate: at}
}

func TestResolveEmptyLogKeepsDefault(t *testing.T) {
	db := newTestDB(t)
	cat := newTestCatalog(t, db)

	state := Resolve(cat, models.FeeAgreementStatusUnsigned, nil)
	assert.Equal(t, models.FeeAgreementStatusUnsigned, state.StatusID)
	assert.Nil(t, state.SentToSignAt)
	assert.Nil(t, state.SignedAt)
}

func TestResolveHappyPath(t *testing.T) {
	db := newTestDB(t)
	cat := newTestCatalog(t, db)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []models.FeeAgreementEventLog{
		logEntry(1, models.EventTypeSentToSign, base),
		logEntry(2, models.EventTypeViewed, base.Add(time.Hour)),
		logEntry(3, models.EventTypeSigned, base.Add(2*time.Hour)),
	}

	state := Resolve(cat, models.FeeAgreementStatusUnsigned, events)
	assert.Equal(t, models.FeeAgreementStatusSigned, state.StatusID)
	if assert.NotNil(t, state.SentToSignAt) {
		assert.True(t, state.SentToSignAt.Equal(base))
	}
	if assert.NotNil(t, state.SignedAt) {
		assert.True(t, state.SignedAt.Equal(base.Add(2*time.Hour)))
	}
}

// Provider webhooks arrive out of order; the resolver must fold by
// real_date, not by insertion order.
func TestResolveOrderInvariance(t *testing.T) {
	db := newTestDB(t)
	cat := newTestCatalog(t, db)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	// Signed was ingested first, sent-to-sign last.
	events := []models.FeeAgreementEventLog{
		logEntry(1, models.EventTypeSigned, base.Add(2*time.Hour)),
		logEntry(2, models.EventTypeViewed, base.Add(time.Hour)),
		logEntry(3, models.EventTypeSentToSign, base),
	}

	state := Resolve(cat, models.FeeAgreementStatusUnsigned, events)
	assert.Equal(t, models.FeeAgreementStatusSigned, state.StatusID)
}

func TestResolveTieBreaksOnID(t *testing.T) {
	db := newTestDB(t)
	cat := newTestCatalog(t, db)

	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []models.FeeAgreementEventLog{
		logEntry(2, models.EventTypeSigned, at),
		logEntry(1, models.EventTypeSentToSign, at),
	}

	state := Resolve(cat, models.FeeAgreementStatusUnsigned, events)
	assert.Equal(t, models.FeeAgreementStatusSigned, state.StatusID)
}

// A late non-administrative webhook event must not pull an agreement out of a
// terminal status.
func TestResolveTerminalStickiness(t *testing.T) {
	db := newTestDB(t)
	cat := newTestCatalog(t, db)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []models.FeeAgreementEventLog{
		logEntry(1, models.EventTypeSentToSign, base),
		logEntry(2, models.EventTypeVoided, base.Add(time.Hour)),
		logEntry(3, models.EventTypeSigned, base.Add(2*time.Hour)),
	}

	state := Resolve(cat, models.FeeAgreementStatusUnsigned, events)
	assert.Equal(t, models.FeeAgreementStatusVoided, state.StatusID)
	// The signed event after the void is skipped entirely, tracking included.
	assert.Nil(t, state.SignedAt)
}

func TestResolveAdministrativeBreaksTerminal(t *testing.T) {
	db := newTestDB(t)
	cat := newTestCatalog(t, db)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []models.FeeAgreementEventLog{
		logEntry(1, models.EventTypeSentToSign, base),
		logEntry(2, models.EventTypeDeclined, base.Add(time.Hour)),
		logEntry(3, models.EventTypeReactivated, base.Add(2*time.Hour)),
	}

	state := Resolve(cat, models.FeeAgreementStatusUnsigned, events)
	assert.Equal(t, models.FeeAgreementStatusSentToSign, state.StatusID)
}

func TestResolveHistoryOnlyEventKeepsStatus(t *testing.T) {
	db := newTestDB(t)
	cat := newTestCatalog(t, db)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []models.FeeAgreementEventLog{
		logEntry(1, models.EventTypeSentToSign, base),
		logEntry(2, models.EventTypeViewed, base.Add(time.Hour)),
	}

	state := Resolve(cat, models.FeeAgreementStatusUnsigned, events)
	assert.Equal(t, models.FeeAgreementStatusSentToSign, state.StatusID)
}

func TestResolveUnknownEventTypeSkipped(t *testing.T) {
	db := newTestDB(t)
	cat := newTestCatalog(t, db)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []models.FeeAgreementEventLog{
		logEntry(1, 999, base),
		logEntry(2, models.EventTypeSentToSign, base.Add(time.Minute)),
	}

	state := Resolve(cat, models.FeeAgreementStatusUnsigned, events)
	assert.Equal(t, models.FeeAgreementStatusSentToSign, state.StatusID)
}
