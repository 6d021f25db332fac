package feeagreement

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/josdesi/gpac-backend/app/models"
	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
)

func helloSignPayload(eventID, eventType, sigReqID string, at time.Time) []byte {
	return []byte(fmt.Sprintf(`{
		"event": {"event_id": %q, "event_type": %q, "event_time": "%d", "event_hash": ""},
		"signature_request": {"signature_request_id": %q}
	}`, eventID, eventType, at.Unix(), sigReqID))
}

func docusignPayload(eventID, event, envelopeID string, at time.Time) []byte {
	return []byte(fmt.Sprintf(`{
		"event": %q,
		"eventId": %q,
		"generatedDateTime": %q,
		"data": {"envelopeId": %q, "accountId": "acct-1"}
	}`, event, eventID, at.Format(time.RFC3339), envelopeID))
}

func reloadAgreement(t *testing.T, db *gorm.DB, id uint) *models.CompanyFeeAgreement {
	t.Helper()
	var fa models.CompanyFeeAgreement
	require.NoError(t, db.First(&fa, id).Error)
	return &fa
}

func countEventLogs(t *testing.T, db *gorm.DB, feeAgreementID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.FeeAgreementEventLog{}).
		Where("fee_agreement_id = ?", feeAgreementID).Count(&n).Error)
	return n
}

func TestIngestHelloSignLifecycle(t *testing.T) {
	svc, db := newTestService(t)
	fa := seedAgreement(t, db, "sig-req-lifecycle")
	ctx := context.Background()

	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	steps := []struct {
		eventID, eventType string
		at                 time.Time
		wantStatus         uint
	}{
		{"ev-sent", "signature_request_sent", base, models.FeeAgreementStatusSentToSign},
		{"ev-viewed", "signature_request_viewed", base.Add(time.Hour), models.FeeAgreementStatusSentToSign},
		{"ev-signed", "signature_request_all_signed", base.Add(2 * time.Hour), models.FeeAgreementStatusSigned},
	}
	for _, step := range steps {
		res, err := svc.IngestHelloSignEvent(ctx, helloSignPayload(step.eventID, step.eventType, fa.SignatureRequestID, step.at))
		require.NoError(t, err)
		assert.True(t, res.AgreementFound)
		assert.Equal(t, step.wantStatus, res.StatusID)
	}

	got := reloadAgreement(t, db, fa.ID)
	assert.Equal(t, models.FeeAgreementStatusSigned, got.StatusID)
	if assert.NotNil(t, got.TrackingSentToSignDate) {
		assert.True(t, got.TrackingSentToSignDate.Equal(base))
	}
	if assert.NotNil(t, got.TrackingSignedDate) {
		assert.True(t, got.TrackingSignedDate.Equal(base.Add(2*time.Hour)))
	}
	assert.EqualValues(t, 3, countEventLogs(t, db, fa.ID))
}

// Providers redeliver webhooks; a redelivered event id must not append a
// second event log row or change the status again.
func TestIngestHelloSignRedeliveryIsNoOp(t *testing.T) {
	svc, db := newTestService(t)
	fa := seedAgreement(t, db, "sig-req-dup")
	ctx := context.Background()

	payload := helloSignPayload("ev-once", "signature_request_sent", fa.SignatureRequestID, time.Now().UTC())
	res, err := svc.IngestHelloSignEvent(ctx, payload)
	require.NoError(t, err)
	assert.False(t, res.Duplicate)

	res, err = svc.IngestHelloSignEvent(ctx, payload)
	require.NoError(t, err)
	assert.True(t, res.Duplicate)

	assert.EqualValues(t, 1, countEventLogs(t, db, fa.ID))
	var rawCount int64
	require.NoError(t, db.Model(&models.HelloSignEvent{}).Count(&rawCount).Error)
	assert.EqualValues(t, 1, rawCount)
}

// HelloSign fires callbacks within seconds of the signature request send, so
// the first delivery can race the agreement registration commit. The provider
// retry must pick the stored event up once the agreement exists.
func TestIngestHelloSignRedeliveryRecoversPreRegistrationEvent(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	at := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	payload := helloSignPayload("ev-early", "signature_request_sent", "sig-req-racing", at)
	res, err := svc.IngestHelloSignEvent(ctx, payload)
	require.NoError(t, err)
	assert.False(t, res.AgreementFound)

	fa := seedAgreement(t, db, "sig-req-racing")

	res, err = svc.IngestHelloSignEvent(ctx, payload)
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.True(t, res.AgreementFound)
	assert.Equal(t, models.FeeAgreementStatusSentToSign, res.StatusID)

	assert.EqualValues(t, 1, countEventLogs(t, db, fa.ID))
	got := reloadAgreement(t, db, fa.ID)
	assert.Equal(t, models.FeeAgreementStatusSentToSign, got.StatusID)
	if assert.NotNil(t, got.TrackingSentToSignDate) {
		assert.True(t, got.TrackingSentToSignDate.Equal(at))
	}
}

func TestIngestMalformedPayload(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.IngestHelloSignEvent(ctx, []byte(`{"event": {"event_type": "signature_request_sent"}}`))
	var mwe *apperr.MalformedWebhookError
	require.ErrorAs(t, err, &mwe)

	_, err = svc.IngestDocusignEvent(ctx, []byte(`not json at all`))
	require.ErrorAs(t, err, &mwe)
	assert.Equal(t, "docusign", mwe.Provider)
}

// An event type the catalog does not map is stored raw and reported as
// unmapped, never an error.
func TestIngestUnmappedEventTypeStoredRaw(t *testing.T) {
	svc, db := newTestService(t)
	fa := seedAgreement(t, db, "sig-req-unmapped")
	ctx := context.Background()

	res, err := svc.IngestHelloSignEvent(ctx,
		helloSignPayload("ev-unknown", "signature_request_downloadable", fa.SignatureRequestID, time.Now().UTC()))
	require.NoError(t, err)
	assert.True(t, res.Unmapped)
	assert.False(t, res.AgreementFound)

	var stored models.HelloSignEvent
	require.NoError(t, db.First(&stored, "event_id = ?", "ev-unknown").Error)
	assert.Equal(t, "signature_request_downloadable", stored.EventType)
	assert.EqualValues(t, 0, countEventLogs(t, db, fa.ID))
}

// An event for a signature request nobody registered yet is kept for the
// backfill sweeper: docusign rows stay unprocessed until an agreement exists.
func TestIngestDocusignBeforeRegistrationThenReprocess(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	at := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

	res, err := svc.IngestDocusignEvent(ctx, docusignPayload("ds-ev-1", "envelope-sent", "envelope-77", at))
	require.NoError(t, err)
	assert.False(t, res.AgreementFound)

	repo := NewRepository(db)
	pending, err := repo.ListUnprocessedDocusignEvents(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "ds-ev-1", pending[0].EventID)

	// Staff registers the envelope against an agreement, then the sweeper
	// replays the stored event.
	fa := seedAgreement(t, db, "placeholder-sig")
	_, err = svc.RegisterSignatureRequest(ctx, fa.ID, ProviderDocusign, "envelope-77", 5)
	require.NoError(t, err)

	res, err = svc.ReprocessProviderEvent(ctx, ProviderDocusign, "ds-ev-1")
	require.NoError(t, err)
	assert.True(t, res.AgreementFound)
	assert.Equal(t, models.FeeAgreementStatusSentToSign, res.StatusID)

	pending, err = repo.ListUnprocessedDocusignEvents(10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestIngestDocusignUnmappedMarkedProcessed(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.IngestDocusignEvent(ctx,
		docusignPayload("ds-ev-odd", "recipient-resent", "envelope-88", time.Now().UTC()))
	require.NoError(t, err)

	// No catalog mapping means replay can never resolve it; it must not be
	// fed to the sweeper forever.
	var stored models.DocusignEvent
	require.NoError(t, db.First(&stored, "event_id = ?", "ds-ev-odd").Error)
	assert.True(t, stored.Processed)
}

func TestVoidRequiresReason(t *testing.T) {
	svc, db := newTestService(t)
	fa := seedAgreement(t, db, "sig-req-void-validate")
	ctx := context.Background()

	var verr *apperr.ValidationError
	_, err := svc.Void(ctx, fa.ID, "   ", 9)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "voidedReason", verr.Field)

	_, err = svc.Void(ctx, fa.ID, strings.Repeat("x", 201), 9)
	require.ErrorAs(t, err, &verr)

	// The cap counts characters, not bytes: 200 two-byte runes must pass.
	_, err = svc.Void(ctx, fa.ID, strings.Repeat("é", 201), 9)
	require.ErrorAs(t, err, &verr)
	_, err = svc.Void(ctx, fa.ID, strings.Repeat("é", 200), 9)
	require.NoError(t, err)

	// Only the accepted void may leave an event log row behind.
	assert.EqualValues(t, 1, countEventLogs(t, db, fa.ID))
	assert.Equal(t, models.FeeAgreementStatusVoided, reloadAgreement(t, db, fa.ID).StatusID)
}

func TestVoidThenLateWebhookStaysVoided(t *testing.T) {
	svc, db := newTestService(t)
	fa := seedAgreement(t, db, "sig-req-void-late")
	ctx := context.Background()
	base := time.Date(2026, 4, 3, 10, 0, 0, 0, time.UTC)

	_, err := svc.IngestHelloSignEvent(ctx, helloSignPayload("ev-v-sent", "signature_request_sent", fa.SignatureRequestID, base))
	require.NoError(t, err)

	voided, err := svc.Void(ctx, fa.ID, "duplicate agreement opened by mistake", 9)
	require.NoError(t, err)
	assert.Equal(t, models.FeeAgreementStatusVoided, voided.StatusID)
	assert.Equal(t, "duplicate agreement opened by mistake", voided.VoidedReason)

	// A signed webhook arriving after the staff void must not resurrect it.
	_, err = svc.IngestHelloSignEvent(ctx,
		helloSignPayload("ev-v-signed", "signature_request_all_signed", fa.SignatureRequestID, time.Now().UTC().Add(time.Minute)))
	require.NoError(t, err)

	got := reloadAgreement(t, db, fa.ID)
	assert.Equal(t, models.FeeAgreementStatusVoided, got.StatusID)
	assert.Nil(t, got.TrackingSignedDate)
}

func TestDeclineAndReactivate(t *testing.T) {
	svc, db := newTestService(t)
	fa := seedAgreement(t, db, "sig-req-decline")
	ctx := context.Background()

	_, err := svc.Decline(ctx, fa.ID, "", 9)
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)

	declined, err := svc.Decline(ctx, fa.ID, "signer asked to renegotiate the fee", 9)
	require.NoError(t, err)
	assert.Equal(t, models.FeeAgreementStatusDeclined, declined.StatusID)
	assert.Equal(t, "signer asked to renegotiate the fee", declined.DeclinationNotes)

	reactivated, err := svc.Reactivate(ctx, fa.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, models.FeeAgreementStatusSentToSign, reactivated.StatusID)
}

func TestVoidUnknownAgreement(t *testing.T) {
	svc, _ := newTestService(t)
	var nfe *apperr.NotFoundError
	_, err := svc.Void(context.Background(), 4242, "some reason", 9)
	require.ErrorAs(t, err, &nfe)
}

type fakeESigner struct {
	mu        sync.Mutex
	cancelled []string
	reminded  []string
}

func (f *fakeESigner) CancelSignatureRequest(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeESigner) Remind(_ context.Context, id, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminded = append(f.reminded, id+":"+email)
	return nil
}

func (f *fakeESigner) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cancelled), len(f.reminded)
}

func TestResendUpdatesTimestampAndPingsProvider(t *testing.T) {
	svc, db := newTestService(t)
	fa := seedAgreement(t, db, "sig-req-resend")
	fake := &fakeESigner{}
	svc.SetESigner(fake)
	ctx := context.Background()

	got, err := svc.Resend(ctx, fa.ID, "dana.whitfield@acme.example")
	require.NoError(t, err)
	require.NotNil(t, got.LastResendTime)

	require.Eventually(t, func() bool {
		_, reminded := fake.counts()
		return reminded == 1
	}, time.Second, 10*time.Millisecond)
}

func TestResendRejectedForTerminalAgreement(t *testing.T) {
	svc, db := newTestService(t)
	fa := seedAgreement(t, db, "sig-req-resend-void")
	ctx := context.Background()

	_, err := svc.Void(ctx, fa.ID, "client closed the requisition", 9)
	require.NoError(t, err)

	var verr *apperr.ValidationError
	_, err = svc.Resend(ctx, fa.ID, "dana.whitfield@acme.example")
	require.ErrorAs(t, err, &verr)
}

func TestHistoryLogFiltersHiddenEventTypes(t *testing.T) {
	svc, db := newTestService(t)
	fa := seedAgreement(t, db, "sig-req-history")
	ctx := context.Background()

	// Hide the Viewed event type for this test catalog.
	require.NoError(t, db.Model(&models.FeeAgreementEventType{}).
		Where("id = ?", models.EventTypeViewed).
		Update("show_in_history_log", false).Error)
	svc.catalog = newTestCatalog(t, db)

	base := time.Date(2026, 4, 4, 9, 0, 0, 0, time.UTC)
	_, err := svc.IngestHelloSignEvent(ctx, helloSignPayload("ev-h-sent", "signature_request_sent", fa.SignatureRequestID, base))
	require.NoError(t, err)
	_, err = svc.IngestHelloSignEvent(ctx, helloSignPayload("ev-h-viewed", "signature_request_viewed", fa.SignatureRequestID, base.Add(time.Hour)))
	require.NoError(t, err)

	entries, err := svc.HistoryLog(ctx, fa.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Sent to Sign", entries[0].EventName)
}

type recordingNotifier struct {
	mu      sync.Mutex
	changes []string
}

func (n *recordingNotifier) StatusChanged(fa *models.CompanyFeeAgreement, oldStatusID, newStatusID uint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, fmt.Sprintf("%d:%d->%d", fa.ID, oldStatusID, newStatusID))
}

func TestNotifierFiresOnlyOnStatusChange(t *testing.T) {
	svc, db := newTestService(t)
	fa := seedAgreement(t, db, "sig-req-notify")
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)
	ctx := context.Background()

	base := time.Date(2026, 4, 5, 9, 0, 0, 0, time.UTC)
	_, err := svc.IngestHelloSignEvent(ctx, helloSignPayload("ev-n-sent", "signature_request_sent", fa.SignatureRequestID, base))
	require.NoError(t, err)
	// Viewed has no target status: no notification expected.
	_, err = svc.IngestHelloSignEvent(ctx, helloSignPayload("ev-n-viewed", "signature_request_viewed", fa.SignatureRequestID, base.Add(time.Hour)))
	require.NoError(t, err)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.changes, 1)
	assert.Equal(t, fmt.Sprintf("%d:1->2", fa.ID), notifier.changes[0])
}
