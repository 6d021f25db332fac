package sendout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/josdesi/gpac-backend/app/models"
	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
	"github.com/josdesi/gpac-backend/internal/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []string
	failOn map[string]error
	nextID int
}

func (m *fakeMailer) Send(_ context.Context, _, toEmail, _, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failOn[toEmail]; ok {
		return "", err
	}
	m.sent = append(m.sent, toEmail)
	m.nextID++
	return fmt.Sprintf("msg-%d", m.nextID), nil
}

func (m *fakeMailer) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

type fakeVerifier struct {
	verdicts map[string]string
	err      error
}

func (v *fakeVerifier) Verify(_ context.Context, email string) (*VerificationResult, error) {
	if v.err != nil {
		return nil, v.err
	}
	status, ok := v.verdicts[email]
	if !ok {
		status = VerdictValid
	}
	return &VerificationResult{Status: status}, nil
}

func newTestService(t *testing.T, mailer Mailer, verifier Verifier) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewService(NewRepository(db), mailer, verifier), db
}

func TestCreateSendoutValidation(t *testing.T) {
	svc, _ := newTestService(t, &fakeMailer{}, nil)
	ctx := context.Background()

	var verr *apperr.ValidationError
	_, err := svc.CreateSendout(ctx, CreateSendoutInput{
		Subject: "x", BodyHTML: "<p>hi</p>", CreatorID: 1,
		Recipients: []RecipientInput{{Email: "a@b.example"}},
	})
	require.ErrorAs(t, err, &verr)

	_, err = svc.CreateSendout(ctx, CreateSendoutInput{
		Subject: "Q3 openings", BodyHTML: "<p>hi</p>", CreatorID: 1,
	})
	require.ErrorAs(t, err, &verr)

	_, err = svc.CreateSendout(ctx, CreateSendoutInput{
		Subject: "Q3 openings", BodyHTML: "<p>hi</p>", CreatorID: 1,
		Recipients: []RecipientInput{{Email: "not-an-email"}},
	})
	require.ErrorAs(t, err, &verr)
}

func TestCreateSendoutScreensRecipients(t *testing.T) {
	verifier := &fakeVerifier{verdicts: map[string]string{
		"bad@nowhere.example": VerdictInvalid,
	}}
	svc, db := newTestService(t, &fakeMailer{}, verifier)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.EmailRecipientBlock{
		Kind: models.BlockKindEmail, Value: "blocked@corp.example", Source: models.BlockSourceManual,
	}).Error)

	so, err := svc.CreateSendout(ctx, CreateSendoutInput{
		Subject: "Q3 openings", BodyHTML: "<p>hi</p>", CreatorID: 1,
		Recipients: []RecipientInput{
			{Email: "Blocked@Corp.example", Name: "Blocked Person"},
			{Email: "bad@nowhere.example"},
			{Email: "good@corp.example", Name: "Good Person"},
		},
	})
	require.NoError(t, err)
	require.Len(t, so.Recipients, 3)
	assert.Equal(t, models.SendoutStatusDraft, so.Status)
	assert.NotEmpty(t, so.UUID)

	byEmail := map[string]models.SendoutRecipient{}
	for _, r := range so.Recipients {
		byEmail[r.Email] = r
	}
	assert.Equal(t, models.RecipientStatusBlocked, byEmail["blocked@corp.example"].Status)
	assert.Equal(t, models.BlockSourceManual, byEmail["blocked@corp.example"].BlockReason)
	assert.Equal(t, models.RecipientStatusInvalid, byEmail["bad@nowhere.example"].Status)
	assert.Equal(t, VerdictInvalid, byEmail["bad@nowhere.example"].Validation)
	assert.Equal(t, models.RecipientStatusPending, byEmail["good@corp.example"].Status)
}

func TestCreateSendoutDomainBlock(t *testing.T) {
	svc, db := newTestService(t, &fakeMailer{}, nil)
	require.NoError(t, db.Create(&models.EmailRecipientBlock{
		Kind: models.BlockKindDomain, Value: "competitor.example", Source: models.BlockSourceManual,
	}).Error)

	so, err := svc.CreateSendout(context.Background(), CreateSendoutInput{
		Subject: "Q3 openings", BodyHTML: "<p>hi</p>", CreatorID: 1,
		Recipients: []RecipientInput{{Email: "anyone@competitor.example"}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RecipientStatusBlocked, so.Recipients[0].Status)
}

// A verification outage must not stall campaign creation.
func TestCreateSendoutVerifierOutageKeepsPending(t *testing.T) {
	svc, _ := newTestService(t, &fakeMailer{}, &fakeVerifier{err: errors.New("briteverify timeout")})
	so, err := svc.CreateSendout(context.Background(), CreateSendoutInput{
		Subject: "Q3 openings", BodyHTML: "<p>hi</p>", CreatorID: 1,
		Recipients: []RecipientInput{{Email: "x@corp.example"}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RecipientStatusPending, so.Recipients[0].Status)
}

func TestScheduleRules(t *testing.T) {
	svc, _ := newTestService(t, &fakeMailer{}, nil)
	ctx := context.Background()

	so, err := svc.CreateSendout(ctx, CreateSendoutInput{
		Subject: "Q3 openings", BodyHTML: "<p>hi</p>", CreatorID: 1,
		Recipients: []RecipientInput{{Email: "x@corp.example"}},
	})
	require.NoError(t, err)

	// A past timestamp clamps to now.
	past := time.Now().UTC().Add(-time.Hour)
	scheduled, err := svc.Schedule(ctx, so.UUID, &past)
	require.NoError(t, err)
	assert.Equal(t, models.SendoutStatusScheduled, scheduled.Status)
	require.NotNil(t, scheduled.ScheduledAt)
	assert.True(t, scheduled.ScheduledAt.After(past))

	// Already scheduled: no double scheduling.
	var verr *apperr.ValidationError
	_, err = svc.Schedule(ctx, so.UUID, nil)
	require.ErrorAs(t, err, &verr)

	var nfe *apperr.NotFoundError
	_, err = svc.Schedule(ctx, "no-such-uuid", nil)
	require.ErrorAs(t, err, &nfe)
}

func TestDeliverSendsOnlyPending(t *testing.T) {
	mailer := &fakeMailer{}
	svc, db := newTestService(t, mailer, nil)
	ctx := context.Background()

	so, err := svc.CreateSendout(ctx, CreateSendoutInput{
		Subject: "Q3 openings", BodyHTML: "<p>hi</p>", CreatorID: 1,
		Recipients: []RecipientInput{
			{Email: "one@corp.example"},
			{Email: "two@corp.example"},
		},
	})
	require.NoError(t, err)
	// Mark one recipient blocked after the fact.
	require.NoError(t, db.Model(&models.SendoutRecipient{}).
		Where("sendout_id = ? AND email = ?", so.ID, "two@corp.example").
		Update("status", models.RecipientStatusBlocked).Error)

	require.NoError(t, svc.Deliver(ctx, so.ID))

	assert.Equal(t, []string{"one@corp.example"}, mailer.sentTo())
	got, err := svc.GetByUUID(ctx, so.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.SendoutStatusSent, got.Status)
	assert.NotNil(t, got.SentAt)

	var sent models.SendoutRecipient
	require.NoError(t, db.First(&sent, "sendout_id = ? AND email = ?", so.ID, "one@corp.example").Error)
	assert.Equal(t, models.RecipientStatusSent, sent.Status)
	assert.Equal(t, "msg-1", sent.SGMessageID)

	// A retry of the delivery job must not send again.
	require.NoError(t, svc.Deliver(ctx, so.ID))
	assert.Equal(t, []string{"one@corp.example"}, mailer.sentTo())
}

func TestDeliverAllFailedMarksSendoutFailed(t *testing.T) {
	mailer := &fakeMailer{failOn: map[string]error{
		"one@corp.example": errors.New("sendgrid 503"),
	}}
	svc, db := newTestService(t, mailer, nil)
	ctx := context.Background()

	so, err := svc.CreateSendout(ctx, CreateSendoutInput{
		Subject: "Q3 openings", BodyHTML: "<p>hi</p>", CreatorID: 1,
		Recipients: []RecipientInput{{Email: "one@corp.example"}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deliver(ctx, so.ID))

	got, err := svc.GetByUUID(ctx, so.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.SendoutStatusFailed, got.Status)

	var rec models.SendoutRecipient
	require.NoError(t, db.First(&rec, "sendout_id = ?", so.ID).Error)
	assert.Equal(t, models.RecipientStatusFailed, rec.Status)
	assert.Contains(t, rec.ErrorMsg, "sendgrid 503")
}

func TestDeliverUnknownSendout(t *testing.T) {
	svc, _ := newTestService(t, &fakeMailer{}, nil)
	var nfe *apperr.NotFoundError
	require.ErrorAs(t, svc.Deliver(context.Background(), 999), &nfe)
}

func TestListDueScheduled(t *testing.T) {
	svc, db := newTestService(t, &fakeMailer{}, nil)
	ctx := context.Background()
	repo := NewRepository(db)

	due, err := svc.CreateSendout(ctx, CreateSendoutInput{
		Subject: "Due now", BodyHTML: "<p>hi</p>", CreatorID: 1,
		Recipients: []RecipientInput{{Email: "a@corp.example"}},
	})
	require.NoError(t, err)
	_, err = svc.Schedule(ctx, due.UUID, nil)
	require.NoError(t, err)

	later, err := svc.CreateSendout(ctx, CreateSendoutInput{
		Subject: "Much later", BodyHTML: "<p>hi</p>", CreatorID: 1,
		Recipients: []RecipientInput{{Email: "b@corp.example"}},
	})
	require.NoError(t, err)
	future := time.Now().UTC().Add(48 * time.Hour)
	_, err = svc.Schedule(ctx, later.UUID, &future)
	require.NoError(t, err)

	got, err := repo.ListDueScheduled(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, due.ID, got[0].ID)
}

func TestVerificationResultDeliverable(t *testing.T) {
	assert.True(t, (&VerificationResult{Status: VerdictValid}).Deliverable())
	assert.True(t, (&VerificationResult{Status: VerdictAcceptAll}).Deliverable())
	assert.False(t, (&VerificationResult{Status: VerdictValid, Disposable: true}).Deliverable())
	assert.False(t, (&VerificationResult{Status: VerdictInvalid}).Deliverable())
	assert.False(t, (&VerificationResult{Status: VerdictUnknown}).Deliverable())
}
