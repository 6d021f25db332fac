package sendout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/josdesi/gpac-backend/app/models"
	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Service runs the bulk email pipeline: recipient validation, blocked
// recipient rules, scheduling and delivery.
type Service struct {
	repo     Repository
	mailer   Mailer
	verifier Verifier
}

// NewService creates a sendout service from injected collaborators. A nil
// verifier disables pre-send address validation.
func NewService(repo Repository, mailer Mailer, verifier Verifier) *Service {
	return &Service{repo: repo, mailer: mailer, verifier: verifier}
}

// NewServiceFromDB creates a sendout service with the production SendGrid and
// BriteVerify clients.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), NewSendGridMailerFromEnv(), NewBriteVerifyClientFromEnv())
}

// RecipientInput is one target address of a new sendout.
type RecipientInput struct {
	Email string `json:"email" validate:"required,email,max=200"`
	Name  string `json:"name" validate:"max=200"`
}

// CreateSendoutInput is the validated payload for creating a sendout.
type CreateSendoutInput struct {
	Subject    string           `json:"subject" validate:"required,min=2,max=255"`
	BodyHTML   string           `json:"body_html" validate:"required"`
	CreatorID  uint             `json:"-"`
	Recipients []RecipientInput `json:"recipients" validate:"required,min=1,max=1000,dive"`
}

// CreateSendout stores a new campaign and runs each recipient through the
// block list and address verification. Blocked or undeliverable addresses are
// kept on the sendout in their filtered state so staff can see what was
// skipped and why.
func (s *Service) CreateSendout(ctx context.Context, in CreateSendoutInput) (*models.Sendout, error) {
	if err := validator.New().Struct(in); err != nil {
		return nil, apperr.FromValidator(err)
	}

	so := &models.Sendout{
		UUID:      uuid.New().String(),
		Subject:   strings.TrimSpace(in.Subject),
		BodyHTML:  in.BodyHTML,
		CreatorID: in.CreatorID,
		Status:    models.SendoutStatusDraft,
	}
	for _, r := range in.Recipients {
		so.Recipients = append(so.Recipients, s.screenRecipient(ctx, r))
	}
	if err := s.repo.CreateSendout(so); err != nil {
		return nil, err
	}
	return so, nil
}

// screenRecipient applies block rules first (cheap, local), then the paid
// verification call only for addresses that survive them.
func (s *Service) screenRecipient(ctx context.Context, in RecipientInput) models.SendoutRecipient {
	rec := models.SendoutRecipient{
		Email:  strings.ToLower(strings.TrimSpace(in.Email)),
		Name:   strings.TrimSpace(in.Name),
		Status: models.RecipientStatusPending,
	}

	block, err := s.repo.FindBlockForEmail(rec.Email)
	if err == nil {
		rec.Status = models.RecipientStatusBlocked
		rec.BlockReason = block.Source
		return rec
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Errorf("[Sendout] block lookup failed for %s: %v", rec.Email, err)
	}

	if s.verifier == nil {
		return rec
	}
	result, err := s.verifier.Verify(ctx, rec.Email)
	if err != nil {
		// Verification outage must not stall campaigns; the address stays
		// pending and SendGrid bounce handling catches the rest.
		log.Warnf("[Sendout] verification failed for %s: %v", rec.Email, err)
		return rec
	}
	rec.Validation = result.Status
	if !result.Deliverable() {
		rec.Status = models.RecipientStatusInvalid
	}
	return rec
}

// Schedule marks a draft sendout for delivery at the given time. The job
// queue picks it up; at is optional and defaults to now.
func (s *Service) Schedule(ctx context.Context, sendoutUUID string, at *time.Time) (*models.Sendout, error) {
	_ = ctx
	so, err := s.repo.GetSendoutByUUID(sendoutUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFoundError("sendout", sendoutUUID)
		}
		return nil, err
	}
	if so.Status != models.SendoutStatusDraft {
		return nil, apperr.NewValidationError("status", "only draft sendouts can be scheduled")
	}
	now := time.Now().UTC()
	if at == nil || at.Before(now) {
		at = &now
	}
	so.Status = models.SendoutStatusScheduled
	so.ScheduledAt = at
	if err := s.repo.SaveSendout(so); err != nil {
		return nil, err
	}
	return so, nil
}

// Deliver sends the campaign to every pending recipient. It is invoked by
// the sendout_delivery job processor and is safe to retry: recipients that
// already moved past pending are not sent again.
func (s *Service) Deliver(ctx context.Context, sendoutID uint) error {
	so, err := s.repo.GetSendoutByID(sendoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NewNotFoundError("sendout", sendoutID)
		}
		return err
	}

	so.Status = models.SendoutStatusSending
	if err := s.repo.SaveSendout(so); err != nil {
		return err
	}

	pending, err := s.repo.ListPendingRecipients(so.ID)
	if err != nil {
		return err
	}

	var failed int
	for i := range pending {
		rec := &pending[i]
		msgID, err := s.mailer.Send(ctx, rec.Name, rec.Email, so.Subject, so.BodyHTML)
		if err != nil {
			failed++
			rec.Status = models.RecipientStatusFailed
			rec.ErrorMsg = err.Error()
		} else {
			rec.Status = models.RecipientStatusSent
			rec.SGMessageID = msgID
		}
		if err := s.repo.SaveRecipient(rec); err != nil {
			log.Errorf("[Sendout] failed to persist recipient %d: %v", rec.ID, err)
		}
	}

	now := time.Now().UTC()
	so.SentAt = &now
	if failed > 0 && failed == len(pending) {
		so.Status = models.SendoutStatusFailed
	} else {
		so.Status = models.SendoutStatusSent
	}
	return s.repo.SaveSendout(so)
}

// GetByUUID returns a sendout with its recipients.
func (s *Service) GetByUUID(ctx context.Context, sendoutUUID string) (*models.Sendout, error) {
	_ = ctx
	so, err := s.repo.GetSendoutByUUID(sendoutUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFoundError("sendout", sendoutUUID)
		}
		return nil, err
	}
	return so, nil
}
