package sendout

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/josdesi/gpac-backend/app/models"
	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// SendGrid webhook event names the pipeline reacts to.
const (
	sgEventDelivered  = "delivered"
	sgEventOpen       = "open"
	sgEventBounce     = "bounce"
	sgEventDropped    = "dropped"
	sgEventSpamReport = "spamreport"
)

// SGEvent is one entry of the SendGrid event webhook batch.
type SGEvent struct {
	Email       string `json:"email"`
	Event       string `json:"event"`
	SGEventID   string `json:"sg_event_id"`
	SGMessageID string `json:"sg_message_id"`
	Timestamp   int64  `json:"timestamp"`
	Reason      string `json:"reason,omitempty"`
}

// ParseSendGridEvents decodes the webhook body, which is a JSON array of
// events.
func ParseSendGridEvents(raw []byte) ([]SGEvent, error) {
	var events []SGEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, apperr.NewMalformedWebhookError("sendgrid", "invalid JSON: "+err.Error())
	}
	return events, nil
}

// IngestSendGridEvents folds a webhook batch into recipient delivery state
// and the block list. Processing is idempotent on sg_event_id: each id is
// recorded on first sight and a redelivered entry is skipped outright, so a
// replayed bounce cannot re-block an address staff has since unblocked.
// Bounces and spam reports create block rows so future sendouts skip the
// address.
func (s *Service) IngestSendGridEvents(events []SGEvent) {
	for i := range events {
		ev := &events[i]
		email := strings.ToLower(strings.TrimSpace(ev.Email))
		if email == "" || ev.Event == "" {
			log.Warnf("[Sendout] %v", apperr.NewMalformedWebhookError("sendgrid", "event missing email or type"))
			continue
		}

		if ev.SGEventID != "" {
			created, err := s.repo.CreateSendGridEventIfNotExists(&models.SendGridEvent{
				EventID:   ev.SGEventID,
				EventType: ev.Event,
				Email:     email,
			})
			if err != nil {
				log.Errorf("[Sendout] failed to record sendgrid event %s: %v", ev.SGEventID, err)
				continue
			}
			if !created {
				continue
			}
		}

		switch ev.Event {
		case sgEventBounce, sgEventDropped:
			s.recordBlock(email, models.BlockSourceBounce, ev.Reason)
			s.updateRecipientStatus(ev, models.RecipientStatusBounced)
		case sgEventSpamReport:
			s.recordBlock(email, models.BlockSourceSpamReport, ev.Reason)
			s.updateRecipientStatus(ev, models.RecipientStatusBounced)
		case sgEventDelivered:
			s.updateRecipientStatus(ev, models.RecipientStatusDelivered)
		case sgEventOpen:
			s.updateRecipientStatus(ev, models.RecipientStatusOpened)
		default:
			// click, processed, deferred etc. carry no pipeline state
		}
	}
}

func (s *Service) recordBlock(email, source, reason string) {
	created, err := s.repo.CreateBlockIfNotExists(&models.EmailRecipientBlock{
		Kind:   models.BlockKindEmail,
		Value:  email,
		Source: source,
		Notes:  reason,
	})
	if err != nil {
		log.Errorf("[Sendout] failed to record block for %s: %v", email, err)
		return
	}
	if created {
		log.Infof("[Sendout] blocked %s (%s)", email, source)
	}
}

func (s *Service) updateRecipientStatus(ev *SGEvent, status string) {
	if ev.SGMessageID == "" {
		return
	}
	// SendGrid appends a routing suffix to the message id it echoes back.
	msgID := ev.SGMessageID
	if dot := strings.Index(msgID, "."); dot > 0 {
		msgID = msgID[:dot]
	}
	rec, err := s.repo.GetRecipientBySGMessageID(msgID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorf("[Sendout] recipient lookup failed for %s: %v", msgID, err)
		}
		return
	}
	// Opened outranks delivered; bounced outranks both.
	if rec.Status == models.RecipientStatusBounced && status != models.RecipientStatusBounced {
		return
	}
	if rec.Status == models.RecipientStatusOpened && status == models.RecipientStatusDelivered {
		return
	}
	rec.Status = status
	if ev.Reason != "" {
		rec.ErrorMsg = ev.Reason
	}
	if err := s.repo.SaveRecipient(rec); err != nil {
		log.Errorf("[Sendout] failed to update recipient %d: %v", rec.ID, err)
	}
}
