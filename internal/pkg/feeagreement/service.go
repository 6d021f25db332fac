package feeagreement

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2/log"
	"github.com/josdesi/gpac-backend/app/models"
	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

const voidedReasonMaxLen = 200

// ESigner is the narrow outbound interface to the e-signature provider.
// Calls through it are fire-and-forget relative to local state: a provider
// API failure never rolls back an already committed void or resend.
type ESigner interface {
	CancelSignatureRequest(ctx context.Context, signatureRequestID string) error
	Remind(ctx context.Context, signatureRequestID, email string) error
}

// Notifier delivers user-facing status change alerts. Implementations must
// not block; the service calls it after commit with no retry logic.
type Notifier interface {
	StatusChanged(fa *models.CompanyFeeAgreement, oldStatusID, newStatusID uint)
}

// Service implements the fee agreement signature workflow: webhook ingestion,
// event log bookkeeping, status resolution, and the staff void/decline
// actions. All status writes to company_fee_agreements flow through here.
type Service struct {
	repo    Repository
	catalog *Catalog

	esigner  ESigner
	notifier Notifier
}

// NewService creates a workflow service from an injected repository and catalog.
func NewService(repo Repository, catalog *Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// NewServiceFromDB creates a workflow service from a GORM DB handle, using the
// package-level catalog.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), GetCatalog())
}

// SetESigner attaches the outbound e-signature client.
func (s *Service) SetESigner(e ESigner) { s.esigner = e }

// SetNotifier attaches the status change notifier.
func (s *Service) SetNotifier(n Notifier) { s.notifier = n }

// IngestHelloSignEvent parses and ingests a raw HelloSign callback payload.
func (s *Service) IngestHelloSignEvent(ctx context.Context, raw []byte) (*IngestResult, error) {
	ev, err := ParseHelloSignEvent(raw)
	if err != nil {
		return nil, err
	}
	return s.Ingest(ctx, ev)
}

// IngestDocusignEvent parses and ingests a raw DocuSign Connect payload.
func (s *Service) IngestDocusignEvent(ctx context.Context, raw []byte) (*IngestResult, error) {
	ev, err := ParseDocusignEvent(raw)
	if err != nil {
		return nil, err
	}
	return s.Ingest(ctx, ev)
}

// Ingest persists the raw provider event (create-if-absent keyed by provider
// event id), maps the provider vocabulary through the catalog, appends at
// most one event log row, and re-resolves the agreement status. A redelivered
// event id is flagged as a duplicate but still runs the apply path: the event
// log uniqueness check makes that idempotent, and it lets a provider retry
// recover an event whose first delivery raced the agreement registration or
// hit a transient resolve failure.
func (s *Service) Ingest(ctx context.Context, ev *ProviderEvent) (*IngestResult, error) {
	_ = ctx
	res := &IngestResult{}

	created, err := s.storeRawEvent(ev)
	if err != nil {
		return nil, err
	}
	if !created {
		res.Duplicate = true
	}

	return s.applyProviderEvent(ev, res)
}

// ReprocessProviderEvent re-runs the mapping and append path for an already
// stored raw event, used to backfill events whose type had no catalog row at
// ingest time.
func (s *Service) ReprocessProviderEvent(ctx context.Context, provider Provider, eventID string) (*IngestResult, error) {
	_ = ctx
	var raw string
	switch provider {
	case ProviderHelloSign:
		stored, err := s.repo.GetHelloSignEvent(eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NewNotFoundError("hellosign event", eventID)
			}
			return nil, err
		}
		raw = stored.Payload
	case ProviderDocusign:
		stored, err := s.repo.GetDocusignEvent(eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NewNotFoundError("docusign event", eventID)
			}
			return nil, err
		}
		raw = stored.Payload
	default:
		return nil, errors.New("unknown provider")
	}

	var ev *ProviderEvent
	var err error
	if provider == ProviderHelloSign {
		ev, err = ParseHelloSignEvent([]byte(raw))
	} else {
		ev, err = ParseDocusignEvent([]byte(raw))
	}
	if err != nil {
		return nil, err
	}
	return s.applyProviderEvent(ev, &IngestResult{})
}

func (s *Service) storeRawEvent(ev *ProviderEvent) (bool, error) {
	switch ev.Provider {
	case ProviderHelloSign:
		return s.repo.CreateHelloSignEventIfNotExists(&models.HelloSignEvent{
			EventID:   ev.EventID,
			EventType: ev.RawType,
			Payload:   ev.Payload,
		})
	case ProviderDocusign:
		return s.repo.CreateDocusignEventIfNotExists(&models.DocusignEvent{
			EventID:   ev.EventID,
			EventType: ev.RawType,
			Payload:   ev.Payload,
		})
	default:
		return false, errors.New("unknown provider")
	}
}

// applyProviderEvent maps, appends and resolves. The raw row already exists
// at this point; unknown event types and unknown agreements leave it stored
// for later backfill and are not errors.
func (s *Service) applyProviderEvent(ev *ProviderEvent, res *IngestResult) (*IngestResult, error) {
	et, ok := s.catalog.EventTypeForProvider(ev.Provider, ev.RawType)
	if !ok {
		log.Warnf("[FeeAgreement] %v", apperr.NewUnmappedEventTypeError(string(ev.Provider), ev.RawType))
		res.Unmapped = true
		s.finishDocusignEvent(ev)
		return res, nil
	}

	if ev.SignatureRequestID == "" {
		log.Warnf("[FeeAgreement] %s event %s carries no signature request reference", ev.Provider, ev.EventID)
		s.finishDocusignEvent(ev)
		return res, nil
	}

	var oldStatus, newStatus uint
	var agreement *models.CompanyFeeAgreement
	err := s.repo.Transaction(func(txRepo Repository) error {
		fa, err := txRepo.GetAgreementBySignatureRequestID(ev.SignatureRequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // no matching agreement; raw event kept for audit
			}
			return err
		}
		fa, err = txRepo.GetAgreementForUpdate(fa.ID)
		if err != nil {
			return err
		}
		res.AgreementFound = true
		res.FeeAgreementID = fa.ID
		oldStatus = fa.StatusID

		exists, err := txRepo.HasEventLogForProviderEvent(ev.Provider, ev.EventID)
		if err != nil {
			return err
		}
		if !exists {
			entry := &models.FeeAgreementEventLog{
				FeeAgreementID: fa.ID,
				EventTypeID:    et.ID,
				RealDate:       ev.RealDate,
			}
			if entry.RealDate.IsZero() {
				entry.RealDate = time.Now().UTC()
			}
			switch ev.Provider {
			case ProviderHelloSign:
				entry.HelloSignEventID = &ev.EventID
			case ProviderDocusign:
				entry.DocusignEventID = &ev.EventID
			}
			if err := txRepo.AppendEventLog(entry); err != nil {
				return err
			}
		} else {
			res.Duplicate = true
		}

		if err := s.resolveLocked(txRepo, fa); err != nil {
			return err
		}
		newStatus = fa.StatusID
		res.StatusID = fa.StatusID
		agreement = fa

		if ev.Provider == ProviderDocusign {
			return txRepo.MarkDocusignEventProcessed(ev.EventID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyStatusChange(agreement, oldStatus, newStatus)
	return res, nil
}

// finishDocusignEvent marks a stored envelope event as processed when no
// replay can ever resolve it. Events waiting on an agreement stay
// unprocessed so the backfill sweeper picks them up.
func (s *Service) finishDocusignEvent(ev *ProviderEvent) {
	if ev.Provider != ProviderDocusign {
		return
	}
	if err := s.repo.MarkDocusignEventProcessed(ev.EventID); err != nil {
		log.Errorf("[FeeAgreement] failed to mark docusign event %s processed: %v", ev.EventID, err)
	}
}

// resolveLocked recomputes the agreement status from its full event log. The
// caller must hold the row lock on fa within the current transaction. This is
// the single mutation path for the status column.
func (s *Service) resolveLocked(txRepo Repository, fa *models.CompanyFeeAgreement) error {
	events, err := txRepo.ListEventLog(fa.ID)
	if err != nil {
		return err
	}
	state := Resolve(s.catalog, fa.StatusID, events)
	fa.StatusID = state.StatusID
	if fa.TrackingSentToSignDate == nil && state.SentToSignAt != nil {
		fa.TrackingSentToSignDate = state.SentToSignAt
	}
	if fa.TrackingSignedDate == nil && state.SignedAt != nil {
		fa.TrackingSignedDate = state.SignedAt
	}
	return txRepo.SaveAgreement(fa)
}

// Void forces the agreement into the terminal Voided status. The reason is
// mandatory and capped at 200 characters. The provider signature request, if
// any, is cancelled best-effort after commit.
func (s *Service) Void(ctx context.Context, id uint, reason string, staffID uint) (*models.CompanyFeeAgreement, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.NewValidationError("voidedReason", "is required")
	}
	if utf8.RuneCountInString(reason) > voidedReasonMaxLen {
		return nil, apperr.NewValidationError("voidedReason", "must be at most 200 characters")
	}

	fa, err := s.applyStaffEvent(id, models.EventTypeVoided, reason, staffID, func(fa *models.CompanyFeeAgreement) {
		fa.VoidedReason = reason
	})
	if err != nil {
		return nil, err
	}

	if s.esigner != nil && fa.SignatureRequestID != "" {
		go func(sigReqID string) {
			if err := s.esigner.CancelSignatureRequest(context.Background(), sigReqID); err != nil {
				log.Warnf("[FeeAgreement] provider cancel failed for %s: %v", sigReqID, err)
			}
		}(fa.SignatureRequestID)
	}
	return fa, nil
}

// Decline forces the agreement into the terminal Declined status with the
// staff-entered declination notes (required, unrestricted length).
func (s *Service) Decline(ctx context.Context, id uint, notes string, staffID uint) (*models.CompanyFeeAgreement, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, apperr.NewValidationError("declination_notes", "is required")
	}
	return s.applyStaffEvent(id, models.EventTypeDeclined, notes, staffID, func(fa *models.CompanyFeeAgreement) {
		fa.DeclinationNotes = notes
	})
}

// Reactivate takes a voided or declined agreement back into the signature
// workflow via the administrative Reactivated event.
func (s *Service) Reactivate(ctx context.Context, id uint, staffID uint) (*models.CompanyFeeAgreement, error) {
	return s.applyStaffEvent(id, models.EventTypeReactivated, "", staffID, nil)
}

// applyStaffEvent appends a synthetic administrative event log row and
// re-resolves, preserving the event log as the single source of truth for
// status changes.
func (s *Service) applyStaffEvent(id uint, eventTypeID uint, notes string, staffID uint, mutate func(*models.CompanyFeeAgreement)) (*models.CompanyFeeAgreement, error) {
	var agreement *models.CompanyFeeAgreement
	var oldStatus, newStatus uint
	err := s.repo.Transaction(func(txRepo Repository) error {
		fa, err := txRepo.GetAgreementForUpdate(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFoundError("fee agreement", id)
			}
			return err
		}
		oldStatus = fa.StatusID

		entry := &models.FeeAgreementEventLog{
			FeeAgreementID: fa.ID,
			EventTypeID:    eventTypeID,
			RealDate:       time.Now().UTC(),
			Notes:          notes,
			CreatedByID:    &staffID,
		}
		if err := txRepo.AppendEventLog(entry); err != nil {
			return err
		}
		if mutate != nil {
			mutate(fa)
		}
		if err := s.resolveLocked(txRepo, fa); err != nil {
			return err
		}
		newStatus = fa.StatusID
		agreement = fa
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifyStatusChange(agreement, oldStatus, newStatus)
	return agreement, nil
}

// RegisterSignatureRequest links a freshly created provider signature request
// to the agreement and records the Created event.
func (s *Service) RegisterSignatureRequest(ctx context.Context, id uint, provider Provider, signatureRequestID string, staffID uint) (*models.CompanyFeeAgreement, error) {
	if strings.TrimSpace(signatureRequestID) == "" {
		return nil, apperr.NewValidationError("signature_request_id", "is required")
	}
	return s.applyStaffEvent(id, models.EventTypeCreated, "", staffID, func(fa *models.CompanyFeeAgreement) {
		fa.SignatureProvider = string(provider)
		fa.SignatureRequestID = signatureRequestID
	})
}

// Resend records a staff resend of the signature request and pings the
// provider reminder endpoint best-effort. Terminal agreements cannot be
// resent.
func (s *Service) Resend(ctx context.Context, id uint, signerEmail string) (*models.CompanyFeeAgreement, error) {
	var agreement *models.CompanyFeeAgreement
	err := s.repo.Transaction(func(txRepo Repository) error {
		fa, err := txRepo.GetAgreementForUpdate(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFoundError("fee agreement", id)
			}
			return err
		}
		if s.catalog.IsTerminalStatus(fa.StatusID) {
			return apperr.NewValidationError("status", "terminal agreements cannot be resent")
		}
		now := time.Now().UTC()
		fa.LastResendTime = &now
		agreement = fa
		return txRepo.SaveAgreement(fa)
	})
	if err != nil {
		return nil, err
	}

	if s.esigner != nil && agreement.SignatureRequestID != "" {
		go func(sigReqID, email string) {
			if err := s.esigner.Remind(context.Background(), sigReqID, email); err != nil {
				log.Warnf("[FeeAgreement] provider reminder failed for %s: %v", sigReqID, err)
			}
		}(agreement.SignatureRequestID, signerEmail)
	}
	return agreement, nil
}

// HistoryLog returns the visible event history for an agreement, filtered by
// the event type show_in_history_log flag.
func (s *Service) HistoryLog(ctx context.Context, id uint) ([]HistoryEntry, error) {
	_ = ctx
	events, err := s.repo.ListEventLog(id)
	if err != nil {
		return nil, err
	}
	entries := make([]HistoryEntry, 0, len(events))
	for i := range events {
		ev := &events[i]
		et, ok := s.catalog.EventTypeByID(ev.EventTypeID)
		if !ok || !et.ShowInHistoryLog {
			continue
		}
		entries = append(entries, HistoryEntry{
			EventTypeID: et.ID,
			EventName:   et.Name,
			RealDate:    ev.RealDate,
			Notes:       ev.Notes,
			CreatedByID: ev.CreatedByID,
		})
	}
	return entries, nil
}

func (s *Service) notifyStatusChange(fa *models.CompanyFeeAgreement, oldStatus, newStatus uint) {
	if s.notifier == nil || fa == nil || oldStatus == newStatus {
		return
	}
	s.notifier.StatusChanged(fa, oldStatus, newStatus)
}
