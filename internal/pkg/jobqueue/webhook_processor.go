package jobqueue

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/josdesi/gpac-backend/internal/pkg/database"
	"github.com/josdesi/gpac-backend/internal/pkg/feeagreement"
)

// processWebhookReprocessJob replays a stored provider event against the
// workflow. Used when a webhook arrived before its signature request was
// registered; the retry schedule gives the agreement time to show up.
func (q *Queue) processWebhookReprocessJob(ctx context.Context, job *Job) error {
	payload, err := WebhookReprocessJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid webhook reprocess payload: %w", err)
	}
	if payload.EventID == "" {
		return fmt.Errorf("webhook reprocess payload missing event_id")
	}

	var provider feeagreement.Provider
	switch payload.Provider {
	case string(feeagreement.ProviderHelloSign):
		provider = feeagreement.ProviderHelloSign
	case string(feeagreement.ProviderDocusign):
		provider = feeagreement.ProviderDocusign
	default:
		return fmt.Errorf("unknown webhook provider %q", payload.Provider)
	}

	svc := feeagreement.NewServiceFromDB(database.GetDB())
	result, err := svc.ReprocessProviderEvent(ctx, provider, payload.EventID)
	if err != nil {
		return fmt.Errorf("reprocess %s event %s: %w", provider, payload.EventID, err)
	}
	if result.Unmapped {
		// Informational provider events never map to a workflow transition;
		// there is nothing more to do for them.
		log.Infof("[JobQueue] Event %s (%s) has no workflow mapping, dropping", payload.EventID, provider)
		return nil
	}
	if !result.AgreementFound {
		return fmt.Errorf("no agreement registered yet for %s event %s", provider, payload.EventID)
	}

	log.Infof("[JobQueue] Reprocessed %s event %s (agreement %d, status %d)",
		provider, payload.EventID, result.FeeAgreementID, result.StatusID)
	return nil
}
