package jobqueue

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/josdesi/gpac-backend/internal/pkg/database"
	"github.com/josdesi/gpac-backend/internal/pkg/sendout"
)

// processSendoutDeliveryJob delivers a scheduled sendout to all of its
// pending recipients. Delivery is idempotent per recipient, so a retried job
// only sends to addresses that never left the pending state.
func (q *Queue) processSendoutDeliveryJob(ctx context.Context, job *Job) error {
	payload, err := SendoutDeliveryJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid sendout delivery payload: %w", err)
	}
	if payload.SendoutID == 0 {
		return fmt.Errorf("sendout delivery payload missing sendout_id")
	}

	log.Infof("[JobQueue] Delivering sendout %d (%s)", payload.SendoutID, payload.SendoutUUID)

	svc := sendout.NewServiceFromDB(database.GetDB())
	if err := svc.Deliver(ctx, payload.SendoutID); err != nil {
		return fmt.Errorf("sendout %d delivery failed: %w", payload.SendoutID, err)
	}
	return nil
}
