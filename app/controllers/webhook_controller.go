package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
	"github.com/josdesi/gpac-backend/internal/pkg/database"
	"github.com/josdesi/gpac-backend/internal/pkg/env"
	"github.com/josdesi/gpac-backend/internal/pkg/feeagreement"
	"github.com/josdesi/gpac-backend/internal/pkg/sendout"
)

// helloSignAck is the exact body HelloSign expects; anything else makes the
// provider mark the callback as failed and retry it.
const helloSignAck = "Hello API Event Received"

// HandleHelloSignWebhook ingests a HelloSign callback. HelloSign posts the
// event JSON in a form field named "json". The endpoint answers 200 with the
// provider's expected ack string even for malformed payloads; retrying a
// broken payload can never succeed and only multiplies noise in the logs.
func HandleHelloSignWebhook(c *fiber.Ctx) error {
	raw := []byte(c.FormValue("json"))
	if len(raw) == 0 {
		raw = c.Body()
	}

	apiKey := env.GetEnv("HELLOSIGN_API_KEY", "")
	if apiKey != "" && !feeagreement.VerifyHelloSignEventHash(raw, apiKey) {
		log.Warnf("[Webhook] HelloSign event hash verification failed")
		return c.Status(fiber.StatusUnauthorized).SendString("invalid event hash")
	}

	svc := feeagreement.NewServiceFromDB(database.GetDB())
	result, err := svc.IngestHelloSignEvent(c.Context(), raw)
	if err != nil {
		var merr *apperr.MalformedWebhookError
		if errors.As(err, &merr) {
			log.Warnf("[Webhook] %v", merr)
			return c.Status(fiber.StatusOK).SendString(helloSignAck)
		}
		log.Errorf("[Webhook] HelloSign ingestion failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("ingestion failed")
	}

	if result.Duplicate {
		log.Infof("[Webhook] HelloSign redelivery ignored (agreement %d)", result.FeeAgreementID)
	}
	return c.Status(fiber.StatusOK).SendString(helloSignAck)
}

// HandleDocusignWebhook ingests a DocuSign Connect envelope notification.
func HandleDocusignWebhook(c *fiber.Ctx) error {
	svc := feeagreement.NewServiceFromDB(database.GetDB())
	result, err := svc.IngestDocusignEvent(c.Context(), c.Body())
	if err != nil {
		var merr *apperr.MalformedWebhookError
		if errors.As(err, &merr) {
			log.Warnf("[Webhook] %v", merr)
			return c.SendStatus(fiber.StatusOK)
		}
		log.Errorf("[Webhook] DocuSign ingestion failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}

	if result.Duplicate {
		log.Infof("[Webhook] DocuSign redelivery ignored (agreement %d)", result.FeeAgreementID)
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleSendGridWebhook ingests a batch of SendGrid delivery events
// (delivered, open, bounce, dropped, spamreport).
func HandleSendGridWebhook(c *fiber.Ctx) error {
	events, err := sendout.ParseSendGridEvents(c.Body())
	if err != nil {
		log.Warnf("[Webhook] malformed SendGrid payload: %v", err)
		return c.SendStatus(fiber.StatusOK)
	}

	svc := sendout.NewServiceFromDB(database.GetDB())
	svc.IngestSendGridEvents(events)
	return c.SendStatus(fiber.StatusOK)
}
