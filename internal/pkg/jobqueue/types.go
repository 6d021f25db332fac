package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeSendoutDelivery  JobType = "sendout_delivery"
	JobTypeWebhookReprocess JobType = "webhook_reprocess"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// SendoutDeliveryJobPayload contains the payload for sendout delivery jobs
type SendoutDeliveryJobPayload struct {
	SendoutID   uint   `json:"sendout_id"`
	SendoutUUID string `json:"sendout_uuid"`
}

// ToMap converts the payload to a map for storage
func (p SendoutDeliveryJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"sendout_id":   p.SendoutID,
		"sendout_uuid": p.SendoutUUID,
	}
}

// FromMap creates a payload from a map
func SendoutDeliveryJobPayloadFromMap(data map[string]interface{}) (*SendoutDeliveryJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload SendoutDeliveryJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// WebhookReprocessJobPayload contains the payload for reprocessing a stored
// provider webhook event that did not resolve on first delivery (for example
// the signature request was registered after the provider callback arrived).
type WebhookReprocessJobPayload struct {
	Provider string `json:"provider"`
	EventID  string `json:"event_id"`
}

// ToMap converts the payload to a map for storage
func (p WebhookReprocessJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"provider": p.Provider,
		"event_id": p.EventID,
	}
}

// FromMap creates a payload from a map
func WebhookReprocessJobPayloadFromMap(data map[string]interface{}) (*WebhookReprocessJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload WebhookReprocessJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
