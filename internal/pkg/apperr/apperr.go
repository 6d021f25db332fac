// Package apperr holds the request-level error taxonomy. Controllers map these
// to HTTP status codes; services return them instead of raw strings so callers
// can branch with errors.As.
package apperr

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError signals a missing or invalid field in a request (HTTP 400).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// FromValidator converts go-playground validation output into a structured
// ValidationError on the first failed field.
func FromValidator(err error) error {
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
		}
	}
	return &ValidationError{Message: err.Error()}
}

// NotFoundError signals that a referenced entity does not exist (HTTP 404).
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// NewNotFoundError builds a NotFoundError for an entity and identifier.
func NewNotFoundError(entity string, id interface{}) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// MalformedWebhookError signals a provider payload that does not match the
// expected shape. Webhook endpoints still answer 200 so provider retries do
// not cascade; the error is logged internally.
type MalformedWebhookError struct {
	Provider string
	Reason   string
}

func (e *MalformedWebhookError) Error() string {
	return fmt.Sprintf("malformed %s webhook: %s", e.Provider, e.Reason)
}

// NewMalformedWebhookError builds a MalformedWebhookError.
func NewMalformedWebhookError(provider, reason string) *MalformedWebhookError {
	return &MalformedWebhookError{Provider: provider, Reason: reason}
}

// UnmappedEventTypeError signals a provider event string with no event type
// catalog row. Non-fatal: the raw payload is stored and the mapping can be
// backfilled after a catalog correction.
type UnmappedEventTypeError struct {
	Provider string
	RawType  string
}

func (e *UnmappedEventTypeError) Error() string {
	return fmt.Sprintf("no event type mapped for %s event %q", e.Provider, e.RawType)
}

// NewUnmappedEventTypeError builds an UnmappedEventTypeError.
func NewUnmappedEventTypeError(provider, rawType string) *UnmappedEventTypeError {
	return &UnmappedEventTypeError{Provider: provider, RawType: rawType}
}
