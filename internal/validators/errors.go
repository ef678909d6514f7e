package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyEventID       = errors.New("event id is required")
	ErrEmptyEventType     = errors.New("event type is required")
	ErrEmptyAggregateID   = errors.New("aggregate id is required")
	ErrEmptyAggregateType = errors.New("aggregate type is required")
	ErrInvalidEventData   = errors.New("event data must be valid JSON")
	ErrInvalidVersion     = errors.New("version must not be negative")
	ErrEmptyTimestamp     = errors.New("timestamp is required")
	ErrEmptyProducerID    = errors.New("producer id is required")
	ErrFieldTooLong       = errors.New("value is too long")
	ErrEmptyBatch         = errors.New("events list cannot be empty")
)
