package validators

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-event-sync/internal/app"
	"github.com/MKhiriev/go-event-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
// They match the JSON names of [models.SyncEvent] and [models.EventLogRow].
const (
	FieldID            = "id"
	FieldEventType     = "eventType"
	FieldAggregateID   = "aggregateId"
	FieldAggregateType = "aggregateType"
	FieldEventData     = "eventData"
	FieldVersion       = "version"
	FieldTimestamp     = "timestamp"
	FieldProducerID    = "producerId"
	FieldEvents        = "events"
)

const maxNameLength = 255

// localEventFields are checked on events produced on the device; id,
// timestamp and version may still be assigned by the event store.
var localEventFields = []string{FieldEventType, FieldAggregateID, FieldAggregateType, FieldEventData, FieldVersion}

// remoteRowFields are checked on rows pulled from the server, which must be
// complete.
var remoteRowFields = []string{FieldID, FieldEventType, FieldAggregateID, FieldAggregateType, FieldEventData, FieldVersion, FieldTimestamp, FieldProducerID}

// EventValidator implements [Validator] for sync events.
//
// Supported types:
//   - models.SyncEvent / *models.SyncEvent
//   - models.EventLogRow / *models.EventLogRow
//   - models.PushRequest / *models.PushRequest
type EventValidator struct{}

// NewEventValidator constructs a new EventValidator and returns it as the
// Validator interface.
func NewEventValidator() Validator {
	return &EventValidator{}
}

// Validate dispatches to the type-specific method. Every failing field is
// collected into one *app.ValidationError.
func (v *EventValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.SyncEvent:
		return v.validateEvent(value, fields...)
	case *models.SyncEvent:
		return v.validateEvent(*value, fields...)
	case models.EventLogRow:
		return v.validateRow(value, fields...)
	case *models.EventLogRow:
		return v.validateRow(*value, fields...)
	case models.PushRequest:
		return v.validatePushRequest(value)
	case *models.PushRequest:
		return v.validatePushRequest(*value)
	default:
		return ErrUnsupportedType
	}
}

func (v *EventValidator) validateEvent(event models.SyncEvent, fields ...string) error {
	if len(fields) == 0 {
		fields = localEventFields
	}

	var errs []app.FieldError
	for _, f := range fields {
		err := checkEventField(event, f)
		if err == ErrUnknownField {
			return err
		}
		if err != nil {
			errs = append(errs, app.FieldError{Field: f, Message: err.Error(), Err: err})
		}
	}

	if len(errs) > 0 {
		return app.NewValidationError(errs...)
	}
	return nil
}

func (v *EventValidator) validateRow(row models.EventLogRow, fields ...string) error {
	if len(fields) == 0 {
		fields = remoteRowFields
	}

	eventFields := make([]string, 0, len(fields))
	var errs []app.FieldError
	for _, f := range fields {
		if f == FieldProducerID {
			if row.ProducerID == "" {
				errs = append(errs, app.FieldError{Field: f, Message: ErrEmptyProducerID.Error(), Err: ErrEmptyProducerID})
			}
			continue
		}
		eventFields = append(eventFields, f)
	}

	if err := v.validateEvent(row.SyncEvent, eventFields...); err != nil {
		validationErr, ok := err.(*app.ValidationError)
		if !ok {
			return err
		}
		errs = append(validationErr.Fields, errs...)
	}

	if len(errs) > 0 {
		return app.NewValidationError(errs...)
	}
	return nil
}

func (v *EventValidator) validatePushRequest(request models.PushRequest) error {
	if len(request.Events) == 0 {
		return app.NewValidationError(app.FieldError{Field: FieldEvents, Message: ErrEmptyBatch.Error(), Err: ErrEmptyBatch})
	}

	for i, row := range request.Events {
		if err := v.validateRow(row); err != nil {
			return fmt.Errorf("validation error at index %d: %w", i, err)
		}
	}
	return nil
}

func checkEventField(event models.SyncEvent, field string) error {
	switch field {
	case FieldID:
		if event.ID == "" {
			return ErrEmptyEventID
		}
		if len(event.ID) > maxNameLength {
			return ErrFieldTooLong
		}
	case FieldEventType:
		if event.EventType == "" {
			return ErrEmptyEventType
		}
		if len(event.EventType) > maxNameLength {
			return ErrFieldTooLong
		}
	case FieldAggregateID:
		if event.AggregateID == "" {
			return ErrEmptyAggregateID
		}
		if len(event.AggregateID) > maxNameLength {
			return ErrFieldTooLong
		}
	case FieldAggregateType:
		if event.AggregateType == "" {
			return ErrEmptyAggregateType
		}
		if len(event.AggregateType) > maxNameLength {
			return ErrFieldTooLong
		}
	case FieldEventData:
		// absent payload is stored as JSON null
		if len(event.EventData) > 0 && !json.Valid(event.EventData) {
			return ErrInvalidEventData
		}
	case FieldVersion:
		if event.Version < 0 {
			return ErrInvalidVersion
		}
	case FieldTimestamp:
		if event.Timestamp.IsZero() {
			return ErrEmptyTimestamp
		}
	default:
		return ErrUnknownField
	}

	return nil
}
