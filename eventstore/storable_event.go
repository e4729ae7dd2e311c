package eventstore

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var (
	ErrEmptyEventType        = errors.New("event type must not be empty")
	ErrInvalidPayloadJSON    = errors.New("payload json is not valid")
	ErrInvalidMetadataJSON   = errors.New("metadata json is not valid")
	ErrPayloadNotAnObject    = errors.New("payload json must be an object")
	ErrMetadataNotAnObject   = errors.New("metadata json must be an object")
	emptyMetadataJSONLiteral = []byte("{}")
)

// StorableEvents is an alias type for a slice of StorableEvent
type StorableEvents = []StorableEvent

// StorableEvent is the engine-facing form of a ledger event: its type name, when it occurred,
// and the JSON encodings of its payload and metadata.
//
// Filters match on the event type and on top-level string fields of the payload, so both JSON
// documents are objects. Construct it with BuildStorableEvent or BuildStorableEventWithEmptyMetadata,
// which enforce that shape before anything reaches an engine.
type StorableEvent struct {
	EventType    string
	OccurredAt   time.Time
	PayloadJSON  []byte
	MetadataJSON []byte
}

// BuildStorableEvent validates and assembles a StorableEvent.
func BuildStorableEvent(eventType string, occurredAt time.Time, payloadJSON []byte, metadataJSON []byte) (StorableEvent, error) {
	if eventType == "" {
		return StorableEvent{}, ErrEmptyEventType
	}

	if err := requireJSONObject(payloadJSON, ErrInvalidPayloadJSON, ErrPayloadNotAnObject); err != nil {
		return StorableEvent{}, err
	}

	if err := requireJSONObject(metadataJSON, ErrInvalidMetadataJSON, ErrMetadataNotAnObject); err != nil {
		return StorableEvent{}, err
	}

	return StorableEvent{
		EventType:    eventType,
		OccurredAt:   occurredAt,
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// BuildStorableEventWithEmptyMetadata builds a StorableEvent whose metadata is the empty object.
func BuildStorableEventWithEmptyMetadata(eventType string, occurredAt time.Time, payloadJSON []byte) (StorableEvent, error) {
	return BuildStorableEvent(eventType, occurredAt, payloadJSON, emptyMetadataJSONLiteral)
}

// PayloadString returns the top-level string field key of the payload.
// Non-string values report false, they never match a payload predicate.
func (e StorableEvent) PayloadString(key string) (string, bool) {
	value := jsoniter.ConfigFastest.Get(e.PayloadJSON, key)
	if value.ValueType() != jsoniter.StringValue {
		return "", false
	}

	return value.ToString(), true
}

func requireJSONObject(document []byte, invalid error, notAnObject error) error {
	if !jsoniter.ConfigFastest.Valid(document) {
		return invalid
	}

	if jsoniter.ConfigFastest.Get(document).ValueType() != jsoniter.ObjectValue {
		return notAnObject
	}

	return nil
}
