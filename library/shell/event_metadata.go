package shell

import (
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
)

// ErrMappingToEventMetadataFailed is returned when metadata conversion fails.
var ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")

// MessageID represents a unique message identifier.
type MessageID = string

// CausationID represents the ID of the message that caused this event.
type CausationID = string

// CorrelationID represents the ID correlating related events.
type CorrelationID = string

// EventMetadata contains event tracking information.
type EventMetadata struct {
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
}

// BuildEventMetadata creates EventMetadata from UUID values.
func BuildEventMetadata(messageID uuid.UUID, causationID uuid.UUID, correlationID uuid.UUID) EventMetadata {
	return EventMetadata{
		MessageID:     messageID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	}
}

// NewCommandMetadata creates metadata for an event that is the direct result of a command.
// The command is both the cause and the start of the correlation chain.
func NewCommandMetadata() EventMetadata {
	uid := uuid.New()
	return BuildEventMetadata(uid, uid, uid)
}

// EventMetadataFrom extracts EventMetadata from a StorableEvent.
func EventMetadataFrom(storableEvent eventstore.StorableEvent) (EventMetadata, error) {
	metadata := new(EventMetadata)
	err := jsoniter.ConfigFastest.Unmarshal(storableEvent.MetadataJSON, metadata)
	if err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return *metadata, nil
}
