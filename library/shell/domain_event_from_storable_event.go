package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	switch storableEvent.EventType {
	case core.BookAddedToCatalogEventType:
		return unmarshalInto[core.BookAddedToCatalog](storableEvent.PayloadJSON)

	case core.BookDetailsRevisedEventType:
		return unmarshalInto[core.BookDetailsRevised](storableEvent.PayloadJSON)

	case core.BookRemovedFromCatalogEventType:
		return unmarshalInto[core.BookRemovedFromCatalog](storableEvent.PayloadJSON)

	case core.BookCopyBorrowedEventType:
		return unmarshalInto[core.BookCopyBorrowed](storableEvent.PayloadJSON)

	case core.BookReturnRequestedEventType:
		return unmarshalInto[core.BookReturnRequested](storableEvent.PayloadJSON)

	case core.BookCopyReturnedEventType:
		return unmarshalInto[core.BookCopyReturned](storableEvent.PayloadJSON)

	case core.ReaderRegisteredEventType:
		return unmarshalInto[core.ReaderRegistered](storableEvent.PayloadJSON)

	case core.ReaderEmailVerifiedEventType:
		return unmarshalInto[core.ReaderEmailVerified](storableEvent.PayloadJSON)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshalInto[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
