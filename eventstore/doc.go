// Package eventstore provides the engine-agnostic building blocks of the event store
// with dynamic event streams (dynamic consistency boundaries).
//
// A "dynamic event stream" is not a fixed aggregate stream but the set of all events matching a Filter.
// Engines expose two operations:
//
//	events, maxSeq, err := engine.Query(ctx, filter)
//	err = engine.Append(ctx, filter, maxSeq, storableEvent)
//
// Append only succeeds if no event matching the same Filter was appended after maxSeq was read,
// otherwise it fails with ErrConcurrencyConflict and the caller is expected to re-run its
// Query -> Decide -> Append cycle.
//
// Filters are built with the fluent FilterBuilder:
//
//	filter := BuildEventFilter().
//		Matching().
//		AnyEventTypeOf("BookCopyBorrowed", "BookCopyReturned").
//		AndAnyPredicateOf(P("BookID", bookID.String())).
//		Finalize()
package eventstore
