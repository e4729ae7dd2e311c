package eventstore

import (
	"slices"
	"strings"
)

type FilterEventTypeString = string
type FilterKeyString = string
type FilterValString = string

/***** Filter *****/

// Filter describes a "dynamic event stream": every event matching at least one of its FilterItem(s).
// An empty Filter matches all events.
type Filter struct {
	items []FilterItem
}

func (f Filter) Items() []FilterItem {
	return f.items
}

// Matches reports whether an event with the given type and payload lookup belongs to the stream described by f.
// The lookup returns the string value of a top-level payload key.
func (f Filter) Matches(eventType FilterEventTypeString, lookup func(key FilterKeyString) (FilterValString, bool)) bool {
	if len(f.items) == 0 {
		return true
	}

	for _, item := range f.items {
		if item.matches(eventType, lookup) {
			return true
		}
	}

	return false
}

/***** FilterItem *****/

type FilterItem struct {
	eventTypes             []FilterEventTypeString
	predicates             []FilterPredicate
	allPredicatesMustMatch bool
}

func (fi FilterItem) EventTypes() []FilterEventTypeString {
	return fi.eventTypes
}

func (fi FilterItem) Predicates() []FilterPredicate {
	return fi.predicates
}

func (fi FilterItem) AllPredicatesMustMatch() bool {
	return fi.allPredicatesMustMatch
}

func (fi FilterItem) matches(eventType FilterEventTypeString, lookup func(key FilterKeyString) (FilterValString, bool)) bool {
	if len(fi.eventTypes) > 0 && !slices.Contains(fi.eventTypes, eventType) {
		return false
	}

	if len(fi.predicates) == 0 {
		return true
	}

	predicateMatches := func(p FilterPredicate) bool {
		val, ok := lookup(p.key)
		return ok && val == p.val
	}

	if fi.allPredicatesMustMatch {
		for _, p := range fi.predicates {
			if !predicateMatches(p) {
				return false
			}
		}

		return true
	}

	return slices.ContainsFunc(fi.predicates, predicateMatches)
}

/***** FilterPredicate *****/

type FilterPredicate struct {
	key FilterKeyString
	val FilterValString
}

// P builds a FilterPredicate matching events whose payload has key with value val.
func P(key FilterKeyString, val FilterValString) FilterPredicate {
	return FilterPredicate{key: key, val: val}
}

func (fp FilterPredicate) Key() FilterKeyString {
	return fp.key
}

func (fp FilterPredicate) Val() FilterValString {
	return fp.val
}

/***** FilterBuilder *****/

// FilterBuilder builds a generic event filter which the engines translate into their own query language.
// It only allows combinations that are useful for event-sourced workflows:
//
//   - empty filter
//   - (eventType OR eventType...)
//   - (predicate OR predicate...)
//   - (predicate AND predicate...)
//   - ((eventType OR eventType...) AND (predicate OR predicate...))
//   - ((eventType OR eventType...) AND (predicate AND predicate...))
//   - multiple FilterItem(s) joined with OR
type FilterBuilder interface {
	// Matching starts a new FilterItem.
	Matching() EmptyFilterItemBuilder

	// MatchingAnyEvent directly creates an empty Filter.
	MatchingAnyEvent() Filter
}

type EmptyFilterItemBuilder interface {
	// AnyEventTypeOf adds one or multiple EventTypes to the current FilterItem.
	// Empty and duplicate EventTypes are removed, the rest is sorted.
	AnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) FilterItemBuilderLackingPredicates

	// AnyPredicateOf adds FilterPredicate(s) of which ANY must match.
	AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder

	// AllPredicatesOf adds FilterPredicate(s) of which ALL must match.
	AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder
}

type FilterItemBuilderLackingPredicates interface {
	// AndAnyPredicateOf adds FilterPredicate(s) of which ANY must match.
	// Partial (empty key or val) and duplicate FilterPredicate(s) are removed, the rest is sorted.
	AndAnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder

	// AndAllPredicatesOf adds FilterPredicate(s) of which ALL must match.
	AndAllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder

	CompletedFilterItemBuilder
}

type CompletedFilterItemBuilder interface {
	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// Finalize returns the Filter including the current FilterItem.
	Finalize() Filter
}

// filterBuilder implements all the builder interfaces
type filterBuilder struct {
	filter            Filter
	currentFilterItem FilterItem
}

// BuildEventFilter creates a FilterBuilder which must eventually be finalized with Finalize() or MatchingAnyEvent().
func BuildEventFilter() FilterBuilder {
	return filterBuilder{}
}

func (fb filterBuilder) Matching() EmptyFilterItemBuilder {
	fb.currentFilterItem = FilterItem{}

	return fb
}

func (fb filterBuilder) MatchingAnyEvent() Filter {
	return fb.filter
}

func (fb filterBuilder) AnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) FilterItemBuilderLackingPredicates {

	allEventTypes := append([]FilterEventTypeString{eventType}, eventTypes...)
	allEventTypes = slices.DeleteFunc(allEventTypes, func(e FilterEventTypeString) bool { return e == "" })
	slices.Sort(allEventTypes)

	fb.currentFilterItem.eventTypes = slices.Clip(slices.Compact(allEventTypes))

	return fb
}

func (fb filterBuilder) AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder {
	fb.currentFilterItem.allPredicatesMustMatch = false
	fb.currentFilterItem.predicates = fb.sanitizePredicates(predicate, predicates...)

	return fb
}

func (fb filterBuilder) AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder {
	fb.currentFilterItem.allPredicatesMustMatch = true
	fb.currentFilterItem.predicates = fb.sanitizePredicates(predicate, predicates...)

	return fb
}

func (fb filterBuilder) AndAnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder {
	return fb.AnyPredicateOf(predicate, predicates...)
}

func (fb filterBuilder) AndAllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder {
	return fb.AllPredicatesOf(predicate, predicates...)
}

func (fb filterBuilder) sanitizePredicates(predicate FilterPredicate, predicates ...FilterPredicate) []FilterPredicate {
	allPredicates := append([]FilterPredicate{predicate}, predicates...)
	allPredicates = slices.DeleteFunc(allPredicates, func(p FilterPredicate) bool { return p.key == "" || p.val == "" })
	slices.SortFunc(allPredicates, func(a, b FilterPredicate) int {
		if c := strings.Compare(a.key, b.key); c != 0 {
			return c
		}

		return strings.Compare(a.val, b.val)
	})

	return slices.Clip(slices.Compact(allPredicates))
}

func (fb filterBuilder) OrMatching() EmptyFilterItemBuilder {
	fb.filter.items = append(slices.Clip(fb.filter.items), fb.currentFilterItem)
	fb.currentFilterItem = FilterItem{}

	return fb
}

func (fb filterBuilder) Finalize() Filter {
	fb.filter.items = append(slices.Clip(fb.filter.items), fb.currentFilterItem)

	return fb.filter
}
