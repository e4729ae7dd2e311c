// Package shell holds the imperative glue between the pure core and the event store:
// mapping of domain events to storable events and back, event metadata, the retry loop
// for optimistic concurrency and the interfaces of the external collaborators.
package shell
