// Package notifier broadcasts ledger events to WebSocket clients.
//
// Publish never blocks: events are queued for the hub goroutine and dropped when the queue is full.
// Every connected client receives every event as a JSON message {"event": name, "data": payload}.
package notifier
