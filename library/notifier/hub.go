package notifier

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

const (
	defaultQueueSize      = 256
	clientSendBufferSize  = 32
	writeWait             = 10 * time.Second
	pongWait              = 60 * time.Second
	pingPeriod            = (pongWait * 9) / 10
	maxIncomingFrameBytes = 512
)

// Message is the JSON frame sent to the clients.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans out published events to all registered clients.
type Hub struct {
	queue    chan Message
	register chan *client

	mu      sync.RWMutex
	clients map[*client]struct{}

	upgrader websocket.Upgrader
	logger   shell.Logger
	dropped  atomic.Uint64
}

// Option configures a Hub.
type Option func(*Hub)

// WithQueueSize sets the capacity of the publish queue. Non-positive values are ignored.
func WithQueueSize(size int) Option {
	return func(h *Hub) {
		if size > 0 {
			h.queue = make(chan Message, size)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger shell.Logger) Option {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithCheckOrigin replaces the origin check of the WebSocket upgrade, which accepts every origin by default.
func WithCheckOrigin(checkOrigin func(r *http.Request) bool) Option {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = checkOrigin
	}
}

// NewHub creates a Hub. Run must be started for events to be delivered.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		queue:    make(chan Message, defaultQueueSize),
		register: make(chan *client),
		clients:  make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: discardLogger{},
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Publish queues the event for broadcast. It never blocks and drops the event when the queue is full.
func (h *Hub) Publish(eventName string, payload any) {
	select {
	case h.queue <- Message{Event: eventName, Data: payload}:
	default:
		h.dropped.Add(1)
		h.logger.Warn("notification dropped, queue is full", "event", eventName)
	}
}

// Dropped returns how many events were dropped so far.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Run delivers queued events until ctx is done, then disconnects all clients.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()

		case message := <-h.queue:
			h.broadcast(message)
		}
	}
}

func (h *Hub) broadcast(message Message) {
	frame, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(message)
	if err != nil {
		h.logger.Error("encoding notification failed", "event", message.Event, "error", err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			// slow client
			delete(h.clients, c)
			close(c.send)
			h.logger.Warn("notification client disconnected, send buffer is full")
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}
