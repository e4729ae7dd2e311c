package notifier

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// ServeWS upgrades the request to a WebSocket connection and subscribes it to the hub.
// Authentication happens before, in the HTTP middleware.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err.Error())
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, clientSendBufferSize),
	}

	select {
	case h.register <- c:
	case <-r.Context().Done():
		_ = conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

// readPump discards incoming frames and unregisters the client when the connection breaks.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxIncomingFrameBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
