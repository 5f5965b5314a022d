package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mhutchins/feedboard/internal/domain"
)

const (
	// sendBuffer bounds the per-subscriber outbound queue. A subscriber
	// that falls this far behind starts losing events.
	sendBuffer = 16

	writeTimeout = 10 * time.Second
)

// wireEvent is the JSON shape delivered to subscribers. For delete events
// the post field carries only the deleted post's ID.
type wireEvent struct {
	Action string `json:"action"`
	Post   any    `json:"post"`
}

// Hub is the process-wide subscriber registry for mutation events. It
// implements domain.EventPublisher. Delivery is best effort: each event goes
// at most once to every subscriber connected at publish time, and there is
// no replay for late joiners.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub. Any origin may subscribe, matching the open
// CORS policy of the HTTP surface.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Publish fans the event out to every currently connected subscriber. It
// never blocks on slow subscribers; their events are dropped instead.
func (h *Hub) Publish(event domain.PostEvent) {
	wire := wireEvent{Action: string(event.Action)}
	switch event.Action {
	case domain.ActionDelete:
		wire.Post = event.PostID
	default:
		wire.Post = event.Post
	}

	msg, err := json.Marshal(wire)
	if err != nil {
		h.logger.Error("failed to encode event", "action", event.Action, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		select {
		case sub.send <- msg:
		default:
			h.logger.Warn("subscriber too slow, dropping event", "action", event.Action)
		}
	}
}

// SubscriberCount returns the number of currently attached subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// HandleSubscribe upgrades the request to a websocket connection and streams
// events to it until the peer goes away.
func (h *Hub) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()
	h.logger.Info("subscriber connected", "subscribers", count)

	go h.writePump(sub)
	h.readPump(sub)
}

// readPump drains inbound frames until the connection dies, then detaches
// the subscriber. Subscribers have nothing to say; reading is only how we
// notice the peer is gone.
func (h *Hub) readPump(sub *subscriber) {
	defer h.detach(sub)
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(sub *subscriber) {
	for msg := range sub.send {
		sub.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			sub.conn.Close()
			return
		}
	}
	sub.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	sub.conn.Close()
}

// detach removes the subscriber from the registry and closes its queue,
// which lets the write pump finish.
func (h *Hub) detach(sub *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, sub)
	count := len(h.subscribers)
	h.mu.Unlock()

	close(sub.send)
	sub.conn.Close()
	h.logger.Info("subscriber disconnected", "subscribers", count)
}
