// Package messaging provides the live activity feed pushed to connected
// admin dashboards over WebSocket.
package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/gorilla/websocket"
)

// ActivityClient represents a single connected admin dashboard client.
type ActivityClient struct {
	Conn *websocket.Conn
	Send chan []byte
}

// ActivityMessage is one feed entry pushed to every connected dashboard.
type ActivityMessage struct {
	Kind       string    `json:"kind"` // "event", "pageview" or "registration"
	VisitorID  string    `json:"visitorId"`
	Detail     string    `json:"detail"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ActivityBroadcaster fans activity messages out to all connected clients.
// Slow clients are skipped rather than blocking the publisher.
type ActivityBroadcaster struct {
	clients    map[*ActivityClient]bool
	register   chan *ActivityClient
	unregister chan *ActivityClient
	publish    chan []byte
	logger     *logging.ChanneledLogger
	mu         sync.RWMutex
}

// NewActivityBroadcaster creates a new broadcaster instance.
func NewActivityBroadcaster(logger *logging.ChanneledLogger) *ActivityBroadcaster {
	return &ActivityBroadcaster{
		clients:    make(map[*ActivityClient]bool),
		register:   make(chan *ActivityClient),
		unregister: make(chan *ActivityClient),
		publish:    make(chan []byte, 64),
		logger:     logger,
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *ActivityBroadcaster) Run() {
	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			b.mu.Unlock()
			b.logger.WS().Info("Activity client connected", "clients", b.ClientCount())

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			b.mu.Unlock()
			b.logger.WS().Info("Activity client disconnected", "clients", b.ClientCount())

		case message := <-b.publish:
			b.mu.RLock()
			for client := range b.clients {
				select {
				case client.Send <- message:
				default:
				}
			}
			b.mu.RUnlock()
		}
	}
}

// Register queues a client for registration.
func (b *ActivityBroadcaster) Register(client *ActivityClient) {
	b.register <- client
}

// Unregister queues a client for unregistration.
func (b *ActivityBroadcaster) Unregister(client *ActivityClient) {
	b.unregister <- client
}

// Publish pushes an activity message to every connected dashboard. It never
// blocks the caller: when no dashboard is listening the message is dropped.
func (b *ActivityBroadcaster) Publish(msg ActivityMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		b.logger.WS().Error("Failed to marshal activity message", "error", err.Error())
		return
	}

	select {
	case b.publish <- payload:
	default:
		b.logger.WS().Debug("Activity feed buffer full, dropping message")
	}
}

// ClientCount returns the number of connected dashboards.
func (b *ActivityBroadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
