package handlers

import (
	"net/http"
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/messaging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// ActivityHandlers upgrades dashboard connections to WebSocket and streams
// the live activity feed.
type ActivityHandlers struct {
	broadcaster *messaging.ActivityBroadcaster
	logger      *logging.ChanneledLogger
	upgrader    websocket.Upgrader
}

// NewActivityHandlers creates activity handlers with injected dependencies.
// Origin checks are left to the CORS layer; the socket endpoint sits behind
// admin auth.
func NewActivityHandlers(broadcaster *messaging.ActivityBroadcaster, logger *logging.ChanneledLogger) *ActivityHandlers {
	return &ActivityHandlers{
		broadcaster: broadcaster,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// GetActivityWS handles GET /api/admin/activity/ws.
func (h *ActivityHandlers) GetActivityWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WS().Error("WebSocket upgrade failed", "error", err.Error())
		return
	}

	client := &messaging.ActivityClient{
		Conn: conn,
		Send: make(chan []byte, 32),
	}
	h.broadcaster.Register(client)

	go h.writePump(client)
	go h.readPump(client)
}

// writePump forwards broadcast messages to the client and keeps the
// connection alive with pings.
func (h *ActivityHandlers) writePump(client *messaging.ActivityClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection so pongs and close frames are processed,
// and unregisters the client when it goes away.
func (h *ActivityHandlers) readPump(client *messaging.ActivityClient) {
	defer func() {
		h.broadcaster.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(512)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
