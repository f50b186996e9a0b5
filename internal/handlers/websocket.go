// internal/handlers/websocket.go
package handlers

import (
	"net/http"
	"sync"
	"time"

	"greenwatch/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Origin checks belong to the reverse proxy in production.
		return true
	},
}

// ReportEvent is the frame pushed to dashboard clients.
type ReportEvent struct {
	Type      string         `json:"type"`
	Report    *models.Report `json:"report,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Hub is a one-way broadcast fan-out: dashboards subscribe, the report
// handlers publish lifecycle events.
type Hub struct {
	clients    map[*wsClient]bool
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan ReportEvent
	mutex      sync.RWMutex
	log        *logrus.Logger
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan ReportEvent
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*wsClient]bool),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan ReportEvent, 64),
		log:        log,
	}
}

func (hub *Hub) Run() {
	for {
		select {
		case client := <-hub.register:
			hub.mutex.Lock()
			hub.clients[client] = true
			hub.mutex.Unlock()

		case client := <-hub.unregister:
			hub.mutex.Lock()
			if _, ok := hub.clients[client]; ok {
				delete(hub.clients, client)
				close(client.send)
			}
			hub.mutex.Unlock()

		case event := <-hub.broadcast:
			hub.mutex.RLock()
			for client := range hub.clients {
				select {
				case client.send <- event:
				default:
					// Slow consumer, drop the frame.
				}
			}
			hub.mutex.RUnlock()
		}
	}
}

// BroadcastReport publishes a lifecycle event to every connected client.
func (hub *Hub) BroadcastReport(eventType string, report *models.Report) {
	if hub == nil {
		return
	}
	select {
	case hub.broadcast <- ReportEvent{Type: eventType, Report: report, Timestamp: time.Now()}:
	default:
		hub.log.Warn("websocket broadcast buffer full, event dropped")
	}
}

func (hub *Hub) ConnectionsCount() int {
	hub.mutex.RLock()
	defer hub.mutex.RUnlock()
	return len(hub.clients)
}

type WebSocketHandler struct {
	hub *Hub
}

func NewWebSocketHandler(hub *Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &wsClient{
		hub:  h.hub,
		conn: conn,
		send: make(chan ReportEvent, 16),
	}
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection; the feed is one way, clients only need
// to stay connected.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
