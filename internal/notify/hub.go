package notify

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"kitchenops/internal/shortage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboards are served from a different origin
	},
}

// CheckEvent is the summary pushed to subscribers when a check completes.
type CheckEvent struct {
	CheckID       string                 `json:"check_id"`
	ScheduleID    string                 `json:"schedule_id"`
	OverallStatus shortage.OverallStatus `json:"overall_status"`
	Missing       int                    `json:"missing_ingredients_count"`
	Partial       int                    `json:"partial_ingredients_count"`
	Sufficient    int                    `json:"sufficient_ingredients_count"`
	CheckType     shortage.CheckType     `json:"check_type"`
}

// Hub broadcasts check-completion events to connected dashboard clients.
// It implements shortage.Notifier.
type Hub struct {
	clients map[*client]bool
	mu      sync.Mutex
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]bool)}
}

// CheckCompleted pushes a summary of the finished check to all subscribers.
func (h *Hub) CheckCompleted(result *shortage.CheckResult) {
	event := CheckEvent{
		CheckID:       result.CheckID,
		ScheduleID:    result.ScheduleID,
		OverallStatus: result.OverallStatus,
		Missing:       result.Missing,
		Partial:       result.Partial,
		Sufficient:    result.Sufficient,
		CheckType:     result.CheckType,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to encode check event: %v", err)
		return
	}
	h.broadcast(payload)
}

func (h *Hub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// Slow consumer: drop it rather than block the checker.
			close(c.send)
			delete(h.clients, c)
		}
	}
}

// ServeWS upgrades the request and registers the client with the hub.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	cl := &client{conn: conn, send: make(chan []byte, 64)}
	h.mu.Lock()
	h.clients[cl] = true
	h.mu.Unlock()

	go cl.writePump()
	go h.readPump(cl)
}

// readPump drains client messages; subscribers only listen, so anything
// received is discarded, but the read loop is what detects disconnects.
func (h *Hub) readPump(cl *client) {
	defer func() {
		h.mu.Lock()
		if _, ok := h.clients[cl]; ok {
			close(cl.send)
			delete(h.clients, cl)
		}
		h.mu.Unlock()
		cl.conn.Close()
	}()

	cl.conn.SetReadLimit(512)
	cl.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	cl.conn.SetPongHandler(func(string) error {
		cl.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps events from the hub to the WebSocket connection
func (cl *client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case message, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
