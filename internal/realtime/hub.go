package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"go-pos-terminal/internal/models"
)

// Change events mirrored to every connected terminal.
const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
)

// ProductChange is the wire format of the catalog feed.
type ProductChange struct {
	Event   string         `json:"event"` // insert | update | delete
	Product models.Product `json:"product"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans product changes out to every connected terminal so their cached
// catalogs stay current between checkouts.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

// Serve upgrades the request and parks the connection until the terminal
// hangs up. Terminals only listen; inbound messages are drained and ignored.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			break
		}
	}
}

// Broadcast pushes one product change to every connected terminal. Dead
// connections are dropped on write failure.
func (h *Hub) Broadcast(event string, product models.Product) {
	data, err := json.Marshal(ProductChange{Event: event, Product: product})
	if err != nil {
		log.Println("realtime: failed to marshal product change:", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
}
