// Package hub manages WebSocket connections and their run-channel
// subscriptions.
package hub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Connection represents a single WebSocket connection. A connection
// views at most one run channel at a time.
type Connection struct {
	ID    string
	RunID string
	Conn  *websocket.Conn
	Send  chan []byte
	hub   *Hub
	mu    sync.Mutex
}

// Hub manages all WebSocket connections. The subscriber set is
// ephemeral, per-connection, and torn down on disconnect; it is never
// persisted.
type Hub struct {
	// Connections indexed by connection ID
	connections map[string]*Connection

	// Rooms maps run_id to the set of subscribed connection IDs
	rooms map[string]map[string]bool

	register   chan *Connection
	unregister chan *Connection

	// broadcast serializes fan-out per channel, so delivery order
	// matches commit order at the server.
	broadcast chan *RoomMessage

	mu sync.RWMutex
}

// RoomMessage is a payload addressed to every viewer of one run.
type RoomMessage struct {
	RunID string
	Data  []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		rooms:       make(map[string]map[string]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *RoomMessage, 256),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn.ID] = conn
			if conn.RunID != "" {
				if h.rooms[conn.RunID] == nil {
					h.rooms[conn.RunID] = make(map[string]bool)
				}
				h.rooms[conn.RunID][conn.ID] = true
			}
			h.mu.Unlock()
			log.Printf("Connection registered: %s", conn.ID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn.ID]; ok {
				delete(h.connections, conn.ID)
				h.dropFromRoomLocked(conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			log.Printf("Connection unregistered: %s", conn.ID)

		case msg := <-h.broadcast:
			h.mu.RLock()
			if connIDs, ok := h.rooms[msg.RunID]; ok {
				for connID := range connIDs {
					if conn, exists := h.connections[connID]; exists {
						select {
						case conn.Send <- msg.Data:
						default:
							// Buffer full, close the connection
							log.Printf("Connection %s buffer full, closing", connID)
							go h.Unregister(conn)
						}
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) dropFromRoomLocked(conn *Connection) {
	if conn.RunID != "" && h.rooms[conn.RunID] != nil {
		delete(h.rooms[conn.RunID], conn.ID)
		if len(h.rooms[conn.RunID]) == 0 {
			delete(h.rooms, conn.RunID)
		}
	}
}

// NewConnection creates a new connection owned by the hub.
func (h *Hub) NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		ID:   uuid.New().String(),
		Conn: ws,
		Send: make(chan []byte, 256),
		hub:  h,
	}
}

// Register registers a connection with the hub.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister unregisters a connection from the hub.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// JoinRun subscribes a connection to a run's channel, leaving any
// previously joined channel first.
func (h *Hub) JoinRun(conn *Connection, runID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropFromRoomLocked(conn)

	conn.RunID = runID
	if h.rooms[runID] == nil {
		h.rooms[runID] = make(map[string]bool)
	}
	h.rooms[runID][conn.ID] = true
}

// LeaveRun unsubscribes a connection from its current run channel.
func (h *Hub) LeaveRun(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropFromRoomLocked(conn)
	conn.RunID = ""
}

// Broadcast sends a payload to every viewer of a run.
func (h *Hub) Broadcast(runID string, data []byte) {
	h.broadcast <- &RoomMessage{RunID: runID, Data: data}
}

// BroadcastJSON sends a JSON payload to every viewer of a run.
func (h *Hub) BroadcastJSON(runID string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(runID, data)
	return nil
}

// SendToConnection sends a payload to a specific connection.
func (h *Hub) SendToConnection(conn *Connection, data []byte) error {
	select {
	case conn.Send <- data:
		return nil
	default:
		return ErrBufferFull
	}
}

// SendJSONToConnection sends a JSON payload to a specific connection.
func (h *Hub) SendJSONToConnection(conn *Connection, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return h.SendToConnection(conn, data)
}

// GetConnectionCount returns the number of active connections.
func (h *Hub) GetConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// HasViewers reports whether a run channel has any subscribers.
func (h *Hub) HasViewers(runID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	connIDs, ok := h.rooms[runID]
	return ok && len(connIDs) > 0
}

// WriteMessage writes a message to the connection with proper locking.
func (c *Connection) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// SetWriteDeadline sets the write deadline for the connection.
func (c *Connection) SetWriteDeadline(t time.Time) error {
	return c.Conn.SetWriteDeadline(t)
}

// SetReadDeadline sets the read deadline for the connection.
func (c *Connection) SetReadDeadline(t time.Time) error {
	return c.Conn.SetReadDeadline(t)
}

// Close closes the connection.
func (c *Connection) Close() error {
	return c.Conn.Close()
}

// ErrBufferFull is returned when the send buffer is full.
var ErrBufferFull = &BufferFullError{}

// BufferFullError represents a buffer full error.
type BufferFullError struct{}

func (e *BufferFullError) Error() string {
	return "send buffer full"
}
