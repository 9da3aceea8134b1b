// Package ws provides WebSocket server functionality for live run
// viewers.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/xDerniexD/nuzlocke-tracker/internal/config"
	"github.com/xDerniexD/nuzlocke-tracker/internal/domain"
	"github.com/xDerniexD/nuzlocke-tracker/internal/hub"
)

// RunDirectory resolves the run a client wants to watch.
type RunDirectory interface {
	GetRun(ctx context.Context, runID string) (*domain.Run, error)
	GetRunBySpectatorID(ctx context.Context, spectatorID string) (*domain.Run, error)
}

// Server handles WebSocket connections.
type Server struct {
	cfg      *config.Config
	hub      *hub.Hub
	runs     RunDirectory
	upgrader websocket.Upgrader
}

// NewServer creates a new WebSocket server.
func NewServer(cfg *config.Config, h *hub.Hub, runs RunDirectory) *Server {
	return &Server{
		cfg:  cfg,
		hub:  h,
		runs: runs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket handles WebSocket upgrade and connection lifecycle.
func (s *Server) HandleWebSocket(c echo.Context) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		return err
	}

	conn := s.hub.NewConnection(ws)
	s.hub.Register(conn)

	ws.SetReadLimit(s.cfg.MaxMessageSize)

	go s.writePump(conn)
	go s.readPump(conn)

	return nil
}

// readPump reads messages from the WebSocket connection.
func (s *Server) readPump(conn *hub.Connection) {
	defer func() {
		s.hub.Unregister(conn)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	conn.Conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		return nil
	})

	for {
		_, message, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		s.handleMessage(conn, message)
	}
}

// writePump writes messages to the WebSocket connection.
func (s *Server) writePump(conn *hub.Connection) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if !ok {
				// Hub closed the channel
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Failed to write message: %v", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage dispatches incoming messages to appropriate handlers.
func (s *Server) handleMessage(conn *hub.Connection, data []byte) {
	var baseMsg BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		s.sendError(conn, ErrorCodeInvalidMessage, "invalid JSON message")
		return
	}

	switch baseMsg.Type {
	case TypeJoinRun:
		s.handleJoinRun(conn, data)
	case TypeLeaveRun:
		s.handleLeaveRun(conn)
	default:
		s.sendError(conn, ErrorCodeInvalidMessage, "unknown message type: "+baseMsg.Type)
	}
}

// handleJoinRun subscribes the connection to a run channel.
func (s *Server) handleJoinRun(conn *hub.Connection, data []byte) {
	var msg JoinRunMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, ErrorCodeInvalidMessage, "invalid join_run message")
		return
	}
	if msg.RunID == "" && msg.SpectatorID == "" {
		s.sendError(conn, ErrorCodeInvalidMessage, "run_id or spectator_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var run *domain.Run
	var err error
	if msg.RunID != "" {
		run, err = s.runs.GetRun(ctx, msg.RunID)
	} else {
		run, err = s.runs.GetRunBySpectatorID(ctx, msg.SpectatorID)
	}
	if err != nil {
		log.Printf("ERROR: run lookup for join_run failed: %v", err)
		s.sendError(conn, ErrorCodeRunNotFound, "run lookup failed")
		return
	}
	if run == nil {
		s.sendError(conn, ErrorCodeRunNotFound, "run not found")
		return
	}

	s.hub.JoinRun(conn, run.RunID)
	s.hub.SendJSONToConnection(conn, JoinedMessage{
		BaseMessage: BaseMessage{Type: TypeJoined},
		RunID:       run.RunID,
	})
	log.Printf("Connection %s joined run %s", conn.ID, run.RunID)
}

// handleLeaveRun unsubscribes the connection from its current channel.
func (s *Server) handleLeaveRun(conn *hub.Connection) {
	s.hub.LeaveRun(conn)
	s.hub.SendJSONToConnection(conn, LeftMessage{
		BaseMessage: BaseMessage{Type: TypeLeft},
	})
}

// sendError sends an error message to a connection.
func (s *Server) sendError(conn *hub.Connection, code, message string) {
	s.hub.SendJSONToConnection(conn, ErrorMessage{
		BaseMessage: BaseMessage{Type: TypeError},
		Code:        code,
		Message:     message,
	})
}
