package http

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/wellball/scorekeeper/internal/clock"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Operator consoles and scoreboards connect from their own origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans game updates out to every websocket subscriber of that game.
type Hub struct {
	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]map[*websocket.Conn]bool)}
}

func (h *Hub) add(gameID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[gameID] == nil {
		h.conns[gameID] = make(map[*websocket.Conn]bool)
	}
	h.conns[gameID][conn] = true
}

func (h *Hub) remove(gameID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[gameID], conn)
	if len(h.conns[gameID]) == 0 {
		delete(h.conns, gameID)
	}
}

// Subscribers returns the number of live connections for a game.
func (h *Hub) Subscribers(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[gameID])
}

// Broadcast sends a JSON payload to every subscriber of a game. Connections
// that fail to write are dropped.
func (h *Hub) Broadcast(gameID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error("Failed to marshal broadcast payload", "gameID", gameID, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns[gameID] {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Debug("Dropping dead websocket subscriber", "gameID", gameID, "error", err)
			conn.Close()
			delete(h.conns[gameID], conn)
		}
	}
}

// LiveHandler upgrades the connection and streams game state updates until
// the client disconnects.
func (s *Server) LiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		g, err := s.Store.GetGame(gameID)
		if err != nil {
			respondError(w, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("Websocket upgrade failed", "gameID", gameID, "error", err)
			return
		}
		s.Hub.add(gameID, conn)
		log.Debug("Live subscriber connected", "gameID", gameID)

		// Initial snapshot so the client does not wait for the next change.
		snapshot := map[string]any{"type": "state", "game": gameView{Game: g, ClockRemaining: clock.Remaining(g.Clock, time.Now())}}
		if data, err := json.Marshal(snapshot); err == nil {
			conn.WriteMessage(websocket.TextMessage, data)
		}

		go func() {
			defer func() {
				s.Hub.remove(gameID, conn)
				conn.Close()
				log.Debug("Live subscriber disconnected", "gameID", gameID)
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
