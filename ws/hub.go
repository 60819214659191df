package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"gostop-server/auth"
	"gostop-server/config"
	"gostop-server/room"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development; restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// MatchmakerInterface defines what the Hub needs from the Matchmaker.
type MatchmakerInterface interface {
	Enqueue(c *Client)
	LeaveQueue(c *Client)
	Rejoin(gameID, rejoinToken string) (*room.Room, string, error)
	RejoinByUser(userID string) (*room.Room, string, error)
}

// Hub maintains the set of active clients and routes messages.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Matchmaker MatchmakerInterface
	Config     *config.Config
	Verifier   *auth.Verifier
}

// NewHub creates a new Hub. verifier may be nil when auth is not configured.
func NewHub(cfg *config.Config, mm MatchmakerInterface, verifier *auth.Verifier) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Matchmaker: mm,
		Config:     cfg,
		Verifier:   verifier,
	}
}

// Run starts the hub's main loop. Should be run as a goroutine.
// When ctx is cancelled (e.g. on server shutdown), Run returns and no longer accepts new registrations.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutdown signal received, stopping", "tag", "hub")
			return
		case client := <-h.Register:
			h.Clients[client] = true
			slog.Debug("client connected", "tag", "hub", "clients", len(h.Clients))

		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; !ok {
				continue
			}
			delete(h.Clients, client)
			close(client.Send)
			slog.Debug("client disconnected", "tag", "hub", "clients", len(h.Clients))

			// A seated client gets a reconnection window; a queued one just leaves the queue.
			if rm, playerID := client.Seat(); rm != nil && !rm.Finished() {
				go rm.Disconnected(playerID)
			} else {
				h.Matchmaker.LeaveQueue(client)
			}
		}
	}
}

// ServeWS handles WebSocket upgrade requests and creates a new Client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "tag", "hub", "error", err)
		return
	}

	client := &Client{
		Hub:  h,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
