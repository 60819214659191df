package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"gostop-server/auth"
	"gostop-server/game"
	"gostop-server/matcherrors"
	"gostop-server/room"
	"gostop-server/wsutil"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	Name   string
	UserID string // empty for guests

	mu       sync.Mutex
	room     *room.Room
	playerID string
}

// SetSeat places the client at a table; a nil room clears it.
func (c *Client) SetSeat(rm *room.Room, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room, c.playerID = rm, playerID
}

// Seat returns the client's table and player ID, if seated.
func (c *Client) Seat() (*room.Room, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room, c.playerID
}

// ReadPump pumps messages from the websocket connection to the hub.
// It runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "tag", "ws", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the send channel to the websocket connection.
// It runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("Invalid message format.")
		return
	}

	switch envelope.Type {
	case "auth":
		c.handleAuth(envelope.Raw)
	case "set_name":
		c.handleSetName(envelope.Raw)
	case "rejoin":
		c.handleRejoin(envelope.Raw)
	case "play_again":
		c.handlePlayAgain()
	case "play_card", "draw", "take", "end_turn", "shake", "go", "stop", "sell_gwang":
		c.handleGameAction(envelope.Type, envelope.Raw)
	default:
		c.sendError("Unknown message type: " + envelope.Type)
	}
}

func (c *Client) handleAuth(raw json.RawMessage) {
	var msg AuthMsg
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Token == "" {
		c.sendError("Invalid auth message.")
		return
	}
	if !c.Hub.Verifier.Configured() {
		c.sendError("Server auth not configured.")
		return
	}
	claims, err := c.Hub.Verifier.Verify(msg.Token)
	if err != nil {
		slog.Info("rejected token", "tag", "ws", "error", err)
		c.sendError("Invalid or expired token.")
		return
	}
	c.UserID = auth.UserIDFromClaims(claims)
	c.Name = truncateName(auth.FirstNameFromClaims(claims), c.Hub.Config.MaxNameLength)
	c.send(AuthenticatedMsg{Type: "authenticated", UserID: c.UserID, Name: c.Name})

	// Pick up a game left on another device or tab.
	rm, playerID, err := c.Hub.Matchmaker.RejoinByUser(c.UserID)
	if err == nil {
		c.join(rm, playerID)
	}
}

func (c *Client) handleSetName(raw json.RawMessage) {
	var msg SetNameMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid set_name message.")
		return
	}

	n := utf8.RuneCountInString(msg.Name)
	if n < 1 || n > c.Hub.Config.MaxNameLength {
		c.sendError(fmt.Sprintf("Name must be between 1 and %d characters.", c.Hub.Config.MaxNameLength))
		return
	}

	if rm, _ := c.Seat(); rm != nil && !rm.Finished() {
		c.sendError("Cannot change name while in a game.")
		return
	}

	c.Name = msg.Name
	c.enqueue()
}

func (c *Client) handleRejoin(raw json.RawMessage) {
	var msg RejoinMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid rejoin message.")
		return
	}
	rm, playerID, err := c.Hub.Matchmaker.Rejoin(msg.GameID, msg.RejoinToken)
	if err != nil {
		switch {
		case errors.Is(err, matcherrors.ErrGameNotFound), errors.Is(err, matcherrors.ErrGameFinished):
			c.sendError("That game is no longer running.")
		case errors.Is(err, matcherrors.ErrInvalidToken):
			c.sendError("Invalid rejoin token.")
		default:
			c.sendError("Could not rejoin the game.")
		}
		return
	}
	c.join(rm, playerID)
}

// join seats the client in a running room and hands the room its send channel.
func (c *Client) join(rm *room.Room, playerID string) {
	seat := rm.Seat(playerID)
	if seat == nil {
		return
	}
	c.Name = seat.Name
	c.SetSeat(rm, playerID)
	c.send(MatchFoundMsg{
		Type:        "match_found",
		GameID:      rm.ID,
		RejoinToken: seat.RejoinToken,
		Variant:     rm.Variant,
		PlayerID:    playerID,
		Seat:        seatIndex(rm, playerID),
		Opponents:   opponentNames(rm, playerID),
	})
	if !rm.Rejoin(playerID, c.Send) {
		c.sendError("That game is no longer running.")
		c.SetSeat(nil, "")
	}
}

func (c *Client) handleGameAction(kind string, raw json.RawMessage) {
	rm, playerID := c.Seat()
	if rm == nil || rm.Finished() {
		c.sendError("You are not in a game.")
		return
	}

	var a game.Action
	switch kind {
	case "play_card":
		var msg PlayCardMsg
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("Invalid play_card message.")
			return
		}
		a = game.PlayCard{PlayerID: playerID, Card: msg.Card}
	case "draw":
		a = game.DrawFromDeck{PlayerID: playerID}
	case "end_turn":
		a = game.EndTurn{PlayerID: playerID}
	case "go":
		a = game.DeclareGo{PlayerID: playerID}
	case "stop":
		a = game.DeclareStop{PlayerID: playerID}
	default:
		var msg CardsMsg
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("Invalid " + kind + " message.")
			return
		}
		switch kind {
		case "take":
			a = game.TakeMatchedCards{PlayerID: playerID, Cards: msg.Cards}
		case "shake":
			a = game.DeclareShaking{PlayerID: playerID, Cards: msg.Cards}
		case "sell_gwang":
			a = game.SellGwang{PlayerID: playerID, GwangCards: msg.Cards}
		}
	}

	if !rm.Submit(playerID, a) {
		c.sendError("The game has ended.")
	}
}

func (c *Client) handlePlayAgain() {
	if rm, _ := c.Seat(); rm != nil && !rm.Finished() {
		c.sendError("Cannot play again while in an active game.")
		return
	}
	if c.Name == "" {
		c.sendError("Set a name first.")
		return
	}
	c.enqueue()
}

func (c *Client) enqueue() {
	c.SetSeat(nil, "")
	c.Hub.Matchmaker.Enqueue(c)
	c.send(WaitingForMatchMsg{Type: "waiting_for_match"})
}

func (c *Client) sendError(message string) {
	c.send(ErrorMsg{Type: "error", Message: message})
}

func (c *Client) send(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshaling message", "tag", "ws", "error", err)
		return
	}
	wsutil.SafeSend(c.Send, data)
}

func seatIndex(rm *room.Room, playerID string) int {
	for i, s := range rm.Seats {
		if s.PlayerID == playerID {
			return i
		}
	}
	return -1
}

func opponentNames(rm *room.Room, playerID string) []string {
	var out []string
	for _, s := range rm.Seats {
		if s.PlayerID != playerID {
			out = append(out, s.Name)
		}
	}
	return out
}

func truncateName(name string, max int) string {
	if max <= 0 || utf8.RuneCountInString(name) <= max {
		return name
	}
	return string([]rune(name)[:max])
}
