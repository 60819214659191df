package room

import (
	"encoding/json"

	"gostop-server/scoring"
	"gostop-server/wsutil"
)

// Server-to-client messages sent by a room. game_state is game.GameStateMsg.

// ErrorMsg is sent when a seat's command is refused.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// EventMsg carries one state change as encoded by game.EncodeChange.
type EventMsg struct {
	Type   string          `json:"type"`
	Change json.RawMessage `json:"change"`
}

// SeatSummary is one line of the game_over table.
type SeatSummary struct {
	PlayerID   string `json:"playerId"`
	Name       string `json:"name"`
	FinalScore int    `json:"finalScore"`
	Amount     int    `json:"amount"`
}

// GameOverMsg closes the game for one seat. Result is win, lose or sat_out.
type GameOverMsg struct {
	Type     string            `json:"type"`
	Result   string            `json:"result"`
	WinnerID string            `json:"winnerId"`
	Seats    []SeatSummary     `json:"seats"`
	Payments []scoring.Payment `json:"payments"`
}

type PlayerReconnectingMsg struct {
	Type                       string `json:"type"`
	PlayerID                   string `json:"playerId"`
	Name                       string `json:"name"`
	ReconnectionDeadlineUnixMs int64  `json:"reconnectionDeadlineUnixMs"`
}

type PlayerReconnectedMsg struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type PlayerLeftMsg struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

func sendTo(s *Seat, msg any) {
	wsutil.SafeSend(s.Send, mustMarshal(msg))
}
