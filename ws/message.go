package ws

import (
	"encoding/json"

	"gostop-server/card"
)

// InboundEnvelope is the generic envelope for all client-to-server messages.
// The Type field is used for routing; Raw holds the full JSON payload.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture the raw payload.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// --- Client-to-Server message payloads ---

// AuthMsg is sent by the client with a Neon Auth JWT before joining.
type AuthMsg struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// SetNameMsg declares a display name and enters matchmaking.
type SetNameMsg struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// PlayCardMsg plays a card from hand, e.g. {"type":"play_card","card":"maple"}.
type PlayCardMsg struct {
	Type string    `json:"type"`
	Card card.Card `json:"card"`
}

// CardsMsg carries a card list: take, shake and sell_gwang. An empty take
// confirms whatever the turn captured.
type CardsMsg struct {
	Type  string      `json:"type"`
	Cards []card.Card `json:"cards"`
}

// RejoinMsg is sent by the client to rejoin a game after reconnect or page refresh.
type RejoinMsg struct {
	Type        string `json:"type"`
	GameID      string `json:"gameId"`
	RejoinToken string `json:"rejoinToken"`
}

// --- Server-to-Client messages ---

// ErrorMsg is sent when a client message is invalid.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// WaitingForMatchMsg confirms the player is in the matchmaking queue.
type WaitingForMatchMsg struct {
	Type string `json:"type"`
}

// AuthenticatedMsg confirms a verified token.
type AuthenticatedMsg struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// MatchFoundMsg is sent to every seat when a table is formed or rejoined.
type MatchFoundMsg struct {
	Type        string   `json:"type"`
	GameID      string   `json:"gameId"`
	RejoinToken string   `json:"rejoinToken"`
	Variant     string   `json:"variant"`
	PlayerID    string   `json:"playerId"`
	Seat        int      `json:"seat"`
	Opponents   []string `json:"opponents"`
	YourTurn    bool     `json:"yourTurn"`
}
