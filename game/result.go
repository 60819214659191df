package game

import (
	"encoding/json"

	"gostop-server/card"
)

// LocationKind names where a card can sit.
type LocationKind int

const (
	LocHand LocationKind = iota
	LocField
	LocDeck
	LocCaptured
)

// Location is a card location. PlayerID is set for hands and captured piles.
type Location struct {
	Kind     LocationKind
	PlayerID string
}

func AtHand(playerID string) Location     { return Location{Kind: LocHand, PlayerID: playerID} }
func AtCaptured(playerID string) Location { return Location{Kind: LocCaptured, PlayerID: playerID} }

var (
	AtField = Location{Kind: LocField}
	AtDeck  = Location{Kind: LocDeck}
)

func (l Location) String() string {
	switch l.Kind {
	case LocHand:
		return "hand:" + l.PlayerID
	case LocField:
		return "field"
	case LocDeck:
		return "deck"
	case LocCaptured:
		return "captured:" + l.PlayerID
	default:
		return "unknown"
	}
}

func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// StateChange describes what an action did to the game.
type StateChange interface {
	ChangeType() string
}

type CardsMoved struct {
	From  Location    `json:"from"`
	To    Location    `json:"to"`
	Cards []card.Card `json:"cards"`
}

type ScoreUpdated struct {
	PlayerID string `json:"playerId"`
	NewScore int    `json:"newScore"`
}

type TurnChanged struct {
	NewPlayerID string `json:"newPlayerId"`
}

type GameEnded struct {
	WinnerID string `json:"winnerId"`
}

func (CardsMoved) ChangeType() string   { return "cards_moved" }
func (ScoreUpdated) ChangeType() string { return "score_updated" }
func (TurnChanged) ChangeType() string  { return "turn_changed" }
func (GameEnded) ChangeType() string    { return "game_ended" }

// EncodeChange renders a change with its type tag, for clients and event sinks.
func EncodeChange(c StateChange) ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Type string      `json:"type"`
		Data StateChange `json:"data"`
	}{c.ChangeType(), c})
}

// ResultStatus is the outcome of one step.
type ResultStatus int

const (
	StatusSuccess ResultStatus = iota
	StatusInvalid
)

func (s ResultStatus) String() string {
	if s == StatusSuccess {
		return "success"
	}
	return "invalid"
}

// ActionResult is what a single action produced. Next holds the follow-up the
// engine runs after this one, if any. Change is the primary effect and Details
// lists every effect in the order it happened.
type ActionResult struct {
	Status  ResultStatus
	Action  Action
	Next    Action
	Change  StateChange
	Details []StateChange
	Reason  string
}

// OK reports whether the action was applied.
func (r ActionResult) OK() bool { return r.Status == StatusSuccess }

// Success builds a successful result whose primary change is the first of changes.
func Success(a Action, changes ...StateChange) ActionResult {
	r := ActionResult{Status: StatusSuccess, Action: a, Details: changes}
	if len(changes) > 0 {
		r.Change = changes[0]
	}
	return r
}

// Invalid builds a rejected result.
func Invalid(a Action, reason string) ActionResult {
	return ActionResult{Status: StatusInvalid, Action: a, Reason: reason}
}
