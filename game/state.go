package game

import (
	"gostop-server/card"
	"gostop-server/scoring"
)

// PlayerView is the client-facing representation of a seat. Hands are never
// shown to other players, only counted.
type PlayerView struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	HandCount int              `json:"handCount"`
	Captured  scoring.Captured `json:"captured"`
	Score     scoring.Score    `json:"score"`
	PpukCount int              `json:"ppukCount"`
	Shaken    []card.Card      `json:"shaken,omitempty"`
	SatOut    bool             `json:"satOut,omitempty"`
}

// GameStateMsg is the full game state sent to one player.
type GameStateMsg struct {
	Type            string       `json:"type"`
	GameID          string       `json:"gameId"`
	Phase           GamePhase    `json:"phase"`
	TurnPhase       TurnPhase    `json:"turnPhase"`
	Round           int          `json:"round"`
	CurrentPlayerID string       `json:"currentPlayerId"`
	YourTurn        bool         `json:"yourTurn"`
	Hand            []card.Card  `json:"hand"`
	Field           []card.Card  `json:"field"`
	DeckCount       int          `json:"deckCount"`
	You             *PlayerView  `json:"you,omitempty"`
	Opponents       []PlayerView `json:"opponents"`

	// TurnCaptures are the cards the current player must confirm with take.
	TurnCaptures []card.Card       `json:"turnCaptures,omitempty"`
	Breakdown    scoring.Breakdown `json:"breakdown"`
	NagariCount  int               `json:"nagariCount"`
	GoHistory    []GoDeclaration   `json:"goHistory,omitempty"`

	// Conditions are the special events of the current round.
	Conditions []SpecialCondition `json:"conditions,omitempty"`

	WinnerID string            `json:"winnerId,omitempty"`
	Payments []scoring.Payment `json:"payments,omitempty"`
}

// BuildPlayerView creates a PlayerView from a Player.
func BuildPlayerView(p *Player) PlayerView {
	return PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		HandCount: len(p.Hand),
		Captured:  p.Captured,
		Score:     p.Score,
		PpukCount: p.PpukCount,
		Shaken:    p.ShakingCards,
		SatOut:    p.SatOut,
	}
}

// BuildStateForPlayer builds the state as seen from playerID. An unknown ID
// gets a spectator view with no hand.
func BuildStateForPlayer(g *Game, playerID string) GameStateMsg {
	msg := GameStateMsg{
		Type:        "game_state",
		GameID:      g.ID,
		Phase:       g.Phase,
		TurnPhase:   g.Turn,
		Round:       g.CurrentRound,
		Field:       g.Field.Cards(),
		DeckCount:   len(g.Deck),
		NagariCount: g.NagariCount,
		GoHistory:   g.GoHistory,
		WinnerID:    g.WinnerID,
		Payments:    g.Payments,
	}
	if cur := g.Current(); cur != nil {
		msg.CurrentPlayerID = cur.ID
		msg.YourTurn = cur.ID == playerID && g.Phase != PhaseEnded
		msg.TurnCaptures = g.TurnCaptures()
	}
	for _, sc := range g.SpecialConditions {
		if sc.Round == g.CurrentRound {
			msg.Conditions = append(msg.Conditions, sc)
		}
	}
	for _, p := range g.Players {
		v := BuildPlayerView(p)
		if p.ID == playerID {
			msg.You = &v
			msg.Hand = append([]card.Card(nil), p.Hand...)
			msg.Breakdown = g.Rules.Breakdown(&p.Captured)
			continue
		}
		msg.Opponents = append(msg.Opponents, v)
	}
	return msg
}
