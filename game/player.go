package game

import (
	"gostop-server/card"
	"gostop-server/scoring"
)

// Player represents a seat in a game.
type Player struct {
	ID       string
	Name     string
	Hand     []card.Card
	Captured scoring.Captured
	Score    scoring.Score

	// ShakingCards are the cards shown by DeclareShaking or a chongtong deal. They stay in hand.
	ShakingCards []card.Card

	PpukCount int

	// IsFirstTurn is true until the seat completes its first turn of the round.
	IsFirstTurn bool

	// SatOut is set after the seat sells its brights; it takes no turns for the rest of the round.
	SatOut    bool
	GwangSold int
}

// NewPlayer creates a Player with an empty hand.
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:          id,
		Name:        name,
		Score:       scoring.NewScore(),
		IsFirstTurn: true,
	}
}

// HasInHand reports whether every card is in the player's hand.
func (p *Player) HasInHand(cards ...card.Card) bool {
	for _, cd := range cards {
		if indexOf(p.Hand, cd) < 0 {
			return false
		}
	}
	return true
}

func (p *Player) removeFromHand(cd card.Card) bool {
	i := indexOf(p.Hand, cd)
	if i < 0 {
		return false
	}
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	return true
}

// hasShaken reports whether the player already showed month m this round.
func (p *Player) hasShaken(m card.Month) bool {
	for _, cd := range p.ShakingCards {
		if cd.Month() == m {
			return true
		}
	}
	return false
}

// resetForRound clears everything a redeal replaces.
func (p *Player) resetForRound() {
	p.Hand = nil
	p.Captured.Clear()
	p.Score = scoring.NewScore()
	p.ShakingCards = nil
	p.PpukCount = 0
	p.IsFirstTurn = true
	p.SatOut = false
	p.GwangSold = 0
}

func indexOf(cards []card.Card, cd card.Card) int {
	for i, c := range cards {
		if c == cd {
			return i
		}
	}
	return -1
}

// sameCards reports whether a and b hold the same cards in any order.
func sameCards(a, b []card.Card) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[card.Card]int, len(a))
	for _, cd := range a {
		counts[cd]++
	}
	for _, cd := range b {
		counts[cd]--
		if counts[cd] < 0 {
			return false
		}
	}
	return true
}
