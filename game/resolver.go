package game

import (
	"fmt"

	"gostop-server/card"
)

// ConditionType names a special event recorded during a round.
type ConditionType int

const (
	CondPpuk ConditionType = iota
	CondJaPpuk
	CondThreePpuk
	CondDdadak
	CondJjok
	CondSseul
	CondSsaki
	CondChongtong
	CondShaking
)

func (c ConditionType) String() string {
	switch c {
	case CondPpuk:
		return "ppuk"
	case CondJaPpuk:
		return "ja_ppuk"
	case CondThreePpuk:
		return "three_ppuk"
	case CondDdadak:
		return "ddadak"
	case CondJjok:
		return "jjok"
	case CondSseul:
		return "sseul"
	case CondSsaki:
		return "ssaki"
	case CondChongtong:
		return "chongtong"
	case CondShaking:
		return "shaking"
	default:
		return "unknown"
	}
}

func (c ConditionType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ConditionType) UnmarshalText(b []byte) error {
	for v := CondPpuk; v <= CondShaking; v++ {
		if v.String() == string(b) {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("unknown condition %q", b)
}

// SpecialCondition is one entry in the round's event log.
type SpecialCondition struct {
	Type     ConditionType `json:"type"`
	PlayerID string        `json:"playerId"`
	Cards    []card.Card   `json:"cards,omitempty"`
	Round    int           `json:"round"`
}

// Source is where a resolved card came from.
type Source int

const (
	FromHand Source = iota
	FromDeck
)

// TurnContext is what the resolver may know about the turn so far.
type TurnContext struct {
	PlayerID string

	// BareHand is the hand card placed on the field without a capture this turn.
	BareHand    card.Card
	HasBareHand bool

	// HandCapture holds the cards the hand card captured, when it captured.
	HandCapture []card.Card

	// Captures counts capture events this turn.
	Captures int
}

// Outcome is how one card was resolved against the field.
type Outcome struct {
	// Placed is true when the card stayed on the field.
	Placed bool

	// Captured are the cards moved to the player's captured piles.
	Captured []card.Card

	// Returned are cards the player captured earlier this turn that went back to the field.
	Returned []card.Card

	Conditions []ConditionType
}

func (o Outcome) has(c ConditionType) bool {
	for _, x := range o.Conditions {
		if x == c {
			return true
		}
	}
	return false
}

// Resolver decides what happens when a card meets the field. It mutates the
// field; the game applies the outcome to the player's piles.
type Resolver interface {
	Resolve(f *Field, cd card.Card, src Source, turn *TurnContext) Outcome
}

// StandardResolver implements the common table rules:
//
//   - no match: the card is placed
//   - one match: the pair is captured; a drawn card matching this turn's bare
//     hand card is a jjok
//   - two matches: all three are captured as a ddadak
//   - three matches: all four are captured; a sseul if nothing else was captured
//     this turn, and a ja-ppuk when the group was the player's own stuck ppuk
//
// A drawn card of the month the hand card just captured as a single pair, with
// nothing of that month left on the field, is a ppuk: the three cards go back
// to the field and stay stuck.
type StandardResolver struct{}

func (StandardResolver) Resolve(f *Field, cd card.Card, src Source, turn *TurnContext) Outcome {
	m := cd.Month()
	group := f.Group(m)

	switch len(group) {
	case 0:
		if src == FromDeck && len(turn.HandCapture) == 2 && turn.HandCapture[0].Month() == m {
			returned := append([]card.Card(nil), turn.HandCapture...)
			f.Add(returned...)
			f.Add(cd)
			f.MarkStuck(m, turn.PlayerID)
			return Outcome{Placed: true, Returned: returned, Conditions: []ConditionType{CondPpuk}}
		}
		f.Add(cd)
		return Outcome{Placed: true}

	case 1:
		f.TakeMonth(m)
		out := Outcome{Captured: []card.Card{cd, group[0]}}
		if src == FromDeck && turn.HasBareHand && group[0] == turn.BareHand {
			out.Conditions = append(out.Conditions, CondJjok)
		}
		return out

	case 2:
		f.TakeMonth(m)
		return Outcome{
			Captured:   append([]card.Card{cd}, group...),
			Conditions: []ConditionType{CondDdadak},
		}

	default:
		owner, stuck := f.StuckOwner(m)
		f.TakeMonth(m)
		out := Outcome{Captured: append([]card.Card{cd}, group...)}
		if turn.Captures == 0 {
			out.Conditions = append(out.Conditions, CondSseul)
		}
		if stuck && owner == turn.PlayerID {
			out.Conditions = append(out.Conditions, CondJaPpuk)
		}
		return out
	}
}
