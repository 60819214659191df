package game

import "fmt"

// GamePhase is the lifecycle stage of a game.
type GamePhase int

const (
	PhaseWaiting GamePhase = iota
	PhaseStarting
	PhaseDealing
	PhasePlaying
	PhaseScoring
	PhaseEnded
)

// String returns the protocol string for a GamePhase.
func (p GamePhase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseStarting:
		return "starting"
	case PhaseDealing:
		return "dealing"
	case PhasePlaying:
		return "playing"
	case PhaseScoring:
		return "scoring"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase as its protocol string.
func (p GamePhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a protocol string written by MarshalText.
func (p *GamePhase) UnmarshalText(b []byte) error {
	for v := PhaseWaiting; v <= PhaseEnded; v++ {
		if v.String() == string(b) {
			*p = v
			return nil
		}
	}
	return fmt.Errorf("unknown game phase %q", b)
}

// TurnPhase is the step within the current player's turn.
type TurnPhase int

const (
	PlayingCard TurnPhase = iota
	DrawingCard
	TakingCards
	DecidingGoStop
)

// String returns the protocol string for a TurnPhase.
func (tp TurnPhase) String() string {
	switch tp {
	case PlayingCard:
		return "playing_card"
	case DrawingCard:
		return "drawing_card"
	case TakingCards:
		return "taking_cards"
	case DecidingGoStop:
		return "deciding_go_stop"
	default:
		return "unknown"
	}
}

// MarshalText encodes the turn phase as its protocol string.
func (tp TurnPhase) MarshalText() ([]byte, error) {
	return []byte(tp.String()), nil
}

func (tp *TurnPhase) UnmarshalText(b []byte) error {
	for v := PlayingCard; v <= DecidingGoStop; v++ {
		if v.String() == string(b) {
			*tp = v
			return nil
		}
	}
	return fmt.Errorf("unknown turn phase %q", b)
}
