package game

import (
	"errors"
	"fmt"
	"sort"

	"gostop-server/card"
)

var (
	ErrInvalidPlayerCount = errors.New("player count must be between 2 and 6")
	ErrInvalidShakeSize   = errors.New("shaking needs 3 or 4 cards")
	ErrMissingPlayer      = errors.New("player id is required")
	ErrUnknownCard        = errors.New("unknown card")
	ErrBadDeal            = errors.New("deal does not partition the deck")
)

const (
	MinPlayers = 2
	MaxPlayers = 6
)

// InputError is a malformed action. It never reaches game state.
type InputError struct {
	Action ActionKind
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Action, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// StateError is a well-formed action that is illegal in the current state.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string { return e.Reason }

func stateErr(format string, args ...any) *StateError {
	return &StateError{Reason: fmt.Sprintf(format, args...)}
}

// InvariantViolation means the engine itself produced an inconsistent state.
// The game that raised it refuses all further actions.
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Detail
}

// Validate checks the shape of an action without looking at any game state.
func Validate(a Action) error {
	invalid := func(err error) error { return &InputError{Action: a.Kind(), Err: err} }

	switch a := a.(type) {
	case StartGame:
		if a.PlayerCount < MinPlayers || a.PlayerCount > MaxPlayers {
			return invalid(ErrInvalidPlayerCount)
		}
		return nil
	case DeclareShaking:
		if a.PlayerID == "" {
			return invalid(ErrMissingPlayer)
		}
		if len(a.Cards) < 3 || len(a.Cards) > 4 {
			return invalid(ErrInvalidShakeSize)
		}
		return validCards(a.Cards, invalid)
	case PlayCard:
		if a.PlayerID == "" {
			return invalid(ErrMissingPlayer)
		}
		return validCards([]card.Card{a.Card}, invalid)
	case TakeMatchedCards:
		if a.PlayerID == "" {
			return invalid(ErrMissingPlayer)
		}
		return validCards(a.Cards, invalid)
	case SellGwang:
		if a.PlayerID == "" {
			return invalid(ErrMissingPlayer)
		}
		if len(a.GwangCards) == 0 {
			return invalid(errors.New("no brights to sell"))
		}
		return validCards(a.GwangCards, invalid)
	case TransferPi:
		if a.FromPlayerID == "" || a.ToPlayerID == "" {
			return invalid(ErrMissingPlayer)
		}
		if a.Count < 1 {
			return invalid(errors.New("transfer count must be positive"))
		}
		return nil
	case HandleNagari, EndGame:
		return nil
	default:
		if ActorID(a) == "" {
			return invalid(ErrMissingPlayer)
		}
		return nil
	}
}

func validCards(cards []card.Card, invalid func(error) error) error {
	seen := make(map[card.Card]bool, len(cards))
	for _, cd := range cards {
		if !cd.Valid() {
			return invalid(ErrUnknownCard)
		}
		if seen[cd] {
			return invalid(fmt.Errorf("card %s listed twice", cd))
		}
		seen[cd] = true
	}
	return nil
}

// Priority orders follow-up actions produced by the same step. Lower runs first.
func Priority(a Action) int {
	switch a.Kind() {
	case ActionHandlePpuk:
		return 1
	case ActionHandleDdadak:
		return 2
	case ActionHandleSseul:
		return 3
	case ActionDeclareShaking:
		return 4
	default:
		return 10
	}
}

func sortByPriority(actions []Action) {
	sort.SliceStable(actions, func(i, j int) bool {
		return Priority(actions[i]) < Priority(actions[j])
	})
}
