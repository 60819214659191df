package game

import (
	"gostop-server/card"
	"gostop-server/scoring"
)

// ActionKind enumerates the kinds of actions a game can process.
type ActionKind int

const (
	ActionStartGame ActionKind = iota
	ActionPlayCard
	ActionDrawFromDeck
	ActionTakeMatchedCards
	ActionDeclareShaking
	ActionDeclareGo
	ActionDeclareStop
	ActionHandleNagari
	ActionPerformSsaki
	ActionHandlePpuk
	ActionHandleDdadak
	ActionHandleJjok
	ActionHandleSseul
	ActionTransferPi
	ActionSellGwang
	ActionEndTurn
	ActionEndGame
	numActionKinds
)

// String returns the protocol string for an ActionKind.
func (k ActionKind) String() string {
	switch k {
	case ActionStartGame:
		return "start_game"
	case ActionPlayCard:
		return "play_card"
	case ActionDrawFromDeck:
		return "draw_from_deck"
	case ActionTakeMatchedCards:
		return "take_matched_cards"
	case ActionDeclareShaking:
		return "declare_shaking"
	case ActionDeclareGo:
		return "declare_go"
	case ActionDeclareStop:
		return "declare_stop"
	case ActionHandleNagari:
		return "handle_nagari"
	case ActionPerformSsaki:
		return "perform_ssaki"
	case ActionHandlePpuk:
		return "handle_ppuk"
	case ActionHandleDdadak:
		return "handle_ddadak"
	case ActionHandleJjok:
		return "handle_jjok"
	case ActionHandleSseul:
		return "handle_sseul"
	case ActionTransferPi:
		return "transfer_pi"
	case ActionSellGwang:
		return "sell_gwang"
	case ActionEndTurn:
		return "end_turn"
	case ActionEndGame:
		return "end_game"
	default:
		return "unknown"
	}
}

// engineDriven reports whether actions of kind k are only produced by the game
// itself as follow-ups and must not be accepted from callers.
func (k ActionKind) engineDriven() bool {
	switch k {
	case ActionHandleNagari, ActionPerformSsaki, ActionHandlePpuk, ActionHandleDdadak,
		ActionHandleJjok, ActionHandleSseul, ActionTransferPi, ActionEndGame:
		return true
	default:
		return false
	}
}

// Action is a request to change the game. The concrete types below are the
// only implementations; dispatch switches on Kind.
type Action interface {
	Kind() ActionKind
}

type StartGame struct {
	PlayerCount int
}

type PlayCard struct {
	PlayerID string
	Card     card.Card
}

type DrawFromDeck struct {
	PlayerID string
}

// TakeMatchedCards confirms the cards captured during the turn and ends it.
type TakeMatchedCards struct {
	PlayerID string
	Cards    []card.Card
}

// DeclareShaking shows three or four same-month cards from hand before playing.
type DeclareShaking struct {
	PlayerID string
	Cards    []card.Card
}

type DeclareGo struct {
	PlayerID string
}

type DeclareStop struct {
	PlayerID string
}

// HandleNagari ends a round that nobody won and prepares a redeal.
type HandleNagari struct{}

// PerformSsaki awards the ssaki multiplier to the player who captured an
// opponent's forced discard of the given month.
type PerformSsaki struct {
	PlayerID string
	Month    card.Month
}

type HandlePpuk struct {
	PlayerID string
	Card     card.Card
}

type HandleDdadak struct {
	PlayerID     string
	MatchedCards []card.Card
}

type HandleJjok struct {
	PlayerID string
	Card     card.Card
}

type HandleSseul struct {
	PlayerID   string
	SweptCards []card.Card
}

// TransferPi moves up to Count pi points between captured piles.
type TransferPi struct {
	FromPlayerID string
	ToPlayerID   string
	Count        int
}

// SellGwang sells brights from hand and sits the seat out for the round.
type SellGwang struct {
	PlayerID   string
	GwangCards []card.Card
}

type EndTurn struct {
	PlayerID string
}

type EndGame struct {
	WinnerID    string
	FinalScores []scoring.PlayerScore
}

func (StartGame) Kind() ActionKind        { return ActionStartGame }
func (PlayCard) Kind() ActionKind         { return ActionPlayCard }
func (DrawFromDeck) Kind() ActionKind     { return ActionDrawFromDeck }
func (TakeMatchedCards) Kind() ActionKind { return ActionTakeMatchedCards }
func (DeclareShaking) Kind() ActionKind   { return ActionDeclareShaking }
func (DeclareGo) Kind() ActionKind        { return ActionDeclareGo }
func (DeclareStop) Kind() ActionKind      { return ActionDeclareStop }
func (HandleNagari) Kind() ActionKind     { return ActionHandleNagari }
func (PerformSsaki) Kind() ActionKind     { return ActionPerformSsaki }
func (HandlePpuk) Kind() ActionKind       { return ActionHandlePpuk }
func (HandleDdadak) Kind() ActionKind     { return ActionHandleDdadak }
func (HandleJjok) Kind() ActionKind       { return ActionHandleJjok }
func (HandleSseul) Kind() ActionKind      { return ActionHandleSseul }
func (TransferPi) Kind() ActionKind       { return ActionTransferPi }
func (SellGwang) Kind() ActionKind        { return ActionSellGwang }
func (EndTurn) Kind() ActionKind          { return ActionEndTurn }
func (EndGame) Kind() ActionKind          { return ActionEndGame }

// ActorID returns the player submitting a, or "" for actions without one.
func ActorID(a Action) string {
	switch a := a.(type) {
	case PlayCard:
		return a.PlayerID
	case DrawFromDeck:
		return a.PlayerID
	case TakeMatchedCards:
		return a.PlayerID
	case DeclareShaking:
		return a.PlayerID
	case DeclareGo:
		return a.PlayerID
	case DeclareStop:
		return a.PlayerID
	case PerformSsaki:
		return a.PlayerID
	case HandlePpuk:
		return a.PlayerID
	case HandleDdadak:
		return a.PlayerID
	case HandleJjok:
		return a.PlayerID
	case HandleSseul:
		return a.PlayerID
	case TransferPi:
		return a.FromPlayerID
	case SellGwang:
		return a.PlayerID
	case EndTurn:
		return a.PlayerID
	default:
		return ""
	}
}
