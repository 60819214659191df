// Package room hosts one Go-Stop game. A Room goroutine is the only writer of
// its game; clients, bots and timers talk to it through the Commands channel.
package room

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"gostop-server/events"
	"gostop-server/game"
	"gostop-server/wsutil"
)

// CommandType enumerates what a room can be asked to do.
type CommandType int

const (
	CmdAction             CommandType = iota
	CmdLeave                          // seat left for good; the game is abandoned
	CmdPlayerDisconnected             // connection lost; start the reconnection window
	CmdReconnectionTimeout            // reconnection window expired
	CmdRejoinCompleted                // seat rejoined with a new send channel
)

// Command is sent into a room's Commands channel.
type Command struct {
	Type     CommandType
	PlayerID string
	Action   game.Action
	NewSend  chan []byte // for CmdRejoinCompleted
}

// Seat is one player at the table.
type Seat struct {
	PlayerID    string
	UserID      string
	Name        string
	Bot         bool
	RejoinToken string
	Send        chan []byte

	disconnected bool
}

// SeatResult is one seat's line in a finished game.
type SeatResult struct {
	PlayerID   string
	UserID     string
	Name       string
	Bot        bool
	FinalScore int
	Amount     int // positive for the winner, negative for payers
}

// Result is handed to OnGameEnd once per room.
type Result struct {
	GameID    string
	Variant   string
	WinnerID  string
	EndReason string // completed, abandoned or aborted
	Rounds    int
	Seats     []SeatResult
}

const (
	EndCompleted = "completed"
	EndAbandoned = "abandoned"
	EndAborted   = "aborted"
)

// Room runs a single game.
type Room struct {
	ID      string
	Variant string
	Game    *game.Game
	Seats   []*Seat

	// ReconnectTimeout is how long a disconnected seat is waited for.
	ReconnectTimeout time.Duration

	// Events receives every state change; nil means none.
	Events events.Publisher

	// OnGameEnd is called once when the room stops.
	OnGameEnd func(Result)

	Commands chan Command
	Done     chan struct{}

	finished atomic.Bool
	timers   map[string]chan struct{}
	log      *slog.Logger
}

// New creates a room for g. Seats must be in the game's seating order.
func New(id, variant string, g *game.Game, seats []*Seat) *Room {
	return &Room{
		ID:               id,
		Variant:          variant,
		Game:             g,
		Seats:            seats,
		ReconnectTimeout: 120 * time.Second,
		Commands:         make(chan Command, 32),
		Done:             make(chan struct{}),
		timers:           make(map[string]chan struct{}),
		log:              slog.Default().With("tag", "room", "game_id", id),
	}
}

// Finished reports whether the room has stopped accepting commands.
func (r *Room) Finished() bool { return r.finished.Load() }

// Seat returns the seat for playerID, or nil.
func (r *Room) Seat(playerID string) *Seat {
	for _, s := range r.Seats {
		if s.PlayerID == playerID {
			return s
		}
	}
	return nil
}

// Submit queues an action from playerID. It never blocks after the room has
// stopped.
func (r *Room) Submit(playerID string, a game.Action) bool {
	return r.send(Command{Type: CmdAction, PlayerID: playerID, Action: a})
}

func (r *Room) send(cmd Command) bool {
	select {
	case <-r.Done:
		return false
	default:
	}
	select {
	case r.Commands <- cmd:
		return true
	case <-r.Done:
		return false
	}
}

// Run starts the game and processes commands until it ends. It should be run
// as a goroutine.
func (r *Room) Run() {
	defer close(r.Done)
	defer r.finished.Store(true)

	if err := r.start(); err != nil {
		r.log.Error("could not start game", "error", err)
		r.stop(EndAborted)
		return
	}
	r.broadcastState()

	for cmd := range r.Commands {
		switch cmd.Type {
		case CmdAction:
			if r.paused() {
				r.sendError(cmd.PlayerID, "Waiting for a player to reconnect.")
				continue
			}
			r.handleAction(cmd.PlayerID, cmd.Action)
		case CmdLeave:
			r.handleLeave(cmd.PlayerID)
		case CmdPlayerDisconnected:
			r.handlePlayerDisconnected(cmd.PlayerID)
		case CmdReconnectionTimeout:
			r.handleLeave(cmd.PlayerID)
		case CmdRejoinCompleted:
			r.handleRejoinCompleted(cmd.PlayerID, cmd.NewSend)
		}
		if r.Finished() {
			return
		}
	}
}

func (r *Room) start() error {
	g := r.Game
	res, err := g.Apply(game.StartGame{PlayerCount: len(r.Seats)})
	if err != nil {
		return err
	}
	if !res.OK() {
		return errors.New(res.Reason)
	}
	if g.Dealer == nil {
		return errors.New("no dealer configured")
	}
	if err := g.Deal(g.Dealer.Deal(len(g.Players))); err != nil {
		return err
	}
	r.log.Info("game started", "variant", r.Variant, "players", len(r.Seats))
	return nil
}

// handleAction applies a seat's action and fans out what changed.
func (r *Room) handleAction(playerID string, a game.Action) {
	if game.ActorID(a) != playerID {
		r.sendError(playerID, "You can only act for your own seat.")
		return
	}
	if take, ok := a.(game.TakeMatchedCards); ok && len(take.Cards) == 0 {
		take.Cards = r.Game.TurnCaptures()
		a = take
	}

	results, err := r.Game.Drive(a)
	if err != nil {
		var iv *game.InvariantViolation
		if errors.As(err, &iv) {
			r.log.Error("game aborted", "action", a.Kind().String(), "detail", iv.Detail)
			r.broadcast(ErrorMsg{Type: "error", Message: "The game was stopped because of an internal error."})
			r.stop(EndAborted)
			return
		}
		r.log.Error("applying action", "action", a.Kind().String(), "error", err)
	}
	if len(results) == 0 {
		return
	}
	if !results[0].OK() {
		r.sendError(playerID, results[0].Reason)
		return
	}

	var changes []game.StateChange
	for _, res := range results {
		if !res.OK() {
			continue
		}
		changes = append(changes, res.Details...)
	}
	r.publish(changes)
	r.broadcastState()

	if r.Game.Phase == game.PhaseEnded {
		r.broadcastGameOver()
		r.stop(EndCompleted)
	}
}

func (r *Room) publish(changes []game.StateChange) {
	if len(changes) == 0 {
		return
	}
	for _, c := range changes {
		data, err := game.EncodeChange(c)
		if err != nil {
			r.log.Error("encoding change", "change", c.ChangeType(), "error", err)
			continue
		}
		r.broadcastRaw(mustMarshal(EventMsg{Type: "event", Change: data}))
	}
	if r.Events != nil {
		if err := r.Events.Publish(r.ID, changes); err != nil {
			r.log.Warn("publishing events", "error", err)
		}
	}
}

// stop marks the room finished and reports the result once.
func (r *Room) stop(reason string) {
	if r.Finished() {
		return
	}
	r.finished.Store(true)
	for id := range r.timers {
		r.cancelReconnectionTimer(id)
	}
	r.log.Info("room closed", "reason", reason, "winner", r.Game.WinnerID)
	if r.OnGameEnd != nil {
		r.OnGameEnd(r.result(reason))
	}
}

func (r *Room) result(reason string) Result {
	g := r.Game
	res := Result{
		GameID:    r.ID,
		Variant:   r.Variant,
		EndReason: reason,
		Rounds:    g.CurrentRound,
	}
	if reason == EndCompleted {
		res.WinnerID = g.WinnerID
	}
	amounts := make(map[string]int)
	for _, pay := range g.Payments {
		amounts[pay.From] -= pay.Amount
		amounts[pay.To] += pay.Amount
	}
	for _, s := range r.Seats {
		sr := SeatResult{PlayerID: s.PlayerID, UserID: s.UserID, Name: s.Name, Bot: s.Bot}
		if p := g.Player(s.PlayerID); p != nil {
			sr.FinalScore = p.Score.FinalScore
		}
		if reason == EndCompleted {
			sr.Amount = amounts[s.PlayerID]
		}
		res.Seats = append(res.Seats, sr)
	}
	return res
}

func (r *Room) paused() bool {
	for _, s := range r.Seats {
		if s.disconnected {
			return true
		}
	}
	return false
}

func (r *Room) sendError(playerID, message string) {
	s := r.Seat(playerID)
	if s == nil || s.Send == nil {
		return
	}
	wsutil.SafeSend(s.Send, mustMarshal(ErrorMsg{Type: "error", Message: message}))
}

func (r *Room) broadcast(msg any) {
	r.broadcastRaw(mustMarshal(msg))
}

func (r *Room) broadcastRaw(data []byte) {
	for _, s := range r.Seats {
		if s.Send != nil && !s.disconnected {
			wsutil.SafeSend(s.Send, data)
		}
	}
}

func (r *Room) broadcastState() {
	for _, s := range r.Seats {
		if s.Send == nil || s.disconnected {
			continue
		}
		data, err := json.Marshal(game.BuildStateForPlayer(r.Game, s.PlayerID))
		if err != nil {
			r.log.Error("marshaling game state", "error", err)
			continue
		}
		wsutil.SafeSend(s.Send, data)
	}
}

func (r *Room) broadcastGameOver() {
	res := r.result(EndCompleted)
	for _, s := range r.Seats {
		if s.Send == nil {
			continue
		}
		msg := GameOverMsg{Type: "game_over", WinnerID: res.WinnerID, Payments: r.Game.Payments, Result: "lose"}
		for _, sr := range res.Seats {
			msg.Seats = append(msg.Seats, SeatSummary{PlayerID: sr.PlayerID, Name: sr.Name, FinalScore: sr.FinalScore, Amount: sr.Amount})
			if sr.PlayerID == s.PlayerID && res.WinnerID == s.PlayerID {
				msg.Result = "win"
			}
		}
		p := r.Game.Player(s.PlayerID)
		if p != nil && p.SatOut {
			msg.Result = "sat_out"
		}
		wsutil.SafeSend(s.Send, mustMarshal(msg))
	}
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling message", "tag", "room", "error", err)
		return []byte(`{"type":"error","message":"internal error"}`)
	}
	return data
}
