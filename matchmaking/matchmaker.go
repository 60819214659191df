package matchmaking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"gostop-server/ai"
	"gostop-server/config"
	"gostop-server/events"
	"gostop-server/game"
	"gostop-server/matcherrors"
	"gostop-server/room"
	"gostop-server/storage"
	"gostop-server/variant"
	"gostop-server/ws"
	"gostop-server/wsutil"
)

// tickInterval is how often the queue is checked for bot fills.
const tickInterval = 250 * time.Millisecond

type waiter struct {
	client *ws.Client
	since  time.Time
}

// Matchmaker seats queued clients at tables and keeps track of running rooms
// so that players can rejoin them.
type Matchmaker struct {
	config   *config.Config
	variants *variant.Registry
	dealer   game.Dealer
	store    storage.HistoryStore
	events   events.Publisher

	mu     sync.Mutex
	queue  []waiter
	rooms  map[string]*room.Room
	byUser map[string]string // user ID -> game ID
	wake   chan struct{}
}

// NewMatchmaker creates a Matchmaker. store and pub may be nil.
func NewMatchmaker(cfg *config.Config, variants *variant.Registry, dealer game.Dealer, store storage.HistoryStore, pub events.Publisher) (*Matchmaker, error) {
	if _, ok := variants.Get(cfg.Variant); !ok {
		return nil, fmt.Errorf("%w: %s", matcherrors.ErrUnknownVariant, cfg.Variant)
	}
	if cfg.PlayersPerGame < game.MinPlayers || cfg.PlayersPerGame > game.MaxPlayers {
		return nil, fmt.Errorf("players per game must be %d to %d, got %d", game.MinPlayers, game.MaxPlayers, cfg.PlayersPerGame)
	}
	if pub == nil {
		pub = events.Noop{}
	}
	return &Matchmaker{
		config:   cfg,
		variants: variants,
		dealer:   dealer,
		store:    store,
		events:   pub,
		rooms:    make(map[string]*room.Room),
		byUser:   make(map[string]string),
		wake:     make(chan struct{}, 1),
	}, nil
}

// Enqueue adds a client to the matchmaking queue. A client already queued
// keeps its place.
func (m *Matchmaker) Enqueue(c *ws.Client) {
	m.mu.Lock()
	if m.indexOf(c) < 0 {
		m.queue = append(m.queue, waiter{client: c, since: time.Now()})
	}
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// LeaveQueue removes a client from the queue, if present.
func (m *Matchmaker) LeaveQueue(c *ws.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(c); i >= 0 {
		m.queue = append(m.queue[:i], m.queue[i+1:]...)
	}
}

func (m *Matchmaker) indexOf(c *ws.Client) int {
	for i, w := range m.queue {
		if w.client == c {
			return i
		}
	}
	return -1
}

// Run forms tables until ctx is cancelled. Should be run as a goroutine.
func (m *Matchmaker) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutdown signal received, stopping", "tag", "matchmaking")
			return
		case <-m.wake:
		case <-ticker.C:
		}
		m.match(time.Now())
	}
}

// match seats full tables first. Whoever has waited longer than the bot
// timeout then gets a table filled up with bots.
func (m *Matchmaker) match(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.config.PlayersPerGame
	for len(m.queue) >= n {
		batch := m.queue[:n]
		m.queue = append([]waiter(nil), m.queue[n:]...)
		m.createTable(clientsOf(batch), 0)
	}

	if len(m.queue) == 0 || m.config.AIPairTimeoutSec < 0 || len(m.config.AIProfiles) == 0 {
		return
	}
	timeout := time.Duration(m.config.AIPairTimeoutSec) * time.Second
	if now.Sub(m.queue[0].since) < timeout {
		return
	}
	batch := m.queue
	m.queue = nil
	m.createTable(clientsOf(batch), n-len(batch))
}

func clientsOf(batch []waiter) []*ws.Client {
	out := make([]*ws.Client, len(batch))
	for i, w := range batch {
		out[i] = w.client
	}
	return out
}

type botSeat struct {
	seat   *room.Seat
	params config.AIParams
}

// createTable starts a room for clients plus the given number of bots.
// The caller holds m.mu.
func (m *Matchmaker) createTable(clients []*ws.Client, bots int) {
	gameID := uuid.NewString()
	total := len(clients) + bots

	var seats []*room.Seat
	var players []*game.Player
	addSeat := func(s *room.Seat) {
		seats = append(seats, s)
		players = append(players, game.NewPlayer(s.PlayerID, s.Name))
	}

	for i, c := range clients {
		addSeat(&room.Seat{
			PlayerID:    fmt.Sprintf("p%d", i+1),
			UserID:      c.UserID,
			Name:        c.Name,
			RejoinToken: uuid.NewString(),
			Send:        c.Send,
		})
	}
	var botSeats []botSeat
	perm := rand.Perm(len(m.config.AIProfiles))
	for j := 0; j < bots; j++ {
		params := m.config.AIProfiles[perm[j%len(perm)]]
		s := &room.Seat{
			PlayerID: fmt.Sprintf("p%d", len(clients)+j+1),
			UserID:   storage.BotUserID(params.Name),
			Name:     params.Name,
			Bot:      true,
			Send:     make(chan []byte, 256),
		}
		addSeat(s)
		botSeats = append(botSeats, botSeat{seat: s, params: params})
	}

	opts, err := m.variants.Options(m.config.Variant, total, m.dealer)
	if err != nil {
		slog.Error("could not create table", "tag", "matchmaking", "error", err)
		for _, c := range clients {
			wsutil.SafeSend(c.Send, []byte(`{"type":"error","message":"Could not start a game."}`))
		}
		return
	}

	g := game.NewGame(gameID, players, opts)
	rm := room.New(gameID, m.config.Variant, g, seats)
	rm.ReconnectTimeout = time.Duration(m.config.ReconnectTimeoutSec) * time.Second
	rm.Events = m.events
	rm.OnGameEnd = m.onGameEnd

	m.rooms[gameID] = rm
	for i, c := range clients {
		if c.UserID != "" {
			m.byUser[c.UserID] = gameID
		}
		c.SetSeat(rm, seats[i].PlayerID)
		m.sendMatchFound(c, rm, seats[i], i)
	}

	slog.Info("match created", "tag", "matchmaking", "game_id", gameID, "players", len(clients), "bots", bots)

	for _, b := range botSeats {
		params := b.params
		go ai.Run(b.seat.Send, rm.Done, rm, b.seat.PlayerID, &params)
	}
	go func() {
		rm.Run()
		m.forget(rm)
	}()
}

func (m *Matchmaker) sendMatchFound(c *ws.Client, rm *room.Room, s *room.Seat, idx int) {
	var opponents []string
	for _, other := range rm.Seats {
		if other != s {
			opponents = append(opponents, other.Name)
		}
	}
	msg := ws.MatchFoundMsg{
		Type:        "match_found",
		GameID:      rm.ID,
		RejoinToken: s.RejoinToken,
		Variant:     rm.Variant,
		PlayerID:    s.PlayerID,
		Seat:        idx,
		Opponents:   opponents,
		YourTurn:    idx == 0,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshaling match_found", "tag", "matchmaking", "error", err)
		return
	}
	wsutil.SafeSend(c.Send, data)
}

// forget drops a stopped room.
func (m *Matchmaker) forget(rm *room.Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, rm.ID)
	for _, s := range rm.Seats {
		if s.UserID != "" && m.byUser[s.UserID] == rm.ID {
			delete(m.byUser, s.UserID)
		}
	}
}

// Rejoin finds the seat holding rejoinToken in a running game.
func (m *Matchmaker) Rejoin(gameID, rejoinToken string) (*room.Room, string, error) {
	m.mu.Lock()
	rm, ok := m.rooms[gameID]
	m.mu.Unlock()
	if !ok {
		return nil, "", matcherrors.ErrGameNotFound
	}
	if rm.Finished() {
		return nil, "", matcherrors.ErrGameFinished
	}
	for _, s := range rm.Seats {
		if !s.Bot && rejoinToken != "" && s.RejoinToken == rejoinToken {
			return rm, s.PlayerID, nil
		}
	}
	return nil, "", matcherrors.ErrInvalidToken
}

// RejoinByUser finds the running game a signed-in user is seated in.
func (m *Matchmaker) RejoinByUser(userID string) (*room.Room, string, error) {
	if userID == "" {
		return nil, "", matcherrors.ErrNoActiveGame
	}
	m.mu.Lock()
	rm, ok := m.rooms[m.byUser[userID]]
	m.mu.Unlock()
	if !ok || rm.Finished() {
		return nil, "", matcherrors.ErrNoActiveGame
	}
	for _, s := range rm.Seats {
		if s.UserID == userID {
			return rm, s.PlayerID, nil
		}
	}
	return nil, "", matcherrors.ErrSeatNotFound
}

// ActiveGames returns the number of running rooms.
func (m *Matchmaker) ActiveGames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// Waiting returns the number of queued clients.
func (m *Matchmaker) Waiting() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// onGameEnd stores games that involved a signed-in player.
func (m *Matchmaker) onGameEnd(res room.Result) {
	gr := storage.GameResult{
		GameID:     res.GameID,
		Variant:    res.Variant,
		Rounds:     res.Rounds,
		EndReason:  res.EndReason,
		WinnerSeat: -1,
	}
	for i, s := range res.Seats {
		if res.WinnerID != "" && s.PlayerID == res.WinnerID {
			gr.WinnerSeat = i
		}
		gr.Players = append(gr.Players, storage.PlayerResult{
			UserID:     s.UserID,
			Name:       s.Name,
			FinalScore: s.FinalScore,
			Amount:     s.Amount,
		})
	}
	slog.Info("game ended", "tag", "matchmaking", "game_id", res.GameID, "reason", res.EndReason, "winner", res.WinnerID)

	if m.store == nil || !gr.HasUser() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.store.RecordGame(ctx, gr); err != nil {
		slog.Error("failed to record game", "tag", "matchmaking", "game_id", res.GameID, "error", err)
	}
}
