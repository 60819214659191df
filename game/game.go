package game

import (
	"fmt"
	"log/slog"

	"gostop-server/card"
	"gostop-server/scoring"
)

// maxChain bounds how many follow-ups a single submitted action may trigger.
const maxChain = 64

// Deal is a partition of the full deck at the start of a round.
// Deck is drawn from the front.
type Deal struct {
	Deck  []card.Card
	Field []card.Card
	Hands [][]card.Card
}

// Dealer produces a fresh deal for a table of the given size.
type Dealer interface {
	Deal(players int) Deal
}

// DealSizes returns the hand size and opening field size for a table.
func DealSizes(players int) (hand, field int) {
	switch players {
	case 2:
		return 10, 8
	case 3:
		return 7, 6
	case 4:
		return 6, 8
	case 5:
		return 5, 8
	default:
		return 4, 8
	}
}

// Options configures a Game. Zero values select the standard rules.
type Options struct {
	Rules    scoring.Rules
	Resolver Resolver

	// Dealer, when set, redeals automatically after a nagari. Without one the
	// game waits in PhaseDealing for the caller to Deal.
	Dealer Dealer
}

// GoDeclaration records one Go call and the base score it was made at.
type GoDeclaration struct {
	PlayerID string `json:"playerId"`
	GoCount  int    `json:"goCount"`
	Score    int    `json:"score"`
}

// turnState is the bookkeeping for the turn in progress.
type turnState struct {
	ctx          TurnContext
	captured     []card.Card
	swept        bool
	sweepChecked bool
}

// Game is the state of one Go-Stop table. It is not safe for concurrent use;
// the room that hosts it serializes all access.
type Game struct {
	ID                string
	Deck              []card.Card
	Field             *Field
	Players           []*Player
	CurrentPlayerIdx  int
	CurrentRound      int
	Phase             GamePhase
	Turn              TurnPhase
	GoHistory         []GoDeclaration
	SpecialConditions []SpecialCondition
	NagariCount       int

	Rules    scoring.Rules
	Resolver Resolver
	Dealer   Dealer

	// Set when the game ends.
	WinnerID    string
	FinalScores []scoring.PlayerScore
	Payments    []scoring.Payment

	turn turnState

	// forcedDiscards maps cards placed by a player who had no match to that player.
	forcedDiscards map[card.Card]string

	aborted error
}

// NewGame creates a game in PhaseWaiting for the seated players.
func NewGame(id string, players []*Player, opts Options) *Game {
	if opts.Rules == (scoring.Rules{}) {
		opts.Rules = scoring.StandardRules()
	}
	if opts.Resolver == nil {
		opts.Resolver = StandardResolver{}
	}
	return &Game{
		ID:             id,
		Field:          NewField(),
		Players:        players,
		CurrentRound:   1,
		Phase:          PhaseWaiting,
		Rules:          opts.Rules,
		Resolver:       opts.Resolver,
		Dealer:         opts.Dealer,
		forcedDiscards: make(map[card.Card]string),
	}
}

// Player returns the seat with the given ID, or nil.
func (g *Game) Player(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Current returns the player whose turn it is.
func (g *Game) Current() *Player {
	if g.CurrentPlayerIdx < 0 || g.CurrentPlayerIdx >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIdx]
}

// Aborted returns the invariant violation that stopped the game, if any.
func (g *Game) Aborted() error { return g.aborted }

// TurnCaptures returns the cards captured so far this turn.
func (g *Game) TurnCaptures() []card.Card {
	return append([]card.Card(nil), g.turn.captured...)
}

// Apply runs a and every follow-up it triggers, returning the result of a.
func (g *Game) Apply(a Action) (ActionResult, error) {
	results, err := g.Drive(a)
	if len(results) == 0 {
		return Invalid(a, "no result"), err
	}
	return results[0], err
}

// Drive runs a and its follow-ups to completion and returns every result in
// order. Only a rejected first action leaves the game untouched; a rejected
// follow-up or an inconsistent state aborts the game with an InvariantViolation.
func (g *Game) Drive(a Action) ([]ActionResult, error) {
	if g.aborted != nil {
		return []ActionResult{Invalid(a, "game aborted")}, g.aborted
	}
	if err := Validate(a); err != nil {
		return []ActionResult{Invalid(a, err.Error())}, nil
	}
	if a.Kind().engineDriven() {
		return []ActionResult{Invalid(a, a.Kind().String()+" is applied by the game")}, nil
	}

	var results []ActionResult
	queue := []Action{a}
	for len(queue) > 0 {
		if len(results) == maxChain {
			return results, g.abort("follow-up chain did not terminate")
		}
		cur := queue[0]
		queue = queue[1:]

		res, follow := g.step(cur)
		if g.aborted != nil {
			return append(results, res), g.aborted
		}
		if !res.OK() {
			if len(results) == 0 {
				return []ActionResult{res}, nil
			}
			return append(results, res), g.abort(fmt.Sprintf("follow-up %s rejected: %s", cur.Kind(), res.Reason))
		}

		if g.Phase == PhaseEnded {
			queue = nil
		} else {
			sortByPriority(follow)
			queue = append(follow, queue...)
		}
		if len(queue) > 0 {
			res.Next = queue[0]
		}
		results = append(results, res)
	}

	if err := g.checkInvariants(); err != nil {
		return results, err
	}
	return results, nil
}

func (g *Game) step(a Action) (ActionResult, []Action) {
	switch a := a.(type) {
	case StartGame:
		return g.handleStartGame(a), nil
	case PlayCard:
		return g.handlePlayCard(a)
	case DrawFromDeck:
		return g.handleDrawFromDeck(a)
	case TakeMatchedCards:
		return g.handleTakeMatchedCards(a)
	case EndTurn:
		return g.handleEndTurn(a)
	case DeclareShaking:
		return g.handleDeclareShaking(a), nil
	case SellGwang:
		return g.handleSellGwang(a), nil
	case DeclareGo:
		return g.handleDeclareGo(a), nil
	case DeclareStop:
		return g.handleDeclareStop(a)
	case HandlePpuk:
		return g.handlePpuk(a)
	case HandleDdadak:
		return g.handleBonusEvent(a, CondDdadak, a.PlayerID, a.MatchedCards)
	case HandleJjok:
		return g.handleBonusEvent(a, CondJjok, a.PlayerID, []card.Card{a.Card})
	case HandleSseul:
		return g.handleBonusEvent(a, CondSseul, a.PlayerID, a.SweptCards)
	case PerformSsaki:
		return g.handleSsaki(a), nil
	case TransferPi:
		return g.handleTransferPi(a), nil
	case HandleNagari:
		return g.handleNagari(a), nil
	case EndGame:
		return g.handleEndGame(a), nil
	default:
		return Invalid(a, "unsupported action"), nil
	}
}

// Deal lays out a new round. It is accepted while the game is starting or
// waiting for a redeal after a nagari.
func (g *Game) Deal(d Deal) error {
	if g.aborted != nil {
		return g.aborted
	}
	if g.Phase != PhaseStarting && g.Phase != PhaseDealing {
		return stateErr("cannot deal while game is %s", g.Phase)
	}
	if len(d.Hands) != len(g.Players) {
		return fmt.Errorf("%w: %d hands for %d players", ErrBadDeal, len(d.Hands), len(g.Players))
	}
	if err := checkPartition(d); err != nil {
		return err
	}

	g.Deck = append([]card.Card(nil), d.Deck...)
	g.Field = NewField()
	for i, p := range g.Players {
		p.resetForRound()
		p.Hand = append([]card.Card(nil), d.Hands[i]...)
	}
	// Bonus cards turned up on the opening field go to the first player.
	first := g.Players[0]
	for _, cd := range d.Field {
		for cd.IsBonus() {
			first.Captured.Add(cd)
			if len(g.Deck) == 0 {
				break
			}
			cd = g.drawTop()
		}
		if !cd.IsBonus() {
			g.Field.Add(cd)
		}
	}

	g.GoHistory = nil
	g.forcedDiscards = make(map[card.Card]string)
	g.CurrentPlayerIdx = 0
	g.Phase = PhasePlaying
	g.Turn = PlayingCard
	g.resetTurn()

	for _, p := range g.Players {
		for m := card.Month(1); m <= 12; m++ {
			var same []card.Card
			for _, cd := range p.Hand {
				if cd.Month() == m {
					same = append(same, cd)
				}
			}
			if len(same) == 4 {
				p.ShakingCards = append(p.ShakingCards, same...)
				p.Score.AddMultiplier(scoring.Shaking(4))
				g.record(CondChongtong, p.ID, same)
			}
		}
		g.updateScore(p)
	}

	slog.Info("dealt round", "tag", "game", "game_id", g.ID, "round", g.CurrentRound,
		"players", len(g.Players), "field", g.Field.Len(), "deck", len(g.Deck))
	return g.checkInvariants()
}

func checkPartition(d Deal) error {
	var seen [card.Count]int
	total := 0
	count := func(cards []card.Card) error {
		for _, cd := range cards {
			if !cd.Valid() {
				return fmt.Errorf("%w: unknown card %d", ErrBadDeal, int(cd))
			}
			seen[cd]++
			total++
		}
		return nil
	}
	if err := count(d.Deck); err != nil {
		return err
	}
	if err := count(d.Field); err != nil {
		return err
	}
	for _, h := range d.Hands {
		if err := count(h); err != nil {
			return err
		}
	}
	for i, n := range seen {
		if n != 1 {
			return fmt.Errorf("%w: %s dealt %d times", ErrBadDeal, card.Card(i), n)
		}
	}
	if total != card.Count {
		return fmt.Errorf("%w: %d cards dealt", ErrBadDeal, total)
	}
	return nil
}

// checkInvariants verifies every catalog card sits in exactly one place.
func (g *Game) checkInvariants() error {
	if g.Phase == PhaseWaiting || g.Phase == PhaseStarting {
		return nil
	}
	var seen [card.Count]int
	bad := ""
	count := func(where string, cards []card.Card) {
		for _, cd := range cards {
			if !cd.Valid() {
				bad = fmt.Sprintf("unknown card %d in %s", int(cd), where)
				continue
			}
			seen[cd]++
		}
	}
	count("deck", g.Deck)
	count("field", g.Field.Cards())
	for _, p := range g.Players {
		count("hand of "+p.ID, p.Hand)
		count("captured of "+p.ID, p.Captured.All())
	}
	if bad != "" {
		return g.abort(bad)
	}
	for i, n := range seen {
		if n != 1 {
			return g.abort(fmt.Sprintf("card %s appears %d times", card.Card(i), n))
		}
	}
	if g.Current() == nil {
		return g.abort(fmt.Sprintf("current player index %d out of range", g.CurrentPlayerIdx))
	}
	return nil
}

func (g *Game) abort(detail string) error {
	if g.aborted == nil {
		g.aborted = &InvariantViolation{Detail: detail}
		slog.Error("game aborted", "tag", "game", "game_id", g.ID, "detail", detail)
	}
	return g.aborted
}

func (g *Game) drawTop() card.Card {
	cd := g.Deck[0]
	g.Deck = g.Deck[1:]
	return cd
}

func (g *Game) resetTurn() {
	id := ""
	if p := g.Current(); p != nil {
		id = p.ID
	}
	g.turn = turnState{ctx: TurnContext{PlayerID: id}}
}

func (g *Game) updateScore(p *Player) {
	p.Score.UpdateFinalScore(g.Rules, &p.Captured)
}

func (g *Game) record(t ConditionType, playerID string, cards []card.Card) {
	g.SpecialConditions = append(g.SpecialConditions, SpecialCondition{
		Type:     t,
		PlayerID: playerID,
		Cards:    append([]card.Card(nil), cards...),
		Round:    g.CurrentRound,
	})
	slog.Debug("special condition", "tag", "game", "game_id", g.ID, "type", t.String(), "player", playerID)
}

func (g *Game) activePlayers() []*Player {
	var active []*Player
	for _, p := range g.Players {
		if !p.SatOut {
			active = append(active, p)
		}
	}
	return active
}

// roundOver reports whether the deck is exhausted or every active seat has
// played out its hand.
func (g *Game) roundOver() bool {
	if len(g.Deck) == 0 {
		return true
	}
	for _, p := range g.activePlayers() {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

// advance passes the turn to the next active seat that still holds cards.
func (g *Game) advance() *Player {
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		idx := (g.CurrentPlayerIdx + i) % n
		if p := g.Players[idx]; !p.SatOut && len(p.Hand) > 0 {
			g.CurrentPlayerIdx = idx
			break
		}
	}
	g.Phase = PhasePlaying
	g.Turn = PlayingCard
	g.resetTurn()
	return g.Current()
}

// lastGoScore is the base score at the player's most recent Go, or 0.
func (g *Game) lastGoScore(playerID string) int {
	for i := len(g.GoHistory) - 1; i >= 0; i-- {
		if g.GoHistory[i].PlayerID == playerID {
			return g.GoHistory[i].Score
		}
	}
	return 0
}

// ScoreSummaries returns every seat's score in seat order.
func (g *Game) ScoreSummaries() []scoring.PlayerScore {
	out := make([]scoring.PlayerScore, 0, len(g.Players))
	for _, p := range g.Players {
		out = append(out, p.Score.Summary(p.ID))
	}
	return out
}

// piFromOpponents builds one transfer of n pi from each active opponent to p.
func (g *Game) piFromOpponents(p *Player, n int) []Action {
	var out []Action
	for _, op := range g.activePlayers() {
		if op != p {
			out = append(out, TransferPi{FromPlayerID: op.ID, ToPlayerID: p.ID, Count: n})
		}
	}
	return out
}
