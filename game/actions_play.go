package game

import (
	"fmt"

	"gostop-server/card"
	"gostop-server/scoring"
)

// actor returns the current player if playerID may act in the given phases.
// The returned string explains a refusal.
func (g *Game) actor(playerID string, phase GamePhase, tp TurnPhase) (*Player, string) {
	if g.Phase == PhaseEnded {
		return nil, "game has ended"
	}
	if g.Phase != phase {
		return nil, fmt.Sprintf("game is %s", g.Phase)
	}
	p := g.Player(playerID)
	if p == nil {
		return nil, "unknown player"
	}
	if g.Current() != p {
		return nil, "not current player's turn"
	}
	if g.Turn != tp {
		return nil, fmt.Sprintf("expected %s, turn is at %s", tp, g.Turn)
	}
	return p, ""
}

func (g *Game) handleStartGame(a StartGame) ActionResult {
	if g.Phase != PhaseWaiting {
		return Invalid(a, "game already started")
	}
	if a.PlayerCount != len(g.Players) {
		return Invalid(a, fmt.Sprintf("player count %d does not match %d seated players", a.PlayerCount, len(g.Players)))
	}
	g.Phase = PhaseStarting
	return Success(a, TurnChanged{NewPlayerID: g.Players[0].ID})
}

func (g *Game) handlePlayCard(a PlayCard) (ActionResult, []Action) {
	p, reason := g.actor(a.PlayerID, PhasePlaying, PlayingCard)
	if p == nil {
		return Invalid(a, reason), nil
	}
	if !p.HasInHand(a.Card) {
		return Invalid(a, "card not in hand"), nil
	}

	forced := !a.Card.IsBonus() && !g.canMatch(p.Hand)
	p.removeFromHand(a.Card)

	// A bonus card is captured at once and replaced from the deck; the
	// player still owes a regular play.
	if a.Card.IsBonus() {
		p.Captured.Add(a.Card)
		changes := []StateChange{CardsMoved{From: AtHand(p.ID), To: AtCaptured(p.ID), Cards: []card.Card{a.Card}}}
		if len(g.Deck) > 0 {
			top := g.drawTop()
			p.Hand = append(p.Hand, top)
			changes = append(changes, CardsMoved{From: AtDeck, To: AtHand(p.ID), Cards: []card.Card{top}})
		}
		if len(p.Hand) == 0 {
			g.Turn = DrawingCard
		}
		g.updateScore(p)
		return Success(a, changes...), nil
	}

	// Nothing is captured once the deck is exhausted.
	if len(g.Deck) == 0 {
		g.Field.Add(a.Card)
		g.Turn = DrawingCard
		return Success(a, CardsMoved{From: AtHand(p.ID), To: AtField, Cards: []card.Card{a.Card}}), nil
	}

	out := g.Resolver.Resolve(g.Field, a.Card, FromHand, &g.turn.ctx)
	changes, follow := g.applyOutcome(p, a.Card, FromHand, out)
	if out.Placed {
		g.turn.ctx.BareHand = a.Card
		g.turn.ctx.HasBareHand = true
		if forced {
			g.forcedDiscards[a.Card] = p.ID
		}
	} else {
		g.turn.ctx.HandCapture = out.Captured
	}
	g.Turn = DrawingCard
	return Success(a, changes...), follow
}

func (g *Game) handleDrawFromDeck(a DrawFromDeck) (ActionResult, []Action) {
	p, reason := g.actor(a.PlayerID, PhasePlaying, DrawingCard)
	if p == nil {
		return Invalid(a, reason), nil
	}

	var changes []StateChange
	var follow []Action
	for len(g.Deck) > 0 {
		cd := g.drawTop()
		if cd.IsBonus() {
			p.Captured.Add(cd)
			changes = append(changes, CardsMoved{From: AtDeck, To: AtCaptured(p.ID), Cards: []card.Card{cd}})
			continue
		}
		out := g.Resolver.Resolve(g.Field, cd, FromDeck, &g.turn.ctx)
		var ch []StateChange
		ch, follow = g.applyOutcome(p, cd, FromDeck, out)
		changes = append(changes, ch...)
		break
	}
	g.updateScore(p)
	if len(changes) == 0 {
		changes = append(changes, ScoreUpdated{PlayerID: p.ID, NewScore: p.Score.FinalScore})
	}
	g.Turn = TakingCards
	return Success(a, changes...), follow
}

func (g *Game) handleTakeMatchedCards(a TakeMatchedCards) (ActionResult, []Action) {
	p, reason := g.actor(a.PlayerID, PhasePlaying, TakingCards)
	if p == nil {
		return Invalid(a, reason), nil
	}
	if !sameCards(a.Cards, g.turn.captured) {
		return Invalid(a, "cards do not match this turn's captures"), nil
	}
	follow := append(g.sweepFollowUps(p), EndTurn{PlayerID: p.ID})
	return Success(a, CardsMoved{From: AtField, To: AtCaptured(p.ID), Cards: g.TurnCaptures()}), follow
}

func (g *Game) handleEndTurn(a EndTurn) (ActionResult, []Action) {
	p, reason := g.actor(a.PlayerID, PhasePlaying, TakingCards)
	if p == nil {
		return Invalid(a, reason), nil
	}
	if !g.turn.sweepChecked {
		if follow := g.sweepFollowUps(p); len(follow) > 0 {
			return Success(a, ScoreUpdated{PlayerID: p.ID, NewScore: p.Score.FinalScore}), append(follow, EndTurn{PlayerID: p.ID})
		}
	}
	return g.completeTurn(a, p)
}

// sweepFollowUps checks once per turn whether the player cleared the field.
// Clearing it with the last draw of the round does not count.
func (g *Game) sweepFollowUps(p *Player) []Action {
	if g.turn.sweepChecked {
		return nil
	}
	g.turn.sweepChecked = true
	if g.turn.swept || len(g.turn.captured) == 0 || !g.Field.Empty() || len(g.Deck) == 0 {
		return nil
	}
	g.turn.swept = true
	return []Action{HandleSseul{PlayerID: p.ID, SweptCards: g.TurnCaptures()}}
}

// completeTurn decides what follows a finished turn: a go/stop decision, the
// end of the round, or the next seat.
func (g *Game) completeTurn(a Action, p *Player) (ActionResult, []Action) {
	p.IsFirstTurn = false
	g.updateScore(p)

	if g.Rules.HasGoStopDecision(&p.Captured) && p.Score.BaseScore > g.lastGoScore(p.ID) {
		g.Phase = PhaseScoring
		g.Turn = DecidingGoStop
		return Success(a, ScoreUpdated{PlayerID: p.ID, NewScore: p.Score.FinalScore}), nil
	}
	if g.roundOver() {
		return g.endRound(a, p)
	}
	next := g.advance()
	return Success(a, TurnChanged{NewPlayerID: next.ID}), nil
}

// canMatch reports whether any card in hand matches a field month.
func (g *Game) canMatch(hand []card.Card) bool {
	for _, cd := range hand {
		if !cd.IsBonus() && g.Field.HasMonth(cd.Month()) {
			return true
		}
	}
	return false
}

// applyOutcome moves the resolved cards between the player's piles and turns
// the outcome's conditions into follow-up actions.
func (g *Game) applyOutcome(p *Player, cd card.Card, src Source, out Outcome) ([]StateChange, []Action) {
	from := AtHand(p.ID)
	if src == FromDeck {
		from = AtDeck
	}
	var changes []StateChange
	var follow []Action

	if len(out.Captured) > 0 {
		p.Captured.Add(out.Captured...)
		g.turn.captured = append(g.turn.captured, out.Captured...)
		g.turn.ctx.Captures++
		changes = append(changes, CardsMoved{From: from, To: AtCaptured(p.ID), Cards: out.Captured})

		for _, c := range out.Captured {
			owner, ok := g.forcedDiscards[c]
			if !ok {
				continue
			}
			delete(g.forcedDiscards, c)
			if owner != p.ID {
				follow = append(follow, PerformSsaki{PlayerID: p.ID, Month: c.Month()})
			}
		}
	}
	if len(out.Returned) > 0 {
		if !p.Captured.Remove(out.Returned...) {
			g.abort(fmt.Sprintf("cards %v returned to the field were never captured", out.Returned))
			return nil, nil
		}
		g.turn.captured = removeCards(g.turn.captured, out.Returned)
		if g.turn.ctx.Captures > 0 {
			g.turn.ctx.Captures--
		}
		g.turn.ctx.HandCapture = nil
		changes = append(changes, CardsMoved{From: AtCaptured(p.ID), To: AtField, Cards: out.Returned})
	}
	if out.Placed {
		changes = append(changes, CardsMoved{From: from, To: AtField, Cards: []card.Card{cd}})
	}

	for _, cond := range out.Conditions {
		switch cond {
		case CondPpuk:
			follow = append(follow, HandlePpuk{PlayerID: p.ID, Card: cd})
		case CondDdadak:
			follow = append(follow, HandleDdadak{PlayerID: p.ID, MatchedCards: out.Captured})
		case CondJjok:
			follow = append(follow, HandleJjok{PlayerID: p.ID, Card: cd})
		case CondSseul:
			g.turn.swept = true
			follow = append(follow, HandleSseul{PlayerID: p.ID, SweptCards: out.Captured})
		case CondJaPpuk:
			g.record(CondJaPpuk, p.ID, out.Captured)
			follow = append(follow, g.piFromOpponents(p, 2)...)
		}
	}
	g.updateScore(p)
	return changes, follow
}

func removeCards(from, cards []card.Card) []card.Card {
	out := append([]card.Card(nil), from...)
	for _, cd := range cards {
		if i := indexOf(out, cd); i >= 0 {
			out = append(out[:i], out[i+1:]...)
		}
	}
	return out
}

func (g *Game) handleDeclareShaking(a DeclareShaking) ActionResult {
	p, reason := g.actor(a.PlayerID, PhasePlaying, PlayingCard)
	if p == nil {
		return Invalid(a, reason)
	}
	if !p.HasInHand(a.Cards...) {
		return Invalid(a, "cards not in hand")
	}
	m := a.Cards[0].Month()
	for _, cd := range a.Cards {
		if cd.IsBonus() || cd.Month() != m {
			return Invalid(a, "shaking cards must share a month")
		}
	}
	if p.hasShaken(m) {
		return Invalid(a, "month already shown")
	}
	if g.Field.HasMonth(m) {
		return Invalid(a, "month is already on the field")
	}

	p.ShakingCards = append(p.ShakingCards, a.Cards...)
	p.Score.AddMultiplier(scoring.Shaking(len(a.Cards)))
	g.record(CondShaking, p.ID, a.Cards)
	g.updateScore(p)
	return Success(a, ScoreUpdated{PlayerID: p.ID, NewScore: p.Score.FinalScore})
}

func (g *Game) handleSellGwang(a SellGwang) ActionResult {
	if g.Phase != PhasePlaying {
		return Invalid(a, fmt.Sprintf("game is %s", g.Phase))
	}
	p := g.Player(a.PlayerID)
	if p == nil {
		return Invalid(a, "unknown player")
	}
	if len(g.Players) < 4 {
		return Invalid(a, "selling brights needs at least 4 players")
	}
	if p.SatOut {
		return Invalid(a, "seat already sat out")
	}
	if !p.IsFirstTurn || (g.Current() == p && g.Turn != PlayingCard) {
		return Invalid(a, "brights can only be sold before the seat's first play")
	}
	for _, cd := range a.GwangCards {
		if !cd.IsBright() {
			return Invalid(a, "only brights can be sold")
		}
	}
	if !p.HasInHand(a.GwangCards...) {
		return Invalid(a, "cards not in hand")
	}
	if len(g.activePlayers())-1 < MinPlayers {
		return Invalid(a, "too few players would remain")
	}

	for _, cd := range a.GwangCards {
		p.removeFromHand(cd)
	}
	p.Captured.Add(a.GwangCards...)
	p.SatOut = true
	p.GwangSold = len(a.GwangCards)
	g.updateScore(p)

	changes := []StateChange{CardsMoved{From: AtHand(p.ID), To: AtCaptured(p.ID), Cards: a.GwangCards}}
	if g.Current() == p {
		next := g.advance()
		changes = append(changes, TurnChanged{NewPlayerID: next.ID})
	}
	return Success(a, changes...)
}
