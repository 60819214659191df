package game

import (
	"log/slog"

	"gostop-server/card"
	"gostop-server/scoring"
)

func (g *Game) handlePpuk(a HandlePpuk) (ActionResult, []Action) {
	p := g.Player(a.PlayerID)
	if p == nil {
		return Invalid(a, "unknown player"), nil
	}
	p.PpukCount++
	g.record(CondPpuk, p.ID, g.Field.Group(a.Card.Month()))
	if p.IsFirstTurn {
		p.Score.AddMultiplier(scoring.OneShot)
	}
	g.updateScore(p)

	if p.PpukCount >= 3 {
		g.record(CondThreePpuk, p.ID, nil)
		slog.Info("three ppuk", "tag", "game", "game_id", g.ID, "player", p.ID)
		return Success(a, ScoreUpdated{PlayerID: p.ID, NewScore: p.Score.FinalScore}), []Action{g.conclude(p)}
	}
	return Success(a, ScoreUpdated{PlayerID: p.ID, NewScore: p.Score.FinalScore}), nil
}

// handleBonusEvent records ddadak, jjok and sseul, each of which takes one pi
// from every active opponent.
func (g *Game) handleBonusEvent(a Action, t ConditionType, playerID string, cards []card.Card) (ActionResult, []Action) {
	p := g.Player(playerID)
	if p == nil {
		return Invalid(a, "unknown player"), nil
	}
	g.record(t, p.ID, cards)
	return Success(a, ScoreUpdated{PlayerID: p.ID, NewScore: p.Score.FinalScore}), g.piFromOpponents(p, 1)
}

func (g *Game) handleSsaki(a PerformSsaki) ActionResult {
	p := g.Player(a.PlayerID)
	if p == nil {
		return Invalid(a, "unknown player")
	}
	var cards []card.Card
	for _, cd := range p.Captured.All() {
		if cd.Month() == a.Month {
			cards = append(cards, cd)
		}
	}
	g.record(CondSsaki, p.ID, cards)
	p.Score.AddMultiplier(scoring.Ssaki)
	g.updateScore(p)
	return Success(a, ScoreUpdated{PlayerID: p.ID, NewScore: p.Score.FinalScore})
}

func (g *Game) handleTransferPi(a TransferPi) ActionResult {
	from, to := g.Player(a.FromPlayerID), g.Player(a.ToPlayerID)
	if from == nil || to == nil {
		return Invalid(a, "unknown player")
	}
	if from == to {
		return Invalid(a, "cannot transfer pi to the same player")
	}
	taken := from.Captured.TakePi(a.Count)
	to.Captured.Add(taken...)
	g.updateScore(from)
	g.updateScore(to)
	return Success(a, CardsMoved{From: AtCaptured(from.ID), To: AtCaptured(to.ID), Cards: taken})
}

func (g *Game) handleDeclareGo(a DeclareGo) ActionResult {
	p, reason := g.actor(a.PlayerID, PhaseScoring, DecidingGoStop)
	if p == nil {
		return Invalid(a, reason)
	}
	if g.roundOver() {
		return Invalid(a, "no cards left to continue; declare stop")
	}
	p.Score.GoCount++
	g.GoHistory = append(g.GoHistory, GoDeclaration{PlayerID: p.ID, GoCount: p.Score.GoCount, Score: p.Score.BaseScore})
	g.updateScore(p)
	slog.Info("go declared", "tag", "game", "game_id", g.ID, "player", p.ID, "go_count", p.Score.GoCount)

	next := g.advance()
	return Success(a, TurnChanged{NewPlayerID: next.ID}, ScoreUpdated{PlayerID: p.ID, NewScore: p.Score.FinalScore})
}

func (g *Game) handleDeclareStop(a DeclareStop) (ActionResult, []Action) {
	p, reason := g.actor(a.PlayerID, PhaseScoring, DecidingGoStop)
	if p == nil {
		return Invalid(a, reason), nil
	}
	end := g.conclude(p)
	return Success(a, ScoreUpdated{PlayerID: p.ID, NewScore: p.Score.FinalScore}), []Action{end}
}

// endRound closes a round whose hands are played out. The best qualifying
// score wins; with none the round is a nagari.
func (g *Game) endRound(a Action, last *Player) (ActionResult, []Action) {
	g.Phase = PhaseScoring
	var winner *Player
	for _, p := range g.activePlayers() {
		if !g.Rules.HasGoStopDecision(&p.Captured) {
			continue
		}
		if winner == nil || p.Score.FinalScore > winner.Score.FinalScore {
			winner = p
		}
	}
	res := Success(a, ScoreUpdated{PlayerID: last.ID, NewScore: last.Score.FinalScore})
	if winner == nil {
		return res, []Action{HandleNagari{}}
	}
	return res, []Action{g.conclude(winner)}
}

// conclude applies the winner's end-of-round multipliers and builds the
// EndGame follow-up.
func (g *Game) conclude(w *Player) EndGame {
	if w.Score.GoCount > 0 {
		w.Score.AddMultiplier(scoring.Go(w.Score.GoCount))
	}
	if g.NagariCount > 0 {
		w.Score.AddMultiplier(scoring.Nagari(g.NagariCount))
	}
	g.updateScore(w)
	g.Phase = PhaseScoring
	return EndGame{WinnerID: w.ID, FinalScores: g.ScoreSummaries()}
}

func (g *Game) handleEndGame(a EndGame) ActionResult {
	if g.Phase != PhaseScoring {
		return Invalid(a, "game is not being scored")
	}
	w := g.Player(a.WinnerID)
	if w == nil {
		return Invalid(a, "unknown winner")
	}

	var losers []scoring.Loser
	for _, p := range g.Players {
		if p == w || p.SatOut {
			continue
		}
		losers = append(losers, scoring.Loser{PlayerID: p.ID, Captured: &p.Captured, GoCount: p.Score.GoCount})
	}
	g.Payments = g.Rules.Settle(w.ID, &w.Captured, w.Score, losers)
	g.WinnerID = w.ID
	g.FinalScores = a.FinalScores
	g.Phase = PhaseEnded
	g.NagariCount = 0

	slog.Info("game ended", "tag", "game", "game_id", g.ID, "winner", w.ID,
		"score", w.Score.FinalScore, "round", g.CurrentRound)
	return Success(a, GameEnded{WinnerID: w.ID})
}

// handleNagari collects every card back into the deck for a redeal.
func (g *Game) handleNagari(a HandleNagari) ActionResult {
	if g.Phase != PhaseScoring {
		return Invalid(a, "no round to void")
	}
	g.NagariCount++
	collected := g.collectCards()
	g.CurrentRound++
	g.GoHistory = nil
	g.CurrentPlayerIdx = 0
	g.Phase = PhaseDealing
	slog.Info("round ended in nagari", "tag", "game", "game_id", g.ID, "nagari_count", g.NagariCount)

	changes := []StateChange{CardsMoved{From: AtField, To: AtDeck, Cards: collected}}
	if g.Dealer != nil {
		if err := g.Deal(g.Dealer.Deal(len(g.Players))); err != nil {
			g.abort("redeal failed: " + err.Error())
			return Invalid(a, err.Error())
		}
		changes = append(changes, TurnChanged{NewPlayerID: g.Current().ID})
	}
	return Success(a, changes...)
}

// collectCards returns every card to the deck in catalog order.
func (g *Game) collectCards() []card.Card {
	g.Field.Clear()
	for _, p := range g.Players {
		p.resetForRound()
	}
	g.forcedDiscards = make(map[card.Card]string)
	g.resetTurn()
	g.Deck = card.All()
	return append([]card.Card(nil), g.Deck...)
}
