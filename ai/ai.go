package ai

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"gostop-server/card"
	"gostop-server/config"
	"gostop-server/game"
)

// Table is the part of a room a bot acts on.
type Table interface {
	Submit(playerID string, a game.Action) bool
}

// Run plays one seat until the game ends. It reads the seat's outbound
// messages from send and submits its decisions to t. Run returns on game_over,
// when send is closed or when done is closed.
func Run(send <-chan []byte, done <-chan struct{}, t Table, playerID string, params *config.AIParams) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	log := slog.Default().With("tag", "ai", "name", params.Name, "player", playerID)

	var last *game.GameStateMsg
	for {
		var data []byte
		select {
		case <-done:
			return
		case msg, ok := <-send:
			if !ok {
				return
			}
			data = msg
		}

		var envelope struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			continue
		}

		var a game.Action
		switch envelope.Type {
		case "game_over", "player_left":
			return
		case "game_state":
			var state game.GameStateMsg
			if err := json.Unmarshal(data, &state); err != nil {
				log.Warn("undecodable state", "error", err)
				continue
			}
			last = &state
			a = Decide(&state, params, rng)
		case "error":
			// A refused move is retried once with the plainest legal choice.
			if last == nil {
				continue
			}
			log.Debug("move refused", "reason", envelope.Message)
			a = decide(last, params, rng, false)
			last = nil
		default:
			continue
		}
		if a == nil {
			continue
		}

		if !sleep(done, delay(params, rng)) {
			return
		}
		log.Debug("acting", "action", a.Kind().String())
		if !t.Submit(playerID, a) {
			return
		}
	}
}

// Decide picks the bot's next action for state, or nil when it has nothing to do.
func Decide(state *game.GameStateMsg, params *config.AIParams, rng *rand.Rand) game.Action {
	return decide(state, params, rng, true)
}

func decide(state *game.GameStateMsg, params *config.AIParams, rng *rand.Rand, allowShake bool) game.Action {
	if !state.YourTurn || state.You == nil {
		return nil
	}
	id := state.You.ID

	switch {
	case state.Phase == game.PhasePlaying && state.TurnPhase == game.PlayingCard:
		if len(state.Hand) == 0 {
			return nil
		}
		if allowShake && chance(rng, params.GoChance) {
			if cards := shakeable(state); len(cards) > 0 {
				return game.DeclareShaking{PlayerID: id, Cards: cards}
			}
		}
		if !allowShake {
			return game.PlayCard{PlayerID: id, Card: state.Hand[0]}
		}
		return game.PlayCard{PlayerID: id, Card: pickCard(state, params, rng)}

	case state.Phase == game.PhasePlaying && state.TurnPhase == game.DrawingCard:
		return game.DrawFromDeck{PlayerID: id}

	case state.Phase == game.PhasePlaying && state.TurnPhase == game.TakingCards:
		return game.TakeMatchedCards{PlayerID: id, Cards: state.TurnCaptures}

	case state.Phase == game.PhaseScoring && state.TurnPhase == game.DecidingGoStop:
		if allowShake && state.DeckCount > 0 && len(state.Hand) > 0 && chance(rng, params.GoChance) {
			return game.DeclareGo{PlayerID: id}
		}
		return game.DeclareStop{PlayerID: id}
	}
	return nil
}

// pickCard plays a bonus card when it holds one, otherwise the card whose
// capture is worth most. With probability 100-GreedyChance it plays at random.
func pickCard(state *game.GameStateMsg, params *config.AIParams, rng *rand.Rand) card.Card {
	for _, cd := range state.Hand {
		if cd.IsBonus() {
			return cd
		}
	}
	if !chance(rng, params.GreedyChance) {
		return state.Hand[rng.Intn(len(state.Hand))]
	}

	field := make(map[card.Month][]card.Card)
	for _, cd := range state.Field {
		field[cd.Month()] = append(field[cd.Month()], cd)
	}

	best, bestValue := state.Hand[0], -1<<31
	for _, cd := range state.Hand {
		v := playValue(cd, field[cd.Month()])
		if v > bestValue {
			best, bestValue = cd, v
		}
	}
	return best
}

// playValue estimates what playing cd gains. A card with no match is left on
// the field, so giving up a valuable card scores negative.
func playValue(cd card.Card, matches []card.Card) int {
	if len(matches) == 0 {
		return -worth(cd)
	}
	v := worth(cd)
	switch len(matches) {
	case 1, 3:
		for _, m := range matches {
			v += worth(m)
		}
	case 2:
		// Only one of the two is taken.
		v += max(worth(matches[0]), worth(matches[1]))
	}
	return v
}

func worth(cd card.Card) int {
	switch cd.Category() {
	case card.Bright:
		return 6
	case card.RibbonHongdan, card.RibbonCheongdan, card.RibbonChodan, card.AnimalSpecial:
		return 4
	case card.RibbonPlain, card.AnimalPlain:
		return 3
	case card.DoublePi:
		return 2
	default:
		return 1
	}
}

// shakeable returns three or more same-month cards from hand that may be shown:
// the month is absent from the field and has not been shown before.
func shakeable(state *game.GameStateMsg) []card.Card {
	onField := make(map[card.Month]bool)
	for _, cd := range state.Field {
		onField[cd.Month()] = true
	}
	shown := make(map[card.Month]bool)
	for _, cd := range state.You.Shaken {
		shown[cd.Month()] = true
	}

	byMonth := make(map[card.Month][]card.Card)
	for _, cd := range state.Hand {
		if !cd.IsBonus() {
			byMonth[cd.Month()] = append(byMonth[cd.Month()], cd)
		}
	}
	months := make([]card.Month, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	for _, m := range months {
		if len(byMonth[m]) >= 3 && !onField[m] && !shown[m] {
			return byMonth[m]
		}
	}
	return nil
}

func chance(rng *rand.Rand, pct int) bool {
	return rng.Intn(100) < pct
}

func delay(params *config.AIParams, rng *rand.Rand) time.Duration {
	lo, hi := params.DelayMinMS, params.DelayMaxMS
	if lo < 0 {
		lo = 0
	}
	if hi <= lo {
		return time.Duration(lo) * time.Millisecond
	}
	return time.Duration(lo+rng.Intn(hi-lo+1)) * time.Millisecond
}

// sleep waits for d and reports false if done closed first.
func sleep(done <-chan struct{}, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-done:
		return false
	case <-timer.C:
		return true
	}
}
