package scoring

// Baks returns the penalty multipliers one loser owes the winner.
// loserGoCount is how many times the loser declared Go this round; losers is the
// number of players paying the winner.
func (r Rules) Baks(winner, loser *Captured, loserGoCount, losers int) []Multiplier {
	var baks []Multiplier
	b := r.Breakdown(winner)
	if b.Pi > 0 {
		if n := loser.PiCount(); n > 0 && n <= r.PiBakMax {
			baks = append(baks, PiBak)
		}
	}
	if b.Gwang > 0 && len(loser.Gwang) == 0 {
		baks = append(baks, GwangBak)
	}
	if len(winner.Meong) >= r.MeongBakMin && len(loser.Meong) == 0 {
		baks = append(baks, MeongBak)
	}
	if loserGoCount > 0 {
		baks = append(baks, GoBak)
		if losers > 1 {
			baks = append(baks, DokBak)
		}
	}
	return baks
}

// Loser is one paying seat in a settlement.
type Loser struct {
	PlayerID string
	Captured *Captured
	GoCount  int
}

// Payment is what one loser owes the winner.
type Payment struct {
	From        string       `json:"from"`
	To          string       `json:"to"`
	Multipliers []Multiplier `json:"multipliers"`
	Amount      int          `json:"amount"`
}

// Settle computes one payment per loser: the winner's final score multiplied by
// that loser's baks. winnerScore must be up to date.
func (r Rules) Settle(winnerID string, winner *Captured, winnerScore Score, losers []Loser) []Payment {
	payments := make([]Payment, 0, len(losers))
	for _, l := range losers {
		baks := r.Baks(winner, l.Captured, l.GoCount, len(losers))
		payments = append(payments, Payment{
			From:        l.PlayerID,
			To:          winnerID,
			Multipliers: baks,
			Amount:      winnerScore.FinalScore * TotalMultiplier(baks),
		})
	}
	return payments
}
