package scoring

// Score is a player's scoring record for the current round.
//
// TotalMultiplier and FinalScore are derived. They are only refreshed by
// UpdateFinalScore, which callers must invoke after changing the captured cards
// or the multiplier log.
type Score struct {
	BaseScore       int          `json:"baseScore"`
	GoCount         int          `json:"goCount"`
	Multipliers     []Multiplier `json:"multipliers"`
	TotalMultiplier int          `json:"totalMultiplier"`
	FinalScore      int          `json:"finalScore"`
}

// NewScore returns an empty score with a neutral multiplier.
func NewScore() Score {
	return Score{TotalMultiplier: 1}
}

// AddMultiplier appends m to the log. It does not refresh derived fields.
func (s *Score) AddMultiplier(m Multiplier) {
	s.Multipliers = append(s.Multipliers, m)
}

// UpdateFinalScore recomputes base score, total multiplier and final score.
func (s *Score) UpdateFinalScore(r Rules, c *Captured) int {
	s.BaseScore = r.BaseScore(c)
	s.TotalMultiplier = TotalMultiplier(s.Multipliers)
	s.FinalScore = s.BaseScore * s.TotalMultiplier
	return s.FinalScore
}

// HasMultiplier reports whether the log already holds an entry of kind k.
func (s *Score) HasMultiplier(k MultiplierKind) bool {
	for _, m := range s.Multipliers {
		if m.Kind == k {
			return true
		}
	}
	return false
}

// PlayerScore is the per-player summary reported when a game ends.
type PlayerScore struct {
	PlayerID    string       `json:"playerId"`
	BaseScore   int          `json:"baseScore"`
	GoCount     int          `json:"goCount"`
	Multipliers []Multiplier `json:"multipliers"`
	FinalScore  int          `json:"finalScore"`
}

// Summary copies s into a PlayerScore for playerID.
func (s *Score) Summary(playerID string) PlayerScore {
	ms := make([]Multiplier, len(s.Multipliers))
	copy(ms, s.Multipliers)
	return PlayerScore{
		PlayerID:    playerID,
		BaseScore:   s.BaseScore,
		GoCount:     s.GoCount,
		Multipliers: ms,
		FinalScore:  s.FinalScore,
	}
}
