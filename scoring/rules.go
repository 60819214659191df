package scoring

import "gostop-server/card"

// Rules holds the variant-dependent numbers of the scoring engine.
// The defaults follow the common 3-point game; see Matgo for the 7-point game.
type Rules struct {
	// GoStopThreshold is the base score at which a player is offered Go or Stop.
	GoStopThreshold int
	// ThreeGwangWithRain is the value of exactly three brights when one is the rain card.
	ThreeGwangWithRain int
	// PiBakMax is the largest pi count a loser can hold and still owe pi-bak.
	PiBakMax int
	// MeongBakMin is the animal count a winner needs before meong-bak applies.
	MeongBakMin int
}

// StandardRules returns the default rule numbers.
func StandardRules() Rules {
	return Rules{
		GoStopThreshold:    3,
		ThreeGwangWithRain: 3,
		PiBakMax:           7,
		MeongBakMin:        7,
	}
}

// Matgo returns the two-player 7-point rule numbers, where three brights
// including the rain card are worth 2.
func Matgo() Rules {
	return Rules{
		GoStopThreshold:    7,
		ThreeGwangWithRain: 2,
		PiBakMax:           7,
		MeongBakMin:        7,
	}
}

// Breakdown lists each contribution to a base score.
type Breakdown struct {
	Pi        int `json:"pi"`
	Yeol      int `json:"yeol"`
	Meong     int `json:"meong"`
	Gwang     int `json:"gwang"`
	Hongdan   int `json:"hongdan"`
	Cheongdan int `json:"cheongdan"`
	Chodan    int `json:"chodan"`
	Godori    int `json:"godori"`
}

// Total sums the contributions.
func (b Breakdown) Total() int {
	return b.Pi + b.Yeol + b.Meong + b.Gwang + b.Hongdan + b.Cheongdan + b.Chodan + b.Godori
}

// Breakdown scores each category of c separately.
func (r Rules) Breakdown(c *Captured) Breakdown {
	var b Breakdown
	b.Pi = max(0, c.PiCount()-9)
	b.Yeol = max(0, len(c.Yeol)-4)
	b.Meong = max(0, len(c.Meong)-4)
	b.Gwang = r.gwangPoints(c.Gwang)
	if c.HasHongdan() {
		b.Hongdan = 3
	}
	if c.HasCheongdan() {
		b.Cheongdan = 3
	}
	if c.HasChodan() {
		b.Chodan = 3
	}
	if c.HasGodori() {
		b.Godori = 5
	}
	return b
}

// BaseScore is the sum of all category and combination points.
func (r Rules) BaseScore(c *Captured) int {
	return r.Breakdown(c).Total()
}

// HasGoStopDecision reports whether c scores enough to declare Go or Stop.
func (r Rules) HasGoStopDecision(c *Captured) bool {
	return r.BaseScore(c) >= r.GoStopThreshold
}

func (r Rules) gwangPoints(gwang []card.Card) int {
	switch len(gwang) {
	case 5:
		return 15
	case 4:
		return 4
	case 3:
		for _, cd := range gwang {
			if cd.IsRain() {
				return r.ThreeGwangWithRain
			}
		}
		return 3
	default:
		return 0
	}
}
