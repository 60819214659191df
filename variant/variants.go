package variant

import (
	"gostop-server/game"
	"gostop-server/scoring"
)

// Standard is the common table game for two to six players, stopping at 3 points.
type Standard struct {
	Threshold int
}

func (s *Standard) ID() string   { return "standard" }
func (s *Standard) Name() string { return "Go-Stop" }
func (s *Standard) Description() string {
	return "Two to six players. Sellers sit out with four or more; go or stop from 3 points."
}
func (s *Standard) MinPlayers() int          { return game.MinPlayers }
func (s *Standard) MaxPlayers() int          { return game.MaxPlayers }
func (s *Standard) Resolver() game.Resolver { return game.StandardResolver{} }

func (s *Standard) Rules() scoring.Rules {
	r := scoring.StandardRules()
	if s.Threshold > 0 {
		r.GoStopThreshold = s.Threshold
	}
	return r
}

// Matgo is the two-player game, stopping at 7 points with the rain bright discounted.
type Matgo struct {
	Threshold int
}

func (m *Matgo) ID() string   { return "matgo" }
func (m *Matgo) Name() string { return "Matgo" }
func (m *Matgo) Description() string {
	return "Head to head. Go or stop from 7 points; three brights with the rain bright score 2."
}
func (m *Matgo) MinPlayers() int          { return 2 }
func (m *Matgo) MaxPlayers() int          { return 2 }
func (m *Matgo) Resolver() game.Resolver { return game.StandardResolver{} }

func (m *Matgo) Rules() scoring.Rules {
	r := scoring.Matgo()
	if m.Threshold > 0 {
		r.GoStopThreshold = m.Threshold
	}
	return r
}
