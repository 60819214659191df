package scoring

import (
	"encoding/json"
	"testing"

	"gostop-server/card"
)

func captured(cards ...card.Card) *Captured {
	c := &Captured{}
	c.Add(cards...)
	return c
}

func TestTotalMultiplierExamples(t *testing.T) {
	tests := []struct {
		name string
		ms   []Multiplier
		want int
	}{
		{"empty", nil, 1},
		{"go 1", []Multiplier{Go(1)}, 1},
		{"go 2", []Multiplier{Go(2)}, 1},
		{"go 3", []Multiplier{Go(3)}, 2},
		{"go 4", []Multiplier{Go(4)}, 4},
		{"go 5", []Multiplier{Go(5)}, 8},
		{"nagari 2", []Multiplier{Nagari(2)}, 4},
		{"shaking 3 and pibak", []Multiplier{Shaking(3), PiBak}, 4},
		{"shaking 4", []Multiplier{Shaking(4)}, 4},
		{"shaking 5 is ignored", []Multiplier{Shaking(5)}, 1},
		{"baks stack", []Multiplier{PiBak, GwangBak, MeongBak}, 8},
		{"ssaki and one shot", []Multiplier{Ssaki, OneShot}, 4},
		{"go bak and dok bak", []Multiplier{GoBak, DokBak}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalMultiplier(tt.ms); got != tt.want {
				t.Errorf("TotalMultiplier(%v) = %d, want %d", tt.ms, got, tt.want)
			}
		})
	}
}

func TestTotalMultiplierIgnoresOrder(t *testing.T) {
	a := []Multiplier{Go(3), Shaking(3), Nagari(1)}
	b := []Multiplier{Nagari(1), Go(3), Shaking(3)}
	if TotalMultiplier(a) != TotalMultiplier(b) {
		t.Errorf("order changed the product: %d vs %d", TotalMultiplier(a), TotalMultiplier(b))
	}
}

func TestEveryMultiplierKindHasName(t *testing.T) {
	for k := MultiplierKind(0); k < numMultiplierKinds; k++ {
		if k.String() == "unknown" {
			t.Errorf("kind %d has no name", int(k))
		}
		if (Multiplier{Kind: k, N: 3}).Factor() < 1 {
			t.Errorf("kind %s has a factor below 1", k)
		}
	}
}

func TestMultiplierJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Go(4))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m Multiplier
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m != Go(4) {
		t.Errorf("expected go(4), got %s", m)
	}
	if err := json.Unmarshal([]byte(`{"kind":"jackpot"}`), &m); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestGwangScoring(t *testing.T) {
	r := StandardRules()
	tests := []struct {
		name  string
		cards []card.Card
		want  int
	}{
		{"five", []card.Card{card.SonghakCrane, card.SakuraCurtain, card.EoksaeMoon, card.PaulowniaPhoenix, card.WillowRainman}, 15},
		{"four", []card.Card{card.SonghakCrane, card.SakuraCurtain, card.EoksaeMoon, card.PaulowniaPhoenix}, 4},
		{"four with rain", []card.Card{card.SonghakCrane, card.SakuraCurtain, card.EoksaeMoon, card.WillowRainman}, 4},
		{"three", []card.Card{card.SonghakCrane, card.SakuraCurtain, card.EoksaeMoon}, 3},
		{"three with rain", []card.Card{card.SonghakCrane, card.SakuraCurtain, card.WillowRainman}, 3},
		{"two", []card.Card{card.SonghakCrane, card.SakuraCurtain}, 0},
		{"none", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Breakdown(captured(tt.cards...)).Gwang; got != tt.want {
				t.Errorf("gwang points = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMatgoDiscountsRainGwang(t *testing.T) {
	r := Matgo()
	withRain := captured(card.SonghakCrane, card.SakuraCurtain, card.WillowRainman)
	if got := r.Breakdown(withRain).Gwang; got != 2 {
		t.Errorf("expected 2 for three brights with rain, got %d", got)
	}
	without := captured(card.SonghakCrane, card.SakuraCurtain, card.EoksaeMoon)
	if got := r.Breakdown(without).Gwang; got != 3 {
		t.Errorf("expected 3 for three brights without rain, got %d", got)
	}
}

func TestPiCounting(t *testing.T) {
	r := StandardRules()

	c := captured(card.PaulowniaDoublePi, card.SonghakPine, card.MaejouPlum, card.SakuraCherry)
	if got := c.PiCount(); got != 5 {
		t.Fatalf("expected pi count 5, got %d", got)
	}
	if got := r.Breakdown(c).Pi; got != 0 {
		t.Errorf("expected 0 pi points, got %d", got)
	}

	ten := captured(card.SonghakPine, card.SonghakPine2, card.MaejouPlum, card.MaejouPlum2,
		card.SakuraCherry, card.SakuraCherry2, card.DeungnamuWisteria, card.DeungnamuWisteria2,
		card.Iris, card.Iris2)
	if got := ten.PiCount(); got != 10 {
		t.Fatalf("expected pi count 10, got %d", got)
	}
	if got := r.BaseScore(ten); got != 1 {
		t.Errorf("expected base score 1, got %d", got)
	}
}

func TestRibbonAndAnimalPoints(t *testing.T) {
	r := StandardRules()
	c := captured(card.SonghakHongdan, card.DeungnamuChodan, card.PeonyCheongdan, card.WillowRibbon, card.IrisChodan)
	if got := r.Breakdown(c).Yeol; got != 1 {
		t.Errorf("expected 1 ribbon point for 5 ribbons, got %d", got)
	}
	m := captured(card.IrisYatsuhashi, card.PeonyButterfly, card.SariBoar, card.MapleDeer, card.WillowSwallow, card.ChrysanthemumSakazuki)
	if got := r.Breakdown(m).Meong; got != 2 {
		t.Errorf("expected 2 animal points for 6 animals, got %d", got)
	}
}

func TestHongdan(t *testing.T) {
	r := StandardRules()
	c := captured(card.SonghakHongdan, card.MaejouHongdan, card.SakuraHongdan)
	if !c.HasHongdan() {
		t.Fatal("expected hongdan")
	}
	if got := r.BaseScore(c); got != 3 {
		t.Errorf("expected base score 3, got %d", got)
	}

	missing := captured(card.SonghakHongdan, card.MaejouHongdan)
	if missing.HasHongdan() {
		t.Error("two red ribbons should not be hongdan")
	}
}

func TestCombinations(t *testing.T) {
	r := StandardRules()
	c := captured(card.PeonyCheongdan, card.ChrysanthemumCheongdan, card.MapleCheongdan,
		card.DeungnamuChodan, card.IrisChodan, card.SariChodan)
	b := r.Breakdown(c)
	if b.Cheongdan != 3 || b.Chodan != 3 {
		t.Errorf("expected cheongdan and chodan, got %+v", b)
	}
	// six ribbons also score 2 ribbon points
	if got := b.Total(); got != 8 {
		t.Errorf("expected total 8, got %d", got)
	}

	g := captured(card.MaejouWhistlingBird, card.DeungnamuCuckoo, card.EoksaeGoose)
	if got := r.BaseScore(g); got != 5 {
		t.Errorf("expected godori 5, got %d", got)
	}
}

func TestGoStopThreshold(t *testing.T) {
	c := captured(card.SonghakHongdan, card.MaejouHongdan, card.SakuraHongdan)
	if !StandardRules().HasGoStopDecision(c) {
		t.Error("3 points should reach the standard threshold")
	}
	if Matgo().HasGoStopDecision(c) {
		t.Error("3 points should not reach the 7-point threshold")
	}
	if StandardRules().HasGoStopDecision(captured(card.SonghakPine)) {
		t.Error("a single pi should not reach the threshold")
	}
}

func TestUpdateFinalScoreIsIdempotent(t *testing.T) {
	r := StandardRules()
	c := captured(card.SonghakCrane, card.SakuraCurtain, card.EoksaeMoon)
	s := NewScore()
	s.AddMultiplier(Shaking(3))
	first := s.UpdateFinalScore(r, c)
	second := s.UpdateFinalScore(r, c)
	if first != second {
		t.Errorf("UpdateFinalScore not idempotent: %d then %d", first, second)
	}
	if first != 6 {
		t.Errorf("expected 3 x 2 = 6, got %d", first)
	}
	if s.TotalMultiplier != 2 || s.BaseScore != 3 {
		t.Errorf("unexpected derived fields %+v", s)
	}
}

func TestCapturedRouting(t *testing.T) {
	c := captured(card.SonghakCrane, card.SonghakHongdan, card.MaejouWhistlingBird, card.SonghakPine, card.Bonus1)
	if len(c.Gwang) != 1 || len(c.Yeol) != 1 || len(c.Meong) != 1 || len(c.Pi) != 2 {
		t.Errorf("unexpected routing %+v", c)
	}
	if c.Len() != 5 || len(c.All()) != 5 {
		t.Errorf("expected 5 cards, got %d", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Error("Clear left cards behind")
	}
}

func TestTakePiPrefersSinglePi(t *testing.T) {
	c := captured(card.WillowDoublePi, card.Maple)
	taken := c.TakePi(1)
	if len(taken) != 1 || taken[0] != card.Maple {
		t.Fatalf("expected to give up the single pi, got %v", taken)
	}
	taken = c.TakePi(1)
	if len(taken) != 1 || taken[0] != card.WillowDoublePi {
		t.Fatalf("expected the double pi once singles run out, got %v", taken)
	}
	if taken := c.TakePi(2); len(taken) != 0 {
		t.Errorf("expected nothing from an empty pile, got %v", taken)
	}
}

func TestRemove(t *testing.T) {
	c := captured(card.Peony, card.PeonyButterfly)
	if c.Remove(card.Peony, card.Maple) {
		t.Fatal("Remove should fail when a card is missing")
	}
	if c.Len() != 2 {
		t.Fatal("failed Remove must not change the piles")
	}
	if !c.Remove(card.Peony, card.PeonyButterfly) || c.Len() != 0 {
		t.Error("expected both cards removed")
	}
}
