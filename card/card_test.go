package card

import (
	"encoding/json"
	"testing"
)

func TestCatalogIsExhaustive(t *testing.T) {
	all := All()
	if len(all) != 50 {
		t.Fatalf("expected 50 cards, got %d", len(all))
	}
	seen := make(map[string]bool)
	for _, c := range all {
		name := c.String()
		if name == "" {
			t.Errorf("card %d has no catalog entry", int(c))
			continue
		}
		if seen[name] {
			t.Errorf("duplicate card name %q", name)
		}
		seen[name] = true
		if c.Category().String() == "unknown" {
			t.Errorf("%s has unknown category", c)
		}
		if !c.IsBonus() && (c.Month() < 1 || c.Month() > 12) {
			t.Errorf("%s has month %d", c, c.Month())
		}
		// Bucket panics on an unhandled category.
		_ = c.Bucket()
	}
}

func TestEveryMonthHasFourCards(t *testing.T) {
	for m := Month(1); m <= 12; m++ {
		if n := len(OfMonth(m)); n != 4 {
			t.Errorf("month %d: expected 4 cards, got %d", m, n)
		}
	}
	if n := len(OfMonth(Bonus)); n != 2 {
		t.Errorf("expected 2 bonus cards, got %d", n)
	}
}

func TestBrights(t *testing.T) {
	brights := 0
	for _, c := range All() {
		if c.IsBright() {
			brights++
		}
	}
	if brights != 5 {
		t.Errorf("expected 5 brights, got %d", brights)
	}
	if !SonghakCrane.IsBright() {
		t.Error("SonghakCrane should be bright")
	}
	if SonghakPine.IsBright() {
		t.Error("SonghakPine should not be bright")
	}
	if !WillowRainman.IsRain() || EoksaeMoon.IsRain() {
		t.Error("only WillowRainman is the rain card")
	}
}

func TestDoublePi(t *testing.T) {
	tests := []struct {
		card   Card
		double bool
		value  int
	}{
		{PaulowniaDoublePi, true, 2},
		{WillowDoublePi, true, 2},
		{Bonus1, true, 2},
		{Bonus2, true, 2},
		{SonghakPine, false, 1},
		{SonghakCrane, false, 0},
		{MapleDeer, false, 0},
	}
	for _, tt := range tests {
		if got := tt.card.IsDoublePi(); got != tt.double {
			t.Errorf("%s: IsDoublePi=%v, want %v", tt.card, got, tt.double)
		}
		if got := tt.card.PiValue(); got != tt.value {
			t.Errorf("%s: PiValue=%d, want %d", tt.card, got, tt.value)
		}
	}
}

func TestBucketRouting(t *testing.T) {
	tests := []struct {
		card Card
		want Bucket
	}{
		{SakuraCurtain, GwangBucket},
		{SonghakHongdan, YeolBucket},
		{WillowRibbon, YeolBucket},
		{EoksaeGoose, MeongBucket},
		{MapleDeer, MeongBucket},
		{Peony, PiBucket},
		{WillowDoublePi, PiBucket},
		{Bonus2, PiBucket},
	}
	for _, tt := range tests {
		if got := tt.card.Bucket(); got != tt.want {
			t.Errorf("%s: bucket=%d, want %d", tt.card, got, tt.want)
		}
	}
}

func TestBonusCards(t *testing.T) {
	if !Bonus1.IsBonus() || !Bonus2.IsBonus() {
		t.Error("bonus cards should report IsBonus")
	}
	if Bonus1.Month() != Bonus {
		t.Errorf("expected bonus month, got %d", Bonus1.Month())
	}
	if Iris.IsBonus() {
		t.Error("Iris is not a bonus card")
	}
}

func TestCombinationSets(t *testing.T) {
	for _, c := range Hongdan {
		if c.Category() != RibbonHongdan {
			t.Errorf("%s in Hongdan has category %s", c, c.Category())
		}
	}
	for _, c := range Cheongdan {
		if c.Category() != RibbonCheongdan {
			t.Errorf("%s in Cheongdan has category %s", c, c.Category())
		}
	}
	for _, c := range Chodan {
		if c.Category() != RibbonChodan {
			t.Errorf("%s in Chodan has category %s", c, c.Category())
		}
	}
	months := map[Month]bool{}
	for _, c := range Godori {
		if c.Category() != AnimalSpecial {
			t.Errorf("%s in Godori has category %s", c, c.Category())
		}
		months[c.Month()] = true
	}
	if !months[2] || !months[4] || !months[8] {
		t.Errorf("godori months should be 2, 4, 8; got %v", months)
	}
}

func TestParseRoundTrip(t *testing.T) {
	c, err := Parse("eoksae_moon")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c != EoksaeMoon {
		t.Errorf("expected EoksaeMoon, got %s", c)
	}
	if _, err := Parse("joker"); err == nil {
		t.Error("expected error for unknown name")
	}
}

func TestJSONUsesNames(t *testing.T) {
	data, err := json.Marshal([]Card{Iris, Bonus1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `["iris","bonus_1"]` {
		t.Errorf("unexpected JSON %s", data)
	}
	var back []Card
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(back) != 2 || back[0] != Iris || back[1] != Bonus1 {
		t.Errorf("unexpected decode %v", back)
	}
}
