package scoring

import (
	"testing"

	"gostop-server/card"
)

func hasKind(ms []Multiplier, k MultiplierKind) bool {
	for _, m := range ms {
		if m.Kind == k {
			return true
		}
	}
	return false
}

func TestBaks(t *testing.T) {
	r := StandardRules()
	winner := captured(card.SonghakCrane, card.SakuraCurtain, card.EoksaeMoon,
		card.SonghakPine, card.SonghakPine2, card.MaejouPlum, card.MaejouPlum2,
		card.SakuraCherry, card.SakuraCherry2, card.Iris, card.Iris2, card.Peony, card.Peony2)
	loser := captured(card.Maple, card.Maple2)

	baks := r.Baks(winner, loser, 0, 1)
	if !hasKind(baks, KindPiBak) {
		t.Errorf("expected pi-bak, got %v", baks)
	}
	if !hasKind(baks, KindGwangBak) {
		t.Errorf("expected gwang-bak, got %v", baks)
	}
	if hasKind(baks, KindMeongBak) || hasKind(baks, KindGoBak) {
		t.Errorf("unexpected baks %v", baks)
	}
}

func TestNoPiBakWithoutPi(t *testing.T) {
	r := StandardRules()
	winner := captured(card.SonghakPine, card.SonghakPine2, card.MaejouPlum, card.MaejouPlum2,
		card.SakuraCherry, card.SakuraCherry2, card.Iris, card.Iris2, card.Peony, card.Peony2)
	if baks := r.Baks(winner, captured(), 0, 1); hasKind(baks, KindPiBak) {
		t.Errorf("a loser without pi is exempt, got %v", baks)
	}
}

func TestGoBakAndDokBak(t *testing.T) {
	r := StandardRules()
	winner := captured(card.SonghakHongdan, card.MaejouHongdan, card.SakuraHongdan)
	if baks := r.Baks(winner, captured(), 1, 1); !hasKind(baks, KindGoBak) || hasKind(baks, KindDokBak) {
		t.Errorf("expected go-bak only, got %v", baks)
	}
	if baks := r.Baks(winner, captured(), 2, 2); !hasKind(baks, KindGoBak) || !hasKind(baks, KindDokBak) {
		t.Errorf("expected go-bak and dok-bak, got %v", baks)
	}
}

func TestSettle(t *testing.T) {
	r := StandardRules()
	winner := captured(card.SonghakCrane, card.SakuraCurtain, card.EoksaeMoon)
	score := NewScore()
	score.UpdateFinalScore(r, winner)

	payments := r.Settle("alice", winner, score, []Loser{
		{PlayerID: "bob", Captured: captured(card.PaulowniaPhoenix)},
		{PlayerID: "carol", Captured: captured()},
	})
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(payments))
	}
	if payments[0].From != "bob" || payments[0].To != "alice" || payments[0].Amount != 3 {
		t.Errorf("unexpected payment %+v", payments[0])
	}
	if payments[1].Amount != 6 || !hasKind(payments[1].Multipliers, KindGwangBak) {
		t.Errorf("carol should owe gwang-bak: %+v", payments[1])
	}
}
