package game

import (
	"testing"

	"gostop-server/card"
)

func TestStandardResolver(t *testing.T) {
	tests := []struct {
		name         string
		field        []card.Card
		played       card.Card
		src          Source
		turn         TurnContext
		wantPlaced   bool
		wantCaptured int
		wantCond     []ConditionType
		wantFieldLen int
	}{
		{
			name: "no match places the card", field: []card.Card{card.Iris},
			played: card.Maple, src: FromHand,
			wantPlaced: true, wantFieldLen: 2,
		},
		{
			name: "single match captures the pair", field: []card.Card{card.Maple, card.Iris},
			played: card.MapleDeer, src: FromHand,
			wantCaptured: 2, wantFieldLen: 1,
		},
		{
			name: "two matches is a ddadak", field: []card.Card{card.SonghakPine, card.SonghakPine2},
			played: card.SonghakCrane, src: FromHand, turn: TurnContext{Captures: 1},
			wantCaptured: 3, wantCond: []ConditionType{CondDdadak},
		},
		{
			name: "three matches with no other capture sweeps", field: []card.Card{card.Maple, card.Maple2, card.MapleDeer},
			played: card.MapleCheongdan, src: FromHand,
			wantCaptured: 4, wantCond: []ConditionType{CondSseul},
		},
		{
			name: "three matches after a capture", field: []card.Card{card.Maple, card.Maple2, card.MapleDeer},
			played: card.MapleCheongdan, src: FromDeck, turn: TurnContext{Captures: 1},
			wantCaptured: 4,
		},
		{
			name: "drawn card matching the bare hand card is a jjok", field: []card.Card{card.Maple},
			played: card.MapleDeer, src: FromDeck,
			turn:         TurnContext{BareHand: card.Maple, HasBareHand: true},
			wantCaptured: 2, wantCond: []ConditionType{CondJjok},
		},
		{
			name: "hand-played pair is not a jjok", field: []card.Card{card.Maple},
			played: card.MapleDeer, src: FromHand,
			turn:         TurnContext{BareHand: card.Maple, HasBareHand: true},
			wantCaptured: 2,
		},
		{
			name: "drawn card of the captured month is a ppuk", field: []card.Card{card.Iris},
			played: card.MapleCheongdan, src: FromDeck,
			turn:       TurnContext{PlayerID: "alice", HandCapture: []card.Card{card.MapleDeer, card.Maple}, Captures: 1},
			wantPlaced: true, wantCond: []ConditionType{CondPpuk}, wantFieldLen: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewField(tt.field...)
			turn := tt.turn
			out := StandardResolver{}.Resolve(f, tt.played, tt.src, &turn)

			if out.Placed != tt.wantPlaced {
				t.Errorf("placed = %v, want %v", out.Placed, tt.wantPlaced)
			}
			if len(out.Captured) != tt.wantCaptured {
				t.Errorf("captured %v, want %d cards", out.Captured, tt.wantCaptured)
			}
			if len(out.Conditions) != len(tt.wantCond) {
				t.Fatalf("conditions %v, want %v", out.Conditions, tt.wantCond)
			}
			for _, c := range tt.wantCond {
				if !out.has(c) {
					t.Errorf("missing condition %s", c)
				}
			}
			if f.Len() != tt.wantFieldLen {
				t.Errorf("field has %d cards, want %d", f.Len(), tt.wantFieldLen)
			}
		})
	}
}

func TestStandardResolver_JaPpuk(t *testing.T) {
	f := NewField(card.Maple, card.Maple2, card.MapleDeer)
	f.MarkStuck(10, "alice")
	turn := TurnContext{PlayerID: "alice", Captures: 1}

	out := StandardResolver{}.Resolve(f, card.MapleCheongdan, FromHand, &turn)
	if !out.has(CondJaPpuk) {
		t.Errorf("expected ja-ppuk, got %v", out.Conditions)
	}

	f = NewField(card.Maple, card.Maple2, card.MapleDeer)
	f.MarkStuck(10, "bob")
	out = StandardResolver{}.Resolve(f, card.MapleCheongdan, FromHand, &turn)
	if out.has(CondJaPpuk) {
		t.Error("taking someone else's stuck group is not a ja-ppuk")
	}
}
