package game

import (
	"encoding/json"
	"testing"

	"gostop-server/card"
)

func TestBuildStateForPlayer_HidesOpponentHands(t *testing.T) {
	g := dealTestGame(t, Options{}, []card.Card{card.Iris},
		[][]card.Card{{card.Maple, card.Peony}, {card.SariBoar}})

	msg := BuildStateForPlayer(g, "alice")
	if msg.Type != "game_state" || !msg.YourTurn {
		t.Errorf("unexpected header %+v", msg)
	}
	if len(msg.Hand) != 2 || msg.You == nil || msg.You.HandCount != 2 {
		t.Errorf("expected alice's own hand, got %v", msg.Hand)
	}
	if len(msg.Opponents) != 1 || msg.Opponents[0].HandCount != 1 {
		t.Fatalf("unexpected opponents %+v", msg.Opponents)
	}

	data, err := json.Marshal(BuildStateForPlayer(g, "bob"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["yourTurn"] != false {
		t.Error("bob should not have the turn")
	}
	hand, _ := decoded["hand"].([]any)
	if len(hand) != 1 || hand[0] != "sari_boar" {
		t.Errorf("expected bob's hand by name, got %v", decoded["hand"])
	}
	if decoded["phase"] != "playing" || decoded["turnPhase"] != "playing_card" {
		t.Errorf("unexpected phases %v %v", decoded["phase"], decoded["turnPhase"])
	}
}

func TestBuildStateForPlayer_Spectator(t *testing.T) {
	g := dealTestGame(t, Options{}, []card.Card{card.Iris},
		[][]card.Card{{card.Maple}, {card.SariBoar}})
	msg := BuildStateForPlayer(g, "nobody")
	if msg.You != nil || len(msg.Hand) != 0 || len(msg.Opponents) != 2 {
		t.Errorf("spectators see no hand, got %+v", msg)
	}
}

func TestEncodeChange(t *testing.T) {
	data, err := EncodeChange(CardsMoved{From: AtHand("alice"), To: AtField, Cards: []card.Card{card.Maple}})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"cards_moved","data":{"from":"hand:alice","to":"field","cards":["maple"]}}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestGameStateMsgDecodes(t *testing.T) {
	g := dealTestGame(t, Options{}, []card.Card{card.Iris},
		[][]card.Card{{card.Maple, card.Peony}, {card.SariBoar}})
	data, err := json.Marshal(BuildStateForPlayer(g, "alice"))
	if err != nil {
		t.Fatal(err)
	}
	var msg GameStateMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if msg.Phase != PhasePlaying || msg.TurnPhase != PlayingCard {
		t.Errorf("unexpected phases %s %s", msg.Phase, msg.TurnPhase)
	}
	if len(msg.Hand) != 2 || msg.Hand[0] != card.Maple {
		t.Errorf("unexpected hand %v", msg.Hand)
	}

	var ph GamePhase
	if err := ph.UnmarshalText([]byte("halftime")); err == nil {
		t.Error("expected an unknown phase to be rejected")
	}
}
