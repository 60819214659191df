package game

import (
	"errors"
	"testing"

	"gostop-server/card"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		wantErr error
	}{
		{"start with one player", StartGame{PlayerCount: 1}, ErrInvalidPlayerCount},
		{"start with seven players", StartGame{PlayerCount: 7}, ErrInvalidPlayerCount},
		{"start with two players", StartGame{PlayerCount: 2}, nil},
		{"start with six players", StartGame{PlayerCount: 6}, nil},
		{"shake two cards", DeclareShaking{PlayerID: "a", Cards: []card.Card{card.Maple, card.Maple2}}, ErrInvalidShakeSize},
		{"shake five cards", DeclareShaking{PlayerID: "a", Cards: []card.Card{card.Maple, card.Maple2, card.MapleDeer, card.MapleCheongdan, card.Iris}}, ErrInvalidShakeSize},
		{"shake three cards", DeclareShaking{PlayerID: "a", Cards: []card.Card{card.Maple, card.Maple2, card.MapleDeer}}, nil},
		{"play without player", PlayCard{Card: card.Maple}, ErrMissingPlayer},
		{"play unknown card", PlayCard{PlayerID: "a", Card: card.Card(99)}, ErrUnknownCard},
		{"draw without player", DrawFromDeck{}, ErrMissingPlayer},
		{"go", DeclareGo{PlayerID: "a"}, nil},
		{"nagari", HandleNagari{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.action)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			var ie *InputError
			if !errors.As(err, &ie) || ie.Action != tt.action.Kind() {
				t.Errorf("expected an InputError for %s, got %T", tt.action.Kind(), err)
			}
		})
	}
}

func TestValidate_DuplicateCards(t *testing.T) {
	err := Validate(TakeMatchedCards{PlayerID: "a", Cards: []card.Card{card.Maple, card.Maple}})
	if err == nil {
		t.Error("expected a duplicated card to be rejected")
	}
}

func TestPriorityOrder(t *testing.T) {
	actions := []Action{
		TransferPi{FromPlayerID: "b", ToPlayerID: "a", Count: 1},
		DeclareShaking{PlayerID: "a"},
		HandleSseul{PlayerID: "a"},
		HandleDdadak{PlayerID: "a"},
		HandlePpuk{PlayerID: "a"},
	}
	sortByPriority(actions)
	want := []ActionKind{ActionHandlePpuk, ActionHandleDdadak, ActionHandleSseul, ActionDeclareShaking, ActionTransferPi}
	for i, k := range want {
		if actions[i].Kind() != k {
			t.Errorf("position %d: expected %s, got %s", i, k, actions[i].Kind())
		}
	}
}

func TestEveryActionKindHasName(t *testing.T) {
	for k := ActionKind(0); k < numActionKinds; k++ {
		if k.String() == "unknown" {
			t.Errorf("action kind %d has no name", int(k))
		}
	}
}

func TestPhaseStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{PhaseWaiting.String(), "waiting"},
		{PhaseEnded.String(), "ended"},
		{PlayingCard.String(), "playing_card"},
		{DecidingGoStop.String(), "deciding_go_stop"},
		{TurnPhase(99).String(), "unknown"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, tt.got)
		}
	}
}
