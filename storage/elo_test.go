package storage

import (
	"testing"
)

func TestComputeEloUpdates_WinLoss(t *testing.T) {
	// Same rating (1000 vs 1000), player 0 wins -> player 0 gains, player 1 loses
	newR0, newR1 := computeEloUpdates(1000, 1000, 0)
	if newR0 <= 1000 {
		t.Errorf("winner (0) should gain: got R0=%d", newR0)
	}
	if newR1 >= 1000 {
		t.Errorf("loser (1) should lose: got R1=%d", newR1)
	}
	newR0, newR1 = computeEloUpdates(1000, 1000, 1)
	if newR0 >= 1000 {
		t.Errorf("loser (0) should lose: got R0=%d", newR0)
	}
	if newR1 <= 1000 {
		t.Errorf("winner (1) should gain: got R1=%d", newR1)
	}
}

func TestComputeEloUpdates_Draw(t *testing.T) {
	newR0, newR1 := computeEloUpdates(1000, 1000, -1)
	if newR0 != 1000 || newR1 != 1000 {
		t.Errorf("draw at same rating should not move ratings, got %d and %d", newR0, newR1)
	}
}

func TestComputeTableEloUpdates(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		winner  int
		want    []int
	}{
		{"head to head matches the pair formula", []int{1000, 1000}, 1, []int{984, 1016}},
		{"three seats share K", []int{1000, 1000, 1000}, 0, []int{1016, 992, 992}},
		{"no winner", []int{1100, 900, 1000}, -1, []int{1100, 900, 1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeTableEloUpdates(tt.ratings, tt.winner)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestComputeTableEloUpdates_UnderdogGainsMore(t *testing.T) {
	fav := computeTableEloUpdates([]int{1400, 1000, 1000}, 0)
	dog := computeTableEloUpdates([]int{1400, 1000, 1000}, 1)
	if dog[1]-1000 <= fav[0]-1400 {
		t.Errorf("an underdog win should pay more: favourite +%d, underdog +%d", fav[0]-1400, dog[1]-1000)
	}
}

func TestGameResultRated(t *testing.T) {
	players := []PlayerResult{{UserID: "u1"}, {UserID: "ai:Dokkaebi"}}
	tests := []struct {
		name string
		res  GameResult
		want bool
	}{
		{"completed with winner", GameResult{EndReason: "completed", WinnerSeat: 0, Players: players}, true},
		{"abandoned", GameResult{EndReason: "abandoned", WinnerSeat: 0, Players: players}, false},
		{"no winner", GameResult{EndReason: "completed", WinnerSeat: -1, Players: players}, false},
		{"guest seat", GameResult{EndReason: "completed", WinnerSeat: 0, Players: []PlayerResult{{UserID: "u1"}, {}}}, false},
	}
	for _, tt := range tests {
		if got := tt.res.Rated(); got != tt.want {
			t.Errorf("%s: expected Rated=%v, got %v", tt.name, tt.want, got)
		}
	}
	if (GameResult{Players: []PlayerResult{{UserID: "ai:a"}, {}}}).HasUser() {
		t.Error("bots and guests alone should not count as a user")
	}
}
