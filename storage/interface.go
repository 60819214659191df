package storage

import (
	"context"
	"strings"
)

// HistoryStore abstracts persistence for game history and the leaderboard.
// Implementations can be swapped for testing (mocks) or wrapped (CachedStore).
type HistoryStore interface {
	// Read
	ListByUserID(ctx context.Context, userID string) ([]GameRecord, error)
	ListLeaderboard(ctx context.Context, limit, offset int) ([]LeaderboardEntry, error)
	GetLeaderboardEntryByUserID(ctx context.Context, userID string) (*LeaderboardEntry, error)

	// Write
	RecordGame(ctx context.Context, res GameResult) error

	// Lifecycle
	Close()
}

// Ensure *Store and *CachedStore implement HistoryStore at compile time.
var (
	_ HistoryStore = (*Store)(nil)
	_ HistoryStore = (*CachedStore)(nil)
)

// PlayerResult is one seat of a finished game.
type PlayerResult struct {
	UserID     string
	Name       string
	FinalScore int
	Amount     int
}

// GameResult is a finished game as handed to RecordGame. WinnerSeat is -1
// when nobody won.
type GameResult struct {
	GameID     string
	Variant    string
	Rounds     int
	EndReason  string
	WinnerSeat int
	Players    []PlayerResult
}

// Rated reports whether the game moves ratings: it was played to the end, has
// a winner and every seat belongs to a known user or bot.
func (r GameResult) Rated() bool {
	if r.EndReason != "completed" || r.WinnerSeat < 0 || len(r.Players) < 2 {
		return false
	}
	for _, p := range r.Players {
		if p.UserID == "" {
			return false
		}
	}
	return true
}

// HasUser reports whether any seat is a signed-in player rather than a guest
// or bot; games without one are not worth storing.
func (r GameResult) HasUser() bool {
	for _, p := range r.Players {
		if p.UserID != "" && !strings.HasPrefix(p.UserID, aiUserIDPrefix) {
			return true
		}
	}
	return false
}

// BotUserID is the user ID recorded for a bot seat.
func BotUserID(name string) string {
	return aiUserIDPrefix + name
}

// PlayerRecord is one seat in a GameRecord.
type PlayerRecord struct {
	Seat       int    `json:"seat"`
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	FinalScore int    `json:"final_score"`
	Amount     int    `json:"amount"`
	EloBefore  *int   `json:"elo_before,omitempty"`
	EloAfter   *int   `json:"elo_after,omitempty"`
}

// GameRecord is a single game returned for the history API.
type GameRecord struct {
	ID           string         `json:"id"`
	PlayedAt     string         `json:"played_at"` // ISO8601
	Variant      string         `json:"variant"`
	Rounds       int            `json:"rounds"`
	WinnerUserID string         `json:"winner_user_id,omitempty"`
	EndReason    string         `json:"end_reason"`
	YourSeat     int            `json:"your_seat"`
	Players      []PlayerRecord `json:"players"`
}

// LeaderboardEntry is a single row for the leaderboard API.
type LeaderboardEntry struct {
	UserID        string `json:"user_id"`
	DisplayName   string `json:"display_name"`
	Elo           int    `json:"elo"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Draws         int    `json:"draws"`
	IsBot         bool   `json:"is_bot"`
	IsCurrentUser bool   `json:"is_current_user,omitempty"`
}
