package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	EloK           = 32
	InitialElo     = 1000
	aiUserIDPrefix = "ai:"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS game_history (
	id             UUID PRIMARY KEY,
	played_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	variant        TEXT NOT NULL,
	rounds         INT  NOT NULL,
	winner_user_id TEXT,
	end_reason     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS game_player (
	game_id      UUID     NOT NULL REFERENCES game_history(id),
	seat         SMALLINT NOT NULL,
	user_id      TEXT     NOT NULL,
	display_name TEXT     NOT NULL,
	final_score  INT      NOT NULL,
	amount       INT      NOT NULL,
	elo_before   INT,
	elo_after    INT,
	PRIMARY KEY (game_id, seat)
);
CREATE INDEX IF NOT EXISTS idx_game_player_user ON game_player(user_id);
CREATE TABLE IF NOT EXISTS player_ratings (
	user_id      TEXT PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	elo          INT  NOT NULL DEFAULT 1000,
	wins         INT  NOT NULL DEFAULT 0,
	losses       INT  NOT NULL DEFAULT 0,
	draws        INT  NOT NULL DEFAULT 0,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_player_ratings_elo ON player_ratings(elo DESC);
`

// Store persists game results and ratings in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the tables exist.
// If databaseURL is empty, NewStore returns (nil, nil) and no persistence occurs.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	slog.Info("connected to Postgres", "tag", "storage")
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// computeEloUpdates returns new ratings (newR0, newR1) given current ratings and winnerIdx (0, 1, or -1 for draw).
func computeEloUpdates(r0, r1 int, winnerIdx int) (newR0, newR1 int) {
	return computeEloUpdatesK(r0, r1, winnerIdx, EloK)
}

func computeEloUpdatesK(r0, r1 int, winnerIdx int, k float64) (newR0, newR1 int) {
	var score0, score1 float64
	switch winnerIdx {
	case 0:
		score0, score1 = 1, 0
	case 1:
		score0, score1 = 0, 1
	default:
		score0, score1 = 0.5, 0.5
	}
	e0 := 1 / (1 + math.Pow(10, float64(r1-r0)/400))
	e1 := 1 - e0
	newR0 = r0 + int(math.Round(k*(score0-e0)))
	newR1 = r1 + int(math.Round(k*(score1-e1)))
	if newR0 < 0 {
		newR0 = 0
	}
	if newR1 < 0 {
		newR1 = 0
	}
	return newR0, newR1
}

// computeTableEloUpdates rates a table as the winner beating every other seat.
// K is shared out over the pairs so a seat moves at most as far as in a
// head-to-head game. winner -1 leaves ratings unchanged.
func computeTableEloUpdates(ratings []int, winner int) []int {
	out := append([]int(nil), ratings...)
	if winner < 0 || winner >= len(ratings) || len(ratings) < 2 {
		return out
	}
	k := float64(EloK) / float64(len(ratings)-1)
	for i, r := range ratings {
		if i == winner {
			continue
		}
		newW, newL := computeEloUpdatesK(ratings[winner], r, 0, k)
		out[winner] += newW - ratings[winner]
		out[i] += newL - r
	}
	for i := range out {
		if out[i] < 0 {
			out[i] = 0
		}
	}
	return out
}

// RecordGame stores a finished game and, when it was completed with a winner,
// updates every rated seat's Elo and win/loss counts in the same transaction.
func (s *Store) RecordGame(ctx context.Context, res GameResult) error {
	if s == nil || s.pool == nil {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	before := make([]*int, len(res.Players))
	after := make([]*int, len(res.Players))
	if res.Rated() {
		ratings := make([]int, len(res.Players))
		for i, p := range res.Players {
			_, err := tx.Exec(ctx, `INSERT INTO player_ratings (user_id, display_name) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`,
				p.UserID, p.Name)
			if err != nil {
				return fmt.Errorf("ensuring rating for %s: %w", p.UserID, err)
			}
			if err := tx.QueryRow(ctx, `SELECT elo FROM player_ratings WHERE user_id = $1 FOR UPDATE`, p.UserID).Scan(&ratings[i]); err != nil {
				return fmt.Errorf("reading rating for %s: %w", p.UserID, err)
			}
		}
		updated := computeTableEloUpdates(ratings, res.WinnerSeat)
		for i, p := range res.Players {
			b, a := ratings[i], updated[i]
			before[i], after[i] = &b, &a
			wins, losses := 0, 1
			if i == res.WinnerSeat {
				wins, losses = 1, 0
			}
			_, err := tx.Exec(ctx, `UPDATE player_ratings SET display_name = $1, elo = $2, wins = wins + $3, losses = losses + $4, updated_at = now() WHERE user_id = $5`,
				p.Name, a, wins, losses, p.UserID)
			if err != nil {
				return fmt.Errorf("updating rating for %s: %w", p.UserID, err)
			}
		}
	}

	var winner *string
	if res.WinnerSeat >= 0 && res.WinnerSeat < len(res.Players) {
		winner = &res.Players[res.WinnerSeat].UserID
	}
	_, err = tx.Exec(ctx, `INSERT INTO game_history (id, variant, rounds, winner_user_id, end_reason) VALUES ($1, $2, $3, $4, $5)`,
		res.GameID, res.Variant, res.Rounds, winner, res.EndReason)
	if err != nil {
		return fmt.Errorf("inserting game %s: %w", res.GameID, err)
	}
	for i, p := range res.Players {
		_, err := tx.Exec(ctx, `
			INSERT INTO game_player (game_id, seat, user_id, display_name, final_score, amount, elo_before, elo_after)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			res.GameID, i, p.UserID, p.Name, p.FinalScore, p.Amount, before[i], after[i])
		if err != nil {
			return fmt.Errorf("inserting seat %d of %s: %w", i, res.GameID, err)
		}
	}
	return tx.Commit(ctx)
}

// ListByUserID returns all games where the user sat, newest first, with
// every seat of each game.
func (s *Store) ListByUserID(ctx context.Context, userID string) ([]GameRecord, error) {
	if s == nil || s.pool == nil {
		return []GameRecord{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT h.id, h.played_at, h.variant, h.rounds, COALESCE(h.winner_user_id, ''), h.end_reason,
			p.seat, p.user_id, p.display_name, p.final_score, p.amount, p.elo_before, p.elo_after
		FROM game_history h
		JOIN game_player p ON p.game_id = h.id
		WHERE h.id IN (SELECT game_id FROM game_player WHERE user_id = $1)
		ORDER BY h.played_at DESC, h.id, p.seat`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRecord{}
	for rows.Next() {
		var r GameRecord
		var p PlayerRecord
		var playedAt time.Time
		if err := rows.Scan(&r.ID, &playedAt, &r.Variant, &r.Rounds, &r.WinnerUserID, &r.EndReason,
			&p.Seat, &p.UserID, &p.Name, &p.FinalScore, &p.Amount, &p.EloBefore, &p.EloAfter); err != nil {
			return nil, err
		}
		if n := len(out); n == 0 || out[n-1].ID != r.ID {
			r.PlayedAt = playedAt.UTC().Format(time.RFC3339)
			r.YourSeat = -1
			out = append(out, r)
		}
		cur := &out[len(out)-1]
		if p.UserID == userID {
			cur.YourSeat = p.Seat
		}
		cur.Players = append(cur.Players, p)
	}
	return out, rows.Err()
}

// ListLeaderboard returns entries ordered by elo DESC, with optional limit and offset.
func (s *Store) ListLeaderboard(ctx context.Context, limit, offset int) ([]LeaderboardEntry, error) {
	if s == nil || s.pool == nil {
		return []LeaderboardEntry{}, nil
	}
	limit, offset = clampPage(limit, offset)
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, display_name, elo, wins, losses, draws
		FROM player_ratings
		ORDER BY elo DESC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.DisplayName, &e.Elo, &e.Wins, &e.Losses, &e.Draws); err != nil {
			return nil, err
		}
		e.IsBot = strings.HasPrefix(e.UserID, aiUserIDPrefix)
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetLeaderboardEntryByUserID returns one player's leaderboard entry by user_id, or (nil, nil) if not found.
func (s *Store) GetLeaderboardEntryByUserID(ctx context.Context, userID string) (*LeaderboardEntry, error) {
	if s == nil || s.pool == nil || userID == "" {
		return nil, nil
	}
	var e LeaderboardEntry
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, display_name, elo, wins, losses, draws
		FROM player_ratings
		WHERE user_id = $1`,
		userID).Scan(&e.UserID, &e.DisplayName, &e.Elo, &e.Wins, &e.Losses, &e.Draws)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	e.IsBot = strings.HasPrefix(e.UserID, aiUserIDPrefix)
	return &e, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
