package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"gostop-server/auth"
	"gostop-server/storage"
	"gostop-server/variant"
)

const bearerPrefix = "Bearer "

// Stats reports live server load for the health endpoint.
type Stats interface {
	ActiveGames() int
	Waiting() int
}

// Handler holds dependencies for API handlers.
type Handler struct {
	HistoryStore storage.HistoryStore // nil when no database is configured
	Verifier     *auth.Verifier
	Variants     *variant.Registry
	Stats        Stats
}

// NewHandler creates a new API handler with the given dependencies.
func NewHandler(store storage.HistoryStore, verifier *auth.Verifier, variants *variant.Registry, stats Stats) *Handler {
	return &Handler{
		HistoryStore: store,
		Verifier:     verifier,
		Variants:     variants,
		Stats:        stats,
	}
}

// extractUserID validates the Authorization header and returns the user ID, or empty string on failure.
func (h *Handler) extractUserID(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) || !h.Verifier.Configured() {
		return ""
	}
	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	claims, err := h.Verifier.Verify(token)
	if err != nil {
		slog.Debug("rejected token", "tag", "api", "error", err)
		return ""
	}
	return auth.UserIDFromClaims(claims)
}

// History returns the game history for the authenticated user.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := h.extractUserID(r)
	if userID == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	list := []storage.GameRecord{}
	if h.HistoryStore != nil {
		records, err := h.HistoryStore.ListByUserID(r.Context(), userID)
		if err != nil {
			slog.Error("listing history", "tag", "api", "error", err)
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}
		if records != nil {
			list = records
		}
	}
	writeJSON(w, list)
}

// LeaderboardResponse is the JSON structure for /api/leaderboard.
type LeaderboardResponse struct {
	Entries          []storage.LeaderboardEntry `json:"entries"`
	CurrentUserEntry *storage.LeaderboardEntry  `json:"current_user_entry"`
}

// Leaderboard returns the global leaderboard with optional current user entry.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	entries := []storage.LeaderboardEntry{}
	if h.HistoryStore != nil {
		list, err := h.HistoryStore.ListLeaderboard(r.Context(), limit, offset)
		if err != nil {
			slog.Error("listing leaderboard", "tag", "api", "error", err)
			http.Error(w, "failed to load leaderboard", http.StatusInternalServerError)
			return
		}
		if list != nil {
			entries = list
		}
	}

	var currentUserEntry *storage.LeaderboardEntry
	authUserID := h.extractUserID(r)
	if authUserID != "" && h.HistoryStore != nil {
		cur, err := h.HistoryStore.GetLeaderboardEntryByUserID(r.Context(), authUserID)
		if err != nil {
			slog.Warn("loading leaderboard entry", "tag", "api", "error", err)
		} else if cur != nil {
			inTop := false
			for i := range entries {
				if entries[i].UserID == authUserID {
					entries[i].IsCurrentUser = true
					inTop = true
					break
				}
			}
			if !inTop {
				cur.IsCurrentUser = true
				currentUserEntry = cur
			}
		}
	}

	writeJSON(w, LeaderboardResponse{Entries: entries, CurrentUserEntry: currentUserEntry})
}

// VariantInfo describes one playable rule set.
type VariantInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	MinPlayers      int    `json:"min_players"`
	MaxPlayers      int    `json:"max_players"`
	GoStopThreshold int    `json:"go_stop_threshold"`
}

// ListVariants lists the registered rule sets.
func (h *Handler) ListVariants(w http.ResponseWriter, r *http.Request) {
	out := []VariantInfo{}
	if h.Variants != nil {
		for _, v := range h.Variants.All() {
			out = append(out, VariantInfo{
				ID:              v.ID(),
				Name:            v.Name(),
				Description:     v.Description(),
				MinPlayers:      v.MinPlayers(),
				MaxPlayers:      v.MaxPlayers(),
				GoStopThreshold: v.Rules().GoStopThreshold,
			})
		}
	}
	writeJSON(w, out)
}

// Health reports liveness and current load.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"ok": true, "database": h.HistoryStore != nil}
	if h.Stats != nil {
		resp["active_games"] = h.Stats.ActiveGames()
		resp["waiting"] = h.Stats.Waiting()
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encoding response", "tag", "api", "error", err)
	}
}
