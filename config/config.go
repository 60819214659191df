package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
)

// AIParams holds the parameters for one AI profile (name and behavior).
type AIParams struct {
	Name         string `json:"name"`
	DelayMinMS   int    `json:"delay_min_ms"`
	DelayMaxMS   int    `json:"delay_max_ms"`
	GoChance     int    `json:"go_chance"`     // 0-100, probability to declare go when a stop would also score
	GreedyChance int    `json:"greedy_chance"` // 0-100, probability to play the card that captures the most
}

// Config holds all configurable server parameters.
type Config struct {
	PlayersPerGame      int    `json:"players_per_game"`
	Variant             string `json:"variant"`
	GoStopThreshold     int    `json:"go_stop_threshold"` // 0 keeps the variant's threshold
	MaxNameLength       int    `json:"max_name_length"`
	WSPort              int    `json:"ws_port"`
	AIPairTimeoutSec    int    `json:"ai_pair_timeout_sec"` // negative disables bots
	ReconnectTimeoutSec int    `json:"reconnect_timeout_sec"`
	DealSeed            int64  `json:"deal_seed"` // 0 seeds from the clock
	LogLevel            string `json:"log_level"`

	DatabaseURL              string `json:"database_url"`
	NATSURL                  string `json:"nats_url"`
	NeonAuthBaseURL          string `json:"neon_auth_base_url"`
	LeaderboardCacheTTLSec   int    `json:"leaderboard_cache_ttl_sec"`
	LeaderboardCacheCapacity int    `json:"leaderboard_cache_capacity"`

	// AIProfiles lists available AI opponents; one is chosen at random per empty seat.
	AIProfiles []AIParams `json:"ai_profiles"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		PlayersPerGame:           2,
		Variant:                  "standard",
		MaxNameLength:            24,
		WSPort:                   8080,
		AIPairTimeoutSec:         15,
		ReconnectTimeoutSec:      120,
		LogLevel:                 "info",
		LeaderboardCacheTTLSec:   30,
		LeaderboardCacheCapacity: 64,
		AIProfiles: []AIParams{
			{Name: "Hwanggeum", DelayMinMS: 900, DelayMaxMS: 2200, GoChance: 40, GreedyChance: 90},
			{Name: "Dokkaebi", DelayMinMS: 500, DelayMaxMS: 1200, GoChance: 80, GreedyChance: 70},
			{Name: "Halmeoni", DelayMinMS: 1200, DelayMaxMS: 2600, GoChance: 15, GreedyChance: 95},
		},
	}
}

// Load reads configuration from an optional config.json file,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	cfg := Defaults()

	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			slog.Warn("failed to parse config.json", "tag", "config", "error", err)
		}
	}

	overrideInt(&cfg.PlayersPerGame, "PLAYERS_PER_GAME")
	overrideString(&cfg.Variant, "VARIANT")
	overrideInt(&cfg.GoStopThreshold, "GO_STOP_THRESHOLD")
	overrideInt(&cfg.MaxNameLength, "MAX_NAME_LENGTH")
	overrideInt(&cfg.WSPort, "WS_PORT")
	overrideInt(&cfg.AIPairTimeoutSec, "AI_PAIR_TIMEOUT_SEC")
	overrideInt(&cfg.ReconnectTimeoutSec, "RECONNECT_TIMEOUT_SEC")
	overrideInt64(&cfg.DealSeed, "DEAL_SEED")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.NATSURL, "NATS_URL")
	overrideString(&cfg.NeonAuthBaseURL, "NEON_AUTH_BASE_URL")
	overrideInt(&cfg.LeaderboardCacheTTLSec, "LEADERBOARD_CACHE_TTL_SEC")
	if len(cfg.AIProfiles) > 0 {
		overrideString(&cfg.AIProfiles[0].Name, "AI_NAME")
		overrideInt(&cfg.AIProfiles[0].DelayMinMS, "AI_DELAY_MIN_MS")
		overrideInt(&cfg.AIProfiles[0].DelayMaxMS, "AI_DELAY_MAX_MS")
		overrideInt(&cfg.AIProfiles[0].GoChance, "AI_GO_CHANCE")
		overrideInt(&cfg.AIProfiles[0].GreedyChance, "AI_GREEDY_CHANCE")
	}

	return cfg
}

// SlogLevel maps LogLevel to a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			slog.Warn("invalid value", "tag", "config", "key", envKey, "value", val)
		}
	}
}

func overrideInt64(field *int64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			*field = n
		} else {
			slog.Warn("invalid value", "tag", "config", "key", envKey, "value", val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
