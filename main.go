package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gostop-server/api"
	"gostop-server/auth"
	"gostop-server/config"
	"gostop-server/deal"
	"gostop-server/events"
	"gostop-server/loghandler"
	"gostop-server/matchmaking"
	"gostop-server/storage"
	"gostop-server/variant"
	"gostop-server/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err2 := godotenv.Load("server/.env"); err2 != nil {
			log.Print("No .env file found; using environment variables.")
		}
	}

	cfg := config.Load()
	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stdout, cfg.SlogLevel())))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, err := auth.NewVerifier(cfg.NeonAuthBaseURL)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}
	if !verifier.Configured() {
		slog.Warn("NEON_AUTH_BASE_URL is not set; clients play as guests", "tag", "auth")
	}

	var store storage.HistoryStore
	if cfg.DatabaseURL != "" {
		db, err := storage.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		cached, err := storage.NewCachedStore(db, time.Duration(cfg.LeaderboardCacheTTLSec)*time.Second, int64(cfg.LeaderboardCacheCapacity))
		if err != nil {
			log.Fatalf("storage cache: %v", err)
		}
		store = cached
		defer store.Close()
	} else {
		slog.Warn("DATABASE_URL is not set; history and ratings are disabled", "tag", "storage")
	}

	var pub events.Publisher = events.Noop{}
	if cfg.NATSURL != "" {
		nc, err := events.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("events: %v", err)
		}
		pub = nc
	}
	defer pub.Close()

	variants := variant.Default(cfg.GoStopThreshold)
	mm, err := matchmaking.NewMatchmaker(cfg, variants, deal.New(cfg.DealSeed), store, pub)
	if err != nil {
		log.Fatalf("matchmaking: %v", err)
	}
	go mm.Run(ctx)

	hub := ws.NewHub(cfg, mm, verifier)
	go hub.Run(ctx)

	handler := api.NewHandler(store, verifier, variants, mm)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.WSPort),
		Handler: api.NewRouter(handler, hub.ServeWS),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown", "tag", "main", "error", err)
		}
	}()

	slog.Info("go-stop server listening", "tag", "main", "addr", srv.Addr, "variant", cfg.Variant,
		"players", cfg.PlayersPerGame, "database", store != nil, "nats", cfg.NATSURL != "")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
