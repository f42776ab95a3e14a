package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/scrumcluedo/internal/account"
	"github.com/playperu/scrumcluedo/internal/auth"
	"github.com/playperu/scrumcluedo/internal/cluedo"
	"github.com/playperu/scrumcluedo/internal/config"
	"github.com/playperu/scrumcluedo/internal/database"
	"github.com/playperu/scrumcluedo/internal/game"
	"github.com/playperu/scrumcluedo/internal/handler/health"
	"github.com/playperu/scrumcluedo/internal/mail"
	"github.com/playperu/scrumcluedo/internal/migrations"
	"github.com/playperu/scrumcluedo/internal/seed"
	"github.com/playperu/scrumcluedo/internal/server"
	"github.com/playperu/scrumcluedo/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	st := store.New(db).WithLogger(logger)
	checks := map[string]health.Checker{"sqlite": health.CheckerFunc(st.Ping)}

	// --- Redis (optional) ---
	var revoker auth.Revoker = st
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		revoker = auth.NewRedisRevoker(rdb)
		checks["redis"] = health.CheckerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		logger.Info("connected to redis")
	}

	// --- Mail ---
	sender, err := mail.New(cfg.SMTP, logger)
	if err != nil {
		return fmt.Errorf("configuring mail: %w", err)
	}

	// --- Services ---
	hasher := auth.NewHasher(cfg.BcryptCost)
	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL, revoker)
	games := game.NewService(st, logger, game.Config{
		DefaultLang:     cluedo.Language(cfg.DefaultLang),
		LeaderboardSize: cfg.LeaderboardSize,
	})
	accounts := account.NewService(st, hasher, sessions, sender, logger, cfg.BaseURL)

	if cfg.Seed {
		if err := seed.Run(ctx, logger, games, st, hasher, seed.Admin{
			Name:     cfg.AdminName,
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
		}); err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Game:     games,
		Accounts: accounts,
		Sessions: sessions,
		SPADir:   cfg.SPADir,
	}, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, checks).Routes())
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
