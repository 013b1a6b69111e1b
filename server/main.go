package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/config"
	"github.com/meikuraledutech/flow/log"
	"github.com/meikuraledutech/flow/memory"
	"github.com/meikuraledutech/flow/postgres"
	"github.com/meikuraledutech/flow/redisstore"
	"github.com/meikuraledutech/flow/service"
)

type server struct {
	cfg     *config.Config
	store   flow.Store
	closers []func()
}

var (
	ErrConnectPostgres = errors.New("failed to connect to postgres")
	ErrCreateSchema    = errors.New("failed to create schema")
)

func main() {
	cfg := config.NewDefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}
	slog.SetDefault(log.New("flow", cfg.LogLevel, cfg.LogFormat, os.Stderr))

	s := &server{cfg: cfg}
	if err := s.run(); err != nil {
		slog.Error("Server stopped", log.Error(err))
		os.Exit(1)
	}
}

func (s *server) run() error {
	ctx := context.Background()
	defer s.close()

	if err := s.openStore(ctx); err != nil {
		return err
	}
	if err := s.store.CreateSchema(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrCreateSchema, err)
	}

	app := service.New(s.store, nil).App()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	go func() {
		<-quit
		slog.Info("Shutting down")
		_ = app.Shutdown()
	}()

	slog.Info("Execution service listening", slog.String("addr", s.cfg.Addr()))
	return app.Listen(s.cfg.Addr(), fiber.ListenConfig{
		DisableStartupMessage: true,
	})
}

// openStore picks postgres, then redis, then memory, depending on what is
// configured
func (s *server) openStore(ctx context.Context) error {
	switch {
	case s.cfg.DatabaseURL != "":
		pool, err := pgxpool.New(ctx, s.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConnectPostgres, err)
		}
		s.closers = append(s.closers, pool.Close)
		s.store = postgres.New(pool)
		slog.Info("Using postgres store")

	case s.cfg.RedisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: s.cfg.RedisAddr})
		s.closers = append(s.closers, func() { _ = client.Close() })
		s.store = redisstore.New(client, s.cfg.RedisPrefix)
		slog.Info("Using redis store", slog.String("addr", s.cfg.RedisAddr))

	default:
		s.store = memory.New()
		slog.Info("Using in-memory store")
	}
	return nil
}

func (s *server) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
