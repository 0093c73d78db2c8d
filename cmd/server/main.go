package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lingo-quiz/internal/api"
	"lingo-quiz/internal/config"
	"lingo-quiz/internal/database"
	"lingo-quiz/internal/logging"
	"lingo-quiz/internal/seed"
	"lingo-quiz/internal/store"

	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.LoadServer(args)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st api.Store
	switch cfg.Storage {
	case config.StorageMemory:
		mem := store.NewMemory()
		if err := mem.SeedDemo(ctx); err != nil {
			return err
		}
		log.Info("using in-memory storage with demo data")
		st = mem
	default:
		db, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DBConnectRetries, log)
		if err != nil {
			return err
		}
		defer db.Close()
		log.Info("database connected")

		if err := database.EnsureSchema(ctx, db); err != nil {
			return err
		}
		if cfg.SeedOnly {
			_, err := seed.Load(ctx, db, seed.Demo, log)
			return err
		}
		st = store.NewPostgres(db, log)
	}

	handler := api.NewApiHandler(st, []byte(cfg.JWTSecret), cfg.TokenTTL, api.NewMetrics(), log)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server start error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
