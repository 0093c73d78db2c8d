package main

import (
	"context"
	"fmt"
	"os"

	"lingo-quiz/internal/config"
	"lingo-quiz/internal/logging"
	"lingo-quiz/internal/quiz"
	"lingo-quiz/internal/remote"
	"lingo-quiz/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "quiz:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.LoadClient(args)
	if err != nil {
		return err
	}
	// The terminal belongs to the UI, so logs only go to the file.
	log, err := logging.New(cfg.Log, nil)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := remote.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if cfg.Register {
		if err := client.Register(ctx, cfg.Email, cfg.Password); err != nil {
			return fmt.Errorf("register: %w", err)
		}
		log.Info("account registered", zap.String("email", cfg.Email))
	}
	if err := client.Login(ctx, cfg.Email, cfg.Password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if cfg.SeedDemo {
		if err := client.SeedDemo(ctx); err != nil {
			return fmt.Errorf("seed demo: %w", err)
		}
	}
	log.Info("logged in", zap.String("api_url", cfg.APIURL))

	ctrl := quiz.NewController(ctx, client, quiz.Options{
		PointsPerCorrect: cfg.PointsPerCorrect,
		Logger:           log,
	})
	_, noColor := os.LookupEnv("NO_COLOR")
	program := tea.NewProgram(tui.NewModel(ctrl, tui.Options{NoColor: noColor}), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
