package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	app "github.com/rocketscienceinc/tictactoe-timeline/internal"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/config"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/persist"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/service"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/tui"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yml", "path to the config file")
	logPath := flag.String("log", "tui.log", "where to write logs, the terminal belongs to the board")
	flag.Parse()

	conf := config.MustLoad(*configPath)

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: config.LogLevel(conf.LogLevel)}))

	ctx := context.Background()

	store, err := app.OpenStorage(ctx, conf)
	if err != nil {
		return err
	}
	defer store.Close()

	session, err := usecase.NewGameSession(ctx, store, "local", conf.TUI.Key,
		persist.WithCodec[usecase.History](app.HistoryCodec(conf)),
		persist.WithLogger[usecase.History](logger),
	)
	if err != nil {
		return err
	}
	defer session.Close()

	logger.Info("game opened", "key", conf.TUI.Key, "outcome", session.LoadOutcome().String())

	keys := []string{conf.TUI.Key, conf.TUI.Key + ":alt"}
	model := tui.New(session, service.NewBotService(), keys)

	if _, err = tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("failed to run tui: %w", err)
	}

	return nil
}
