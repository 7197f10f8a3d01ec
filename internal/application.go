package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/codec"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/config"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/service"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-timeline/transport/rest"
	"github.com/rocketscienceinc/tictactoe-timeline/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := OpenStorage(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = store.Close(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	manager := usecase.NewGameManager(logger, store, conf.Game.KeyPrefix, HistoryCodec(conf), service.NewBotService())
	defer func() {
		if err = manager.Close(); err != nil {
			log.Error("could not flush games", "error", err)
		}
	}()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, manager).Start(ctx, conf.HTTPPort); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}
		return nil
	})

	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := websocket.New(logger, manager).Start(ctx, conf.SocketPort); wsErr != nil {
			return fmt.Errorf("WebSocket server error: %w", wsErr)
		}
		return nil
	})

	if err = group.Wait(); err != nil {
		return err
	}

	log.Info("Application context canceled, shutting down")
	return nil
}

// OpenStorage connects the configured storage driver.
func OpenStorage(ctx context.Context, conf *config.Config) (storage.Store, error) {
	switch conf.Storage.Driver {
	case config.DriverRedis:
		store, err := storage.NewRedisStorage(ctx, conf.Storage.Redis.GetRedisAddr())
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}
		return store, nil
	case config.DriverSQLite:
		store, err := storage.NewSQLiteStorage(ctx, conf.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}
		return store, nil
	case config.DriverBolt:
		store, err := storage.NewBoltStorage(conf.Storage.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("could not open bolt storage: %w", err)
		}
		return store, nil
	case config.DriverMemory:
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}

// HistoryCodec returns the configured text format for stored games.
func HistoryCodec(conf *config.Config) codec.Codec[usecase.History] {
	if conf.Storage.Codec == config.CodecYAML {
		return codec.YAML[usecase.History]{}
	}

	return codec.JSON[usecase.History]{}
}
