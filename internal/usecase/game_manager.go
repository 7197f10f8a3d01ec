package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/codec"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/persist"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/tictactoe"
)

type botService interface {
	ChooseCell(grid entity.Grid) (int, error)
}

// GameManager keeps one session per game id. Each game is persisted under "<prefix>:<id>"
// until it is renamed; the slot of a renamed game is recorded under "<prefix>#key:<id>".
type GameManager struct {
	logger    *slog.Logger
	store     storage.KeyValue
	keyPrefix string
	codec     codec.Codec[History]
	bot       botService

	mu       sync.Mutex
	sessions map[string]*GameSession

	renameMu sync.Mutex
}

func NewGameManager(logger *slog.Logger, store storage.KeyValue, keyPrefix string, historyCodec codec.Codec[History], bot botService) *GameManager {
	if historyCodec == nil {
		historyCodec = codec.JSON[History]{}
	}

	return &GameManager{
		logger:    logger,
		store:     store,
		keyPrefix: keyPrefix,
		codec:     historyCodec,
		bot:       bot,

		sessions: make(map[string]*GameSession),
	}
}

// CreateGame starts a game under a fresh id.
func (that *GameManager) CreateGame(ctx context.Context) (*GameSession, error) {
	return that.GetOrCreateGame(ctx, uuid.NewString())
}

// GetOrCreateGame returns the open session for id, reloading it from storage if it isn't open yet.
func (that *GameManager) GetOrCreateGame(ctx context.Context, id string) (*GameSession, error) {
	log := that.logger.With("method", "GetOrCreateGame", "game_id", id)

	if id == "" {
		return nil, fmt.Errorf("%w: empty id", apperror.ErrGameNotFound)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if session, ok := that.sessions[id]; ok {
		return session, nil
	}

	session, err := NewGameSession(ctx, that.store, id, that.resolveKey(ctx, id),
		persist.WithCodec[History](that.codec),
		persist.WithLogger[History](that.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open game: %w", err)
	}

	log.Info("game opened", "outcome", session.LoadOutcome().String())
	that.sessions[id] = session

	return session, nil
}

// GetGame returns an already open session.
func (that *GameManager) GetGame(id string) (*GameSession, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	return session, nil
}

// BotTurn lets the bot play for whoever's turn it is. Returns false when no move was made.
func (that *GameManager) BotTurn(ctx context.Context, id string) (bool, error) {
	session, err := that.GetOrCreateGame(ctx, id)
	if err != nil {
		return false, err
	}

	moved, err := session.MoveWith(that.bot.ChooseCell)
	if err != nil {
		return false, fmt.Errorf("bot failed to choose a cell: %w", err)
	}

	if moved {
		that.logger.Debug("bot moved", "method", "BotTurn", "game_id", id, "board", tictactoe.Notation(session.Grid()))
	}

	return moved, nil
}

// Rename moves a game's history to another slot and records the slot, so the
// game reopens from it after CloseGame or a restart.
func (that *GameManager) Rename(ctx context.Context, id, key string) error {
	log := that.logger.With("method", "Rename", "game_id", id)

	session, err := that.GetOrCreateGame(ctx, id)
	if err != nil {
		return err
	}

	that.renameMu.Lock()
	defer that.renameMu.Unlock()

	if err = session.Rename(key); err != nil {
		return err
	}

	// the history should sit in its new slot before the binding points there
	if err = session.Flush(ctx); err != nil {
		log.Error("failed to flush renamed game", "key", key, "error", err)
	}

	if key == that.keyFor(id) {
		if err = that.store.Delete(ctx, that.bindingFor(id)); err != nil {
			return fmt.Errorf("failed to drop key binding: %w", err)
		}
		return nil
	}

	if err = that.store.Write(ctx, that.bindingFor(id), key); err != nil {
		return fmt.Errorf("failed to record key binding: %w", err)
	}

	return nil
}

// CloseGame drains the game's pending writes and forgets it.
func (that *GameManager) CloseGame(id string) error {
	that.mu.Lock()
	session, ok := that.sessions[id]
	delete(that.sessions, id)
	that.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	return session.Close()
}

// Close closes every open game.
func (that *GameManager) Close() error {
	that.mu.Lock()
	sessions := that.sessions
	that.sessions = make(map[string]*GameSession)
	that.mu.Unlock()

	var errs []error
	for id, session := range sessions {
		if err := session.Close(); err != nil {
			errs = append(errs, fmt.Errorf("game %s: %w", id, err))
		}
	}

	return errors.Join(errs...)
}

// resolveKey returns the slot recorded by Rename, or the default slot for id.
func (that *GameManager) resolveKey(ctx context.Context, id string) string {
	key, err := that.store.Read(ctx, that.bindingFor(id))
	switch {
	case err == nil && key != "":
		return key
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		that.logger.Error("failed to read key binding, using the default slot",
			"method", "resolveKey", "game_id", id, "error", err)
	}

	return that.keyFor(id)
}

func (that *GameManager) keyFor(id string) string {
	return that.keyPrefix + ":" + id
}

func (that *GameManager) bindingFor(id string) string {
	return that.keyPrefix + "#key:" + id
}
