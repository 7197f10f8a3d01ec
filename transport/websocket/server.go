package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	CreateGame(ctx context.Context) (*usecase.GameSession, error)
	GetOrCreateGame(ctx context.Context, id string) (*usecase.GameSession, error)
	BotTurn(ctx context.Context, id string) (bool, error)
	Rename(ctx context.Context, id, key string) error
}

type Server struct {
	logger   *slog.Logger
	games    gameUseCase
	upgrader websocket.Upgrader

	handlers map[string]func(ctx context.Context, msg *Message, conn *connection) error
}

func New(logger *slog.Logger, games gameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},

		handlers: make(map[string]func(context.Context, *Message, *connection) error),
	}

	server.handlers[actionOpen] = server.handleOpen
	server.handlers[actionTurn] = server.handleTurn
	server.handlers[actionRestart] = server.handleRestart
	server.handlers[actionJump] = server.handleJump
	server.handlers[actionKey] = server.handleKey
	server.handlers[actionBot] = server.handleBot

	return server
}

func (that *Server) Handler(ctx context.Context) http.Handler {
	router := mux.NewRouter()
	router.Path("/ws").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return router
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(ctx),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newConnection(conn)
	defer client.close()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, client); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, client *connection) error {
	log := that.logger.With("method", "handleMessages")

	for {
		var message Message
		if err := client.conn.ReadJSON(&message); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}

			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				log.Error("failed to unmarshal message", "error", err)
				continue
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			if err := client.send(actionError, Payload{Error: "unknown action " + message.Action}); err != nil {
				return err
			}
			continue
		}

		if err := handler(ctx, &message, client); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}
