package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger *slog.Logger
	router *mux.Router
}

func New(logger *slog.Logger, games gameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "rest"),
		router: mux.NewRouter(),
	}

	server.router.Use(server.accessLog)

	ping := newPingHandler(server.logger)
	server.router.Methods(http.MethodGet).Path("/ping").HandlerFunc(ping.ping)

	handlers := newGameHandlers(server.logger, games)
	server.router.Methods(http.MethodPost).Path("/games").HandlerFunc(handlers.createGame)
	server.router.Methods(http.MethodGet).Path("/games/{id}").HandlerFunc(handlers.getGame)
	server.router.Methods(http.MethodPost).Path("/games/{id}/moves").HandlerFunc(handlers.move)
	server.router.Methods(http.MethodPost).Path("/games/{id}/restart").HandlerFunc(handlers.restart)
	server.router.Methods(http.MethodPost).Path("/games/{id}/jump").HandlerFunc(handlers.jump)
	server.router.Methods(http.MethodPost).Path("/games/{id}/key").HandlerFunc(handlers.rename)
	server.router.Methods(http.MethodPost).Path("/games/{id}/bot").HandlerFunc(handlers.bot)

	return server
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start - serves HTTP on port until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
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

func (that *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		that.logger.Info("handled",
			"method", r.Method,
			"url", r.URL.String(),
			"duration", m.Duration,
			"status", m.Code,
		)
	})
}
