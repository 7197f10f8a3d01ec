package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/usecase"
)

type gameUseCase interface {
	CreateGame(ctx context.Context) (*usecase.GameSession, error)
	GetOrCreateGame(ctx context.Context, id string) (*usecase.GameSession, error)
	BotTurn(ctx context.Context, id string) (bool, error)
	Rename(ctx context.Context, id, key string) error
}

// gameResponse carries the game after an intent. Accepted is false when the intent was ignored.
type gameResponse struct {
	Accepted bool            `json:"accepted"`
	Game     entity.Snapshot `json:"game"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type jumpRequest struct {
	Step *int `json:"step"`
}

type renameRequest struct {
	Key string `json:"key"`
}

type gameHandlers struct {
	logger *slog.Logger
	games  gameUseCase
}

func newGameHandlers(logger *slog.Logger, games gameUseCase) *gameHandlers {
	return &gameHandlers{
		logger: logger,
		games:  games,
	}
}

func (that *gameHandlers) createGame(w http.ResponseWriter, r *http.Request) {
	session, err := that.games.CreateGame(r.Context())
	if err != nil {
		that.writeError(w, "createGame", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, gameResponse{Accepted: true, Game: session.Snapshot()})
}

func (that *gameHandlers) getGame(w http.ResponseWriter, r *http.Request) {
	session, ok := that.session(w, r, "getGame")
	if !ok {
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Accepted: true, Game: session.Snapshot()})
}

func (that *gameHandlers) move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !that.decode(w, r, &req) {
		return
	}

	if req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cell is required"})
		return
	}

	session, ok := that.session(w, r, "move")
	if !ok {
		return
	}

	accepted := session.Move(*req.Cell)
	that.writeJSON(w, http.StatusOK, gameResponse{Accepted: accepted, Game: session.Snapshot()})
}

func (that *gameHandlers) restart(w http.ResponseWriter, r *http.Request) {
	session, ok := that.session(w, r, "restart")
	if !ok {
		return
	}

	session.Restart()
	that.writeJSON(w, http.StatusOK, gameResponse{Accepted: true, Game: session.Snapshot()})
}

func (that *gameHandlers) jump(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if !that.decode(w, r, &req) {
		return
	}

	if req.Step == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "step is required"})
		return
	}

	session, ok := that.session(w, r, "jump")
	if !ok {
		return
	}

	accepted := session.JumpTo(*req.Step)
	that.writeJSON(w, http.StatusOK, gameResponse{Accepted: accepted, Game: session.Snapshot()})
}

func (that *gameHandlers) rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if !that.decode(w, r, &req) {
		return
	}

	id := mux.Vars(r)["id"]
	if err := that.games.Rename(r.Context(), id, req.Key); err != nil {
		that.writeError(w, "rename", err)
		return
	}

	session, ok := that.session(w, r, "rename")
	if !ok {
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Accepted: true, Game: session.Snapshot()})
}

func (that *gameHandlers) bot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	moved, err := that.games.BotTurn(r.Context(), id)
	if err != nil {
		that.writeError(w, "bot", err)
		return
	}

	session, ok := that.session(w, r, "bot")
	if !ok {
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Accepted: moved, Game: session.Snapshot()})
}

func (that *gameHandlers) session(w http.ResponseWriter, r *http.Request, method string) (*usecase.GameSession, bool) {
	session, err := that.games.GetOrCreateGame(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.writeError(w, method, err)
		return nil, false
	}

	return session, true
}

func (that *gameHandlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}

	return true
}

func (that *gameHandlers) writeError(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, apperror.ErrEmptyKey):
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, apperror.ErrGameNotFound):
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (that *gameHandlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
