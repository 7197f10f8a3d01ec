package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/usecase"
)

// handleOpen follows a game, creating one when no id is given. The current snapshot is sent back.
func (that *Server) handleOpen(ctx context.Context, msg *Message, client *connection) error {
	log := that.logger.With("method", "handleOpen")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(client, msg.Action, "invalid payload")
	}

	var session *usecase.GameSession
	if payloadReq.GameID == "" {
		session, err = that.games.CreateGame(ctx)
	} else {
		session, err = that.games.GetOrCreateGame(ctx, payloadReq.GameID)
	}

	if err != nil {
		log.Error("failed to open game", "error", err)
		return that.sendErrorResponse(client, msg.Action, "failed to open the game")
	}

	updates, unsubscribe := session.Subscribe()
	client.follow(session.ID(), updates, unsubscribe, func(err error) {
		log.Error("failed to push game update", "gameID", session.ID(), "error", err)
	})

	log.Info("client follows game", "gameID", session.ID())

	return that.reply(client, msg.Action, true, session)
}

func (that *Server) handleTurn(ctx context.Context, msg *Message, client *connection) error {
	payloadReq, session, err := that.sessionFor(ctx, msg, client)
	if err != nil || session == nil {
		return err
	}

	if payloadReq.Cell == nil {
		return that.sendErrorResponse(client, msg.Action, "cell is required")
	}

	return that.reply(client, msg.Action, session.Move(*payloadReq.Cell), session)
}

func (that *Server) handleRestart(ctx context.Context, msg *Message, client *connection) error {
	_, session, err := that.sessionFor(ctx, msg, client)
	if err != nil || session == nil {
		return err
	}

	session.Restart()

	return that.reply(client, msg.Action, true, session)
}

func (that *Server) handleJump(ctx context.Context, msg *Message, client *connection) error {
	payloadReq, session, err := that.sessionFor(ctx, msg, client)
	if err != nil || session == nil {
		return err
	}

	if payloadReq.Step == nil {
		return that.sendErrorResponse(client, msg.Action, "step is required")
	}

	return that.reply(client, msg.Action, session.JumpTo(*payloadReq.Step), session)
}

func (that *Server) handleKey(ctx context.Context, msg *Message, client *connection) error {
	payloadReq, session, err := that.sessionFor(ctx, msg, client)
	if err != nil || session == nil {
		return err
	}

	err = that.games.Rename(ctx, session.ID(), payloadReq.Key)
	if errors.Is(err, apperror.ErrEmptyKey) {
		return that.sendErrorResponse(client, msg.Action, "key is required")
	}

	if err != nil {
		return fmt.Errorf("failed to rename game %s: %w", session.ID(), err)
	}

	return that.reply(client, msg.Action, true, session)
}

func (that *Server) handleBot(ctx context.Context, msg *Message, client *connection) error {
	_, session, err := that.sessionFor(ctx, msg, client)
	if err != nil || session == nil {
		return err
	}

	moved, err := that.games.BotTurn(ctx, session.ID())
	if err != nil {
		if sendErr := that.sendErrorResponse(client, msg.Action, "bot failed to move"); sendErr != nil {
			return sendErr
		}
		return fmt.Errorf("bot turn in game %s: %w", session.ID(), err)
	}

	return that.reply(client, msg.Action, moved, session)
}

// sessionFor resolves the game a message targets: its game_id, or else the followed game.
// A nil session with a nil error means an error response was already sent.
func (that *Server) sessionFor(ctx context.Context, msg *Message, client *connection) (Payload, *usecase.GameSession, error) {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return Payload{}, nil, that.sendErrorResponse(client, msg.Action, "invalid payload")
	}

	gameID := payloadReq.GameID
	if gameID == "" {
		gameID = client.following()
	}

	if gameID == "" {
		return payloadReq, nil, that.sendErrorResponse(client, msg.Action, "game_id is required")
	}

	session, err := that.games.GetOrCreateGame(ctx, gameID)
	if err != nil {
		if sendErr := that.sendErrorResponse(client, msg.Action, "failed to open the game"); sendErr != nil {
			return payloadReq, nil, sendErr
		}
		return payloadReq, nil, fmt.Errorf("failed to open game %s: %w", gameID, err)
	}

	return payloadReq, session, nil
}

func decodePayload(msg *Message) (Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return payload, nil
}

func (that *Server) reply(client *connection, action string, accepted bool, session *usecase.GameSession) error {
	snap := session.Snapshot()

	return client.send(action, Payload{GameID: snap.GameID, Accepted: &accepted, Game: &snap})
}

func (that *Server) sendErrorResponse(client *connection, action, errorMsg string) error {
	if err := client.send(action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
