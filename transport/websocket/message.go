package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
)

const (
	actionOpen    = "game:open"
	actionTurn    = "game:turn"
	actionRestart = "game:restart"
	actionJump    = "game:jump"
	actionKey     = "game:key"
	actionBot     = "game:bot"
	actionUpdate  = "game:update"
	actionError   = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is shared by requests and responses; each action reads only the fields it needs.
type Payload struct {
	GameID   string           `json:"game_id,omitempty"`
	Cell     *int             `json:"cell,omitempty"`
	Step     *int             `json:"step,omitempty"`
	Key      string           `json:"key,omitempty"`
	Accepted *bool            `json:"accepted,omitempty"`
	Game     *entity.Snapshot `json:"game,omitempty"`
	Error    string           `json:"error,omitempty"`
}
