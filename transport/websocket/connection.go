package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
)

const writeWait = 10 * time.Second

// connection is one client. It follows at most one game at a time.
type connection struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu          sync.Mutex
	gameID      string
	unsubscribe func()
}

func newConnection(conn *websocket.Conn) *connection {
	return &connection{conn: conn}
}

func (that *connection) send(action string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// follow switches the connection to gameID. Updates from updates are pushed until the next switch or close.
func (that *connection) follow(gameID string, updates <-chan entity.Snapshot, unsubscribe func(), onErr func(error)) {
	that.mu.Lock()
	if that.unsubscribe != nil {
		that.unsubscribe()
	}
	that.gameID = gameID
	that.unsubscribe = unsubscribe
	that.mu.Unlock()

	go func() {
		for snap := range updates {
			if err := that.send(actionUpdate, Payload{GameID: snap.GameID, Game: &snap}); err != nil {
				onErr(err)
			}
		}
	}()
}

func (that *connection) following() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.gameID
}

func (that *connection) close() {
	that.mu.Lock()
	if that.unsubscribe != nil {
		that.unsubscribe()
		that.unsubscribe = nil
	}
	that.mu.Unlock()

	_ = that.conn.Close()
}
