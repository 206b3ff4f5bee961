package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	sendQueueSize = 32
	writeTimeout  = 5 * time.Second
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Game    *entity.Snapshot    `json:"game,omitempty"`
	Cell    *entity.Cell        `json:"cell,omitempty"`
	Mark    string              `json:"mark,omitempty"`
	Counter entity.ScoreCounter `json:"counter,omitempty"`
	Applied *bool               `json:"applied,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// connection owns the write side of one client socket. Engine events are
// queued so a slow client never blocks the engine; on overflow they are dropped.
type connection struct {
	logger *slog.Logger
	conn   *websocket.Conn
	queue  chan Message

	mu          sync.Mutex
	unsubscribe func()
}

func newConnection(logger *slog.Logger, conn *websocket.Conn) *connection {
	return &connection{
		logger: logger,
		conn:   conn,
		queue:  make(chan Message, sendQueueSize),
	}
}

func (that *connection) Notify(event entity.Event) {
	snapshot := event.Snapshot

	message, err := newMessage(string(event.Kind), Payload{Game: &snapshot, Counter: event.Counter})
	if err != nil {
		that.logger.Error("failed to build event message", "kind", event.Kind, "error", err)
		return
	}

	that.enqueue(message)
}

func (that *connection) enqueue(message Message) {
	select {
	case that.queue <- message:
	default:
		that.logger.Warn("send queue is full, dropping message", "action", message.Action)
	}
}

func (that *connection) send(action string, payload Payload) error {
	message, err := newMessage(action, payload)
	if err != nil {
		return err
	}

	that.enqueue(message)

	return nil
}

// writeLoop sends queued messages until ctx is done or a write fails.
func (that *connection) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case message := <-that.queue:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, that.conn, message)
			cancel()

			if err != nil {
				that.logger.Debug("failed to write message", "action", message.Action, "error", err)
				return
			}
		}
	}
}

func (that *connection) subscribe(subscribe func() func()) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.unsubscribe == nil {
		that.unsubscribe = subscribe()
	}
}

func (that *connection) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.unsubscribe != nil {
		that.unsubscribe()
		that.unsubscribe = nil
	}
}

func newMessage(action string, payload Payload) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return Message{Action: action, Payload: raw}, nil
}
