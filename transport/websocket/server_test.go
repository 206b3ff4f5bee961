package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/service"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type idleScheduler struct{}

type idleTask struct{}

func (idleTask) Stop() bool { return true }

func (idleScheduler) AfterFunc(_ time.Duration, _ func()) tictactoe.Task { return idleTask{} }

func dialTestServer(t *testing.T) (context.Context, *websocket.Conn) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine, err := tictactoe.NewEngine(logger, tictactoe.Options{
		Size:      3,
		HumanPawn: entity.MarkX,
		Scheduler: idleScheduler{},
	}, service.NewSeededBotService(3))
	require.NoError(t, err)

	server := httptest.NewServer(New(logger, usecase.NewGameUseCase(logger, engine), nil))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "bye") })

	return ctx, conn
}

func send(ctx context.Context, t *testing.T, conn *websocket.Conn, action string, payload any) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, wsjson.Write(ctx, conn, Message{Action: action, Payload: raw}))
}

func receive(ctx context.Context, t *testing.T, conn *websocket.Conn) (string, Payload) {
	t.Helper()

	var message Message
	require.NoError(t, wsjson.Read(ctx, conn, &message))

	var payload Payload
	require.NoError(t, json.Unmarshal(message.Payload, &payload))

	return message.Action, payload
}

// receiveReply reads until the reply to a command arrives and returns the
// actions of the events seen before it.
func receiveReply(ctx context.Context, t *testing.T, conn *websocket.Conn, action string) (Payload, []string) {
	t.Helper()

	var seen []string
	for {
		got, payload := receive(ctx, t, conn)
		if got == action && (payload.Applied != nil || payload.Error != "") {
			return payload, seen
		}

		seen = append(seen, got)
	}
}

func TestServer_Connect(t *testing.T) {
	ctx, conn := dialTestServer(t)

	// When: the client connects
	send(ctx, t, conn, "connect", struct{}{})

	// Then: it receives the current state
	action, payload := receive(ctx, t, conn)
	assert.Equal(t, "connect", action)
	require.NotNil(t, payload.Game)
	assert.Equal(t, entity.StatusNotStarted, payload.Game.Status)
}

func TestServer_GameFlow(t *testing.T) {
	ctx, conn := dialTestServer(t)

	send(ctx, t, conn, "connect", struct{}{})
	receive(ctx, t, conn)

	// Given: a started round
	send(ctx, t, conn, "game:start", struct{}{})
	started, events := receiveReply(ctx, t, conn, "game:start")

	require.NotNil(t, started.Applied)
	assert.True(t, *started.Applied)
	assert.Equal(t, entity.StatusRunning, started.Game.Status)
	assert.Contains(t, events, string(entity.EventGameStarted))

	// When: the human plays a cell
	send(ctx, t, conn, "game:turn", Payload{Cell: &entity.Cell{Row: 0, Col: 2}})
	turn, events := receiveReply(ctx, t, conn, "game:turn")

	// Then: the board event is streamed and the reply reports the move
	require.NotNil(t, turn.Applied)
	assert.True(t, *turn.Applied)
	assert.Equal(t, entity.MarkX, turn.Game.Board.At(0, 2))
	assert.Contains(t, events, string(entity.EventBoardChanged))
}

func TestServer_RejectedCommands(t *testing.T) {
	t.Run("Turn before start", func(t *testing.T) {
		ctx, conn := dialTestServer(t)

		send(ctx, t, conn, "game:turn", Payload{Cell: &entity.Cell{Row: 0, Col: 0}})
		reply, _ := receiveReply(ctx, t, conn, "game:turn")

		require.NotNil(t, reply.Applied)
		assert.False(t, *reply.Applied)
		assert.Contains(t, reply.Error, "move rejected")
	})

	t.Run("Turn without a cell", func(t *testing.T) {
		ctx, conn := dialTestServer(t)

		send(ctx, t, conn, "game:turn", struct{}{})
		reply, _ := receiveReply(ctx, t, conn, "game:turn")

		assert.Equal(t, "Cell is required", reply.Error)
	})

	t.Run("Unknown pawn", func(t *testing.T) {
		ctx, conn := dialTestServer(t)

		send(ctx, t, conn, "game:pawn", Payload{Mark: "z"})
		reply, _ := receiveReply(ctx, t, conn, "game:pawn")

		require.NotNil(t, reply.Applied)
		assert.False(t, *reply.Applied)
	})

	t.Run("Unknown action", func(t *testing.T) {
		ctx, conn := dialTestServer(t)

		send(ctx, t, conn, "game:leave", struct{}{})
		action, reply := receive(ctx, t, conn)

		assert.Equal(t, "game:leave", action)
		assert.Equal(t, "unknown action", reply.Error)
	})
}

func TestServer_SelectPawn(t *testing.T) {
	ctx, conn := dialTestServer(t)

	send(ctx, t, conn, "game:pawn", Payload{Mark: "O"})
	reply, _ := receiveReply(ctx, t, conn, "game:pawn")

	require.NotNil(t, reply.Applied)
	assert.True(t, *reply.Applied)
	assert.Equal(t, entity.MarkO, reply.Game.Pawns.Human)
}
