package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
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
)

type idleScheduler struct{}

type idleTask struct{}

func (idleTask) Stop() bool { return true }

func (idleScheduler) AfterFunc(_ time.Duration, _ func()) tictactoe.Task { return idleTask{} }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine, err := tictactoe.NewEngine(logger, tictactoe.Options{
		Size:      3,
		HumanPawn: entity.MarkX,
		Scheduler: idleScheduler{},
	}, service.NewSeededBotService(7))
	require.NoError(t, err)

	server := httptest.NewServer(New(logger, usecase.NewGameUseCase(logger, engine)).Handler())
	t.Cleanup(server.Close)

	return server
}

func doRequest(t *testing.T, method, url, body string) (int, GameResponse) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var decoded GameResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))

	return resp.StatusCode, decoded
}

func TestPingHandler(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestGameHandlers_GetGame(t *testing.T) {
	server := newTestServer(t)

	// When: reading the game before any round
	status, resp := doRequest(t, http.MethodGet, server.URL+"/api/game", "")

	// Then: an empty board that is not started is returned
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, entity.StatusNotStarted, resp.Game.Status)
	assert.Equal(t, 3, resp.Game.Board.Size())
}

func TestGameHandlers_StartGame(t *testing.T) {
	server := newTestServer(t)

	status, resp := doRequest(t, http.MethodPost, server.URL+"/api/game/start", "")

	assert.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Applied)
	assert.Equal(t, entity.StatusRunning, resp.Game.Status)
	assert.NotEmpty(t, resp.Game.RoundID)
}

func TestGameHandlers_MakeTurn(t *testing.T) {
	t.Run("Applied move", func(t *testing.T) {
		server := newTestServer(t)
		doRequest(t, http.MethodPost, server.URL+"/api/game/start", "")

		// When: the human plays the centre
		status, resp := doRequest(t, http.MethodPost, server.URL+"/api/game/turn", `{"row":1,"col":1}`)

		// Then: the move is applied
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, resp.Applied)
		assert.Empty(t, resp.Error)
		assert.Equal(t, entity.MarkX, resp.Game.Board.At(1, 1))
	})

	t.Run("Ignored move", func(t *testing.T) {
		server := newTestServer(t)
		doRequest(t, http.MethodPost, server.URL+"/api/game/start", "")

		status, resp := doRequest(t, http.MethodPost, server.URL+"/api/game/turn", `{"row":5,"col":0}`)

		assert.Equal(t, http.StatusOK, status)
		assert.False(t, resp.Applied)
		assert.Contains(t, resp.Error, "move rejected")
		assert.Equal(t, 0, resp.Game.Moves)
	})

	t.Run("Malformed body", func(t *testing.T) {
		server := newTestServer(t)

		status, resp := doRequest(t, http.MethodPost, server.URL+"/api/game/turn", `{"row":`)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.False(t, resp.Applied)
	})

	t.Run("Missing coordinates", func(t *testing.T) {
		server := newTestServer(t)

		status, resp := doRequest(t, http.MethodPost, server.URL+"/api/game/turn", `{"row":1}`)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "row and col are required", resp.Error)
	})
}

func TestGameHandlers_SelectPawn(t *testing.T) {
	t.Run("Pawn selected before a round", func(t *testing.T) {
		server := newTestServer(t)

		status, resp := doRequest(t, http.MethodPost, server.URL+"/api/game/pawn", `{"mark":"o"}`)

		assert.Equal(t, http.StatusOK, status)
		assert.True(t, resp.Applied)
		assert.Equal(t, entity.MarkO, resp.Game.Pawns.Human)
	})

	t.Run("Pawn locked while running", func(t *testing.T) {
		server := newTestServer(t)
		doRequest(t, http.MethodPost, server.URL+"/api/game/start", "")

		status, resp := doRequest(t, http.MethodPost, server.URL+"/api/game/pawn", `{"mark":"o"}`)

		assert.Equal(t, http.StatusOK, status)
		assert.False(t, resp.Applied)
		assert.Equal(t, entity.MarkX, resp.Game.Pawns.Human)
	})
}
