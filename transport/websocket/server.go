package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	StartGame() entity.Snapshot
	MakeTurn(row, col int) (entity.Snapshot, error)
	SelectPawn(mark string) (entity.Snapshot, error)
	GetGame() entity.Snapshot

	Subscribe(observer tictactoe.Observer) func()
}

type Server struct {
	logger         *slog.Logger
	game           gameUseCase
	originPatterns []string

	handlers map[string]func(ctx context.Context, message *Message, conn *connection) error
}

func New(logger *slog.Logger, game gameUseCase, originPatterns []string) *Server {
	server := &Server{
		logger:         logger.With("component", "websocket"),
		game:           game,
		originPatterns: originPatterns,

		handlers: make(map[string]func(context.Context, *Message, *connection) error),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["game:start"] = server.handleGameStart
	server.handlers["game:turn"] = server.handleGameTurn
	server.handlers["game:pawn"] = server.handleGamePawn

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", that)

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	that.logger.Info("websocket server started", "port", port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := websocket.Accept(writer, req, &websocket.AcceptOptions{
		OriginPatterns: that.originPatterns,
	})
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}
	defer conn.CloseNow()

	log.Info("WebSocket connection established", "remote", req.RemoteAddr)

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	client := newConnection(that.logger, conn)
	defer client.close()

	go func() {
		client.writeLoop(ctx)
		cancel()
	}()

	if err = that.handleMessages(ctx, client); err != nil {
		log.Debug("connection closed", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, client *connection) error {
	log := that.logger.With("method", "handleMessages")

	for {
		var message Message
		if err := wsjson.Read(ctx, client.conn, &message); err != nil {
			if websocket.CloseStatus(err) != -1 || errors.Is(err, context.Canceled) {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)

			if err := client.send(message.Action, Payload{Error: "unknown action"}); err != nil {
				log.Error("failed to send error response", "error", err)
			}

			continue
		}

		if err := handler(ctx, &message, client); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}
