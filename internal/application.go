package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-solo/internal/config"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-solo/internal/service"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-solo/transport/rest"
	"github.com/rocketscienceinc/tictactoe-solo/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	engine, err := tictactoe.NewEngine(logger, tictactoe.Options{
		Size:          conf.Game.Size,
		HumanPawn:     conf.Game.Pawn(),
		ComputerDelay: conf.Game.ComputerDelay,
	}, service.NewBotService())
	if err != nil {
		return fmt.Errorf("could not create game engine: %w", err)
	}
	defer engine.Close()

	gameUseCase := usecase.NewGameUseCase(logger, engine)

	if conf.Redis.Enabled {
		closeStorage, err := runStatePublisher(ctx, logger, conf, gameUseCase)
		if err != nil {
			return err
		}
		defer closeStorage()
	}

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, gameUseCase).Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameUseCase, conf.SocketOrigins)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// runStatePublisher connects to redis and mirrors every engine event there.
func runStatePublisher(ctx context.Context, logger *slog.Logger, conf *config.Config, game usecase.GameUseCase) (func(), error) {
	log := logger.With("component", "app")

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	gameRepo := repository.NewGameRepository(redisStorage.Connection, conf.Redis.KeyPrefix)
	publisher := service.NewStatePublisher(logger, gameRepo, service.DefaultPublisherBuffer)

	if err = gameRepo.SaveState(ctx, game.GetGame()); err != nil {
		log.Warn("could not save initial game state", "error", err)
	}

	unsubscribe := game.Subscribe(publisher)
	go publisher.Run(ctx)

	log.Info("Mirroring game state to redis", "addr", conf.Redis.GetRedisAddr(), "prefix", conf.Redis.KeyPrefix)

	return func() {
		unsubscribe()

		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}, nil
}
