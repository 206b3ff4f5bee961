package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger *slog.Logger
	router chi.Router
}

func New(logger *slog.Logger, game gameUseCase) *Server {
	logger = logger.With("component", "rest")

	ping := NewPingHandler()
	handlers := NewGameHandlers(logger, game)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/ping", ping.PingHandler)
	router.Route("/api/game", func(r chi.Router) {
		r.Get("/", handlers.GetGame)
		r.Post("/start", handlers.StartGame)
		r.Post("/turn", handlers.MakeTurn)
		r.Post("/pawn", handlers.SelectPawn)
	})

	return &Server{
		logger: logger,
		router: router,
	}
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start serves the REST api until ctx is done.
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

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	that.logger.Info("rest server started", "port", port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
