package service

import (
	"context"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const DefaultPublisherBuffer = 64

type stateRepo interface {
	SaveState(ctx context.Context, snapshot entity.Snapshot) error
	PublishEvent(ctx context.Context, event entity.Event) error
}

// StatePublisher mirrors engine events into the state repository. Notify never
// blocks the engine; when the queue is full the event is dropped.
type StatePublisher struct {
	logger *slog.Logger
	repo   stateRepo
	queue  chan entity.Event
}

func NewStatePublisher(logger *slog.Logger, repo stateRepo, buffer int) *StatePublisher {
	if buffer < 1 {
		buffer = DefaultPublisherBuffer
	}

	return &StatePublisher{
		logger: logger.With("component", "publisher"),
		repo:   repo,
		queue:  make(chan entity.Event, buffer),
	}
}

func (that *StatePublisher) Notify(event entity.Event) {
	select {
	case that.queue <- event:
	default:
		that.logger.Warn("event queue is full, dropping event", "kind", event.Kind, "round_id", event.Snapshot.RoundID)
	}
}

// Run drains the queue until ctx is done.
func (that *StatePublisher) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	for {
		select {
		case <-ctx.Done():
			log.Debug("publisher stopped")
			return
		case event := <-that.queue:
			that.publish(ctx, event)
		}
	}
}

func (that *StatePublisher) publish(ctx context.Context, event entity.Event) {
	log := that.logger.With("method", "publish", "kind", event.Kind)

	if err := that.repo.SaveState(ctx, event.Snapshot); err != nil {
		log.Error("failed to save game state", "error", err)
	}

	if err := that.repo.PublishEvent(ctx, event); err != nil {
		log.Error("failed to publish event", "error", err)
	}
}
