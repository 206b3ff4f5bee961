package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

var ErrGameNotFound = errors.New("game not found")

// GameRepository mirrors the latest game state. Only the current snapshot is
// kept; every save overwrites the previous one.
type GameRepository interface {
	SaveState(ctx context.Context, snapshot entity.Snapshot) error
	GetState(ctx context.Context) (entity.Snapshot, error)
	DeleteState(ctx context.Context) error
	PublishEvent(ctx context.Context, event entity.Event) error
	SubscribeEvents(ctx context.Context) *redis.PubSub
}

type dbGame struct {
	client *redis.Client
	prefix string
}

func NewGameRepository(client *redis.Client, prefix string) GameRepository {
	return &dbGame{
		client: client,
		prefix: prefix,
	}
}

func (that *dbGame) stateKey() string {
	return that.prefix + ":state"
}

func (that *dbGame) eventsChannel() string {
	return that.prefix + ":events"
}

func (that *dbGame) SaveState(ctx context.Context, snapshot entity.Snapshot) error {
	stateJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal game state: %w", err)
	}

	if err = that.client.Set(ctx, that.stateKey(), stateJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game state: %w", err)
	}

	return nil
}

func (that *dbGame) GetState(ctx context.Context) (entity.Snapshot, error) {
	response, err := that.client.Get(ctx, that.stateKey()).Result()

	if errors.Is(err, redis.Nil) {
		return entity.Snapshot{}, ErrGameNotFound
	}

	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to get game state: %w", err)
	}

	var snapshot entity.Snapshot
	if err = json.Unmarshal([]byte(response), &snapshot); err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to unmarshal game state: %w", err)
	}

	return snapshot, nil
}

func (that *dbGame) DeleteState(ctx context.Context) error {
	deleted, err := that.client.Del(ctx, that.stateKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game state: %w", err)
	}

	if deleted == 0 {
		return ErrGameNotFound
	}

	return nil
}

func (that *dbGame) PublishEvent(ctx context.Context, event entity.Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, that.eventsChannel(), eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

func (that *dbGame) SubscribeEvents(ctx context.Context) *redis.PubSub {
	return that.client.Subscribe(ctx, that.eventsChannel())
}
