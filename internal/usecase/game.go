package usecase

import (
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

// GameUseCase is what the transports call. It reports ignored commands as
// errors so clients can tell an applied move from a dropped one.
type GameUseCase interface {
	StartGame() entity.Snapshot
	MakeTurn(row, col int) (entity.Snapshot, error)
	SelectPawn(mark string) (entity.Snapshot, error)
	GetGame() entity.Snapshot

	Subscribe(observer tictactoe.Observer) func()
}

type gameEngine interface {
	StartGame()
	SubmitMove(row, col int) bool
	SelectPawnType(mark entity.Mark) bool
	Snapshot() entity.Snapshot
	Subscribe(observer tictactoe.Observer) func()
}

type gameUseCase struct {
	logger *slog.Logger
	engine gameEngine
}

func NewGameUseCase(logger *slog.Logger, engine gameEngine) GameUseCase {
	return &gameUseCase{
		logger: logger.With("component", "usecase"),
		engine: engine,
	}
}

func (that *gameUseCase) StartGame() entity.Snapshot {
	that.engine.StartGame()

	return that.engine.Snapshot()
}

func (that *gameUseCase) MakeTurn(row, col int) (entity.Snapshot, error) {
	if !that.engine.SubmitMove(row, col) {
		return that.engine.Snapshot(), fmt.Errorf("%w: cell (%d,%d)", apperror.ErrMoveRejected, row, col)
	}

	return that.engine.Snapshot(), nil
}

func (that *gameUseCase) SelectPawn(mark string) (entity.Snapshot, error) {
	pawn, err := entity.ParseMark(mark)
	if err != nil {
		return that.engine.Snapshot(), fmt.Errorf("failed to select pawn: %w", err)
	}

	if !that.engine.SelectPawnType(pawn) {
		that.logger.Debug("pawn selection rejected", "mark", pawn)
		return that.engine.Snapshot(), apperror.ErrPawnLocked
	}

	return that.engine.Snapshot(), nil
}

func (that *gameUseCase) GetGame() entity.Snapshot {
	return that.engine.Snapshot()
}

func (that *gameUseCase) Subscribe(observer tictactoe.Observer) func() {
	return that.engine.Subscribe(observer)
}
