package tictactoe

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// DefaultComputerDelay simulates the computer thinking. It is cosmetic.
const DefaultComputerDelay = 300 * time.Millisecond

type moveSelector interface {
	ChooseCell(board entity.Board) (row, col int, err error)
}

type Options struct {
	Size          int
	HumanPawn     entity.Mark
	ComputerDelay time.Duration
	Scheduler     Scheduler
}

// Engine owns the state of a human vs computer game and the running score.
// Commands never fail: invalid input is ignored and reported by the boolean
// result only.
type Engine struct {
	logger    *slog.Logger
	bot       moveSelector
	scheduler Scheduler
	delay     time.Duration
	size      int

	mu          sync.Mutex
	board       entity.Board
	status      entity.Status
	current     entity.Player
	victory     *entity.VictoryDetails
	score       entity.Score
	pawns       entity.PawnAssignment
	roundID     string
	pending     Task
	scheduleSeq uint64
	outbox      []entity.Event

	// events are delivered in ticket order, outside mu
	deliverMu   sync.Mutex
	deliverCond *sync.Cond
	nextTicket  uint64
	serving     uint64
	observers   observerSet
}

func NewEngine(logger *slog.Logger, opts Options, bot moveSelector) (*Engine, error) {
	if opts.Size < 1 {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidGameSize, opts.Size)
	}

	pawns, err := entity.NewPawnAssignment(opts.HumanPawn)
	if err != nil {
		return nil, fmt.Errorf("failed to assign pawns: %w", err)
	}

	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = NewTimerScheduler()
	}

	engine := &Engine{
		logger:    logger.With("component", "engine"),
		bot:       bot,
		scheduler: scheduler,
		delay:     opts.ComputerDelay,
		size:      opts.Size,

		board:  entity.NewBoard(opts.Size),
		status: entity.StatusNotStarted,
		pawns:  pawns,
	}
	engine.deliverCond = sync.NewCond(&engine.deliverMu)

	return engine, nil
}

// StartGame resets the board and begins a new round. It may be called in any
// state; the score is kept.
func (that *Engine) StartGame() {
	that.mu.Lock()
	defer that.unlock()

	that.cancelPending()

	that.roundID = uuid.NewString()
	that.board = entity.NewBoard(that.size)
	that.victory = nil
	that.current = that.pawns.StartingPlayer()
	that.status = entity.StatusRunning

	that.logger.Info("game started", "round", that.roundID, "size", that.size, "first", that.current)
	that.emit(entity.EventGameStarted, "")

	that.nextTurn()
}

// SubmitMove places the human's mark at (row, col). It reports whether the
// move was applied.
func (that *Engine) SubmitMove(row, col int) bool {
	that.mu.Lock()
	defer that.unlock()

	if err := that.validateMove(entity.PlayerHuman, row, col); err != nil {
		that.logger.Debug("move ignored", "method", "SubmitMove", "row", row, "col", col, "reason", err)
		return false
	}

	that.placeMark(row, col)
	that.checkForGameEnd()

	return true
}

// PerformComputerMove plays the computer's turn right away, cancelling the
// scheduled one. It is a no-op unless the computer is to move.
func (that *Engine) PerformComputerMove() bool {
	that.mu.Lock()
	defer that.unlock()

	that.cancelPending()

	return that.performComputerMove()
}

// SelectPawnType gives mark to the human and the other mark to the computer.
// Ignored while a round is running.
func (that *Engine) SelectPawnType(mark entity.Mark) bool {
	that.mu.Lock()
	defer that.unlock()

	if that.status.IsRunning() {
		that.logger.Debug("pawn selection ignored", "mark", mark, "reason", apperror.ErrPawnLocked)
		return false
	}

	pawns, err := entity.NewPawnAssignment(mark)
	if err != nil {
		that.logger.Debug("pawn selection ignored", "mark", mark, "reason", err)
		return false
	}

	that.pawns = pawns
	that.emit(entity.EventPawnsChanged, "")

	return true
}

// Subscribe registers observer for every following event and returns a
// function removing it.
func (that *Engine) Subscribe(observer Observer) func() {
	return that.observers.add(observer)
}

// Close cancels a pending computer move.
func (that *Engine) Close() {
	that.mu.Lock()
	defer that.unlock()

	that.cancelPending()
}

func (that *Engine) Snapshot() entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

func (that *Engine) Status() entity.Status {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.status
}

func (that *Engine) CurrentPlayer() entity.Player {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.current
}

func (that *Engine) Score() entity.Score {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.score
}

func (that *Engine) Board() entity.Board {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board
}

func (that *Engine) Pawns() entity.PawnAssignment {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.pawns
}

func (that *Engine) performComputerMove() bool {
	log := that.logger.With("method", "performComputerMove", "round", that.roundID)

	if err := that.confirmTurn(entity.PlayerComputer); err != nil {
		log.Debug("computer move skipped", "reason", err)
		return false
	}

	row, col, err := that.bot.ChooseCell(that.board)
	if err != nil {
		log.Error("computer failed to choose a cell", "error", err)
		return false
	}

	if err = that.validateMove(entity.PlayerComputer, row, col); err != nil {
		log.Error("computer chose an illegal cell", "row", row, "col", col, "error", err)
		return false
	}

	that.placeMark(row, col)
	that.checkForGameEnd()

	return true
}

// validateMove - checks bounds, turn and cell for a move by player.
func (that *Engine) validateMove(player entity.Player, row, col int) error {
	if !that.board.InBounds(row, col) {
		return fmt.Errorf("%w: (%d,%d)", apperror.ErrInvalidCell, row, col)
	}

	if err := that.confirmTurn(player); err != nil {
		return err
	}

	if that.board.At(row, col) != entity.MarkEmpty {
		return apperror.ErrCellOccupied
	}

	return nil
}

func (that *Engine) confirmTurn(player entity.Player) error {
	switch {
	case that.status == entity.StatusNotStarted:
		return apperror.ErrGameIsNotStarted
	case that.status.IsFinished():
		return apperror.ErrGameFinished
	case that.current != player:
		return apperror.ErrNotYourTurn
	default:
		return nil
	}
}

func (that *Engine) placeMark(row, col int) {
	that.board = that.board.With(row, col, that.pawns.Of(that.current))
	that.emit(entity.EventBoardChanged, "")
}

// checkForGameEnd - registers a win or a draw, or hands the turn over.
func (that *Engine) checkForGameEnd() {
	outcome := Evaluate(that.board, that.current)
	if outcome.Status.IsFinished() {
		that.registerGameResult(outcome)
		return
	}

	that.current = that.current.Opponent()
	that.emit(entity.EventTurnChanged, "")

	that.nextTurn()
}

// registerGameResult - bumps exactly one counter, announces it, then closes
// the round.
func (that *Engine) registerGameResult(outcome Outcome) {
	if that.status.IsFinished() {
		return
	}

	counter, ok := outcome.Status.Counter()
	if !ok {
		return
	}

	that.score = that.score.Increment(counter)
	that.emit(entity.EventScoreChanged, counter)

	that.status = outcome.Status
	that.victory = outcome.Victory
	that.emit(entity.EventGameEnded, "")

	that.logger.Info("game finished", "round", that.roundID, "status", that.status, "score", that.score)
}

func (that *Engine) nextTurn() {
	if that.current != entity.PlayerComputer {
		return
	}

	that.scheduleSeq++
	seq := that.scheduleSeq
	that.pending = that.scheduler.AfterFunc(that.delay, func() {
		that.runScheduledMove(seq)
	})
}

func (that *Engine) runScheduledMove(seq uint64) {
	that.mu.Lock()
	defer that.unlock()

	if seq != that.scheduleSeq || that.pending == nil {
		that.logger.Debug("stale computer move discarded", "round", that.roundID)
		return
	}

	that.pending = nil
	that.performComputerMove()
}

func (that *Engine) cancelPending() {
	if that.pending != nil {
		that.pending.Stop()
		that.pending = nil
	}
	that.scheduleSeq++
}

func (that *Engine) emit(kind entity.EventKind, counter entity.ScoreCounter) {
	that.outbox = append(that.outbox, entity.Event{
		Kind:     kind,
		Counter:  counter,
		Snapshot: that.snapshot(),
	})
}

func (that *Engine) snapshot() entity.Snapshot {
	var victory *entity.VictoryDetails
	if that.victory != nil {
		details := *that.victory
		victory = &details
	}

	return entity.Snapshot{
		RoundID:       that.roundID,
		Size:          that.size,
		Board:         that.board,
		Status:        that.status,
		CurrentPlayer: that.current,
		Victory:       victory,
		Score:         that.score,
		Pawns:         that.pawns,
		Moves:         that.board.Filled(),
	}
}

// unlock releases mu and delivers the events queued while it was held.
func (that *Engine) unlock() {
	events := that.outbox
	that.outbox = nil

	if len(events) == 0 {
		that.mu.Unlock()
		return
	}

	ticket := that.nextTicket
	that.nextTicket++
	that.mu.Unlock()

	that.deliverMu.Lock()
	for that.serving != ticket {
		that.deliverCond.Wait()
	}
	that.deliverMu.Unlock()

	defer func() {
		that.deliverMu.Lock()
		that.serving++
		that.deliverCond.Broadcast()
		that.deliverMu.Unlock()
	}()

	observers := that.observers.list()
	for _, event := range events {
		for _, observer := range observers {
			observer.Notify(event)
		}
	}
}
