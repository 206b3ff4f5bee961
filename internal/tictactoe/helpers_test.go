package tictactoe

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/stretchr/testify/require"
)

const (
	x = entity.MarkX
	o = entity.MarkO
	e = entity.MarkEmpty
)

type manualTask struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (that *manualTask) Stop() bool {
	if that.stopped || that.fired {
		return false
	}
	that.stopped = true
	return true
}

// Fire runs the callback like a timer would, unless it was stopped.
func (that *manualTask) Fire() {
	if that.stopped || that.fired {
		return
	}
	that.fired = true
	that.fn()
}

type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

func (that *manualScheduler) AfterFunc(delay time.Duration, fn func()) Task {
	that.mu.Lock()
	defer that.mu.Unlock()

	task := &manualTask{delay: delay, fn: fn}
	that.tasks = append(that.tasks, task)
	return task
}

func (that *manualScheduler) last(t *testing.T) *manualTask {
	t.Helper()

	that.mu.Lock()
	defer that.mu.Unlock()

	require.NotEmpty(t, that.tasks, "no computer move was scheduled")
	return that.tasks[len(that.tasks)-1]
}

func (that *manualScheduler) count() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.tasks)
}

// scriptedBot plays the given cells in order.
type scriptedBot struct {
	cells []entity.Cell
}

func (that *scriptedBot) ChooseCell(_ entity.Board) (int, int, error) {
	next := that.cells[0]
	that.cells = that.cells[1:]
	return next.Row, next.Col, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, size int, human entity.Mark, bot moveSelector) (*Engine, *manualScheduler) {
	t.Helper()

	scheduler := &manualScheduler{}
	engine, err := NewEngine(discardLogger(), Options{
		Size:          size,
		HumanPawn:     human,
		ComputerDelay: DefaultComputerDelay,
		Scheduler:     scheduler,
	}, bot)
	require.NoError(t, err)

	return engine, scheduler
}

// loadBoard puts a running round in the given position with mover to play.
func loadBoard(t *testing.T, engine *Engine, rows [][]entity.Mark, mover entity.Player) {
	t.Helper()

	board, err := entity.BoardFromRows(rows)
	require.NoError(t, err)

	engine.mu.Lock()
	engine.board = board
	engine.status = entity.StatusRunning
	engine.current = mover
	engine.mu.Unlock()
}

// checkForGameEnd runs the end-of-turn evaluation on the loaded position.
func checkForGameEnd(engine *Engine) {
	engine.mu.Lock()
	defer engine.unlock()

	engine.checkForGameEnd()
}

type recorder struct {
	mu     sync.Mutex
	events []entity.Event
}

func (that *recorder) Notify(event entity.Event) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, event)
}

func (that *recorder) kinds() []entity.EventKind {
	that.mu.Lock()
	defer that.mu.Unlock()

	kinds := make([]entity.EventKind, 0, len(that.events))
	for _, event := range that.events {
		kinds = append(kinds, event.Kind)
	}
	return kinds
}

func (that *recorder) reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = nil
}

func (that *recorder) all() []entity.Event {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]entity.Event(nil), that.events...)
}
