package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

var ErrNoAvailableMoves = apperror.ErrNoAvailableMoves

// BotService picks the computer's next cell.
type BotService interface {
	ChooseCell(board entity.Board) (row, col int, err error)
}

type botService struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// NewBotService plays a uniformly random free cell.
func NewBotService() BotService {
	return NewSeededBotService(time.Now().UnixNano())
}

// NewSeededBotService makes the random choices reproducible.
func NewSeededBotService(seed int64) BotService {
	return &botService{
		rand: rand.New(rand.NewSource(seed)), //nolint: gosec // it's ok
	}
}

func (that *botService) ChooseCell(board entity.Board) (int, int, error) {
	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return 0, 0, ErrNoAvailableMoves
	}

	that.mu.Lock()
	chosen := availableCells[that.rand.Intn(len(availableCells))]
	that.mu.Unlock()

	return chosen.Row, chosen.Col, nil
}
