package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
)

// Cell is a (row, col) coordinate on the board.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is an immutable square grid stored row-major. Every mutation goes
// through With, which returns a new Board and leaves the receiver untouched.
type Board struct {
	size   int
	cells  []Mark
	filled int
}

func NewBoard(size int) Board {
	return Board{
		size:  size,
		cells: make([]Mark, size*size),
	}
}

// BoardFromRows builds a board from explicit rows. Rows must form a square.
func BoardFromRows(rows [][]Mark) (Board, error) {
	board := NewBoard(len(rows))

	for i, row := range rows {
		if len(row) != len(rows) {
			return Board{}, fmt.Errorf("%w: row %d has %d cells, want %d", apperror.ErrInvalidBoard, i, len(row), len(rows))
		}

		for j, mark := range row {
			if mark != MarkEmpty && !mark.IsPawn() {
				return Board{}, fmt.Errorf("%w: unknown mark %q at (%d,%d)", apperror.ErrInvalidBoard, mark, i, j)
			}

			board.cells[i*board.size+j] = mark
			if mark != MarkEmpty {
				board.filled++
			}
		}
	}

	return board, nil
}

func (that Board) Size() int {
	return that.size
}

func (that Board) InBounds(row, col int) bool {
	return row >= 0 && row < that.size && col >= 0 && col < that.size
}

// At panics on out of range coordinates; callers check InBounds first.
func (that Board) At(row, col int) Mark {
	if !that.InBounds(row, col) {
		panic(fmt.Sprintf("board: cell (%d,%d) outside %dx%d grid", row, col, that.size, that.size))
	}

	return that.cells[row*that.size+col]
}

// Filled is the number of non-empty cells.
func (that Board) Filled() int {
	return that.filled
}

func (that Board) IsFull() bool {
	return that.filled == that.size*that.size
}

// EmptyCells lists the free cells in row-major order.
func (that Board) EmptyCells() []Cell {
	free := make([]Cell, 0, len(that.cells)-that.filled)
	for i, mark := range that.cells {
		if mark == MarkEmpty {
			free = append(free, Cell{Row: i / that.size, Col: i % that.size})
		}
	}

	return free
}

// With returns a copy of the board with mark placed at (row, col).
func (that Board) With(row, col int, mark Mark) Board {
	previous := that.At(row, col)

	cells := make([]Mark, len(that.cells))
	copy(cells, that.cells)
	cells[row*that.size+col] = mark

	next := Board{size: that.size, cells: cells, filled: that.filled}
	switch {
	case previous == MarkEmpty && mark != MarkEmpty:
		next.filled++
	case previous != MarkEmpty && mark == MarkEmpty:
		next.filled--
	}

	return next
}

// Rows returns a deep copy of the grid.
func (that Board) Rows() [][]Mark {
	rows := make([][]Mark, that.size)
	for i := range rows {
		rows[i] = make([]Mark, that.size)
		copy(rows[i], that.cells[i*that.size:(i+1)*that.size])
	}

	return rows
}

// SameAs reports whether both boards share the same backing grid, i.e. no
// move happened between the two observations.
func (that Board) SameAs(other Board) bool {
	if len(that.cells) == 0 || len(other.cells) == 0 {
		return len(that.cells) == len(other.cells) && that.size == other.size
	}

	return &that.cells[0] == &other.cells[0]
}

func (that Board) String() string {
	var sb strings.Builder

	for i := 0; i < that.size; i++ {
		if i > 0 {
			sb.WriteByte('\n')
		}

		for j := 0; j < that.size; j++ {
			if j > 0 {
				sb.WriteByte('|')
			}

			mark := that.cells[i*that.size+j]
			if mark == MarkEmpty {
				sb.WriteByte('_')
				continue
			}
			sb.WriteString(string(mark))
		}
	}

	return sb.String()
}

func (that Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.Rows())
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var rows [][]Mark
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	board, err := BoardFromRows(rows)
	if err != nil {
		return err
	}

	*that = board

	return nil
}
