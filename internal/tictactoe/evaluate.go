package tictactoe

import "github.com/rocketscienceinc/tictactoe-solo/internal/entity"

// Outcome is the result of an end-of-turn evaluation. Status stays running
// when the round continues.
type Outcome struct {
	Status  entity.Status
	Victory *entity.VictoryDetails
}

// Evaluate checks the board after mover placed a mark. The first satisfied
// condition wins: rows, columns, main diagonal, anti-diagonal, then draw.
// A win is credited to mover, whatever mark completed the line.
func Evaluate(board entity.Board, mover entity.Player) Outcome {
	if victory, ok := findWinningLine(board); ok {
		return Outcome{Status: entity.WinStatusFor(mover), Victory: victory}
	}

	if board.IsFull() {
		return Outcome{Status: entity.StatusDraw}
	}

	return Outcome{Status: entity.StatusRunning}
}

func findWinningLine(board entity.Board) (*entity.VictoryDetails, bool) {
	size := board.Size()
	if size == 0 {
		return nil, false
	}

	for i := 0; i < size; i++ {
		if lineComplete(board, func(k int) (int, int) { return i, k }) {
			return &entity.VictoryDetails{Orientation: entity.OrientationRow, Index: i}, true
		}
	}

	for j := 0; j < size; j++ {
		if lineComplete(board, func(k int) (int, int) { return k, j }) {
			return &entity.VictoryDetails{Orientation: entity.OrientationColumn, Index: j}, true
		}
	}

	if lineComplete(board, func(k int) (int, int) { return k, k }) {
		return &entity.VictoryDetails{Orientation: entity.OrientationDiagonalMain, Index: entity.DiagonalMainIndex}, true
	}

	if lineComplete(board, func(k int) (int, int) { return k, size - 1 - k }) {
		return &entity.VictoryDetails{Orientation: entity.OrientationDiagonalAnti, Index: entity.DiagonalAntiIndex}, true
	}

	return nil, false
}

// lineComplete walks the cells returned by at for k in [0, size) and reports
// whether they all hold the same non-empty mark.
func lineComplete(board entity.Board, at func(k int) (int, int)) bool {
	candidate := board.At(at(0))
	if candidate == entity.MarkEmpty {
		return false
	}

	for k := 1; k < board.Size(); k++ {
		if board.At(at(k)) != candidate {
			return false
		}
	}

	return true
}
