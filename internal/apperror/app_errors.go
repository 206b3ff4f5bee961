package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrNoAvailableMoves = errors.New("no available moves")

	ErrMoveRejected = errors.New("move rejected")
	ErrPawnLocked   = errors.New("pawn cannot be changed while a game is running")
	ErrInvalidPawn  = errors.New("invalid pawn type")

	ErrInvalidBoard    = errors.New("invalid board")
	ErrInvalidGameSize = errors.New("invalid game size")
)
