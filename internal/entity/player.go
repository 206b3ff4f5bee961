package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
)

// Mark is the symbol a player places in a cell.
type Mark string

const (
	MarkEmpty Mark = ""
	MarkX     Mark = "x"
	MarkO     Mark = "o"
)

// ParseMark accepts "x" or "o" in any case.
func ParseMark(value string) (Mark, error) {
	mark := Mark(strings.ToLower(strings.TrimSpace(value)))
	if !mark.IsPawn() {
		return MarkEmpty, fmt.Errorf("%w: %q", apperror.ErrInvalidPawn, value)
	}

	return mark, nil
}

func (that Mark) IsPawn() bool {
	return that == MarkX || that == MarkO
}

func (that Mark) Opponent() Mark {
	switch that {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return MarkEmpty
	}
}

// Player is one of the two seats of a round.
type Player string

const (
	PlayerHuman    Player = "human"
	PlayerComputer Player = "computer"
)

func (that Player) Opponent() Player {
	if that == PlayerHuman {
		return PlayerComputer
	}
	return PlayerHuman
}

// PawnAssignment maps each player to its mark. The two marks always differ.
type PawnAssignment struct {
	Human    Mark `json:"human"`
	Computer Mark `json:"computer"`
}

func NewPawnAssignment(human Mark) (PawnAssignment, error) {
	if !human.IsPawn() {
		return PawnAssignment{}, fmt.Errorf("%w: %q", apperror.ErrInvalidPawn, human)
	}

	return PawnAssignment{Human: human, Computer: human.Opponent()}, nil
}

func (that PawnAssignment) Of(player Player) Mark {
	if player == PlayerHuman {
		return that.Human
	}
	return that.Computer
}

// StartingPlayer returns the holder of MarkX, who always moves first.
func (that PawnAssignment) StartingPlayer() Player {
	if that.Human == MarkX {
		return PlayerHuman
	}
	return PlayerComputer
}
