package entity

// Status is the round state. Moves are accepted only while running.
type Status string

const (
	StatusNotStarted  Status = "not_started"
	StatusRunning     Status = "running"
	StatusHumanWin    Status = "human_win"
	StatusComputerWin Status = "computer_win"
	StatusDraw        Status = "draw"
)

func (that Status) IsRunning() bool {
	return that == StatusRunning
}

func (that Status) IsFinished() bool {
	switch that {
	case StatusHumanWin, StatusComputerWin, StatusDraw:
		return true
	default:
		return false
	}
}

// Counter maps a terminal status to the score counter it increments.
func (that Status) Counter() (ScoreCounter, bool) {
	switch that {
	case StatusHumanWin:
		return CounterHuman, true
	case StatusComputerWin:
		return CounterComputer, true
	case StatusDraw:
		return CounterDraws, true
	default:
		return "", false
	}
}

func WinStatusFor(player Player) Status {
	if player == PlayerHuman {
		return StatusHumanWin
	}
	return StatusComputerWin
}

// Orientation classifies a winning line.
type Orientation string

const (
	OrientationRow          Orientation = "row"
	OrientationColumn       Orientation = "column"
	OrientationDiagonalMain Orientation = "diagonal_main"
	OrientationDiagonalAnti Orientation = "diagonal_anti"
)

// Diagonal indexes: 0 is the main diagonal, 1 the anti-diagonal.
const (
	DiagonalMainIndex = 0
	DiagonalAntiIndex = 1
)

// VictoryDetails identifies the winning line. Nil means "no line".
type VictoryDetails struct {
	Orientation Orientation `json:"orientation"`
	Index       int         `json:"index"`
}

// Snapshot is a whole-state read model of the engine. Board identity changes
// on every move, so consumers can detect transitions with Board.SameAs.
type Snapshot struct {
	RoundID       string          `json:"round_id,omitempty"`
	Size          int             `json:"size"`
	Board         Board           `json:"board"`
	Status        Status          `json:"status"`
	CurrentPlayer Player          `json:"current_player,omitempty"`
	Victory       *VictoryDetails `json:"victory,omitempty"`
	Score         Score           `json:"score"`
	Pawns         PawnAssignment  `json:"pawns"`
	Moves         int             `json:"moves"`
}
