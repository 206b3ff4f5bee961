package entity

// ScoreCounter names one of the three tallies.
type ScoreCounter string

const (
	CounterHuman    ScoreCounter = "human"
	CounterComputer ScoreCounter = "computer"
	CounterDraws    ScoreCounter = "draws"
)

// Score only grows for the lifetime of the process.
type Score struct {
	Human    int `json:"human"`
	Computer int `json:"computer"`
	Draws    int `json:"draws"`
}

func (that Score) Increment(counter ScoreCounter) Score {
	switch counter {
	case CounterHuman:
		that.Human++
	case CounterComputer:
		that.Computer++
	case CounterDraws:
		that.Draws++
	}

	return that
}

func (that Score) Total() int {
	return that.Human + that.Computer + that.Draws
}

func (that Score) Get(counter ScoreCounter) int {
	switch counter {
	case CounterHuman:
		return that.Human
	case CounterComputer:
		return that.Computer
	case CounterDraws:
		return that.Draws
	default:
		return 0
	}
}
