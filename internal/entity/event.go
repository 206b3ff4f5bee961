package entity

type EventKind string

const (
	EventGameStarted  EventKind = "game:started"
	EventBoardChanged EventKind = "game:board"
	EventTurnChanged  EventKind = "game:turn"
	EventScoreChanged EventKind = "score:changed"
	EventGameEnded    EventKind = "game:ended"
	EventPawnsChanged EventKind = "pawns:changed"
)

// Event is a state transition published by the engine. Counter is set only
// for EventScoreChanged, and Snapshot is the state right after the change.
type Event struct {
	Kind     EventKind    `json:"kind"`
	Counter  ScoreCounter `json:"counter,omitempty"`
	Snapshot Snapshot     `json:"snapshot"`
}
