package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type gameUseCase interface {
	StartGame() entity.Snapshot
	MakeTurn(row, col int) (entity.Snapshot, error)
	SelectPawn(mark string) (entity.Snapshot, error)
	GetGame() entity.Snapshot
}

type GameHandlers interface {
	GetGame(w http.ResponseWriter, r *http.Request)
	StartGame(w http.ResponseWriter, r *http.Request)
	MakeTurn(w http.ResponseWriter, r *http.Request)
	SelectPawn(w http.ResponseWriter, r *http.Request)
}

type TurnRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type PawnRequest struct {
	Mark string `json:"mark"`
}

// GameResponse is returned by every game endpoint. Applied is false when the
// command was ignored, and Error then holds the reason.
type GameResponse struct {
	Game    entity.Snapshot `json:"game"`
	Applied bool            `json:"applied"`
	Error   string          `json:"error,omitempty"`
}

type gameHandlers struct {
	logger *slog.Logger
	game   gameUseCase
}

func NewGameHandlers(logger *slog.Logger, game gameUseCase) GameHandlers {
	return &gameHandlers{
		logger: logger,
		game:   game,
	}
}

func (that *gameHandlers) GetGame(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, GameResponse{Game: that.game.GetGame(), Applied: true})
}

func (that *gameHandlers) StartGame(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, GameResponse{Game: that.game.StartGame(), Applied: true})
}

func (that *gameHandlers) MakeTurn(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "MakeTurn")

	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debug("failed to decode request", "error", err)
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Row == nil || req.Col == nil {
		that.writeError(w, http.StatusBadRequest, "row and col are required")
		return
	}

	snapshot, err := that.game.MakeTurn(*req.Row, *req.Col)
	that.writeResult(w, snapshot, err)
}

func (that *gameHandlers) SelectPawn(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "SelectPawn")

	var req PawnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debug("failed to decode request", "error", err)
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot, err := that.game.SelectPawn(req.Mark)
	that.writeResult(w, snapshot, err)
}

func (that *gameHandlers) writeResult(w http.ResponseWriter, snapshot entity.Snapshot, err error) {
	resp := GameResponse{Game: snapshot, Applied: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}

	that.writeJSON(w, http.StatusOK, resp)
}

func (that *gameHandlers) writeError(w http.ResponseWriter, status int, message string) {
	that.writeJSON(w, status, GameResponse{Game: that.game.GetGame(), Error: message})
}

func (that *gameHandlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
