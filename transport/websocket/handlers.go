package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// handleConnect sends the current state and starts streaming engine events.
func (that *Server) handleConnect(_ context.Context, msg *Message, client *connection) error {
	snapshot := that.game.GetGame()

	if err := client.send(msg.Action, Payload{Game: &snapshot}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	client.subscribe(func() func() {
		return that.game.Subscribe(client)
	})

	that.logger.Info("client subscribed to game events")

	return nil
}

func (that *Server) handleGameStart(_ context.Context, msg *Message, client *connection) error {
	snapshot := that.game.StartGame()

	return that.sendResult(client, msg.Action, snapshot, nil)
}

func (that *Server) handleGameTurn(_ context.Context, msg *Message, client *connection) error {
	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return that.sendErrorResponse(client, msg.Action, "invalid payload")
	}

	if payloadReq.Cell == nil {
		return that.sendErrorResponse(client, msg.Action, "Cell is required")
	}

	snapshot, err := that.game.MakeTurn(payloadReq.Cell.Row, payloadReq.Cell.Col)

	return that.sendResult(client, msg.Action, snapshot, err)
}

func (that *Server) handleGamePawn(_ context.Context, msg *Message, client *connection) error {
	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return that.sendErrorResponse(client, msg.Action, "invalid payload")
	}

	snapshot, err := that.game.SelectPawn(payloadReq.Mark)

	return that.sendResult(client, msg.Action, snapshot, err)
}

func (that *Server) sendResult(client *connection, action string, snapshot entity.Snapshot, cmdErr error) error {
	applied := cmdErr == nil
	payload := Payload{Game: &snapshot, Applied: &applied}

	if cmdErr != nil {
		that.logger.Debug("command ignored", "action", action, "reason", cmdErr)
		payload.Error = cmdErr.Error()
	}

	if err := client.send(action, payload); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(client *connection, action, errorMsg string) error {
	if err := client.send(action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
