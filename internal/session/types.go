package session

import "minesweeper/internal/game"

// CreateRequest names either a preset or explicit dimensions. An empty
// request uses the configured default board.
type CreateRequest struct {
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Mines  int    `json:"mines,omitempty"`
	Preset string `json:"preset,omitempty"`
}

type MoveRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type CreateResponse struct {
	GameID   string        `json:"game_id"`
	Snapshot game.Snapshot `json:"snapshot"`
}

type RevealResponse struct {
	GameID   string             `json:"game_id"`
	Outcome  game.RevealOutcome `json:"outcome"`
	Snapshot game.Snapshot      `json:"snapshot"`
}

type FlagResponse struct {
	GameID   string           `json:"game_id"`
	Outcome  game.FlagOutcome `json:"outcome"`
	Snapshot game.Snapshot    `json:"snapshot"`
}

// WSMessage is the envelope for everything sent over the websocket.
type WSMessage struct {
	Type   string      `json:"type"`
	GameID string      `json:"game_id,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// ClientMessage is a command received over the websocket.
type ClientMessage struct {
	Type string `json:"type"` // reveal, flag, reset, ping
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}
