// Package api provides the HTTP/JSON REST API for Connect-4 game
// sessions, plus a WebSocket endpoint for interactive play.
package api

// NewGameRequest is the request body for creating a game session.
type NewGameRequest struct {
	HasAI    bool `json:"has_ai,omitempty"`    // Play against an AI opponent
	AIPlayer int  `json:"ai_player,omitempty"` // Which side the AI plays (default 2)
	Depth    int  `json:"depth,omitempty"`     // Search depth override for this game
}

// MoveRequest is the request body for making a move.
type MoveRequest struct {
	Column int `json:"column"`
}

// GameResponse is the full session state returned by every game endpoint.
type GameResponse struct {
	GameID        string   `json:"game_id"`
	Board         [][]int  `json:"board"`
	CurrentPlayer int      `json:"current_player"`
	Status        string   `json:"status"`
	Winner        int      `json:"winner,omitempty"`
	WinningCells  [][2]int `json:"winning_cells,omitempty"`
	HasAI         bool     `json:"has_ai"`
	AIPlayer      int      `json:"ai_player,omitempty"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status   string     `json:"status"`
	Version  string     `json:"version"`
	Sessions int        `json:"sessions"`
	Model    bool       `json:"model"` // Whether a prediction model is loaded
	Pool     *PoolStats `json:"pool,omitempty"`
}
