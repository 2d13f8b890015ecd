package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MoveRecord captures one move inside a GameRecord. BoardState is the
// board after the move was applied.
type MoveRecord struct {
	MoveNumber int     `json:"move_number"`
	Player     int     `json:"player"`
	Column     int     `json:"column"`
	BoardState [][]int `json:"board_state"`
	Timestamp  string  `json:"timestamp"`
}

// GameRecord is the full record of one completed game, the unit the
// persistence layer stores and the analysis tooling consumes.
type GameRecord struct {
	GameID     string       `json:"game_id"`
	StartTime  string       `json:"start_time"`
	EndTime    string       `json:"end_time,omitempty"`
	Moves      []MoveRecord `json:"moves"`
	Result     string       `json:"result,omitempty"` // "player1_won", "player2_won", "draw"
	Winner     int          `json:"winner,omitempty"`
	FinalBoard [][]int      `json:"final_board,omitempty"`
}

// NewGameID returns a unique game identifier. The timestamp prefix keeps
// record directories roughly chronological; the uuid suffix keeps IDs
// collision-free across concurrent workers.
func NewGameID() string {
	return fmt.Sprintf("game_%s_%s", time.Now().Format("20060102_150405"), uuid.NewString()[:8])
}

// Recorder accumulates a GameRecord over the course of one game.
type Recorder struct {
	current *GameRecord
}

// NewRecorder returns an idle recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Start begins recording a new game. An empty gameID gets a generated
// one. Returns the game ID in use.
func (r *Recorder) Start(gameID string) string {
	if gameID == "" {
		gameID = NewGameID()
	}
	r.current = &GameRecord{
		GameID:    gameID,
		StartTime: time.Now().Format(time.RFC3339Nano),
		Moves:     []MoveRecord{},
	}
	return gameID
}

// RecordMove appends a move to the current game. No-op when no game has
// been started.
func (r *Recorder) RecordMove(player, column int, board Board, moveNumber int) {
	if r.current == nil {
		return
	}
	r.current.Moves = append(r.current.Moves, MoveRecord{
		MoveNumber: moveNumber,
		Player:     player,
		Column:     column,
		BoardState: board.Cells(),
		Timestamp:  time.Now().Format(time.RFC3339Nano),
	})
}

// End finalizes the current record from the game's terminal state and
// returns it, leaving the recorder idle. Returns nil when no game was
// started.
func (r *Recorder) End(g *Game) *GameRecord {
	if r.current == nil {
		return nil
	}
	rec := r.current
	r.current = nil

	rec.EndTime = time.Now().Format(time.RFC3339Nano)
	rec.FinalBoard = g.Board.Cells()
	switch g.Status {
	case StatusWon:
		rec.Winner = int(g.Winner)
		rec.Result = fmt.Sprintf("player%d_won", g.Winner)
	case StatusDraw:
		rec.Result = "draw"
	}
	return rec
}
