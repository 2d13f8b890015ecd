package engine

import "errors"

// Status is the game lifecycle state.
type Status int

const (
	StatusPlaying Status = iota
	StatusWon
	StatusDraw
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusDraw:
		return "draw"
	}
	return "unknown"
}

// Game rule failures. These are returned, never panicked, and a failing
// call leaves the game state untouched.
var (
	ErrInvalidColumn = errors.New("column out of range")
	ErrColumnFull    = errors.New("column is full")
	ErrGameOver      = errors.New("game is not in playing state")
	ErrNoLegalMoves  = errors.New("no legal moves available")
)

// Game is the turn-cycling state machine for one Connect-4 game.
// Player 1 always moves first.
type Game struct {
	Board         Board
	CurrentPlayer uint8
	Status        Status
	Winner        uint8 // Empty unless Status == StatusWon
}

// NewGame returns a fresh game with an empty board and player 1 to move.
func NewGame() *Game {
	return &Game{CurrentPlayer: Player1, Status: StatusPlaying}
}

// MakeMove drops a piece for the current player into the column and
// advances the state machine: a winning line ends the game as Won, a full
// board with no winner ends it as Draw, otherwise the turn passes to the
// other player.
func (g *Game) MakeMove(col int) error {
	if g.Status != StatusPlaying {
		return ErrGameOver
	}
	if col < 0 || col >= Cols {
		return ErrInvalidColumn
	}
	if g.Board.IsColumnFull(col) {
		return ErrColumnFull
	}

	g.Board.Place(col, g.CurrentPlayer)

	if winner := CheckWinner(g.Board); winner != Empty {
		g.Status = StatusWon
		g.Winner = winner
	} else if g.Board.IsFull() {
		g.Status = StatusDraw
	} else {
		g.CurrentPlayer = Opponent(g.CurrentPlayer)
	}
	return nil
}

// IsOver reports whether the game reached a terminal state.
func (g *Game) IsOver() bool {
	return g.Status != StatusPlaying
}

// Reset returns the game to its initial state.
func (g *Game) Reset() {
	g.Board = Board{}
	g.CurrentPlayer = Player1
	g.Status = StatusPlaying
	g.Winner = Empty
}

// State is a serializable snapshot of a game.
type State struct {
	Board         [][]int  `json:"board"`
	CurrentPlayer int      `json:"current_player"`
	Status        string   `json:"status"`
	Winner        int      `json:"winner,omitempty"`
	WinningCells  [][2]int `json:"winning_cells,omitempty"`
}

// State returns a snapshot of the current game, including the winning
// cell coordinates when the game has been won.
func (g *Game) State() State {
	s := State{
		Board:         g.Board.Cells(),
		CurrentPlayer: int(g.CurrentPlayer),
		Status:        g.Status.String(),
		Winner:        int(g.Winner),
	}
	if g.Status == StatusWon {
		s.WinningCells = WinningCells(g.Board)
	}
	return s
}
