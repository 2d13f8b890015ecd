package engine

import (
	"errors"
	"testing"
)

func TestNewGame(t *testing.T) {
	g := NewGame()
	if g.CurrentPlayer != Player1 {
		t.Errorf("CurrentPlayer = %d, want %d", g.CurrentPlayer, Player1)
	}
	if g.Status != StatusPlaying {
		t.Errorf("Status = %v, want playing", g.Status)
	}
	if g.Board != (Board{}) {
		t.Error("new game board not empty")
	}
}

func TestMakeMoveAlternatesPlayers(t *testing.T) {
	g := NewGame()
	if err := g.MakeMove(0); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	if g.CurrentPlayer != Player2 {
		t.Errorf("after one move CurrentPlayer = %d, want %d", g.CurrentPlayer, Player2)
	}
	if err := g.MakeMove(1); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	if g.CurrentPlayer != Player1 {
		t.Errorf("after two moves CurrentPlayer = %d, want %d", g.CurrentPlayer, Player1)
	}
}

func TestMakeMoveInvalidColumn(t *testing.T) {
	g := NewGame()
	for _, col := range []int{-1, Cols, 100} {
		if err := g.MakeMove(col); !errors.Is(err, ErrInvalidColumn) {
			t.Errorf("MakeMove(%d) = %v, want ErrInvalidColumn", col, err)
		}
	}
	if g.CurrentPlayer != Player1 {
		t.Error("failed move changed the turn")
	}
}

func TestMakeMoveColumnFull(t *testing.T) {
	g := NewGame()
	for i := 0; i < Rows; i++ {
		if err := g.MakeMove(2); err != nil {
			t.Fatalf("fill move %d: %v", i, err)
		}
	}
	mover := g.CurrentPlayer
	if err := g.MakeMove(2); !errors.Is(err, ErrColumnFull) {
		t.Errorf("MakeMove on full column = %v, want ErrColumnFull", err)
	}
	if g.CurrentPlayer != mover {
		t.Error("failed move changed the turn")
	}
}

// playMoves feeds a sequence of columns to the game, failing on any error.
func playMoves(t *testing.T, g *Game, cols ...int) {
	t.Helper()
	for i, col := range cols {
		if err := g.MakeMove(col); err != nil {
			t.Fatalf("move %d (column %d): %v", i, col, err)
		}
	}
}

func TestWinEndsGame(t *testing.T) {
	g := NewGame()
	// Player 1 builds a vertical four on column 0.
	playMoves(t, g, 0, 1, 0, 1, 0, 1, 0)

	if g.Status != StatusWon {
		t.Fatalf("Status = %v, want won", g.Status)
	}
	if g.Winner != Player1 {
		t.Errorf("Winner = %d, want %d", g.Winner, Player1)
	}
	// The turn does not advance past the winning move.
	if g.CurrentPlayer != Player1 {
		t.Errorf("CurrentPlayer after win = %d, want %d", g.CurrentPlayer, Player1)
	}

	if err := g.MakeMove(3); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after win = %v, want ErrGameOver", err)
	}
}

func TestDrawOnFinalMove(t *testing.T) {
	// One cell short of a known drawn position; the last piece fills the
	// board without making four in a row.
	final := mustBoard(t, "1122112/2211221/1122112/2211221/1122112/2211221")
	almost := final
	almost[0][6] = Empty

	g := &Game{
		Board:         almost,
		CurrentPlayer: final[0][6],
		Status:        StatusPlaying,
	}

	if err := g.MakeMove(6); err != nil {
		t.Fatalf("final move: %v", err)
	}
	if g.Board != final {
		t.Fatalf("board = %q, want %q", g.Board.String(), final.String())
	}
	if g.Status != StatusDraw {
		t.Errorf("Status = %v, want draw", g.Status)
	}
	if g.Winner != Empty {
		t.Errorf("Winner = %d, want none", g.Winner)
	}
	if err := g.MakeMove(0); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after draw = %v, want ErrGameOver", err)
	}
}

func TestReset(t *testing.T) {
	g := NewGame()
	playMoves(t, g, 0, 1, 0, 1, 0, 1, 0)
	if g.Status != StatusWon {
		t.Fatal("setup game not won")
	}

	g.Reset()
	if g.Status != StatusPlaying || g.CurrentPlayer != Player1 || g.Winner != Empty {
		t.Error("Reset did not restore initial state")
	}
	if g.Board != (Board{}) {
		t.Error("Reset did not clear the board")
	}
}

func TestStateSnapshot(t *testing.T) {
	g := NewGame()
	playMoves(t, g, 0, 1, 0, 1, 0, 1, 0)

	s := g.State()
	if s.Status != "won" {
		t.Errorf("Status = %q, want %q", s.Status, "won")
	}
	if s.Winner != int(Player1) {
		t.Errorf("Winner = %d, want %d", s.Winner, Player1)
	}
	if len(s.WinningCells) != 4 {
		t.Errorf("WinningCells has %d cells, want 4", len(s.WinningCells))
	}
	if len(s.Board) != Rows || len(s.Board[0]) != Cols {
		t.Error("Board snapshot has wrong dimensions")
	}
}

func TestStatusString(t *testing.T) {
	if StatusPlaying.String() != "playing" || StatusWon.String() != "won" || StatusDraw.String() != "draw" {
		t.Error("Status strings do not match playing/won/draw")
	}
}
