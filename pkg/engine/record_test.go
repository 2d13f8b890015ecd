package engine

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewGameIDUnique(t *testing.T) {
	a := NewGameID()
	b := NewGameID()
	if a == b {
		t.Errorf("two NewGameID calls returned the same ID %q", a)
	}
	if !strings.HasPrefix(a, "game_") {
		t.Errorf("ID %q missing game_ prefix", a)
	}
}

func TestRecorderFullGame(t *testing.T) {
	g := NewGame()
	rec := NewRecorder()
	id := rec.Start("test_game")
	if id != "test_game" {
		t.Errorf("Start returned %q, want %q", id, "test_game")
	}

	moves := []int{0, 1, 0, 1, 0, 1, 0}
	for i, col := range moves {
		mover := g.CurrentPlayer
		if err := g.MakeMove(col); err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
		rec.RecordMove(int(mover), col, g.Board, i+1)
	}

	out := rec.End(g)
	if out == nil {
		t.Fatal("End returned nil")
	}
	if out.GameID != "test_game" {
		t.Errorf("GameID = %q, want %q", out.GameID, "test_game")
	}
	if len(out.Moves) != len(moves) {
		t.Fatalf("recorded %d moves, want %d", len(out.Moves), len(moves))
	}
	if out.Result != "player1_won" {
		t.Errorf("Result = %q, want %q", out.Result, "player1_won")
	}
	if out.Winner != int(Player1) {
		t.Errorf("Winner = %d, want %d", out.Winner, Player1)
	}
	if out.StartTime == "" || out.EndTime == "" {
		t.Error("missing start or end time")
	}

	first := out.Moves[0]
	if first.MoveNumber != 1 || first.Player != int(Player1) || first.Column != 0 {
		t.Errorf("first move = %+v, want move 1 by player 1 in column 0", first)
	}
	// BoardState holds the board after the move.
	if first.BoardState[Rows-1][0] != int(Player1) {
		t.Error("first move board state missing the placed piece")
	}
}

func TestRecorderDrawResult(t *testing.T) {
	rec := NewRecorder()
	rec.Start("")

	g := &Game{Status: StatusDraw}
	out := rec.End(g)
	if out.Result != "draw" {
		t.Errorf("Result = %q, want %q", out.Result, "draw")
	}
	if out.Winner != 0 {
		t.Errorf("Winner = %d, want 0", out.Winner)
	}
}

func TestRecorderIdle(t *testing.T) {
	rec := NewRecorder()
	rec.RecordMove(1, 0, Board{}, 1)
	if out := rec.End(NewGame()); out != nil {
		t.Error("End on idle recorder returned a record")
	}
}

func TestGameRecordJSONSchema(t *testing.T) {
	g := NewGame()
	rec := NewRecorder()
	rec.Start("schema_game")
	mover := g.CurrentPlayer
	if err := g.MakeMove(3); err != nil {
		t.Fatal(err)
	}
	rec.RecordMove(int(mover), 3, g.Board, 1)
	out := rec.End(g)

	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"game_id", "start_time", "end_time", "moves", "final_board"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("JSON missing key %q", key)
		}
	}

	movesJSON := raw["moves"].([]interface{})
	move := movesJSON[0].(map[string]interface{})
	for _, key := range []string{"move_number", "player", "column", "board_state", "timestamp"} {
		if _, ok := move[key]; !ok {
			t.Errorf("move JSON missing key %q", key)
		}
	}
}
