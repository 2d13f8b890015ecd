package engine

import (
	"errors"
	"testing"
)

// stubPredictor returns a fixed probability vector for every input, or a
// fixed error.
type stubPredictor struct {
	probs []float64
	err   error
	calls int
}

func (s *stubPredictor) PredictBatch(inputs [][]float32) ([][]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float64, len(inputs))
	for i := range out {
		out[i] = append([]float64(nil), s.probs...)
	}
	return out, nil
}

func TestPolicyAgentTakesWin(t *testing.T) {
	// The model points at column 6, but column 0 wins on the spot.
	b := mustBoard(t, "0000000/0000000/0000000/1000000/1000200/1000220")
	model := &stubPredictor{probs: []float64{0, 0, 0, 0, 0, 0, 1}}
	agent := NewPolicyAgent(model, 3, 1)

	if got := agent.GetMove(b, Player1); got != 0 {
		t.Errorf("GetMove = %d, want 0 (winning move)", got)
	}
	if model.calls != 0 {
		t.Error("model consulted despite an immediate win")
	}
}

func TestPolicyAgentBlocksWin(t *testing.T) {
	// Player 1 threatens at column 3; the model points elsewhere.
	b := mustBoard(t, "0000000/0000000/0000000/0000000/0000200/1110220")
	model := &stubPredictor{probs: []float64{0, 0, 0, 0, 0, 0, 1}}
	agent := NewPolicyAgent(model, 3, 1)

	if got := agent.GetMove(b, Player2); got != 3 {
		t.Errorf("GetMove = %d, want 3 (blocking move)", got)
	}
	if model.calls != 0 {
		t.Error("model consulted despite an immediate threat")
	}
}

func TestPolicyAgentFollowsModel(t *testing.T) {
	var b Board
	model := &stubPredictor{probs: []float64{0, 0, 0, 0, 0.9, 0.1, 0}}
	agent := NewPolicyAgent(model, 3, 1)

	if got := agent.GetMove(b, Player1); got != 4 {
		t.Errorf("GetMove = %d, want 4 (model argmax)", got)
	}
	if model.calls != 1 {
		t.Errorf("model called %d times, want 1", model.calls)
	}
}

func TestPolicyAgentMasksFullColumns(t *testing.T) {
	// The model's favorite column is full, so the mask must redirect
	// the pick to a legal one.
	var b Board
	for i := 0; i < Rows; i++ {
		b.Place(4, Player1)
	}
	model := &stubPredictor{probs: []float64{0, 0, 0, 0, 1, 0, 0}}
	agent := NewPolicyAgent(model, 3, 1)

	got := agent.GetMove(b, Player2)
	if got == 4 {
		t.Error("GetMove picked a full column")
	}
	if b.IsColumnFull(got) {
		t.Errorf("GetMove = %d, which is not playable", got)
	}
}

func TestPolicyAgentFallsBackOnModelError(t *testing.T) {
	var b Board
	model := &stubPredictor{err: errors.New("backend down")}
	agent := NewPolicyAgent(model, 3, 1)

	got := agent.GetMove(b, Player1)
	if got < 0 || got >= Cols {
		t.Errorf("GetMove = %d, want a legal column fallback", got)
	}
}

func TestPolicyAgentNilModel(t *testing.T) {
	var b Board
	agent := NewPolicyAgent(nil, 3, 1)

	got := agent.GetMove(b, Player1)
	if got < 0 || got >= Cols {
		t.Errorf("GetMove = %d, want a legal column fallback", got)
	}
}

func TestPolicyAgentInvalidChannels(t *testing.T) {
	agent := NewPolicyAgent(nil, 5, 1)
	if agent.Channels != 3 {
		t.Errorf("Channels = %d, want fallback 3", agent.Channels)
	}
}

func TestRandomAgentLegalMoves(t *testing.T) {
	b := mustBoard(t, "0000000/0000000/0000000/0000000/0000000/0000000")
	for i := 0; i < Rows; i++ {
		b.Place(0, Player1)
		b.Place(6, Player2)
	}

	agent := NewRandomAgent(42)
	for i := 0; i < 50; i++ {
		col := agent.GetMove(b, Player1)
		if b.IsColumnFull(col) {
			t.Fatalf("RandomAgent picked full column %d", col)
		}
	}
}
