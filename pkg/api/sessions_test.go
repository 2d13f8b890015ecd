package api

import (
	"context"
	"testing"

	"github.com/yourusername/c4engine/pkg/engine"
)

func TestSessionSavesRecordOnGameOver(t *testing.T) {
	store, err := engine.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sess := NewGameSession(SessionConfig{Store: store})

	ctx := context.Background()
	for _, col := range []int{0, 1, 0, 1, 0, 1, 0} {
		if _, err := sess.MakeMove(ctx, col); err != nil {
			t.Fatalf("move in column %d: %v", col, err)
		}
	}

	if sess.State().Status != "won" {
		t.Fatal("setup game not won")
	}

	ids, err := store.ListGames()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != sess.ID {
		t.Errorf("stored games = %v, want exactly the session's game", ids)
	}

	rec, err := store.LoadGame(sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Result != "player1_won" {
		t.Errorf("Result = %q, want player1_won", rec.Result)
	}
	if len(rec.Moves) != 7 {
		t.Errorf("record has %d moves, want 7", len(rec.Moves))
	}
}

func TestSessionResetStartsFreshRecording(t *testing.T) {
	sess := NewGameSession(SessionConfig{})
	ctx := context.Background()

	if _, err := sess.MakeMove(ctx, 3); err != nil {
		t.Fatal(err)
	}
	state := sess.Reset()
	if countPieces(state.Board) != 0 || state.CurrentPlayer != 1 {
		t.Error("Reset did not clear the game")
	}
}

func TestSessionStoreRegistry(t *testing.T) {
	reg := NewSessionStore()
	if reg.Count() != 0 {
		t.Fatal("new registry not empty")
	}

	sess := NewGameSession(SessionConfig{})
	reg.Add(sess)
	if reg.Count() != 1 {
		t.Errorf("Count = %d, want 1", reg.Count())
	}

	got, ok := reg.Get(sess.ID)
	if !ok || got != sess {
		t.Error("Get did not return the registered session")
	}

	if !reg.Evict(sess.ID) {
		t.Error("Evict returned false for a live session")
	}
	if reg.Evict(sess.ID) {
		t.Error("Evict returned true for a missing session")
	}
	if _, ok := reg.Get(sess.ID); ok {
		t.Error("Get found an evicted session")
	}
}
