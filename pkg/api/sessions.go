package api

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/yourusername/c4engine/pkg/engine"
)

// GameSession is one live game with its recorder and optional AI
// opponent. All access goes through the session's own lock so concurrent
// requests against the same game serialize cleanly.
type GameSession struct {
	ID       string
	HasAI    bool
	AIPlayer uint8

	mu        sync.Mutex
	game      *engine.Game
	agent     engine.Agent
	recorder  *engine.Recorder
	store     *engine.Store
	pool      *WorkerPool
	moveCount int
}

// SessionConfig configures a new game session.
type SessionConfig struct {
	HasAI    bool
	AIPlayer uint8        // defaults to player 2
	Agent    engine.Agent // required when HasAI is set
	Store    *engine.Store
	Pool     *WorkerPool
}

// NewGameSession creates a session with a fresh game and starts its
// recording.
func NewGameSession(cfg SessionConfig) *GameSession {
	if cfg.AIPlayer != engine.Player1 && cfg.AIPlayer != engine.Player2 {
		cfg.AIPlayer = engine.Player2
	}
	s := &GameSession{
		ID:       uuid.NewString(),
		HasAI:    cfg.HasAI,
		AIPlayer: cfg.AIPlayer,
		game:     engine.NewGame(),
		agent:    cfg.Agent,
		recorder: engine.NewRecorder(),
		store:    cfg.Store,
		pool:     cfg.Pool,
	}
	s.recorder.Start(s.ID)
	return s
}

// State returns the session state snapshot.
func (s *GameSession) State() GameResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.response()
}

// MakeMove applies the move for the player on turn and, when the game
// then stands on the AI's turn, lets the AI reply within the same call.
// Failed moves leave the session untouched and return the engine's
// sentinel error.
func (s *GameSession) MakeMove(ctx context.Context, col int) (GameResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.applyMove(col); err != nil {
		return s.response(), err
	}

	if s.HasAI && s.game.Status == engine.StatusPlaying && s.game.CurrentPlayer == s.AIPlayer {
		if err := s.aiMove(ctx); err != nil {
			return s.response(), err
		}
	}

	return s.response(), nil
}

// AIMoveIfDue makes the AI move when the game stands on the AI's turn,
// for sessions where the AI plays first.
func (s *GameSession) AIMoveIfDue(ctx context.Context) (GameResponse, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.HasAI || s.game.Status != engine.StatusPlaying || s.game.CurrentPlayer != s.AIPlayer {
		return s.response(), false, nil
	}
	if err := s.aiMove(ctx); err != nil {
		return s.response(), false, err
	}
	return s.response(), true, nil
}

// Reset restarts the game and recording.
func (s *GameSession) Reset() GameResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game.Reset()
	s.moveCount = 0
	s.recorder.Start(s.ID)
	return s.response()
}

func (s *GameSession) applyMove(col int) error {
	mover := s.game.CurrentPlayer
	if err := s.game.MakeMove(col); err != nil {
		return err
	}
	s.moveCount++
	s.recorder.RecordMove(int(mover), col, s.game.Board, s.moveCount)

	if s.game.IsOver() {
		rec := s.recorder.End(s.game)
		if s.store != nil && rec != nil {
			if err := s.store.SaveGame(rec); err != nil {
				log.Printf("session %s: saving record: %v", s.ID, err)
			}
		}
	}
	return nil
}

// aiMove runs the agent search under a slow pool slot so expensive
// searches cannot starve the rest of the server.
func (s *GameSession) aiMove(ctx context.Context) error {
	if s.agent == nil {
		return nil
	}
	if s.pool != nil {
		if err := s.pool.AcquireSlow(ctx); err != nil {
			return err
		}
		defer s.pool.ReleaseSlow()
	}
	col := s.agent.GetMove(s.game.Board, s.AIPlayer)
	return s.applyMove(col)
}

func (s *GameSession) response() GameResponse {
	state := s.game.State()
	return GameResponse{
		GameID:        s.ID,
		Board:         state.Board,
		CurrentPlayer: state.CurrentPlayer,
		Status:        state.Status,
		Winner:        state.Winner,
		WinningCells:  state.WinningCells,
		HasAI:         s.HasAI,
		AIPlayer:      int(s.AIPlayer),
	}
}

// SessionStore is the keyed registry of live game sessions.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*GameSession
}

// NewSessionStore returns an empty registry.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*GameSession)}
}

// Add registers a session under its ID.
func (s *SessionStore) Add(sess *GameSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

// Get looks up a session by ID.
func (s *SessionStore) Get(id string) (*GameSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Evict removes a session and reports whether it existed.
func (s *SessionStore) Evict(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Count returns the number of live sessions.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
