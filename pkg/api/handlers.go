package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yourusername/c4engine/pkg/engine"
)

// Handlers holds the HTTP handlers and their shared state.
type Handlers struct {
	sessions     *SessionStore
	store        *engine.Store
	pool         *WorkerPool
	version      string
	model        engine.Predictor
	channels     int
	defaultDepth int
}

// HandlersConfig configures a Handlers instance.
type HandlersConfig struct {
	Store        *engine.Store
	Pool         *WorkerPool
	Version      string
	Model        engine.Predictor // optional, search agent is used when nil
	Channels     int
	DefaultDepth int
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg HandlersConfig) *Handlers {
	if cfg.DefaultDepth <= 0 {
		cfg.DefaultDepth = engine.DefaultSearchDepth
	}
	return &Handlers{
		sessions:     NewSessionStore(),
		store:        cfg.Store,
		pool:         cfg.Pool,
		version:      cfg.Version,
		model:        cfg.Model,
		channels:     cfg.Channels,
		defaultDepth: cfg.DefaultDepth,
	}
}

// Sessions returns the session registry.
func (h *Handlers) Sessions() *SessionStore {
	return h.sessions
}

// newAgent builds the AI opponent for a session. The policy network is
// preferred when a model is loaded, otherwise minimax search at the
// requested depth.
func (h *Handlers) newAgent(depth int) engine.Agent {
	if h.model != nil {
		return engine.NewPolicyAgent(h.model, h.channels, 0)
	}
	if depth <= 0 {
		depth = h.defaultDepth
	}
	return engine.NewSearchAgent(depth)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// writeMoveError maps engine sentinel errors to HTTP responses.
func writeMoveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidColumn):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_COLUMN")
	case errors.Is(err, engine.ErrColumnFull):
		writeError(w, http.StatusConflict, err.Error(), "COLUMN_FULL")
	case errors.Is(err, engine.ErrGameOver):
		writeError(w, http.StatusConflict, err.Error(), "GAME_OVER")
	default:
		writeError(w, http.StatusInternalServerError, err.Error(), "MOVE_ERROR")
	}
}

// acquireFast takes a fast pool slot for the request, reporting busy on
// failure. Returns false when the caller should bail out.
func (h *Handlers) acquireFast(w http.ResponseWriter, r *http.Request) bool {
	if h.pool == nil {
		return true
	}
	if err := h.pool.AcquireFast(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
		return false
	}
	return true
}

func (h *Handlers) releaseFast() {
	if h.pool != nil {
		h.pool.ReleaseFast()
	}
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Version:  h.version,
		Sessions: h.sessions.Count(),
		Model:    h.model != nil,
	}

	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}

	writeJSON(w, http.StatusOK, resp)
}

// NewGame handles POST /api/games
func (h *Handlers) NewGame(w http.ResponseWriter, r *http.Request) {
	if !h.acquireFast(w, r) {
		return
	}
	defer h.releaseFast()

	var req NewGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
			return
		}
	}

	if req.AIPlayer != 0 && req.AIPlayer != int(engine.Player1) && req.AIPlayer != int(engine.Player2) {
		writeError(w, http.StatusBadRequest, "ai_player must be 1 or 2", "INVALID_PLAYER")
		return
	}

	cfg := SessionConfig{
		HasAI:    req.HasAI,
		AIPlayer: uint8(req.AIPlayer),
		Store:    h.store,
		Pool:     h.pool,
	}
	if req.HasAI {
		cfg.Agent = h.newAgent(req.Depth)
	}

	sess := NewGameSession(cfg)
	h.sessions.Add(sess)

	// When the AI owns the first move it plays before the session is
	// returned, so the client always moves from a settled position.
	resp, _, err := sess.AIMoveIfDue(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "AI_ERROR")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// GetGame handles GET /api/games/{id}
func (h *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "game not found", "GAME_NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, sess.State())
}

// Move handles POST /api/games/{id}/move
func (h *Handlers) Move(w http.ResponseWriter, r *http.Request) {
	if !h.acquireFast(w, r) {
		return
	}
	defer h.releaseFast()

	sess, ok := h.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "game not found", "GAME_NOT_FOUND")
		return
	}

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	resp, err := sess.MakeMove(r.Context(), req.Column)
	if err != nil {
		writeMoveError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Reset handles POST /api/games/{id}/reset
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	if !h.acquireFast(w, r) {
		return
	}
	defer h.releaseFast()

	sess, ok := h.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "game not found", "GAME_NOT_FOUND")
		return
	}

	sess.Reset()

	resp, _, err := sess.AIMoveIfDue(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "AI_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// DeleteGame handles DELETE /api/games/{id}
func (h *Handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Evict(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "game not found", "GAME_NOT_FOUND")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
