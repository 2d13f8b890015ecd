package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins - configure properly in production
	},
}

// WSMessage is a generic WebSocket message.
type WSMessage struct {
	Type    string          `json:"type"`    // Message type: "new", "join", "move", "reset", "ping"
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // Type-specific payload
}

// WSResponse is a generic WebSocket response.
type WSResponse struct {
	Type    string      `json:"type"`              // Response type: "state", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
}

// wsJoinRequest names the session a client attaches to.
type wsJoinRequest struct {
	GameID string `json:"game_id"`
}

// WSClient represents a connected WebSocket client playing one game at
// a time.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
	session  *GameSession
}

// WebSocket handles WebSocket connections for playing games over a
// single long-lived connection.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	client := &WSClient{conn: conn, handlers: h, sendChan: make(chan WSResponse, 256)}
	go client.writePump()
	client.readPump()
}

func (c *WSClient) writePump() {
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (c *WSClient) readPump() {
	defer func() { close(c.sendChan); c.conn.Close() }()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "new":
		c.handleNew(msg)
	case "join":
		c.handleJoin(msg)
	case "move":
		c.handleMove(msg)
	case "reset":
		c.handleReset(msg)
	case "ping":
		c.sendChan <- WSResponse{Type: "pong", ID: msg.ID}
	default:
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type"}
	}
}

func (c *WSClient) handleNew(msg WSMessage) {
	var req NewGameRequest
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
			return
		}
	}

	cfg := SessionConfig{
		HasAI:    req.HasAI,
		AIPlayer: uint8(req.AIPlayer),
		Store:    c.handlers.store,
		Pool:     c.handlers.pool,
	}
	if req.HasAI {
		cfg.Agent = c.handlers.newAgent(req.Depth)
	}

	sess := NewGameSession(cfg)
	c.handlers.sessions.Add(sess)
	c.session = sess

	state, _, err := sess.AIMoveIfDue(context.Background())
	if err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error()}
		return
	}
	c.sendChan <- WSResponse{Type: "state", ID: msg.ID, Payload: state}
}

func (c *WSClient) handleJoin(msg WSMessage) {
	var req wsJoinRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}
	sess, ok := c.handlers.sessions.Get(req.GameID)
	if !ok {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "game not found"}
		return
	}
	c.session = sess
	c.sendChan <- WSResponse{Type: "state", ID: msg.ID, Payload: sess.State()}
}

func (c *WSClient) handleMove(msg WSMessage) {
	if c.session == nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "no game joined"}
		return
	}
	var req MoveRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}
	state, err := c.session.MakeMove(context.Background(), req.Column)
	if err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error()}
		return
	}
	c.sendChan <- WSResponse{Type: "state", ID: msg.ID, Payload: state}
}

func (c *WSClient) handleReset(msg WSMessage) {
	if c.session == nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "no game joined"}
		return
	}
	c.session.Reset()
	state, _, err := c.session.AIMoveIfDue(context.Background())
	if err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error()}
		return
	}
	c.sendChan <- WSResponse{Type: "state", ID: msg.ID, Payload: state}
}
