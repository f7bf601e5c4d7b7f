package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gravitas-015/hexutil/hex"
	"github.com/gravitas-015/hexutil/internal/network"
	"github.com/gravitas-015/hexutil/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	// WebSocket connection
	ws *websocket.Conn

	// Server reference
	server *Server

	// Player information (set after authentication)
	player *models.Player
	joined atomic.Bool

	// Buffered channel for outbound messages
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once
	log       zerolog.Logger
}

// NewConnection creates a new connection for an authenticated player
func NewConnection(ws *websocket.Conn, server *Server, player *models.Player) *Connection {
	return &Connection{
		ws:     ws,
		server: server,
		player: player,
		send:   make(chan []byte, 256),
		done:   make(chan struct{}),
		log:    server.log.With().Str("player", player.ID).Logger(),
	}
}

// Handle manages the connection lifecycle
func (c *Connection) Handle() {
	// Set up connection parameters
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Start read and write pumps
	go c.writePump()
	c.readPump() // Blocking
}

// readPump pumps messages from the WebSocket connection to the session
func (c *Connection) readPump() {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("WebSocket read error")
			}
			return
		}

		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			c.log.Debug().Err(err).Msg("Failed to parse client message")
			c.SendError(network.ErrCodeInvalidMessage, "Failed to parse message")
			continue
		}

		c.handleMessage(&clientMsg)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Warn().Err(err).Msg("WebSocket write error")
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case <-c.server.ctx.Done():
			// Server shutting down
			return
		}
	}
}

// handleMessage routes messages to appropriate handlers
func (c *Connection) handleMessage(msg *network.ClientMessage) {
	c.log.Debug().Str("type", msg.Type).Msg("Received message")

	switch msg.Type {
	case network.MsgTypeJoin:
		c.handleJoin(msg.Payload)
		return
	case network.MsgTypePing:
		c.SendMessage(&network.ServerMessage{
			Type:    network.MsgTypePong,
			Payload: network.PongPayload{Timestamp: time.Now().Unix()},
		})
		return
	}

	if !c.joined.Load() {
		c.SendError(network.ErrCodeNotJoined, "Join the session first")
		return
	}

	session := c.server.session
	var err error
	switch msg.Type {
	case network.MsgTypeLeave:
		err = session.Leave(c.player.ID)
		c.joined.Store(false)

	case network.MsgTypeMove:
		var p network.MovePayload
		if err = decodePayload(msg.Payload, &p); err == nil {
			err = session.Move(c.player.ID, p.Direction)
		}

	case network.MsgTypeTravel:
		var p network.TravelPayload
		if err = decodePayload(msg.Payload, &p); err == nil {
			err = session.Travel(c.player.ID, p.To)
		}

	case network.MsgTypePick:
		var p network.PickPayload
		if err = decodePayload(msg.Payload, &p); err == nil {
			err = session.Pick(c.player.ID, p.X, p.Y)
		}

	case network.MsgTypeLook:
		err = session.Look(c.player.ID)

	default:
		c.log.Debug().Str("type", msg.Type).Msg("Unknown message type")
		c.SendError(network.ErrCodeUnknownType, "Unknown message type")
		return
	}

	if err != nil {
		c.SendError(errorCode(err), err.Error())
	}
}

// handleJoin handles player join requests
func (c *Connection) handleJoin(payload json.RawMessage) {
	// Once joined the player is shared with the session
	if c.joined.Load() {
		c.SendError(network.ErrCodeJoinFailed, fmt.Sprintf("%v: %s", ErrAlreadyJoined, c.player.ID))
		return
	}

	var p network.JoinPayload
	if err := decodePayload(payload, &p); err != nil {
		c.SendError(network.ErrCodeInvalidMessage, err.Error())
		return
	}
	if p.Name != "" {
		c.player.Name = p.Name
	}

	if err := c.server.session.Join(c.player, c); err != nil {
		c.log.Info().Err(err).Msg("Failed to add player to session")
		code := network.ErrCodeJoinFailed
		if errors.Is(err, ErrSessionFull) {
			code = network.ErrCodeSessionFull
		}
		c.SendError(code, err.Error())
		return
	}
	c.joined.Store(true)
}

// decodePayload unmarshals an optional payload; a missing payload leaves v
// at its zero value.
func decodePayload(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	return json.Unmarshal(payload, v)
}

// errorCode maps session errors to protocol error codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrBlocked):
		return network.ErrCodeBlocked
	case errors.Is(err, hex.ErrInvalidHex):
		return network.ErrCodeInvalidHex
	case errors.Is(err, ErrUnknownPlayer):
		return network.ErrCodeNotJoined
	case errors.Is(err, ErrSessionFull):
		return network.ErrCodeSessionFull
	}
	return network.ErrCodeInvalidMessage
}

// SendMessage queues a message for the client. Messages are dropped when the
// send buffer is full or the connection is closed.
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error().Err(err).Str("type", msg.Type).Msg("Failed to marshal message")
		return
	}

	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- data:
	default:
		c.log.Warn().Str("type", msg.Type).Msg("Send buffer full, dropping message")
	}
}

// SendError sends an error message to the client
func (c *Connection) SendError(code, message string) {
	c.SendMessage(errorMessage(code, message))
}

// Close removes the player from the session and stops the write pump.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		if c.joined.Swap(false) {
			if err := c.server.session.Leave(c.player.ID); err != nil {
				c.log.Debug().Err(err).Msg("Leave on close")
			}
		}
		close(c.done)
	})
}
