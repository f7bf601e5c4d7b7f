package network

import (
	"encoding/json"

	"github.com/gravitas-015/hexutil/hex"
)

// Message types - Client → Server
const (
	MsgTypeJoin   = "join"
	MsgTypeLeave  = "leave"
	MsgTypeMove   = "move"
	MsgTypeTravel = "travel"
	MsgTypePick   = "pick"
	MsgTypeLook   = "look"
	MsgTypePing   = "ping"
)

// Message types - Server → Client
const (
	MsgTypeWelcome      = "welcome"
	MsgTypePlayerJoined = "player_joined"
	MsgTypePlayerLeft   = "player_left"
	MsgTypeView         = "view"
	MsgTypePath         = "path"
	MsgTypeMoved        = "moved"
	MsgTypeError        = "error"
	MsgTypePong         = "pong"
)

// Error codes sent in ErrorPayload.Code
const (
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeUnknownType    = "unknown_message_type"
	ErrCodeNotJoined      = "not_joined"
	ErrCodeJoinFailed     = "join_failed"
	ErrCodeSessionFull    = "session_full"
	ErrCodeBlocked        = "blocked"
	ErrCodeInvalidHex     = "invalid_hex"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Client Message Payloads ---

// JoinPayload is sent by client to join the session
type JoinPayload struct {
	Name string `json:"name"`
}

// MovePayload steps one hex in a canonical direction (0..5)
type MovePayload struct {
	Direction int `json:"direction"`
}

// TravelPayload asks for a route to a hex; the hex is encoded as [x, y]
type TravelPayload struct {
	To hex.Hex `json:"to"`
}

// PickPayload asks for a route to the hex under a pixel of the session grid
type PickPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// --- Server Message Payloads ---

// WelcomePayload is sent to client after joining
type WelcomePayload struct {
	PlayerID      string        `json:"player_id"`
	Name          string        `json:"name"`
	SessionID     string        `json:"session_id"`
	Position      hex.Hex       `json:"position"`
	Grid          hex.Grid      `json:"grid"`
	SessionStatus SessionStatus `json:"session_status"`
}

// PlayerJoinedPayload notifies clients when a player joins
type PlayerJoinedPayload struct {
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	Position hex.Hex `json:"position"`
}

// PlayerLeftPayload notifies clients when a player leaves
type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// VisibleHex is one entry of a view: the hex, its tile and the sides it is
// seen from
type VisibleHex struct {
	Hex  hex.Hex `json:"hex"`
	Tile string  `json:"tile"`
	Mask uint8   `json:"mask"`
}

// ViewPayload lists what a player currently sees
type ViewPayload struct {
	Position hex.Hex      `json:"position"`
	Visible  []VisibleHex `json:"visible"`
}

// PathPayload reports the outcome of a travel request
type PathPayload struct {
	Found    bool      `json:"found"`
	Path     []hex.Hex `json:"path"`
	Expanded int       `json:"expanded"`
}

// MovedPayload notifies clients of a position change
type MovedPayload struct {
	PlayerID string  `json:"player_id"`
	Position hex.Hex `json:"position"`
}

// SessionStatus represents the current session state
type SessionStatus struct {
	State       string `json:"state"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	ServerTick  int64  `json:"server_tick"`
	Uptime      int64  `json:"uptime"`
}

// PongPayload answers a ping
type PongPayload struct {
	Timestamp int64 `json:"timestamp"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
