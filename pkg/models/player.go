package models

import (
	"time"

	"github.com/gravitas-015/hexutil/hex"
)

// Player represents a player in the session
type Player struct {
	// From JWT claims, or a random uuid for anonymous players
	ID        string `json:"id"`
	Name      string `json:"name"`
	Anonymous bool   `json:"anonymous"`

	// Connection state
	Connected   bool      `json:"connected"`
	ConnectedAt time.Time `json:"connected_at"`
	LastSeen    time.Time `json:"last_seen"`

	// Session state
	SessionID string  `json:"session_id"`
	Position  hex.Hex `json:"position"`

	// Remaining hexes of the route being walked, next step first
	Route []hex.Hex `json:"route,omitempty"`
}

// Traveling reports whether the player is walking a route.
func (p *Player) Traveling() bool {
	return len(p.Route) > 0
}

// NextStep pops the next hex of the route.
func (p *Player) NextStep() (hex.Hex, bool) {
	if len(p.Route) == 0 {
		return p.Position, false
	}
	next := p.Route[0]
	p.Route = p.Route[1:]
	return next, true
}

// Touch records activity.
func (p *Player) Touch(now time.Time) {
	p.LastSeen = now
}
