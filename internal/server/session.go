package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gravitas-015/hexutil/fov"
	"github.com/gravitas-015/hexutil/hex"
	"github.com/gravitas-015/hexutil/internal/config"
	"github.com/gravitas-015/hexutil/internal/level"
	"github.com/gravitas-015/hexutil/internal/network"
	"github.com/gravitas-015/hexutil/path"
	"github.com/gravitas-015/hexutil/pkg/models"
)

var (
	// ErrSessionFull is returned when max_players are already joined.
	ErrSessionFull = errors.New("session is full")
	// ErrUnknownPlayer is returned for player IDs not in the session.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrAlreadyJoined is returned when a player ID joins twice.
	ErrAlreadyJoined = errors.New("player already joined")
	// ErrBlocked is returned for moves or travel into impassable hexes.
	ErrBlocked = errors.New("hex is not passable")
	// ErrInvalidDirection is returned for directions outside 0..5.
	ErrInvalidDirection = errors.New("direction must be in 0..5")
	// ErrNoSpawn is returned for levels without a single floor hex.
	ErrNoSpawn = errors.New("level has no floor to spawn on")
)

// Sender receives messages for one player.
type Sender interface {
	SendMessage(msg *network.ServerMessage)
}

// Session is a shared level walked by connected players. Every exported
// method is safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	// Player management
	players map[string]*models.Player // playerID -> Player
	senders map[string]Sender         // playerID -> Sender
	finders map[string]*path.Finder   // playerID -> pending route search
	mu      sync.RWMutex

	level *level.Level
	light fov.Visibility
	grid  hex.Grid
	spawn hex.Hex
	tick  int64
	state string

	config *config.Config
	log    zerolog.Logger
}

// NewSession creates a session on lvl. Players spawn on the level's player
// start, or on its first floor hex when it has none.
func NewSession(id string, cfg *config.Config, lvl *level.Level, logger zerolog.Logger) (*Session, error) {
	spawn, err := lvl.Player()
	if errors.Is(err, level.ErrNoPlayer) {
		floors := lvl.Floors()
		if len(floors) == 0 {
			return nil, fmt.Errorf("session %s: %w", id, ErrNoSpawn)
		}
		spawn = floors[0]
	}

	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		players:   make(map[string]*models.Player),
		senders:   make(map[string]Sender),
		finders:   make(map[string]*path.Finder),
		level:     lvl,
		light:     lvl.Light(cfg.View.MaxDistance),
		grid:      cfg.HexGrid(),
		spawn:     spawn,
		state:     "waiting",
		config:    cfg,
		log:       logger.With().Str("session", id).Logger(),
	}

	s.log.Info().
		Int("tiles", lvl.Len()).
		Int("lamps", len(lvl.Lamps())).
		Stringer("spawn", spawn).
		Msg("Session created")
	return s, nil
}

// Run ticks the session at server.tick_rate until ctx is done.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(s.config.Server.TickRate))
	defer ticker.Stop()

	s.mu.Lock()
	s.state = "running"
	s.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.state = "stopped"
			s.mu.Unlock()
			s.log.Info().Int64("tick", s.Tick()).Msg("Session stopped")
			return
		case <-ticker.C:
			s.Step()
		}
	}
}

// Step advances the session one tick: walking players move one hex along
// their route, then every pending route search runs path.steps_per_tick
// expansions.
func (s *Session) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick++
	for _, id := range slices.Sorted(maps.Keys(s.players)) {
		p := s.players[id]
		next, ok := p.NextStep()
		if !ok {
			continue
		}
		if !s.level.Passable(next) {
			p.Route = nil
			s.sendLocked(id, errorMessage(network.ErrCodeBlocked, ErrBlocked.Error()))
			continue
		}
		s.moveLocked(p, next)
	}

	for _, id := range slices.Sorted(maps.Keys(s.finders)) {
		f := s.finders[id]
		f.RunN(s.config.Path.StepsPerTick)
		if !f.Done() {
			continue
		}
		delete(s.finders, id)

		route := f.Path()
		s.log.Debug().
			Str("player", id).
			Bool("found", f.Found()).
			Int("expanded", f.Expanded()).
			Int("length", len(route)).
			Msg("Route search finished")

		if p, ok := s.players[id]; ok && f.Found() {
			p.Route = route[1:]
		}
		s.sendLocked(id, &network.ServerMessage{
			Type: network.MsgTypePath,
			Payload: network.PathPayload{
				Found:    f.Found(),
				Path:     route,
				Expanded: f.Expanded(),
			},
		})
	}
}

// Join adds a player at the spawn hex, welcomes it, announces it to the
// other players and sends its first view.
func (s *Session) Join(player *models.Player, sender Sender) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.players[player.ID]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyJoined, player.ID)
	}
	if len(s.players) >= s.config.Session.MaxPlayers {
		return ErrSessionFull
	}

	now := time.Now()
	player.Connected = true
	player.ConnectedAt = now
	player.LastSeen = now
	player.SessionID = s.ID
	player.Position = s.spawn
	player.Route = nil

	s.players[player.ID] = player
	s.senders[player.ID] = sender

	sender.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeWelcome,
		Payload: network.WelcomePayload{
			PlayerID:      player.ID,
			Name:          player.Name,
			SessionID:     s.ID,
			Position:      player.Position,
			Grid:          s.grid,
			SessionStatus: s.statusLocked(),
		},
	})
	s.broadcastLocked(player.ID, &network.ServerMessage{
		Type: network.MsgTypePlayerJoined,
		Payload: network.PlayerJoinedPayload{
			PlayerID: player.ID,
			Name:     player.Name,
			Position: player.Position,
		},
	})
	s.sendLocked(player.ID, s.viewLocked(player))

	s.log.Info().Str("player", player.ID).Str("name", player.Name).Msg("Player joined")
	return nil
}

// Leave removes a player and tells the others.
func (s *Session) Leave(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, exists := s.players[playerID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	player.Connected = false
	delete(s.players, playerID)
	delete(s.senders, playerID)
	delete(s.finders, playerID)

	s.broadcastLocked("", &network.ServerMessage{
		Type: network.MsgTypePlayerLeft,
		Payload: network.PlayerLeftPayload{
			PlayerID: playerID,
			Name:     player.Name,
		},
	})
	s.log.Info().Str("player", playerID).Msg("Player left")
	return nil
}

// Move steps a player one hex in direction, cancelling any travel.
func (s *Session) Move(playerID string, direction int) error {
	if direction < 0 || direction >= len(hex.Directions) {
		return fmt.Errorf("%w: %d", ErrInvalidDirection, direction)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.playerLocked(playerID)
	if err != nil {
		return err
	}
	next := player.Position.Neighbour(direction)
	if !s.level.Passable(next) {
		return fmt.Errorf("%w: %v", ErrBlocked, next)
	}
	player.Route = nil
	delete(s.finders, playerID)
	s.moveLocked(player, next)
	return nil
}

// Travel starts a route search from the player's position to dest. The
// search runs incrementally on the session tick; its result arrives as a
// path message and a found route is then walked one hex per tick.
func (s *Session) Travel(playerID string, dest hex.Hex) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.playerLocked(playerID)
	if err != nil {
		return err
	}
	if !s.level.Passable(dest) {
		return fmt.Errorf("%w: %v", ErrBlocked, dest)
	}
	player.Route = nil
	s.finders[playerID] = path.NewFinder(player.Position, dest, s.level.Passable, path.WithCost(s.level.Cost))
	return nil
}

// Pick travels to the hex under pixel (x, y) of the session grid.
func (s *Session) Pick(playerID string, x, y int) error {
	return s.Travel(playerID, s.grid.HexAt(x, y))
}

// Look resends the player's view.
func (s *Session) Look(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.playerLocked(playerID)
	if err != nil {
		return err
	}
	player.Touch(time.Now())
	s.sendLocked(playerID, s.viewLocked(player))
	return nil
}

// View returns what the player currently sees.
func (s *Session) View(playerID string) (network.ViewPayload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, err := s.playerLocked(playerID)
	if err != nil {
		return network.ViewPayload{}, err
	}
	return s.viewLocked(player).Payload.(network.ViewPayload), nil
}

// GetPlayer retrieves a copy of a player by ID
func (s *Session) GetPlayer(playerID string) (models.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, exists := s.players[playerID]
	if !exists {
		return models.Player{}, false
	}
	out := *player
	out.Route = slices.Clone(player.Route)
	return out, true
}

// Traveling reports whether a player has a route search or a route pending.
func (s *Session) Traveling(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, searching := s.finders[playerID]
	player, ok := s.players[playerID]
	return searching || (ok && player.Traveling())
}

// Status returns the current session status
func (s *Session) Status() network.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusLocked()
}

// Tick returns the number of ticks run so far.
func (s *Session) Tick() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// WriteSVG paints the part of the level inside r. An empty rectangle
// selects the whole level.
func (s *Session) WriteSVG(w io.Writer, r hex.Rectangle) error {
	if r.Width <= 0 || r.Height <= 0 {
		r = s.level.PixelBounds(s.grid)
	}
	return s.level.WriteSVG(w, s.grid, r, level.RenderOptions{})
}

func (s *Session) playerLocked(playerID string) (*models.Player, error) {
	player, ok := s.players[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	return player, nil
}

func (s *Session) moveLocked(player *models.Player, to hex.Hex) {
	player.Position = to
	player.Touch(time.Now())
	s.broadcastLocked("", &network.ServerMessage{
		Type: network.MsgTypeMoved,
		Payload: network.MovedPayload{
			PlayerID: player.ID,
			Position: to,
		},
	})
	s.sendLocked(player.ID, s.viewLocked(player))
}

// viewLocked combines the player's field of view with lamp light when the
// level has lamps.
func (s *Session) viewLocked(player *models.Player) *network.ServerMessage {
	vis := fov.FieldOfView(player.Position, s.level.Transparent, s.config.View.MaxDistance)
	visible := make([]network.VisibleHex, 0, len(vis))
	for _, h := range slices.SortedFunc(maps.Keys(vis), hex.Hex.Compare) {
		mask := vis[h]
		if s.light != nil {
			mask &= s.light[h]
		}
		if mask == 0 {
			continue
		}
		visible = append(visible, network.VisibleHex{
			Hex:  h,
			Tile: s.level.Tile(h).String(),
			Mask: uint8(mask),
		})
	}
	return &network.ServerMessage{
		Type: network.MsgTypeView,
		Payload: network.ViewPayload{
			Position: player.Position,
			Visible:  visible,
		},
	}
}

func (s *Session) statusLocked() network.SessionStatus {
	return network.SessionStatus{
		State:       s.state,
		PlayerCount: len(s.players),
		MaxPlayers:  s.config.Session.MaxPlayers,
		ServerTick:  s.tick,
		Uptime:      int64(time.Since(s.CreatedAt).Seconds()),
	}
}

func (s *Session) sendLocked(playerID string, msg *network.ServerMessage) {
	if sender, ok := s.senders[playerID]; ok {
		sender.SendMessage(msg)
	}
}

// broadcastLocked sends msg to every player except the one named by exclude.
func (s *Session) broadcastLocked(exclude string, msg *network.ServerMessage) {
	for id, sender := range s.senders {
		if id != exclude {
			sender.SendMessage(msg)
		}
	}
}

func errorMessage(code, message string) *network.ServerMessage {
	return &network.ServerMessage{
		Type: network.MsgTypeError,
		Payload: network.ErrorPayload{
			Code:    code,
			Message: message,
		},
	}
}
