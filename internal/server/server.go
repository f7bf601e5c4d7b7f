package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gravitas-015/hexutil/hex"
	"github.com/gravitas-015/hexutil/internal/config"
	"github.com/gravitas-015/hexutil/internal/level"
)

// Server serves one session over WebSocket
type Server struct {
	config   *config.Config
	session  *Session
	upgrader websocket.Upgrader
	httpSrv  *http.Server
	auth     *Authenticator
	redis    *redis.Client
	log      zerolog.Logger

	// Connection tracking
	connections map[*Connection]bool
	connMu      sync.RWMutex

	// Shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a server for lvl. Redis is only contacted when
// redis.address is set.
func New(cfg *config.Config, lvl *level.Level, logger zerolog.Logger) (*Server, error) {
	logger.Info().Msg("Initializing server...")

	ctx, cancel := context.WithCancel(context.Background())

	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			cancel()
			redisClient.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info().Str("address", cfg.Redis.Address).Msg("Connected to Redis")
	}

	session, err := NewSession("main", cfg, lvl, logger)
	if err != nil {
		cancel()
		if redisClient != nil {
			redisClient.Close()
		}
		return nil, err
	}

	srv := &Server{
		config:      cfg,
		session:     session,
		auth:        NewAuthenticator(cfg, redisClient, logger),
		redis:       redisClient,
		log:         logger,
		connections: make(map[*Connection]bool),
		ctx:         ctx,
		cancel:      cancel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Subprotocols:    []string{"access_token"},
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	logger.Info().Msg("Server initialized successfully")
	return srv, nil
}

// Session returns the served session.
func (s *Server) Session() *Session {
	return s.session
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/map.svg", s.handleMap)
	return mux
}

// Start runs the session loop and listens for connections until Shutdown.
func (s *Server) Start(addr string) error {
	go s.session.Run(s.ctx)

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.log.Info().
		Str("ws", fmt.Sprintf("ws://%s/ws", addr)).
		Str("health", fmt.Sprintf("http://%s/health", addr)).
		Str("map", fmt.Sprintf("http://%s/map.svg", addr)).
		Msg("Starting WebSocket server")

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	s.log.Info().Msg("Shutting down server...")

	// Cancel context to stop the session loop and write pumps
	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}

	s.connMu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.connMu.RUnlock()
	for _, conn := range conns {
		conn.Close()
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}

	s.log.Info().Msg("Server shutdown complete")
	return errors.Join(errs...)
}

// handleWebSocket authenticates and upgrades a connection request
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	log := s.log.With().Str("remote", r.RemoteAddr).Logger()

	player, err := s.auth.Authenticate(r.Context(), extractToken(r))
	if err != nil {
		log.Info().Err(err).Msg("Authentication failed")
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	conn := NewConnection(ws, s, player)

	s.connMu.Lock()
	s.connections[conn] = true
	s.connMu.Unlock()

	log.Info().Str("player", player.ID).Bool("anonymous", player.Anonymous).Msg("WebSocket connection established")

	// Blocks until the client goes away
	conn.Handle()

	s.connMu.Lock()
	delete(s.connections, conn)
	s.connMu.Unlock()

	log.Info().Str("player", player.ID).Msg("WebSocket connection closed")
}

// handleHealth reports liveness and the session status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"session": s.session.Status(),
	})
}

// handleMap paints the level as SVG. The optional x, y, w and h query
// parameters select a pixel rectangle of the session grid.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	var rect hex.Rectangle
	q := r.URL.Query()
	for _, f := range []struct {
		name string
		dst  *int
	}{{"x", &rect.X}, {"y", &rect.Y}, {"w", &rect.Width}, {"h", &rect.Height}} {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, fmt.Sprintf("bad %s: %v", f.name, err), http.StatusBadRequest)
			return
		}
		*f.dst = n
	}
	if rect.Width < 0 || rect.Height < 0 {
		http.Error(w, "w and h must not be negative", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := s.session.WriteSVG(w, rect); err != nil {
		s.log.Warn().Err(err).Msg("Failed to write map")
	}
}
