package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gravitas-015/hexutil/internal/config"
	"github.com/gravitas-015/hexutil/pkg/models"
)

var (
	// ErrMissingToken is returned when authentication is enabled and the
	// request carries no token.
	ErrMissingToken = errors.New("missing authentication token")
	// ErrInvalidToken wraps every token parsing and validation failure.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenRevoked is returned for players on the redis blacklist.
	ErrTokenRevoked = errors.New("token is blacklisted")
)

// Claims represents the JWT claims of a player token
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Authenticator turns request tokens into players. Without a secret every
// request gets an anonymous player.
type Authenticator struct {
	secret          []byte
	issuer          string
	blacklistPrefix string
	redis           *redis.Client
	log             zerolog.Logger
}

// NewAuthenticator creates an authenticator; redisClient may be nil.
func NewAuthenticator(cfg *config.Config, redisClient *redis.Client, logger zerolog.Logger) *Authenticator {
	a := &Authenticator{
		secret:          []byte(cfg.Auth.Secret),
		issuer:          cfg.Auth.Issuer,
		blacklistPrefix: cfg.Redis.BlacklistPrefix,
		redis:           redisClient,
		log:             logger.With().Str("component", "auth").Logger(),
	}
	if a.Enabled() {
		a.log.Info().Str("issuer", a.issuer).Bool("blacklist", redisClient != nil).Msg("Token authentication enabled")
	} else {
		a.log.Warn().Msg("No auth secret configured, players connect anonymously")
	}
	return a
}

// Enabled reports whether tokens are required.
func (a *Authenticator) Enabled() bool {
	return len(a.secret) > 0
}

// Authenticate validates tokenString and returns the player it names.
func (a *Authenticator) Authenticate(ctx context.Context, tokenString string) (*models.Player, error) {
	if !a.Enabled() {
		id := uuid.NewString()
		return &models.Player{
			ID:        id,
			Name:      "guest-" + id[:8],
			Anonymous: true,
		}, nil
	}
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: unexpected claims", ErrInvalidToken)
	}
	id := claims.UserID
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return nil, fmt.Errorf("%w: no user_id or sub claim", ErrInvalidToken)
	}

	if a.redis != nil {
		n, err := a.redis.Exists(ctx, a.blacklistPrefix+id).Result()
		if err != nil {
			// Redis being down does not lock players out
			a.log.Warn().Err(err).Str("player", id).Msg("Failed to check blacklist")
		} else if n > 0 {
			return nil, ErrTokenRevoked
		}
	}

	name := claims.Name
	if name == "" {
		name = id
	}
	return &models.Player{ID: id, Name: name}, nil
}

// extractToken finds the player token of a WebSocket upgrade request
func extractToken(r *http.Request) string {
	// Sec-WebSocket-Protocol: access_token, <token>
	if protocols := r.Header.Get("Sec-WebSocket-Protocol"); protocols != "" {
		parts := strings.Split(protocols, ",")
		if len(parts) == 2 && strings.TrimSpace(parts[0]) == "access_token" {
			return strings.TrimSpace(parts[1])
		}
	}

	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && token != "" {
		return token
	}

	// Query parameter, for clients that cannot set headers
	return r.URL.Query().Get("token")
}
