// Package session maps browser sessions to game instances. Identity is
// an HS256-signed JWT carried in a cookie; the games themselves live in
// an in-memory store keyed by game ID. A token that fails to parse, or
// that names a game the store no longer holds, simply gets a fresh game.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tomalden/twospades/engine"
	"github.com/tomalden/twospades/internal/game"
)

// TokenLifetime bounds how long an abandoned game stays resumable.
const TokenLifetime = 7 * 24 * time.Hour

// Store holds all live games and mints the session tokens that point
// at them.
type Store struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*game.SpadesGame

	secret      []byte
	strategy    *engine.StrategyConfig
	targetScore int

	// seedFn supplies the deal seed for new games. Overridable in tests.
	seedFn func() uint64
}

// NewStore creates a store. A nil strategy config leaves games on
// engine defaults.
func NewStore(secret []byte, strategy *engine.StrategyConfig, targetScore int) *Store {
	return &Store{
		games:       make(map[uuid.UUID]*game.SpadesGame),
		secret:      secret,
		strategy:    strategy,
		targetScore: targetScore,
		seedFn:      func() uint64 { return uint64(time.Now().UnixNano()) },
	}
}

// Create starts a new game and registers it.
func (s *Store) Create() *game.SpadesGame {
	g := game.NewSpadesGame(s.seedFn(), s.strategy, s.targetScore)
	s.mu.Lock()
	s.games[g.ID] = g
	s.mu.Unlock()
	return g
}

// Get returns the game for an ID, if it is still live.
func (s *Store) Get(id uuid.UUID) (*game.SpadesGame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	return g, ok
}

// Delete removes a game from the store.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	delete(s.games, id)
	s.mu.Unlock()
}

// Len reports the number of live games.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// IssueToken mints the session JWT for a game.
func (s *Store) IssueToken(gameID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   gameID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session JWT and extracts the game ID.
func (s *Store) ParseToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse session token: %w", err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return uuid.Nil, fmt.Errorf("session token missing subject")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("session token subject: %w", err)
	}
	return id, nil
}

// Resolve maps a raw token to its live game. Missing, invalid or
// expired tokens and evicted games all resolve to a fresh game, so a
// returning player never sees an error for a stale cookie.
func (s *Store) Resolve(tokenStr string) (*game.SpadesGame, bool) {
	if tokenStr == "" {
		return s.Create(), true
	}
	id, err := s.ParseToken(tokenStr)
	if err != nil {
		logrus.WithError(err).Debug("stale session token, starting fresh game")
		return s.Create(), true
	}
	if g, ok := s.Get(id); ok {
		return g, false
	}
	return s.Create(), true
}
