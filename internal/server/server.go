// Package server exposes the game over a JSON HTTP API. Every mutating
// endpoint resolves the session cookie to a game, applies one action
// and answers with the sanitized state; rule violations come back as
// 400s with the engine's message, so the browser can surface them
// directly.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/tomalden/twospades/engine"
	"github.com/tomalden/twospades/internal/game"
	"github.com/tomalden/twospades/internal/session"
)

// SessionCookie is the name of the session token cookie.
const SessionCookie = "spades_session"

// Server routes the JSON API.
type Server struct {
	store *session.Store
	debug bool
	mux   *http.ServeMux
}

// New builds the server and its routes. debug gates the computer-hand
// reveal endpoint.
func New(store *session.Store, debug bool) *Server {
	s := &Server{
		store: store,
		debug: debug,
		mux:   http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /api/new_game", s.handleNewGame)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("POST /api/discard", s.action(func(g *game.SpadesGame, req actionRequest) error {
		return g.Discard(req.Index)
	}))
	s.mux.HandleFunc("POST /api/bid", s.action(func(g *game.SpadesGame, req actionRequest) error {
		return g.Bid(req.Bid)
	}))
	s.mux.HandleFunc("POST /api/blind_bid", s.action(func(g *game.SpadesGame, req actionRequest) error {
		return g.BlindBid(req.Bid)
	}))
	s.mux.HandleFunc("POST /api/blind_nil", s.action(func(g *game.SpadesGame, req actionRequest) error {
		return g.BlindNil()
	}))
	s.mux.HandleFunc("POST /api/blind_decision", s.action(func(g *game.SpadesGame, req actionRequest) error {
		return g.BlindDecision(req.GoBlind)
	}))
	s.mux.HandleFunc("POST /api/play", s.action(func(g *game.SpadesGame, req actionRequest) error {
		return g.PlayCard(req.Index)
	}))
	s.mux.HandleFunc("POST /api/clear_trick", s.action(func(g *game.SpadesGame, req actionRequest) error {
		return g.ClearTrick()
	}))
	s.mux.HandleFunc("POST /api/next_hand", s.action(func(g *game.SpadesGame, req actionRequest) error {
		return g.NextHand()
	}))
	s.mux.HandleFunc("POST /api/toggle_computer_hand", s.handleToggleComputerHand)

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// actionRequest is the union of all mutating request bodies. Endpoints
// read only the fields they need.
type actionRequest struct {
	Index   int  `json:"index"`
	Bid     int  `json:"bid"`
	GoBlind bool `json:"go_blind"`
}

// stateResponse is the standard success envelope.
type stateResponse struct {
	Success bool            `json:"success"`
	State   *game.SafeState `json:"state"`
}

// errorResponse is the standard failure envelope.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// resolveGame maps the request's session cookie to a game, minting a
// fresh game and cookie when the session is missing or stale.
func (s *Server) resolveGame(w http.ResponseWriter, r *http.Request) *game.SpadesGame {
	var token string
	if c, err := r.Cookie(SessionCookie); err == nil {
		token = c.Value
	}

	g, created := s.store.Resolve(token)
	if created {
		s.setSessionCookie(w, g)
	}
	return g
}

func (s *Server) setSessionCookie(w http.ResponseWriter, g *game.SpadesGame) {
	token, err := s.store.IssueToken(g.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to issue session token")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(session.TokenLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// handleNewGame always abandons the current session's game and starts
// a fresh one.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := s.store.ParseToken(c.Value); err == nil {
			s.store.Delete(id)
		}
	}
	g := s.store.Create()
	s.setSessionCookie(w, g)
	writeJSON(w, http.StatusOK, stateResponse{Success: true, State: g.SafeState()})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	g := s.resolveGame(w, r)
	writeJSON(w, http.StatusOK, stateResponse{Success: true, State: g.SafeState()})
}

// action wraps one game mutation as an HTTP handler.
func (s *Server) action(apply func(*game.SpadesGame, actionRequest) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g := s.resolveGame(w, r)

		var req actionRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
				return
			}
		}

		if err := apply(g, req); err != nil {
			if engine.IsRuleError(err) {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			logrus.WithError(err).WithField("game_id", g.ID).Error("action failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		writeJSON(w, http.StatusOK, stateResponse{Success: true, State: g.SafeState()})
	}
}

func (s *Server) handleToggleComputerHand(w http.ResponseWriter, r *http.Request) {
	if !s.debug {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "debug mode disabled"})
		return
	}
	g := s.resolveGame(w, r)
	g.ToggleComputerHand()
	writeJSON(w, http.StatusOK, stateResponse{Success: true, State: g.SafeState()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}
