// Package game wraps the engine in a service-level aggregate: one
// SpadesGame per browser session, with structured logging, historian
// records and database persistence layered around the pure engine.
package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tomalden/twospades/engine"
	"github.com/tomalden/twospades/internal/cache"
	"github.com/tomalden/twospades/internal/database"
)

// SpadesGame is the state and bookkeeping for a single game instance.
// All action methods take the mutex, so a session may serve concurrent
// requests without corrupting engine state.
type SpadesGame struct {
	ID        uuid.UUID
	CreatedAt time.Time

	// Engine is the authoritative game state.
	Engine *engine.GameState

	// ShowComputerHand reveals Marta's cards in SafeState. Debug only.
	ShowComputerHand bool

	Mu sync.Mutex

	actionIndex       int
	lastPersistedHand int
	finalized         bool
	log               *logrus.Entry
}

// NewSpadesGame creates a game from the given seed. A nil strategy
// config leaves the engine on its defaults; targetScore <= 0 keeps the
// standard target.
func NewSpadesGame(seed uint64, cfg *engine.StrategyConfig, targetScore int) *SpadesGame {
	id, _ := uuid.NewRandom()
	g := &SpadesGame{
		ID:        id,
		CreatedAt: time.Now(),
		Engine:    engine.NewGame(seed),
		log:       logrus.WithField("game_id", id),
	}
	if cfg != nil {
		g.Engine.SetStrategy(cfg)
	}
	if targetScore > 0 {
		g.Engine.TargetScore = targetScore
	}

	g.log.WithFields(logrus.Fields{
		"seed":   seed,
		"target": g.Engine.TargetScore,
	}).Info("game created")

	if database.DB != nil {
		go database.InsertInitialGameState(context.Background(), g.ID, seed)
	}
	return g
}

// Discard plays the player's face-down discard.
func (g *SpadesGame) Discard(index int) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.Engine.Discard(index); err != nil {
		return err
	}
	g.logAction("discard", map[string]interface{}{"index": index})
	g.afterAction()
	return nil
}

// Bid places the player's normal bid.
func (g *SpadesGame) Bid(bid int) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.Engine.Bid(bid); err != nil {
		return err
	}
	g.logAction("bid", map[string]interface{}{"bid": bid})
	g.afterAction()
	return nil
}

// BlindDecision records the player's choice at the blind fork.
func (g *SpadesGame) BlindDecision(goBlind bool) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.Engine.ChooseBlindDecision(goBlind); err != nil {
		return err
	}
	g.logAction("blind_decision", map[string]interface{}{"go_blind": goBlind})
	g.afterAction()
	return nil
}

// BlindBid places a blind bid of 5 to 10.
func (g *SpadesGame) BlindBid(bid int) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.Engine.BlindBid(bid); err != nil {
		return err
	}
	g.logAction("blind_bid", map[string]interface{}{"bid": bid})
	g.afterAction()
	return nil
}

// BlindNil places the all-or-nothing blind nil bid.
func (g *SpadesGame) BlindNil() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.Engine.BlindNil(); err != nil {
		return err
	}
	g.logAction("blind_nil", nil)
	g.afterAction()
	return nil
}

// PlayCard plays the card at index from the player's hand.
func (g *SpadesGame) PlayCard(index int) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.Engine.PlayCard(index); err != nil {
		return err
	}
	g.logAction("play", map[string]interface{}{"index": index})
	g.afterAction()
	return nil
}

// ClearTrick acknowledges a completed trick and advances play.
func (g *SpadesGame) ClearTrick() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.Engine.ClearTrick(); err != nil {
		return err
	}
	g.logAction("clear_trick", nil)
	g.afterAction()
	return nil
}

// NextHand deals the next hand after settlement.
func (g *SpadesGame) NextHand() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.Engine.NextHand(); err != nil {
		return err
	}
	g.logAction("next_hand", map[string]interface{}{"hand": g.Engine.HandNumber})
	return nil
}

// ToggleComputerHand flips the debug reveal of Marta's hand and returns
// the new setting.
func (g *SpadesGame) ToggleComputerHand() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	g.ShowComputerHand = !g.ShowComputerHand
	g.log.WithField("show", g.ShowComputerHand).Info("computer hand visibility toggled")
	return g.ShowComputerHand
}

// afterAction persists hand and game results once they appear. Called
// with the mutex held.
func (g *SpadesGame) afterAction() {
	e := g.Engine
	if e.HandResults != nil && e.HandResults.HandNumber > g.lastPersistedHand {
		g.lastPersistedHand = e.HandResults.HandNumber
		g.log.WithFields(logrus.Fields{
			"hand":           e.HandResults.HandNumber,
			"player_score":   e.HandResults.PlayerScore,
			"computer_score": e.HandResults.ComputerScore,
		}).Info("hand complete")
		if database.DB != nil {
			results := *e.HandResults
			go database.RecordHandResult(context.Background(), g.ID, results.HandNumber, results)
		}
	}
	if e.GameOver && !g.finalized {
		g.finalized = true
		p, c := e.Player(), e.Computer()
		playerDisplay := engine.DisplayScore(p.Score, p.Bags)
		computerDisplay := engine.DisplayScore(c.Score, c.Bags)
		g.log.WithFields(logrus.Fields{
			"winner":         e.Winner,
			"player_score":   playerDisplay,
			"computer_score": computerDisplay,
		}).Info("game over")
		if database.DB != nil {
			go database.FinalizeGameResult(context.Background(), g.ID, string(e.Winner), playerDisplay, computerDisplay)
		}
	}
}

// logAction publishes an accepted action to the historian queue.
// Fire-and-forget: gameplay never waits on Redis.
func (g *SpadesGame) logAction(actionType string, payload map[string]interface{}) {
	g.actionIndex++
	rec := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			g.log.WithError(err).WithField("action", actionType).Warn("failed to publish action record")
		}
	}()
}
