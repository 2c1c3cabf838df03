package game

import (
	"fmt"

	"github.com/tomalden/twospades/engine"
)

const (
	playerName   = "Tom"
	computerName = "Marta"
)

// SafeSide is the client-visible projection of one seat. The computer's
// Hand and Discarded card are omitted until the reveal rules allow them.
type SafeSide struct {
	Name      string        `json:"name"`
	Hand      []engine.Card `json:"hand,omitempty"`
	HandCount int           `json:"hand_count"`
	Discarded *engine.Card  `json:"discarded,omitempty"`
	Bid       *int          `json:"bid"`
	Blind     bool          `json:"blind"`
	Tricks    int           `json:"tricks"`
	Score     int           `json:"score"`
	BaseScore int           `json:"base_score"`
	Bags      int           `json:"bags"`
	Parity    string        `json:"parity"`
}

// SafeState is the sanitized game state sent to the browser. It never
// exposes the computer's hand (outside debug mode), the RNG state or
// the pending discard bonus, so a client cannot learn anything Tom
// could not see at a real table.
type SafeState struct {
	GameID     string `json:"game_id"`
	HandNumber int    `json:"hand_number"`
	Target     int    `json:"target_score"`

	Phase engine.Phase `json:"phase"`
	Turn  engine.Side  `json:"turn"`

	Player   SafeSide `json:"player"`
	Computer SafeSide `json:"computer"`

	CurrentTrick   []engine.Play `json:"current_trick"`
	TrickCompleted bool          `json:"trick_completed"`
	TrickWinner    string        `json:"trick_winner,omitempty"`
	TricksPlayed   int           `json:"tricks_played"`

	SpadesBroken          bool `json:"spades_broken"`
	BlindBiddingAvailable bool `json:"blind_bidding_available"`

	HandOver bool           `json:"hand_over"`
	GameOver bool           `json:"game_over"`
	Winner   engine.Outcome `json:"winner,omitempty"`

	Message            string              `json:"message"`
	DiscardExplanation string              `json:"discard_explanation,omitempty"`
	HandResults        *engine.HandResults `json:"hand_results,omitempty"`

	ShowComputerHand bool `json:"show_computer_hand"`
}

// displayName renders a seat as the UI shows it, e.g. "Tom (Even)".
func displayName(name string, parity engine.Parity) string {
	return fmt.Sprintf("%s (%s)", name, parity.Title())
}

// SafeState builds the sanitized projection of the current state.
func (g *SpadesGame) SafeState() *SafeState {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	e := g.Engine
	p, c := e.Player(), e.Computer()
	reveal := g.ShowComputerHand || e.GameOver

	st := &SafeState{
		GameID:     g.ID.String(),
		HandNumber: e.HandNumber,
		Target:     e.TargetScore,
		Phase:      e.Phase,
		Turn:       e.Turn,
		Player: SafeSide{
			Name:      displayName(playerName, p.Parity),
			Hand:      append([]engine.Card{}, p.Hand...),
			HandCount: len(p.Hand),
			Discarded: p.Discarded,
			Bid:       p.Bid,
			Blind:     p.IsBlind(),
			Tricks:    p.Tricks,
			Score:     engine.DisplayScore(p.Score, p.Bags),
			BaseScore: p.Score,
			Bags:      p.Bags,
			Parity:    string(p.Parity),
		},
		Computer: SafeSide{
			Name:      displayName(computerName, c.Parity),
			HandCount: len(c.Hand),
			Bid:       c.Bid,
			Blind:     c.IsBlind(),
			Tricks:    c.Tricks,
			Score:     engine.DisplayScore(c.Score, c.Bags),
			BaseScore: c.Score,
			Bags:      c.Bags,
			Parity:    string(c.Parity),
		},
		CurrentTrick:          append([]engine.Play{}, e.CurrentTrick...),
		TrickCompleted:        e.TrickCompleted,
		TricksPlayed:          len(e.TrickHistory),
		SpadesBroken:          e.SpadesBroken,
		BlindBiddingAvailable: e.BlindBiddingAvailable,
		HandOver:              e.HandOver,
		GameOver:              e.GameOver,
		Winner:                e.Winner,
		Message:               e.Message,
		ShowComputerHand:      g.ShowComputerHand,
	}

	if e.TrickCompleted {
		if e.TrickWinner == engine.SidePlayer {
			st.TrickWinner = playerName
		} else {
			st.TrickWinner = computerName
		}
	}

	if reveal {
		st.Computer.Hand = append([]engine.Card{}, c.Hand...)
		st.Computer.Discarded = c.Discarded
	}

	// The discard bonus stays face-down until settlement so the player
	// cannot deduce Marta's discard mid-hand.
	if e.HandOver {
		st.DiscardExplanation = e.DiscardExplanation
		st.HandResults = e.HandResults
		st.Computer.Discarded = c.Discarded
	}

	return st
}
