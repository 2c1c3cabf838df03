package engine

import "fmt"

const (
	// TotalTricks is the number of tricks in a hand after the discard.
	TotalTricks = 10

	// DefaultTargetScore ends the game when a display score reaches it.
	DefaultTargetScore = 300

	// MercyLead ends the game early when one side's display-score lead
	// reaches this margin.
	MercyLead = 300
)

// SideState holds everything the game tracks per seat.
type SideState struct {
	Hand          []Card `json:"hand"`
	Tricks        int    `json:"tricks"`
	Bid           *int   `json:"bid"`
	BlindBid      *int   `json:"blind_bid"`
	Score         int    `json:"score"`
	Bags          int    `json:"bags"`
	TrickSpecials int    `json:"trick_specials"`
	Discarded     *Card  `json:"discarded"`
	Parity        Parity `json:"parity"`
}

// IsBlind reports whether the seat's current bid was made blind.
func (s *SideState) IsBlind() bool {
	return s.Bid != nil && s.BlindBid != nil && *s.Bid == *s.BlindBid
}

// BidValue returns the seat's bid, or 0 if none has been made.
func (s *SideState) BidValue() int {
	if s.Bid == nil {
		return 0
	}
	return *s.Bid
}

// GameState is the complete, serializable state of one game. It is
// mutated exclusively through the action methods in actions.go; every
// mutator validates phase and turn first and leaves the state untouched
// on rejection.
type GameState struct {
	RNG         uint64 `json:"rng"`
	HandNumber  int    `json:"hand_number"`
	TargetScore int    `json:"target_score"`

	Phase Phase `json:"phase"`
	Turn  Side  `json:"turn"`

	Sides [2]SideState `json:"sides"`

	CurrentTrick   []Play        `json:"current_trick"`
	TrickLeader    Side          `json:"trick_leader"`
	TrickCompleted bool          `json:"trick_completed"`
	TrickWinner    Side          `json:"trick_winner"`
	TrickHistory   []TrickRecord `json:"trick_history"`

	FirstLeader  Side `json:"first_leader"`
	SpadesBroken bool `json:"spades_broken"`

	BlindDecisionMade     bool `json:"blind_decision_made"`
	BlindBiddingAvailable bool `json:"blind_bidding_available"`

	HandOver bool    `json:"hand_over"`
	GameOver bool    `json:"game_over"`
	Winner   Outcome `json:"winner"`

	Message string `json:"message"`

	PendingDiscard        *DiscardResult        `json:"pending_discard,omitempty"`
	PendingSpecialDiscard *SpecialDiscardResult `json:"pending_special_discard,omitempty"`
	DiscardExplanation    string                `json:"discard_explanation,omitempty"`
	HandResults           *HandResults          `json:"hand_results,omitempty"`

	// strategy tunes the computer opponent. Not serialized; callers
	// restore it after deserialization via SetStrategy, otherwise
	// DefaultStrategyConfig applies.
	strategy *StrategyConfig
}

// NewGame creates a fresh game: parity is assigned by coin flip (the
// odd seat leads the first trick), the deck shuffled and 11 cards dealt
// to each seat, and play opens in the discard phase.
func NewGame(seed uint64) *GameState {
	g := &GameState{
		RNG:         seed,
		HandNumber:  1,
		TargetScore: DefaultTargetScore,
		Phase:       PhaseDiscard,
		Turn:        SidePlayer,
	}
	if g.RNG == 0 {
		g.RNG = 1 // xorshift cannot start at 0
	}

	if g.randN(2) == 0 {
		g.Sides[SidePlayer].Parity = ParityEven
		g.Sides[SideComputer].Parity = ParityOdd
		g.FirstLeader = SideComputer
	} else {
		g.Sides[SidePlayer].Parity = ParityOdd
		g.Sides[SideComputer].Parity = ParityEven
		g.FirstLeader = SidePlayer
	}

	g.dealHands()
	g.Message = "Select a card to discard"
	return g
}

// SetStrategy installs the computer strategy tuning for this state.
func (g *GameState) SetStrategy(cfg *StrategyConfig) { g.strategy = cfg }

// strat returns the active strategy config, defaulting when unset.
func (g *GameState) strat() *StrategyConfig {
	if g.strategy == nil {
		def := DefaultStrategyConfig()
		g.strategy = &def
	}
	return g.strategy
}

// nextRand advances the xorshift64 state.
func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// Player and Computer return the respective seat states.
func (g *GameState) Player() *SideState   { return &g.Sides[SidePlayer] }
func (g *GameState) Computer() *SideState { return &g.Sides[SideComputer] }

// hand returns the hand of the given seat.
func (g *GameState) hand(s Side) []Card { return g.Sides[s].Hand }

// startNextHand re-deals for the next hand, preserving scores, bags and
// parity. The first lead alternates between hands.
func (g *GameState) startNextHand() {
	for i := range g.Sides {
		s := &g.Sides[i]
		s.Tricks = 0
		s.Bid = nil
		s.BlindBid = nil
		s.TrickSpecials = 0
		s.Discarded = nil
	}
	g.CurrentTrick = nil
	g.TrickCompleted = false
	g.TrickWinner = SidePlayer
	g.TrickLeader = SidePlayer
	g.TrickHistory = nil
	g.SpadesBroken = false
	g.BlindDecisionMade = false
	g.BlindBiddingAvailable = false
	g.HandOver = false
	g.Phase = PhaseDiscard
	g.Turn = SidePlayer
	g.PendingDiscard = nil
	g.PendingSpecialDiscard = nil
	g.DiscardExplanation = ""
	g.HandResults = nil
	g.FirstLeader = g.FirstLeader.Opponent()

	g.dealHands()
	g.Message = handMessage(g.HandNumber)
}

func handMessage(n int) string {
	return fmt.Sprintf("Hand #%d - Select a card to discard", n)
}
