// Package engine implements the Two-Man Spades rules: the reduced-deck
// deal, parity discard scoring, bag accounting, blind bidding and the
// phase machine that drives a hand from discard to settlement.
//
// The engine is pure and deterministic: all randomness flows through an
// xorshift64 state carried inside GameState, so a serialized state
// round-trips to identical subsequent behavior.
package engine

import (
	"encoding/json"
	"fmt"
)

// Suit identifies one of the four suits. The numeric order is the
// canonical display order (clubs, diamonds, hearts, spades).
type Suit uint8

const (
	SuitClubs Suit = iota
	SuitDiamonds
	SuitHearts
	SuitSpades
)

var suitSymbols = [4]string{"♣", "♦", "♥", "♠"}

// Symbol returns the unicode symbol used on the wire and in messages.
func (s Suit) Symbol() string {
	if s > SuitSpades {
		return "?"
	}
	return suitSymbols[s]
}

func (s Suit) String() string { return s.Symbol() }

// MarshalJSON encodes the suit as its symbol, matching the client contract.
func (s Suit) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Symbol())
}

// UnmarshalJSON decodes a suit symbol.
func (s *Suit) UnmarshalJSON(data []byte) error {
	var sym string
	if err := json.Unmarshal(data, &sym); err != nil {
		return err
	}
	for i, v := range suitSymbols {
		if v == sym {
			*s = Suit(i)
			return nil
		}
	}
	return fmt.Errorf("unknown suit %q", sym)
}

// Rank is the trick-play rank of a card, 2–14 with ace high.
type Rank uint8

const (
	RankTwo   Rank = 2
	RankThree Rank = 3
	RankFour  Rank = 4
	RankFive  Rank = 5
	RankSix   Rank = 6
	RankSeven Rank = 7
	RankEight Rank = 8
	RankNine  Rank = 9
	RankTen   Rank = 10
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
	RankAce   Rank = 14
)

// String returns the display rank ("2".."10", "J", "Q", "K", "A").
func (r Rank) String() string {
	switch r {
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	case RankAce:
		return "A"
	default:
		return fmt.Sprintf("%d", uint8(r))
	}
}

// MarshalJSON encodes the rank as its display string.
func (r Rank) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a display rank string.
func (r *Rank) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "J":
		*r = RankJack
	case "Q":
		*r = RankQueen
	case "K":
		*r = RankKing
	case "A":
		*r = RankAce
	default:
		var n uint8
		if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n < 2 || n > 10 {
			return fmt.Errorf("unknown rank %q", s)
		}
		*r = Rank(n)
	}
	return nil
}

// Card is an immutable rank/suit pair.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// Value returns the trick-play value: 2–10 face, J=11, Q=12, K=13, A=14.
func (c Card) Value() int { return int(c.Rank) }

// DiscardValue returns the discard-scoring value, where the ace counts
// as 1 instead of 14. All other ranks match their trick value.
func (c Card) DiscardValue() int {
	if c.Rank == RankAce {
		return 1
	}
	return int(c.Rank)
}

// SpecialBagReduction returns the number of bags claiming this card
// removes: 2 for the 7♦, 1 for the 10♣, 0 otherwise.
func (c Card) SpecialBagReduction() int {
	switch {
	case c.Rank == RankSeven && c.Suit == SuitDiamonds:
		return 2
	case c.Rank == RankTen && c.Suit == SuitClubs:
		return 1
	default:
		return 0
	}
}

// IsSpecial reports whether the card is one of the bag-reducing cards.
func (c Card) IsSpecial() bool { return c.SpecialBagReduction() > 0 }

// IsTrump reports whether the card is a spade.
func (c Card) IsTrump() bool { return c.Suit == SuitSpades }

func (c Card) String() string { return c.Rank.String() + c.Suit.Symbol() }

// Side identifies one of the two seats.
type Side uint8

const (
	SidePlayer Side = iota
	SideComputer
)

var sideNames = [2]string{"player", "computer"}

// Opponent returns the other seat.
func (s Side) Opponent() Side { return 1 - s }

func (s Side) String() string {
	if s > SideComputer {
		return "unknown"
	}
	return sideNames[s]
}

// MarshalJSON encodes the side as "player" or "computer".
func (s Side) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a side name.
func (s *Side) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, v := range sideNames {
		if v == name {
			*s = Side(i)
			return nil
		}
	}
	return fmt.Errorf("unknown side %q", name)
}

// Parity is the per-game even/odd assignment used for discard bonuses.
type Parity string

const (
	ParityEven Parity = "even"
	ParityOdd  Parity = "odd"
)

// Matches reports whether a total of the given parity awards this side.
func (p Parity) Matches(totalIsEven bool) bool {
	return (p == ParityEven) == totalIsEven
}

// Title returns the capitalized form for display ("Even"/"Odd").
func (p Parity) Title() string {
	if p == ParityEven {
		return "Even"
	}
	return "Odd"
}

// Phase is the current stage of a hand.
type Phase string

const (
	PhaseDiscard       Phase = "discard"
	PhaseBlindDecision Phase = "blind_decision"
	PhaseBlindBidding  Phase = "blind_bidding"
	PhaseBidding       Phase = "bidding"
	PhasePlaying       Phase = "playing"
)

// Outcome names the winner of a finished game.
type Outcome string

const (
	OutcomeNone     Outcome = ""
	OutcomePlayer   Outcome = "player"
	OutcomeComputer Outcome = "computer"
	OutcomeTie      Outcome = "tie"
)

// outcomeFor maps a winning side to its Outcome.
func outcomeFor(s Side) Outcome {
	if s == SidePlayer {
		return OutcomePlayer
	}
	return OutcomeComputer
}

// Play is a single card played into the current trick.
type Play struct {
	Side Side `json:"side"`
	Card Card `json:"card"`
}

// TrickRecord is one completed trick as kept in the per-hand history.
type TrickRecord struct {
	Number       int   `json:"number"`
	PlayerCard   *Card `json:"player_card"`
	ComputerCard *Card `json:"computer_card"`
	Winner       Side  `json:"winner"`
}

// RuleError is a rejected action: wrong phase, wrong turn, out-of-range
// index or an illegal play. The game state is guaranteed unchanged.
type RuleError string

func (e RuleError) Error() string { return string(e) }

// IsRuleError reports whether err is a precondition violation rather
// than an internal fault.
func IsRuleError(err error) bool {
	_, ok := err.(RuleError)
	return ok
}

func ruleErrorf(format string, args ...any) RuleError {
	return RuleError(fmt.Sprintf(format, args...))
}
