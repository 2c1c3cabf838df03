package engine

import "sort"

// HandSize is the number of cards dealt to each seat. Only 22 of the 52
// cards are used per hand; the rest stay face down and out of play.
const HandSize = 11

// DeckSize is the full deck size before the reduced deal.
const DeckSize = 52

// NewDeck returns all 52 rank×suit combinations in a fixed order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for suit := SuitClubs; suit <= SuitSpades; suit++ {
		for rank := RankTwo; rank <= RankAce; rank++ {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}
	return deck
}

// SortHand sorts cards in the canonical display order: suit groups
// ♣, ♦, ♥, ♠, ascending value within each suit. The sort is stable
// and operates in place.
func SortHand(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Suit != cards[j].Suit {
			return cards[i].Suit < cards[j].Suit
		}
		return cards[i].Rank < cards[j].Rank
	})
}

// shuffle performs a Fisher-Yates shuffle driven by the game RNG.
func (g *GameState) shuffle(deck []Card) {
	for i := len(deck) - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// dealHands shuffles a fresh deck and deals 11 cards to each seat,
// sorted for display. The remaining 30 cards are discarded unseen —
// the reduced-deck variant uses only 22 cards per hand.
func (g *GameState) dealHands() {
	deck := NewDeck()
	g.shuffle(deck)

	player := make([]Card, HandSize)
	computer := make([]Card, HandSize)
	copy(player, deck[:HandSize])
	copy(computer, deck[HandSize:2*HandSize])
	SortHand(player)
	SortHand(computer)

	g.Sides[SidePlayer].Hand = player
	g.Sides[SideComputer].Hand = computer
}
