package engine

// hasSuit reports whether the hand holds at least one card of the suit.
func hasSuit(hand []Card, suit Suit) bool {
	for _, c := range hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

// allTrump reports whether every card in the hand is a spade.
func allTrump(hand []Card) bool {
	for _, c := range hand {
		if !c.IsTrump() {
			return false
		}
	}
	return len(hand) > 0
}

// IsValidPlay reports whether playing card from hand into trick is
// legal. Leading trump requires spades to be broken unless the hand is
// entirely trump; a follower must follow the lead suit when able.
func IsValidPlay(card Card, hand []Card, trick []Play, spadesBroken bool) bool {
	if len(trick) == 0 {
		if card.IsTrump() && !spadesBroken {
			return allTrump(hand)
		}
		return true
	}
	leadSuit := trick[0].Card.Suit
	if hasSuit(hand, leadSuit) {
		return card.Suit == leadSuit
	}
	return true
}

// TrickWinner resolves a completed two-play trick: same suit, higher
// value wins; a lone spade trumps; otherwise the leader wins.
func TrickWinner(trick []Play) Side {
	first, second := trick[0], trick[1]
	switch {
	case first.Card.Suit == second.Card.Suit:
		if first.Card.Value() > second.Card.Value() {
			return first.Side
		}
		return second.Side
	case first.Card.IsTrump():
		return first.Side
	case second.Card.IsTrump():
		return second.Side
	default:
		return first.Side
	}
}

// legalIndices returns the indices of all legal plays for the hand
// given the current trick.
func legalIndices(hand []Card, trick []Play, spadesBroken bool) []int {
	var out []int
	for i, c := range hand {
		if IsValidPlay(c, hand, trick, spadesBroken) {
			out = append(out, i)
		}
	}
	return out
}

// lowestLegalIndex is the deterministic strategy fallback: the legal
// card with the smallest trick value, preferring non-trump on ties.
func lowestLegalIndex(hand []Card, trick []Play, spadesBroken bool) int {
	best := -1
	for _, i := range legalIndices(hand, trick, spadesBroken) {
		if best == -1 {
			best = i
			continue
		}
		c, b := hand[i], hand[best]
		if c.Value() < b.Value() || (c.Value() == b.Value() && !c.IsTrump() && b.IsTrump()) {
			best = i
		}
	}
	return best
}

// removeCard removes and returns the card at index i.
func removeCard(hand []Card, i int) ([]Card, Card) {
	c := hand[i]
	return append(hand[:i], hand[i+1:]...), c
}
