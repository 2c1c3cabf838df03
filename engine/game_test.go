package engine

import (
	"encoding/json"
	"testing"
)

func cd(r Rank, s Suit) Card { return Card{Rank: r, Suit: s} }

func intp(n int) *int { return &n }

func mustJSON(t *testing.T, g *GameState) string {
	t.Helper()
	b, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal game state: %v", err)
	}
	return string(b)
}

func TestNewGameDeal(t *testing.T) {
	g := NewGame(42)

	p, c := g.Player(), g.Computer()
	if len(p.Hand) != HandSize || len(c.Hand) != HandSize {
		t.Fatalf("expected %d cards each, got %d and %d", HandSize, len(p.Hand), len(c.Hand))
	}

	seen := map[Card]bool{}
	for _, card := range append(append([]Card{}, p.Hand...), c.Hand...) {
		if seen[card] {
			t.Errorf("card %v dealt twice", card)
		}
		seen[card] = true
	}

	if p.Parity == c.Parity {
		t.Errorf("parities must be complementary, both %q", p.Parity)
	}
	if g.Sides[g.FirstLeader].Parity != ParityOdd {
		t.Errorf("odd seat leads the first trick, leader %v has parity %q", g.FirstLeader, g.Sides[g.FirstLeader].Parity)
	}

	if g.Phase != PhaseDiscard {
		t.Errorf("new game starts in discard phase, got %q", g.Phase)
	}
	if g.HandNumber != 1 || g.TargetScore != DefaultTargetScore {
		t.Errorf("unexpected hand number %d or target %d", g.HandNumber, g.TargetScore)
	}
}

func TestDeckIntegrity(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("expected %d cards, got %d", DeckSize, len(deck))
	}
	seen := map[Card]bool{}
	for _, c := range deck {
		if seen[c] {
			t.Errorf("duplicate card %v", c)
		}
		seen[c] = true
	}
}

func TestSortHand(t *testing.T) {
	hand := []Card{
		cd(RankAce, SuitSpades),
		cd(RankTwo, SuitClubs),
		cd(RankKing, SuitDiamonds),
		cd(RankThree, SuitClubs),
		cd(RankTwo, SuitSpades),
	}
	SortHand(hand)

	want := []Card{
		cd(RankTwo, SuitClubs),
		cd(RankThree, SuitClubs),
		cd(RankKing, SuitDiamonds),
		cd(RankTwo, SuitSpades),
		cd(RankAce, SuitSpades),
	}
	for i, c := range want {
		if hand[i] != c {
			t.Fatalf("position %d: expected %v, got %v", i, c, hand[i])
		}
	}
}

func TestSeedDeterminism(t *testing.T) {
	a := NewGame(7)
	b := NewGame(7)
	if mustJSON(t, a) != mustJSON(t, b) {
		t.Fatal("same seed must produce identical games")
	}
	c := NewGame(8)
	if mustJSON(t, a) == mustJSON(t, c) {
		t.Fatal("different seeds produced identical games")
	}
}

// TestSerializationRoundTrip verifies that a state restored from JSON
// behaves identically to the original from that point on.
func TestSerializationRoundTrip(t *testing.T) {
	a := NewGame(99)
	if err := a.Discard(3); err != nil {
		t.Fatalf("discard: %v", err)
	}

	var b GameState
	if err := json.Unmarshal([]byte(mustJSON(t, a)), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if a.Phase == PhaseBidding {
		if err := a.Bid(4); err != nil {
			t.Fatalf("bid on original: %v", err)
		}
		if err := b.Bid(4); err != nil {
			t.Fatalf("bid on restored copy: %v", err)
		}
	}

	if mustJSON(t, a) != mustJSON(t, &b) {
		t.Fatal("restored state diverged from original after identical actions")
	}
}

func TestCardJSONSymbols(t *testing.T) {
	b, err := json.Marshal(cd(RankTen, SuitClubs))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"rank":"10","suit":"♣"}` {
		t.Errorf("unexpected card encoding %s", b)
	}

	var c Card
	if err := json.Unmarshal(b, &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c != cd(RankTen, SuitClubs) {
		t.Errorf("round trip changed card: %v", c)
	}
}

func TestCardValues(t *testing.T) {
	ace := cd(RankAce, SuitHearts)
	if ace.Value() != 14 {
		t.Errorf("ace trick value should be 14, got %d", ace.Value())
	}
	if ace.DiscardValue() != 1 {
		t.Errorf("ace discard value should be 1, got %d", ace.DiscardValue())
	}
	if cd(RankSeven, SuitDiamonds).SpecialBagReduction() != 2 {
		t.Error("7♦ should remove 2 bags")
	}
	if cd(RankTen, SuitClubs).SpecialBagReduction() != 1 {
		t.Error("10♣ should remove 1 bag")
	}
	if cd(RankSeven, SuitClubs).IsSpecial() || cd(RankTen, SuitDiamonds).IsSpecial() {
		t.Error("only 7♦ and 10♣ are special")
	}
}
