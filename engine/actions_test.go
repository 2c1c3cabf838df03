package engine

import (
	"strings"
	"testing"
)

// playingState builds a mid-hand state with fixed hands and bids, in
// the playing phase with the player on lead.
func playingState(playerHand, computerHand []Card, playerBid, computerBid int) *GameState {
	g := &GameState{
		RNG:         1,
		HandNumber:  1,
		TargetScore: DefaultTargetScore,
		Phase:       PhasePlaying,
		Turn:        SidePlayer,
		TrickLeader: SidePlayer,
		FirstLeader: SidePlayer,
	}
	g.Sides[SidePlayer] = SideState{Hand: playerHand, Bid: intp(playerBid), Parity: ParityEven}
	g.Sides[SideComputer] = SideState{Hand: computerHand, Bid: intp(computerBid), Parity: ParityOdd}
	return g
}

func TestDiscardFlow(t *testing.T) {
	g := NewGame(21)
	if err := g.Discard(0); err != nil {
		t.Fatalf("discard: %v", err)
	}

	p, c := g.Player(), g.Computer()
	if len(p.Hand) != HandSize-1 || len(c.Hand) != HandSize-1 {
		t.Errorf("both sides discard one card, got %d and %d", len(p.Hand), len(c.Hand))
	}
	if p.Discarded == nil || c.Discarded == nil {
		t.Fatal("discarded cards not recorded")
	}
	if g.PendingDiscard == nil || g.PendingSpecialDiscard == nil {
		t.Fatal("discard scoring must be computed immediately")
	}
	if p.Score != 0 || c.Score != 0 {
		t.Error("discard bonus must stay pending until hand end")
	}
	if g.Phase != PhaseBidding {
		t.Errorf("even scores go straight to bidding, got %q", g.Phase)
	}

	if err := g.Discard(0); !IsRuleError(err) {
		t.Errorf("second discard must be rejected, got %v", err)
	}
}

func TestRejectionLeavesStateUntouched(t *testing.T) {
	g := NewGame(33)
	before := mustJSON(t, g)

	invalid := []error{
		g.Bid(4),        // wrong phase
		g.PlayCard(0),   // wrong phase
		g.NextHand(),    // hand not over
		g.BlindNil(),    // wrong phase
		g.Discard(-1),   // out of range
		g.Discard(11),   // out of range
		g.BlindBid(5),   // not eligible
		g.BlindBid(4),   // out of range
	}
	for i, err := range invalid {
		if !IsRuleError(err) {
			t.Errorf("action %d: expected RuleError, got %v", i, err)
		}
	}

	if after := mustJSON(t, g); after != before {
		t.Fatal("rejected actions must not mutate state")
	}
}

func TestBidStartsPlaying(t *testing.T) {
	g := NewGame(21)
	if err := g.Discard(0); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if err := g.Bid(4); err != nil {
		t.Fatalf("bid: %v", err)
	}

	if g.Phase != PhasePlaying {
		t.Fatalf("expected playing phase, got %q", g.Phase)
	}
	if g.Player().BidValue() != 4 || g.Computer().Bid == nil {
		t.Errorf("both bids must be set, got %v and %v", g.Player().Bid, g.Computer().Bid)
	}
	if g.Turn != SidePlayer {
		t.Errorf("the player acts next either way, turn %v", g.Turn)
	}
	if g.FirstLeader == SideComputer && len(g.CurrentTrick) != 1 {
		t.Errorf("a leading computer plays immediately, trick has %d cards", len(g.CurrentTrick))
	}

	if err := g.Bid(11); !IsRuleError(err) {
		t.Errorf("bid after bidding closed must be rejected, got %v", err)
	}
}

func TestBidRange(t *testing.T) {
	g := NewGame(21)
	if err := g.Discard(0); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if err := g.Bid(-1); !IsRuleError(err) {
		t.Errorf("negative bid accepted: %v", err)
	}
	if err := g.Bid(11); !IsRuleError(err) {
		t.Errorf("bid over 10 accepted: %v", err)
	}
}

func TestTrickPlayAndDeferredDiscardBonus(t *testing.T) {
	g := playingState(
		[]Card{cd(RankKing, SuitHearts)},
		[]Card{cd(RankSeven, SuitHearts)},
		1, 1,
	)
	bonus := DiscardResult{PlayerBonus: 10, Winner: SidePlayer, Explanation: "Discards: test"}
	g.PendingDiscard = &bonus

	if err := g.PlayCard(0); err != nil {
		t.Fatalf("play: %v", err)
	}
	if !g.TrickCompleted || g.TrickWinner != SidePlayer {
		t.Fatalf("king over seven completes the trick for the player, got %+v", g)
	}
	if g.Player().Score != 0 {
		t.Error("no scoring before hand completion")
	}

	if err := g.ClearTrick(); err != nil {
		t.Fatalf("clear trick: %v", err)
	}
	if !g.HandOver {
		t.Fatal("empty hands end the hand on clear")
	}

	// Made 1 bid (+10) plus the deferred discard bonus (+10).
	if g.Player().Score != 20 {
		t.Errorf("expected 20 points, got %d", g.Player().Score)
	}
	if g.Computer().Score != -10 {
		t.Errorf("computer failed its 1 bid, expected -10, got %d", g.Computer().Score)
	}
	if g.HandResults == nil || g.HandResults.DiscardInfo == "" {
		t.Fatal("hand results must carry the discard reveal")
	}
	if g.PendingDiscard != nil {
		t.Error("pending discard must be consumed at hand end")
	}
	if len(g.TrickHistory) != 1 || g.TrickHistory[0].Winner != SidePlayer {
		t.Errorf("trick history wrong: %+v", g.TrickHistory)
	}
}

func TestTrickSpecialAppliesImmediately(t *testing.T) {
	g := playingState(
		[]Card{cd(RankSeven, SuitDiamonds), cd(RankTwo, SuitClubs)},
		[]Card{cd(RankThree, SuitDiamonds), cd(RankFour, SuitClubs)},
		1, 1,
	)

	if err := g.PlayCard(0); err != nil {
		t.Fatalf("play: %v", err)
	}
	if g.TrickWinner != SidePlayer {
		t.Fatalf("7♦ beats 3♦, got winner %v", g.TrickWinner)
	}
	if g.Player().Bags != -2 || g.Player().TrickSpecials != 2 {
		t.Errorf("trick-won 7♦ reduces bags immediately, got bags=%d specials=%d",
			g.Player().Bags, g.Player().TrickSpecials)
	}
	if !strings.Contains(g.Message, "special cards") {
		t.Errorf("message should mention the special card, got %q", g.Message)
	}
}

func TestClearTrickWithoutPendingIsNoop(t *testing.T) {
	g := playingState(
		[]Card{cd(RankKing, SuitHearts)},
		[]Card{cd(RankSeven, SuitHearts)},
		1, 1,
	)
	before := mustJSON(t, g)
	if err := g.ClearTrick(); err != nil {
		t.Fatalf("clear with nothing pending: %v", err)
	}
	if mustJSON(t, g) != before {
		t.Fatal("clearing nothing must not change state")
	}
}

func TestFollowSuitEnforced(t *testing.T) {
	g := playingState(
		[]Card{cd(RankFive, SuitHearts), cd(RankNine, SuitClubs)},
		[]Card{cd(RankSeven, SuitHearts), cd(RankTwo, SuitClubs)},
		1, 1,
	)
	g.Turn = SidePlayer
	g.CurrentTrick = []Play{{Side: SideComputer, Card: cd(RankJack, SuitHearts)}}
	g.TrickLeader = SideComputer

	if err := g.PlayCard(1); !IsRuleError(err) {
		t.Errorf("off-suit play while holding the lead suit must be rejected, got %v", err)
	}
	if err := g.PlayCard(0); err != nil {
		t.Fatalf("legal follow rejected: %v", err)
	}
}

func TestAutoResolution(t *testing.T) {
	g := playingState(
		[]Card{
			cd(RankFive, SuitSpades),
			cd(RankSix, SuitSpades),
			cd(RankSeven, SuitSpades),
			cd(RankEight, SuitSpades),
			cd(RankNine, SuitSpades),
			cd(RankTen, SuitSpades),
		},
		[]Card{
			cd(RankTwo, SuitHearts),
			cd(RankThree, SuitHearts),
			cd(RankFour, SuitHearts),
			cd(RankTwo, SuitDiamonds),
			cd(RankThree, SuitDiamonds),
			cd(RankFour, SuitDiamonds),
		},
		5, 3,
	)
	g.SpadesBroken = true

	// One manual trick, then the remainder is provably the player's.
	if err := g.PlayCard(0); err != nil {
		t.Fatalf("play: %v", err)
	}
	if err := g.ClearTrick(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if !g.HandOver {
		t.Fatal("all-trump remainder should auto-resolve the hand")
	}
	if g.Player().Tricks != 6 {
		t.Errorf("player takes all 6 tricks, got %d", g.Player().Tricks)
	}
	if len(g.TrickHistory) != 6 {
		t.Errorf("auto-resolved tricks must appear in history, got %d", len(g.TrickHistory))
	}
	if g.HandResults == nil || g.HandResults.AutoResolution == "" {
		t.Fatal("hand results must explain the auto-resolution")
	}
}

func TestBlindDecisionFlow(t *testing.T) {
	g := NewGame(17)
	g.Player().Score = 0
	g.Computer().Score = 150

	if err := g.Discard(0); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if g.Phase != PhaseBlindDecision || !g.BlindBiddingAvailable {
		t.Fatalf("a 150-point deficit offers the blind choice, got %q", g.Phase)
	}

	if err := g.ChooseBlindDecision(true); err != nil {
		t.Fatalf("choose blind: %v", err)
	}
	if g.Phase != PhaseBlindBidding {
		t.Fatalf("expected blind bidding, got %q", g.Phase)
	}
	if err := g.BlindBid(4); !IsRuleError(err) {
		t.Errorf("blind bid below 5 must be rejected, got %v", err)
	}
	if err := g.BlindBid(6); err != nil {
		t.Fatalf("blind bid: %v", err)
	}

	p := g.Player()
	if !p.IsBlind() || p.BidValue() != 6 {
		t.Errorf("blind 6 not recorded: %+v", p)
	}
	if g.Phase != PhasePlaying {
		t.Errorf("post-discard blind bid starts play, got %q", g.Phase)
	}
}

func TestBlindDecisionDeclined(t *testing.T) {
	g := NewGame(17)
	g.Player().Score = 0
	g.Computer().Score = 150

	if err := g.Discard(0); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if err := g.ChooseBlindDecision(false); err != nil {
		t.Fatalf("decline blind: %v", err)
	}
	if g.Phase != PhaseBidding {
		t.Fatalf("declining goes to normal bidding, got %q", g.Phase)
	}

	// The offer is made once per hand.
	if !g.BlindDecisionMade {
		t.Error("blind decision must be marked as made")
	}
}

func TestPreDiscardBlindBid(t *testing.T) {
	g := NewGame(17)
	g.Player().Score = 0
	g.Computer().Score = 150

	if err := g.BlindBid(7); err != nil {
		t.Fatalf("pre-discard blind bid: %v", err)
	}
	if g.Phase != PhaseDiscard {
		t.Fatalf("bids lock in but the discard still happens, got %q", g.Phase)
	}
	if !g.Player().IsBlind() || g.Computer().Bid == nil {
		t.Fatal("both bids must be locked before the discard")
	}

	if err := g.Discard(0); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if g.Phase != PhasePlaying {
		t.Errorf("locked bids go straight to playing after discard, got %q", g.Phase)
	}
}

func TestBlindNil(t *testing.T) {
	g := NewGame(17)
	g.Player().Score = 0
	g.Computer().Score = 150

	if err := g.Discard(0); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if err := g.BlindNil(); err != nil {
		t.Fatalf("blind nil: %v", err)
	}

	p := g.Player()
	if p.BidValue() != 0 || !p.IsBlind() {
		t.Fatalf("blind nil is a blind bid of zero, got %+v", p)
	}
	if g.Phase != PhasePlaying {
		t.Errorf("blind nil starts play, got %q", g.Phase)
	}
}

func TestBlindNilLossEndsGame(t *testing.T) {
	g := playingState(
		[]Card{cd(RankAce, SuitSpades)},
		[]Card{cd(RankTwo, SuitHearts)},
		0, 1,
	)
	g.Player().BlindBid = intp(0)

	if err := g.PlayCard(0); err != nil {
		t.Fatalf("play: %v", err)
	}
	if err := g.ClearTrick(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if !g.GameOver || g.Winner != OutcomeComputer {
		t.Errorf("a trick taken on blind nil loses the game, got over=%v winner=%q", g.GameOver, g.Winner)
	}
	if err := g.NextHand(); !IsRuleError(err) {
		t.Errorf("no next hand after game over, got %v", err)
	}
}

func TestNextHand(t *testing.T) {
	g := playingState(
		[]Card{cd(RankKing, SuitHearts)},
		[]Card{cd(RankSeven, SuitHearts)},
		1, 1,
	)
	firstLeader := g.FirstLeader

	if err := g.NextHand(); !IsRuleError(err) {
		t.Errorf("next hand mid-play must be rejected, got %v", err)
	}

	if err := g.PlayCard(0); err != nil {
		t.Fatalf("play: %v", err)
	}
	if err := g.ClearTrick(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := g.NextHand(); err != nil {
		t.Fatalf("next hand: %v", err)
	}

	if g.HandNumber != 2 {
		t.Errorf("hand number should increment, got %d", g.HandNumber)
	}
	if g.FirstLeader == firstLeader {
		t.Error("first lead must flip between hands")
	}
	if len(g.Player().Hand) != HandSize || len(g.Computer().Hand) != HandSize {
		t.Error("next hand deals fresh 11-card hands")
	}
	if g.Phase != PhaseDiscard || g.HandOver || g.Player().Bid != nil {
		t.Errorf("per-hand state must reset, got phase=%q", g.Phase)
	}
	if g.Player().Score != 10 {
		t.Errorf("scores carry across hands, got %d", g.Player().Score)
	}
}

// TestFullHand drives a complete hand through the public actions only.
func TestFullHand(t *testing.T) {
	g := NewGame(11)
	if err := g.Discard(0); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if err := g.Bid(4); err != nil {
		t.Fatalf("bid: %v", err)
	}

	for steps := 0; !g.HandOver && steps < 100; steps++ {
		if g.TrickCompleted {
			if err := g.ClearTrick(); err != nil {
				t.Fatalf("clear trick: %v", err)
			}
			continue
		}
		hand := g.Player().Hand
		idx := -1
		for i, c := range hand {
			if IsValidPlay(c, hand, g.CurrentTrick, g.SpadesBroken) {
				idx = i
				break
			}
		}
		if idx < 0 {
			t.Fatalf("no legal play with hand %v and trick %v", hand, g.CurrentTrick)
		}
		if err := g.PlayCard(idx); err != nil {
			t.Fatalf("play %v: %v", hand[idx], err)
		}
	}

	if !g.HandOver {
		t.Fatal("hand did not complete")
	}
	if g.HandNumber != 1 {
		t.Errorf("hand number advances only on next-hand, got %d", g.HandNumber)
	}
	if len(g.TrickHistory) != TotalTricks {
		t.Errorf("expected %d recorded tricks, got %d", TotalTricks, len(g.TrickHistory))
	}
	if got := g.Player().Tricks + g.Computer().Tricks; got != TotalTricks {
		t.Errorf("trick counts must sum to %d, got %d", TotalTricks, got)
	}
	if g.HandResults == nil {
		t.Fatal("hand results missing after completion")
	}
	if len(g.Player().Hand) != 0 || len(g.Computer().Hand) != 0 {
		t.Error("hands must be empty after the hand ends")
	}
}
