package engine

import "fmt"

// Action methods. Every mutator validates phase, turn and input bounds
// before touching state, so a RuleError always leaves the game exactly
// as it was and the caller may retry with corrected input.

// Discard removes the player's card at index and has the computer
// discard via its strategy. The discard bonus and any special cards in
// the pile are scored now but held pending until the hand ends. If bids
// were locked in up front (the pre-discard blind path) play starts
// immediately, otherwise the hand moves on to bidding.
func (g *GameState) Discard(index int) error {
	if g.Phase != PhaseDiscard {
		return RuleError("not in discard phase")
	}
	p := g.Player()
	if index < 0 || index >= len(p.Hand) {
		return ruleErrorf("invalid card index %d", index)
	}

	var playerCard Card
	p.Hand, playerCard = removeCard(p.Hand, index)
	p.Discarded = &playerCard

	c := g.Computer()
	ci := DiscardIndex(c.Hand, c.Parity)
	var computerCard Card
	c.Hand, computerCard = removeCard(c.Hand, ci)
	c.Discarded = &computerCard

	result := ScoreDiscards(playerCard, computerCard, p.Parity, c.Parity)
	g.PendingDiscard = &result
	special := CheckSpecialDiscards(playerCard, computerCard, result.Winner)
	g.PendingSpecialDiscard = &special

	if p.Bid != nil {
		g.startPlaying("Cards discarded. " + g.bidSummary())
	} else {
		g.enterBidding()
	}
	return nil
}

// enterBidding branches to the blind-decision phase the first time the
// player qualifies for a blind bid this hand, otherwise to normal
// bidding. When the computer is due to lead it bids first.
func (g *GameState) enterBidding() {
	if !g.BlindDecisionMade {
		g.BlindDecisionMade = true
		p, c := g.Player(), g.Computer()
		elig := CheckBlindEligibility(DisplayScore(p.Score, p.Bags), DisplayScore(c.Score, c.Bags))
		if elig.PlayerEligible {
			g.Phase = PhaseBlindDecision
			g.BlindBiddingAvailable = true
			g.Message = fmt.Sprintf("Cards discarded! You are down by %d points. Choose: Go BLIND for double points/penalties, or bid normally?", elig.PlayerDeficit)
			return
		}
	}

	g.Phase = PhaseBidding
	g.Turn = SidePlayer

	if g.FirstLeader == SideComputer && g.Computer().Bid == nil {
		bid, blind := g.BiddingBrain(nil)
		c := g.Computer()
		c.Bid = &bid
		if blind {
			c.BlindBid = &bid
		}
		blindText := ""
		if blind {
			blindText = " (BLIND)"
		}
		g.Message = fmt.Sprintf("Cards discarded. %s bid %d%s. Your turn to bid.", computerName, bid, blindText)
		return
	}
	g.Message = "Cards discarded. Now make your bid: How many tricks will you take? (0-10)"
}

// Bid places the player's regular bid (0-10, 0 being nil). The computer
// bids in response if it has not already, then play begins with the
// hand's designated first leader.
func (g *GameState) Bid(bid int) error {
	if g.Phase != PhaseBidding {
		return RuleError("not in bidding phase")
	}
	if bid < 0 || bid > TotalTricks {
		return ruleErrorf("bid must be between 0 and %d", TotalTricks)
	}

	p := g.Player()
	b := bid
	p.Bid = &b

	c := g.Computer()
	if c.Bid == nil {
		cb, blind := g.BiddingBrain(&bid)
		c.Bid = &cb
		if blind {
			c.BlindBid = &cb
		}
	}

	g.startPlaying(g.bidSummary())
	return nil
}

// ChooseBlindDecision resolves the blind-decision prompt: go blind
// (pick a bid next) or decline and bid normally.
func (g *GameState) ChooseBlindDecision(goBlind bool) error {
	if g.Phase != PhaseBlindDecision {
		return RuleError("not in blind decision phase")
	}
	if goBlind {
		g.Phase = PhaseBlindBidding
		g.Message = "Going BLIND! Choose your blind bid (5-10 tricks, double points/penalties)."
		return nil
	}
	g.enterBidding()
	return nil
}

// BlindBid places a blind bid of 5-10. Two entry points exist: during
// the discard phase before cards are discarded (locking both bids in up
// front), and from the blind-bidding phase after the discard. Either
// way the discard is resolved before any trick is played.
func (g *GameState) BlindBid(bid int) error {
	if g.Phase != PhaseDiscard && g.Phase != PhaseBlindBidding {
		return RuleError("blind bid not available now")
	}
	if bid < 5 || bid > TotalTricks {
		return RuleError("blind bid must be between 5 and 10")
	}

	p, c := g.Player(), g.Computer()
	if g.Phase == PhaseDiscard {
		if p.Bid != nil {
			return RuleError("bid already placed")
		}
		elig := CheckBlindEligibility(DisplayScore(p.Score, p.Bags), DisplayScore(c.Score, c.Bags))
		if !elig.PlayerEligible {
			return RuleError("not eligible for blind bidding")
		}
	}

	b := bid
	p.Bid = &b
	p.BlindBid = &b
	g.BlindDecisionMade = true

	cb, blind := g.BiddingBrain(&bid)
	c.Bid = &cb
	if blind {
		c.BlindBid = &cb
	}

	if g.Phase == PhaseDiscard {
		// Bids are locked; the discard still has to happen.
		g.Message = g.bidSummary() + " Now select a card to discard."
		return nil
	}
	g.startPlaying(g.bidSummary())
	return nil
}

// BlindNil stakes the entire game on taking zero tricks: the player
// instantly wins the game on success and instantly loses it on failure.
func (g *GameState) BlindNil() error {
	if g.Phase != PhaseBlindDecision {
		return RuleError("not in blind decision phase")
	}

	p := g.Player()
	zero := 0
	p.Bid = &zero
	p.BlindBid = &zero

	c := g.Computer()
	cb, blind := g.BiddingBrain(&zero)
	c.Bid = &cb
	if blind {
		c.BlindBid = &cb
	}

	g.startPlaying("You bid BLIND NIL! Win the game with 0 tricks, or lose it all. " + g.bidSummary())
	return nil
}

// startPlaying opens the trick-play phase with the hand's designated
// first leader; when that is the computer it leads immediately.
func (g *GameState) startPlaying(prefix string) {
	g.Phase = PhasePlaying
	g.Turn = g.FirstLeader
	g.TrickLeader = g.FirstLeader

	if g.FirstLeader == SideComputer {
		g.computerLead()
		g.Turn = SidePlayer
		g.Message = prefix + " " + computerName + " led. Your turn to follow."
		return
	}
	g.Message = prefix + " Your turn to lead the first trick."
}

// bidSummary renders both bids for status messages.
func (g *GameState) bidSummary() string {
	p, c := g.Player(), g.Computer()
	pBlind, cBlind := "", ""
	if p.IsBlind() {
		pBlind = " (BLIND)"
	}
	if c.IsBlind() {
		cBlind = " (BLIND)"
	}
	return fmt.Sprintf("You bid %d%s, %s bid %d%s.", p.BidValue(), pBlind, computerName, c.BidValue(), cBlind)
}

// PlayCard plays the player's card at index into the current trick.
// When the play completes a trick it is resolved but left on the table
// until ClearTrick; when the player led, the computer follows first.
func (g *GameState) PlayCard(index int) error {
	if g.Phase != PhasePlaying {
		return RuleError("not in playing phase")
	}
	if g.Turn != SidePlayer {
		return RuleError("not your turn")
	}
	if g.TrickCompleted {
		return RuleError("trick must be cleared first")
	}
	p := g.Player()
	if index < 0 || index >= len(p.Hand) {
		return ruleErrorf("invalid card index %d", index)
	}
	card := p.Hand[index]
	if !IsValidPlay(card, p.Hand, g.CurrentTrick, g.SpadesBroken) {
		return RuleError("invalid play - must follow suit if possible")
	}

	p.Hand, card = removeCard(p.Hand, index)
	g.CurrentTrick = append(g.CurrentTrick, Play{Side: SidePlayer, Card: card})
	if card.IsTrump() {
		g.SpadesBroken = true
	}

	switch len(g.CurrentTrick) {
	case 1:
		g.TrickLeader = SidePlayer
		g.Turn = SideComputer
		g.computerFollow()
		g.resolveTrick()
	case 2:
		g.resolveTrick()
	}
	return nil
}

// computerLead has the computer open a trick via its lead strategy,
// falling back to the lowest legal card.
func (g *GameState) computerLead() {
	c := g.Computer()
	if len(c.Hand) == 0 {
		return
	}
	p := g.Player()

	bidMet := c.Tricks >= c.BidValue()
	idx := LeadIndex(c.Hand, g.SpadesBroken, bidMet, p.Bags, g.strat())
	if idx < 0 || !IsValidPlay(c.Hand[idx], c.Hand, nil, g.SpadesBroken) {
		idx = lowestLegalIndex(c.Hand, nil, g.SpadesBroken)
	}
	if idx < 0 {
		return
	}

	var card Card
	c.Hand, card = removeCard(c.Hand, idx)
	g.CurrentTrick = []Play{{Side: SideComputer, Card: card}}
	g.TrickLeader = SideComputer
	if card.IsTrump() {
		g.SpadesBroken = true
	}
}

// computerFollow has the computer answer the player's lead via its
// follow strategy, falling back to the lowest legal card.
func (g *GameState) computerFollow() {
	c := g.Computer()
	if len(c.Hand) == 0 || len(g.CurrentTrick) == 0 {
		return
	}

	bidMet := c.Tricks >= c.BidValue()
	tricksNeeded := c.Tricks < c.BidValue()
	idx := FollowIndex(c.Hand, g.CurrentTrick, bidMet, tricksNeeded)
	if idx < 0 || !IsValidPlay(c.Hand[idx], c.Hand, g.CurrentTrick, g.SpadesBroken) {
		idx = lowestLegalIndex(c.Hand, g.CurrentTrick, g.SpadesBroken)
	}
	if idx < 0 {
		return
	}

	var card Card
	c.Hand, card = removeCard(c.Hand, idx)
	g.CurrentTrick = append(g.CurrentTrick, Play{Side: SideComputer, Card: card})
	if card.IsTrump() {
		g.SpadesBroken = true
	}
}

// resolveTrick scores a completed two-card trick: record it, apply any
// special-card bag reduction to the winner immediately, and hold the
// cards on the table until ClearTrick.
func (g *GameState) resolveTrick() {
	if len(g.CurrentTrick) != 2 {
		return
	}
	winner := TrickWinner(g.CurrentTrick)
	g.recordTrick(g.CurrentTrick, winner)

	reduction, special := CheckSpecialTrick(g.CurrentTrick, winner)
	w := &g.Sides[winner]
	if reduction > 0 {
		w.Bags = ReduceBags(w.Bags, reduction)
		w.TrickSpecials += reduction
	}
	w.Tricks++

	msg := "You won the trick!"
	if winner == SideComputer {
		msg = computerName + " won the trick!"
	}
	if special != "" {
		msg += " " + special + "."
	}
	g.Message = msg
	g.TrickCompleted = true
	g.TrickWinner = winner
}

// recordTrick appends a completed trick to the hand history.
func (g *GameState) recordTrick(trick []Play, winner Side) {
	rec := TrickRecord{Number: len(g.TrickHistory) + 1, Winner: winner}
	for _, play := range trick {
		card := play.Card
		if play.Side == SidePlayer {
			rec.PlayerCard = &card
		} else {
			rec.ComputerCard = &card
		}
	}
	g.TrickHistory = append(g.TrickHistory, rec)
}

// ClearTrick removes a resolved trick from the table. Called separately
// from trick resolution so clients can show the completed trick before
// it disappears. With no trick pending this is a no-op. Afterward: hand
// completion if the hands are empty, auto-resolution when the remainder
// is provably decided, otherwise the trick winner leads.
func (g *GameState) ClearTrick() error {
	if !g.TrickCompleted {
		return nil
	}
	winner := g.TrickWinner
	g.CurrentTrick = nil
	g.TrickCompleted = false

	p, c := g.Player(), g.Computer()
	if len(p.Hand) == 0 {
		g.completeHand("")
		return nil
	}

	if auto, ok := autoWinner(p.Hand, c.Hand, winner); ok {
		explanation := g.autoResolve(auto)
		g.completeHand(explanation)
		return nil
	}

	if winner == SideComputer {
		g.computerLead()
		g.Turn = SidePlayer
		g.Message = computerName + " led. Your turn to follow."
	} else {
		g.Turn = SidePlayer
		g.Message = "You won the trick! Your turn to lead."
	}
	return nil
}

// autoResolve mechanically awards every remaining trick to the side
// that provably wins them all, recording each trick as if it had been
// played out. Returns the explanation shown with the hand results.
func (g *GameState) autoResolve(winner Side) string {
	w, l := &g.Sides[winner], &g.Sides[winner.Opponent()]
	resolved := 0
	for len(w.Hand) > 0 && len(l.Hand) > 0 {
		var lead, follow Card
		w.Hand, lead = removeCard(w.Hand, 0)
		l.Hand, follow = removeCard(l.Hand, 0)

		trick := []Play{{Side: winner, Card: lead}, {Side: winner.Opponent(), Card: follow}}
		g.recordTrick(trick, winner)

		if reduction, _ := CheckSpecialTrick(trick, winner); reduction > 0 {
			w.Bags = ReduceBags(w.Bags, reduction)
			w.TrickSpecials += reduction
		}
		w.Tricks++
		resolved++
	}

	name := "You take"
	if winner == SideComputer {
		name = computerName + " takes"
	}
	return fmt.Sprintf("%s the remaining %d tricks automatically", name, resolved)
}

// TrickSummary is one line of the per-hand trick recap.
type TrickSummary struct {
	Number       int    `json:"number"`
	PlayerCard   string `json:"player_card"`
	ComputerCard string `json:"computer_card"`
	Winner       string `json:"winner"`
}

// HandResults is the structured end-of-hand report: the deferred
// discard reveal, the settlement explanation and the trick recap.
type HandResults struct {
	HandNumber     int            `json:"hand_number"`
	PlayerParity   string         `json:"player_parity"`
	ComputerParity string         `json:"computer_parity"`
	DiscardInfo    string         `json:"discard_info"`
	Scoring        string         `json:"scoring"`
	AutoResolution string         `json:"auto_resolution,omitempty"`
	Tricks         []TrickSummary `json:"tricks"`
	PlayerScore    int            `json:"player_score"`
	ComputerScore  int            `json:"computer_score"`
}

// completeHand runs the once-per-hand settlement: the pending discard
// bonus and its special cards are applied, bids are settled, and the
// structured hand results are assembled. Game-over is evaluated here
// and nowhere else.
func (g *GameState) completeHand(autoExplanation string) {
	g.HandOver = true
	p, c := g.Player(), g.Computer()

	if g.PendingDiscard != nil {
		r := g.PendingDiscard
		p.Score += r.PlayerBonus
		c.Score += r.ComputerBonus
		g.DiscardExplanation = r.Explanation

		if s := g.PendingSpecialDiscard; s != nil {
			if s.PlayerReduction > 0 {
				p.Bags = ReduceBags(p.Bags, s.PlayerReduction)
			}
			if s.ComputerReduction > 0 {
				c.Bags = ReduceBags(c.Bags, s.ComputerReduction)
			}
			if s.Explanation != "" {
				g.DiscardExplanation += " | " + s.Explanation
			}
		}
		g.PendingDiscard = nil
		g.PendingSpecialDiscard = nil
	}

	scores := g.SettleHand()

	results := &HandResults{
		HandNumber:     g.HandNumber,
		PlayerParity:   p.Parity.Title(),
		ComputerParity: c.Parity.Title(),
		DiscardInfo:    g.DiscardExplanation,
		Scoring:        scores.Explanation,
		AutoResolution: autoExplanation,
		PlayerScore:    DisplayScore(p.Score, p.Bags),
		ComputerScore:  DisplayScore(c.Score, c.Bags),
	}
	for _, t := range g.TrickHistory {
		s := TrickSummary{Number: t.Number, PlayerCard: "?", ComputerCard: "?", Winner: playerName}
		if t.PlayerCard != nil {
			s.PlayerCard = t.PlayerCard.String()
		}
		if t.ComputerCard != nil {
			s.ComputerCard = t.ComputerCard.String()
		}
		if t.Winner == SideComputer {
			s.Winner = computerName
		}
		results.Tricks = append(results.Tricks, s)
	}
	g.HandResults = results

	if g.checkGameOver() {
		return
	}
	msg := fmt.Sprintf("Hand #%d complete! Click 'Next Hand' to continue", g.HandNumber)
	if autoExplanation != "" {
		msg = autoExplanation + ". " + msg
	}
	g.Message = msg
}

// NextHand deals the next hand once the current one is settled. The
// hand number increments and the first lead flips to the other seat.
func (g *GameState) NextHand() error {
	if !g.HandOver {
		return RuleError("hand is not over")
	}
	if g.GameOver {
		return RuleError("game is over")
	}
	g.HandNumber++
	g.startNextHand()
	return nil
}
