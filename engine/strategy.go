package engine

// StrategyConfig tunes the computer opponent. All knobs are explicit so
// tests can pin behavior without touching shared state.
type StrategyConfig struct {
	// AccuracyBoost is a flat addition to the trick expectation before
	// it is rounded into a bid.
	AccuracyBoost float64 `json:"accuracy_boost" toml:"accuracy_boost"`

	// MaxBid caps the computer's regular bid.
	MaxBid int `json:"max_bid" toml:"max_bid"`

	// BlindBid is the fixed bid placed when going blind.
	BlindBid int `json:"blind_bid" toml:"blind_bid"`

	// NilDeficit is the minimum score deficit before nil is considered.
	NilDeficit int `json:"nil_deficit" toml:"nil_deficit"`

	// BagAvoidThreshold is the own-bag count that turns bidding
	// conservative.
	BagAvoidThreshold int `json:"bag_avoid_threshold" toml:"bag_avoid_threshold"`

	// BagForceThreshold is the opponent-bag count that triggers
	// bag-forcing leads once the computer's bid is met.
	BagForceThreshold int `json:"bag_force_threshold" toml:"bag_force_threshold"`
}

// DefaultStrategyConfig returns the tuning shipped with the game.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		AccuracyBoost:     0.4,
		MaxBid:            7,
		BlindBid:          5,
		NilDeficit:        30,
		BagAvoidThreshold: 5,
		BagForceThreshold: 5,
	}
}

// HandStrength is the heuristic trick estimate for a hand, split into
// a sure component, a probable component and a special-card bonus so
// callers can weight them differently.
type HandStrength struct {
	Sure         float64
	Probable     float64
	SpecialBonus float64
}

// Total sums all three components.
func (h HandStrength) Total() float64 { return h.Sure + h.Probable + h.SpecialBonus }

// AnalyzeHandStrength estimates how many tricks a hand should take.
// High trumps count as sure tricks, long suits and protected honors as
// probable ones, and voids add trumping potential when trumps are held.
func AnalyzeHandStrength(hand []Card) HandStrength {
	var hs HandStrength

	var trumps []Card
	suits := map[Suit][]Card{}
	for _, c := range hand {
		if c.IsSpecial() {
			hs.SpecialBonus += 0.2
		}
		if c.IsTrump() {
			trumps = append(trumps, c)
		} else {
			suits[c.Suit] = append(suits[c.Suit], c)
		}
	}

	hasTrump := func(r Rank) bool {
		for _, c := range trumps {
			if c.Rank == r {
				return true
			}
		}
		return false
	}
	highTrumps := 0
	for _, c := range trumps {
		if c.Rank >= RankJack {
			highTrumps++
		}
	}

	if hasTrump(RankAce) {
		hs.Sure += 0.95
	}
	if hasTrump(RankKing) {
		if hasTrump(RankAce) {
			hs.Sure += 0.8
		} else {
			hs.Sure += 0.65
		}
	}
	if hasTrump(RankQueen) {
		if highTrumps >= 2 {
			hs.Probable += 0.6
		} else {
			hs.Probable += 0.3
		}
	}

	switch {
	case len(trumps) >= 5:
		hs.Probable += float64(len(trumps)-4) * 0.4
	case len(trumps) >= 3:
		hs.Probable += float64(len(trumps)-2) * 0.25
	}

	voids := 0
	for _, suit := range []Suit{SuitClubs, SuitDiamonds, SuitHearts} {
		cards := suits[suit]
		if len(cards) == 0 {
			voids++
			continue
		}

		hasRank := func(r Rank) bool {
			for _, c := range cards {
				if c.Rank == r {
					return true
				}
			}
			return false
		}

		if hasRank(RankAce) {
			hs.Sure += 0.75
		}
		if hasRank(RankKing) {
			switch {
			case hasRank(RankAce):
				hs.Probable += 0.5
			case len(cards) >= 3:
				hs.Probable += 0.4
			default:
				hs.Probable += 0.25
			}
		}
		if len(cards) >= 4 {
			hs.Probable += float64(len(cards)-3) * 0.2
		}
	}

	// Voids are only worth tricks while trumps remain to ruff with.
	if voids > 0 && len(trumps) >= 2 {
		hs.Probable += float64(voids) * 0.3
	}

	return hs
}

// ShouldBidNil decides whether the computer bids nil. Every condition
// must hold at once: a weak expectation, few and low trumps, enough
// rank-2 exit cards, almost no off-trump strength, an opponent who has
// not already gone nil, and a score deficit worth the gamble.
func ShouldBidNil(hand []Card, ownScore, oppScore int, oppBid *int, cfg *StrategyConfig) bool {
	if AnalyzeHandStrength(hand).Total() > 1.2 {
		return false
	}

	trumps, twos, highOffTrump := 0, 0, 0
	for _, c := range hand {
		if c.IsTrump() {
			trumps++
			if c.Rank >= RankJack {
				return false
			}
			continue
		}
		if c.Rank == RankTwo {
			twos++
		}
		if c.Rank >= RankKing {
			return false
		}
		if c.Rank > RankSeven {
			highOffTrump++
		}
	}
	if trumps > 3 || twos < 2 || highOffTrump > 1 {
		return false
	}

	if oppBid != nil && *oppBid == 0 {
		return false
	}
	return ownScore < oppScore-cfg.NilDeficit
}

// ShouldBidBlind decides whether the computer goes blind: whenever it
// is eligible it places a fixed conservative blind bid.
func ShouldBidBlind(ownDisplay, oppDisplay int, cfg *StrategyConfig) (bool, int) {
	if oppDisplay-ownDisplay < 100 {
		return false, 0
	}
	return true, cfg.BlindBid
}

// BiddingBrain produces the computer's bid for the hand. It checks nil
// and blind opportunities first, then converts the hand-strength
// expectation into a bid, nudged by the score differential, bag count
// and the opponent's bid, and perturbed so the two bids avoid summing
// to exactly ten. playerBid is nil when the computer bids first.
func (g *GameState) BiddingBrain(playerBid *int) (bid int, blind bool) {
	cfg := g.strat()
	comp := g.Computer()
	pl := g.Player()
	hand := comp.Hand

	if ShouldBidNil(hand, comp.Score, pl.Score, playerBid, cfg) {
		return 0, false
	}

	compDisp := DisplayScore(comp.Score, comp.Bags)
	plDisp := DisplayScore(pl.Score, pl.Bags)
	if ok, amount := ShouldBidBlind(compDisp, plDisp, cfg); ok {
		return amount, true
	}

	expectation := AnalyzeHandStrength(hand).Total() + cfg.AccuracyBoost

	switch {
	case comp.Score > pl.Score+30:
		expectation *= 0.92
	case comp.Score < pl.Score-30:
		expectation *= 1.08
	}
	if comp.Bags >= cfg.BagAvoidThreshold {
		expectation *= 0.88
	}

	if playerBid != nil {
		switch {
		case *playerBid == 0:
			expectation += 0.4
		case *playerBid <= 2:
			expectation += 0.2
		case *playerBid >= 7:
			expectation -= 0.3
		}
	}

	raw := roundToBid(expectation)
	if raw > cfg.MaxBid {
		raw = cfg.MaxBid
	}

	if expectation >= 1.8 && expectation <= 6.2 && raw >= 2 && raw <= 5 {
		if raw < 3 {
			raw = 3
		} else if raw > 4 {
			raw = 4
		}
	}

	// An obvious sum-to-ten bid telegraphs the trick split.
	if playerBid != nil && abs(raw+*playerBid-10) <= 1 && g.randN(10) < 4 {
		if raw > 2 {
			raw--
		} else if raw < 8 {
			raw++
		}
	}

	if raw < 1 {
		raw = 1
	}
	if raw > cfg.MaxBid {
		raw = cfg.MaxBid
	}
	return raw, false
}

// DiscardIndex scores every card for discard-worthiness and returns the
// index of the best discard. Stranded singleton special cards go first;
// protected specials and trumps are held back; otherwise low off-trump
// cards go, with singletons earning a void bonus scaled by trump count
// and a small tie-break for parity-friendly discard values.
func DiscardIndex(hand []Card, parity Parity) int {
	suitCount := map[Suit]int{}
	trumpCount := 0
	for _, c := range hand {
		suitCount[c.Suit]++
		if c.IsTrump() {
			trumpCount++
		}
	}

	bestIdx, bestScore := 0, -1 << 30
	for i, c := range hand {
		score := 0
		singleton := suitCount[c.Suit] == 1 && !c.IsTrump()

		if c.IsSpecial() {
			if singleton {
				// A lone special card cannot be protected and risks
				// being forced into a losing trick.
				score += 200
			} else {
				score -= 100
			}
		} else if singleton {
			score += trumpCount * 4
		}

		if c.IsTrump() {
			score -= c.Value() * 3
		} else {
			score += 15 - c.Value()
		}

		dv := c.DiscardValue()
		if !parity.Matches(dv%2 == 0) {
			// Opposite-parity values pull the two-card total toward
			// our assigned parity.
			score += 3
		}

		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	return bestIdx
}

// LeadIndex picks the card to lead. Special cards are excluded unless
// forced; with the bid already met and a bag-laden opponent, the
// highest legal card forces unwanted tricks across the table, otherwise
// the lowest legal card is led.
func LeadIndex(hand []Card, spadesBroken bool, bidMet bool, oppBags int, cfg *StrategyConfig) int {
	legal := legalIndices(hand, nil, spadesBroken)
	if len(legal) == 0 {
		return -1
	}

	candidates := filterIdx(hand, legal, func(c Card) bool { return !c.IsSpecial() })
	if len(candidates) == 0 {
		candidates = legal
	}

	if bidMet && oppBags >= cfg.BagForceThreshold {
		return highestIdx(hand, candidates)
	}
	return lowestNonTrumpFirst(hand, candidates)
}

// FollowIndex picks the card to play over an opponent's lead. Cards
// that can follow suit split into winners and losers against the lead;
// specials are spent only when no plain card does the same job. Once
// the bid is met high losers are shed instead of winning; while tricks
// are still needed wins are taken as cheaply as possible. Off-suit, the
// order is trump in, then discard.
func FollowIndex(hand []Card, trick []Play, bidMet bool, tricksNeeded bool) int {
	if len(trick) == 0 || len(hand) == 0 {
		return -1
	}
	lead := trick[0].Card

	var sameSuit, trumps, others []int
	for i, c := range hand {
		switch {
		case c.Suit == lead.Suit:
			sameSuit = append(sameSuit, i)
		case c.IsTrump():
			trumps = append(trumps, i)
		default:
			others = append(others, i)
		}
	}

	if len(sameSuit) > 0 {
		winners := filterIdx(hand, sameSuit, func(c Card) bool { return c.Value() > lead.Value() })
		losers := filterIdx(hand, sameSuit, func(c Card) bool { return c.Value() <= lead.Value() })

		if lead.IsSpecial() && len(winners) > 0 {
			return preferNonSpecial(hand, winners, lowestIdx)
		}
		if bidMet && len(losers) > 0 {
			return preferNonSpecial(hand, losers, highestIdx)
		}
		if tricksNeeded && len(winners) > 0 {
			return preferNonSpecial(hand, winners, lowestIdx)
		}
		if len(losers) > 0 {
			return preferNonSpecial(hand, losers, lowestIdx)
		}
		return preferNonSpecial(hand, winners, lowestIdx)
	}

	if !lead.IsTrump() && len(trumps) > 0 {
		if bidMet && len(others) > 0 {
			return preferNonSpecial(hand, others, highestIdx)
		}
		return preferNonSpecial(hand, trumps, lowestIdx)
	}

	pool := others
	if len(pool) == 0 {
		pool = trumps
	}
	if bidMet {
		return preferNonSpecial(hand, pool, highestIdx)
	}
	return preferNonSpecial(hand, pool, lowestIdx)
}

// autoWinner reports whether the remaining cards resolve
// deterministically and who takes every remaining trick. Two shapes
// qualify: one side holds only trump while the other holds none, or the
// side about to lead holds a single suit the opponent can neither
// follow nor trump.
func autoWinner(playerHand, computerHand []Card, nextLeader Side) (Side, bool) {
	n := len(playerHand)
	if n != len(computerHand) || n < 3 || n > 9 {
		return 0, false
	}

	hands := [2][]Card{playerHand, computerHand}
	for side := SidePlayer; side <= SideComputer; side++ {
		own, opp := hands[side], hands[side.Opponent()]

		if allTrump(own) && !hasSuit(opp, SuitSpades) {
			return side, true
		}

		if side != nextLeader {
			continue
		}
		suit := own[0].Suit
		if suit == SuitSpades {
			continue
		}
		single := true
		for _, c := range own[1:] {
			if c.Suit != suit {
				single = false
				break
			}
		}
		if single && !hasSuit(opp, suit) && !hasSuit(opp, SuitSpades) {
			return side, true
		}
	}
	return 0, false
}

// Index selection helpers. All operate on index lists into hand.

func filterIdx(hand []Card, idx []int, keep func(Card) bool) []int {
	var out []int
	for _, i := range idx {
		if keep(hand[i]) {
			out = append(out, i)
		}
	}
	return out
}

func lowestIdx(hand []Card, idx []int) int {
	best := idx[0]
	for _, i := range idx[1:] {
		if hand[i].Value() < hand[best].Value() {
			best = i
		}
	}
	return best
}

func highestIdx(hand []Card, idx []int) int {
	best := idx[0]
	for _, i := range idx[1:] {
		if hand[i].Value() > hand[best].Value() {
			best = i
		}
	}
	return best
}

// lowestNonTrumpFirst picks the lowest card, spending any non-trump
// before any trump.
func lowestNonTrumpFirst(hand []Card, idx []int) int {
	nonTrump := filterIdx(hand, idx, func(c Card) bool { return !c.IsTrump() })
	if len(nonTrump) > 0 {
		return lowestIdx(hand, nonTrump)
	}
	return lowestIdx(hand, idx)
}

// preferNonSpecial applies pick to the non-special subset when one
// exists, falling back to the full set.
func preferNonSpecial(hand []Card, idx []int, pick func([]Card, []int) int) int {
	if len(idx) == 0 {
		return -1
	}
	nonSpecial := filterIdx(hand, idx, func(c Card) bool { return !c.IsSpecial() })
	if len(nonSpecial) > 0 {
		return pick(hand, nonSpecial)
	}
	return pick(hand, idx)
}

// roundToBid rounds to nearest and clamps to the 0-10 bid range.
func roundToBid(x float64) int {
	n := int(x + 0.5)
	if x < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
