package engine

import (
	"fmt"
	"strings"
)

// Scoring names used in explanation strings.
const (
	playerName   = "Tom"
	computerName = "Marta"
)

func nameOf(s Side) string {
	if s == SidePlayer {
		return playerName
	}
	return computerName
}

// DiscardResult is the outcome of scoring the two discarded cards.
// Computed at discard time, applied at hand end.
type DiscardResult struct {
	PlayerBonus   int    `json:"player_bonus"`
	ComputerBonus int    `json:"computer_bonus"`
	Total         int    `json:"total"`
	Double        bool   `json:"double"`
	Winner        Side   `json:"winner"`
	Explanation   string `json:"explanation"`
}

// SpecialDiscardResult carries deferred bag reductions from special
// cards found in the discard pile.
type SpecialDiscardResult struct {
	PlayerReduction   int    `json:"player_reduction"`
	ComputerReduction int    `json:"computer_reduction"`
	Explanation       string `json:"explanation"`
}

// ScoreDiscards sums the two discard values and awards the parity bonus:
// 10 points to whichever seat's parity matches the sum, or 20 when the
// discards share a suit or rank (a "double"). The two seats hold
// complementary parities, so exactly one side always wins.
func ScoreDiscards(playerCard, computerCard Card, playerParity, computerParity Parity) DiscardResult {
	pv := playerCard.DiscardValue()
	cv := computerCard.DiscardValue()
	total := pv + cv

	double := playerCard.Suit == computerCard.Suit || playerCard.Rank == computerCard.Rank
	points := 10
	if double {
		points = 20
	}

	totalIsEven := total%2 == 0
	res := DiscardResult{Total: total, Double: double}
	if playerParity.Matches(totalIsEven) {
		res.Winner = SidePlayer
		res.PlayerBonus = points
	} else if computerParity.Matches(totalIsEven) {
		res.Winner = SideComputer
		res.ComputerBonus = points
	}

	doubleText := ""
	if double {
		if playerCard.Suit == computerCard.Suit {
			doubleText = fmt.Sprintf(" (DOUBLE: Both %s suit!)", playerCard.Suit)
		} else {
			doubleText = fmt.Sprintf(" (DOUBLE: Both %ss!)", playerCard.Rank)
		}
	}
	parityText := "odd"
	if totalIsEven {
		parityText = "even"
	}
	res.Explanation = fmt.Sprintf("Discards: %s (%d) + %s (%d) = %d (%s)%s → %s gets %d pts!",
		playerCard, pv, computerCard, cv, total, parityText, doubleText,
		nameOf(res.Winner), points)
	return res
}

// CheckSpecialDiscards scans both discarded cards for special cards and
// attributes their combined bag reduction to the discard-pile winner.
func CheckSpecialDiscards(playerCard, computerCard Card, winner Side) SpecialDiscardResult {
	total := 0
	var found []string
	for _, c := range []Card{playerCard, computerCard} {
		if r := c.SpecialBagReduction(); r > 0 {
			total += r
			found = append(found, fmt.Sprintf("%s (-%d bags)", c, r))
		}
	}

	var res SpecialDiscardResult
	if total == 0 {
		return res
	}
	if winner == SidePlayer {
		res.PlayerReduction = total
	} else {
		res.ComputerReduction = total
	}
	res.Explanation = fmt.Sprintf("%s won discard pile with special cards: %s",
		nameOf(winner), strings.Join(found, ", "))
	return res
}

// CheckSpecialTrick scans a completed trick for special cards. The
// winner's bag reduction applies immediately, unlike discard specials.
func CheckSpecialTrick(trick []Play, winner Side) (reduction int, explanation string) {
	var found []string
	for _, p := range trick {
		if r := p.Card.SpecialBagReduction(); r > 0 {
			reduction += r
			found = append(found, fmt.Sprintf("%s (-%d bags)", p.Card, r))
		}
	}
	if reduction > 0 {
		explanation = fmt.Sprintf("%s won trick with special cards: %s",
			nameOf(winner), strings.Join(found, ", "))
	}
	return reduction, explanation
}

// ReduceBags subtracts a reduction from the bag count. Bags have no
// floor and may go negative (negative bags later convert to bonuses).
func ReduceBags(currentBags, reduction int) int {
	return currentBags - reduction
}

// BlindEligibility reports which seats may bid blind: a seat qualifies
// when it trails the other by at least 100 display points.
type BlindEligibility struct {
	PlayerEligible   bool
	ComputerEligible bool
	PlayerDeficit    int
	ComputerDeficit  int
}

// CheckBlindEligibility evaluates blind-bid eligibility from the
// display scores (the bag-folded scores users see).
func CheckBlindEligibility(playerDisplay, computerDisplay int) BlindEligibility {
	pd := computerDisplay - playerDisplay
	cd := playerDisplay - computerDisplay
	return BlindEligibility{
		PlayerEligible:   pd >= 100,
		ComputerEligible: cd >= 100,
		PlayerDeficit:    max(0, pd),
		ComputerDeficit:  max(0, cd),
	}
}

// ApplyBlindScoring doubles the signed point delta of a blind bid:
// double the gain on success, double the loss on failure (basePoints is
// already negative for failed bids).
func ApplyBlindScoring(basePoints int) int {
	return basePoints * 2
}

// applyBagRollover converts accumulated bags to score adjustments:
// every full 7 bags costs 100 points, every full -5 bags earns 100.
// Returns the adjusted score and bags plus how many rollovers fired.
func applyBagRollover(score, bags int) (int, int, int, int) {
	penalties, bonuses := 0, 0
	for bags >= 7 {
		score -= 100
		bags -= 7
		penalties++
	}
	for bags <= -5 {
		score += 100
		bags += 5
		bonuses++
	}
	return score, bags, penalties, bonuses
}

// DisplayScore folds the bag count into the ones digit of the score for
// presentation: the base score rounded to tens plus (or minus, for
// negative bases) the bags. Negative bags leave the base unchanged.
func DisplayScore(baseScore, bags int) int {
	if bags < 0 {
		return baseScore
	}
	tens := floorTens(baseScore)
	if baseScore < 0 {
		return tens - bags
	}
	return tens + bags
}

// BaseScoreFromDisplay inverts DisplayScore for non-negative bags.
func BaseScoreFromDisplay(displayScore, bags int) int {
	return displayScore - bags
}

// floorTens rounds toward negative infinity to a multiple of 10,
// matching Python floor division the original rules were written with.
func floorTens(n int) int {
	t := n / 10 * 10
	if n < 0 && n%10 != 0 {
		t -= 10
	}
	return t
}

// SideHandScore is one seat's settlement for a hand.
type SideHandScore struct {
	HandPoints int  `json:"hand_points"`
	BagsAdded  int  `json:"bags_added"`
	Penalties  int  `json:"penalties"`
	Bonuses    int  `json:"bonuses"`
	Blind      bool `json:"blind"`
}

// HandScores is the full end-of-hand settlement result.
type HandScores struct {
	Player      SideHandScore `json:"player"`
	Computer    SideHandScore `json:"computer"`
	Explanation string        `json:"explanation"`
}

// settleSide computes one seat's hand points and bag overage from its
// bid and tricks taken, applying nil and blind rules.
func settleSide(s *SideState) SideHandScore {
	bid := s.BidValue()
	actual := s.Tricks
	blind := s.IsBlind()

	var res SideHandScore
	res.Blind = blind
	switch {
	case bid == 0:
		if actual == 0 {
			res.HandPoints = 100
		} else {
			res.HandPoints = -100
			res.BagsAdded = actual
		}
	case actual >= bid:
		res.HandPoints = bid * 10
		res.BagsAdded = actual - bid
		if blind {
			res.HandPoints = ApplyBlindScoring(res.HandPoints)
		}
	default:
		res.HandPoints = -(bid * 10)
		if blind {
			res.HandPoints = ApplyBlindScoring(res.HandPoints)
		}
	}
	return res
}

// sideExplanation renders one seat's settlement line.
func sideExplanation(name string, s *SideState, r SideHandScore) string {
	bid := s.BidValue()
	switch {
	case bid == 0:
		if s.Tricks == 0 {
			return fmt.Sprintf("%s: NIL SUCCESS! 0 bid, 0 tricks (+100 pts)", name)
		}
		return fmt.Sprintf("%s: NIL FAILED! 0 bid, %d tricks (-100 pts, +%d bags)", name, s.Tricks, r.BagsAdded)
	case r.Blind:
		line := ""
		if s.Tricks >= bid {
			line = fmt.Sprintf("%s: BLIND %d SUCCESS! %d tricks (DOUBLE POINTS: +%d pts)", name, bid, s.Tricks, r.HandPoints)
		} else {
			line = fmt.Sprintf("%s: BLIND %d FAILED! %d tricks (DOUBLE PENALTY: %d pts)", name, bid, s.Tricks, r.HandPoints)
		}
		if r.BagsAdded > 0 {
			line += fmt.Sprintf(", +%d bags", r.BagsAdded)
		}
		return line
	case r.BagsAdded > 0:
		return fmt.Sprintf("%s: %d bid, %d tricks (+%d bags)", name, bid, s.Tricks, r.BagsAdded)
	default:
		return fmt.Sprintf("%s: %d bid, %d tricks", name, bid, s.Tricks)
	}
}

// SettleHand applies the end-of-hand settlement exactly once: nil and
// blind outcomes, bag overages, bag rollovers, and the consolidated
// explanation. Special-card reductions earned via tricks were already
// applied when the tricks resolved; this only reports them.
//
// A blind nil (blind flag with a bid of 0) stakes the whole game: the
// player instantly wins on success and instantly loses on failure.
func (g *GameState) SettleHand() HandScores {
	p := g.Player()
	c := g.Computer()

	pr := settleSide(p)
	cr := settleSide(c)

	p.Score += pr.HandPoints
	c.Score += cr.HandPoints
	pBags := p.Bags + pr.BagsAdded
	cBags := c.Bags + cr.BagsAdded

	p.Score, p.Bags, pr.Penalties, pr.Bonuses = applyBagRollover(p.Score, pBags)
	c.Score, c.Bags, cr.Penalties, cr.Bonuses = applyBagRollover(c.Score, cBags)

	parts := []string{
		sideExplanation(playerName, p, pr),
		sideExplanation(computerName, c, cr),
	}
	if p.TrickSpecials > 0 {
		parts = append(parts, fmt.Sprintf("%s won special cards: -%d bags", playerName, p.TrickSpecials))
	}
	if c.TrickSpecials > 0 {
		parts = append(parts, fmt.Sprintf("%s won special cards: -%d bags", computerName, c.TrickSpecials))
	}
	if pr.Penalties > 0 {
		parts = append(parts, fmt.Sprintf("%s: BAG PENALTY! -%d pts", playerName, pr.Penalties*100))
	}
	if pr.Bonuses > 0 {
		parts = append(parts, fmt.Sprintf("%s: NEGATIVE BAG BONUS! +%d pts", playerName, pr.Bonuses*100))
	}
	if cr.Penalties > 0 {
		parts = append(parts, fmt.Sprintf("%s: BAG PENALTY! -%d pts", computerName, cr.Penalties*100))
	}
	if cr.Bonuses > 0 {
		parts = append(parts, fmt.Sprintf("%s: NEGATIVE BAG BONUS! +%d pts", computerName, cr.Bonuses*100))
	}
	if p.Bags != 0 || c.Bags != 0 {
		parts = append(parts, fmt.Sprintf("Bags: %s %d/7, %s %d/7", playerName, p.Bags, computerName, c.Bags))
	}

	p.TrickSpecials = 0
	c.TrickSpecials = 0

	g.settleBlindNil(p, c)

	return HandScores{
		Player:      pr,
		Computer:    cr,
		Explanation: strings.Join(parts, " | "),
	}
}

// settleBlindNil ends the game outright when a blind nil was staked.
func (g *GameState) settleBlindNil(p, c *SideState) {
	for side, s := range []*SideState{p, c} {
		if !s.IsBlind() || s.BidValue() != 0 {
			continue
		}
		g.GameOver = true
		g.HandOver = true
		who := Side(side)
		if s.Tricks == 0 {
			g.Winner = outcomeFor(who)
			g.Message = fmt.Sprintf("BLIND NIL SUCCESS! %s wins the game outright!", nameOf(who))
		} else {
			g.Winner = outcomeFor(who.Opponent())
			g.Message = fmt.Sprintf("BLIND NIL FAILED! %s loses the game outright!", nameOf(who))
		}
	}
}

// checkGameOver evaluates the game-end condition. Called only at hand
// end, it compares display scores: reaching the target score or opening
// a mercy-rule lead of 300+ ends the game. Ties at or above the target
// break on higher base score, then on bags (negative bags lose to
// non-negative, then fewer bags win), and finally declare a tie.
func (g *GameState) checkGameOver() bool {
	if g.GameOver {
		return true // blind nil already decided it
	}
	p := g.Player()
	c := g.Computer()
	pDisp := DisplayScore(p.Score, p.Bags)
	cDisp := DisplayScore(c.Score, c.Bags)

	lead := pDisp - cDisp
	if lead < 0 {
		lead = -lead
	}
	if pDisp < g.TargetScore && cDisp < g.TargetScore && lead < MercyLead {
		return false
	}

	g.GameOver = true
	switch {
	case pDisp > cDisp:
		g.Winner = OutcomePlayer
	case cDisp > pDisp:
		g.Winner = OutcomeComputer
	default:
		g.Winner = breakScoreTie(p, c)
	}

	switch g.Winner {
	case OutcomePlayer:
		g.Message = fmt.Sprintf("GAME OVER! You WIN %d to %d!", pDisp, cDisp)
	case OutcomeComputer:
		g.Message = fmt.Sprintf("GAME OVER! %s WINS %d to %d!", computerName, cDisp, pDisp)
	default:
		g.Message = fmt.Sprintf("GAME OVER! TIE at %d points each!", pDisp)
	}
	return true
}

// breakScoreTie resolves equal display scores: higher base score wins;
// then a seat with negative bags loses to one without, then fewer bags
// win; otherwise the game is a tie.
func breakScoreTie(p, c *SideState) Outcome {
	if p.Score != c.Score {
		if p.Score > c.Score {
			return OutcomePlayer
		}
		return OutcomeComputer
	}
	pNeg, cNeg := p.Bags < 0, c.Bags < 0
	if pNeg != cNeg {
		if pNeg {
			return OutcomeComputer
		}
		return OutcomePlayer
	}
	if p.Bags != c.Bags {
		if p.Bags < c.Bags {
			return OutcomePlayer
		}
		return OutcomeComputer
	}
	return OutcomeTie
}
