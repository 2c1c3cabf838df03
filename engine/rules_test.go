package engine

import "testing"

func TestTrickWinner(t *testing.T) {
	cases := []struct {
		name   string
		lead   Play
		follow Play
		winner Side
	}{
		{
			name:   "same suit higher follow wins",
			lead:   Play{SidePlayer, cd(RankSeven, SuitHearts)},
			follow: Play{SideComputer, cd(RankKing, SuitHearts)},
			winner: SideComputer,
		},
		{
			name:   "same suit lower follow loses",
			lead:   Play{SidePlayer, cd(RankKing, SuitHearts)},
			follow: Play{SideComputer, cd(RankSeven, SuitHearts)},
			winner: SidePlayer,
		},
		{
			name:   "low trump beats high off-suit lead",
			lead:   Play{SidePlayer, cd(RankSeven, SuitHearts)},
			follow: Play{SideComputer, cd(RankTwo, SuitSpades)},
			winner: SideComputer,
		},
		{
			name:   "trump lead holds against off-suit",
			lead:   Play{SideComputer, cd(RankFour, SuitSpades)},
			follow: Play{SidePlayer, cd(RankAce, SuitHearts)},
			winner: SideComputer,
		},
		{
			name:   "off-suit follow never wins without trump",
			lead:   Play{SidePlayer, cd(RankSeven, SuitHearts)},
			follow: Play{SideComputer, cd(RankKing, SuitDiamonds)},
			winner: SidePlayer,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TrickWinner([]Play{tc.lead, tc.follow})
			if got != tc.winner {
				t.Errorf("expected %v to win, got %v", tc.winner, got)
			}
		})
	}
}

func TestIsValidPlay(t *testing.T) {
	hand := []Card{
		cd(RankFive, SuitHearts),
		cd(RankNine, SuitClubs),
		cd(RankThree, SuitSpades),
	}

	// Leading.
	if !IsValidPlay(hand[0], hand, nil, false) {
		t.Error("leading a non-trump suit must always be legal")
	}
	if IsValidPlay(hand[2], hand, nil, false) {
		t.Error("leading trump before spades are broken is illegal")
	}
	if !IsValidPlay(hand[2], hand, nil, true) {
		t.Error("leading trump after spades are broken is legal")
	}

	allSpades := []Card{cd(RankThree, SuitSpades), cd(RankNine, SuitSpades)}
	if !IsValidPlay(allSpades[0], allSpades, nil, false) {
		t.Error("an all-trump hand may lead trump even unbroken")
	}

	// Following.
	trick := []Play{{SideComputer, cd(RankJack, SuitHearts)}}
	if !IsValidPlay(hand[0], hand, trick, false) {
		t.Error("following the lead suit is legal")
	}
	if IsValidPlay(hand[1], hand, trick, false) {
		t.Error("must follow suit while holding the lead suit")
	}

	void := []Card{cd(RankNine, SuitClubs), cd(RankThree, SuitSpades)}
	if !IsValidPlay(void[0], void, trick, false) || !IsValidPlay(void[1], void, trick, false) {
		t.Error("void in the lead suit, any card including trump is legal")
	}
}

func TestLowestLegalIndex(t *testing.T) {
	hand := []Card{
		cd(RankThree, SuitSpades),
		cd(RankThree, SuitHearts),
		cd(RankEight, SuitClubs),
	}
	idx := lowestLegalIndex(hand, nil, true)
	if hand[idx] != cd(RankThree, SuitHearts) {
		t.Errorf("fallback should prefer the non-trump three, got %v", hand[idx])
	}

	trick := []Play{{SideComputer, cd(RankTen, SuitClubs)}}
	idx = lowestLegalIndex(hand, trick, false)
	if hand[idx] != cd(RankEight, SuitClubs) {
		t.Errorf("fallback must follow suit, got %v", hand[idx])
	}
}
