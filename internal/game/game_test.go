package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomalden/twospades/engine"
)

func TestNewSpadesGame(t *testing.T) {
	g := NewSpadesGame(42, nil, 0)
	require.NotNil(t, g.Engine)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", g.ID.String())
	assert.Equal(t, engine.DefaultTargetScore, g.Engine.TargetScore)

	// Same seed deals the same cards.
	other := NewSpadesGame(42, nil, 0)
	assert.Equal(t, g.Engine.Player().Hand, other.Engine.Player().Hand)
	assert.NotEqual(t, g.ID, other.ID)
}

func TestTargetScoreOverride(t *testing.T) {
	g := NewSpadesGame(1, nil, 500)
	assert.Equal(t, 500, g.Engine.TargetScore)
}

func TestSafeStateHidesComputerHand(t *testing.T) {
	g := NewSpadesGame(7, nil, 0)
	st := g.SafeState()

	assert.Len(t, st.Player.Hand, engine.HandSize)
	assert.Nil(t, st.Computer.Hand)
	assert.Equal(t, engine.HandSize, st.Computer.HandCount)
	assert.False(t, st.ShowComputerHand)
	assert.Contains(t, st.Player.Name, "Tom")
	assert.Contains(t, st.Computer.Name, "Marta")

	// The two seats carry complementary parity labels.
	assert.NotEqual(t, st.Player.Parity, st.Computer.Parity)
}

func TestToggleComputerHandReveals(t *testing.T) {
	g := NewSpadesGame(7, nil, 0)
	assert.True(t, g.ToggleComputerHand())
	st := g.SafeState()
	assert.Len(t, st.Computer.Hand, engine.HandSize)
	assert.True(t, st.ShowComputerHand)

	assert.False(t, g.ToggleComputerHand())
	assert.Nil(t, g.SafeState().Computer.Hand)
}

func TestDiscardKeepsBonusFaceDown(t *testing.T) {
	g := NewSpadesGame(11, nil, 0)
	require.NoError(t, g.Discard(0))

	st := g.SafeState()
	assert.Equal(t, 10, len(st.Player.Hand))
	assert.Equal(t, 10, st.Computer.HandCount)
	require.NotNil(t, st.Player.Discarded)
	assert.Nil(t, st.Computer.Discarded, "computer discard stays hidden mid-hand")
	assert.Empty(t, st.DiscardExplanation, "discard bonus stays hidden mid-hand")
}

func TestRuleErrorPassesThrough(t *testing.T) {
	g := NewSpadesGame(3, nil, 0)
	err := g.Bid(4)
	require.Error(t, err)
	assert.True(t, engine.IsRuleError(err))

	err = g.PlayCard(0)
	require.Error(t, err)
	assert.True(t, engine.IsRuleError(err))
}

// playHand drives a full hand through the aggregate's action methods.
func playHand(t *testing.T, g *SpadesGame) {
	t.Helper()
	require.NoError(t, g.Discard(0))
	if g.Engine.Phase == engine.PhaseBlindDecision {
		require.NoError(t, g.BlindDecision(false))
	}
	if g.Engine.Phase == engine.PhaseBidding {
		require.NoError(t, g.Bid(4))
	}
	for steps := 0; steps < 100 && !g.Engine.HandOver; steps++ {
		if g.Engine.TrickCompleted || len(g.Engine.Player().Hand) == 0 {
			require.NoError(t, g.ClearTrick())
			continue
		}
		played := false
		for i := range g.Engine.Player().Hand {
			if err := g.PlayCard(i); err == nil {
				played = true
				break
			} else {
				require.True(t, engine.IsRuleError(err))
			}
		}
		require.True(t, played, "no playable card found")
	}
	require.True(t, g.Engine.HandOver, "hand did not finish")
}

func TestHandOverRevealsResults(t *testing.T) {
	g := NewSpadesGame(11, nil, 0)
	playHand(t, g)

	st := g.SafeState()
	assert.True(t, st.HandOver)
	require.NotNil(t, st.HandResults)
	assert.Equal(t, 1, st.HandResults.HandNumber)
	assert.NotEmpty(t, st.DiscardExplanation)
	assert.NotNil(t, st.Computer.Discarded, "settlement reveals the computer discard")
	assert.Equal(t, 1, g.lastPersistedHand)

	require.NoError(t, g.NextHand())
	st = g.SafeState()
	assert.Equal(t, 2, st.HandNumber)
	assert.False(t, st.HandOver)
	assert.Empty(t, st.DiscardExplanation)
}
