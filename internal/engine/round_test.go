package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays a fixed sample sequence and counts draws.
type scriptedSource struct {
	samples []float64
	calls   int
}

func (s *scriptedSource) Float64() float64 {
	v := s.samples[s.calls%len(s.samples)]
	s.calls++
	return v
}

func TestResolveRoundWin(t *testing.T) {
	p := DefaultParams()
	state := NewPlayerState(p)
	rng := &scriptedSource{samples: []float64{0.40}}

	next, out := ResolveRound(p, state, 100, 2, rng)

	assert.True(t, out.Won)
	assert.InDelta(t, 0.45, out.WinChance, floatDelta)
	assert.InDelta(t, 200, out.Payout, floatDelta)
	assert.InDelta(t, 100, out.NetChange, floatDelta)
	assert.InDelta(t, 1100, next.Balance, floatDelta)
	assert.InDelta(t, 100, next.TotalWagered, floatDelta)
}

func TestResolveRoundLoss(t *testing.T) {
	p := DefaultParams()
	state := NewPlayerState(p)
	rng := &scriptedSource{samples: []float64{0.46}}

	next, out := ResolveRound(p, state, 100, 2, rng)

	assert.False(t, out.Won)
	assert.InDelta(t, 0.45, out.WinChance, floatDelta)
	assert.Zero(t, out.Payout)
	assert.InDelta(t, -100, out.NetChange, floatDelta)
	assert.InDelta(t, 900, next.Balance, floatDelta)
	assert.InDelta(t, 100, next.TotalWagered, floatDelta)
}

// TestResolveRoundBoundarySample checks that a sample exactly equal to the
// win chance still wins.
func TestResolveRoundBoundarySample(t *testing.T) {
	p := DefaultParams()
	state := NewPlayerState(p)
	chance := p.WinProbability(2, 100, state.Balance)
	rng := &scriptedSource{samples: []float64{chance}}

	_, out := ResolveRound(p, state, 100, 2, rng)

	assert.True(t, out.Won)
}

// TestResolveRoundWagerCommitsFirst places a bet that pushes the lifetime
// wager across the ramp threshold. The chance must reflect the post-bet
// wager, not the pre-bet one.
func TestResolveRoundWagerCommitsFirst(t *testing.T) {
	p := DefaultParams()
	state := PlayerState{Balance: 1000, TotalWagered: 950}
	rng := &scriptedSource{samples: []float64{0.448}}

	// Post-bet wager 1050 puts the edge at 0.055, so the chance is 0.445
	// and a 0.448 sample loses. Priced off the pre-bet wager it would win.
	next, out := ResolveRound(p, state, 100, 2, rng)

	assert.False(t, out.Won)
	assert.InDelta(t, 0.445, out.WinChance, floatDelta)
	assert.InDelta(t, 1050, next.TotalWagered, floatDelta)
}

// TestResolveRoundBalanceReadBeforePayout puts the player below the starting
// balance on a round whose win would restore it. The penalty must price off
// the balance as it stood when the round began.
func TestResolveRoundBalanceReadBeforePayout(t *testing.T) {
	p := DefaultParams()
	state := PlayerState{Balance: 900, TotalWagered: 0}
	rng := &scriptedSource{samples: []float64{0.0}}

	next, out := ResolveRound(p, state, 100, 2, rng)

	assert.True(t, out.Won)
	assert.InDelta(t, 0.35, out.WinChance, floatDelta)
	assert.InDelta(t, 1000, next.Balance, floatDelta)
}

func TestResolveRoundDrawsOneSample(t *testing.T) {
	p := DefaultParams()
	state := NewPlayerState(p)
	rng := &scriptedSource{samples: []float64{0.1, 0.9}}

	for i := 0; i < 5; i++ {
		state, _ = ResolveRound(p, state, 10, 2, rng)
	}

	assert.Equal(t, 5, rng.calls)
}

func TestResolveRoundBustToZero(t *testing.T) {
	p := DefaultParams()
	state := PlayerState{Balance: 100, TotalWagered: 2000}
	rng := &scriptedSource{samples: []float64{0.99}}

	next, out := ResolveRound(p, state, 100, 2, rng)

	assert.False(t, out.Won)
	assert.InDelta(t, 0, next.Balance, floatDelta)
	assert.True(t, next.Broke())
}

func TestResolveRoundDeterministic(t *testing.T) {
	p := DefaultParams()

	play := func(seed int64) []Outcome {
		rng := NewSource(seed)
		state := NewPlayerState(p)
		outs := make([]Outcome, 0, 50)
		for i := 0; i < 50 && !state.Broke(); i++ {
			var out Outcome
			state, out = ResolveRound(p, state, 25, 3, rng)
			outs = append(outs, out)
		}
		return outs
	}

	require.Equal(t, play(42), play(42))
	assert.NotEqual(t, play(42), play(43))
}

// TestResolveRoundWagerAccumulates runs a mixed win/loss sequence and checks
// that the lifetime wager is the plain sum of bets regardless of outcomes.
func TestResolveRoundWagerAccumulates(t *testing.T) {
	p := DefaultParams()
	state := NewPlayerState(p)
	rng := &scriptedSource{samples: []float64{0.1, 0.99, 0.2, 0.99}}

	bets := []float64{100, 50, 200, 25}
	var sum float64
	for _, bet := range bets {
		state, _ = ResolveRound(p, state, bet, 2, rng)
		sum += bet
		require.InDelta(t, sum, state.TotalWagered, floatDelta)
	}
}

func TestNewPlayerState(t *testing.T) {
	p := DefaultParams()
	state := NewPlayerState(p)

	assert.Equal(t, p.StartingBalance, state.Balance)
	assert.Zero(t, state.TotalWagered)
	assert.False(t, state.Broke())
}
