// Package engine implements the round model for the game: a house edge that
// ramps with cumulative wagering, an effective win probability derived from
// the chosen payout multiplier, and a single-trial resolver over an injected
// random source.
//
// The package is pure state-in/state-out. It keeps no globals, draws no
// entropy of its own, and performs no input validation; callers own both the
// player state and the contract that bets are affordable and multipliers
// sane before a round is resolved.
package engine

// Params holds the model constants for a table. The zero value is not
// playable, start from DefaultParams and override fields as needed.
type Params struct {
	// StartingBalance is the bankroll a fresh player state begins with.
	// Balances below it trigger the slippery-slope penalty.
	StartingBalance float64

	// BaseHouseEdge applies to every round regardless of history.
	BaseHouseEdge float64

	// MinWinChance is the floor the effective win probability never drops
	// below, however large the combined edge grows.
	MinWinChance float64

	// SlipperySlopeEdge is added flat whenever the player's balance sits
	// below StartingBalance at the start of a round.
	SlipperySlopeEdge float64

	// WagerThreshold is the cumulative wager beyond which the ramped edge
	// starts to accrue.
	WagerThreshold float64

	// EdgeRampRate of extra edge accrues per EdgeRampStep wagered above
	// WagerThreshold, up to EdgeRampCap.
	EdgeRampStep float64
	EdgeRampRate float64
	EdgeRampCap  float64
}

// DefaultParams returns the production table: 5% base edge ramping to 15%
// past 1000 wagered, a flat 10% penalty below the 1000 starting balance, and
// a 1% win-chance floor.
func DefaultParams() Params {
	return Params{
		StartingBalance:   1000,
		BaseHouseEdge:     0.05,
		MinWinChance:      0.01,
		SlipperySlopeEdge: 0.10,
		WagerThreshold:    1000,
		EdgeRampStep:      100,
		EdgeRampRate:      0.01,
		EdgeRampCap:       0.10,
	}
}

// HouseEdge returns the edge charged to a player whose lifetime wager is
// totalWagered. At or below WagerThreshold only the base edge applies; above
// it the edge grows by EdgeRampRate per EdgeRampStep wagered, capped at
// BaseHouseEdge+EdgeRampCap. Non-decreasing in totalWagered.
func (p Params) HouseEdge(totalWagered float64) float64 {
	if totalWagered <= p.WagerThreshold {
		return p.BaseHouseEdge
	}
	extra := (totalWagered - p.WagerThreshold) / p.EdgeRampStep * p.EdgeRampRate
	if extra > p.EdgeRampCap {
		extra = p.EdgeRampCap
	}
	return p.BaseHouseEdge + extra
}

// WinProbability returns the effective chance of winning one round at the
// given payout multiplier. The fair chance 1/multiplier is reduced by the
// house edge for totalWagered, plus SlipperySlopeEdge when balance is below
// StartingBalance, then clamped to MinWinChance.
//
// multiplier must be at least 1; the caller enforces that.
func (p Params) WinProbability(multiplier, totalWagered, balance float64) float64 {
	edge := p.HouseEdge(totalWagered)
	if balance < p.StartingBalance {
		edge += p.SlipperySlopeEdge
	}
	chance := 1.0/multiplier - edge
	if chance < p.MinWinChance {
		chance = p.MinWinChance
	}
	return chance
}
