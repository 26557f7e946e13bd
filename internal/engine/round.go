package engine

// PlayerState tracks one player's bankroll across rounds. The caller owns
// it: ResolveRound takes the current state and returns the next.
type PlayerState struct {
	Balance      float64
	TotalWagered float64
}

// NewPlayerState returns the state a fresh session starts from.
func NewPlayerState(p Params) PlayerState {
	return PlayerState{Balance: p.StartingBalance}
}

// Broke reports whether the player can no longer place any bet.
func (s PlayerState) Broke() bool {
	return s.Balance <= 0
}

// Outcome describes one resolved round. Payout is the gross amount returned
// on a win and zero on a loss; NetChange is the signed balance delta, -bet
// on a loss. WinChance is the probability the round was resolved against.
type Outcome struct {
	Won       bool
	Payout    float64
	NetChange float64
	WinChance float64
}

// ResolveRound plays a single round. The bet is committed to the cumulative
// wager first, the win chance is computed from that post-bet wager and the
// pre-round balance, then exactly one sample is drawn from rng and compared
// against the chance; a sample at or below it wins bet*multiplier gross.
//
// Callers validate before calling: bet positive and no larger than
// state.Balance, multiplier at least 1. ResolveRound does not re-check.
func ResolveRound(p Params, state PlayerState, bet, multiplier float64, rng RandomSource) (PlayerState, Outcome) {
	wagered := state.TotalWagered + bet
	chance := p.WinProbability(multiplier, wagered, state.Balance)

	out := Outcome{WinChance: chance}
	next := PlayerState{TotalWagered: wagered}

	if rng.Float64() <= chance {
		out.Won = true
		out.Payout = bet * multiplier
		out.NetChange = out.Payout - bet
	} else {
		out.NetChange = -bet
	}
	next.Balance = state.Balance + out.NetChange
	return next, out
}
