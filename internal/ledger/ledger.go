// Package ledger tallies resolved rounds for session and simulation
// reporting. Counters sum bets and payouts in decimal so that long runs of
// float64 round amounts do not drift in the totals.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/playforge/tiltbet/internal/engine"
)

// Ledger accumulates round totals. The zero value is ready to use. Not safe
// for concurrent use; run one per goroutine and Merge afterwards.
type Ledger struct {
	rounds int64
	wins   int64
	losses int64

	wagered     decimal.Decimal
	grossPayout decimal.Decimal
	net         decimal.Decimal

	biggestWin  decimal.Decimal
	biggestLoss decimal.Decimal
	peakBalance decimal.Decimal
}

// Record adds one resolved round. balanceAfter is the player balance once
// the outcome has been applied.
func (l *Ledger) Record(bet float64, out engine.Outcome, balanceAfter float64) {
	l.rounds++

	b := decimal.NewFromFloat(bet)
	l.wagered = l.wagered.Add(b)

	if out.Won {
		l.wins++
		payout := decimal.NewFromFloat(out.Payout)
		l.grossPayout = l.grossPayout.Add(payout)

		gain := decimal.NewFromFloat(out.NetChange)
		if gain.GreaterThan(l.biggestWin) {
			l.biggestWin = gain
		}
	} else {
		l.losses++
		if b.GreaterThan(l.biggestLoss) {
			l.biggestLoss = b
		}
	}
	l.net = l.net.Add(decimal.NewFromFloat(out.NetChange))

	balance := decimal.NewFromFloat(balanceAfter)
	if balance.GreaterThan(l.peakBalance) {
		l.peakBalance = balance
	}
}

// Merge folds other into l. Merging is associative and commutative, so
// per-worker ledgers can be combined in any order.
func (l *Ledger) Merge(other *Ledger) {
	l.rounds += other.rounds
	l.wins += other.wins
	l.losses += other.losses

	l.wagered = l.wagered.Add(other.wagered)
	l.grossPayout = l.grossPayout.Add(other.grossPayout)
	l.net = l.net.Add(other.net)

	if other.biggestWin.GreaterThan(l.biggestWin) {
		l.biggestWin = other.biggestWin
	}
	if other.biggestLoss.GreaterThan(l.biggestLoss) {
		l.biggestLoss = other.biggestLoss
	}
	if other.peakBalance.GreaterThan(l.peakBalance) {
		l.peakBalance = other.peakBalance
	}
}

// Rounds returns the number of recorded rounds.
func (l *Ledger) Rounds() int64 { return l.rounds }

// Wins returns the number of winning rounds.
func (l *Ledger) Wins() int64 { return l.wins }

// Losses returns the number of losing rounds.
func (l *Ledger) Losses() int64 { return l.losses }

// RTP returns gross payout over total wagered, or 0 before any round.
func (l *Ledger) RTP() float64 {
	if l.wagered.IsZero() {
		return 0
	}
	return l.grossPayout.Div(l.wagered).InexactFloat64()
}

// WinRate returns wins over rounds, or 0 before any round.
func (l *Ledger) WinRate() float64 {
	if l.rounds == 0 {
		return 0
	}
	return float64(l.wins) / float64(l.rounds)
}

// Summary is a point-in-time copy of the tallies.
type Summary struct {
	Rounds int64
	Wins   int64
	Losses int64

	Wagered     decimal.Decimal
	GrossPayout decimal.Decimal
	Net         decimal.Decimal

	BiggestWin  decimal.Decimal
	BiggestLoss decimal.Decimal
	PeakBalance decimal.Decimal

	RTP     float64
	WinRate float64
}

// Summary snapshots the current tallies.
func (l *Ledger) Summary() Summary {
	return Summary{
		Rounds:      l.rounds,
		Wins:        l.wins,
		Losses:      l.losses,
		Wagered:     l.wagered,
		GrossPayout: l.grossPayout,
		Net:         l.net,
		BiggestWin:  l.biggestWin,
		BiggestLoss: l.biggestLoss,
		PeakBalance: l.peakBalance,
		RTP:         l.RTP(),
		WinRate:     l.WinRate(),
	}
}
