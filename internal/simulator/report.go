package simulator

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/playforge/tiltbet/internal/ledger"
)

// Report aggregates a finished simulation.
type Report struct {
	Sessions int   `json:"sessions"`
	Busts    int   `json:"busts"`
	Rounds   int64 `json:"rounds"`
	Wins     int64 `json:"wins"`
	Losses   int64 `json:"losses"`

	Wagered     decimal.Decimal `json:"wagered"`
	GrossPayout decimal.Decimal `json:"gross_payout"`
	Net         decimal.Decimal `json:"net"`

	// ObservedRTP is gross payout over wagered; the complement of the
	// realized house take.
	ObservedRTP     float64 `json:"observed_rtp"`
	ObservedWinRate float64 `json:"observed_win_rate"`

	AvgRoundsPerSession float64 `json:"avg_rounds_per_session"`
	MeanFinalBalance    float64 `json:"mean_final_balance"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

func buildReport(cfg Config, sum ledger.Summary, busts int, finalBalance decimal.Decimal, elapsed time.Duration) Report {
	sessions := decimal.NewFromInt(int64(cfg.Sessions))
	return Report{
		Sessions:            cfg.Sessions,
		Busts:               busts,
		Rounds:              sum.Rounds,
		Wins:                sum.Wins,
		Losses:              sum.Losses,
		Wagered:             sum.Wagered,
		GrossPayout:         sum.GrossPayout,
		Net:                 sum.Net,
		ObservedRTP:         sum.RTP,
		ObservedWinRate:     sum.WinRate,
		AvgRoundsPerSession: float64(sum.Rounds) / float64(cfg.Sessions),
		MeanFinalBalance:    finalBalance.Div(sessions).InexactFloat64(),
		Elapsed:             elapsed,
	}
}

// WriteText renders the report as a human-readable block.
func (r Report) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, `Simulation report
  Sessions:            %d (%d busted)
  Rounds:              %d (%.1f avg per session)
  Wins / losses:       %d / %d
  Wagered:             %s
  Gross payout:        %s
  Net:                 %s
  Observed RTP:        %.2f%%
  Observed win rate:   %.2f%%
  Mean final balance:  %.2f
  Elapsed:             %s
`,
		r.Sessions, r.Busts,
		r.Rounds, r.AvgRoundsPerSession,
		r.Wins, r.Losses,
		r.Wagered.StringFixed(2),
		r.GrossPayout.StringFixed(2),
		r.Net.StringFixed(2),
		r.ObservedRTP*100,
		r.ObservedWinRate*100,
		r.MeanFinalBalance,
		r.Elapsed.Round(time.Millisecond),
	)
	return err
}

// WriteJSON renders the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
