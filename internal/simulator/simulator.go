// Package simulator plays many flat-betting sessions against the engine and
// aggregates the results into a report. Sessions are independent; a worker
// pool fans them out and per-worker ledgers are merged at the end.
package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/playforge/tiltbet/internal/engine"
	"github.com/playforge/tiltbet/internal/ledger"
)

// Config describes one simulation run.
type Config struct {
	Params engine.Params

	// Sessions is the number of independent players to simulate.
	Sessions int

	// MaxRounds caps each session; a session also stops early once its
	// balance can no longer cover the bet.
	MaxRounds int

	// Bet and Multiplier are fixed for every round of every session.
	Bet        float64
	Multiplier float64

	// Workers sizes the pool. The report does not depend on it: session i
	// always plays against engine.NewSource(Seed+i).
	Workers int

	Seed int64
}

// Validate enforces the engine's caller contract before any round runs.
func (c Config) Validate() error {
	if c.Sessions < 1 {
		return fmt.Errorf("sessions must be at least 1, got %d", c.Sessions)
	}
	if c.MaxRounds < 1 {
		return fmt.Errorf("max rounds must be at least 1, got %d", c.MaxRounds)
	}
	if math.IsNaN(c.Bet) || c.Bet <= 0 {
		return fmt.Errorf("bet must be positive, got %v", c.Bet)
	}
	if c.Bet > c.Params.StartingBalance {
		return fmt.Errorf("bet %v exceeds the starting balance %v", c.Bet, c.Params.StartingBalance)
	}
	if math.IsNaN(c.Multiplier) || math.IsInf(c.Multiplier, 0) || c.Multiplier < 1 {
		return fmt.Errorf("multiplier must be at least 1, got %v", c.Multiplier)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// Run executes the simulation. Cancelling ctx stops the pool between
// sessions and returns ctx's error; no partial report is produced.
func Run(ctx context.Context, cfg Config) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid simulation config: %w", err)
	}

	slog.Info("simulation started",
		"sessions", cfg.Sessions,
		"max_rounds", cfg.MaxRounds,
		"bet", cfg.Bet,
		"multiplier", cfg.Multiplier,
		"workers", cfg.Workers,
		"seed", cfg.Seed,
	)
	start := time.Now()

	jobs := make(chan int, cfg.Sessions)
	for i := 0; i < cfg.Sessions; i++ {
		jobs <- i
	}
	close(jobs)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total ledger.Ledger

		busts        int
		finalBalance decimal.Decimal
	)

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var local ledger.Ledger
			localBusts := 0
			localFinal := decimal.Zero

			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				state, sessionLedger, busted := playSession(cfg, engine.NewSource(cfg.Seed+int64(i)))
				local.Merge(&sessionLedger)
				localFinal = localFinal.Add(decimal.NewFromFloat(state.Balance))
				if busted {
					localBusts++
				}
			}

			mu.Lock()
			total.Merge(&local)
			busts += localBusts
			finalBalance = finalBalance.Add(localFinal)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	report := buildReport(cfg, total.Summary(), busts, finalBalance, time.Since(start))
	slog.Info("simulation finished",
		"sessions", report.Sessions,
		"busts", report.Busts,
		"rounds", report.Rounds,
		"observed_rtp", report.ObservedRTP,
		"elapsed", report.Elapsed,
	)
	return report, nil
}

// playSession plays one player from a fresh state until MaxRounds, or until
// the balance can no longer cover the bet.
func playSession(cfg Config, rng engine.RandomSource) (engine.PlayerState, ledger.Ledger, bool) {
	state := engine.NewPlayerState(cfg.Params)
	var l ledger.Ledger

	rounds := 0
	for rounds < cfg.MaxRounds && state.Balance >= cfg.Bet {
		var out engine.Outcome
		state, out = engine.ResolveRound(cfg.Params, state, cfg.Bet, cfg.Multiplier, rng)
		l.Record(cfg.Bet, out, state.Balance)
		rounds++
	}

	busted := rounds < cfg.MaxRounds
	return state, l, busted
}
