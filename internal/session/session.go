// Package session drives the interactive game shell: it owns the player
// state, prompts for bets over an injected reader/writer pair, validates
// every input before the engine sees it, and tallies rounds in a ledger.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/playforge/tiltbet/internal/engine"
	"github.com/playforge/tiltbet/internal/ledger"
)

// Config wires a session. Zero fields get defaults: os.Stdin/os.Stdout,
// "$" currency, the process default logger, and an entropy-seeded source.
type Config struct {
	Params   engine.Params
	RNG      engine.RandomSource
	Input    io.Reader
	Output   io.Writer
	Currency string
	Logger   *slog.Logger
}

// Session is one interactive run of the game. Not safe for concurrent use.
type Session struct {
	id       string
	params   engine.Params
	rng      engine.RandomSource
	state    engine.PlayerState
	ledger   ledger.Ledger
	scanner  *bufio.Scanner
	out      io.Writer
	currency string
	log      *slog.Logger
}

// New builds a session with a fresh player state and a unique session id.
func New(cfg Config) *Session {
	if cfg.Input == nil {
		cfg.Input = os.Stdin
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Currency == "" {
		cfg.Currency = "$"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RNG == nil {
		seed, err := engine.NewSeed()
		if err != nil {
			seed = time.Now().UnixNano()
		}
		cfg.RNG = engine.NewSource(seed)
	}

	scanner := bufio.NewScanner(cfg.Input)
	scanner.Split(bufio.ScanWords)

	return &Session{
		id:       uuid.NewString(),
		params:   cfg.Params,
		rng:      cfg.RNG,
		state:    engine.NewPlayerState(cfg.Params),
		scanner:  scanner,
		out:      cfg.Output,
		currency: cfg.Currency,
		log:      cfg.Logger,
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// State returns the current player state.
func (s *Session) State() engine.PlayerState { return s.state }

// Summary returns the ledger tallies so far.
func (s *Session) Summary() ledger.Summary { return s.ledger.Summary() }

// Run plays rounds until the player quits, goes broke, input ends, or ctx is
// cancelled. Cancellation is only observed between rounds; a blocked read on
// Input cannot be interrupted.
func (s *Session) Run(ctx context.Context) error {
	s.log.Info("session started", "session_id", s.id, "balance", s.state.Balance)
	defer s.finish()

	fmt.Fprintln(s.out, "Welcome to the Betting Game!")
	fmt.Fprintf(s.out, "Your starting balance is: %s\n\n", s.money(s.state.Balance))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		bet, quit := s.promptBet()
		if quit {
			return nil
		}

		multiplier, ok := s.promptMultiplier()
		if !ok {
			// Invalid multiplier restarts the round at the bet prompt.
			continue
		}

		var out engine.Outcome
		s.state, out = engine.ResolveRound(s.params, s.state, bet, multiplier, s.rng)
		s.ledger.Record(bet, out, s.state.Balance)
		s.printOutcome(out)

		s.log.Debug("round resolved",
			"session_id", s.id,
			"bet", bet,
			"multiplier", multiplier,
			"won", out.Won,
			"win_chance", out.WinChance,
			"balance", s.state.Balance,
		)

		if s.state.Broke() {
			fmt.Fprintln(s.out, "You have run out of money!")
			return nil
		}
		if !s.promptPlayAgain() {
			return nil
		}
	}
}

// promptBet asks until it gets an affordable positive bet. The bool reports
// quit: a zero bet, end of input, or a read error.
func (s *Session) promptBet() (float64, bool) {
	for {
		fmt.Fprintf(s.out, "Enter bet amount (0 to quit): ")
		tok, ok := s.next()
		if !ok {
			return 0, true
		}

		bet, err := strconv.ParseFloat(tok, 64)
		switch {
		case err != nil || math.IsNaN(bet) || math.IsInf(bet, 0) || bet < 0:
			fmt.Fprintln(s.out, "Invalid bet amount. Enter a positive number, or 0 to quit.")
		case bet == 0:
			return 0, true
		case bet > s.state.Balance:
			fmt.Fprintf(s.out, "Insufficient balance! Your current balance is %s. Try again.\n", s.money(s.state.Balance))
		default:
			return bet, false
		}
	}
}

// promptMultiplier asks once; anything unparseable or below 1.0 reports
// failure so the caller can restart the round.
func (s *Session) promptMultiplier() (float64, bool) {
	fmt.Fprintf(s.out, "Enter payout multiplier (e.g. 1.15, 2.0): ")
	tok, ok := s.next()
	if !ok {
		return 0, false
	}

	multiplier, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(multiplier) || math.IsInf(multiplier, 0) || multiplier < 1.0 {
		fmt.Fprintln(s.out, "Invalid multiplier. It must be a number greater than or equal to 1.0.")
		return 0, false
	}
	return multiplier, true
}

func (s *Session) promptPlayAgain() bool {
	fmt.Fprintf(s.out, "Play another round? (Y/N): ")
	tok, ok := s.next()
	fmt.Fprintln(s.out)
	return ok && strings.EqualFold(tok, "y")
}

func (s *Session) printOutcome(out engine.Outcome) {
	fmt.Fprintln(s.out, "\nRound result:")
	if out.Won {
		fmt.Fprintln(s.out, "  You WON!")
		fmt.Fprintf(s.out, "  Payout: %s\n", s.money(out.Payout))
		fmt.Fprintf(s.out, "  Net gain: %s\n", s.money(out.NetChange))
	} else {
		fmt.Fprintln(s.out, "  You LOST!")
		fmt.Fprintf(s.out, "  Amount lost: %s\n", s.money(-out.NetChange))
	}
	fmt.Fprintf(s.out, "Win chance for this round: %.2f%%\n", out.WinChance*100)
	fmt.Fprintf(s.out, "Total wagered so far: %s\n", s.money(s.state.TotalWagered))
	fmt.Fprintf(s.out, "Your current balance: %s\n\n", s.money(s.state.Balance))
}

func (s *Session) finish() {
	sum := s.ledger.Summary()
	if sum.Rounds > 0 {
		fmt.Fprintln(s.out, "\nSession summary:")
		fmt.Fprintf(s.out, "  Rounds played: %d (%d won, %d lost)\n", sum.Rounds, sum.Wins, sum.Losses)
		fmt.Fprintf(s.out, "  Total wagered: %s\n", s.decMoney(sum.Wagered))
		fmt.Fprintf(s.out, "  Net result: %s\n", s.decMoney(sum.Net))
		if sum.Wins > 0 {
			fmt.Fprintf(s.out, "  Biggest win: %s\n", s.decMoney(sum.BiggestWin))
		}
	}
	fmt.Fprintf(s.out, "Thank you for playing! Your final balance is %s\n", s.money(s.state.Balance))

	s.log.Info("session finished",
		"session_id", s.id,
		"rounds", sum.Rounds,
		"wins", sum.Wins,
		"net", sum.Net.String(),
		"final_balance", s.state.Balance,
	)
}

// next reads the next whitespace-separated token from the input.
func (s *Session) next() (string, bool) {
	if !s.scanner.Scan() {
		return "", false
	}
	return s.scanner.Text(), true
}

func (s *Session) money(v float64) string {
	return fmt.Sprintf("%s%.2f", s.currency, v)
}

func (s *Session) decMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + s.currency + d.Neg().StringFixed(2)
	}
	return s.currency + d.StringFixed(2)
}
