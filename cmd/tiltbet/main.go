package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/playforge/tiltbet/internal/config"
	"github.com/playforge/tiltbet/internal/engine"
	"github.com/playforge/tiltbet/internal/logger"
	"github.com/playforge/tiltbet/internal/session"
	"github.com/playforge/tiltbet/internal/simulator"
)

const defaultConfigPath = "configs/tiltbet.yaml"

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tiltbet",
		Short:         "A turn-based betting game where the odds tilt against you",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", defaultConfigPath, "path to config file")
	root.PersistentFlags().Bool("debug", false, "enable debug logs")

	root.AddCommand(newPlayCmd(), newSimulateCmd(), newOddsCmd())
	return root
}

// resolveConfig loads the configured file. When the default path is absent
// the built-in defaults apply; an explicit --config that fails is an error.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		if !cmd.Flags().Changed("config") && os.IsNotExist(err) {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func initLogging(cmd *cobra.Command, cfg *config.Config) {
	level := logger.ParseLevel(cfg.Logging.Level)
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	logger.Init(&logger.Options{
		Level:      level,
		Format:     cfg.Logging.Format,
		TimeFormat: time.RFC3339,
	})
}

// resolveSeed keeps 0 as "seed from entropy".
func resolveSeed(seed int64) (int64, error) {
	if seed != 0 {
		return seed, nil
	}
	return engine.NewSeed()
}

func newPlayCmd() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play an interactive betting session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			initLogging(cmd, cfg)

			seed, err := resolveSeed(seed)
			if err != nil {
				return fmt.Errorf("seed rng: %w", err)
			}
			slog.Debug("session seeded", "seed", seed)

			s := session.New(session.Config{
				Params:   engine.DefaultParams(),
				RNG:      engine.NewSource(seed),
				Input:    cmd.InOrStdin(),
				Output:   cmd.OutOrStdout(),
				Currency: cfg.Game.Currency,
			})

			errCh := make(chan error, 1)
			go func() {
				errCh <- s.Run(cmd.Context())
			}()

			// The session cannot unwind a blocked prompt read, so exit on
			// signal even while it waits for input.
			select {
			case <-cmd.Context().Done():
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			case err := <-errCh:
				if err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			}
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "deterministic seed (0 seeds from entropy)")
	return cmd
}

func newSimulateCmd() *cobra.Command {
	var (
		sessions   int
		rounds     int
		workers    int
		bet        float64
		multiplier float64
		seed       int64
		asJSON     bool
	)

	def := config.Default().Simulate

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run many flat-betting sessions and report the aggregate",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			initLogging(cmd, cfg)

			sim := simulator.Config{
				Params:     engine.DefaultParams(),
				Sessions:   cfg.Simulate.Sessions,
				MaxRounds:  cfg.Simulate.MaxRounds,
				Bet:        cfg.Simulate.Bet,
				Multiplier: cfg.Simulate.Multiplier,
				Workers:    cfg.Simulate.Workers,
			}

			// Flags override the config file only when set.
			flags := cmd.Flags()
			if flags.Changed("sessions") {
				sim.Sessions = sessions
			}
			if flags.Changed("rounds") {
				sim.MaxRounds = rounds
			}
			if flags.Changed("bet") {
				sim.Bet = bet
			}
			if flags.Changed("multiplier") {
				sim.Multiplier = multiplier
			}
			if flags.Changed("workers") {
				sim.Workers = workers
			}

			sim.Seed, err = resolveSeed(seed)
			if err != nil {
				return fmt.Errorf("seed rng: %w", err)
			}

			report, err := simulator.Run(cmd.Context(), sim)
			if err != nil {
				return err
			}

			if asJSON {
				return report.WriteJSON(cmd.OutOrStdout())
			}
			return report.WriteText(cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&sessions, "sessions", def.Sessions, "number of sessions to play")
	cmd.Flags().IntVar(&rounds, "rounds", def.MaxRounds, "max rounds per session")
	cmd.Flags().Float64Var(&bet, "bet", def.Bet, "flat bet per round")
	cmd.Flags().Float64Var(&multiplier, "multiplier", def.Multiplier, "payout multiplier per round")
	cmd.Flags().IntVar(&workers, "workers", def.Workers, "worker pool size")
	cmd.Flags().Int64Var(&seed, "seed", 0, "deterministic seed (0 seeds from entropy)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the report as JSON")
	return cmd
}

func newOddsCmd() *cobra.Command {
	var (
		wagered     float64
		balance     float64
		multipliers []float64
	)

	params := engine.DefaultParams()

	cmd := &cobra.Command{
		Use:   "odds",
		Short: "Print win chances and expected value for a hypothetical state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if wagered < 0 {
				return fmt.Errorf("wagered must not be negative, got %v", wagered)
			}
			if balance < 0 {
				return fmt.Errorf("balance must not be negative, got %v", balance)
			}
			for _, m := range multipliers {
				if m < 1 {
					return fmt.Errorf("multiplier must be at least 1, got %v", m)
				}
			}

			out := cmd.OutOrStdout()
			edge := params.HouseEdge(wagered)

			fmt.Fprintf(out, "State: wagered %.2f, balance %.2f\n", wagered, balance)
			if balance < params.StartingBalance {
				fmt.Fprintf(out, "House edge: %.2f%% (+%.2f%% low-balance penalty)\n\n",
					edge*100, params.SlipperySlopeEdge*100)
			} else {
				fmt.Fprintf(out, "House edge: %.2f%%\n\n", edge*100)
			}

			fmt.Fprintf(out, "%10s %10s %10s %10s\n", "mult", "fair", "chance", "ev/unit")
			for _, m := range multipliers {
				chance := params.WinProbability(m, wagered, balance)
				ev := chance*m - 1
				fmt.Fprintf(out, "%10.2f %9.2f%% %9.2f%% %+10.4f\n", m, 100/m, chance*100, ev)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&wagered, "wagered", 0, "lifetime amount already wagered")
	cmd.Flags().Float64Var(&balance, "balance", params.StartingBalance, "current balance")
	cmd.Flags().Float64SliceVar(&multipliers, "multipliers",
		[]float64{1.5, 2, 3, 5, 10, 20, 50}, "multipliers to tabulate")
	return cmd
}
