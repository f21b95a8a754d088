// Command bankroll-lab runs Monte Carlo simulations of repeated bets.
//
// Usage:
//
//	bankroll-lab run --config configs/coinflip.yaml [--output result.json]
//	bankroll-lab sweep --config configs/coinflip.yaml --format table
//	bankroll-lab verify --config configs/coinflip.yaml --result result.json
//
// Flags default to BANKROLL_LAB_* environment variables, optionally read
// from a .env file in the working directory.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bankroll-lab/internal/config"
	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/idhash"
	"bankroll-lab/internal/logger"
	"bankroll-lab/internal/observability"
	"bankroll-lab/internal/reporting"
	"bankroll-lab/internal/simulation"
	"bankroll-lab/internal/strategy"
	"bankroll-lab/internal/sweep"
	"bankroll-lab/internal/verification"
)

// Output formats
const (
	formatJSON  = "json"
	formatTable = "table"
)

var (
	errBadFormat = errors.New("unknown output format")
	errNoSweep   = errors.New("scenario has no sweep section")
	errMismatch  = errors.New("replayed batch diverges from stored result")
	errNoResult  = errors.New("--result is required")
)

// options holds flag values shared by all subcommands.
type options struct {
	configPath  string
	outputPath  string
	format      string
	workers     int
	seed        uint64
	metricsFile string
	logLevel    string
	logPretty   bool

	strategy    string
	betFraction float64

	resultPath string // verify only
}

// app holds what a subcommand needs once flags are resolved.
type app struct {
	opts     *options
	settings *domain.SimulationSettings
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics
}

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	rt, err := config.LoadRuntime()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(rt).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(rt config.Runtime) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "bankroll-lab",
		Short:        "Monte Carlo simulator for bankroll management strategies",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Scenario YAML file (required)")
	flags.StringVarP(&opts.outputPath, "output", "o", "", "Write the result to this file instead of stdout")
	flags.StringVarP(&opts.format, "format", "f", formatJSON, "Output format: json or table")
	flags.IntVar(&opts.workers, "workers", rt.Workers, "Trials run concurrently ("+config.EnvWorkers+")")
	flags.Uint64Var(&opts.seed, "seed", rt.Seed, "Random seed, 0 picks one ("+config.EnvSeed+")")
	flags.StringVar(&opts.metricsFile, "metrics-file", rt.MetricsFile, "Write Prometheus metrics to this textfile ("+config.EnvMetricsFile+")")
	flags.StringVar(&opts.logLevel, "log-level", rt.LogLevel, "debug, info, warn, error ("+config.EnvLogLevel+")")
	flags.BoolVar(&opts.logPretty, "log-pretty", rt.LogPretty, "Human readable logs ("+config.EnvLogPretty+")")
	flags.StringVar(&opts.strategy, "strategy", "", "Override the scenario strategy type")
	flags.Float64Var(&opts.betFraction, "bet-fraction", 0, "Override the scenario bet fraction")
	_ = root.MarkPersistentFlagRequired("config")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run one batch of trials and print its statistics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := setup(cmd, opts)
				if err != nil {
					return err
				}
				return a.runBatch(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "sweep",
			Short: "Run one batch per value of the scenario sweep parameter",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := setup(cmd, opts)
				if err != nil {
					return err
				}
				return a.runSweep(cmd.Context())
			},
		},
		newVerifyCmd(opts),
	)

	return root
}

func newVerifyCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Replay a stored batch result from its seed and report divergences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.resultPath == "" {
				return errNoResult
			}
			a, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			return a.runVerify(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&opts.resultPath, "result", "", "Stored batch result JSON (required)")
	return cmd
}

// setup loads the scenario and builds the logger and metrics.
func setup(cmd *cobra.Command, opts *options) (*app, error) {
	if opts.format != formatJSON && opts.format != formatTable {
		return nil, fmt.Errorf("%w: %q", errBadFormat, opts.format)
	}

	log := logger.New(logger.Config{Level: opts.logLevel, Pretty: opts.logPretty})

	settings, err := config.LoadScenario(opts.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("strategy") {
		settings.Strategy = opts.strategy
	}
	if cmd.Flags().Changed("bet-fraction") {
		settings.BetFraction = opts.betFraction
	}

	reg := prometheus.NewRegistry()
	return &app{
		opts:     opts,
		settings: settings,
		logger:   log.With().Str("scenario", settings.Name).Logger(),
		registry: reg,
		metrics:  observability.NewMetrics("", reg),
	}, nil
}

func (a *app) runBatch(ctx context.Context) error {
	cfg, factory, err := simulation.FromSettings(*a.settings, strategy.DefaultRegistry(), a.logger)
	if err != nil {
		return err
	}

	lastDecile := -1
	runner, err := simulation.NewRunner(simulation.RunnerOptions{
		Config:      cfg,
		NewStrategy: factory,
		ScenarioID:  idhash.ComputeScenarioID(*a.settings),
		Workers:     a.opts.workers,
		Seed:        a.opts.seed,
		Logger:      &a.logger,
		Metrics:     a.metrics,
		Progress: func(fraction float64) {
			if d := int(fraction * 10); d > lastDecile {
				lastDecile = d
				a.logger.Info().Msgf("progress %3.0f%%", fraction*100)
			}
		},
	})
	if err != nil {
		return err
	}

	result, runErr := runner.Run(ctx)
	if err := a.writeMetrics(); err != nil {
		a.logger.Error().Err(err).Msg("failed to write metrics")
	}
	if runErr != nil {
		return runErr
	}

	return a.writeOutput(result, func(w io.Writer) error {
		return reporting.WriteBatchSummary(w, result)
	})
}

func (a *app) runSweep(ctx context.Context) error {
	if a.settings.Sweep == nil {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, errNoSweep)
	}

	result, runErr := sweep.Run(ctx, *a.settings, *a.settings.Sweep, sweep.Options{
		Registry: strategy.DefaultRegistry(),
		Workers:  a.opts.workers,
		Seed:     a.opts.seed,
		Logger:   &a.logger,
		Metrics:  a.metrics,
	})
	if err := a.writeMetrics(); err != nil {
		a.logger.Error().Err(err).Msg("failed to write metrics")
	}
	if runErr != nil {
		return runErr
	}

	return a.writeOutput(result, func(w io.Writer) error {
		return reporting.WriteSweepSummary(w, result)
	})
}

func (a *app) runVerify(ctx context.Context) error {
	data, err := os.ReadFile(a.opts.resultPath)
	if err != nil {
		return fmt.Errorf("read result: %w", err)
	}
	var stored domain.BatchResult
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("decode result %s: %w", a.opts.resultPath, err)
	}

	verifier := verification.NewReplayVerifier(verification.ReplayVerifierOptions{
		Settings: *a.settings,
		Registry: strategy.DefaultRegistry(),
		Workers:  a.opts.workers,
		Logger:   &a.logger,
	})
	res, err := verifier.Verify(ctx, &stored)
	if err != nil {
		return err
	}

	if err := a.writeOutput(res, nil); err != nil {
		return err
	}
	if !res.Match {
		return fmt.Errorf("%w: %d fields", errMismatch, len(res.Divergences))
	}
	return nil
}

func (a *app) writeMetrics() error {
	if a.opts.metricsFile == "" {
		return nil
	}
	return observability.WriteTextfile(a.opts.metricsFile, a.registry)
}

// writeOutput writes v to --output, or stdout when unset. table renders
// the table format; results without one are always written as JSON.
func (a *app) writeOutput(v any, table func(io.Writer) error) error {
	var w io.Writer = os.Stdout
	if a.opts.outputPath != "" {
		f, err := os.Create(a.opts.outputPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if a.opts.format == formatTable && table != nil {
		if err := table(w); err != nil {
			return fmt.Errorf("render result: %w", err)
		}
	} else {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}

	if a.opts.outputPath != "" {
		a.logger.Info().Str("path", a.opts.outputPath).Msg("result written")
	}
	return nil
}
