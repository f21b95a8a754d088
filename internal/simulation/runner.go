package simulation

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/idhash"
	"bankroll-lab/internal/metrics"
	"bankroll-lab/internal/observability"
	"bankroll-lab/internal/strategy"
)

// Runner executes batches of independent trials.
type Runner struct {
	cfg         Config
	scenarioID  string
	newStrategy strategy.Factory
	workers     int
	seed        uint64
	progress    ProgressFunc
	logger      zerolog.Logger
	metrics     *observability.Metrics
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Config      Config
	NewStrategy strategy.Factory

	// ScenarioID, when set, is copied to the result and keys BatchID.
	ScenarioID string

	// Workers is the number of trials run concurrently. Values < 1 mean 1.
	Workers int

	// Seed selects the random streams. Trial i draws from
	// PCG(Seed, i), so a batch is reproducible for any Workers value.
	// 0 picks a random seed, reported in BatchResult.Seed.
	Seed uint64

	Progress ProgressFunc           // optional
	Logger   *zerolog.Logger        // optional, defaults to a no-op logger
	Metrics  *observability.Metrics // optional
}

// NewRunner validates opts and creates a batch runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.NewStrategy == nil {
		return nil, ErrMissingStrategy
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Runner{
		cfg:         opts.Config,
		scenarioID:  opts.ScenarioID,
		newStrategy: opts.NewStrategy,
		workers:     max(1, opts.Workers),
		seed:        opts.Seed,
		progress:    opts.Progress,
		logger:      logger.With().Str("component", "simulation").Logger(),
		metrics:     opts.Metrics,
	}, nil
}

// Run executes cfg.NumSimulations trials and aggregates them.
// Every worker owns one strategy instance, reset before each trial.
// ctx is checked between trials; on cancellation Run returns ctx.Err()
// and no result.
func (r *Runner) Run(ctx context.Context) (*domain.BatchResult, error) {
	start := time.Now()

	n := r.cfg.NumSimulations
	seed := r.seed
	if seed == 0 {
		// Nonzero so the reported seed replays this batch.
		seed = rand.Uint64() | 1
	}
	strategyID := r.newStrategy().ID()
	runID := uuid.NewString()

	log := r.logger.With().Str("run_id", runID).Str("strategy", strategyID).Logger()
	log.Info().
		Int("num_simulations", n).
		Int("num_rounds", r.cfg.NumRounds).
		Int("workers", r.workers).
		Uint64("seed", seed).
		Msg("batch started")

	agg, err := metrics.NewAggregator(n, r.cfg.NumRounds)
	if err != nil {
		return nil, err
	}

	workers := min(r.workers, n)
	fallbacks := make([]int, workers)
	jobs := make(chan int)
	completed := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case jobs <- i:
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			strat := r.newStrategy()
			defer func() {
				if fc, ok := strat.(strategy.FallbackCounter); ok {
					fallbacks[w] = fc.Fallbacks()
				}
			}()

			for i := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}

				src := rand.New(rand.NewPCG(seed, uint64(i)))
				res := RunTrial(r.cfg, strat, src)
				if err := agg.Add(i, res); err != nil {
					return err
				}
				r.metrics.RecordTrial(len(res.History), res.Ruined)

				select {
				case <-gctx.Done():
					return gctx.Err()
				case completed <- struct{}{}:
				}
			}
			return nil
		})
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- g.Wait()
		close(completed)
	}()

	step := progressStep(n)
	done := 0
	for range completed {
		if done%step == 0 {
			fraction := float64(done) / float64(n)
			r.metrics.RecordProgress(fraction)
			log.Debug().Float64("progress", fraction).Msg("batch progress")
			if r.progress != nil {
				r.progress(fraction)
			}
		}
		done++
	}

	if err := <-waitErr; err != nil {
		status := observability.StatusFailed
		if ctx.Err() != nil {
			err = ctx.Err()
			status = observability.StatusCancelled
		}
		r.metrics.RecordBatch(strategyID, status, time.Since(start).Seconds())
		log.Warn().Err(err).Int("completed", done).Msg("batch aborted")
		return nil, err
	}

	result, err := agg.Result()
	if err != nil {
		r.metrics.RecordBatch(strategyID, observability.StatusFailed, time.Since(start).Seconds())
		return nil, err
	}

	result.RunID = runID
	if r.scenarioID != "" {
		result.ScenarioID = r.scenarioID
		result.BatchID = idhash.ComputeBatchID(r.scenarioID, strategyID, seed)
	}
	result.StrategyID = strategyID
	result.Seed = seed
	result.InitialBankroll = r.cfg.InitialBankroll
	for _, f := range fallbacks {
		result.StrategyFallbacks += f
	}
	result.ElapsedSeconds = time.Since(start).Seconds()

	r.metrics.RecordProgress(1)
	r.metrics.RecordFallbacks(strategyID, result.StrategyFallbacks)
	r.metrics.RecordRuinEstimate(strategyID, result.ProbabilityOfRuin)
	r.metrics.RecordBatch(strategyID, observability.StatusCompleted, result.ElapsedSeconds)

	log.Info().
		Float64("mean_final_bankroll", result.MeanFinalBankroll).
		Float64("probability_of_ruin", result.ProbabilityOfRuin).
		Int("strategy_fallbacks", result.StrategyFallbacks).
		Float64("elapsed_seconds", result.ElapsedSeconds).
		Msg("batch finished")

	return result, nil
}
