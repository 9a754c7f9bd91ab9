package main

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/aedificium/oracle"
	"github.com/katalvlaran/aedificium/solve"
	"github.com/katalvlaran/aedificium/walk"
)

var benchFlags struct {
	problem  string
	runs     int
	parallel int
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Solve many simulated instances of a problem and report the success rate",
	Long: `Runs independent solves against in-process simulated oracles, each on its
own random graph, and prints the share solved, mean queries and mean attempts.

Instances run concurrently, one engine per goroutine.`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	f := benchCmd.Flags()
	f.StringVar(&benchFlags.problem, "problem", "", "Problem name (default from config)")
	f.IntVar(&benchFlags.runs, "runs", 10, "Number of instances")
	f.IntVar(&benchFlags.parallel, "parallel", runtime.NumCPU(), "Instances solved concurrently")
}

// benchTally accumulates instance outcomes.
type benchTally struct {
	mu       sync.Mutex
	solved   int
	failed   int
	queries  int
	attempts int
}

func (t *benchTally) add(out *solve.Outcome, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.failed++
		return
	}
	t.solved++
	t.queries += out.QueryCount
	t.attempts += out.Attempts
}

func runBench(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if cmd.Flags().Changed("problem") {
		cfg.Problem = benchFlags.problem
	}
	if benchFlags.runs < 1 {
		return fmt.Errorf("bench: --runs must be positive")
	}
	opts, err := cfg.SolveOptions()
	if err != nil {
		return err
	}

	start := time.Now()
	var tally benchTally
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, benchFlags.parallel))
	for i := 0; i < benchFlags.runs; i++ {
		g.Go(func() error {
			seed := walk.DeriveSeed(cfg.Plans.Seed, uint64(i))
			ropts := append(append([]solve.Option(nil), opts...), solve.WithSeed(seed), solve.WithLogger(logger))
			r := solve.NewRunner(oracle.NewLocal(seed), nil, ropts...)
			out, err := r.Run(gctx, cfg.Problem)
			if err != nil && solve.IsFatal(err) {
				return err
			}
			if err != nil {
				logger.Debug("bench: instance failed", "instance", i, "error", err)
			}
			tally.add(out, err)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "problem=%s solved=%d/%d elapsed=%s\n",
		cfg.Problem, tally.solved, benchFlags.runs, time.Since(start).Round(time.Millisecond))
	if tally.solved > 0 {
		fmt.Fprintf(w, "mean queries=%.1f mean attempts=%.2f\n",
			float64(tally.queries)/float64(tally.solved), float64(tally.attempts)/float64(tally.solved))
	}

	return nil
}
