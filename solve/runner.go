package solve

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/aedificium/archive"
	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/oracle"
	"github.com/katalvlaran/aedificium/walk"
)

// Outcome reports a finished Run.
type Outcome struct {
	Problem    string
	Rooms      int
	Graph      *graph.Graph
	Correct    bool
	Attempts   int
	QueryCount int
	Engine     Engine

	// RunID is the archive id of the last attempt, empty without an archive.
	RunID string
}

// Runner solves problems against an oracle.
type Runner struct {
	oracle  oracle.Oracle
	archive *archive.Store
	opts    Options
}

// NewRunner returns a Runner over o; store may be nil.
func NewRunner(o oracle.Oracle, store *archive.Store, opts ...Option) *Runner {
	ro := DefaultOptions()
	for _, fn := range opts {
		fn(&ro)
	}
	if ro.MaxAttempts < 1 {
		ro.MaxAttempts = 1
	}
	if ro.PlanCount < 1 {
		ro.PlanCount = 1
	}

	return &Runner{oracle: o, archive: store, opts: ro}
}

// Run solves problem. Each attempt selects the problem afresh, so the oracle
// score restarts with it.
//
// Errors: ErrAttemptsExhausted (wrapping the last attempt's error), oracle and
// archive errors, ctx errors, and the non-retryable reconstruction errors.
func (r *Runner) Run(ctx context.Context, problem string) (*Outcome, error) {
	log := r.opts.Logger.With("problem", problem)
	var last error
	for a := 0; a < r.opts.MaxAttempts; a++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := r.attempt(ctx, problem, a)
		switch {
		case err == nil && out.Correct:
			log.Info("solve: correct", "attempt", a+1, "queryCount", out.QueryCount, "engine", out.Engine)

			return out, nil
		case err == nil:
			last = fmt.Errorf("solve: attempt %d: guess rejected", a+1)
			log.Warn("solve: guess rejected", "attempt", a+1)
		case Retryable(err):
			last = err
			log.Warn("solve: reconstruction failed", "attempt", a+1, "error", err)
		default:
			return nil, err
		}
	}

	return nil, fmt.Errorf("solve: %s after %d attempts: %w: %w",
		problem, r.opts.MaxAttempts, ErrAttemptsExhausted, last)
}

func (r *Runner) attempt(ctx context.Context, problem string, a int) (*Outcome, error) {
	o := r.opts

	// 1. Select.
	n, err := r.oracle.Select(ctx, problem)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Problem: problem, Rooms: n, Attempts: a + 1}

	// 2. Plans from a seed derived per attempt.
	seed := walk.DeriveSeed(o.Seed, uint64(a))
	gopts := []walk.GeneratorOption{
		walk.WithSeed(seed), walk.WithMagicLen(o.MagicLen), walk.WithMaxPadding(o.MaxPadding),
	}
	if o.SharedMagic {
		gopts = append(gopts, walk.WithSharedMagic())
	}
	gen, err := walk.Generate(n, o.PlanCount, gopts...)
	if err != nil {
		return nil, err
	}
	plans := make([]walk.Plan, len(gen))
	magics := make([]walk.Plan, len(gen))
	for i, x := range gen {
		plans[i], magics[i] = x.Plan, x.Magic
	}

	// 3. Explore, then fingerprint the rooms along the first plan.
	traces, err := r.oracle.Explore(ctx, plans)
	if err != nil {
		return nil, err
	}
	var words []walk.Plan
	if o.Fingerprints > 0 {
		if words, traces, err = r.identify(ctx, n, plans[0], magics[0], seed, traces); err != nil {
			return nil, err
		}
	}
	if c, ok := r.oracle.(oracle.Counter); ok {
		out.QueryCount = c.QueryCount()
	}

	// 4. Archive before the engines run, so a failed attempt can be replayed.
	if r.archive != nil {
		run := &archive.Run{
			Problem: problem, Rooms: n, Seed: seed, QueryCount: out.QueryCount,
			Traces: traces, Magics: magics, Words: words,
		}
		if out.RunID, err = r.archive.SaveRun(ctx, run); err != nil {
			return nil, err
		}
	}

	// 5. Reconstruct.
	res, err := Reconstruct(n, traces, magics, withOptions(o), WithWords(words))
	if err != nil {
		return nil, err
	}
	out.Graph, out.Engine = res.Graph, res.Engine
	r.opts.Logger.Debug("solve: reconstructed", "problem", problem, "rooms", n,
		"engine", res.Engine, "steps", res.Steps, "traces", len(traces))

	// 6. Guess.
	if out.Correct, err = r.oracle.Guess(ctx, res.Graph); err != nil {
		return nil, err
	}
	if r.archive != nil {
		if err := r.archive.SetVerdict(ctx, out.RunID, res.Graph, out.Correct); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Replay reconstructs an archived run without touching the oracle. The run's
// fingerprint words are applied before opts.
func Replay(ctx context.Context, store *archive.Store, id string, opts ...Option) (*archive.Run, *Result, error) {
	run, err := store.LoadRun(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if len(run.Traces) == 0 {
		return run, nil, fmt.Errorf("solve: run %s: %w", id, ErrNoTraces)
	}
	opts = append([]Option{WithWords(run.Words)}, opts...)
	res, err := Reconstruct(run.Rooms, run.Traces, run.Magics, opts...)
	if err != nil {
		return run, nil, err
	}

	return run, res, nil
}

// withOptions replays a whole Options value as one Option.
func withOptions(src Options) Option {
	return func(o *Options) { *o = src }
}

// IsFatal reports whether err should stop a batch of runs, as opposed to
// failing only the run that produced it.
func IsFatal(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
