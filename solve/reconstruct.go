package solve

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/aedificium/alias"
	"github.com/katalvlaran/aedificium/assemble"
	"github.com/katalvlaran/aedificium/exhaustive"
	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/merge"
	"github.com/katalvlaran/aedificium/walk"
)

// Reconstruct builds an n-room map reproducing every trace. magics[i] is the
// magic pattern behind traces[i] (nil or empty when unknown). With WithWords,
// the merge engine identifies rooms by fingerprint and the exhaustive engine
// replays only the traces that carry a magic pattern. EngineAuto falls back
// to the exhaustive engine on any retryable merge failure.
//
// Steps:
//  1. Reject an empty observation set.
//  2. Run the selected engine; EngineAuto tries merge first.
//  3. Verify the map against every trace before returning it.
//
// Errors: ErrNoTraces, ErrMismatch, the precondition errors of assemble and
// alias, and the exhaustion errors of the engines.
func Reconstruct(n int, traces []walk.Trace, magics []walk.Plan, opts ...Option) (*Result, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if len(traces) == 0 {
		return nil, ErrNoTraces
	}

	var (
		res *Result
		err error
	)
	switch o.Engine {
	case EngineMerge:
		res, err = byMerge(n, traces, magics, o)
	case EngineExhaustive:
		res, err = byExhaustive(n, primary(traces, magics, o.Words), o)
	case EngineAuto:
		res, err = byMerge(n, traces, magics, o)
		if err != nil && Retryable(err) {
			o.Logger.Debug("solve: merge engine gave up, trying exhaustive", "error", err)
			res, err = byExhaustive(n, primary(traces, magics, o.Words), o)
		}
	default:
		return nil, fmt.Errorf("solve: %v: %w", o.Engine, ErrUnknownEngine)
	}
	if err != nil {
		return nil, err
	}

	// Final gate: a valid map that reproduces every observation.
	if err := res.Graph.Validate(n); err != nil {
		return nil, err
	}
	if err := Verify(res.Graph, traces); err != nil {
		return nil, err
	}

	return res, nil
}

// Verify reports ErrMismatch when g does not reproduce every trace.
func Verify(g *graph.Graph, traces []walk.Trace) error {
	for ti, tr := range traces {
		got, err := g.Walk(tr.Plan)
		if err != nil {
			return err
		}
		for i := range got {
			if got[i] != tr.Labels[i] {
				return fmt.Errorf("solve: trace %d position %d: label %d, observed %d: %w",
					ti, i, got[i], tr.Labels[i], ErrMismatch)
			}
		}
	}

	return nil
}

// Retryable reports whether err means the observations were not enough or
// were read wrongly, so fresh plans may succeed. Contradicting alias evidence
// counts: magic aliasing and fingerprints both merge rooms on label evidence
// alone.
func Retryable(err error) bool {
	return errors.Is(err, merge.ErrNotMergeable) ||
		errors.Is(err, assemble.ErrLabelConflict) ||
		errors.Is(err, alias.ErrLabelMismatch) ||
		errors.Is(err, merge.ErrBudgetExceeded) ||
		errors.Is(err, exhaustive.ErrNoSolution) ||
		errors.Is(err, exhaustive.ErrBudgetExceeded) ||
		errors.Is(err, assemble.ErrIncompleteMap) ||
		errors.Is(err, ErrMismatch)
}

func byMerge(n int, traces []walk.Trace, magics []walk.Plan, o Options) (*Result, error) {
	// 1. Identities and the alias/record fixed point.
	aopts := []assemble.Option{assemble.WithMinPatternLen(o.MinPatternLen)}
	if o.Closure {
		aopts = append(aopts, assemble.WithClosure())
	}
	var (
		st  *assemble.State
		err error
	)
	if len(o.Words) > 0 {
		st, _, err = linked(traces, o.Words, aopts...)
	} else if st, err = assemble.NewState(traces, aopts...); err == nil {
		err = st.Fixpoint(magics)
	}
	if err != nil {
		return nil, err
	}

	// 2. Merge search down to n rooms.
	mopts := []merge.Option{merge.WithLogger(o.Logger)}
	if o.MaxSteps > 0 {
		mopts = append(mopts, merge.WithMaxSteps(o.MaxSteps))
	}
	if o.EagerThreshold >= 0 {
		mopts = append(mopts, merge.WithEagerThreshold(o.EagerThreshold))
	}
	mr, err := merge.Search(st, n, mopts...)
	if err != nil {
		return nil, err
	}

	return &Result{Graph: mr.Graph, Engine: EngineMerge, Steps: mr.Steps}, nil
}

// primary returns the traces the exhaustive engine replays: with fingerprint
// words, the generated walks (those with a magic pattern); otherwise all.
func primary(traces []walk.Trace, magics []walk.Plan, words []walk.Plan) []walk.Trace {
	if len(words) == 0 {
		return traces
	}
	var out []walk.Trace
	for i, tr := range traces {
		if i < len(magics) && len(magics[i]) > 0 {
			out = append(out, tr)
		}
	}
	if len(out) == 0 {
		return traces
	}

	return out
}

// byExhaustive replays traces in one search; Verify checks the rest.
func byExhaustive(n int, traces []walk.Trace, o Options) (*Result, error) {
	eopts := []exhaustive.Option{exhaustive.WithLogger(o.Logger)}
	if o.MaxSteps > 0 {
		eopts = append(eopts, exhaustive.WithMaxSteps(o.MaxSteps))
	}
	if o.Closure {
		eopts = append(eopts, exhaustive.WithClosure())
	}
	g, err := exhaustive.Solve(n, traces, eopts...)
	if err != nil {
		return nil, err
	}

	return &Result{Graph: g, Engine: EngineExhaustive}, nil
}
