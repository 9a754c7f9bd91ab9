package oracle

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/walk"
)

// Local is an in-process Oracle around a hidden graph.
//
// Built with NewLocal it draws a fresh connected graph on every Select;
// built with NewLocalGraph it always serves the given graph. Queries are
// scored like the remote oracle: every Explore costs len(plans)+1.
type Local struct {
	mu       sync.Mutex
	rng      *rand.Rand
	fixed    *graph.Graph
	hidden   *graph.Graph
	queries  int
	selected bool
}

// NewLocal returns a simulator drawing graphs from seed.
func NewLocal(seed int64) *Local {
	return &Local{rng: walk.NewRand(seed)}
}

// NewLocalGraph returns a simulator serving a copy of g.
func NewLocalGraph(g *graph.Graph) *Local {
	return &Local{fixed: g.Clone()}
}

// Select draws (or reuses) the hidden graph for problem.
//
// Errors: ErrUnknownProblem, graph.ErrConstructFailed, ctx errors.
func (l *Local) Select(ctx context.Context, problem string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p, err := Lookup(problem)
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fixed != nil {
		if l.fixed.Size() != p.Rooms {
			return 0, fmt.Errorf("oracle: %q has %d rooms, graph has %d: %w",
				problem, p.Rooms, l.fixed.Size(), ErrUnknownProblem)
		}
		l.hidden = l.fixed
	} else {
		g, err := graph.Random(p.Rooms, l.rng)
		if err != nil {
			return 0, err
		}
		l.hidden = g
	}
	l.queries, l.selected = 0, true

	return p.Rooms, nil
}

// Explore walks each plan over the hidden graph.
//
// Errors: ErrNotSelected, ErrNoPlans, walk plan errors, ctx errors.
func (l *Local) Explore(ctx context.Context, plans []walk.Plan) ([]walk.Trace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.selected {
		return nil, ErrNotSelected
	}
	if len(plans) == 0 {
		return nil, ErrNoPlans
	}
	n := l.hidden.Size()
	for i, p := range plans {
		if err := p.ValidateBudget(n); err != nil {
			return nil, fmt.Errorf("oracle: plan %d: %w", i, err)
		}
	}

	out := make([]walk.Trace, len(plans))
	for i, p := range plans {
		tr, err := l.hidden.Trace(p)
		if err != nil {
			return nil, err
		}
		out[i] = tr
	}
	l.queries += len(plans) + 1

	return out, nil
}

// Guess compares g with the hidden graph up to bisimulation and ends the
// problem.
//
// Errors: ErrNotSelected, graph validation errors, ctx errors.
func (l *Local) Guess(ctx context.Context, g *graph.Graph) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.selected {
		return false, ErrNotSelected
	}
	if err := g.Validate(l.hidden.Size()); err != nil {
		return false, err
	}
	l.selected = false

	return graph.Bisimilar(l.hidden, g), nil
}

// QueryCount returns the score of the current problem.
func (l *Local) QueryCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.queries
}

// Hidden returns a copy of the last selected graph, or nil before Select.
func (l *Local) Hidden() *graph.Graph {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.hidden == nil {
		return nil
	}

	return l.hidden.Clone()
}
