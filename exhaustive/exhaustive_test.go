package exhaustive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/aedificium/exhaustive"
	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/walk"
)

const scenarioPlan = "0123450123450123450123450123450123450123450123450123450"

var scenarioDests = [][walk.DoorCount]int{
	{1, 1, 2, 1, 2, 2},
	{2, 0, 1, 0, 0, 1},
	{0, 2, 0, 2, 1, 0},
}

func trace(t *testing.T, plan string, labels ...int) walk.Trace {
	t.Helper()
	tr, err := walk.TraceFromInts(walk.MustParsePlan(plan), labels)
	require.NoError(t, err)

	return tr
}

// TestSolveScenario rebuilds the 3-room scenario from its single trace.
func TestSolveScenario(t *testing.T) {
	hidden, err := graph.FromDestinations([]walk.Label{0, 1, 2}, scenarioDests, 0)
	require.NoError(t, err)
	tr, err := hidden.Trace(walk.MustParsePlan(scenarioPlan))
	require.NoError(t, err)

	g, err := exhaustive.Solve(3, []walk.Trace{tr})
	require.NoError(t, err)
	require.NoError(t, g.Validate(3))
	assert.Len(t, g.Rooms, 3)
	d, err := g.Destinations()
	require.NoError(t, err)
	assert.Equal(t, scenarioDests, d)
	assert.True(t, graph.Bisimilar(hidden, g))
}

// TestSolveRoundTrip rebuilds unique-label graphs from covering walks.
func TestSolveRoundTrip(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		hidden, err := graph.Random(4, walk.NewRand(seed))
		require.NoError(t, err)
		plan, err := hidden.CoverPlan()
		require.NoError(t, err)
		tr, err := hidden.Trace(plan)
		require.NoError(t, err)

		g, err := exhaustive.Solve(4, []walk.Trace{tr})
		require.NoError(t, err, "seed=%d", seed)
		require.NoError(t, g.Validate(4))
		assert.True(t, walk.CountsBalanced(g.LabelCounts(), 4))
		assert.True(t, graph.Bisimilar(hidden, g), "seed=%d", seed)
	}
}

// TestSolveInsufficientData checks exhaustion on a trace that cannot show
// eight rooms, and the closure fallback filling the rest.
func TestSolveInsufficientData(t *testing.T) {
	tr := trace(t, "0", 0, 0)
	_, err := exhaustive.Solve(8, []walk.Trace{tr})
	assert.ErrorIs(t, err, exhaustive.ErrNoSolution)

	g, err := exhaustive.Solve(8, []walk.Trace{tr}, exhaustive.WithClosure())
	require.NoError(t, err)
	require.NoError(t, g.Validate(8))
	assert.True(t, walk.CountsBalanced(g.LabelCounts(), 8))
	labels, err := g.Walk(tr.Plan)
	require.NoError(t, err)
	assert.Equal(t, tr.Labels, labels)
}

// TestSolveContradiction checks a door that must lead to two labels.
func TestSolveContradiction(t *testing.T) {
	_, err := exhaustive.Solve(1, []walk.Trace{trace(t, "00", 0, 0, 1)})
	assert.ErrorIs(t, err, exhaustive.ErrNoSolution)
}

// TestSolveErrors covers parameter and budget errors.
func TestSolveErrors(t *testing.T) {
	tr := trace(t, "0", 0, 1)
	_, err := exhaustive.Solve(0, []walk.Trace{tr})
	assert.ErrorIs(t, err, exhaustive.ErrRoomCount)
	_, err = exhaustive.Solve(exhaustive.MaxRooms+1, []walk.Trace{tr})
	assert.ErrorIs(t, err, exhaustive.ErrRoomCount)

	hidden, err := graph.FromDestinations([]walk.Label{0, 1, 2}, scenarioDests, 0)
	require.NoError(t, err)
	full, err := hidden.Trace(walk.MustParsePlan(scenarioPlan))
	require.NoError(t, err)
	_, err = exhaustive.Solve(3, []walk.Trace{full}, exhaustive.WithMaxSteps(2))
	assert.ErrorIs(t, err, exhaustive.ErrBudgetExceeded)
}

// TestSolveMultipleTraces checks that every trace restarts in the start room
// and that the rebuilt map reproduces all of them.
func TestSolveMultipleTraces(t *testing.T) {
	hidden, err := graph.FromDestinations([]walk.Label{0, 1, 2}, scenarioDests, 0)
	require.NoError(t, err)
	short, err := hidden.Trace(walk.MustParsePlan("5432"))
	require.NoError(t, err)
	full, err := hidden.Trace(walk.MustParsePlan(scenarioPlan))
	require.NoError(t, err)

	g, err := exhaustive.Solve(3, []walk.Trace{short, full})
	require.NoError(t, err)
	assert.True(t, graph.Bisimilar(hidden, g))
	labels, err := g.Walk(short.Plan)
	require.NoError(t, err)
	assert.Equal(t, short.Labels, labels)

	// The second walk starts in a room with another label.
	_, err = exhaustive.Solve(2, []walk.Trace{trace(t, "0", 0, 1), trace(t, "0", 1, 0)},
		exhaustive.WithClosure())
	assert.ErrorIs(t, err, exhaustive.ErrNoSolution)
}

// TestSolveMalformedTraces checks input validation before any search.
func TestSolveMalformedTraces(t *testing.T) {
	_, err := exhaustive.Solve(3, nil)
	assert.ErrorIs(t, err, exhaustive.ErrNoTraces)

	_, err = exhaustive.Solve(3, []walk.Trace{{}})
	assert.ErrorIs(t, err, walk.ErrLengthMismatch)

	_, err = exhaustive.Solve(3, []walk.Trace{{Plan: walk.MustParsePlan("0"), Labels: []walk.Label{0, 7}}})
	assert.ErrorIs(t, err, walk.ErrLabelOutOfRange)
}
