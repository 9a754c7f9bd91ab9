package assemble_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/aedificium/alias"
	"github.com/katalvlaran/aedificium/assemble"
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

func walkGraph(t *testing.T, labels []walk.Label, dests [][walk.DoorCount]int, plan string) walk.Trace {
	t.Helper()
	g, err := graph.FromDestinations(labels, dests, 0)
	require.NoError(t, err)
	tr, err := g.Trace(walk.MustParsePlan(plan))
	require.NoError(t, err)

	return tr
}

// mergeByLabel unions every identity with the first one of its label, which
// is the right answer whenever labels are unique per room.
func mergeByLabel(t *testing.T, s *assemble.State) {
	t.Helper()
	var first [walk.LabelCount]*assemble.RoomID
	for ti := range s.Traces() {
		for _, id := range s.Positions(ti) {
			id := id
			if first[id.Label] == nil {
				first[id.Label] = &id
				continue
			}
			_, err := s.Union(*first[id.Label], id)
			require.NoError(t, err)
		}
	}
	require.NoError(t, s.Squash())
}

// TestNewStateAllocation checks label-scoped sequence numbers and start union.
func TestNewStateAllocation(t *testing.T) {
	s, err := assemble.NewState([]walk.Trace{
		trace(t, "01", 0, 1, 0),
		trace(t, "1", 0, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, []assemble.RoomID{{Label: 0, Seq: 0}, {Label: 1, Seq: 0}, {Label: 0, Seq: 1}}, s.Positions(0))
	assert.Equal(t, []assemble.RoomID{{Label: 0, Seq: 2}, {Label: 2, Seq: 0}}, s.Positions(1))
	assert.True(t, s.Same(assemble.RoomID{Label: 0, Seq: 0}, assemble.RoomID{Label: 0, Seq: 2}))
	assert.False(t, s.Same(assemble.RoomID{Label: 0, Seq: 0}, assemble.RoomID{Label: 0, Seq: 1}))
	assert.Equal(t, "0_0", s.Start().String())
	assert.Equal(t, "2_1f", assemble.RoomID{Label: 2, Seq: 31}.String())

	_, err = assemble.NewState(nil)
	assert.ErrorIs(t, err, assemble.ErrNoTraces)

	_, err = assemble.NewState([]walk.Trace{trace(t, "", 0), trace(t, "", 1)})
	assert.ErrorIs(t, err, assemble.ErrLabelConflict)
}

// TestRecordUnionsDestinations checks that one door with two recorded
// destinations merges them.
func TestRecordUnionsDestinations(t *testing.T) {
	s, err := assemble.NewState([]walk.Trace{
		trace(t, "0", 0, 1),
		trace(t, "0", 0, 1),
	})
	require.NoError(t, err)
	require.NoError(t, s.RecordAll())
	assert.Equal(t, []assemble.RoomID{{Label: 0, Seq: 0}, {Label: 1, Seq: 0}}, s.Rooms())
	assert.Equal(t, [walk.LabelCount]int{1, 1, 0, 0}, s.LabelCounts())

	row := s.Row(s.Start())
	assert.True(t, row.Has(0))
	assert.Equal(t, assemble.RoomID{Label: 1, Seq: 0}, row.Dest[0])
	assert.Len(t, row.Unknown(), 5)
}

// TestContradictionIsFatal checks a door leading to two labels aborts.
func TestContradictionIsFatal(t *testing.T) {
	s, err := assemble.NewState([]walk.Trace{
		trace(t, "0", 0, 1),
		trace(t, "0", 0, 2),
	})
	require.NoError(t, err)
	assert.ErrorIs(t, s.RecordAll(), assemble.ErrLabelConflict)

	_, err = s.Union(assemble.RoomID{Label: 1}, assemble.RoomID{Label: 2})
	assert.ErrorIs(t, err, assemble.ErrLabelConflict)
}

// TestAliasPositionsRange checks index validation.
func TestAliasPositionsRange(t *testing.T) {
	s, err := assemble.NewState([]walk.Trace{trace(t, "0", 0, 0)})
	require.NoError(t, err)
	_, err = s.AliasPositions(1, 0, 0)
	assert.ErrorIs(t, err, assemble.ErrTraceIndex)
	_, err = s.AliasPositions(0, 0, 2)
	assert.ErrorIs(t, err, assemble.ErrTraceIndex)
	merged, err := s.AliasPositions(0, 0, 1)
	require.NoError(t, err)
	assert.True(t, merged)
	_, err = s.Record(3)
	assert.ErrorIs(t, err, assemble.ErrTraceIndex)
}

// TestFixpointScenario checks alias detection plus congruence on the 3-room
// scenario: positions collapse to one identity per (room, phase of the magic
// pattern), and a second pass changes nothing.
func TestFixpointScenario(t *testing.T) {
	tr := walkGraph(t, []walk.Label{0, 1, 2}, scenarioDests, scenarioPlan)
	s, err := assemble.NewState([]walk.Trace{tr})
	require.NoError(t, err)
	require.NoError(t, s.Fixpoint([]walk.Plan{walk.MustParsePlan("012345")}))
	assert.Len(t, s.Rooms(), 18)

	// Squash idempotence on a stable forest.
	before, pos := s.Doors(), s.Positions(0)
	require.NoError(t, s.Squash())
	if diff := cmp.Diff(before, s.Doors()); diff != "" {
		t.Fatalf("squash changed the map (-before +after):\n%s", diff)
	}
	assert.Equal(t, pos, s.Positions(0))

	require.NoError(t, s.Fixpoint([]walk.Plan{walk.MustParsePlan("012345")}))
	assert.Len(t, s.Rooms(), 18)
}

// TestGraphAfterLabelMerge checks the fully merged scenario materialises to
// the hidden graph.
func TestGraphAfterLabelMerge(t *testing.T) {
	tr := walkGraph(t, []walk.Label{0, 1, 2}, scenarioDests, scenarioPlan)
	s, err := assemble.NewState([]walk.Trace{tr})
	require.NoError(t, err)
	require.NoError(t, s.RecordAll())
	mergeByLabel(t, s)
	require.Len(t, s.Rooms(), 3)
	assert.True(t, s.Consistent())
	require.NoError(t, s.Complete())

	g, err := s.Graph()
	require.NoError(t, err)
	require.NoError(t, g.Validate(3))
	d, err := g.Destinations()
	require.NoError(t, err)
	assert.Equal(t, scenarioDests, d)
	assert.Equal(t, 0, g.Start)
}

// TestCompletePairBalance checks the pair-balance rule followed by the
// single-room self-loop closure.
func TestCompletePairBalance(t *testing.T) {
	dests := [][walk.DoorCount]int{
		{1, 1, 0, 0, 0, 0},
		{1, 1, 0, 1, 0, 1},
	}
	tr := walkGraph(t, []walk.Label{0, 1}, dests, "0501341")
	require.Equal(t, []walk.Label{0, 1, 1, 1, 1, 1, 0, 1}, tr.Labels)

	s, err := assemble.NewState([]walk.Trace{tr})
	require.NoError(t, err)
	require.NoError(t, s.RecordAll())
	mergeByLabel(t, s)

	// Room 1 knows five doors, one short of its debt to room 0.
	b := s.Row(assemble.RoomID{Label: 1, Seq: 0})
	assert.Equal(t, []walk.Door{2}, b.Unknown())

	require.NoError(t, s.Complete())
	g, err := s.Graph()
	require.NoError(t, err)
	got, err := g.Destinations()
	require.NoError(t, err)
	assert.Equal(t, dests, got)
}

// TestCompleteIncomplete checks several open rooms fail unless the closure
// fallback is enabled.
func TestCompleteIncomplete(t *testing.T) {
	traces := []walk.Trace{trace(t, "0", 0, 1)}

	s, err := assemble.NewState(traces)
	require.NoError(t, err)
	require.NoError(t, s.RecordAll())
	assert.ErrorIs(t, s.Complete(), assemble.ErrIncompleteMap)
	_, err = s.Graph()
	assert.ErrorIs(t, err, assemble.ErrIncompleteMap)

	s, err = assemble.NewState(traces, assemble.WithClosure())
	require.NoError(t, err)
	require.NoError(t, s.RecordAll())
	require.NoError(t, s.Complete())
	g, err := s.Graph()
	require.NoError(t, err)
	require.NoError(t, g.Validate(2))
	d, err := g.Destinations()
	require.NoError(t, err)
	assert.Equal(t, [][walk.DoorCount]int{{1, 0, 0, 0, 0, 0}, {0, 1, 1, 1, 1, 1}}, d)
}

// TestCloneIsolation checks branches never share union-find or map state.
func TestCloneIsolation(t *testing.T) {
	s, err := assemble.NewState([]walk.Trace{trace(t, "00", 0, 0, 0)})
	require.NoError(t, err)
	require.NoError(t, s.RecordAll())
	c := s.Clone()
	_, err = c.Union(assemble.RoomID{Label: 0, Seq: 1}, assemble.RoomID{Label: 0, Seq: 2})
	require.NoError(t, err)
	require.NoError(t, c.Squash())

	assert.Len(t, c.Rooms(), 2)
	assert.Len(t, s.Rooms(), 3)
	assert.False(t, s.Same(assemble.RoomID{Label: 0, Seq: 1}, assemble.RoomID{Label: 0, Seq: 2}))
}

// TestConsistentRejectsOverfullPair checks the matching-capacity rule: room 0
// leaves twice into room 1, while room 1 has every door recorded and only one
// of them leads back.
func TestConsistentRejectsOverfullPair(t *testing.T) {
	s, err := assemble.NewState([]walk.Trace{trace(t, "01234501", 0, 1, 1, 1, 1, 1, 1, 0, 1)})
	require.NoError(t, err)
	require.NoError(t, s.RecordAll())
	assert.True(t, s.Consistent())

	mergeByLabel(t, s)
	require.Len(t, s.Rooms(), 2)
	assert.False(t, s.Consistent())
}

// TestNewStateRejectsMalformedTrace checks traces whose label count does not
// match their plan are refused before any identity is allocated.
func TestNewStateRejectsMalformedTrace(t *testing.T) {
	_, err := assemble.NewState([]walk.Trace{{}})
	assert.ErrorIs(t, err, walk.ErrLengthMismatch)

	_, err = assemble.NewState([]walk.Trace{
		trace(t, "0", 0, 1),
		{Plan: walk.MustParsePlan("01"), Labels: []walk.Label{0, 1}},
	})
	assert.ErrorIs(t, err, walk.ErrLengthMismatch)
}

// TestUnionPropagates checks that a union merges the destinations of every
// door both rooms know, without waiting for a Squash.
func TestUnionPropagates(t *testing.T) {
	s, err := assemble.NewState([]walk.Trace{trace(t, "010", 0, 1, 0, 1)})
	require.NoError(t, err)
	require.NoError(t, s.RecordAll())
	require.Len(t, s.Rooms(), 4)

	merged, err := s.Union(assemble.RoomID{Label: 0, Seq: 0}, assemble.RoomID{Label: 0, Seq: 1})
	require.NoError(t, err)
	assert.True(t, merged)
	assert.True(t, s.Same(assemble.RoomID{Label: 1, Seq: 0}, assemble.RoomID{Label: 1, Seq: 1}))
	assert.Len(t, s.Rooms(), 2)
	assert.Equal(t, [walk.LabelCount]int{1, 1, 0, 0}, s.LabelCounts())

	row := s.Row(assemble.RoomID{Label: 0, Seq: 1})
	assert.Equal(t, s.Find(assemble.RoomID{Label: 1, Seq: 1}), row.Dest[0])
	assert.True(t, s.Consistent())

	// The forced pair carries different labels.
	s, err = assemble.NewState([]walk.Trace{trace(t, "010", 0, 1, 0, 2)})
	require.NoError(t, err)
	require.NoError(t, s.RecordAll())
	_, err = s.Union(assemble.RoomID{Label: 0, Seq: 0}, assemble.RoomID{Label: 0, Seq: 1})
	assert.ErrorIs(t, err, assemble.ErrLabelConflict)
}

// TestApplyLinks checks fingerprint links between traces.
func TestApplyLinks(t *testing.T) {
	s, err := assemble.NewState([]walk.Trace{
		trace(t, "0", 0, 1),
		trace(t, "1", 0, 1),
	})
	require.NoError(t, err)

	n, err := s.ApplyLinks([]alias.Link{
		{A: alias.Anchor{Trace: 0, Pos: 1}, B: alias.Anchor{Trace: 1, Pos: 1}},
		{A: alias.Anchor{Trace: 0, Pos: 1}, B: alias.Anchor{Trace: 1, Pos: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	id, err := s.Identity(alias.Anchor{Trace: 1, Pos: 1})
	require.NoError(t, err)
	assert.Equal(t, s.Find(assemble.RoomID{Label: 1, Seq: 0}), id)

	_, err = s.ApplyLinks([]alias.Link{{A: alias.Anchor{Trace: 0, Pos: 0}, B: alias.Anchor{Trace: 2, Pos: 0}}})
	assert.ErrorIs(t, err, assemble.ErrTraceIndex)
	_, err = s.ApplyLinks([]alias.Link{{A: alias.Anchor{Trace: 0, Pos: 0}, B: alias.Anchor{Trace: 0, Pos: 1}}})
	assert.ErrorIs(t, err, assemble.ErrLabelConflict)
}

// TestCompact checks the compacted copy keeps rooms and doors but not the
// per-position identities, and never shares state with its source.
func TestCompact(t *testing.T) {
	tr := walkGraph(t, []walk.Label{0, 1, 2}, scenarioDests, scenarioPlan)
	s, err := assemble.NewState([]walk.Trace{tr})
	require.NoError(t, err)
	require.NoError(t, s.Fixpoint([]walk.Plan{walk.MustParsePlan("012345")}))

	c := s.Compact()
	assert.Nil(t, c.Traces())
	assert.Equal(t, s.Rooms(), c.Rooms())
	assert.Equal(t, s.Start(), c.Start())
	for _, r := range s.Rooms() {
		assert.Equal(t, s.Row(r), c.Row(r), "room %s", r)
	}

	rooms := c.Rooms()
	for i, r := range rooms {
		for _, q := range rooms[:i] {
			if q.Label == r.Label {
				_, err := c.Union(q, r)
				require.NoError(t, err)
				break
			}
		}
	}
	assert.Len(t, c.Rooms(), 3)
	assert.Len(t, s.Rooms(), 18)
}
