package graph_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/walk"
)

const scenarioPlan = "0123450123450123450123450123450123450123450123450123450"

func ep(r, d int) graph.Endpoint { return graph.Endpoint{Room: r, Door: d} }

func conn(r1, d1, r2, d2 int) graph.Connection {
	return graph.Connection{From: ep(r1, d1), To: ep(r2, d2)}
}

// scenario is a 3-room graph whose every door is used by scenarioPlan.
func scenario() *graph.Graph {
	return &graph.Graph{
		Rooms: []walk.Label{0, 1, 2},
		Start: 0,
		Connections: []graph.Connection{
			conn(0, 0, 1, 1), conn(0, 1, 1, 3), conn(0, 2, 2, 0),
			conn(0, 3, 1, 4), conn(0, 4, 2, 2), conn(0, 5, 2, 5),
			conn(1, 0, 2, 4), conn(1, 2, 1, 5), conn(2, 1, 2, 3),
		},
	}
}

var scenarioDests = [][walk.DoorCount]int{
	{1, 1, 2, 1, 2, 2},
	{2, 0, 1, 0, 0, 1},
	{0, 2, 0, 2, 1, 0},
}

// permute renames room r to p[r].
func permute(g *graph.Graph, p []int) *graph.Graph {
	out := &graph.Graph{Rooms: make([]walk.Label, len(g.Rooms)), Start: p[g.Start]}
	for r, l := range g.Rooms {
		out.Rooms[p[r]] = l
	}
	for _, c := range g.Connections {
		out.Connections = append(out.Connections,
			conn(p[c.From.Room], c.From.Door, p[c.To.Room], c.To.Door))
	}

	return out
}

// TestValidate covers the accepted shape and every rejection class.
func TestValidate(t *testing.T) {
	require.NoError(t, scenario().Validate(3))

	assert.ErrorIs(t, scenario().Validate(4), graph.ErrRoomCount)
	assert.ErrorIs(t, scenario().Validate(0), graph.ErrRoomCount)

	g := scenario()
	g.Rooms[1] = 7
	assert.ErrorIs(t, g.Validate(3), graph.ErrLabel)

	g = scenario()
	g.Start = 3
	assert.ErrorIs(t, g.Validate(3), graph.ErrStart)

	g = scenario()
	g.Connections[0].To.Door = 6
	assert.ErrorIs(t, g.Validate(3), graph.ErrEndpoint)

	g = scenario()
	g.Connections = g.Connections[1:]
	assert.ErrorIs(t, g.Validate(3), graph.ErrSlotCoverage)

	g = scenario()
	g.Connections = append(g.Connections, conn(0, 0, 0, 0))
	assert.ErrorIs(t, g.Validate(3), graph.ErrSlotCoverage)
}

// TestDestinations checks the walker's view of the scenario graph.
func TestDestinations(t *testing.T) {
	d, err := scenario().Destinations()
	require.NoError(t, err)
	if diff := cmp.Diff(scenarioDests, d); diff != "" {
		t.Fatalf("destinations mismatch (-want +got):\n%s", diff)
	}

	doors, err := scenario().Doors()
	require.NoError(t, err)
	assert.Equal(t, ep(1, 5), doors[1][2])
	assert.Equal(t, ep(0, 0), doors[1][1])
}

// TestWalk checks simulated observations, including the start label.
func TestWalk(t *testing.T) {
	g := scenario()
	got, err := g.Walk(walk.MustParsePlan("012"))
	require.NoError(t, err)
	assert.Equal(t, []walk.Label{0, 1, 0, 2}, got)

	got, err = g.Walk(walk.MustParsePlan("555"))
	require.NoError(t, err)
	assert.Equal(t, []walk.Label{0, 2, 0, 2}, got)

	tr, err := g.Trace(walk.MustParsePlan(scenarioPlan))
	require.NoError(t, err)
	want := "01022112201020110201022112201020110201022112201020110201"
	require.Len(t, tr.Labels, len(want))
	for i, l := range tr.Labels {
		assert.Equal(t, walk.Label(want[i]-'0'), l, "position %d", i)
	}

	_, err = g.Walk(walk.Plan{9})
	assert.ErrorIs(t, err, walk.ErrDoorOutOfRange)
}

// TestFromDestinations checks pairing of balanced destination tables.
func TestFromDestinations(t *testing.T) {
	g, err := graph.FromDestinations([]walk.Label{0, 1, 2}, scenarioDests, 0)
	require.NoError(t, err)
	require.NoError(t, g.Validate(3))
	assert.Len(t, g.Connections, 11)

	d, err := g.Destinations()
	require.NoError(t, err)
	assert.Equal(t, scenarioDests, d)
	assert.True(t, graph.Bisimilar(g, scenario()))

	// Connections are emitted from their smaller endpoint in slot order.
	assert.Equal(t, conn(0, 0, 1, 1), g.Connections[0])
	assert.Equal(t, conn(0, 1, 1, 3), g.Connections[1])
}

// TestFromDestinationsErrors covers unbalanced and malformed input.
func TestFromDestinationsErrors(t *testing.T) {
	bad := [][walk.DoorCount]int{
		{1, 1, 0, 0, 0, 0},
		{0, 1, 1, 1, 1, 1},
	}
	_, err := graph.FromDestinations([]walk.Label{0, 1}, bad, 0)
	assert.ErrorIs(t, err, graph.ErrUnbalanced)

	bad[1][0] = 5
	_, err = graph.FromDestinations([]walk.Label{0, 1}, bad, 0)
	assert.ErrorIs(t, err, graph.ErrEndpoint)

	_, err = graph.FromDestinations([]walk.Label{0}, bad, 0)
	assert.ErrorIs(t, err, graph.ErrRoomCount)

	_, err = graph.FromDestinations([]walk.Label{0, 1}, scenarioDests[:2], 2)
	assert.ErrorIs(t, err, graph.ErrStart)
}

// TestRandom checks validity, balance, connectivity and determinism.
func TestRandom(t *testing.T) {
	for _, n := range []int{1, 3, 6, 12, 30} {
		g, err := graph.Random(n, walk.NewRand(int64(n)))
		require.NoError(t, err, "n=%d", n)
		require.NoError(t, g.Validate(n))
		assert.True(t, g.Connected())
		assert.True(t, walk.CountsBalanced(g.LabelCounts(), n), "n=%d counts=%v", n, g.LabelCounts())

		again, err := graph.Random(n, walk.NewRand(int64(n)))
		require.NoError(t, err)
		assert.Equal(t, g, again)
	}

	_, err := graph.Random(0, nil)
	assert.ErrorIs(t, err, graph.ErrRoomCount)
}

// TestBisimilar covers renamed, collapsed and distinguishable graphs.
func TestBisimilar(t *testing.T) {
	g := scenario()
	assert.True(t, graph.Bisimilar(g, g))
	assert.True(t, graph.Bisimilar(g, permute(g, []int{2, 0, 1})))

	other := g.Clone()
	other.Rooms[2] = 3
	assert.False(t, graph.Bisimilar(g, other))

	moved := g.Clone()
	moved.Start = 1
	assert.False(t, graph.Bisimilar(g, moved))

	// One room with self-loops versus two label-0 rooms wired to each other.
	one := &graph.Graph{Rooms: []walk.Label{0}}
	two := &graph.Graph{Rooms: []walk.Label{0, 0}}
	for d := 0; d < walk.DoorCount; d++ {
		one.Connections = append(one.Connections, conn(0, d, 0, d))
		two.Connections = append(two.Connections, conn(0, d, 1, d))
	}
	assert.True(t, graph.Bisimilar(one, two))

	broken := g.Clone()
	broken.Connections = broken.Connections[:3]
	assert.False(t, graph.Bisimilar(g, broken))
}

// TestConnected rejects a graph with an unreachable room.
func TestConnected(t *testing.T) {
	g := &graph.Graph{Rooms: []walk.Label{0, 1}}
	for d := 0; d < walk.DoorCount; d++ {
		g.Connections = append(g.Connections, conn(0, d, 0, d), conn(1, d, 1, d))
	}
	require.NoError(t, g.Validate(2))
	assert.False(t, g.Connected())
	assert.True(t, scenario().Connected())
}

// TestJSON checks the wire form uses numeric labels and oracle field names.
func TestJSON(t *testing.T) {
	b, err := json.Marshal(scenario())
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, `"rooms":[0,1,2]`)
	assert.Contains(t, s, `"startingRoom":0`)
	assert.Contains(t, s, `{"from":{"room":0,"door":0},"to":{"room":1,"door":1}}`)

	var back graph.Graph
	require.NoError(t, json.Unmarshal(b, &back))
	if diff := cmp.Diff(scenario(), &back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	assert.Error(t, json.Unmarshal([]byte(`{"rooms":[4]}`), &back))
}

// TestCoverPlan checks every door slot is taken by the covering walk.
func TestCoverPlan(t *testing.T) {
	g, err := graph.Random(12, walk.NewRand(4))
	require.NoError(t, err)
	plan, err := g.CoverPlan()
	require.NoError(t, err)

	dest, err := g.Destinations()
	require.NoError(t, err)
	taken := make(map[graph.Endpoint]bool)
	cur := g.Start
	for _, d := range plan {
		taken[ep(cur, int(d))] = true
		cur = dest[cur][d]
	}
	assert.Len(t, taken, 12*walk.DoorCount)
}
