package oracle_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/oracle"
	"github.com/katalvlaran/aedificium/walk"
)

func hidden(t *testing.T, n int) *graph.Graph {
	t.Helper()
	g, err := graph.Random(n, walk.NewRand(7))
	require.NoError(t, err)

	return g
}

// fakeServer answers like the oracle over a fixed graph. failures makes the
// first requests return 503.
func fakeServer(t *testing.T, g *graph.Graph, failures int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/select", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req oracle.SelectRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "team", req.ID)
		_ = json.NewEncoder(w).Encode(oracle.SelectResponse{ProblemName: req.ProblemName})
	})
	mux.HandleFunc("/explore", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var req oracle.ExploreRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		resp := oracle.ExploreResponse{QueryCount: len(req.Plans) + 1}
		for _, s := range req.Plans {
			labels, err := g.Walk(walk.MustParsePlan(s))
			require.NoError(t, err)
			raw := make([]int, len(labels))
			for i, l := range labels {
				raw[i] = int(l)
			}
			resp.Results = append(resp.Results, raw)
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/guess", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req oracle.GuessRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(oracle.GuessResponse{Correct: graph.Bisimilar(g, req.Map)})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, &calls
}

func TestLookup(t *testing.T) {
	p, err := oracle.Lookup("secundus")
	require.NoError(t, err)
	assert.Equal(t, 12, p.Rooms)

	p, err = oracle.Lookup("9")
	require.NoError(t, err)
	assert.Equal(t, 9, p.Rooms)

	_, err = oracle.Lookup("decimus")
	assert.ErrorIs(t, err, oracle.ErrUnknownProblem)
	_, err = oracle.Lookup("0")
	assert.ErrorIs(t, err, oracle.ErrUnknownProblem)
}

func TestClient_RoundTrip(t *testing.T) {
	g := hidden(t, 3)
	srv, _ := fakeServer(t, g, 0)
	c := oracle.NewClient(srv.URL+"/", "team")
	ctx := context.Background()

	n, err := c.Select(ctx, "probatio")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	plans := []walk.Plan{walk.MustParsePlan("012"), walk.MustParsePlan("5")}
	traces, err := c.Explore(ctx, plans)
	require.NoError(t, err)
	require.Len(t, traces, 2)
	for i, tr := range traces {
		want, err := g.Walk(plans[i])
		require.NoError(t, err)
		assert.Equal(t, want, tr.Labels)
	}
	assert.Equal(t, 3, c.QueryCount())

	ok, err := c.Guess(ctx, g)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = c.Explore(ctx, plans)
	assert.ErrorIs(t, err, oracle.ErrNotSelected)
}

func TestClient_LocalChecks(t *testing.T) {
	srv, calls := fakeServer(t, hidden(t, 3), 0)
	c := oracle.NewClient(srv.URL, "team")
	ctx := context.Background()

	_, err := c.Explore(ctx, []walk.Plan{{0}})
	assert.ErrorIs(t, err, oracle.ErrNotSelected)
	_, err = c.Select(ctx, "nonsense")
	assert.ErrorIs(t, err, oracle.ErrUnknownProblem)
	assert.Equal(t, int32(0), calls.Load())

	_, err = c.Select(ctx, "probatio")
	require.NoError(t, err)
	_, err = c.Explore(ctx, nil)
	assert.ErrorIs(t, err, oracle.ErrNoPlans)
	_, err = c.Explore(ctx, []walk.Plan{make(walk.Plan, 55)})
	assert.ErrorIs(t, err, walk.ErrPlanTooLong)
	_, err = c.Guess(ctx, hidden(t, 4))
	assert.ErrorIs(t, err, graph.ErrRoomCount)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_RetriesServerErrors(t *testing.T) {
	g := hidden(t, 3)
	srv, calls := fakeServer(t, g, 3)
	c := oracle.NewClient(srv.URL, "team", oracle.WithRetryInterval(time.Millisecond))
	ctx := context.Background()

	// Select uses up one of the three failing calls, so explore fails twice.
	_, err := c.Select(ctx, "probatio")
	require.NoError(t, err)
	traces, err := c.Explore(ctx, []walk.Plan{walk.MustParsePlan("0")})
	require.NoError(t, err)
	assert.Len(t, traces, 1)
	assert.Equal(t, int32(4), calls.Load())
}

func TestClient_RetryExhaustion(t *testing.T) {
	srv, calls := fakeServer(t, hidden(t, 3), 100)
	c := oracle.NewClient(srv.URL, "team",
		oracle.WithRetries(2), oracle.WithRetryInterval(time.Millisecond))
	ctx := context.Background()

	_, err := c.Select(ctx, "probatio")
	require.NoError(t, err)
	_, err = c.Explore(ctx, []walk.Plan{walk.MustParsePlan("0")})
	assert.ErrorIs(t, err, oracle.ErrRemote)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_ErrorBody(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(oracle.ErrorResponse{Error: "unknown id"})
	}))
	t.Cleanup(srv.Close)

	c := oracle.NewClient(srv.URL, "team", oracle.WithRetryInterval(time.Millisecond))
	_, err := c.Select(context.Background(), "primus")
	require.ErrorIs(t, err, oracle.ErrRemote)
	assert.Contains(t, err.Error(), "unknown id")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_BadRequestNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(oracle.ErrorResponse{Error: "bad plan"})
	}))
	t.Cleanup(srv.Close)

	c := oracle.NewClient(srv.URL, "team", oracle.WithRetryInterval(time.Millisecond))
	_, err := c.Select(context.Background(), "primus")
	require.ErrorIs(t, err, oracle.ErrRemote)
	assert.Contains(t, err.Error(), "bad plan")
	assert.Equal(t, int32(1), calls.Load())
}

func TestLocal(t *testing.T) {
	ctx := context.Background()
	l := oracle.NewLocal(3)
	assert.Nil(t, l.Hidden())

	_, err := l.Explore(ctx, []walk.Plan{{0}})
	assert.ErrorIs(t, err, oracle.ErrNotSelected)

	n, err := l.Select(ctx, "primus")
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	g := l.Hidden()
	require.NoError(t, g.Validate(6))

	traces, err := l.Explore(ctx, []walk.Plan{{0, 1}, {2}})
	require.NoError(t, err)
	assert.Len(t, traces, 2)
	assert.Equal(t, 3, l.QueryCount())
	_, err = l.Explore(ctx, []walk.Plan{{3}})
	require.NoError(t, err)
	assert.Equal(t, 5, l.QueryCount())

	_, err = l.Explore(ctx, []walk.Plan{make(walk.Plan, 6*walk.PlanBudgetFactor+1)})
	assert.ErrorIs(t, err, walk.ErrPlanTooLong)

	ok, err := l.Guess(ctx, g)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = l.Guess(ctx, g)
	assert.ErrorIs(t, err, oracle.ErrNotSelected)
}

func TestLocal_FixedGraph(t *testing.T) {
	ctx := context.Background()
	g := hidden(t, 3)
	l := oracle.NewLocalGraph(g)

	_, err := l.Select(ctx, "primus")
	assert.ErrorIs(t, err, oracle.ErrUnknownProblem)
	_, err = l.Select(ctx, "probatio")
	require.NoError(t, err)

	wrong := g.Clone()
	wrong.Rooms[0] = (wrong.Rooms[0] + 1) % walk.LabelCount
	ok, err := l.Guess(ctx, wrong)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocal_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := oracle.NewLocal(1).Select(ctx, "probatio")
	assert.ErrorIs(t, err, context.Canceled)
}
