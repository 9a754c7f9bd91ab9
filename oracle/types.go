package oracle

import (
	"context"
	"errors"

	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/walk"
)

// Sentinel errors.
var (
	// ErrRemote indicates the oracle answered with an {"error": ...} body or a
	// non-2xx status.
	ErrRemote = errors.New("oracle: remote error")

	// ErrUnknownProblem indicates a problem name missing from Problems.
	ErrUnknownProblem = errors.New("oracle: unknown problem")

	// ErrNotSelected indicates Explore or Guess before a successful Select.
	ErrNotSelected = errors.New("oracle: no problem selected")

	// ErrNoPlans indicates an Explore call with an empty batch.
	ErrNoPlans = errors.New("oracle: no plans")

	// ErrShortResult indicates a response with fewer results than plans.
	ErrShortResult = errors.New("oracle: result count mismatch")
)

// Oracle is the hidden-graph service.
type Oracle interface {
	// Select starts a problem and returns its room count.
	Select(ctx context.Context, problem string) (int, error)

	// Explore walks every plan from the starting room.
	Explore(ctx context.Context, plans []walk.Plan) ([]walk.Trace, error)

	// Guess submits a map and reports whether it matches the hidden graph.
	Guess(ctx context.Context, g *graph.Graph) (bool, error)
}

// Counter is implemented by oracles that track the query score.
type Counter interface {
	QueryCount() int
}

// SelectRequest is the /select body.
type SelectRequest struct {
	ID          string `json:"id" binding:"required"`
	ProblemName string `json:"problemName" binding:"required"`
}

// SelectResponse is the /select answer.
type SelectResponse struct {
	ProblemName string `json:"problemName"`
}

// ExploreRequest is the /explore body.
type ExploreRequest struct {
	ID    string   `json:"id" binding:"required"`
	Plans []string `json:"plans" binding:"required,min=1"`
}

// ExploreResponse is the /explore answer.
type ExploreResponse struct {
	Results    [][]int `json:"results"`
	QueryCount int     `json:"queryCount"`
}

// GuessRequest is the /guess body.
type GuessRequest struct {
	ID  string       `json:"id" binding:"required"`
	Map *graph.Graph `json:"map" binding:"required"`
}

// GuessResponse is the /guess answer.
type GuessResponse struct {
	Correct bool `json:"correct"`
}

// ErrorResponse is the body the oracle sends on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
