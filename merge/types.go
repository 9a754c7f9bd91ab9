package merge

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/aedificium/assemble"
	"github.com/katalvlaran/aedificium/graph"
)

const (
	// DefaultEagerThreshold is the number of agreeing common doors that makes
	// a pair merge without search.
	DefaultEagerThreshold = 2

	// DefaultMaxSteps bounds the number of search frames.
	DefaultMaxSteps = 200_000
)

// Sentinel errors.
var (
	// ErrNotMergeable indicates no sequence of merges reaches a valid map.
	ErrNotMergeable = errors.New("merge: not mergeable")

	// ErrBudgetExceeded indicates MaxSteps frames were explored without result.
	ErrBudgetExceeded = errors.New("merge: step budget exceeded")

	// ErrRoomCount indicates a non-positive target room count.
	ErrRoomCount = errors.New("merge: room count must be positive")
)

// Options configures Search.
type Options struct {
	// MaxSteps bounds explored frames; <= 0 means unbounded.
	MaxSteps int

	// EagerThreshold is the agreeing-door count for eager merges; <= 0
	// disables eager merging.
	EagerThreshold int

	// Logger receives progress records; the default discards them.
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns DefaultMaxSteps, DefaultEagerThreshold and a
// discarding logger.
func DefaultOptions() Options {
	return Options{
		MaxSteps:       DefaultMaxSteps,
		EagerThreshold: DefaultEagerThreshold,
		Logger:         slog.New(slog.DiscardHandler),
	}
}

// WithMaxSteps sets the frame budget.
func WithMaxSteps(n int) Option {
	return func(o *Options) { o.MaxSteps = n }
}

// WithEagerThreshold sets the eager-merge door count.
func WithEagerThreshold(k int) Option {
	return func(o *Options) { o.EagerThreshold = k }
}

// WithLogger sets the progress logger; nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Pair is an undecided merge candidate; A.Less(B) holds.
type Pair struct {
	A, B assemble.RoomID
}

// Result is an accepted reconstruction.
type Result struct {
	// State is the accepted, completed state.
	State *assemble.State

	// Graph is the materialised map.
	Graph *graph.Graph

	// Eager counts merges done before the search.
	Eager int

	// Pairs counts the candidates handed to the search.
	Pairs int

	// Steps counts explored frames.
	Steps int
}
