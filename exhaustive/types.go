package exhaustive

import (
	"errors"
	"log/slog"
)

const (
	// DefaultMaxSteps bounds the number of search frames.
	DefaultMaxSteps = 5_000_000

	// MaxRooms is the largest room count the compact table can hold.
	MaxRooms = 127
)

// Sentinel errors.
var (
	// ErrNoSolution indicates the search space holds no accepted graph.
	ErrNoSolution = errors.New("exhaustive: no solution found")

	// ErrBudgetExceeded indicates MaxSteps frames were explored without result.
	ErrBudgetExceeded = errors.New("exhaustive: step budget exceeded")

	// ErrNoTraces indicates Solve without observations.
	ErrNoTraces = errors.New("exhaustive: no traces")

	// ErrRoomCount indicates n outside [1, MaxRooms].
	ErrRoomCount = errors.New("exhaustive: room count out of range")
)

// Options configures Solve.
type Options struct {
	// MaxSteps bounds explored frames; <= 0 means unbounded.
	MaxSteps int

	// Closure fills unobserved doors and unlabeled rooms at the end of the
	// trace instead of rejecting the state.
	Closure bool

	// Logger receives progress records; the default discards them.
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns DefaultMaxSteps, strict terminals and a discarding
// logger.
func DefaultOptions() Options {
	return Options{
		MaxSteps: DefaultMaxSteps,
		Logger:   slog.New(slog.DiscardHandler),
	}
}

// WithMaxSteps sets the frame budget.
func WithMaxSteps(n int) Option {
	return func(o *Options) { o.MaxSteps = n }
}

// WithClosure accepts partially observed tables and closes them.
func WithClosure() Option {
	return func(o *Options) { o.Closure = true }
}

// WithLogger sets the progress logger; nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
