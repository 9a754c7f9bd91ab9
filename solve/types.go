package solve

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/walk"
)

// Engine selects the reconstruction algorithm.
type Engine int

const (
	// EngineAuto runs the merge engine and falls back to the exhaustive one.
	EngineAuto Engine = iota
	// EngineMerge runs assembly and constrained merge search.
	EngineMerge
	// EngineExhaustive runs the online state-space search.
	EngineExhaustive
)

var engineNames = [...]string{"auto", "merge", "exhaustive"}

// String returns the lower-case engine name.
func (e Engine) String() string {
	if e < 0 || int(e) >= len(engineNames) {
		return fmt.Sprintf("engine(%d)", int(e))
	}

	return engineNames[e]
}

// ParseEngine is the inverse of Engine.String.
func ParseEngine(s string) (Engine, error) {
	for i, name := range engineNames {
		if name == s {
			return Engine(i), nil
		}
	}

	return 0, fmt.Errorf("solve: %q: %w", s, ErrUnknownEngine)
}

const (
	// DefaultMaxAttempts bounds Runner attempts per problem.
	DefaultMaxAttempts = 3

	// DefaultPlanCount is the number of plans sent in one explore call.
	DefaultPlanCount = 1

	// DefaultFingerprints is the number of fingerprint words per attempt.
	DefaultFingerprints = 4

	// DefaultRounds bounds the completion rounds of the fingerprint stage.
	DefaultRounds = 4
)

// Sentinel errors.
var (
	// ErrUnknownEngine indicates an engine name ParseEngine does not know.
	ErrUnknownEngine = errors.New("solve: unknown engine")

	// ErrMismatch indicates a reconstructed map that does not reproduce an
	// observed trace.
	ErrMismatch = errors.New("solve: map does not reproduce observations")

	// ErrAttemptsExhausted indicates MaxAttempts attempts without a correct guess.
	ErrAttemptsExhausted = errors.New("solve: attempts exhausted")

	// ErrNoTraces indicates Reconstruct without observations.
	ErrNoTraces = errors.New("solve: no traces")
)

// Options configures Reconstruct and Runner.
type Options struct {
	Engine Engine

	// MinPatternLen is the shortest magic sub-pattern trusted for aliasing.
	MinPatternLen int

	// Closure lets both engines fill doors the observations never crossed.
	Closure bool

	// MaxSteps bounds each engine; <= 0 keeps the engine default.
	MaxSteps int

	// EagerThreshold is handed to the merge engine; < 0 keeps its default.
	EagerThreshold int

	// MaxAttempts bounds Runner attempts.
	MaxAttempts int

	// PlanCount is the number of plans per explore call.
	PlanCount int

	// Generator options for the magic plans; the seed is derived per attempt.
	Seed        int64
	MagicLen    int
	MaxPadding  int
	SharedMagic bool

	// Fingerprints is the number of fingerprint words the Runner sends after
	// the first explore; 0 turns the stage off.
	Fingerprints int

	// Rounds bounds the completion rounds of the fingerprint stage.
	Rounds int

	// Words are the fingerprint words behind the follow-up traces handed to
	// Reconstruct. With words, rooms are identified by fingerprint instead of
	// magic-pattern aliasing.
	Words []walk.Plan

	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns EngineAuto, full-length magic aliasing, strict
// completion, engine step defaults, DefaultMaxAttempts single-plan attempts,
// the fingerprint stage with DefaultFingerprints words and a discarding
// logger.
func DefaultOptions() Options {
	return Options{
		Engine:         EngineAuto,
		MinPatternLen:  walk.DefaultMagicLen,
		EagerThreshold: -1,
		MaxAttempts:    DefaultMaxAttempts,
		PlanCount:      DefaultPlanCount,
		MagicLen:       walk.DefaultMagicLen,
		MaxPadding:     walk.DefaultMaxPadding,
		Fingerprints:   DefaultFingerprints,
		Rounds:         DefaultRounds,
		Logger:         slog.New(slog.DiscardHandler),
	}
}

// WithEngine selects the engine.
func WithEngine(e Engine) Option { return func(o *Options) { o.Engine = e } }

// WithMinPatternLen sets the shortest trusted magic sub-pattern.
func WithMinPatternLen(k int) Option { return func(o *Options) { o.MinPatternLen = k } }

// WithClosure enables best-effort completion.
func WithClosure(on bool) Option { return func(o *Options) { o.Closure = on } }

// WithMaxSteps sets the engine step budget.
func WithMaxSteps(n int) Option { return func(o *Options) { o.MaxSteps = n } }

// WithEagerThreshold sets the merge engine's eager threshold.
func WithEagerThreshold(k int) Option { return func(o *Options) { o.EagerThreshold = k } }

// WithMaxAttempts sets the attempt bound; values below 1 mean one attempt.
func WithMaxAttempts(n int) Option { return func(o *Options) { o.MaxAttempts = n } }

// WithPlanCount sets the plans per explore call.
func WithPlanCount(n int) Option { return func(o *Options) { o.PlanCount = n } }

// WithSeed sets the base seed of plan generation.
func WithSeed(seed int64) Option { return func(o *Options) { o.Seed = seed } }

// WithMagicLen sets the magic pattern length.
func WithMagicLen(k int) Option { return func(o *Options) { o.MagicLen = k } }

// WithMaxPadding sets the padding bound between magic repetitions.
func WithMaxPadding(k int) Option { return func(o *Options) { o.MaxPadding = k } }

// WithSharedMagic makes all plans of an attempt share one magic pattern.
func WithSharedMagic(on bool) Option { return func(o *Options) { o.SharedMagic = on } }

// WithFingerprints sets the fingerprint word count; 0 disables the stage.
func WithFingerprints(k int) Option { return func(o *Options) { o.Fingerprints = k } }

// WithRounds bounds the completion rounds of the fingerprint stage.
func WithRounds(k int) Option { return func(o *Options) { o.Rounds = k } }

// WithWords hands Reconstruct the fingerprint words behind its traces.
func WithWords(words []walk.Plan) Option { return func(o *Options) { o.Words = words } }

// WithLogger sets the logger; nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Result is a reconstructed map.
type Result struct {
	Graph  *graph.Graph
	Engine Engine

	// Steps counts engine frames when the engine reports them.
	Steps int
}
