package walk

import "fmt"

const (
	// DefaultMagicLen is the default length of the repeated magic pattern.
	DefaultMagicLen = 5

	// DefaultMaxPadding bounds the random padding between repetitions
	// (padding lengths are drawn from [1, DefaultMaxPadding)).
	DefaultMaxPadding = 10
)

// GeneratorOptions configures magic-pattern plan generation.
type GeneratorOptions struct {
	// Seed drives every random draw; 0 selects a fixed default seed.
	Seed int64

	// MagicLen is the length of each magic pattern (>= 1).
	MagicLen int

	// MaxPadding is the exclusive upper bound of padding lengths (>= 2).
	MaxPadding int

	// SharedMagic makes every plan reuse the first plan's magic pattern.
	SharedMagic bool

	// PlanLength overrides the default length PlanBudgetFactor·n when > 0.
	PlanLength int
}

// GeneratorOption mutates GeneratorOptions.
type GeneratorOption func(*GeneratorOptions)

// DefaultGeneratorOptions returns seed 0, DefaultMagicLen, DefaultMaxPadding,
// per-plan magic patterns and the full budget length.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		Seed:       0,
		MagicLen:   DefaultMagicLen,
		MaxPadding: DefaultMaxPadding,
	}
}

// WithSeed sets the generator seed.
func WithSeed(seed int64) GeneratorOption {
	return func(o *GeneratorOptions) { o.Seed = seed }
}

// WithMagicLen sets the magic pattern length.
func WithMagicLen(k int) GeneratorOption {
	return func(o *GeneratorOptions) { o.MagicLen = k }
}

// WithMaxPadding sets the exclusive upper bound of padding lengths.
func WithMaxPadding(k int) GeneratorOption {
	return func(o *GeneratorOptions) { o.MaxPadding = k }
}

// WithSharedMagic makes all plans share a single magic pattern.
func WithSharedMagic() GeneratorOption {
	return func(o *GeneratorOptions) { o.SharedMagic = true }
}

// WithPlanLength overrides the plan length (it must still fit the budget).
func WithPlanLength(k int) GeneratorOption {
	return func(o *GeneratorOptions) { o.PlanLength = k }
}

// Generated is one generated plan together with the magic pattern it repeats.
type Generated struct {
	Plan  Plan
	Magic Plan
}

// Generate builds count plans for a graph of n rooms. Each plan starts with
// its magic pattern and alternates padding and the pattern until the length
// limit, then is truncated to exactly that limit.
//
// Errors: ErrRoomCount, ErrBadOption, ErrPlanTooLong.
func Generate(n, count int, opts ...GeneratorOption) ([]Generated, error) {
	// 1. Apply and validate options.
	o := DefaultGeneratorOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if n <= 0 {
		return nil, ErrRoomCount
	}
	if count < 0 || o.MagicLen < 1 || o.MaxPadding < 2 || o.PlanLength < 0 {
		return nil, fmt.Errorf("walk: count=%d magic=%d padding=%d length=%d: %w",
			count, o.MagicLen, o.MaxPadding, o.PlanLength, ErrBadOption)
	}
	length := PlanBudgetFactor * n
	if o.PlanLength > 0 {
		if o.PlanLength > length {
			return nil, fmt.Errorf("walk: length %d for n=%d: %w", o.PlanLength, n, ErrPlanTooLong)
		}
		length = o.PlanLength
	}

	// 2. Draw plans; a shared magic pattern is drawn once up front.
	rng := NewRand(o.Seed)
	var shared Plan
	if o.SharedMagic {
		shared = randomPlan(rng, o.MagicLen)
	}
	out := make([]Generated, 0, count)
	for i := 0; i < count; i++ {
		magic := shared
		if magic == nil {
			magic = randomPlan(rng, o.MagicLen)
		}
		p := make(Plan, 0, length+o.MagicLen+o.MaxPadding)
		p = append(p, magic...)
		for len(p) < length {
			pad := 1 + rng.Intn(o.MaxPadding-1)
			p = append(p, randomPlan(rng, pad)...)
			p = append(p, magic...)
		}
		out = append(out, Generated{Plan: p[:length:length], Magic: magic.Clone()})
	}

	return out, nil
}
