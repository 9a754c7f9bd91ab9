package alias

import "errors"

// DefaultMinPatternLen is the shortest sub-pattern scanned by default.
const DefaultMinPatternLen = 2

// ErrLabelMismatch indicates two aliased positions carry different labels.
// Matching signatures make this impossible for a well-formed trace, so it
// signals corrupted input.
var ErrLabelMismatch = errors.New("alias: aliased positions carry different labels")

// ErrOutOfRange indicates a match reaching past the end of its trace.
var ErrOutOfRange = errors.New("alias: match outside trace")

// Options configures sub-pattern enumeration.
type Options struct {
	// MinPatternLen is the shortest window considered (>= 1).
	MinPatternLen int
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns MinPatternLen = DefaultMinPatternLen.
func DefaultOptions() Options {
	return Options{MinPatternLen: DefaultMinPatternLen}
}

// WithMinPatternLen sets the shortest scanned window; values < 1 are clamped to 1.
func WithMinPatternLen(k int) Option {
	return func(o *Options) {
		if k < 1 {
			k = 1
		}
		o.MinPatternLen = k
	}
}

// Match records that the window at Start repeats the window at Prior.
// Both windows cover Length doors, hence Length+1 positions.
type Match struct {
	Start  int
	Prior  int
	Length int
}

// Pair is two trace positions asserted to be the same room.
type Pair struct {
	A, B int
}

// Pairs expands m into the aligned position pairs (Start+i, Prior+i), i ∈ [0, Length].
func (m Match) Pairs() []Pair {
	out := make([]Pair, 0, m.Length+1)
	for i := 0; i <= m.Length; i++ {
		out = append(out, Pair{A: m.Start + i, B: m.Prior + i})
	}

	return out
}
