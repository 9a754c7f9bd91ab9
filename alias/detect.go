package alias

import (
	"fmt"

	"github.com/katalvlaran/aedificium/walk"
)

// Subpatterns lists every window of magic, longest first, left to right within
// one length, down to and including minLen. Duplicate windows are dropped.
func Subpatterns(magic walk.Plan, opts ...Option) []walk.Plan {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	var out []walk.Plan
	seen := make(map[string]struct{})
	for l := len(magic); l >= o.MinPatternLen; l-- {
		for s := 0; s+l <= len(magic); s++ {
			w := magic[s : s+l]
			key := w.String()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, w.Clone())
		}
	}

	return out
}

// Occurrences returns the non-overlapping occurrence starts of pattern in plan,
// scanning left to right and resuming after each hit.
func Occurrences(plan, pattern walk.Plan) []int {
	if len(pattern) == 0 {
		return nil
	}

	var out []int
	for s := 0; s+len(pattern) <= len(plan); {
		if hasPrefix(plan[s:], pattern) {
			out = append(out, s)
			s += len(pattern)
			continue
		}
		s++
	}

	return out
}

// Detect scans trace for repeats of pattern. The first occurrence of each
// label signature labels[s..s+ℓ] is remembered; every later occurrence with
// the same signature yields a Match against it.
//
// Errors: ErrLabelMismatch when an aligned pair disagrees on its label.
func Detect(trace walk.Trace, pattern walk.Plan) ([]Match, error) {
	l := len(pattern)
	first := make(map[string]int)
	var out []Match
	for _, s := range Occurrences(trace.Plan, pattern) {
		sig := signature(trace.Labels[s : s+l+1])
		prior, ok := first[sig]
		if !ok {
			first[sig] = s
			continue
		}
		m := Match{Start: s, Prior: prior, Length: l}
		if err := Verify(trace, m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, nil
}

// DetectAll runs Detect for every sub-pattern of magic, longest first, and
// concatenates the matches.
func DetectAll(trace walk.Trace, magic walk.Plan, opts ...Option) ([]Match, error) {
	var out []Match
	for _, p := range Subpatterns(magic, opts...) {
		ms, err := Detect(trace, p)
		if err != nil {
			return nil, err
		}
		out = append(out, ms...)
	}

	return out, nil
}

// Verify checks that m lies inside trace and that every aligned pair carries
// the same label.
func Verify(trace walk.Trace, m Match) error {
	if m.Start < 0 || m.Prior < 0 || m.Start+m.Length >= len(trace.Labels) || m.Prior+m.Length >= len(trace.Labels) {
		return fmt.Errorf("alias: match %+v outside trace of %d positions: %w", m, len(trace.Labels), ErrOutOfRange)
	}
	for _, p := range m.Pairs() {
		if trace.Labels[p.A] != trace.Labels[p.B] {
			return fmt.Errorf("alias: positions %d and %d (labels %d, %d): %w",
				p.A, p.B, trace.Labels[p.A], trace.Labels[p.B], ErrLabelMismatch)
		}
	}

	return nil
}

func hasPrefix(s, prefix walk.Plan) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := range prefix {
		if s[i] != prefix[i] {
			return false
		}
	}

	return true
}

// signature packs a label window into a string key; labels fit one byte each.
func signature(ls []walk.Label) string {
	b := make([]byte, len(ls))
	for i, l := range ls {
		b[i] = byte(l)
	}

	return string(b)
}
