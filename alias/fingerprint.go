package alias

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/aedificium/walk"
)

// Anchor is one position of one trace in a set of traces.
type Anchor struct {
	Trace int
	Pos   int
}

// Link asserts that two anchored positions are the same room.
type Link struct {
	A, B Anchor
}

// Print is the response of one room to every fingerprint word.
type Print struct {
	// Anchor is the first observed position of the room: the end of Prefix
	// in the first trace that carried it.
	Anchor Anchor

	// Prefix is the door sequence from the start to the room.
	Prefix walk.Plan

	// Key concatenates the label windows seen along each word, in word order.
	Key string
}

// Fingerprints collects the rooms whose response to every word in words was
// observed. A trace whose plan ends with a word contributes that word's
// response for the room reached by the rest of the plan; traces sharing a
// prefix reach the same room. Prefixes missing a word are dropped. Prints are
// returned in the order their prefixes were first seen.
//
// Steps:
//  1. For each trace and each word it ends with, cut the plan before the word.
//  2. Record the label window after the cut under the prefix.
//  3. Keep prefixes with a window for every word.
//
// Errors: walk.ErrLengthMismatch for a malformed trace; ErrLabelMismatch when
// one prefix shows two different labels or two different windows for a word,
// which a deterministic oracle never produces.
func Fingerprints(traces []walk.Trace, words []walk.Plan) ([]Print, error) {
	type entry struct {
		anchor Anchor
		prefix walk.Plan
		label  walk.Label
		seen   []string
		have   int
	}
	byPrefix := make(map[string]*entry)
	var order []*entry

	for ti, tr := range traces {
		if len(tr.Labels) != len(tr.Plan)+1 {
			return nil, fmt.Errorf("alias: trace %d: %w", ti, walk.ErrLengthMismatch)
		}
		for wi, w := range words {
			if len(w) == 0 || !tr.Plan.HasSuffix(w) {
				continue
			}
			cut := len(tr.Plan) - len(w)
			key := tr.Plan[:cut].String()
			e, ok := byPrefix[key]
			if !ok {
				e = &entry{
					anchor: Anchor{Trace: ti, Pos: cut},
					prefix: tr.Plan[:cut].Clone(),
					label:  tr.Labels[cut],
					seen:   make([]string, len(words)),
				}
				byPrefix[key] = e
				order = append(order, e)
			}
			if tr.Labels[cut] != e.label {
				return nil, fmt.Errorf("alias: prefix %q: labels %d and %d: %w",
					key, e.label, tr.Labels[cut], ErrLabelMismatch)
			}
			sig := signature(tr.Labels[cut:])
			switch {
			case e.seen[wi] == "":
				e.seen[wi] = sig
				e.have++
			case e.seen[wi] != sig:
				return nil, fmt.Errorf("alias: prefix %q word %d: %w", key, wi, ErrLabelMismatch)
			}
		}
	}

	out := make([]Print, 0, len(order))
	for _, e := range order {
		if e.have < len(words) {
			continue
		}
		out = append(out, Print{Anchor: e.anchor, Prefix: e.prefix, Key: strings.Join(e.seen, "")})
	}

	return out, nil
}

// Links joins every print to the first earlier print with the same key.
func Links(prints []Print) []Link {
	first := make(map[string]Anchor, len(prints))
	var out []Link
	for _, p := range prints {
		if a, ok := first[p.Key]; ok {
			out = append(out, Link{A: a, B: p.Anchor})
			continue
		}
		first[p.Key] = p.Anchor
	}

	return out
}
