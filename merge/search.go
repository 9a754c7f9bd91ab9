package merge

import (
	"fmt"

	"github.com/katalvlaran/aedificium/assemble"
	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/unionfind"
	"github.com/katalvlaran/aedificium/walk"
)

// frame is one search state: a private state snapshot, the next decision
// index and the pairs decided apart so far. The apart slice is shared between
// frames and only ever extended through a full slice expression.
type frame struct {
	st    *assemble.State
	idx   int
	apart []Pair
}

// Search merges identities of s until exactly n rooms remain and the result
// completes to a valid graph. s itself is never modified; the search runs on
// a compacted copy that holds one identity per room.
//
// Steps:
//  1. Compact the state and run the eager merges.
//  2. List the candidate pairs.
//  3. Pop a frame. Accept it at n rooms, drop it below n or when the label
//     bounds can no longer be met.
//  4. Decide the next pair: keep it apart (binding), or merge it and drop the
//     branch if propagation joined a pair decided apart.
//
// Errors: ErrRoomCount, ErrNotMergeable, ErrBudgetExceeded.
//
// Complexity: exponential in the number of candidate pairs in the worst case;
// bounded by MaxSteps frames, each O(P·R) for P pairs and R rooms.
func Search(s *assemble.State, n int, opts ...Option) (*Result, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if n <= 0 {
		return nil, fmt.Errorf("merge: n=%d: %w", n, ErrRoomCount)
	}

	// 1. Private canonical copy.
	st := s.Compact()
	res := &Result{}
	if o.EagerThreshold > 0 {
		st, res.Eager = eagerMerge(st, o.EagerThreshold)
	}

	// 2. Candidate pairs.
	pairs := Candidates(st)
	res.Pairs = len(pairs)
	o.Logger.Debug("merge: search start",
		"rooms", len(st.Rooms()), "target", n, "eager", res.Eager, "pairs", len(pairs))

	// 3. Depth-first search; the merge branch is pushed last so it pops first.
	lo, _ := walk.LabelBounds(n)
	stack := []frame{{st: st}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		res.Steps++
		if o.MaxSteps > 0 && res.Steps > o.MaxSteps {
			return nil, fmt.Errorf("merge: %d steps, %d frames pending: %w",
				o.MaxSteps, len(stack), ErrBudgetExceeded)
		}

		// 3.1 Merges only lower counts: below target is dead, at target is terminal.
		counts := f.st.LabelCounts()
		total := 0
		for _, c := range counts {
			total += c
		}
		if total < n {
			continue
		}
		if total == n {
			if done, g := accept(f.st, n); done != nil {
				res.State, res.Graph = done, g
				o.Logger.Info("merge: accepted", "rooms", n, "steps", res.Steps)

				return res, nil
			}
			continue
		}
		if f.idx >= len(pairs) {
			continue
		}

		// 3.2 Every label must still be able to land in ⌊N/4⌋..⌈N/4⌉.
		if !Viable(counts, Reachable(f.st, pairs[f.idx:]), n) {
			continue
		}

		// 3.3 Already merged by propagation: nothing to decide.
		p := pairs[f.idx]
		if f.st.Same(p.A, p.B) {
			stack = append(stack, frame{st: f.st, idx: f.idx + 1, apart: f.apart})
			continue
		}

		// 3.4 Keep apart, then merge.
		apart := append(f.apart[:len(f.apart):len(f.apart)], p)
		stack = append(stack, frame{st: f.st, idx: f.idx + 1, apart: apart})
		if counts[p.A.Label] <= lo || !Feasible(f.st, p.A, p.B) {
			continue
		}
		c := f.st.Clone()
		if _, err := c.Union(p.A, p.B); err != nil {
			continue
		}
		if joinsApart(c, f.apart) {
			continue
		}
		if err := c.Squash(); err != nil {
			continue
		}
		stack = append(stack, frame{st: c, idx: f.idx + 1, apart: f.apart})
	}

	o.Logger.Debug("merge: exhausted", "steps", res.Steps)

	return nil, fmt.Errorf("merge: %d pairs, %d steps: %w", len(pairs), res.Steps, ErrNotMergeable)
}

// Reachable returns, per label, the fewest rooms st can still be merged down
// to using only the given pairs: the label's connected components once every
// pair that is still Feasible is taken as an edge. Propagated merges join
// feasible pairs too, so the count is a lower bound for every descendant.
func Reachable(st *assemble.State, pairs []Pair) [walk.LabelCount]int {
	out := st.LabelCounts()
	comp := unionfind.New[assemble.RoomID]()
	for _, p := range pairs {
		a, b := st.Find(p.A), st.Find(p.B)
		if a == b || comp.Same(a, b) || !Feasible(st, a, b) {
			continue
		}
		comp.Union(a, b)
		out[a.Label]--
	}

	return out
}

// Viable reports whether some final count per label lies between least[l]
// and counts[l], within ⌊n/4⌋..⌈n/4⌉, and sums to n. A label whose bounds
// meet is settled.
func Viable(counts, least [walk.LabelCount]int, n int) bool {
	var settled [walk.LabelCount]bool
	for l := range counts {
		settled[l] = least[l] >= counts[l]
	}
	if !walk.CountsFeasible(counts, settled, n) {
		return false
	}

	lo, hi := walk.LabelBounds(n)
	low, high := 0, 0
	for l := range counts {
		if counts[l] < lo || least[l] > hi {
			return false
		}
		low += max(least[l], lo)
		high += min(counts[l], hi)
	}

	return low <= n && n <= high
}

// joinsApart reports whether st merged a pair that was decided apart.
func joinsApart(st *assemble.State, apart []Pair) bool {
	for _, q := range apart {
		if st.Same(q.A, q.B) {
			return true
		}
	}

	return false
}

// accept completes a copy of st and returns it with its graph, or nil when st
// is not a valid terminal state.
func accept(st *assemble.State, n int) (*assemble.State, *graph.Graph) {
	if !walk.CountsBalanced(st.LabelCounts(), n) || !st.Consistent() {
		return nil, nil
	}
	c := st.Clone()
	if err := c.Complete(); err != nil {
		return nil, nil
	}
	g, err := c.Graph()
	if err != nil || g.Validate(n) != nil {
		return nil, nil
	}

	return c, g
}

// Candidates lists the feasible same-label pairs of distinct rooms, ordered
// by label, then by identities.
func Candidates(st *assemble.State) []Pair {
	rooms := st.Rooms()
	var out []Pair
	for i := 0; i < len(rooms); i++ {
		for j := i + 1; j < len(rooms) && rooms[j].Label == rooms[i].Label; j++ {
			if Feasible(st, rooms[i], rooms[j]) {
				out = append(out, Pair{A: rooms[i], B: rooms[j]})
			}
		}
	}

	return out
}

// eagerMerge repeatedly merges pairs with at least k agreeing common doors
// until a full pass merges nothing. A merge that fails is skipped.
func eagerMerge(st *assemble.State, k int) (*assemble.State, int) {
	merged := 0
	for {
		changed := false
		rooms := st.Rooms()
		for i := 0; i < len(rooms); i++ {
			for j := i + 1; j < len(rooms) && rooms[j].Label == rooms[i].Label; j++ {
				a, b := rooms[i], rooms[j]
				if st.Same(a, b) || !Similar(st, a, b, k) || !Feasible(st, a, b) {
					continue
				}
				c := st.Clone()
				if _, err := c.Union(a, b); err != nil {
					continue
				}
				if err := c.Squash(); err != nil {
					continue
				}
				st = c
				merged++
				changed = true
			}
		}
		if !changed {
			return st, merged
		}
	}
}
