package exhaustive

import (
	"encoding/binary"
	"fmt"

	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/walk"
)

// unknown marks an unresolved door or an unlabeled room.
const unknown int8 = -1

type room struct {
	label int8
	doors [walk.DoorCount]int8
}

var blank = room{
	label: unknown,
	doors: [walk.DoorCount]int8{unknown, unknown, unknown, unknown, unknown, unknown},
}

// state is one search frame. Rooms [0, used) are labelled; the rest are blank.
// The frame stands at position pos of trace ti, in room cur.
type state struct {
	rooms []room
	used  int
	cur   int
	ti    int
	pos   int
}

func (s *state) clone() *state {
	c := *s
	c.rooms = append([]room(nil), s.rooms...)

	return &c
}

// link takes door d of the current room into room to.
func (s *state) link(d walk.Door, to int) {
	s.rooms[s.cur].doors[d] = int8(to)
	s.cur = to
	s.pos++
}

// advance follows known doors until an unknown one or the end of the last
// trace. Finishing a trace restarts the walk in room 0 at the next one.
// It reports false on a label contradiction.
func (s *state) advance(traces []walk.Trace) bool {
	for {
		tr := traces[s.ti]
		if s.pos == len(tr.Plan) {
			if s.ti == len(traces)-1 {
				return true
			}
			s.ti++
			s.pos, s.cur = 0, 0
			if s.rooms[0].label != int8(traces[s.ti].Labels[0]) {
				return false
			}
			continue
		}
		next := s.rooms[s.cur].doors[tr.Plan[s.pos]]
		if next == unknown {
			return true
		}
		if s.rooms[next].label != int8(tr.Labels[s.pos+1]) {
			return false
		}
		s.cur = int(next)
		s.pos++
	}
}

// done reports whether the frame consumed every trace.
func (s *state) done(traces []walk.Trace) bool {
	return s.ti == len(traces)-1 && s.pos == len(traces[s.ti].Plan)
}

// signature packs used, the labelled rooms, the current room and the trace
// position. Blank rooms are identical and left out.
func (s *state) signature() string {
	b := make([]byte, 0, 2+s.used*(1+walk.DoorCount)+2*binary.MaxVarintLen64)
	b = append(b, byte(s.used), byte(s.cur))
	for _, r := range s.rooms[:s.used] {
		b = append(b, byte(r.label))
		for _, d := range r.doors {
			b = append(b, byte(d))
		}
	}
	b = binary.AppendUvarint(b, uint64(s.ti))
	b = binary.AppendUvarint(b, uint64(s.pos))

	return string(b)
}

// feasible reports whether every labelled room pair can still be balanced:
// doors a→b must not outnumber doors b→a plus b's free doors.
func (s *state) feasible() bool {
	u := s.used
	cnt := make([]int, u*u)
	free := make([]int, u)
	for a := 0; a < u; a++ {
		for _, to := range s.rooms[a].doors {
			switch {
			case to == unknown:
				free[a]++
			case int(to) != a:
				cnt[a*u+int(to)]++
			}
		}
	}
	for a := 0; a < u; a++ {
		for b := 0; b < u; b++ {
			if a != b && cnt[a*u+b] > cnt[b*u+a]+free[b] {
				return false
			}
		}
	}

	return true
}

// Solve reconstructs an n-room graph that reproduces every trace. All traces
// start in room 0 and are replayed in order.
//
// Steps:
//  1. Validate the traces; room 0 carries the first label.
//  2. Pop a frame, follow known doors and drop it when already visited.
//  3. Accept a frame that consumed every trace and finishes into a graph.
//  4. Otherwise branch the next unknown door over candidate rooms.
//
// Errors: ErrRoomCount, ErrNoTraces, walk.ErrLengthMismatch (a trace without
// one more label than doors), walk.ErrLabelOutOfRange, ErrNoSolution,
// ErrBudgetExceeded.
//
// Complexity: exponential in the worst case; each frame costs O(n²).
func Solve(n int, traces []walk.Trace, opts ...Option) (*graph.Graph, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if n < 1 || n > MaxRooms {
		return nil, fmt.Errorf("exhaustive: n=%d: %w", n, ErrRoomCount)
	}
	if len(traces) == 0 {
		return nil, ErrNoTraces
	}
	for ti, tr := range traces {
		if len(tr.Labels) != len(tr.Plan)+1 {
			return nil, fmt.Errorf("exhaustive: trace %d: %d labels for %d doors: %w",
				ti, len(tr.Labels), len(tr.Plan), walk.ErrLengthMismatch)
		}
		for i, l := range tr.Labels {
			if !l.Valid() {
				return nil, fmt.Errorf("exhaustive: trace %d position %d: %w", ti, i, walk.ErrLabelOutOfRange)
			}
		}
	}
	_, hi := walk.LabelBounds(n)

	// 1. Room 0 is the start and carries the first label.
	root := &state{rooms: make([]room, n), used: 1}
	for i := range root.rooms {
		root.rooms[i] = blank
	}
	root.rooms[0].label = int8(traces[0].Labels[0])

	visited := make(map[string]struct{})
	stack := []*state{root}
	steps := 0
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		steps++
		if o.MaxSteps > 0 && steps > o.MaxSteps {
			return nil, fmt.Errorf("exhaustive: %d steps: %w", o.MaxSteps, ErrBudgetExceeded)
		}

		// 2. Deterministic moves, then the memo.
		if !s.advance(traces) {
			continue
		}
		sig := s.signature()
		if _, ok := visited[sig]; ok {
			continue
		}
		visited[sig] = struct{}{}

		// 3. End of the last trace.
		if s.done(traces) {
			if g := finish(s, n, o.Closure); g != nil {
				o.Logger.Info("exhaustive: solved", "rooms", n, "steps", steps, "states", len(visited))

				return g, nil
			}
			continue
		}

		// 4. Branch: existing rooms with the observed label in index order,
		//    then one fresh room. Pushed in reverse so the lowest index pops first.
		tr := traces[s.ti]
		d := tr.Plan[s.pos]
		want := int8(tr.Labels[s.pos+1])
		var cands []int
		for i := 0; i < s.used; i++ {
			if s.rooms[i].label == want {
				cands = append(cands, i)
			}
		}
		if len(cands) < hi && s.used < n {
			c := s.clone()
			c.rooms[c.used].label = want
			c.used++
			c.link(d, c.used-1)
			if c.feasible() {
				stack = append(stack, c)
			}
		}
		for i := len(cands) - 1; i >= 0; i-- {
			c := s.clone()
			c.link(d, cands[i])
			if c.feasible() {
				stack = append(stack, c)
			}
		}
	}
	o.Logger.Debug("exhaustive: exhausted", "steps", steps, "states", len(visited))

	return nil, fmt.Errorf("exhaustive: n=%d after %d steps: %w", n, steps, ErrNoSolution)
}

// finish turns a terminal frame into a graph, or returns nil when the frame
// is not acceptable.
func finish(s *state, n int, closure bool) *graph.Graph {
	rooms := append([]room(nil), s.rooms...)
	lo, hi := walk.LabelBounds(n)

	// 1. Labels: fill blank rooms up to the floor first, then the ceiling.
	var counts [walk.LabelCount]int
	for _, r := range rooms[:s.used] {
		counts[r.label]++
	}
	if s.used < n {
		if !closure {
			return nil
		}
		for i := s.used; i < n; i++ {
			l := pickLabel(counts, lo, hi)
			if l < 0 {
				return nil
			}
			rooms[i].label = int8(l)
			counts[l]++
		}
	}
	if !walk.CountsBalanced(counts, n) {
		return nil
	}

	// 2. Doors.
	open := false
	for _, r := range rooms {
		for _, to := range r.doors {
			open = open || to == unknown
		}
	}
	if open {
		if !closure {
			return nil
		}
		closeDoors(rooms)
	}

	// 3. Pairing; unbalanced pairs are rejected by FromDestinations.
	labels := make([]walk.Label, n)
	dests := make([][walk.DoorCount]int, n)
	for i, r := range rooms {
		labels[i] = walk.Label(r.label)
		for d, to := range r.doors {
			dests[i][d] = int(to)
		}
	}
	g, err := graph.FromDestinations(labels, dests, 0)
	if err != nil {
		return nil
	}

	return g
}

func pickLabel(counts [walk.LabelCount]int, lo, hi int) int {
	for l, c := range counts {
		if c < lo {
			return l
		}
	}
	for l, c := range counts {
		if c < hi {
			return l
		}
	}

	return -1
}

// closeDoors gives every room its missing doors back from rooms that owe it
// one, then turns what is left into self-loops.
func closeDoors(rooms []room) {
	count := func(a, b int) int {
		k := 0
		for _, to := range rooms[a].doors {
			if int(to) == b {
				k++
			}
		}

		return k
	}
	for a := range rooms {
		for b := range rooms {
			if a == b {
				continue
			}
			deficit := count(a, b) - count(b, a)
			for d := range rooms[b].doors {
				if deficit <= 0 {
					break
				}
				if rooms[b].doors[d] == unknown {
					rooms[b].doors[d] = int8(a)
					deficit--
				}
			}
		}
	}
	for i := range rooms {
		for d, to := range rooms[i].doors {
			if to == unknown {
				rooms[i].doors[d] = int8(i)
			}
		}
	}
}
