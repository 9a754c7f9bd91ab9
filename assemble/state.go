package assemble

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/aedificium/alias"
	"github.com/katalvlaran/aedificium/unionfind"
	"github.com/katalvlaran/aedificium/walk"
)

// State is the explicit assembly state: traces, per-position identities, the
// identity forest and the door map. Door map keys are always representatives.
// It is not safe for concurrent use; Clone it to branch.
type State struct {
	traces []walk.Trace
	rooms  [][]RoomID
	uf     *unionfind.Set[RoomID]
	doors  DoorMap
	start  RoomID
	opts   Options
}

// NewState allocates one identity per walk position, with sequence numbers
// counted per label across all traces, and unions the starting positions.
//
// Errors: ErrNoTraces, walk.ErrLengthMismatch (a trace without one more label
// than doors), ErrLabelConflict (starts with different labels).
func NewState(traces []walk.Trace, opts ...Option) (*State, error) {
	if len(traces) == 0 {
		return nil, ErrNoTraces
	}
	for ti, tr := range traces {
		if len(tr.Labels) != len(tr.Plan)+1 {
			return nil, fmt.Errorf("assemble: trace %d: %d labels for %d doors: %w",
				ti, len(tr.Labels), len(tr.Plan), walk.ErrLengthMismatch)
		}
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	// 1. Allocate identities.
	var seq [walk.LabelCount]int
	s := &State{
		traces: traces,
		rooms:  make([][]RoomID, len(traces)),
		uf:     unionfind.New[RoomID](),
		doors:  make(DoorMap),
		opts:   o,
	}
	for ti, tr := range traces {
		ids := make([]RoomID, len(tr.Labels))
		for i, l := range tr.Labels {
			ids[i] = RoomID{Label: l, Seq: seq[l]}
			seq[l]++
			s.uf.Add(ids[i])
		}
		s.rooms[ti] = ids
	}

	// 2. Every walk starts in the same room.
	s.start = s.rooms[0][0]
	for ti := 1; ti < len(s.rooms); ti++ {
		if _, err := s.Union(s.start, s.rooms[ti][0]); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Union merges two identities and everything the merge forces: when both
// rows know the same door, the two destinations are one room as well. Rows
// are folded into the surviving representative as the forest changes, so the
// map never holds a stale key. It reports whether a and b were distinct.
//
// Steps:
//  1. Pop a pair and resolve both sides; equal sides are done.
//  2. Union them and fold the absorbed row into the surviving one.
//  3. A door known on both rows queues its two destinations.
//
// Errors: ErrLabelConflict when any forced pair has different labels.
func (s *State) Union(a, b RoomID) (bool, error) {
	if a.Label != b.Label {
		return false, fmt.Errorf("assemble: union %s with %s: %w", a, b, ErrLabelConflict)
	}
	merged := false
	queue := [][2]RoomID{{a, b}}
	for len(queue) > 0 {
		p := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		x, y := s.uf.Find(p[0]), s.uf.Find(p[1])
		if x == y {
			continue
		}
		if x.Label != y.Label {
			return merged, fmt.Errorf("assemble: union %s with %s: %w", x, y, ErrLabelConflict)
		}
		s.uf.Union(x, y)
		merged = true

		root, gone := x, y
		if s.uf.Find(x) != x {
			root, gone = y, x
		}
		absorbed, ok := s.doors[gone]
		if !ok {
			continue
		}
		delete(s.doors, gone)
		row := s.doors[root]
		for d := walk.Door(0); d < walk.DoorCount; d++ {
			if !absorbed.Has(d) {
				continue
			}
			if row.Has(d) {
				queue = append(queue, [2]RoomID{row.Dest[d], absorbed.Dest[d]})
				continue
			}
			row.Set(d, absorbed.Dest[d])
		}
		s.doors[root] = row
	}

	return merged, nil
}

// Same reports whether a and b are known to be the same room.
func (s *State) Same(a, b RoomID) bool { return s.uf.Same(a, b) }

// Find returns the current representative of id.
func (s *State) Find(id RoomID) RoomID { return s.uf.Find(id) }

// AliasPositions asserts that positions i and j of trace ti are the same room.
func (s *State) AliasPositions(ti, i, j int) (bool, error) {
	a, err := s.Identity(alias.Anchor{Trace: ti, Pos: i})
	if err != nil {
		return false, err
	}
	b, err := s.Identity(alias.Anchor{Trace: ti, Pos: j})
	if err != nil {
		return false, err
	}

	return s.Union(a, b)
}

// Identity returns the representative of the room at a trace position.
//
// Errors: ErrTraceIndex.
func (s *State) Identity(a alias.Anchor) (RoomID, error) {
	if a.Trace < 0 || a.Trace >= len(s.rooms) {
		return RoomID{}, fmt.Errorf("assemble: trace %d of %d: %w", a.Trace, len(s.rooms), ErrTraceIndex)
	}
	ids := s.rooms[a.Trace]
	if a.Pos < 0 || a.Pos >= len(ids) {
		return RoomID{}, fmt.Errorf("assemble: position %d of %d: %w", a.Pos, len(ids), ErrTraceIndex)
	}

	return s.uf.Find(ids[a.Pos]), nil
}

// ApplyLinks unions the positions joined by fingerprint links and returns how
// many unions changed the forest.
//
// Errors: ErrTraceIndex, ErrLabelConflict.
func (s *State) ApplyLinks(links []alias.Link) (int, error) {
	n := 0
	for _, l := range links {
		a, err := s.Identity(l.A)
		if err != nil {
			return n, err
		}
		b, err := s.Identity(l.B)
		if err != nil {
			return n, err
		}
		merged, err := s.Union(a, b)
		if err != nil {
			return n, fmt.Errorf("assemble: link %v-%v: %w", l.A, l.B, err)
		}
		if merged {
			n++
		}
	}

	return n, nil
}

// Record folds the transitions of trace ti into the door map. A second,
// different destination for a recorded (room, door) proves both destinations
// are one room; Union merges them together with everything that follows.
// It reports whether any union happened.
func (s *State) Record(ti int) (bool, error) {
	if ti < 0 || ti >= len(s.traces) {
		return false, fmt.Errorf("assemble: trace %d of %d: %w", ti, len(s.traces), ErrTraceIndex)
	}

	tr, ids := s.traces[ti], s.rooms[ti]
	changed := false
	for i, d := range tr.Plan {
		from, to := s.uf.Find(ids[i]), s.uf.Find(ids[i+1])
		row := s.doors[from]
		if !row.Has(d) {
			row.Set(d, to)
			s.doors[from] = row
			continue
		}
		if s.uf.Find(row.Dest[d]) == to {
			continue
		}
		if _, err := s.Union(row.Dest[d], to); err != nil {
			return changed, fmt.Errorf("assemble: trace %d step %d door %d from %s: %w", ti, i, d, from, err)
		}
		changed = true
	}

	return changed, nil
}

// Squash rewrites every destination and stored identity to its current
// representative. Keys are kept canonical by Union, so a second Squash
// changes nothing.
func (s *State) Squash() error {
	for k, row := range s.doors {
		for d := walk.Door(0); d < walk.DoorCount; d++ {
			if row.Has(d) {
				row.Dest[d] = s.uf.Find(row.Dest[d])
			}
		}
		s.doors[k] = row
	}
	for _, ids := range s.rooms {
		for i := range ids {
			ids[i] = s.uf.Find(ids[i])
		}
	}
	s.start = s.uf.Find(s.start)

	return nil
}

// Fixpoint alternates alias detection and recording over every trace until a
// full pass adds no union, then squashes. magics[ti] is the magic pattern of
// trace ti; a missing or empty pattern skips alias detection for that trace.
//
// Steps:
//  1. For each trace, detect magic aliases from the longest subpattern down
//     to MinPatternLen and union the aliased positions.
//  2. Record the trace's transitions; conflicting destinations merge.
//  3. Repeat while a pass changed anything, then Squash.
//
// Errors: ErrLabelConflict, alias.ErrLabelMismatch.
func (s *State) Fixpoint(magics []walk.Plan) error {
	for {
		changed := false
		for ti, tr := range s.traces {
			if ti < len(magics) && len(magics[ti]) > 0 {
				for _, p := range alias.Subpatterns(magics[ti], alias.WithMinPatternLen(s.opts.MinPatternLen)) {
					ms, err := alias.Detect(tr, p)
					if err != nil {
						return err
					}
					for _, m := range ms {
						for _, pr := range m.Pairs() {
							merged, err := s.AliasPositions(ti, pr.A, pr.B)
							if err != nil {
								return err
							}
							changed = changed || merged
						}
					}
				}
			}
			merged, err := s.Record(ti)
			if err != nil {
				return err
			}
			changed = changed || merged
		}
		if err := s.Squash(); err != nil {
			return err
		}
		if !changed {
			return nil
		}
	}
}

// RecordAll records every trace without alias detection, then squashes.
func (s *State) RecordAll() error {
	return s.Fixpoint(nil)
}

// Clone returns a deep copy; traces are immutable and shared.
func (s *State) Clone() *State {
	c := &State{
		traces: s.traces,
		rooms:  make([][]RoomID, len(s.rooms)),
		uf:     s.uf.Copy(),
		doors:  make(DoorMap, len(s.doors)),
		start:  s.start,
		opts:   s.opts,
	}
	for i, ids := range s.rooms {
		c.rooms[i] = append([]RoomID(nil), ids...)
	}
	for k, v := range s.doors {
		c.doors[k] = v
	}

	return c
}

// Compact returns a squashed copy that keeps one identity per room and drops
// the traces. Its forest holds only representatives, so cloning it costs
// O(rooms) instead of O(walk positions). Record and AliasPositions are not
// available on the result.
func (s *State) Compact() *State {
	reps := s.Rooms()
	c := &State{
		rooms: [][]RoomID{reps},
		uf:    unionfind.New(reps...),
		doors: make(DoorMap, len(s.doors)),
		start: s.Start(),
		opts:  s.opts,
	}
	for k := range s.doors {
		c.doors[k] = s.Row(k)
	}

	return c
}

// Traces returns the observed traces; nil on a compacted state.
func (s *State) Traces() []walk.Trace { return s.traces }

// Start returns the representative of the starting room.
func (s *State) Start() RoomID { return s.uf.Find(s.start) }

// Positions returns the identities of trace ti, canonical as of the last Squash.
func (s *State) Positions(ti int) []RoomID {
	return append([]RoomID(nil), s.rooms[ti]...)
}

// Rooms returns the distinct representatives of all walk positions, sorted.
func (s *State) Rooms() []RoomID {
	seen := make(map[RoomID]struct{})
	var out []RoomID
	for _, ids := range s.rooms {
		for _, id := range ids {
			r := s.uf.Find(id)
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })

	return out
}

// LabelCounts returns the number of distinct rooms per label.
func (s *State) LabelCounts() [walk.LabelCount]int {
	var c [walk.LabelCount]int
	for _, r := range s.Rooms() {
		c[r.Label]++
	}

	return c
}

// Row returns the known doors of room id's representative, with every
// destination resolved to its representative.
func (s *State) Row(id RoomID) Row {
	row := s.doors[s.uf.Find(id)]
	for d := walk.Door(0); d < walk.DoorCount; d++ {
		if row.Has(d) {
			row.Dest[d] = s.uf.Find(row.Dest[d])
		}
	}

	return row
}

// Doors returns a copy of the door map. Call Squash first for canonical
// destinations.
func (s *State) Doors() DoorMap {
	out := make(DoorMap, len(s.doors))
	for k, v := range s.doors {
		out[k] = v
	}

	return out
}

// Consistent reports whether the map can still extend to a perfect matching:
// for every room pair the recorded a→b doors do not exceed the recorded b→a
// doors plus b's unknown doors.
func (s *State) Consistent() bool {
	counts := make(map[[2]RoomID]int)
	for k := range s.doors {
		row := s.Row(k)
		for d := walk.Door(0); d < walk.DoorCount; d++ {
			if row.Has(d) && row.Dest[d] != k {
				counts[[2]RoomID{k, row.Dest[d]}]++
			}
		}
	}
	for pair, n := range counts {
		b := s.doors[pair[1]]
		back := counts[[2]RoomID{pair[1], pair[0]}]
		if n > back+len(b.Unknown()) {
			return false
		}
	}

	return true
}
